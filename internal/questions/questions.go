// Package questions holds the question list builders for the voice-driven
// wizard forms. A builder is a pure function of the current form snapshot and
// build context: already-answered fields are not asked again, and conditional
// questions (tailoring fields, parsed-CV variants) appear only when the
// context calls for them. Builders are recomputed fresh at every run start,
// so a later answer can change the question set of the next run — never of
// the current one.
package questions

import (
	"strings"

	"github.com/asknori/noriassist/internal/answers"
	"github.com/asknori/noriassist/internal/voiceform"
)

// Countries is the country choice set offered by the wizard dropdowns.
var Countries = []string{
	"Australia", "Canada", "France", "Germany", "Ireland",
	"Netherlands", "New Zealand", "Singapore", "United Kingdom", "United States",
}

// matcher snaps spoken answers onto enumerated choice sets. Shared across
// builders; read-only after construction.
var matcher = answers.NewOptionMatcher()

// optionParse returns a Parse function that maps a transcript onto the
// closest member of options, passing the raw text through when nothing
// matches so validation can reject it with the schema's message.
func optionParse(options []string) func(string) any {
	return func(text string) any {
		matched, _ := matcher.Match(text, options)
		return matched
	}
}

// answered reports whether the snapshot already holds a non-blank string for
// name. Builders use it to skip fields the respondent has typed by hand.
func answered(snapshot map[string]any, name string) bool {
	v, ok := snapshot[name]
	if !ok {
		return false
	}
	s, isStr := v.(string)
	return isStr && strings.TrimSpace(s) != ""
}

// appendUnanswered appends q unless its field is already filled.
func appendUnanswered(qs []voiceform.Question, snapshot map[string]any, q voiceform.Question) []voiceform.Question {
	if answered(snapshot, q.Name) {
		return qs
	}
	return append(qs, q)
}
