// Package schema implements the cross-field form validators for the Ask Nori
// wizard forms. A [Schema] is a declarative rule set evaluated against the
// complete form snapshot; validating a single candidate field still evaluates
// the whole schema and then filters the issues down to that field, because
// several fields are required only conditionally on other answers and on the
// build context (parsed-CV presence and the selected format option).
package schema

import (
	"fmt"
	"maps"
	"regexp"
	"strings"

	"github.com/asknori/noriassist/internal/voiceform"
)

// Context carries the two contextual parameters that influence which fields
// the schema treats as required.
type Context struct {
	// HasParsedCV reports whether an uploaded CV was parsed into the form.
	HasParsedCV bool

	// FormatOption selects the CV tailoring mode: "country", "company", or
	// "role". Empty means no tailoring.
	FormatOption string
}

// Issue is one validation failure, addressed to a single field.
type Issue struct {
	Field   string
	Message string
}

// FieldRule describes the validity constraints of one field.
type FieldRule struct {
	// Field is the form-store key the rule applies to.
	Field string

	// RequiredMessage, when non-empty, makes the field required: a missing or
	// blank value yields this message. Conditional requirements combine this
	// with When.
	RequiredMessage string

	// When optionally gates the rule. A nil When means the rule always
	// applies; otherwise the rule is evaluated only when When returns true
	// for the current context and snapshot.
	When func(ctx Context, snapshot map[string]any) bool

	// Check optionally validates a non-blank value and returns an error
	// message, or "" when the value is acceptable.
	Check func(value any, snapshot map[string]any) string
}

// Schema is an immutable rule set bound to a [Context]. It implements
// [voiceform.Validator]. Safe for concurrent use.
type Schema struct {
	ctx   Context
	rules []FieldRule
}

var _ voiceform.Validator = (*Schema)(nil)

// New creates a Schema from the given rules.
func New(ctx Context, rules []FieldRule) *Schema {
	rs := make([]FieldRule, len(rules))
	copy(rs, rules)
	return &Schema{ctx: ctx, rules: rs}
}

// Evaluate runs every applicable rule against the snapshot and returns all
// issues found, in rule order.
func (s *Schema) Evaluate(snapshot map[string]any) []Issue {
	var issues []Issue
	for _, r := range s.rules {
		if r.When != nil && !r.When(s.ctx, snapshot) {
			continue
		}
		value, present := snapshot[r.Field]
		blank := !present || isBlank(value)

		if r.RequiredMessage != "" && blank {
			issues = append(issues, Issue{Field: r.Field, Message: r.RequiredMessage})
			continue
		}
		if blank || r.Check == nil {
			continue
		}
		if msg := r.Check(value, snapshot); msg != "" {
			issues = append(issues, Issue{Field: r.Field, Message: msg})
		}
	}
	return issues
}

// Validate applies the candidate value to a copy of the snapshot, evaluates
// the whole schema, and reports only issues addressed to the candidate field.
// A field with no issue of its own is valid even when other fields are still
// incomplete — that is what lets a voice run fill fields one at a time.
func (s *Schema) Validate(field string, value any, snapshot map[string]any) voiceform.Result {
	tentative := make(map[string]any, len(snapshot)+1)
	maps.Copy(tentative, snapshot)
	tentative[field] = value

	for _, issue := range s.Evaluate(tentative) {
		if issue.Field == field {
			return voiceform.Result{Valid: false, Message: issue.Message}
		}
	}
	return voiceform.Result{Valid: true}
}

// isBlank reports whether a value counts as unanswered: empty/whitespace
// strings and nils. Non-string values are never blank.
func isBlank(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// asString renders a candidate value for pattern checks.
func asString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

// ─── Shared value checks ──────────────────────────────────────────────────────

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[+]?[-()\s\d]{10,}$`)
	datePattern  = regexp.MustCompile(`^\d{4}(-\d{2}-\d{2})?$`)
)

// CheckEmail validates an email address format.
func CheckEmail(value any, _ map[string]any) string {
	if !emailPattern.MatchString(strings.TrimSpace(asString(value))) {
		return "Please enter a valid email address"
	}
	return ""
}

// CheckPhone validates a phone number: optional leading +, then at least ten
// digits, spaces, parentheses, or dashes.
func CheckPhone(value any, _ map[string]any) string {
	if !phonePattern.MatchString(strings.TrimSpace(asString(value))) {
		return "Please enter a valid phone number"
	}
	return ""
}

// CheckDate validates an ISO date ("2006-01-02") or a bare year.
func CheckDate(value any, _ map[string]any) string {
	if !datePattern.MatchString(strings.TrimSpace(asString(value))) {
		return "Please enter a valid date"
	}
	return ""
}

// CheckOneOf returns a check that accepts only members of the given option
// set (case-insensitive).
func CheckOneOf(options []string, message string) func(value any, snapshot map[string]any) string {
	return func(value any, _ map[string]any) string {
		v := strings.TrimSpace(asString(value))
		for _, opt := range options {
			if strings.EqualFold(v, opt) {
				return ""
			}
		}
		return message
	}
}
