package questions

import (
	"github.com/asknori/noriassist/internal/answers"
	"github.com/asknori/noriassist/internal/voiceform"
)

// CV builds the question list for the CV builder form. Personal details come
// first, then the tailoring questions that the build context enables. The
// returned order is the presentation order.
func CV(snapshot map[string]any, bctx voiceform.BuildContext) []voiceform.Question {
	var qs []voiceform.Question

	qs = appendUnanswered(qs, snapshot, voiceform.Question{
		Name:     "firstName",
		Prompt:   "What is your first name?",
		Required: true,
	})
	qs = appendUnanswered(qs, snapshot, voiceform.Question{
		Name:     "lastName",
		Prompt:   "What is your last name?",
		Required: true,
	})
	qs = appendUnanswered(qs, snapshot, voiceform.Question{
		Name:     "email",
		Prompt:   "What is your email?",
		Required: true,
		Parse:    func(text string) any { return answers.NormalizeEmail(text) },
	})
	qs = appendUnanswered(qs, snapshot, voiceform.Question{
		Name:     "phone",
		Prompt:   "What is your phone number?",
		Required: true,
	})
	qs = appendUnanswered(qs, snapshot, voiceform.Question{
		Name:   "location",
		Prompt: "Where are you currently located?",
	})

	if !bctx.HasParsedCV || bctx.FormatOption == "country" {
		qs = appendUnanswered(qs, snapshot, voiceform.Question{
			Name:     "targetCountry",
			Prompt:   "Which country are you targeting?",
			Required: true,
			Options:  Countries,
			Parse:    optionParse(Countries),
		})
	}
	if bctx.HasParsedCV && bctx.FormatOption == "company" {
		qs = appendUnanswered(qs, snapshot, voiceform.Question{
			Name:     "targetCompany",
			Prompt:   "Which company are you applying to?",
			Required: true,
		})
	}
	if bctx.HasParsedCV && bctx.FormatOption == "role" {
		qs = appendUnanswered(qs, snapshot, voiceform.Question{
			Name:     "targetRole",
			Prompt:   "Which role are you applying for?",
			Required: true,
		})
	}

	return qs
}
