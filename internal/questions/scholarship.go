package questions

import (
	"github.com/asknori/noriassist/internal/answers"
	"github.com/asknori/noriassist/internal/schema"
	"github.com/asknori/noriassist/internal/voiceform"
)

// Scholarship builds the question list for the scholarship finder form.
func Scholarship(snapshot map[string]any, _ voiceform.BuildContext) []voiceform.Question {
	var qs []voiceform.Question

	qs = appendUnanswered(qs, snapshot, voiceform.Question{
		Name:     "citizenship",
		Prompt:   "What is your country of citizenship?",
		Required: true,
		Options:  Countries,
		Parse:    optionParse(Countries),
	})
	qs = appendUnanswered(qs, snapshot, voiceform.Question{
		Name:     "studyLevel",
		Prompt:   "What level do you want to study at? Bachelors, Masters, or PhD?",
		Required: true,
		Options:  schema.StudyLevels,
		Parse:    optionParse(schema.StudyLevels),
	})
	qs = appendUnanswered(qs, snapshot, voiceform.Question{
		Name:     "field",
		Prompt:   "What is your field of study?",
		Required: true,
		Options:  schema.StudyFields,
		Parse:    optionParse(schema.StudyFields),
	})
	qs = appendUnanswered(qs, snapshot, voiceform.Question{
		Name:     "preferredCountry",
		Prompt:   "Which country would you prefer to study in?",
		Required: true,
		Options:  Countries,
		Parse:    optionParse(Countries),
	})
	qs = appendUnanswered(qs, snapshot, voiceform.Question{
		Name:   "performance",
		Prompt: "What is your academic performance or GPA?",
	})
	qs = appendUnanswered(qs, snapshot, voiceform.Question{
		Name:   "intake",
		Prompt: "When is your intended intake?",
		Parse:  func(text string) any { return answers.ParseDate(text) },
	})

	return qs
}

// SOP builds the question list for the SOP builder form.
func SOP(snapshot map[string]any, _ voiceform.BuildContext) []voiceform.Question {
	var qs []voiceform.Question

	qs = appendUnanswered(qs, snapshot, voiceform.Question{
		Name:     "name",
		Prompt:   "What is your full name?",
		Required: true,
	})
	qs = appendUnanswered(qs, snapshot, voiceform.Question{
		Name:     "countryOfOrigin",
		Prompt:   "What is your country of origin?",
		Required: true,
		Options:  Countries,
		Parse:    optionParse(Countries),
	})
	qs = appendUnanswered(qs, snapshot, voiceform.Question{
		Name:     "intendedDegree",
		Prompt:   "Which degree do you intend to pursue? Bachelors, Masters, or PhD?",
		Required: true,
		Options:  schema.StudyLevels,
		Parse:    optionParse(schema.StudyLevels),
	})
	qs = appendUnanswered(qs, snapshot, voiceform.Question{
		Name:     "preferredCountryOfStudy",
		Prompt:   "Which country would you like to study in?",
		Required: true,
		Options:  Countries,
		Parse:    optionParse(Countries),
	})
	qs = appendUnanswered(qs, snapshot, voiceform.Question{
		Name:     "preferredFieldOfStudy",
		Prompt:   "What is your preferred field of study?",
		Required: true,
		Options:  schema.StudyFields,
		Parse:    optionParse(schema.StudyFields),
	})
	qs = appendUnanswered(qs, snapshot, voiceform.Question{
		Name:     "preferredUniversity",
		Prompt:   "Which university are you applying to?",
		Required: true,
	})
	qs = appendUnanswered(qs, snapshot, voiceform.Question{
		Name:   "graduationYear",
		Prompt: "When did you graduate, or when will you?",
		Parse:  func(text string) any { return answers.ParseDate(text) },
	})

	return qs
}

// ForForm returns the builder registered for the given form kind, or nil when
// the kind is unknown.
func ForForm(kind string) voiceform.Builder {
	switch kind {
	case "cv":
		return CV
	case "scholarship":
		return Scholarship
	case "sop":
		return SOP
	}
	return nil
}
