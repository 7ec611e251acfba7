package questions

import (
	"testing"

	"github.com/asknori/noriassist/internal/voiceform"
)

func names(qs []voiceform.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Name
	}
	return out
}

func contains(qs []voiceform.Question, name string) bool {
	for _, q := range qs {
		if q.Name == name {
			return true
		}
	}
	return false
}

func TestCVPersonalDetailsComeFirst(t *testing.T) {
	t.Parallel()

	qs := CV(nil, voiceform.BuildContext{})
	got := names(qs)
	want := []string{"firstName", "lastName", "email", "phone", "location"}
	if len(got) < len(want) {
		t.Fatalf("questions = %v", got)
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("question[%d] = %s, want %s", i, got[i], w)
		}
	}
}

func TestCVSkipsAnsweredFields(t *testing.T) {
	t.Parallel()

	snapshot := map[string]any{
		"firstName": "Asha",
		"lastName":  "Rao",
		"email":     "", // blank still counts as unanswered
	}
	qs := CV(snapshot, voiceform.BuildContext{})
	if contains(qs, "firstName") || contains(qs, "lastName") {
		t.Errorf("answered fields must not be asked again: %v", names(qs))
	}
	if !contains(qs, "email") {
		t.Errorf("blank field must still be asked: %v", names(qs))
	}
}

func TestCVConditionalTailoringQuestions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		bctx    voiceform.BuildContext
		present []string
		absent  []string
	}{
		{
			name:    "no parsed cv",
			bctx:    voiceform.BuildContext{},
			present: []string{"targetCountry"},
			absent:  []string{"targetCompany", "targetRole", "jobDescription"},
		},
		{
			name:    "parsed cv with country option",
			bctx:    voiceform.BuildContext{HasParsedCV: true, FormatOption: "country"},
			present: []string{"targetCountry"},
			absent:  []string{"targetCompany", "targetRole"},
		},
		{
			name:    "parsed cv with company option",
			bctx:    voiceform.BuildContext{HasParsedCV: true, FormatOption: "company"},
			present: []string{"targetCompany", "jobDescription"},
			absent:  []string{"targetCountry", "targetRole"},
		},
		{
			name:    "parsed cv with role option",
			bctx:    voiceform.BuildContext{HasParsedCV: true, FormatOption: "role"},
			present: []string{"targetRole", "jobDescription"},
			absent:  []string{"targetCountry", "targetCompany"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			qs := CV(nil, tc.bctx)
			for _, p := range tc.present {
				if !contains(qs, p) {
					t.Errorf("missing %s in %v", p, names(qs))
				}
			}
			for _, a := range tc.absent {
				if contains(qs, a) {
					t.Errorf("unexpected %s in %v", a, names(qs))
				}
			}
		})
	}
}

func TestCVCountryQuestionSnapsSpokenAnswers(t *testing.T) {
	t.Parallel()

	qs := CV(nil, voiceform.BuildContext{})
	var country *voiceform.Question
	for i := range qs {
		if qs[i].Name == "targetCountry" {
			country = &qs[i]
		}
	}
	if country == nil {
		t.Fatalf("targetCountry missing from %v", names(qs))
	}
	if country.Parse == nil {
		t.Fatal("targetCountry has no Parse function")
	}
	if got := country.Parse("canada"); got != "Canada" {
		t.Errorf("Parse(canada) = %v, want Canada", got)
	}
	// Unmatchable answers pass through for the schema to reject.
	if got := country.Parse("the moon"); got != "the moon" {
		t.Errorf("Parse(the moon) = %v, want passthrough", got)
	}
}

func TestScholarshipQuestionOrder(t *testing.T) {
	t.Parallel()

	qs := Scholarship(nil, voiceform.BuildContext{})
	got := names(qs)
	want := []string{"citizenship", "studyLevel", "field", "preferredCountry", "performance", "intake"}
	if len(got) != len(want) {
		t.Fatalf("questions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("question[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScholarshipIntakeParsesDates(t *testing.T) {
	t.Parallel()

	qs := Scholarship(nil, voiceform.BuildContext{})
	for _, q := range qs {
		if q.Name != "intake" {
			continue
		}
		if got := q.Parse("September 2025"); got != "2025-09-01" {
			t.Errorf("Parse(September 2025) = %v, want 2025-09-01", got)
		}
		return
	}
	t.Fatal("intake question missing")
}

func TestSOPRequiredQuestions(t *testing.T) {
	t.Parallel()

	qs := SOP(nil, voiceform.BuildContext{})
	for _, q := range qs {
		switch q.Name {
		case "graduationYear":
			if q.Required {
				t.Errorf("%s should be optional", q.Name)
			}
		default:
			if !q.Required {
				t.Errorf("%s should be required", q.Name)
			}
		}
	}
}

func TestForForm(t *testing.T) {
	t.Parallel()

	for _, kind := range []string{"cv", "scholarship", "sop"} {
		if ForForm(kind) == nil {
			t.Errorf("ForForm(%q) = nil", kind)
		}
	}
	if ForForm("quiz") != nil {
		t.Error("ForForm(quiz) should be nil")
	}
}
