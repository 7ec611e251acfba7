package voiceform

// Question describes one form field to be filled by voice. The list of
// questions for a run is produced by a [Builder] and is frozen for the
// duration of that run.
type Question struct {
	// Name is the form-store key this question fills. Must be unique within
	// one question list.
	Name string

	// Prompt is the text spoken (and displayed) to the respondent. The
	// controller appends a required/optional hint when speaking it.
	Prompt string

	// Required controls skip behaviour: when false, the respondent may answer
	// with a skip token ("skip", "skip it", "pass") to leave the field.
	Required bool

	// Options is an optional enumerated choice set. When non-empty the
	// question is a closed-choice question; builders typically pair this with
	// a Parse function that snaps the transcript onto one of the options.
	Options []string

	// Parse optionally maps the normalized transcript to a structured value
	// before validation (e.g., spoken email fragments to an address). When
	// nil, the candidate value is the normalized transcript itself.
	Parse func(text string) any

	// OnSkipValue is the explicit value stored when an optional question is
	// skipped. When nil, the controller writes an empty string if the field
	// currently holds a string, and leaves the field unchanged otherwise.
	OnSkipValue any
}

// BuildContext carries the two contextual parameters that influence which
// questions are asked and which fields the schema treats as required: whether
// a parsed CV was uploaded, and the selected CV format option.
type BuildContext struct {
	// HasParsedCV reports whether an uploaded CV was parsed into the form.
	HasParsedCV bool

	// FormatOption selects the CV tailoring mode ("country", "company",
	// "role"). Empty means no tailoring.
	FormatOption string
}

// Builder computes the ordered question list for a run from the current form
// snapshot and build context. It is invoked fresh at every [Controller.Start]
// so conditional questions can react to earlier answers. Builders must not
// retain the snapshot map.
type Builder func(snapshot map[string]any, bctx BuildContext) []Question

// safeBuild invokes build and converts a panic into an empty question list so
// that Start degrades to a no-op instead of crashing the caller.
func safeBuild(build Builder, snapshot map[string]any, bctx BuildContext) (qs []Question) {
	if build == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			qs = nil
		}
	}()
	return build(snapshot, bctx)
}
