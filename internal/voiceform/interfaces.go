package voiceform

import "context"

// Transcript is one recognition update emitted by a listening session.
// Interim transcripts refine the current guess; final transcripts are
// authoritative segments that accumulate into the answer.
type Transcript struct {
	Text    string
	IsFinal bool
}

// Speaker is the speech output capability consumed by the controller.
//
// Speak must resolve when the utterance has finished playing, or immediately
// when synthesis is unavailable in the host environment. Starting a new
// utterance while a previous one is unfinished must cancel the previous one
// rather than queue behind it. Cancelling ctx silences the utterance.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// ListenSession is one open speech recognition attempt.
type ListenSession interface {
	// Transcripts returns the channel of interim and final recognition
	// updates. The channel is closed when the session ends — by detected
	// silence, a provider error, or Stop.
	Transcripts() <-chan Transcript

	// Stop forcibly terminates the session. The Transcripts channel closes
	// with whatever was captured so far; pending reads resolve rather than
	// hang. Stop is safe to call more than once.
	Stop()
}

// Listener is the speech input capability consumed by the controller.
// Implementations that are unsupported in the host environment must return a
// session whose Transcripts channel closes immediately rather than an error.
type Listener interface {
	Listen(ctx context.Context) (ListenSession, error)
}

// Result is the outcome of validating one candidate field value.
type Result struct {
	Valid   bool
	Message string
}

// Validator checks a candidate field value against the complete cross-field
// schema, given the current form snapshot. Field validity in this domain is
// often cross-field-dependent (e.g., a target country is required only under
// the "country" format option), so the whole schema is evaluated and issues
// are filtered to the candidate field.
type Validator interface {
	Validate(field string, value any, snapshot map[string]any) Result
}

// Store is the mutable form state the controller writes accepted answers
// into. It is owned by the surrounding UI; the controller only mutates it
// from the committing and skipping steps of an active run.
type Store interface {
	Set(name string, value any)
	Get(name string) (any, bool)
	Snapshot() map[string]any
}
