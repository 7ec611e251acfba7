package voiceform

import "time"

// Phase identifies the controller's current sub-step within a run. It is
// exposed for UI binding and tests; transitions are driven exclusively by the
// run goroutine.
type Phase int

const (
	// PhaseIdle means no run is active.
	PhaseIdle Phase = iota

	// PhasePrompting means the current question's prompt is being spoken.
	PhasePrompting

	// PhaseListening means a recognition session is open for the answer.
	PhaseListening

	// PhaseValidating means the candidate value is being checked against the
	// cross-field schema.
	PhaseValidating

	// PhaseCommitting means an accepted value is being written to the form
	// store (also covers the skip write for optional questions).
	PhaseCommitting
)

// String returns the lower-case phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePrompting:
		return "prompting"
	case PhaseListening:
		return "listening"
	case PhaseValidating:
		return "validating"
	case PhaseCommitting:
		return "committing"
	}
	return "unknown"
}

// LogEntry is one timestamped diagnostic entry in the run log. The log is
// append-only and unbounded for the lifetime of a run; consumers may truncate
// for display.
type LogEntry struct {
	Time  time.Time
	Entry string
}

// State is a point-in-time snapshot of the controller's observable surface,
// suitable for UI binding. Log and Questions are copies; mutating them does
// not affect the controller.
type State struct {
	Active     bool
	Phase      Phase
	Speaking   bool
	Listening  bool
	Processing bool

	// CurrentIndex is the index of the question currently in flight. Zero
	// when idle.
	CurrentIndex int

	// InterimTranscript and FinalTranscript reflect the most recent partial
	// and finalized recognized text for the question in flight. Both reset at
	// the start of each listening attempt.
	InterimTranscript string
	FinalTranscript   string

	Log       []LogEntry
	Questions []Question
}
