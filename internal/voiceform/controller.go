// Package voiceform implements the voice-driven form-filling controller: a
// sequential speak → listen → validate → commit state machine over an ordered
// list of form questions.
//
// The controller owns the session state of one run (phase flags, transcripts,
// diagnostic log) and writes accepted answers into an external form [Store].
// Speech output and input are consumed through the narrow [Speaker] and
// [Listener] interfaces so the state machine can be driven by mock providers
// in tests, without real audio hardware.
//
// # Control flow
//
// One run processes questions strictly in list order. For each question the
// controller speaks the prompt (with a required/optional hint), opens a
// listening session, normalizes the transcript, and then either skips the
// field (optional questions answered with a skip token), re-prompts (empty or
// invalid answers — unbounded, user-paced retry loops), or commits the value
// to the store and acknowledges. Cancellation via [Controller.Stop] is
// cooperative and checked at every step boundary; after Stop returns, the
// stopped run can no longer write to the store or append to the log.
package voiceform

import (
	"context"
	"sync"
	"time"

	"github.com/asknori/noriassist/internal/answers"
	"github.com/asknori/noriassist/internal/observe"
)

// Spoken controller messages. The required/optional hints are appended to
// each question's own prompt text.
const (
	requiredHint   = " This question is required."
	optionalHint   = " You may say 'Skip' to skip this question."
	didntCatchMsg  = "Sorry, I didn't catch that. Please repeat your answer."
	invalidMsg     = "Sorry, your response was not valid, please can you reiterate your answer?"
	ackMsg         = "Got it"
	completionMsg  = "Voice capture complete."
	ttsUnavailable = "TTS not supported in this environment."
	asrUnavailable = "SpeechRecognition not supported in this environment."
)

// questionOutcome is the terminal state of the per-question protocol.
type questionOutcome int

const (
	// questionCompleted means the field was committed or skipped.
	questionCompleted questionOutcome = iota

	// questionAborted means the protocol was cancelled mid-flight; the outer
	// run loop stops without advancing further.
	questionAborted
)

// run holds the state of one Start-to-completion/cancellation cycle. The
// question list is frozen at Start. ctx is cancelled by Stop so in-flight
// provider calls resolve promptly; finished is closed by the run goroutine
// when it exits. cancelled and session are guarded by the controller mutex so
// Stop can gate writes deterministically.
type run struct {
	questions []Question
	ctx       context.Context
	cancel    context.CancelFunc
	finished  chan struct{}
	cancelled bool
	session   ListenSession
}

// Config holds the collaborators for a [Controller]. Speaker and Listener may
// be nil, in which case the controller runs in a degraded mode: prompts
// resolve immediately, listening yields empty transcripts, and the log
// records the missing capability so integrators can detect a stuck loop.
type Config struct {
	Speaker      Speaker
	Listener     Listener
	Validator    Validator
	Store        Store
	Builder      Builder
	BuildContext BuildContext
}

// Option is a functional option for configuring a Controller.
type Option func(*Controller)

// WithMetrics wires OpenTelemetry instruments into the controller. When not
// set, no telemetry is recorded.
func WithMetrics(m *observe.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// Controller drives a respondent through an ordered question list via voice.
// All exported methods are safe for concurrent use. Only one run may be
// active at a time; see [Controller.Start] for the restart policy.
type Controller struct {
	speaker   Speaker
	listener  Listener
	validator Validator
	store     Store
	build     Builder
	bctx      BuildContext
	metrics   *observe.Metrics

	mu         sync.Mutex
	run        *run
	active     bool
	phase      Phase
	speaking   bool
	listening  bool
	processing bool
	index      int
	interim    string
	final      string
	log        []LogEntry
	questions  []Question
}

// New creates a Controller with the given collaborators.
func New(cfg Config, opts ...Option) *Controller {
	c := &Controller{
		speaker:   cfg.Speaker,
		listener:  cfg.Listener,
		validator: cfg.Validator,
		store:     cfg.Store,
		build:     cfg.Builder,
		bctx:      cfg.BuildContext,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Start begins a new run. The question list is computed fresh from the
// current form snapshot; when it is empty, Start is a no-op.
//
// Calling Start while a run is already active restarts: the current run is
// cancelled exactly as by [Controller.Stop], then the new run begins. Start
// returns as soon as the run goroutine is launched; use [Controller.Wait] to
// block until the run finishes.
func (c *Controller) Start() {
	// Restart policy: cancel any active run before starting fresh.
	c.Stop()

	qs := safeBuild(c.build, c.snapshot(), c.bctx)
	if len(qs) == 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &run{
		questions: qs,
		ctx:       ctx,
		cancel:    cancel,
		finished:  make(chan struct{}),
	}

	c.mu.Lock()
	c.run = r
	c.active = true
	c.phase = PhasePrompting
	c.index = 0
	c.interim = ""
	c.final = ""
	c.log = nil
	c.questions = qs
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.RunStarted()
	}

	go c.runLoop(r)
}

// Stop cancels the active run. Any in-flight utterance is silenced, any open
// listening session is terminated, all phase flags are cleared, and the
// session becomes inactive. After Stop returns, the stopped run performs no
// further form-store writes and appends no further log entries.
//
// Stop is idempotent; calling it with no active run is a safe no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	r := c.run
	if r == nil {
		c.mu.Unlock()
		return
	}
	r.cancelled = true
	sess := r.session
	r.session = nil
	c.run = nil
	c.active = false
	c.speaking = false
	c.listening = false
	c.processing = false
	c.phase = PhaseIdle
	c.mu.Unlock()

	// Cancelling the run context silences any in-flight utterance; stopping
	// the session terminates any in-flight recognition so its transcript
	// channel closes and no step is left suspended.
	r.cancel()
	if sess != nil {
		sess.Stop()
	}

	if c.metrics != nil {
		c.metrics.RunEnded()
	}
}

// Wait blocks until the active run goroutine (if any) has finished. Primarily
// useful in tests to synchronise before inspecting the store or the log.
func (c *Controller) Wait() {
	c.mu.Lock()
	r := c.run
	c.mu.Unlock()
	if r != nil {
		<-r.finished
	}
}

// State returns a snapshot of the observable session state. Log and
// Questions are copies.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	logCopy := make([]LogEntry, len(c.log))
	copy(logCopy, c.log)
	qsCopy := make([]Question, len(c.questions))
	copy(qsCopy, c.questions)
	return State{
		Active:            c.active,
		Phase:             c.phase,
		Speaking:          c.speaking,
		Listening:         c.listening,
		Processing:        c.processing,
		CurrentIndex:      c.index,
		InterimTranscript: c.interim,
		FinalTranscript:   c.final,
		Log:               logCopy,
		Questions:         qsCopy,
	}
}

// ─── Run loop ─────────────────────────────────────────────────────────────────

func (c *Controller) runLoop(r *run) {
	defer c.finishRun(r)

	for i, q := range r.questions {
		if c.isCancelled(r) {
			return
		}
		c.setIndex(r, i)
		if c.metrics != nil {
			c.metrics.QuestionAsked(q.Name)
		}
		if c.askQuestion(r, q) != questionCompleted {
			return
		}
	}

	if !c.isCancelled(r) {
		c.speak(r, completionMsg)
	}
}

// finishRun clears session state when the run goroutine exits. When the run
// was already detached by Stop (cancel or restart), Stop has cleared the
// flags and recorded the metrics; only the completion signal remains.
func (c *Controller) finishRun(r *run) {
	c.mu.Lock()
	owned := c.run == r
	if owned {
		c.run = nil
		c.active = false
		c.speaking = false
		c.listening = false
		c.processing = false
		c.phase = PhaseIdle
	}
	c.mu.Unlock()

	r.cancel()
	close(r.finished)
	if owned && c.metrics != nil {
		c.metrics.RunEnded()
	}
}

// askQuestion runs the per-question protocol: prompt, listen, normalize, then
// skip, re-prompt, or validate-and-commit. The retry loops have no attempt
// ceiling; they are bounded only by cancellation.
func (c *Controller) askQuestion(r *run, q Question) questionOutcome {
	hint := optionalHint
	if q.Required {
		hint = requiredHint
	}
	prompt := q.Prompt + hint

	for {
		if c.isCancelled(r) {
			return questionAborted
		}

		c.speak(r, prompt)
		heard := c.listen(r)
		if c.isCancelled(r) {
			return questionAborted
		}

		text := answers.Normalize(heard)
		c.appendLog(r, "Heard: "+logText(text))

		if !q.Required && answers.IsSkipToken(text) {
			if !c.commitSkip(r, q) {
				return questionAborted
			}
			return questionCompleted
		}

		if text == "" {
			if c.metrics != nil {
				c.metrics.Retry(q.Name, "empty")
			}
			c.speak(r, didntCatchMsg)
			continue
		}

		value := any(text)
		if q.Parse != nil {
			value = q.Parse(text)
		}

		res := c.validate(r, q.Name, value)
		if !res.Valid {
			if c.metrics != nil {
				c.metrics.Retry(q.Name, "invalid")
			}
			c.speak(r, invalidMsg)
			if res.Message != "" {
				c.appendLog(r, "Validation: "+res.Message)
			}
			continue
		}

		if !c.commit(r, q.Name, value) {
			return questionAborted
		}
		c.speak(r, ackMsg)
		return questionCompleted
	}
}

// ─── Step implementations ─────────────────────────────────────────────────────

// speak voices text through the Speaker and waits for completion. Provider
// errors are logged and treated as a completed (silent) utterance so the
// state machine proceeds rather than hang.
func (c *Controller) speak(r *run, text string) {
	if c.isCancelled(r) {
		return
	}
	if c.speaker == nil {
		c.appendLog(r, ttsUnavailable)
		return
	}

	c.setSpeaking(r, true)
	start := time.Now()
	err := c.speaker.Speak(r.ctx, text)
	c.setSpeaking(r, false)

	if c.metrics != nil {
		c.metrics.PromptSpoken(time.Since(start))
	}
	if err != nil && !c.isCancelled(r) {
		c.appendLog(r, "TTS error: "+err.Error())
	}
}

// listen opens a recognition session and accumulates transcripts until the
// session ends, returning the best available text: concatenated finals when
// present, otherwise the last interim. Provider errors resolve to an empty
// transcript.
func (c *Controller) listen(r *run) string {
	if c.isCancelled(r) {
		return ""
	}
	if c.listener == nil {
		c.appendLog(r, asrUnavailable)
		return ""
	}

	c.mu.Lock()
	if c.run == r {
		c.listening = true
		c.phase = PhaseListening
		c.interim = ""
		c.final = ""
	}
	c.mu.Unlock()

	start := time.Now()
	sess, err := c.listener.Listen(r.ctx)
	if err != nil {
		c.setListening(r, false)
		c.appendLog(r, "ASR error: "+err.Error())
		return ""
	}

	// Register the session so Stop can terminate it; if the run was
	// cancelled while the session was being opened, tear it down now.
	c.mu.Lock()
	if c.run != r || r.cancelled {
		c.mu.Unlock()
		sess.Stop()
		for range sess.Transcripts() {
		}
		return ""
	}
	r.session = sess
	c.mu.Unlock()

	var interim, final string
	for tr := range sess.Transcripts() {
		if tr.IsFinal {
			final += tr.Text
		} else {
			interim = tr.Text
		}
		c.mu.Lock()
		if c.run == r {
			c.interim = interim
			c.final = final
		}
		c.mu.Unlock()
	}

	c.mu.Lock()
	if c.run == r {
		r.session = nil
		c.listening = false
	}
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.AnswerHeard(time.Since(start))
	}

	if final != "" {
		return final
	}
	return interim
}

// validate submits the candidate to the Validator against the current form
// snapshot. A nil Validator accepts everything.
func (c *Controller) validate(r *run, field string, value any) Result {
	if c.validator == nil {
		return Result{Valid: true}
	}
	c.setProcessing(r, true)
	start := time.Now()
	res := c.validator.Validate(field, value, c.snapshot())
	c.setProcessing(r, false)
	if c.metrics != nil {
		c.metrics.Validated(time.Since(start), res.Valid)
	}
	return res
}

// commit writes an accepted value to the form store. The write is gated on
// run ownership under the mutex: once Stop has run, commit refuses, which is
// what guarantees "no writes after Stop returns".
func (c *Controller) commit(r *run, name string, value any) bool {
	c.mu.Lock()
	if c.run != r || r.cancelled {
		c.mu.Unlock()
		return false
	}
	c.phase = PhaseCommitting
	c.store.Set(name, value)
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.AnswerCommitted(name)
	}
	return true
}

// commitSkip writes the skip value for an optional question: the question's
// explicit OnSkipValue when set, an empty string when the field currently
// holds a string, and otherwise the field is left unchanged (the non-string
// skip case is deliberately underspecified upstream and preserved as-is).
func (c *Controller) commitSkip(r *run, q Question) bool {
	c.mu.Lock()
	if c.run != r || r.cancelled {
		c.mu.Unlock()
		return false
	}
	c.phase = PhaseCommitting
	switch {
	case q.OnSkipValue != nil:
		c.store.Set(q.Name, q.OnSkipValue)
	default:
		if cur, ok := c.store.Get(q.Name); ok {
			if _, isStr := cur.(string); isStr {
				c.store.Set(q.Name, "")
			}
		}
	}
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.AnswerSkipped(q.Name)
	}
	return true
}

// ─── Guarded state helpers ────────────────────────────────────────────────────

func (c *Controller) isCancelled(r *run) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return r.cancelled || c.run != r
}

func (c *Controller) snapshot() map[string]any {
	if c.store == nil {
		return nil
	}
	return c.store.Snapshot()
}

func (c *Controller) appendLog(r *run, entry string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.run != r || r.cancelled {
		return
	}
	c.log = append(c.log, LogEntry{Time: time.Now(), Entry: entry})
}

func (c *Controller) setIndex(r *run, i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.run == r {
		c.index = i
	}
}

func (c *Controller) setSpeaking(r *run, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.run == r {
		c.speaking = on
		if on {
			c.phase = PhasePrompting
		}
	}
}

func (c *Controller) setListening(r *run, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.run == r {
		c.listening = on
		if on {
			c.phase = PhaseListening
		}
	}
}

func (c *Controller) setProcessing(r *run, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.run == r {
		c.processing = on
		if on {
			c.phase = PhaseValidating
		}
	}
}

// logText renders a transcript for the run log, making silence visible.
func logText(text string) string {
	if text == "" {
		return "(empty)"
	}
	return text
}
