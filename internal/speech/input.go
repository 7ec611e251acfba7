package speech

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/asknori/noriassist/internal/voiceform"
	"github.com/asknori/noriassist/pkg/audio"
	"github.com/asknori/noriassist/pkg/provider/stt"
)

// defaultMaxUtterance bounds a single listening session. Recognisers that
// never produce a final transcript (a dead stream, or the record-and-upload
// provider, which only transcribes on close) would otherwise hold the run in
// the listening step forever.
const defaultMaxUtterance = 15 * time.Second

// Ensure Input implements voiceform.Listener at compile time.
var _ voiceform.Listener = (*Input)(nil)

// Input captures microphone audio and feeds it to an STT provider, exposing
// the recognition stream as a voiceform.ListenSession. One capture runs at a
// time; opening a new one tears down the previous one first.
//
// Sessions end on their own: the first final transcript closes the session,
// and a session that never produces one is closed when the utterance window
// elapses. The consumer never has to call Stop to get its answer.
type Input struct {
	provider     stt.Provider
	recorder     audio.Recorder
	cfg          stt.ListenConfig
	maxUtterance time.Duration

	mu      sync.Mutex
	current *inputSession
}

// Option is a functional option for configuring an Input.
type Option func(*Input)

// WithMaxUtterance overrides how long a listening session may run before it
// is force-closed. Non-positive values keep the default.
func WithMaxUtterance(d time.Duration) Option {
	return func(in *Input) {
		if d > 0 {
			in.maxUtterance = d
		}
	}
}

// NewInput builds a listener from a provider, recorder, and session config.
func NewInput(provider stt.Provider, recorder audio.Recorder, cfg stt.ListenConfig, opts ...Option) *Input {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	in := &Input{
		provider:     provider,
		recorder:     recorder,
		cfg:          cfg,
		maxUtterance: defaultMaxUtterance,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Listen implements voiceform.Listener. It opens a microphone capture and an
// STT session and pumps frames from one to the other until the session ends:
// by the first final transcript, the utterance window, Stop, or ctx
// cancellation.
func (in *Input) Listen(ctx context.Context) (voiceform.ListenSession, error) {
	in.mu.Lock()
	if in.current != nil {
		prev := in.current
		in.current = nil
		in.mu.Unlock()
		prev.Stop()
		in.mu.Lock()
	}
	in.mu.Unlock()

	capture, err := in.recorder.Record(ctx, audio.Format{
		SampleRate: in.cfg.SampleRate,
		Channels:   in.cfg.Channels,
	})
	if err != nil {
		return nil, fmt.Errorf("speech: open capture: %w", err)
	}

	sess, err := in.provider.Listen(ctx, in.cfg)
	if err != nil {
		capture.Stop()
		return nil, fmt.Errorf("speech: open transcription session: %w", err)
	}

	s := &inputSession{
		capture: capture,
		sess:    sess,
		out:     make(chan voiceform.Transcript, 16),
	}
	s.timer = time.AfterFunc(in.maxUtterance, s.Stop)
	go s.pumpAudio()
	go s.pumpTranscripts()

	in.mu.Lock()
	in.current = s
	in.mu.Unlock()
	return s, nil
}

// inputSession ties one capture to one STT session. It implements
// voiceform.ListenSession.
type inputSession struct {
	capture audio.Capture
	sess    stt.Session
	out     chan voiceform.Transcript
	timer   *time.Timer
	once    sync.Once
}

// Transcripts returns the recognition stream. The channel closes when the
// session ends.
func (s *inputSession) Transcripts() <-chan voiceform.Transcript { return s.out }

// Stop implements voiceform.ListenSession. It halts the capture and closes
// the STT session; Close flushes buffered audio, so a final transcript may
// still arrive on the channel before it closes. Safe to call more than once.
func (s *inputSession) Stop() {
	s.once.Do(func() {
		if s.timer != nil {
			s.timer.Stop()
		}
		s.capture.Stop()
		if err := s.sess.Close(); err != nil {
			slog.Warn("speech: close transcription session", "error", err)
		}
	})
}

// pumpAudio forwards capture frames into the STT session until the capture
// ends.
func (s *inputSession) pumpAudio() {
	for frame := range s.capture.Frames() {
		if err := s.sess.SendAudio(frame); err != nil {
			// Session closed underneath us; drain the capture and bail.
			s.Stop()
			return
		}
	}
	// Microphone dried up on its own; flush the session.
	s.Stop()
}

// pumpTranscripts bridges provider transcripts onto the session's output
// channel and closes it when the provider stream ends. A final transcript
// marks the end of the utterance, so the session winds itself down rather
// than waiting for a recogniser that may stream indefinitely; the remaining
// transcripts are drained so nothing flushed by Close is lost.
func (s *inputSession) pumpTranscripts() {
	defer close(s.out)
	for tr := range s.sess.Transcripts() {
		s.out <- voiceform.Transcript{Text: tr.Text, IsFinal: tr.IsFinal}
		if tr.IsFinal {
			go s.Stop()
		}
	}
}
