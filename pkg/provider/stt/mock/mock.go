// Package mock provides test doubles for the stt package interfaces.
//
// Use Provider to verify that the caller opens sessions with the expected
// ListenConfig. Use Session to feed controlled Transcript values and inspect
// which audio chunks were delivered.
//
// Example:
//
//	sess := mock.NewSession()
//	p := &mock.Provider{Session: sess}
//	handle, _ := p.Listen(ctx, cfg)
//	sess.Emit(stt.Transcript{Text: "John", IsFinal: true})
package mock

import (
	"context"
	"errors"
	"sync"

	"github.com/asknori/noriassist/pkg/provider/stt"
)

// ListenCall records a single invocation of Provider.Listen.
type ListenCall struct {
	// Cfg is the ListenConfig passed to Listen.
	Cfg stt.ListenConfig
}

// Provider is a mock implementation of stt.Provider.
type Provider struct {
	mu sync.Mutex

	// Session is the Session returned by Listen. If nil, Listen returns a
	// fresh [Session].
	Session stt.Session

	// ListenErr, if non-nil, is returned as the error from Listen.
	ListenErr error

	// ListenCalls records every call to Listen.
	ListenCalls []ListenCall
}

// Listen records the call and returns Session, ListenErr.
func (p *Provider) Listen(_ context.Context, cfg stt.ListenConfig) (stt.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ListenCalls = append(p.ListenCalls, ListenCall{Cfg: cfg})
	if p.ListenErr != nil {
		return nil, p.ListenErr
	}
	if p.Session != nil {
		return p.Session, nil
	}
	return NewSession(), nil
}

// Reset clears all recorded calls. Thread-safe.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ListenCalls = nil
}

// Ensure Provider implements stt.Provider at compile time.
var _ stt.Provider = (*Provider)(nil)

// SendAudioCall records a single invocation of Session.SendAudio.
type SendAudioCall struct {
	// Chunk is a copy of the audio bytes that were passed to SendAudio.
	Chunk []byte
}

// Session is a mock implementation of stt.Session. Feed results with
// [Session.Emit]; the transcript channel closes on Close.
type Session struct {
	mu sync.Mutex

	transcripts chan stt.Transcript
	closed      bool

	// SendAudioErr, if non-nil, is returned by every SendAudio call.
	SendAudioErr error

	// CloseErr, if non-nil, is returned by the first Close.
	CloseErr error

	// SendAudioCalls records every call to SendAudio in order.
	SendAudioCalls []SendAudioCall

	// CloseCallCount is the number of times Close was called.
	CloseCallCount int
}

// NewSession returns an open session with a buffered transcript channel.
func NewSession() *Session {
	return &Session{transcripts: make(chan stt.Transcript, 16)}
}

// SendAudio records the call and returns SendAudioErr. Returns an error
// after Close.
func (s *Session) SendAudio(chunk []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("mock: session closed")
	}
	cp := make([]byte, len(chunk))
	copy(cp, chunk)
	s.SendAudioCalls = append(s.SendAudioCalls, SendAudioCall{Chunk: cp})
	return s.SendAudioErr
}

// Transcripts returns the session's transcript channel.
func (s *Session) Transcripts() <-chan stt.Transcript {
	return s.transcripts
}

// Close records the call, closes the transcript channel on first call, and
// returns CloseErr.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CloseCallCount++
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.transcripts)
	return s.CloseErr
}

// Emit delivers a transcript to the session's consumer. No-op after Close.
func (s *Session) Emit(tr stt.Transcript) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.transcripts <- tr
}

// SendAudioCallCount returns the number of SendAudio calls. Thread-safe.
func (s *Session) SendAudioCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.SendAudioCalls)
}

// Ensure Session implements stt.Session at compile time.
var _ stt.Session = (*Session)(nil)
