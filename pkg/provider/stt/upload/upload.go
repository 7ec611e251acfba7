// Package upload provides a record-then-upload STT provider. It implements
// the stt.Provider interface.
//
// Unlike the streaming providers, upload buffers the whole capture in memory
// and submits it as a single WAV file when the session closes. It is the
// fallback of last resort: it needs nothing but the backend's transcription
// endpoint, at the cost of transcripts only arriving after the respondent
// stops the capture. No interim transcripts are ever emitted.
package upload

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/asknori/noriassist/pkg/audio"
	"github.com/asknori/noriassist/pkg/provider/stt"
)

// Transcriber turns a complete WAV file into text. The backend API client
// satisfies this interface.
type Transcriber interface {
	Transcribe(ctx context.Context, wav []byte) (string, error)
}

// Compile-time assertion that Provider implements stt.Provider.
var _ stt.Provider = (*Provider)(nil)

// Provider implements stt.Provider by buffering audio and handing the
// finished WAV to a Transcriber.
type Provider struct {
	transcriber Transcriber
}

// New creates an upload Provider. transcriber must not be nil.
func New(transcriber Transcriber) (*Provider, error) {
	if transcriber == nil {
		return nil, errors.New("upload: transcriber must not be nil")
	}
	return &Provider{transcriber: transcriber}, nil
}

// Listen opens a buffering session. The transcript arrives only after Close
// flushes the buffered audio through the Transcriber.
func (p *Provider) Listen(ctx context.Context, cfg stt.ListenConfig) (stt.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("upload: context already cancelled: %w", err)
	}

	sr := cfg.SampleRate
	if sr <= 0 {
		sr = 16000
	}
	ch := cfg.Channels
	if ch <= 0 {
		ch = 1
	}

	return &session{
		transcriber: p.transcriber,
		ctx:         ctx,
		format:      audio.Format{SampleRate: sr, Channels: ch},
		transcripts: make(chan stt.Transcript, 1),
	}, nil
}

// session buffers PCM until Close, then transcribes it in one shot.
type session struct {
	transcriber Transcriber
	ctx         context.Context
	format      audio.Format

	mu          sync.Mutex
	buffer      []byte
	closed      bool
	transcripts chan stt.Transcript
}

// SendAudio appends the chunk to the in-memory buffer. Returns an error
// after Close.
func (s *session) SendAudio(chunk []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("upload: session is closed")
	}
	s.buffer = append(s.buffer, chunk...)
	return nil
}

// Transcripts returns the channel that delivers the single final transcript
// after Close.
func (s *session) Transcripts() <-chan stt.Transcript { return s.transcripts }

// Close encodes the buffered audio as WAV, submits it for transcription,
// emits the result, and closes the transcript channel. Calling Close more
// than once is safe and returns nil.
func (s *session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	pcm := s.buffer
	s.buffer = nil
	s.mu.Unlock()

	defer close(s.transcripts)

	if len(pcm) == 0 {
		return nil
	}

	wav, err := audio.EncodeWAV(audio.Clip{Format: s.format, Data: pcm})
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	text, err := s.transcriber.Transcribe(s.ctx, wav)
	if err != nil {
		return fmt.Errorf("upload: transcribe: %w", err)
	}
	if text != "" {
		s.transcripts <- stt.Transcript{Text: text, IsFinal: true, Confidence: 1}
	}
	return nil
}

// Compile-time assertion that session satisfies stt.Session.
var _ stt.Session = (*session)(nil)
