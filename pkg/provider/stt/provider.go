// Package stt defines the Provider interface for Speech-to-Text backends.
//
// An STT provider wraps a transcription service (e.g., Deepgram, a local
// Whisper model, or the backend's upload endpoint) and exposes a uniform
// streaming interface. The central abstraction is Session: once opened, a
// session accepts raw PCM audio frames and emits a single stream of
// Transcript values, interim results flagged IsFinal=false for live display
// and authoritative finals flagged IsFinal=true.
//
// Implementations must be safe for concurrent use.
package stt

import "context"

// Transcript represents a speech-to-text result from an STT provider.
type Transcript struct {
	// Text is the transcribed speech content.
	Text string

	// IsFinal indicates whether this is a final (authoritative) or interim
	// transcript.
	IsFinal bool

	// Confidence is the overall confidence score (0.0 to 1.0). May be zero
	// if the provider does not report confidence.
	Confidence float64
}

// ListenConfig describes the audio format and recognition hints for a new
// session.
type ListenConfig struct {
	// SampleRate is the audio sample rate in Hz. 16000 is the STT-optimised
	// default.
	SampleRate int

	// Channels is the number of audio channels. 1 = mono, which every
	// provider here requires.
	Channels int

	// Language is the BCP-47 language tag for recognition (e.g., "en",
	// "en-US"). An empty string lets the provider auto-detect the language,
	// if supported.
	Language string
}

// Session represents an open transcription session. It is an interface so
// that test code can provide mock implementations without a live provider
// connection.
//
// Callers must call Close when the session is no longer needed; failing to
// do so may leak goroutines and network connections inside the provider.
// All methods must be safe for concurrent use.
type Session interface {
	// SendAudio delivers a chunk of raw PCM audio bytes to the provider for
	// transcription. The chunk must match the SampleRate and Channels agreed
	// in ListenConfig. Calling SendAudio after Close returns an error.
	SendAudio(chunk []byte) error

	// Transcripts returns a read-only channel that emits interim and final
	// Transcript values as recognition progresses. The channel is closed
	// when the session ends. Batch providers may emit nothing until Close
	// flushes the buffered audio.
	Transcripts() <-chan Transcript

	// Close terminates the session, flushes any pending audio, and releases
	// all associated resources. After Close returns, the Transcripts channel
	// will close once any flush results have been delivered. Calling Close
	// more than once is safe and returns nil.
	Close() error
}

// Provider is the abstraction over any STT backend.
//
// Implementations must be safe for concurrent use.
type Provider interface {
	// Listen opens a new transcription session with the given audio format
	// and recognition configuration. The returned Session is ready to accept
	// audio immediately.
	//
	// Returns an error if the provider cannot establish the session. The
	// caller owns the Session and must call Close when done.
	Listen(ctx context.Context, cfg ListenConfig) (Session, error)
}
