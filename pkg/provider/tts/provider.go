// Package tts defines the Provider interface for Text-to-Speech backends.
//
// A TTS provider wraps a speech synthesis service (e.g., the OpenAI speech
// API or a local Piper instance) and presents a uniform batch interface:
// one utterance in, one PCM clip out. Form prompts are short, so batch
// synthesis keeps providers simple and lets the caller decide how to play
// or queue the audio.
//
// Implementations must be safe for concurrent use.
package tts

import (
	"context"

	"github.com/asknori/noriassist/pkg/audio"
)

// Voice describes a synthesis voice configuration.
type Voice struct {
	// ID is the provider-specific voice identifier (e.g., "alloy" for
	// OpenAI, a model path for Piper).
	ID string

	// Language is the BCP-47 language code, e.g. "en". Providers that bake
	// the language into the voice may ignore it.
	Language string

	// Speed adjusts speaking rate (0.5 to 2.0, 1.0 = default). Providers
	// that do not support rate control may ignore it.
	Speed float64
}

// Provider is the abstraction over any TTS backend.
type Provider interface {
	// Synthesize renders text as a single PCM16 clip in the given voice.
	// Implementations must return promptly when ctx is cancelled.
	//
	// An empty text returns an empty clip and no error; providers must not
	// issue a network call for it.
	Synthesize(ctx context.Context, text string, voice Voice) (audio.Clip, error)

	// ListVoices returns the voice catalogue of this provider. The list may
	// change between calls if the underlying service adds or removes voices.
	ListVoices(ctx context.Context) ([]Voice, error)
}
