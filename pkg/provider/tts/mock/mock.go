// Package mock provides a test double for the tts.Provider interface.
//
// Use Provider to feed controlled clips to consumers and to verify that the
// correct Voice and text are passed to the TTS backend.
//
// Example:
//
//	p := &mock.Provider{
//	    SynthesizeResult: audio.Clip{Format: audio.Format{SampleRate: 24000, Channels: 1}},
//	    ListVoicesResult: []tts.Voice{{ID: "alloy"}},
//	}
//	clip, _ := p.Synthesize(ctx, "Hello", tts.Voice{ID: "alloy"})
package mock

import (
	"context"
	"sync"

	"github.com/asknori/noriassist/pkg/audio"
	"github.com/asknori/noriassist/pkg/provider/tts"
)

// SynthesizeCall records a single invocation of Synthesize.
type SynthesizeCall struct {
	// Text is the text passed to Synthesize.
	Text string
	// Voice is the Voice passed to Synthesize.
	Voice tts.Voice
}

// Provider is a mock implementation of tts.Provider.
type Provider struct {
	mu sync.Mutex

	// SynthesizeResult is the clip returned by Synthesize.
	SynthesizeResult audio.Clip

	// SynthesizeErr, if non-nil, is returned as the error from Synthesize.
	SynthesizeErr error

	// ListVoicesResult is returned by ListVoices.
	ListVoicesResult []tts.Voice

	// ListVoicesErr, if non-nil, is returned as the error from ListVoices.
	ListVoicesErr error

	// SynthesizeCalls records every call to Synthesize in order.
	SynthesizeCalls []SynthesizeCall

	// CallCountListVoices records how many times ListVoices was called.
	CallCountListVoices int
}

// Synthesize records the call and returns SynthesizeResult, SynthesizeErr.
// Honours ctx cancellation before returning.
func (p *Provider) Synthesize(ctx context.Context, text string, voice tts.Voice) (audio.Clip, error) {
	p.mu.Lock()
	p.SynthesizeCalls = append(p.SynthesizeCalls, SynthesizeCall{Text: text, Voice: voice})
	result, err := p.SynthesizeResult, p.SynthesizeErr
	p.mu.Unlock()

	if ctx.Err() != nil {
		return audio.Clip{}, ctx.Err()
	}
	return result, err
}

// ListVoices records the call and returns ListVoicesResult, ListVoicesErr.
func (p *Provider) ListVoices(_ context.Context) ([]tts.Voice, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.CallCountListVoices++
	return p.ListVoicesResult, p.ListVoicesErr
}

// Texts returns the text of every Synthesize call so far, in order.
func (p *Provider) Texts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.SynthesizeCalls))
	for i, c := range p.SynthesizeCalls {
		out[i] = c.Text
	}
	return out
}

// Reset clears all recorded calls. Thread-safe.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.SynthesizeCalls = nil
	p.CallCountListVoices = 0
}

// Ensure Provider implements tts.Provider at compile time.
var _ tts.Provider = (*Provider)(nil)
