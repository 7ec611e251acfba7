// Package speech bridges the TTS and STT providers to the narrow speech
// capabilities the form controller consumes. Output turns a tts.Provider and
// an audio.Player into a voiceform.Speaker; Input turns an stt.Provider and
// an audio.Recorder into a voiceform.Listener.
package speech

import (
	"context"
	"fmt"
	"sync"

	"github.com/asknori/noriassist/internal/voiceform"
	"github.com/asknori/noriassist/pkg/audio"
	"github.com/asknori/noriassist/pkg/provider/tts"
)

// Ensure Output implements voiceform.Speaker at compile time.
var _ voiceform.Speaker = (*Output)(nil)

// Output speaks text through a TTS provider and an audio player. Starting a
// new utterance cancels the previous one; the playback device only ever
// carries one utterance at a time.
type Output struct {
	provider tts.Provider
	player   audio.Player
	voice    tts.Voice

	mu      sync.Mutex
	current *utterance
}

// utterance identifies one in-flight Speak call so a finished call only
// clears its own registration.
type utterance struct {
	cancel context.CancelFunc
}

// NewOutput builds a speaker from a provider, player, and voice. player must
// not be nil; a nil provider degrades Speak to an immediate no-op, which
// lets the rest of the flow run in environments without synthesis.
func NewOutput(provider tts.Provider, player audio.Player, voice tts.Voice) *Output {
	return &Output{provider: provider, player: player, voice: voice}
}

// Speak implements voiceform.Speaker. It synthesises text, plays the clip,
// and returns when playback finishes. A Speak call that arrives while a
// previous utterance is still playing cancels the previous one.
func (o *Output) Speak(ctx context.Context, text string) error {
	if o.provider == nil || text == "" {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	utt := &utterance{cancel: cancel}

	o.mu.Lock()
	if o.current != nil {
		o.current.cancel()
	}
	o.current = utt
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		// Another utterance may have taken over already.
		if o.current == utt {
			o.current = nil
		}
		o.mu.Unlock()
	}()

	clip, err := o.provider.Synthesize(ctx, text, o.voice)
	if err != nil {
		return fmt.Errorf("speech: synthesize: %w", err)
	}
	if len(clip.Data) == 0 {
		return nil
	}
	if err := o.player.Play(ctx, clip); err != nil {
		return fmt.Errorf("speech: play: %w", err)
	}
	return nil
}
