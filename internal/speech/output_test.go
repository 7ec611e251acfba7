package speech

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/asknori/noriassist/pkg/audio"
	audiomock "github.com/asknori/noriassist/pkg/audio/mock"
	"github.com/asknori/noriassist/pkg/provider/tts"
	ttsmock "github.com/asknori/noriassist/pkg/provider/tts/mock"
)

func TestOutputSpeaksThroughProviderAndPlayer(t *testing.T) {
	t.Parallel()

	clip := audio.Clip{
		Format: audio.Format{SampleRate: 24000, Channels: 1},
		Data:   []byte{1, 0, 2, 0},
	}
	provider := &ttsmock.Provider{SynthesizeResult: clip}
	player := &audiomock.Player{}
	out := NewOutput(provider, player, tts.Voice{ID: "alloy"})

	if err := out.Speak(context.Background(), "What is your first name?"); err != nil {
		t.Fatalf("Speak: %v", err)
	}

	texts := provider.Texts()
	if len(texts) != 1 || texts[0] != "What is your first name?" {
		t.Errorf("synthesized texts = %v", texts)
	}
	if provider.SynthesizeCalls[0].Voice.ID != "alloy" {
		t.Errorf("voice = %q, want alloy", provider.SynthesizeCalls[0].Voice.ID)
	}
	if player.CallCount() != 1 {
		t.Errorf("player calls = %d, want 1", player.CallCount())
	}
}

func TestOutputNilProviderIsNoOp(t *testing.T) {
	t.Parallel()

	player := &audiomock.Player{}
	out := NewOutput(nil, player, tts.Voice{})

	if err := out.Speak(context.Background(), "Hello"); err != nil {
		t.Fatalf("Speak with nil provider: %v", err)
	}
	if player.CallCount() != 0 {
		t.Error("nil provider must not reach the player")
	}
}

func TestOutputEmptyTextSkipsSynthesis(t *testing.T) {
	t.Parallel()

	provider := &ttsmock.Provider{}
	out := NewOutput(provider, &audiomock.Player{}, tts.Voice{})

	if err := out.Speak(context.Background(), ""); err != nil {
		t.Fatalf("Speak(\"\"): %v", err)
	}
	if len(provider.Texts()) != 0 {
		t.Error("empty text must not be synthesized")
	}
}

func TestOutputEmptyClipSkipsPlayback(t *testing.T) {
	t.Parallel()

	provider := &ttsmock.Provider{} // zero-value clip, no data
	player := &audiomock.Player{}
	out := NewOutput(provider, player, tts.Voice{})

	if err := out.Speak(context.Background(), "Hello"); err != nil {
		t.Fatalf("Speak: %v", err)
	}
	if player.CallCount() != 0 {
		t.Error("empty clip must not be played")
	}
}

func TestOutputSynthesisErrorSurfaces(t *testing.T) {
	t.Parallel()

	provider := &ttsmock.Provider{SynthesizeErr: errors.New("api down")}
	out := NewOutput(provider, &audiomock.Player{}, tts.Voice{})

	if err := out.Speak(context.Background(), "Hello"); err == nil {
		t.Error("expected synthesis error to surface")
	}
}

// holdFirstPlayer blocks the first Play call until its context is cancelled
// and lets later calls through immediately.
type holdFirstPlayer struct {
	started chan struct{}
	calls   atomic.Int32
}

func (p *holdFirstPlayer) Play(ctx context.Context, _ audio.Clip) error {
	if p.calls.Add(1) == 1 {
		close(p.started)
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func TestOutputNewUtteranceCancelsPrevious(t *testing.T) {
	t.Parallel()

	clip := audio.Clip{
		Format: audio.Format{SampleRate: 24000, Channels: 1},
		Data:   []byte{1, 0},
	}
	provider := &ttsmock.Provider{SynthesizeResult: clip}
	player := &holdFirstPlayer{started: make(chan struct{})}
	out := NewOutput(provider, player, tts.Voice{})

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- out.Speak(context.Background(), "first")
	}()

	// Wait for the first utterance to reach playback.
	<-player.started

	if err := out.Speak(context.Background(), "second"); err != nil {
		t.Fatalf("second Speak: %v", err)
	}

	if err := <-firstDone; err == nil {
		t.Error("expected the first utterance to be cancelled")
	}
}
