package resilience

import (
	"context"

	"github.com/asknori/noriassist/pkg/provider/stt"
)

// STTFallback implements [stt.Provider] with automatic failover across
// multiple speech recognisers. Each backend has its own circuit breaker. The
// usual wiring is a streaming recogniser as primary with the
// record-and-upload provider as fallback, so losing the streaming API
// degrades to server-side transcription instead of ending the session.
type STTFallback struct {
	group *FallbackGroup[stt.Provider]
}

// Compile-time interface assertion.
var _ stt.Provider = (*STTFallback)(nil)

// NewSTTFallback creates an [STTFallback] with primary as the preferred
// backend.
func NewSTTFallback(primary stt.Provider, primaryName string, cfg FallbackConfig) *STTFallback {
	return &STTFallback{
		group: NewFallbackGroup(primary, primaryName, cfg),
	}
}

// AddFallback registers an additional STT provider as a fallback.
func (f *STTFallback) AddFallback(name string, provider stt.Provider) {
	f.group.AddFallback(name, provider)
}

// Listen opens a transcription session against the first healthy provider.
// Only session setup is covered by failover; errors after the session opens
// are the caller's responsibility.
func (f *STTFallback) Listen(ctx context.Context, cfg stt.ListenConfig) (stt.Session, error) {
	return ExecuteWithResult(f.group, func(p stt.Provider) (stt.Session, error) {
		return p.Listen(ctx, cfg)
	})
}
