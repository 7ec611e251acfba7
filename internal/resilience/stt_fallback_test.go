package resilience

import (
	"context"
	"errors"
	"testing"

	"github.com/asknori/noriassist/pkg/provider/stt"
	sttmock "github.com/asknori/noriassist/pkg/provider/stt/mock"
)

func TestSTTFallback_PrimarySuccess(t *testing.T) {
	primary := &sttmock.Provider{Session: sttmock.NewSession()}
	secondary := &sttmock.Provider{}

	fb := NewSTTFallback(primary, "deepgram", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fb.AddFallback("upload", secondary)

	sess, err := fb.Listen(context.Background(), stt.ListenConfig{
		SampleRate: 16000,
		Channels:   1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess == nil {
		t.Fatal("session is nil")
	}
	if len(primary.ListenCalls) != 1 {
		t.Fatalf("primary called %d times, want 1", len(primary.ListenCalls))
	}
	if len(secondary.ListenCalls) != 0 {
		t.Fatalf("secondary called %d times, want 0", len(secondary.ListenCalls))
	}
	_ = sess.Close()
}

func TestSTTFallback_Failover(t *testing.T) {
	primary := &sttmock.Provider{ListenErr: errors.New("streaming API down")}
	secondary := &sttmock.Provider{Session: sttmock.NewSession()}

	fb := NewSTTFallback(primary, "deepgram", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fb.AddFallback("upload", secondary)

	sess, err := fb.Listen(context.Background(), stt.ListenConfig{SampleRate: 16000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(secondary.ListenCalls) != 1 {
		t.Fatalf("secondary called %d times, want 1", len(secondary.ListenCalls))
	}
	_ = sess.Close()
}

func TestSTTFallback_AllFailed(t *testing.T) {
	primary := &sttmock.Provider{ListenErr: errors.New("down")}

	fb := NewSTTFallback(primary, "deepgram", FallbackConfig{})
	if _, err := fb.Listen(context.Background(), stt.ListenConfig{}); !errors.Is(err, ErrAllFailed) {
		t.Fatalf("err = %v, want ErrAllFailed", err)
	}
}
