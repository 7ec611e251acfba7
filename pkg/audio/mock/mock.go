// Package mock provides in-memory mock implementations of the
// [audio.Player], [audio.Recorder], and [audio.Capture] interfaces for use
// in unit tests.
//
// All mocks are safe for concurrent use. They record every method call so
// that tests can assert on call counts and arguments, and they expose
// exported fields that the test can set to control return values.
package mock

import (
	"context"
	"sync"

	"github.com/asknori/noriassist/pkg/audio"
)

// ─── Player ───────────────────────────────────────────────────────────────────

// PlayCall records the arguments of a single [Player.Play] invocation.
type PlayCall struct {
	// Clip is the clip passed to Play.
	Clip audio.Clip
}

// Player is a mock implementation of [audio.Player].
type Player struct {
	mu sync.Mutex

	// PlayError is returned by Play.
	PlayError error

	// Block, when non-nil, is closed by the test to release an in-flight
	// Play. Leave nil to have Play return immediately.
	Block chan struct{}

	// PlayCalls records all Play invocations.
	PlayCalls []PlayCall
}

// Play implements [audio.Player]. Records the call, optionally blocks on
// Block or ctx, and returns PlayError.
func (p *Player) Play(ctx context.Context, clip audio.Clip) error {
	p.mu.Lock()
	p.PlayCalls = append(p.PlayCalls, PlayCall{Clip: clip})
	block := p.Block
	err := p.PlayError
	p.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// CallCount returns the number of Play invocations so far.
func (p *Player) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.PlayCalls)
}

// ─── Recorder ─────────────────────────────────────────────────────────────────

// RecordCall records the arguments of a single [Recorder.Record] invocation.
type RecordCall struct {
	// Format is the format passed to Record.
	Format audio.Format
}

// Recorder is a mock implementation of [audio.Recorder].
type Recorder struct {
	mu sync.Mutex

	// RecordResult is the capture returned by Record. Defaults to a fresh
	// [Capture] when left nil.
	RecordResult audio.Capture

	// RecordError is returned by Record.
	RecordError error

	// RecordCalls records all Record invocations.
	RecordCalls []RecordCall
}

// Record implements [audio.Recorder].
func (r *Recorder) Record(_ context.Context, format audio.Format) (audio.Capture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.RecordCalls = append(r.RecordCalls, RecordCall{Format: format})
	if r.RecordError != nil {
		return nil, r.RecordError
	}
	if r.RecordResult == nil {
		r.RecordResult = NewCapture()
	}
	return r.RecordResult, nil
}

// ─── Capture ──────────────────────────────────────────────────────────────────

// Capture is a mock implementation of [audio.Capture]. Feed frames with
// [Capture.Emit]; the channel closes on Stop.
type Capture struct {
	mu sync.Mutex

	frames  chan []byte
	stopped bool

	// CallCountStop records how many times Stop was called.
	CallCountStop int
}

// NewCapture returns an open capture with a buffered frame channel.
func NewCapture() *Capture {
	return &Capture{frames: make(chan []byte, 16)}
}

// Frames implements [audio.Capture].
func (c *Capture) Frames() <-chan []byte { return c.frames }

// Stop implements [audio.Capture]. Closes the frame channel on first call.
func (c *Capture) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallCountStop++
	if !c.stopped {
		c.stopped = true
		close(c.frames)
	}
	return nil
}

// Emit delivers a frame to the capture's consumer. No-op after Stop.
func (c *Capture) Emit(frame []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.frames <- frame
}
