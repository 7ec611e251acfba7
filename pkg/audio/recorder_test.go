package audio

import (
	"os/exec"
	"testing"
	"time"
)

// endlessReader yields zeroed bytes forever, standing in for a capture pipe
// that never runs dry.
type endlessReader struct{}

func (endlessReader) Read(p []byte) (int, error) { return len(p), nil }

func TestCommandCaptureStopUnblocksPump(t *testing.T) {
	t.Parallel()

	// Unbuffered channel with no consumer: the pump blocks on its first
	// frame send and only Stop can release it.
	c := &commandCapture{
		frames: make(chan []byte),
		cancel: func() {},
		done:   make(chan struct{}),
	}
	go c.pump(endlessReader{}, &exec.Cmd{})

	time.Sleep(10 * time.Millisecond)
	if err := c.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-c.frames:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("frames channel never closed after Stop")
		}
	}
}

func TestCommandCaptureStopIsIdempotent(t *testing.T) {
	t.Parallel()

	c := &commandCapture{
		frames: make(chan []byte, 1),
		cancel: func() {},
		done:   make(chan struct{}),
	}
	if err := c.Stop(); err != nil {
		t.Fatalf("first Stop: %v", err)
	}
	if err := c.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}
