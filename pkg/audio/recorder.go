package audio

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"
)

// frameBytes is the capture chunk size: 100ms of 16kHz mono PCM16. Small
// enough for responsive streaming, large enough to keep syscall overhead low.
const frameBytes = 3200

// Capture is a live microphone capture. Frames delivers raw PCM16 chunks in
// the format the capture was opened with; the channel closes when the
// capture ends, whether by Stop or by the source drying up.
type Capture interface {
	Frames() <-chan []byte
	Stop() error
}

// Recorder opens microphone captures.
type Recorder interface {
	Record(ctx context.Context, format Format) (Capture, error)
}

// CommandRecorder reads raw PCM from an external capture command such as
// arecord. One subprocess per capture; captures are independent.
type CommandRecorder struct {
	command string
	args    func(f Format) []string
}

// NewCommandRecorder returns a recorder backed by arecord.
func NewCommandRecorder() *CommandRecorder {
	return &CommandRecorder{
		command: "arecord",
		args: func(f Format) []string {
			return []string{
				"-q",
				"-t", "raw",
				"-f", "S16_LE",
				"-r", strconv.Itoa(f.SampleRate),
				"-c", strconv.Itoa(f.Channels),
				"-",
			}
		},
	}
}

// Record implements [Recorder]. The capture runs until Stop is called or ctx
// is cancelled.
func (r *CommandRecorder) Record(ctx context.Context, format Format) (Capture, error) {
	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, r.command, r.args(format)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("audio: %s stdout: %w", r.command, err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("audio: start %s: %w", r.command, err)
	}

	capture := &commandCapture{
		frames: make(chan []byte, 16),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go capture.pump(stdout, cmd)
	return capture, nil
}

type commandCapture struct {
	frames chan []byte
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (c *commandCapture) Frames() <-chan []byte { return c.frames }

// Stop kills the capture subprocess and releases the pump even when the
// consumer has stopped draining. Idempotent; the frames channel closes once
// the pump exits.
func (c *commandCapture) Stop() error {
	c.once.Do(func() {
		c.cancel()
		close(c.done)
	})
	return nil
}

func (c *commandCapture) pump(stdout io.Reader, cmd *exec.Cmd) {
	defer close(c.frames)
	defer cmd.Wait()
	for {
		buf := make([]byte, frameBytes)
		n, err := io.ReadFull(stdout, buf)
		if n > 0 {
			select {
			case c.frames <- buf[:n]:
			case <-c.done:
				return
			}
		}
		if err != nil {
			return
		}
	}
}
