package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

// Player plays a complete clip through the local output device, blocking
// until playback finishes or ctx is cancelled.
type Player interface {
	Play(ctx context.Context, clip Clip) error
}

// CommandPlayer pipes raw PCM to an external playback command such as aplay
// or ffplay. The zero value is not usable; use [NewCommandPlayer].
type CommandPlayer struct {
	command string
	args    func(f Format) []string
}

// NewCommandPlayer returns a player backed by aplay, which ALSA systems ship
// by default.
func NewCommandPlayer() *CommandPlayer {
	return &CommandPlayer{
		command: "aplay",
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

// Play implements [Player]. The subprocess is killed when ctx is cancelled,
// which cuts playback mid-clip.
func (p *CommandPlayer) Play(ctx context.Context, clip Clip) error {
	cmd := exec.CommandContext(ctx, p.command, p.args(clip.Format)...)
	cmd.Stdin = bytes.NewReader(clip.Data)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("audio: %s: %w", p.command, err)
	}
	return nil
}
