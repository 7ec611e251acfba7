// Package audio provides the audio primitives shared by the speech
// providers: PCM formats and clips, a WAV encoder for capture uploads, and
// the microphone [Recorder] and speaker [Player] abstractions with
// subprocess-backed implementations for desktop use.
package audio

import "fmt"

// Format describes the sample rate and channel count of a PCM16 stream.
type Format struct {
	// SampleRate is the sample rate in Hz. 16000 is the STT-optimised
	// default; TTS providers commonly emit 24000.
	SampleRate int

	// Channels is the number of interleaved channels. 1 = mono, which every
	// STT provider here requires.
	Channels int
}

// String renders the format for logs, e.g. "16000Hz/1ch".
func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch", f.SampleRate, f.Channels)
}

// Clip is a complete utterance of raw 16-bit little-endian signed PCM.
type Clip struct {
	Format Format
	Data   []byte
}

// Duration returns the clip length in milliseconds, 0 for malformed clips.
func (c Clip) Duration() int {
	bytesPerSecond := c.Format.SampleRate * c.Format.Channels * 2
	if bytesPerSecond <= 0 {
		return 0
	}
	return len(c.Data) * 1000 / bytesPerSecond
}
