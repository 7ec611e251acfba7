package whisper

import (
	"encoding/binary"
	"math"
	"testing"
)

// pcm16 builds a little-endian PCM byte slice from int16 samples.
func pcm16(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func TestPcmToFloat32(t *testing.T) {
	got := pcmToFloat32(pcm16(0, 16384, -16384, 32767))
	want := []float32{0, 0.5, -0.5, 32767.0 / 32768.0}
	if len(got) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(got))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("sample %d = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestPcmToFloat32Mono_Stereo(t *testing.T) {
	// Two stereo frames: (16384, 0) and (-16384, -16384).
	got := pcmToFloat32Mono(pcm16(16384, 0, -16384, -16384), 2)
	want := []float32{0.25, -0.5}
	if len(got) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(got))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("sample %d = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestComputeRMS(t *testing.T) {
	if rms := computeRMS(nil); rms != 0 {
		t.Errorf("RMS of empty buffer = %f, want 0", rms)
	}
	if rms := computeRMS(pcm16(0, 0, 0, 0)); rms != 0 {
		t.Errorf("RMS of silence = %f, want 0", rms)
	}
	// Constant amplitude 1000 gives RMS exactly 1000.
	if rms := computeRMS(pcm16(1000, -1000, 1000, -1000)); math.Abs(rms-1000) > 1e-9 {
		t.Errorf("RMS = %f, want 1000", rms)
	}
}

func TestChunkDurationMs(t *testing.T) {
	// 3200 bytes of 16kHz mono PCM16 is 100ms.
	chunk := make([]byte, 3200)
	if got := chunkDurationMs(chunk, 16000, 1); got != 100 {
		t.Errorf("duration = %dms, want 100ms", got)
	}
	if got := chunkDurationMs(chunk, 0, 1); got != 0 {
		t.Errorf("duration with bad rate = %d, want 0", got)
	}
}
