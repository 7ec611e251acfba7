package audio

import (
	"encoding/binary"
	"fmt"
)

// EncodeWAV wraps a PCM16 clip in a RIFF/WAVE container. The server-side
// transcription endpoint accepts WAV uploads, so captures buffered from the
// microphone go through here before leaving the process.
func EncodeWAV(clip Clip) ([]byte, error) {
	if clip.Format.SampleRate <= 0 || clip.Format.Channels <= 0 {
		return nil, fmt.Errorf("audio: invalid format %s", clip.Format)
	}
	if len(clip.Data)%2 != 0 {
		return nil, fmt.Errorf("audio: odd byte count %d in PCM data", len(clip.Data))
	}

	const headerSize = 44
	byteRate := clip.Format.SampleRate * clip.Format.Channels * 2
	blockAlign := clip.Format.Channels * 2

	out := make([]byte, headerSize+len(clip.Data))
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+len(clip.Data)))
	copy(out[8:12], "WAVE")
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(out[22:24], uint16(clip.Format.Channels))
	binary.LittleEndian.PutUint32(out[24:28], uint32(clip.Format.SampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], 16) // bits per sample
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(len(clip.Data)))
	copy(out[headerSize:], clip.Data)
	return out, nil
}

// DecodeWAV extracts the PCM16 payload from a RIFF/WAVE container. Only
// uncompressed 16-bit PCM is supported, which is what every TTS provider
// here emits when asked for WAV output.
func DecodeWAV(data []byte) (Clip, error) {
	if len(data) < 44 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return Clip{}, fmt.Errorf("audio: not a RIFF/WAVE file")
	}

	var format Format
	// Walk the chunk list; fmt and data can appear in any order and extra
	// chunks (LIST, fact) are common.
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+size > len(data) {
			return Clip{}, fmt.Errorf("audio: truncated %q chunk", id)
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return Clip{}, fmt.Errorf("audio: short fmt chunk")
			}
			codec := binary.LittleEndian.Uint16(data[body : body+2])
			bits := binary.LittleEndian.Uint16(data[body+14 : body+16])
			if codec != 1 || bits != 16 {
				return Clip{}, fmt.Errorf("audio: unsupported WAV encoding (codec %d, %d bit)", codec, bits)
			}
			format.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			format.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
		case "data":
			if format.SampleRate == 0 {
				return Clip{}, fmt.Errorf("audio: data chunk before fmt chunk")
			}
			return Clip{Format: format, Data: data[body : body+size]}, nil
		}
		// Chunks are word aligned.
		pos = body + size + size%2
	}
	return Clip{}, fmt.Errorf("audio: no data chunk found")
}
