package upload

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/asknori/noriassist/pkg/audio"
	"github.com/asknori/noriassist/pkg/provider/stt"
)

// fakeTranscriber records uploads and returns a canned result.
type fakeTranscriber struct {
	mu     sync.Mutex
	wavs   [][]byte
	result string
	err    error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, wav []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]byte, len(wav))
	copy(cp, wav)
	f.wavs = append(f.wavs, cp)
	return f.result, f.err
}

func TestNewRejectsNilTranscriber(t *testing.T) {
	t.Parallel()
	if _, err := New(nil); err == nil {
		t.Error("expected error for nil transcriber")
	}
}

func TestSessionBuffersAndFlushesOnClose(t *testing.T) {
	t.Parallel()

	tr := &fakeTranscriber{result: "hello world"}
	p, err := New(tr)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	sess, err := p.Listen(context.Background(), stt.ListenConfig{SampleRate: 16000, Channels: 1})
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	if err := sess.SendAudio([]byte{1, 0, 2, 0}); err != nil {
		t.Fatalf("SendAudio: %v", err)
	}
	if err := sess.SendAudio([]byte{3, 0}); err != nil {
		t.Fatalf("SendAudio: %v", err)
	}

	// Nothing is uploaded before Close.
	tr.mu.Lock()
	uploads := len(tr.wavs)
	tr.mu.Unlock()
	if uploads != 0 {
		t.Fatalf("expected no uploads before Close, got %d", uploads)
	}

	if err := sess.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, ok := <-sess.Transcripts()
	if !ok {
		t.Fatal("transcript channel closed without a result")
	}
	if got.Text != "hello world" || !got.IsFinal {
		t.Errorf("transcript = %+v, want final 'hello world'", got)
	}
	if _, ok := <-sess.Transcripts(); ok {
		t.Error("expected channel closed after the single result")
	}

	// The upload must be a valid WAV holding the concatenated PCM.
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if len(tr.wavs) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(tr.wavs))
	}
	clip, err := audio.DecodeWAV(tr.wavs[0])
	if err != nil {
		t.Fatalf("uploaded bytes are not WAV: %v", err)
	}
	want := []byte{1, 0, 2, 0, 3, 0}
	if string(clip.Data) != string(want) {
		t.Errorf("uploaded PCM = %v, want %v", clip.Data, want)
	}
}

func TestSessionEmptyCaptureSkipsUpload(t *testing.T) {
	t.Parallel()

	tr := &fakeTranscriber{result: "should not be used"}
	p, _ := New(tr)
	sess, err := p.Listen(context.Background(), stt.ListenConfig{})
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	if err := sess.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok := <-sess.Transcripts(); ok {
		t.Error("expected no transcript for empty capture")
	}
	if len(tr.wavs) != 0 {
		t.Errorf("expected no upload for empty capture, got %d", len(tr.wavs))
	}
}

func TestSessionCloseIdempotent(t *testing.T) {
	t.Parallel()

	tr := &fakeTranscriber{result: "once"}
	p, _ := New(tr)
	sess, _ := p.Listen(context.Background(), stt.ListenConfig{})

	sess.SendAudio([]byte{1, 0})
	if err := sess.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := sess.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if len(tr.wavs) != 1 {
		t.Errorf("expected exactly 1 upload, got %d", len(tr.wavs))
	}
	if err := sess.SendAudio([]byte{2, 0}); err == nil {
		t.Error("expected SendAudio after Close to fail")
	}
}

func TestSessionTranscribeError(t *testing.T) {
	t.Parallel()

	tr := &fakeTranscriber{err: errors.New("backend down")}
	p, _ := New(tr)
	sess, _ := p.Listen(context.Background(), stt.ListenConfig{})

	sess.SendAudio([]byte{1, 0})
	if err := sess.Close(); err == nil {
		t.Error("expected Close to surface the transcription error")
	}
	if _, ok := <-sess.Transcripts(); ok {
		t.Error("expected no transcript on error")
	}
}
