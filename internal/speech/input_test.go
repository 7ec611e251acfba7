package speech

import (
	"context"
	"errors"
	"testing"
	"time"

	audiomock "github.com/asknori/noriassist/pkg/audio/mock"
	"github.com/asknori/noriassist/pkg/provider/stt"
	sttmock "github.com/asknori/noriassist/pkg/provider/stt/mock"
)

func TestInputPumpsFramesAndTranscripts(t *testing.T) {
	t.Parallel()

	capture := audiomock.NewCapture()
	recorder := &audiomock.Recorder{RecordResult: capture}
	sttSess := sttmock.NewSession()
	provider := &sttmock.Provider{Session: sttSess}

	in := NewInput(provider, recorder, stt.ListenConfig{SampleRate: 16000, Channels: 1})
	sess, err := in.Listen(context.Background())
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	capture.Emit([]byte{1, 0, 2, 0})
	capture.Emit([]byte{3, 0})

	// Wait for the audio pump to deliver both frames.
	deadline := time.After(2 * time.Second)
	for sttSess.SendAudioCallCount() < 2 {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for frames, got %d", sttSess.SendAudioCallCount())
		default:
			time.Sleep(time.Millisecond)
		}
	}

	sttSess.Emit(stt.Transcript{Text: "Jo", IsFinal: false})
	sttSess.Emit(stt.Transcript{Text: "John", IsFinal: true})
	sess.Stop()

	var got []string
	var finals []bool
	for tr := range sess.Transcripts() {
		got = append(got, tr.Text)
		finals = append(finals, tr.IsFinal)
	}
	if len(got) != 2 || got[0] != "Jo" || got[1] != "John" {
		t.Errorf("transcripts = %v, want [Jo John]", got)
	}
	if len(finals) != 2 || finals[0] || !finals[1] {
		t.Errorf("finals = %v, want [false true]", finals)
	}
}

func TestInputStopClosesCaptureAndSession(t *testing.T) {
	t.Parallel()

	capture := audiomock.NewCapture()
	recorder := &audiomock.Recorder{RecordResult: capture}
	sttSess := sttmock.NewSession()
	provider := &sttmock.Provider{Session: sttSess}

	in := NewInput(provider, recorder, stt.ListenConfig{})
	sess, err := in.Listen(context.Background())
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	sess.Stop()
	sess.Stop() // idempotent

	for range sess.Transcripts() {
	}
	if capture.CallCountStop == 0 {
		t.Error("expected the capture to be stopped")
	}
	if sttSess.CloseCallCount != 1 {
		t.Errorf("session Close calls = %d, want 1", sttSess.CloseCallCount)
	}
}

func TestInputRecorderErrorSurfaces(t *testing.T) {
	t.Parallel()

	recorder := &audiomock.Recorder{RecordError: errors.New("no microphone")}
	in := NewInput(&sttmock.Provider{}, recorder, stt.ListenConfig{})

	if _, err := in.Listen(context.Background()); err == nil {
		t.Error("expected recorder error to surface")
	}
}

func TestInputProviderErrorStopsCapture(t *testing.T) {
	t.Parallel()

	capture := audiomock.NewCapture()
	recorder := &audiomock.Recorder{RecordResult: capture}
	provider := &sttmock.Provider{ListenErr: errors.New("auth failed")}

	in := NewInput(provider, recorder, stt.ListenConfig{})
	if _, err := in.Listen(context.Background()); err == nil {
		t.Fatal("expected provider error to surface")
	}
	if capture.CallCountStop == 0 {
		t.Error("capture must be released when the session cannot open")
	}
}

func TestInputDefaultsFormat(t *testing.T) {
	t.Parallel()

	recorder := &audiomock.Recorder{}
	provider := &sttmock.Provider{}
	in := NewInput(provider, recorder, stt.ListenConfig{})

	sess, err := in.Listen(context.Background())
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer sess.Stop()

	if len(recorder.RecordCalls) != 1 {
		t.Fatalf("record calls = %d, want 1", len(recorder.RecordCalls))
	}
	f := recorder.RecordCalls[0].Format
	if f.SampleRate != 16000 || f.Channels != 1 {
		t.Errorf("capture format = %v, want 16000Hz/1ch", f)
	}
	if provider.ListenCalls[0].Cfg.SampleRate != 16000 {
		t.Errorf("session sample rate = %d, want 16000", provider.ListenCalls[0].Cfg.SampleRate)
	}
}

func TestInputSessionEndsAfterFinalTranscript(t *testing.T) {
	t.Parallel()

	capture := audiomock.NewCapture()
	recorder := &audiomock.Recorder{RecordResult: capture}
	sttSess := sttmock.NewSession()
	provider := &sttmock.Provider{Session: sttSess}

	in := NewInput(provider, recorder, stt.ListenConfig{})
	sess, err := in.Listen(context.Background())
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	sttSess.Emit(stt.Transcript{Text: "Jo", IsFinal: false})
	sttSess.Emit(stt.Transcript{Text: "John", IsFinal: true})

	// No Stop here: the final transcript alone must end the session.
	var got []string
	done := make(chan struct{})
	go func() {
		defer close(done)
		for tr := range sess.Transcripts() {
			got = append(got, tr.Text)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("transcript channel never closed after a final transcript")
	}
	if len(got) != 2 || got[1] != "John" {
		t.Errorf("transcripts = %v, want [Jo John]", got)
	}
	if capture.CallCountStop == 0 {
		t.Error("expected the capture to be stopped")
	}
	if sttSess.CloseCallCount == 0 {
		t.Error("expected the transcription session to be closed")
	}
}

func TestInputSessionEndsWhenUtteranceWindowElapses(t *testing.T) {
	t.Parallel()

	capture := audiomock.NewCapture()
	recorder := &audiomock.Recorder{RecordResult: capture}
	sttSess := sttmock.NewSession()
	provider := &sttmock.Provider{Session: sttSess}

	in := NewInput(provider, recorder, stt.ListenConfig{}, WithMaxUtterance(10*time.Millisecond))
	sess, err := in.Listen(context.Background())
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	// The recogniser stays silent; the window must close the session anyway.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range sess.Transcripts() {
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("transcript channel never closed after the utterance window")
	}
	if sttSess.CloseCallCount == 0 {
		t.Error("expected the transcription session to be closed")
	}
}

func TestInputNewListenTearsDownPrevious(t *testing.T) {
	t.Parallel()

	firstSess := sttmock.NewSession()
	provider := &sttmock.Provider{Session: firstSess}
	recorder := &audiomock.Recorder{RecordResult: audiomock.NewCapture()}

	in := NewInput(provider, recorder, stt.ListenConfig{})
	if _, err := in.Listen(context.Background()); err != nil {
		t.Fatalf("first Listen: %v", err)
	}

	// A fresh capture and session back the second Listen.
	provider.Session = sttmock.NewSession()
	recorder.RecordResult = audiomock.NewCapture()
	second, err := in.Listen(context.Background())
	if err != nil {
		t.Fatalf("second Listen: %v", err)
	}
	defer second.Stop()

	if firstSess.CloseCallCount == 0 {
		t.Error("expected the first session to be closed by the second Listen")
	}
}
