package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// mustNew is a test helper that calls New and fails the test on error.
func mustNew(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	c, err := New(baseURL, opts...)
	if err != nil {
		t.Fatalf("New(%q): %v", baseURL, err)
	}
	return c
}

func TestNew(t *testing.T) {
	t.Parallel()

	if _, err := New(""); err == nil {
		t.Error("expected error for empty base URL")
	}
	c := mustNew(t, "http://localhost:8000/")
	if c.baseURL != "http://localhost:8000" {
		t.Errorf("baseURL = %q, want trailing slash stripped", c.baseURL)
	}
}

func TestAsk(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ask" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req AskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Question != "How do I apply to TU Munich?" || req.SessionID != "sess-1" {
			t.Errorf("unexpected body: %+v", req)
		}
		json.NewEncoder(w).Encode(AskResponse{
			Answer:    "Apply via uni-assist.",
			LatencyMs: 420,
			MessageID: "msg-9",
		})
	}))
	defer srv.Close()

	c := mustNew(t, srv.URL)
	resp, err := c.Ask(context.Background(), AskRequest{
		Question:  "How do I apply to TU Munich?",
		SessionID: "sess-1",
	})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if resp.Answer != "Apply via uni-assist." || resp.MessageID != "msg-9" {
		t.Errorf("response = %+v", resp)
	}
}

func TestSendFeedback(t *testing.T) {
	t.Parallel()

	var got FeedbackRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/feedback" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	c := mustNew(t, srv.URL)
	err := c.SendFeedback(context.Background(), FeedbackRequest{
		MessageID: "msg-9",
		ThumbsUp:  true,
	})
	if err != nil {
		t.Fatalf("SendFeedback: %v", err)
	}
	if got.MessageID != "msg-9" || !got.ThumbsUp || got.ThumbsDown {
		t.Errorf("sent = %+v", got)
	}
}

func TestSearchScholarships(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var q ScholarshipQuery
		json.NewDecoder(r.Body).Decode(&q)
		if q.PreferredCountry != "Germany" || q.Level != "Masters" {
			t.Errorf("query = %+v", q)
		}
		json.NewEncoder(w).Encode(ScholarshipResult{Scholarships: "DAAD ...", Prompt: "p"})
	}))
	defer srv.Close()

	c := mustNew(t, srv.URL)
	res, err := c.SearchScholarships(context.Background(), ScholarshipQuery{
		Citizenship:      "India",
		PreferredCountry: "Germany",
		Level:            "Masters",
		Field:            "Engineering",
	})
	if err != nil {
		t.Fatalf("SearchScholarships: %v", err)
	}
	if res.Scholarships != "DAAD ..." {
		t.Errorf("result = %+v", res)
	}
}

func TestGenerateSOPAndDownloads(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/sop":
			json.NewEncoder(w).Encode(SOPResult{SOP: "My statement.", WordCount: 2})
		case "/api/sop/download/pdf":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["sop"] != "My statement." {
				t.Errorf("pdf body = %v", body)
			}
			w.Write([]byte("%PDF-1.7 fake"))
		case "/api/sop/download/docx":
			w.Write([]byte("PK docx fake"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := mustNew(t, srv.URL)
	sop, err := c.GenerateSOP(context.Background(), SOPRequest{Name: "Asha"})
	if err != nil {
		t.Fatalf("GenerateSOP: %v", err)
	}

	var pdf, docx bytes.Buffer
	if err := c.DownloadAll(context.Background(), sop.SOP, &pdf, &docx); err != nil {
		t.Fatalf("DownloadAll: %v", err)
	}
	if !bytes.HasPrefix(pdf.Bytes(), []byte("%PDF")) {
		t.Errorf("pdf blob = %q", pdf.String())
	}
	if !bytes.HasPrefix(docx.Bytes(), []byte("PK")) {
		t.Errorf("docx blob = %q", docx.String())
	}
}

func TestTranscribe(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/transcribe" {
			t.Errorf("path = %s", r.URL.Path)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "capture.wav" {
			t.Errorf("filename = %q", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "RIFFfake" {
			t.Errorf("upload = %q", data)
		}
		w.Write([]byte(`{"text":"my name is Asha"}`))
	}))
	defer srv.Close()

	c := mustNew(t, srv.URL)
	text, err := c.Transcribe(context.Background(), []byte("RIFFfake"))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "my name is Asha" {
		t.Errorf("text = %q", text)
	}
}

func TestServerErrorSurfaces(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := mustNew(t, srv.URL)
	if _, err := c.Ask(context.Background(), AskRequest{Question: "hi"}); err == nil {
		t.Error("expected error on HTTP 502")
	}
	if err := c.DownloadPDF(context.Background(), "x", io.Discard); err == nil {
		t.Error("expected error on HTTP 502")
	}
	if _, err := c.Transcribe(context.Background(), []byte("RIFF")); err == nil {
		t.Error("expected error on HTTP 502")
	}
}
