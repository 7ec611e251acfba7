// Package api is the HTTP client for the Ask Nori backend. Every call is
// plain request/response JSON except the document downloads, which return
// binary blobs, and Transcribe, which uploads a WAV file as multipart form
// data.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/asknori/noriassist/internal/observe"
)

const defaultTimeout = 60 * time.Second

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithTimeout sets the per-request HTTP timeout. Defaults to 60 s; SOP
// generation routinely takes tens of seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMetrics attaches request metrics recording.
func WithMetrics(m *observe.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// Client talks to the Ask Nori backend. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observe.Metrics
}

// New creates a Client for the backend at baseURL (e.g.,
// "http://localhost:8000"). baseURL must be non-empty.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("api: baseURL must not be empty")
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// ─── Chat ─────────────────────────────────────────────────────────────────────

// AskRequest is the body of POST /api/ask.
type AskRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId,omitempty"`
}

// AskResponse is the answer payload of POST /api/ask.
type AskResponse struct {
	Answer    string `json:"answer"`
	LatencyMs int64  `json:"latencyMs"`
	MessageID string `json:"messageId"`
}

// Ask sends a chat question and returns the assistant's answer.
func (c *Client) Ask(ctx context.Context, req AskRequest) (*AskResponse, error) {
	var resp AskResponse
	if err := c.postJSON(ctx, "/api/ask", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FeedbackRequest is the body of POST /api/feedback. MessageID references
// the answer being rated.
type FeedbackRequest struct {
	MessageID  string `json:"messageId"`
	ThumbsUp   bool   `json:"thumbsUp"`
	ThumbsDown bool   `json:"thumbsDown"`
	Feedback   string `json:"feedback,omitempty"`
}

// SendFeedback records a thumbs-up/down rating for an answer.
func (c *Client) SendFeedback(ctx context.Context, req FeedbackRequest) error {
	return c.postJSON(ctx, "/api/feedback", req, nil)
}

// ─── Scholarships ─────────────────────────────────────────────────────────────

// ScholarshipQuery is the body of POST /api/scholarships.
type ScholarshipQuery struct {
	Citizenship      string `json:"citizenship"`
	PreferredCountry string `json:"preferred_country"`
	Level            string `json:"level"`
	Field            string `json:"field"`
}

// ScholarshipResult is the response of POST /api/scholarships. Scholarships
// holds the rendered recommendation text; Prompt echoes the prompt the
// backend built from the query.
type ScholarshipResult struct {
	Scholarships string `json:"scholarships"`
	Prompt       string `json:"prompt"`
}

// SearchScholarships submits the completed scholarship form.
func (c *Client) SearchScholarships(ctx context.Context, q ScholarshipQuery) (*ScholarshipResult, error) {
	var resp ScholarshipResult
	if err := c.postJSON(ctx, "/api/scholarships", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ─── SOP ──────────────────────────────────────────────────────────────────────

// SOPRequest is the body of POST /api/sop. The backend accepts the SOP
// builder form fields verbatim.
type SOPRequest struct {
	Name                    string `json:"name"`
	CountryOfOrigin         string `json:"countryOfOrigin"`
	IntendedDegree          string `json:"intendedDegree"`
	PreferredCountryOfStudy string `json:"preferredCountryOfStudy"`
	PreferredFieldOfStudy   string `json:"preferredFieldOfStudy"`
	PreferredUniversity     string `json:"preferredUniversity"`
	GraduationYear          string `json:"graduationYear,omitempty"`
	RelevantSubjects        string `json:"relevantSubjects,omitempty"`
}

// SOPResult is the response of POST /api/sop.
type SOPResult struct {
	SOP       string `json:"sop"`
	Prompt    string `json:"prompt"`
	WordCount int    `json:"word_count"`
}

// GenerateSOP submits the completed SOP form and returns the generated
// statement of purpose.
func (c *Client) GenerateSOP(ctx context.Context, req SOPRequest) (*SOPResult, error) {
	var resp SOPResult
	if err := c.postJSON(ctx, "/api/sop", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DownloadPDF renders the SOP text as a PDF and writes the blob to w.
func (c *Client) DownloadPDF(ctx context.Context, sop string, w io.Writer) error {
	return c.downloadBlob(ctx, "/api/sop/download/pdf", sop, w)
}

// DownloadDOCX renders the SOP text as a DOCX and writes the blob to w.
func (c *Client) DownloadDOCX(ctx context.Context, sop string, w io.Writer) error {
	return c.downloadBlob(ctx, "/api/sop/download/docx", sop, w)
}

// DownloadAll fetches the PDF and DOCX renditions of the same SOP in
// parallel. Either writer may receive partial output when the other
// download fails first.
func (c *Client) DownloadAll(ctx context.Context, sop string, pdf, docx io.Writer) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.DownloadPDF(ctx, sop, pdf) })
	g.Go(func() error { return c.DownloadDOCX(ctx, sop, docx) })
	return g.Wait()
}

// ─── Transcription ────────────────────────────────────────────────────────────

// Transcribe uploads a complete WAV recording to the backend's transcription
// endpoint and returns the recognised text. This is the STT path of last
// resort when no streaming provider is available.
func (c *Client) Transcribe(ctx context.Context, wav []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "capture.wav")
	if err != nil {
		return "", fmt.Errorf("api: create form file: %w", err)
	}
	if _, err := fw.Write(wav); err != nil {
		return "", fmt.Errorf("api: write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("api: close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/transcribe", &body)
	if err != nil {
		return "", fmt.Errorf("api: create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(ctx, "/api/transcribe", "error", start)
		return "", fmt.Errorf("api: POST /api/transcribe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.record(ctx, "/api/transcribe", "error", start)
		return "", fmt.Errorf("api: POST /api/transcribe returned status %d", resp.StatusCode)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.record(ctx, "/api/transcribe", "error", start)
		return "", fmt.Errorf("api: decode transcription: %w", err)
	}
	c.record(ctx, "/api/transcribe", "ok", start)
	return result.Text, nil
}

// ─── plumbing ─────────────────────────────────────────────────────────────────

// postJSON sends body as JSON to path and decodes the response into out,
// unless out is nil.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("api: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("api: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(ctx, path, "error", start)
		return fmt.Errorf("api: POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.record(ctx, path, "error", start)
		return fmt.Errorf("api: POST %s returned status %d", path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.record(ctx, path, "error", start)
			return fmt.Errorf("api: decode %s response: %w", path, err)
		}
	}
	c.record(ctx, path, "ok", start)
	return nil
}

// downloadBlob POSTs the SOP text and streams the binary response into w.
func (c *Client) downloadBlob(ctx context.Context, path, sop string, w io.Writer) error {
	data, err := json.Marshal(map[string]string{"sop": sop})
	if err != nil {
		return fmt.Errorf("api: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("api: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(ctx, path, "error", start)
		return fmt.Errorf("api: POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.record(ctx, path, "error", start)
		return fmt.Errorf("api: POST %s returned status %d", path, resp.StatusCode)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		c.record(ctx, path, "error", start)
		return fmt.Errorf("api: stream %s response: %w", path, err)
	}
	c.record(ctx, path, "ok", start)
	return nil
}

func (c *Client) record(ctx context.Context, endpoint, status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordBackendRequest(ctx, endpoint, status, time.Since(start))
}
