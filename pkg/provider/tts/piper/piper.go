// Package piper provides a TTS provider backed by a locally-running Piper
// HTTP server. It implements the tts.Provider interface.
//
// The Piper HTTP server synthesises one utterance per request: GET / with a
// text query parameter returns a complete WAV file. The provider strips the
// container and hands back the raw PCM clip.
//
// Typical usage:
//
//	p, err := piper.New("http://localhost:5000",
//	    piper.WithTimeout(15*time.Second),
//	)
//	clip, err := p.Synthesize(ctx, "What is your first name?", tts.Voice{})
package piper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/asknori/noriassist/pkg/audio"
	"github.com/asknori/noriassist/pkg/provider/tts"
)

// Compile-time interface assertion.
var _ tts.Provider = (*Provider)(nil)

const defaultTimeout = 30 * time.Second

// Option is a functional option for configuring a Piper Provider.
type Option func(*Provider)

// WithTimeout sets the per-request HTTP timeout for calls to the Piper
// server. Defaults to 30 s if not set.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) {
		p.httpClient.Timeout = d
	}
}

// Provider implements tts.Provider backed by a locally-running Piper HTTP
// server. It is safe for concurrent use.
type Provider struct {
	serverURL  string
	httpClient *http.Client
}

// New creates a new Piper Provider targeting the server at serverURL (e.g.,
// "http://localhost:5000"). serverURL must be non-empty.
func New(serverURL string, opts ...Option) (*Provider, error) {
	if serverURL == "" {
		return nil, errors.New("piper: serverURL must not be empty")
	}
	p := &Provider{
		serverURL: strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Synthesize implements tts.Provider. A Piper server is started with one
// fixed voice model, so voice.ID is ignored unless the server exposes
// multiple voices, in which case it is passed through as the voice
// parameter.
func (p *Provider) Synthesize(ctx context.Context, text string, voice tts.Voice) (audio.Clip, error) {
	if text == "" {
		return audio.Clip{}, nil
	}

	params := url.Values{}
	params.Set("text", text)
	if voice.ID != "" {
		params.Set("voice", voice.ID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.serverURL+"/?"+params.Encode(), nil)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("piper: create tts request: %w", err)
	}
	req.Header.Set("Accept", "audio/wav")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("piper: GET /: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return audio.Clip{}, fmt.Errorf("piper: GET / returned status %d", resp.StatusCode)
	}

	wav, err := io.ReadAll(resp.Body)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("piper: read WAV response: %w", err)
	}

	clip, err := audio.DecodeWAV(wav)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("piper: %w", err)
	}
	return clip, nil
}

// ListVoices implements tts.Provider. A Piper server serves the single voice
// model it was started with, so a one-element catalogue is returned.
func (p *Provider) ListVoices(_ context.Context) ([]tts.Voice, error) {
	return []tts.Voice{{ID: "default", Speed: 1.0}}, nil
}
