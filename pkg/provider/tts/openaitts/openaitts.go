// Package openaitts provides a TTS provider backed by the OpenAI speech API.
// It implements the tts.Provider interface.
//
// Synthesis requests the raw PCM response format, which the API delivers as
// 24kHz mono PCM16, so no container parsing is needed.
//
// Typical usage:
//
//	p, err := openaitts.New(apiKey,
//	    openaitts.WithModel("tts-1"),
//	    openaitts.WithTimeout(15*time.Second),
//	)
//	clip, err := p.Synthesize(ctx, "What is your first name?", tts.Voice{ID: "alloy"})
package openaitts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"

	"github.com/asknori/noriassist/pkg/audio"
	"github.com/asknori/noriassist/pkg/provider/tts"
)

// Ensure Provider implements the tts.Provider interface.
var _ tts.Provider = (*Provider)(nil)

// DefaultModel is the default OpenAI speech model.
const DefaultModel = "tts-1"

// DefaultVoice is used when the caller passes a voice with an empty ID.
const DefaultVoice = "alloy"

// pcmFormat is the fixed output format of the API's pcm response type.
var pcmFormat = audio.Format{SampleRate: 24000, Channels: 1}

// config holds optional configuration for the provider.
type config struct {
	model   string
	baseURL string
	timeout time.Duration
}

// Option is a functional option for Provider.
type Option func(*config)

// WithModel overrides the speech model, e.g. "tts-1-hd".
func WithModel(model string) Option {
	return func(c *config) {
		c.model = model
	}
}

// WithBaseURL overrides the default OpenAI API base URL.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithTimeout sets a per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// Provider implements tts.Provider using the OpenAI speech API.
type Provider struct {
	client oai.Client
	model  string
}

// New constructs a new OpenAI TTS Provider. apiKey must not be empty.
func New(apiKey string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openaitts: apiKey must not be empty")
	}

	cfg := &config{model: DefaultModel}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{
			Timeout: cfg.timeout,
		}))
	}

	return &Provider{client: oai.NewClient(reqOpts...), model: cfg.model}, nil
}

// Synthesize implements tts.Provider.
func (p *Provider) Synthesize(ctx context.Context, text string, voice tts.Voice) (audio.Clip, error) {
	if text == "" {
		return audio.Clip{Format: pcmFormat}, nil
	}

	voiceID := voice.ID
	if voiceID == "" {
		voiceID = DefaultVoice
	}

	params := oai.AudioSpeechNewParams{
		Model:          oai.SpeechModel(p.model),
		Input:          text,
		Voice:          oai.AudioSpeechNewParamsVoice(voiceID),
		ResponseFormat: oai.AudioSpeechNewParamsResponseFormatPCM,
	}
	if voice.Speed > 0 && voice.Speed != 1.0 {
		params.Speed = param.NewOpt(voice.Speed)
	}

	resp, err := p.client.Audio.Speech.New(ctx, params)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("openaitts: synthesize: %w", err)
	}
	defer resp.Body.Close()

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("openaitts: read audio response: %w", err)
	}
	return audio.Clip{Format: pcmFormat, Data: pcm}, nil
}

// ListVoices implements tts.Provider. The OpenAI API has no voice-listing
// endpoint; the catalogue is fixed per model generation, so a static list is
// returned.
func (p *Provider) ListVoices(_ context.Context) ([]tts.Voice, error) {
	names := []string{"alloy", "ash", "coral", "echo", "fable", "nova", "onyx", "sage", "shimmer"}
	voices := make([]tts.Voice, 0, len(names))
	for _, n := range names {
		voices = append(voices, tts.Voice{ID: n, Language: "en", Speed: 1.0})
	}
	return voices, nil
}
