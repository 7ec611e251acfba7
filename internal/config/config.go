// Package config provides the configuration schema, loader, and provider
// registry for the noriassist voice companion.
package config

import "time"

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// FormKind selects which wizard form the voice session fills.
type FormKind string

const (
	// FormCV is the CV builder form.
	FormCV FormKind = "cv"

	// FormScholarship is the scholarship finder form.
	FormScholarship FormKind = "scholarship"

	// FormSOP is the statement-of-purpose builder form.
	FormSOP FormKind = "sop"
)

// IsValid reports whether f is a recognised form kind.
func (f FormKind) IsValid() bool {
	switch f {
	case FormCV, FormScholarship, FormSOP:
		return true
	}
	return false
}

// FormatOption selects the CV tailoring mode. Only meaningful for [FormCV].
type FormatOption string

const (
	FormatCountry FormatOption = "country"
	FormatCompany FormatOption = "company"
	FormatRole    FormatOption = "role"
)

// IsValid reports whether o is a recognised tailoring mode.
func (o FormatOption) IsValid() bool {
	switch o {
	case FormatCountry, FormatCompany, FormatRole:
		return true
	}
	return false
}

// Config is the root configuration structure for noriassist.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	App       AppConfig       `yaml:"app"`
	Backend   BackendConfig   `yaml:"backend"`
	Providers ProvidersConfig `yaml:"providers"`
	Voice     VoiceConfig     `yaml:"voice"`
}

// AppConfig holds process-wide settings.
type AppConfig struct {
	// LogLevel controls verbosity. Empty means info.
	LogLevel LogLevel `yaml:"log_level"`
}

// BackendConfig points at the Ask Nori backend server.
type BackendConfig struct {
	// BaseURL is the backend origin (e.g., "http://localhost:8000"). When
	// empty, document downloads and server-side transcription are unavailable.
	BaseURL string `yaml:"base_url"`

	// TimeoutSeconds is the per-request HTTP timeout. 0 means the client
	// default. SOP generation routinely takes tens of seconds.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Timeout returns the configured request timeout, or zero when unset.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// ProvidersConfig declares which provider implementation to use for each
// speech direction. Each field selects a named provider registered in the
// [Registry].
type ProvidersConfig struct {
	TTS ProviderEntry `yaml:"tts"`
	STT ProviderEntry `yaml:"stt"`
}

// ProviderEntry is the common configuration block shared by all provider
// types. The Name field is used to look up the constructor in the [Registry].
type ProviderEntry struct {
	// Name selects the registered provider implementation (e.g., "openai",
	// "deepgram").
	Name string `yaml:"name"`

	// APIKey is the authentication key for the provider's API if any.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the provider's default API endpoint.
	// Leave empty to use the provider's built-in default.
	BaseURL string `yaml:"base_url"`

	// Model selects a specific model within the provider (e.g., "tts-1",
	// "nova-3", or a whisper model file path).
	Model string `yaml:"model"`

	// Options holds provider-specific configuration values not covered by
	// the standard fields above.
	Options map[string]any `yaml:"options"`
}

// VoiceConfig describes the voice form session to run.
type VoiceConfig struct {
	// Form selects the wizard form. Empty means cv.
	Form FormKind `yaml:"form"`

	// FormatOption selects the CV tailoring mode. Ignored for other forms.
	FormatOption FormatOption `yaml:"format_option"`

	// HasParsedCV marks that an uploaded CV was parsed into the form, which
	// changes the CV builder's question set.
	HasParsedCV bool `yaml:"has_parsed_cv"`

	// Language is the BCP-47 recognition language (e.g., "en"). Empty means
	// the STT provider default.
	Language string `yaml:"language"`

	// SampleRate is the microphone capture rate in Hz. 0 means 16000.
	SampleRate int `yaml:"sample_rate"`

	// VoiceID is the TTS voice identifier (e.g., "alloy").
	VoiceID string `yaml:"voice_id"`

	// SpeedFactor adjusts speaking rate in the range [0.5, 2.0]. 0 means
	// provider default.
	SpeedFactor float64 `yaml:"speed_factor"`
}
