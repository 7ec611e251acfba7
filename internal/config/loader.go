package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ValidProviderNames lists known provider names per provider kind.
// Used by [Validate] to warn about unrecognised provider names.
var ValidProviderNames = map[string][]string{
	"tts": {"openai", "piper"},
	"stt": {"deepgram", "whisper", "upload"},
}

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader] and
// [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// App
	if cfg.App.LogLevel != "" && !cfg.App.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("app.log_level %q is invalid; valid values: debug, info, warn, error", cfg.App.LogLevel))
	}

	// Backend
	if cfg.Backend.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("backend.timeout_seconds %d must not be negative", cfg.Backend.TimeoutSeconds))
	}
	if cfg.Backend.BaseURL == "" {
		slog.Warn("backend.base_url is empty; document downloads and server-side transcription will not be available")
	}

	// Provider name validation — warn for unknown provider names.
	validateProviderName("tts", cfg.Providers.TTS.Name)
	validateProviderName("stt", cfg.Providers.STT.Name)

	if cfg.Providers.TTS.Name == "" {
		slog.Warn("no TTS provider configured; prompts will not be spoken aloud")
	}

	// STT availability — the form cannot be filled by voice without one.
	if cfg.Providers.STT.Name == "" {
		errs = append(errs, errors.New("providers.stt.name is required"))
	}

	// The upload provider records locally and transcribes through the
	// backend, so it cannot run without one.
	if cfg.Providers.STT.Name == "upload" && cfg.Backend.BaseURL == "" {
		errs = append(errs, errors.New("providers.stt \"upload\" requires backend.base_url"))
	}

	// Voice
	if cfg.Voice.Form != "" && !cfg.Voice.Form.IsValid() {
		errs = append(errs, fmt.Errorf("voice.form %q is invalid; valid values: cv, scholarship, sop", cfg.Voice.Form))
	}
	if cfg.Voice.FormatOption != "" && !cfg.Voice.FormatOption.IsValid() {
		errs = append(errs, fmt.Errorf("voice.format_option %q is invalid; valid values: country, company, role", cfg.Voice.FormatOption))
	}
	if cfg.Voice.FormatOption != "" && cfg.Voice.Form != "" && cfg.Voice.Form != FormCV {
		slog.Warn("voice.format_option only applies to the cv form",
			"form", cfg.Voice.Form,
			"format_option", cfg.Voice.FormatOption,
		)
	}
	if cfg.Voice.SampleRate < 0 {
		errs = append(errs, fmt.Errorf("voice.sample_rate %d must not be negative", cfg.Voice.SampleRate))
	}
	if cfg.Voice.SpeedFactor != 0 {
		if cfg.Voice.SpeedFactor < 0.5 || cfg.Voice.SpeedFactor > 2.0 {
			errs = append(errs, fmt.Errorf("voice.speed_factor %.2f is out of range [0.5, 2.0]", cfg.Voice.SpeedFactor))
		}
	}

	return errors.Join(errs...)
}

// validateProviderName logs a warning if name is non-empty and not found in
// the [ValidProviderNames] list for the given kind.
func validateProviderName(kind, name string) {
	if name == "" {
		return
	}
	known, ok := ValidProviderNames[kind]
	if !ok {
		return
	}
	if slices.Contains(known, name) {
		return
	}
	slog.Warn("unknown provider name — may be a typo or third-party provider",
		"kind", kind,
		"name", name,
		"known", known,
	)
}
