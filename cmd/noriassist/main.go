// Command noriassist runs the Ask Nori voice companion: it walks a respondent
// through one of the study-abroad wizard forms by voice, validates the
// answers, and submits the completed form to the backend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/asknori/noriassist/internal/api"
	"github.com/asknori/noriassist/internal/config"
	"github.com/asknori/noriassist/internal/form"
	"github.com/asknori/noriassist/internal/observe"
	"github.com/asknori/noriassist/internal/questions"
	"github.com/asknori/noriassist/internal/resilience"
	"github.com/asknori/noriassist/internal/schema"
	"github.com/asknori/noriassist/internal/speech"
	"github.com/asknori/noriassist/internal/voiceform"
	"github.com/asknori/noriassist/pkg/audio"
	"github.com/asknori/noriassist/pkg/provider/stt"
	"github.com/asknori/noriassist/pkg/provider/stt/deepgram"
	"github.com/asknori/noriassist/pkg/provider/stt/upload"
	"github.com/asknori/noriassist/pkg/provider/stt/whisper"
	"github.com/asknori/noriassist/pkg/provider/tts"
	"github.com/asknori/noriassist/pkg/provider/tts/openaitts"
	"github.com/asknori/noriassist/pkg/provider/tts/piper"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	formFlag := flag.String("form", "", "form to fill (cv, scholarship, sop); overrides the config")
	outDir := flag.String("out", ".", "directory for downloaded SOP documents")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "noriassist: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "noriassist: %v\n", err)
		}
		return 1
	}
	if *formFlag != "" {
		cfg.Voice.Form = config.FormKind(*formFlag)
		if !cfg.Voice.Form.IsValid() {
			fmt.Fprintf(os.Stderr, "noriassist: unknown form %q\n", *formFlag)
			return 1
		}
	}
	if cfg.Voice.Form == "" {
		cfg.Voice.Form = config.FormCV
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.App.LogLevel)
	slog.SetDefault(logger)

	slog.Info("noriassist starting",
		"config", *configPath,
		"form", cfg.Voice.Form,
		"backend", cfg.Backend.BaseURL,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Metrics ───────────────────────────────────────────────────────────────
	shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "noriassist"})
	if err != nil {
		slog.Error("failed to initialise metrics", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Warn("metrics shutdown error", "err", err)
		}
	}()
	metrics := observe.DefaultMetrics()

	// ── Backend client ────────────────────────────────────────────────────────
	var backend *api.Client
	if cfg.Backend.BaseURL != "" {
		var opts []api.Option
		if cfg.Backend.Timeout() > 0 {
			opts = append(opts, api.WithTimeout(cfg.Backend.Timeout()))
		}
		opts = append(opts, api.WithMetrics(metrics))
		backend, err = api.New(cfg.Backend.BaseURL, opts...)
		if err != nil {
			slog.Error("failed to create backend client", "err", err)
			return 1
		}
	}

	// ── Providers ─────────────────────────────────────────────────────────────
	reg := config.NewRegistry()
	registerBuiltinProviders(reg, backend)

	speaker, err := buildSpeaker(cfg, reg)
	if err != nil {
		slog.Error("failed to build speech output", "err", err)
		return 1
	}
	listener, err := buildListener(cfg, reg, backend)
	if err != nil {
		slog.Error("failed to build speech input", "err", err)
		return 1
	}

	// ── Form wiring ───────────────────────────────────────────────────────────
	sctx := schema.Context{
		HasParsedCV:  cfg.Voice.HasParsedCV,
		FormatOption: string(cfg.Voice.FormatOption),
	}
	store := form.NewStore(initialFields(cfg.Voice.Form))

	controller := voiceform.New(voiceform.Config{
		Speaker:   speaker,
		Listener:  listener,
		Validator: schemaFor(cfg.Voice.Form, sctx),
		Store:     store,
		Builder:   questions.ForForm(string(cfg.Voice.Form)),
		BuildContext: voiceform.BuildContext{
			HasParsedCV:  cfg.Voice.HasParsedCV,
			FormatOption: string(cfg.Voice.FormatOption),
		},
	}, voiceform.WithMetrics(metrics))

	// ── Run the voice session ─────────────────────────────────────────────────
	slog.Info("voice session starting — press Ctrl+C to stop")
	controller.Start()

	done := make(chan struct{})
	go func() {
		controller.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		slog.Info("interrupt received, stopping voice session")
		controller.Stop()
		return 0
	case <-done:
	}

	// ── Submission ────────────────────────────────────────────────────────────
	snapshot := store.Snapshot()
	slog.Info("voice session complete", "fields", len(snapshot))

	if backend == nil {
		printSnapshot(snapshot)
		return 0
	}
	if err := submit(ctx, backend, cfg.Voice.Form, snapshot, *outDir); err != nil {
		slog.Error("submission failed", "err", err)
		return 1
	}
	return 0
}

// ── Provider wiring ───────────────────────────────────────────────────────────

// registerBuiltinProviders wires the provider factories that ship with
// noriassist into reg. The upload STT provider transcribes through the
// backend, so its factory fails when no backend client exists.
func registerBuiltinProviders(reg *config.Registry, backend *api.Client) {
	// ── TTS ───────────────────────────────────────────────────────────────────

	reg.RegisterTTS("openai", func(entry config.ProviderEntry) (tts.Provider, error) {
		var opts []openaitts.Option
		if entry.Model != "" {
			opts = append(opts, openaitts.WithModel(entry.Model))
		}
		if entry.BaseURL != "" {
			opts = append(opts, openaitts.WithBaseURL(entry.BaseURL))
		}
		return openaitts.New(entry.APIKey, opts...)
	})

	reg.RegisterTTS("piper", func(entry config.ProviderEntry) (tts.Provider, error) {
		return piper.New(entry.BaseURL)
	})

	// ── STT ───────────────────────────────────────────────────────────────────

	reg.RegisterSTT("deepgram", func(entry config.ProviderEntry) (stt.Provider, error) {
		var opts []deepgram.Option
		if entry.Model != "" {
			opts = append(opts, deepgram.WithModel(entry.Model))
		}
		if lang := optString(entry.Options, "language"); lang != "" {
			opts = append(opts, deepgram.WithLanguage(lang))
		}
		return deepgram.New(entry.APIKey, opts...)
	})

	reg.RegisterSTT("whisper", func(entry config.ProviderEntry) (stt.Provider, error) {
		modelPath := entry.Model
		if modelPath == "" {
			modelPath = optString(entry.Options, "model_path")
		}
		var opts []whisper.Option
		if lang := optString(entry.Options, "language"); lang != "" {
			opts = append(opts, whisper.WithLanguage(lang))
		}
		return whisper.New(modelPath, opts...)
	})

	reg.RegisterSTT("upload", func(config.ProviderEntry) (stt.Provider, error) {
		if backend == nil {
			return nil, errors.New("upload transcription requires backend.base_url")
		}
		return upload.New(backend)
	})
}

// buildSpeaker creates the TTS provider named in cfg, wraps it in a circuit
// breaker, and binds it to the local audio player. A missing TTS provider
// yields a silent speaker: prompts resolve immediately.
func buildSpeaker(cfg *config.Config, reg *config.Registry) (*speech.Output, error) {
	voice := tts.Voice{
		ID:       cfg.Voice.VoiceID,
		Language: cfg.Voice.Language,
		Speed:    cfg.Voice.SpeedFactor,
	}
	if cfg.Providers.TTS.Name == "" {
		return speech.NewOutput(nil, audio.NewCommandPlayer(), voice), nil
	}

	p, err := reg.CreateTTS(cfg.Providers.TTS)
	if err != nil {
		return nil, fmt.Errorf("create tts provider %q: %w", cfg.Providers.TTS.Name, err)
	}
	slog.Info("provider created", "kind", "tts", "name", cfg.Providers.TTS.Name)

	guarded := resilience.NewTTSFallback(p, cfg.Providers.TTS.Name, resilience.FallbackConfig{})
	return speech.NewOutput(guarded, audio.NewCommandPlayer(), voice), nil
}

// buildListener creates the STT provider named in cfg and wires the
// record-and-upload provider as a fallback when a backend is available, so a
// failing streaming recogniser degrades to server-side transcription.
func buildListener(cfg *config.Config, reg *config.Registry, backend *api.Client) (*speech.Input, error) {
	p, err := reg.CreateSTT(cfg.Providers.STT)
	if err != nil {
		return nil, fmt.Errorf("create stt provider %q: %w", cfg.Providers.STT.Name, err)
	}
	slog.Info("provider created", "kind", "stt", "name", cfg.Providers.STT.Name)

	guarded := resilience.NewSTTFallback(p, cfg.Providers.STT.Name, resilience.FallbackConfig{})
	if backend != nil && cfg.Providers.STT.Name != "upload" {
		if fb, err := upload.New(backend); err == nil {
			guarded.AddFallback("upload", fb)
			slog.Info("provider created", "kind", "stt", "name", "upload", "role", "fallback")
		}
	}

	listenCfg := stt.ListenConfig{
		SampleRate: cfg.Voice.SampleRate,
		Channels:   1,
		Language:   cfg.Voice.Language,
	}
	return speech.NewInput(guarded, audio.NewCommandRecorder(), listenCfg), nil
}

// ── Form wiring ───────────────────────────────────────────────────────────────

// schemaFor returns the cross-field validator for the selected form.
func schemaFor(kind config.FormKind, ctx schema.Context) voiceform.Validator {
	switch kind {
	case config.FormScholarship:
		return schema.Scholarship(ctx)
	case config.FormSOP:
		return schema.SOP(ctx)
	default:
		return schema.CV(ctx)
	}
}

// initialFields seeds the form store with empty strings for every text field
// of the selected form, so skip handling can recognise them as string-typed.
func initialFields(kind config.FormKind) map[string]any {
	var names []string
	switch kind {
	case config.FormScholarship:
		names = []string{"citizenship", "studyLevel", "field", "preferredCountry", "performance", "university", "intake", "age"}
	case config.FormSOP:
		names = []string{"name", "countryOfOrigin", "intendedDegree", "preferredCountryOfStudy", "preferredFieldOfStudy", "preferredUniversity", "graduationYear", "relevantSubjects"}
	default:
		names = []string{"firstName", "lastName", "email", "phone", "location", "targetCountry", "targetCompany", "targetRole", "jobDescription"}
	}
	fields := make(map[string]any, len(names))
	for _, n := range names {
		fields[n] = ""
	}
	return fields
}

// ── Submission ────────────────────────────────────────────────────────────────

// submit sends the completed form to the backend: a scholarship search, an
// SOP generation with document downloads, or (for the CV form) nothing, since
// CV rendering stays in the web app.
func submit(ctx context.Context, backend *api.Client, kind config.FormKind, snapshot map[string]any, outDir string) error {
	switch kind {
	case config.FormScholarship:
		res, err := backend.SearchScholarships(ctx, api.ScholarshipQuery{
			Citizenship:      fieldString(snapshot, "citizenship"),
			PreferredCountry: fieldString(snapshot, "preferredCountry"),
			Level:            fieldString(snapshot, "studyLevel"),
			Field:            fieldString(snapshot, "field"),
		})
		if err != nil {
			return err
		}
		fmt.Println(res.Scholarships)
		return nil

	case config.FormSOP:
		res, err := backend.GenerateSOP(ctx, api.SOPRequest{
			Name:                    fieldString(snapshot, "name"),
			CountryOfOrigin:         fieldString(snapshot, "countryOfOrigin"),
			IntendedDegree:          fieldString(snapshot, "intendedDegree"),
			PreferredCountryOfStudy: fieldString(snapshot, "preferredCountryOfStudy"),
			PreferredFieldOfStudy:   fieldString(snapshot, "preferredFieldOfStudy"),
			PreferredUniversity:     fieldString(snapshot, "preferredUniversity"),
			GraduationYear:          fieldString(snapshot, "graduationYear"),
			RelevantSubjects:        fieldString(snapshot, "relevantSubjects"),
		})
		if err != nil {
			return err
		}
		slog.Info("statement of purpose generated", "words", res.WordCount)
		return downloadDocuments(ctx, backend, res.SOP, outDir)

	default:
		printSnapshot(snapshot)
		return nil
	}
}

// downloadDocuments fetches the PDF and DOCX renditions of the SOP in
// parallel and writes them next to each other in outDir.
func downloadDocuments(ctx context.Context, backend *api.Client, sop, outDir string) error {
	pdfPath := filepath.Join(outDir, "sop.pdf")
	docxPath := filepath.Join(outDir, "sop.docx")

	pdf, err := os.Create(pdfPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", pdfPath, err)
	}
	defer pdf.Close()

	docx, err := os.Create(docxPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", docxPath, err)
	}
	defer docx.Close()

	if err := backend.DownloadAll(ctx, sop, pdf, docx); err != nil {
		return err
	}
	slog.Info("documents downloaded", "pdf", pdfPath, "docx", docxPath)
	return nil
}

func printSnapshot(snapshot map[string]any) {
	fmt.Println("Captured form fields:")
	for name, value := range snapshot {
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		fmt.Printf("  %-24s %v\n", name+":", value)
	}
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func fieldString(snapshot map[string]any, name string) string {
	if v, ok := snapshot[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return ""
}

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// optString extracts a string value from a provider Options map.
// Returns "" if the map is nil, the key is absent, or the value is not a
// string.
func optString(opts map[string]any, key string) string {
	if opts == nil {
		return ""
	}
	v, ok := opts[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
