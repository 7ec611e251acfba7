// Package observe provides application-wide observability primitives:
// OpenTelemetry metrics with a Prometheus exporter bridge.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A package-level
// default [Metrics] instance ([DefaultMetrics]) is provided for convenience;
// tests should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all metrics.
const meterName = "github.com/asknori/noriassist"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use, the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms per pipeline stage ---

	// PromptDuration tracks how long speaking a question prompt takes.
	PromptDuration metric.Float64Histogram

	// ListenDuration tracks how long a capture runs before an answer lands.
	ListenDuration metric.Float64Histogram

	// ValidateDuration tracks schema validation latency.
	ValidateDuration metric.Float64Histogram

	// BackendRequestDuration tracks backend API call latency. Use with
	// attributes:
	//   attribute.String("endpoint", ...), attribute.String("status", ...)
	BackendRequestDuration metric.Float64Histogram

	// --- Counters ---

	// RunsStarted counts voice form runs started.
	RunsStarted metric.Int64Counter

	// QuestionsAsked counts questions presented. Use with attribute:
	//   attribute.String("field", ...)
	QuestionsAsked metric.Int64Counter

	// Retries counts re-prompts. Use with attributes:
	//   attribute.String("field", ...), attribute.String("reason", ...)
	Retries metric.Int64Counter

	// AnswersCommitted counts committed answers by field.
	AnswersCommitted metric.Int64Counter

	// AnswersSkipped counts skipped optional questions by field.
	AnswersSkipped metric.Int64Counter

	// ValidationResults counts validation outcomes. Use with attribute:
	//   attribute.String("outcome", "valid"|"invalid")
	ValidationResults metric.Int64Counter

	// BackendErrors counts backend API errors by endpoint.
	BackendErrors metric.Int64Counter

	// --- Gauges ---

	// ActiveRuns tracks the number of live voice form runs.
	ActiveRuns metric.Int64UpDownCounter
}

// latencyBuckets defines histogram bucket boundaries (in seconds) optimised
// for voice-pipeline latencies.
var latencyBuckets = []float64{
	0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.PromptDuration, err = m.Float64Histogram("noriassist.prompt.duration",
		metric.WithDescription("Latency of speaking a question prompt."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ListenDuration, err = m.Float64Histogram("noriassist.listen.duration",
		metric.WithDescription("Time spent capturing an answer."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ValidateDuration, err = m.Float64Histogram("noriassist.validate.duration",
		metric.WithDescription("Latency of schema validation."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.BackendRequestDuration, err = m.Float64Histogram("noriassist.backend.request.duration",
		metric.WithDescription("Backend API request latency by endpoint and status."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.RunsStarted, err = m.Int64Counter("noriassist.runs.started",
		metric.WithDescription("Total voice form runs started."),
	); err != nil {
		return nil, err
	}
	if met.QuestionsAsked, err = m.Int64Counter("noriassist.questions.asked",
		metric.WithDescription("Total questions presented by field."),
	); err != nil {
		return nil, err
	}
	if met.Retries, err = m.Int64Counter("noriassist.retries",
		metric.WithDescription("Total re-prompts by field and reason."),
	); err != nil {
		return nil, err
	}
	if met.AnswersCommitted, err = m.Int64Counter("noriassist.answers.committed",
		metric.WithDescription("Total committed answers by field."),
	); err != nil {
		return nil, err
	}
	if met.AnswersSkipped, err = m.Int64Counter("noriassist.answers.skipped",
		metric.WithDescription("Total skipped optional questions by field."),
	); err != nil {
		return nil, err
	}
	if met.ValidationResults, err = m.Int64Counter("noriassist.validation.results",
		metric.WithDescription("Total validation outcomes."),
	); err != nil {
		return nil, err
	}
	if met.BackendErrors, err = m.Int64Counter("noriassist.backend.errors",
		metric.WithDescription("Total backend API errors by endpoint."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.ActiveRuns, err = m.Int64UpDownCounter("noriassist.active_runs",
		metric.WithDescription("Number of live voice form runs."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it
// on first call using [otel.GetMeterProvider]. Subsequent calls return the
// same pointer. Panics if instrument creation fails (should not happen with
// the global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// ─── Convenience recorders ────────────────────────────────────────────────────

// The controller runs on its own goroutine without a request context, so the
// recorders below use context.Background(). The OTel SDK ignores the context
// for synchronous instruments.

// RunStarted records a run start and bumps the active-run gauge.
func (m *Metrics) RunStarted() {
	ctx := context.Background()
	m.RunsStarted.Add(ctx, 1)
	m.ActiveRuns.Add(ctx, 1)
}

// RunEnded drops the active-run gauge. Called on both completion and abort.
func (m *Metrics) RunEnded() {
	m.ActiveRuns.Add(context.Background(), -1)
}

// QuestionAsked records a question being presented.
func (m *Metrics) QuestionAsked(field string) {
	m.QuestionsAsked.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("field", field)),
	)
}

// Retry records a re-prompt with its reason ("empty" or "invalid").
func (m *Metrics) Retry(field, reason string) {
	m.Retries.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String("field", field),
			attribute.String("reason", reason),
		),
	)
}

// PromptSpoken records the time taken to speak a prompt.
func (m *Metrics) PromptSpoken(d time.Duration) {
	m.PromptDuration.Record(context.Background(), d.Seconds())
}

// AnswerHeard records the time spent capturing an answer.
func (m *Metrics) AnswerHeard(d time.Duration) {
	m.ListenDuration.Record(context.Background(), d.Seconds())
}

// Validated records a validation pass with its outcome.
func (m *Metrics) Validated(d time.Duration, valid bool) {
	ctx := context.Background()
	m.ValidateDuration.Record(ctx, d.Seconds())
	outcome := "valid"
	if !valid {
		outcome = "invalid"
	}
	m.ValidationResults.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", outcome)),
	)
}

// AnswerCommitted records a committed answer.
func (m *Metrics) AnswerCommitted(field string) {
	m.AnswersCommitted.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("field", field)),
	)
}

// AnswerSkipped records a skipped optional question.
func (m *Metrics) AnswerSkipped(field string) {
	m.AnswersSkipped.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("field", field)),
	)
}

// RecordBackendRequest records a backend API call with its latency and
// status, and bumps the error counter on failure.
func (m *Metrics) RecordBackendRequest(ctx context.Context, endpoint, status string, d time.Duration) {
	m.BackendRequestDuration.Record(ctx, d.Seconds(),
		metric.WithAttributes(
			attribute.String("endpoint", endpoint),
			attribute.String("status", status),
		),
	)
	if status != "ok" {
		m.BackendErrors.Add(ctx, 1,
			metric.WithAttributes(attribute.String("endpoint", endpoint)),
		)
	}
}
