package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"studentpulse/pkg/contracts/domain"
)

const tracerName = "studentpulse/analytics"

// Engine runs the validate, average, classify and report stages.
// It holds only read-only configuration and is safe for concurrent use.
type Engine struct {
	thresholds Thresholds
	scale      GradeScale
	tracer     trace.Tracer
	logger     *slog.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithThresholds overrides the cohort thresholds
func WithThresholds(t Thresholds) Option {
	return func(e *Engine) { e.thresholds = t }
}

// WithGradeScale overrides the letter grade cutoffs
func WithGradeScale(scale GradeScale) Option {
	return func(e *Engine) { e.scale = scale }
}

// WithTracer sets the tracer used for stage spans
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) { e.tracer = tracer }
}

// WithLogger sets the engine logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates an engine with default thresholds and grade scale.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		thresholds: DefaultThresholds(),
		scale:      DefaultGradeScale(),
		tracer:     otel.Tracer(tracerName),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.thresholds.Validate(); err != nil {
		return nil, err
	}
	for i := 1; i < len(e.scale); i++ {
		if e.scale[i].Min >= e.scale[i-1].Min {
			return nil, fmt.Errorf("grade scale must be strictly descending: %s (%.2f) follows %s (%.2f)",
				e.scale[i].Letter, e.scale[i].Min, e.scale[i-1].Letter, e.scale[i-1].Min)
		}
	}
	e.logger = e.logger.With(slog.String("component", "analytics_engine"))
	return e, nil
}

// Thresholds returns the configured cohort thresholds
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// Analyze validates the dataset and builds its report. A rejected dataset
// yields a *ValidationError and no report.
func (e *Engine) Analyze(ctx context.Context, ds Dataset) (*domain.Report, error) {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "analytics.analyze",
		trace.WithAttributes(attribute.Int("dataset.rows", ds.Len())))
	defer span.End()

	records, err := e.validate(ctx, ds)
	if err != nil {
		span.SetStatus(codes.Error, "dataset rejected")
		e.logger.InfoContext(ctx, "dataset rejected",
			slog.Int("rows", ds.Len()),
			slog.String("reason", err.Error()))
		return nil, err
	}

	_, avgSpan := e.tracer.Start(ctx, "analytics.averages")
	scored := WithAverages(records)
	avgSpan.End()

	_, reportSpan := e.tracer.Start(ctx, "analytics.report")
	report := BuildReport(scored, e.thresholds, e.scale)
	reportSpan.SetAttributes(
		attribute.Int("report.top_performers", len(report.TopPerformers)),
		attribute.Int("report.at_risk", len(report.AtRiskStudents)),
	)
	reportSpan.End()

	e.logger.DebugContext(ctx, "analysis complete",
		slog.Int("students", report.TotalStudents),
		slog.Float64("class_average", report.ClassAverage),
		slog.Int("top_performers", len(report.TopPerformers)),
		slog.Int("at_risk", len(report.AtRiskStudents)),
		slog.Duration("duration", time.Since(start)))

	return report, nil
}

func (e *Engine) validate(ctx context.Context, ds Dataset) ([]domain.StudentRecord, error) {
	_, span := e.tracer.Start(ctx, "analytics.validate")
	defer span.End()

	records, err := ParseRecords(ds)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return records, nil
}
