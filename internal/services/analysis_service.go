package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"studentpulse/internal/analytics"
	"studentpulse/internal/infrastructure"
	"studentpulse/internal/ingest"
	"studentpulse/pkg/contracts/domain"
)

// Broadcaster receives completed analysis events
type Broadcaster interface {
	BroadcastAnalysis(ctx context.Context, event domain.AnalysisEvent)
}

// Upload is a file received from a client. Data is never written to disk.
type Upload struct {
	Filename string
	Data     []byte
}

// AnalysisResult pairs the report with the source it was computed from
type AnalysisResult struct {
	Source ingest.Source
	Report *domain.Report
}

// AnalysisService runs uploaded datasets through the analytics engine.
// Each call works on its own copy of the upload, so concurrent requests
// never share state.
type AnalysisService struct {
	engine         *analytics.Engine
	maxUploadBytes int64
	metrics        *infrastructure.AnalysisMetrics
	broadcaster    Broadcaster
	tracer         trace.Tracer
	logger         *slog.Logger
	now            func() time.Time
}

// AnalysisOption configures an AnalysisService
type AnalysisOption func(*AnalysisService)

// WithMetrics records analysis counters and histograms
func WithMetrics(m *infrastructure.AnalysisMetrics) AnalysisOption {
	return func(s *AnalysisService) { s.metrics = m }
}

// WithBroadcaster publishes completed analyses to live clients
func WithBroadcaster(b Broadcaster) AnalysisOption {
	return func(s *AnalysisService) { s.broadcaster = b }
}

// NewAnalysisService creates the service. A non-positive maxUploadBytes
// disables the size check.
func NewAnalysisService(engine *analytics.Engine, maxUploadBytes int64, logger *slog.Logger, opts ...AnalysisOption) *AnalysisService {
	s := &AnalysisService{
		engine:         engine,
		maxUploadBytes: maxUploadBytes,
		tracer:         otel.Tracer("studentpulse/services"),
		logger:         infrastructure.WithComponent(logger, "analysis_service"),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxUploadBytes returns the configured size limit
func (s *AnalysisService) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

// Analyze parses the upload and builds its report.
//
// Errors: ErrNoFileSelected, ingest.ErrUnsupportedFormat, ErrUploadTooLarge,
// ingest.ErrMalformedInput and *analytics.ValidationError, each possibly wrapped.
func (s *AnalysisService) Analyze(ctx context.Context, up Upload) (*AnalysisResult, error) {
	start := s.now()
	ctx, span := s.tracer.Start(ctx, "services.analyze",
		trace.WithAttributes(
			attribute.String("upload.filename", up.Filename),
			attribute.Int("upload.size", len(up.Data)),
		))
	defer span.End()

	result, err := s.analyze(ctx, up)
	outcome := outcomeOf(err)
	students := 0
	if result != nil {
		students = result.Report.TotalStudents
	}
	s.metrics.RecordAnalysis(ctx, outcome, students, s.now().Sub(start))

	if err != nil {
		span.SetStatus(codes.Error, outcome)
		level := slog.LevelInfo
		if outcome == infrastructure.OutcomeError {
			level = slog.LevelError
		}
		s.logger.Log(ctx, level, "analysis failed",
			slog.String("filename", up.Filename),
			slog.String("outcome", outcome),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.logger.InfoContext(ctx, "analysis completed",
		slog.String("filename", result.Source.Name),
		slog.String("digest", result.Source.Digest),
		slog.Int("students", students),
		slog.Duration("duration", s.now().Sub(start)))

	if s.broadcaster != nil {
		s.broadcaster.BroadcastAnalysis(ctx, domain.AnalysisEvent{
			Filename:       result.Source.Name,
			Digest:         result.Source.Digest,
			TotalStudents:  result.Report.TotalStudents,
			ClassAverage:   result.Report.ClassAverage,
			TopPerformers:  len(result.Report.TopPerformers),
			AtRiskStudents: len(result.Report.AtRiskStudents),
			CompletedAt:    s.now().UTC(),
		})
	}
	return result, nil
}

func (s *AnalysisService) analyze(ctx context.Context, up Upload) (*AnalysisResult, error) {
	if strings.TrimSpace(up.Filename) == "" {
		return nil, ErrNoFileSelected
	}
	if _, err := ingest.DetectFormat(up.Filename); err != nil {
		return nil, err
	}
	if s.maxUploadBytes > 0 && int64(len(up.Data)) > s.maxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrUploadTooLarge, len(up.Data), s.maxUploadBytes)
	}

	ds, src, err := ingest.Parse(up.Filename, up.Data)
	if err != nil {
		return nil, err
	}

	report, err := s.engine.Analyze(ctx, ds)
	if err != nil {
		return nil, err
	}
	return &AnalysisResult{Source: src, Report: report}, nil
}

// outcomeOf classifies an error for the analyses_total counter
func outcomeOf(err error) string {
	var verr *analytics.ValidationError
	switch {
	case err == nil:
		return infrastructure.OutcomeSuccess
	case errors.As(err, &verr),
		errors.Is(err, ingest.ErrMalformedInput),
		errors.Is(err, ingest.ErrUnsupportedFormat),
		errors.Is(err, ErrNoFileSelected),
		errors.Is(err, ErrUploadTooLarge):
		return infrastructure.OutcomeRejected
	default:
		return infrastructure.OutcomeError
	}
}
