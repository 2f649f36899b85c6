package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "studentpulse/internal/errors"
	"studentpulse/internal/exporter"
	"studentpulse/internal/infrastructure"
	"studentpulse/internal/services"
)

const (
	// FileField is the multipart field carrying the dataset
	FileField = "file"
	// DigestHeader returns the BLAKE2b digest of the analyzed upload
	DigestHeader = "X-Dataset-Digest"

	// multipartOverhead covers boundaries and part headers on top of the file
	multipartOverhead = 1 << 20
)

// AnalysisService is the part of services.AnalysisService the handler needs
type AnalysisService interface {
	Analyze(ctx context.Context, up services.Upload) (*services.AnalysisResult, error)
	MaxUploadBytes() int64
}

// AnalysisHandler serves dataset uploads
type AnalysisHandler struct {
	service      AnalysisService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		logger:       infrastructure.WithComponent(logger, "analysis_handler"),
		errorHandler: errorHandler,
	}
}

// Routes returns the analysis routes
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Analyze)
	return r
}

// Analyze handles POST /api/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	format := exporter.FormatJSON
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := exporter.ParseFormat(q)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(http.StatusBadRequest, "UNKNOWN_FORMAT",
				fmt.Sprintf("Unknown report format %q.", q), exporter.Formats))
			return
		}
		format = f
	}

	if limit := h.service.MaxUploadBytes(); limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	}

	upload, err := h.readUpload(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Analyze(r.Context(), upload)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set(DigestHeader, result.Source.Digest)
	if format == exporter.FormatJSON {
		render.JSON(w, r, result.Report)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reportFilename(result.Source.Name, format)))
	if err := exporter.Write(w, format, result.Report); err != nil {
		// Headers are already sent; only log
		h.logger.ErrorContext(r.Context(), "failed to write report",
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
	}
}

// readUpload streams the "file" part into memory. Nothing touches disk.
func (h *AnalysisHandler) readUpload(r *http.Request) (services.Upload, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return services.Upload{}, services.ErrNoFile
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return services.Upload{}, services.ErrNoFile
		}
		if err != nil {
			return services.Upload{}, uploadError(err)
		}
		if part.FormName() != FileField {
			part.Close()
			continue
		}
		defer part.Close()
		return readPart(part, h.service.MaxUploadBytes())
	}
}

// readPart reads at most limit+1 bytes so the service can detect oversize files
func readPart(part *multipart.Part, limit int64) (services.Upload, error) {
	var reader io.Reader = part
	if limit > 0 {
		reader = io.LimitReader(part, limit+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return services.Upload{}, uploadError(err)
	}
	return services.Upload{Filename: part.FileName(), Data: data}, nil
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: %v", services.ErrUploadTooLarge, err)
	}
	return apierrors.FileReadError(err)
}

// reportFilename turns "class.csv" into "class-report.xlsx"
func reportFilename(source string, format exporter.Format) string {
	base := strings.TrimSuffix(source, "."+lastExt(source))
	if base == "" {
		base = "students"
	}
	return base + "-report." + string(format)
}

func lastExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return ""
}
