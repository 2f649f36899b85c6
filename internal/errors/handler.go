package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"studentpulse/internal/analytics"
	"studentpulse/internal/ingest"
	"studentpulse/internal/services"
)

// ErrorHandler converts errors into problem responses. Every response
// carries an "error" extension holding the user-facing message.
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	problem := h.ErrorToProblem(err, r)
	reqID := middleware.GetReqID(r.Context())
	if reqID != "" {
		problem.WithExtension("trace_id", reqID)
	}

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
		if h.includeStack {
			problem.WithExtension("stack", string(debug.Stack()))
		}
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path))

	WriteProblem(w, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	path := r.URL.Path

	var verr *analytics.ValidationError
	if errors.As(err, &verr) {
		messages := verr.Messages()
		return userProblem(http.StatusBadRequest, TypeInvalidDataset, "Invalid Dataset",
			strings.Join(messages, " | "), path).
			WithExtension("errors", messages).
			WithExtension("problems", verr.Problems)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		problem := userProblem(apiErr.StatusCode, typeForStatus(apiErr.StatusCode),
			http.StatusText(apiErr.StatusCode), apiErr.Message, path).
			WithExtension("error_code", apiErr.ErrorCode)
		if apiErr.Details != nil {
			problem.WithExtension("details", apiErr.Details)
		}
		return problem
	}

	switch {
	case errors.Is(err, services.ErrNoFile):
		return userProblem(http.StatusBadRequest, TypeUpload, "Bad Request", MsgNoFile, path)
	case errors.Is(err, services.ErrNoFileSelected):
		return userProblem(http.StatusBadRequest, TypeUpload, "Bad Request", MsgNoFileSelected, path)
	case errors.Is(err, ingest.ErrUnsupportedFormat):
		return userProblem(http.StatusBadRequest, TypeUpload, "Bad Request", MsgUnsupportedFile, path)
	case errors.Is(err, services.ErrUploadTooLarge):
		return userProblem(http.StatusRequestEntityTooLarge, TypePayloadTooLarge, "Payload Too Large",
			ErrPayloadTooLarge.Message, path)
	case errors.Is(err, ingest.ErrMalformedInput):
		return userProblem(http.StatusBadRequest, TypeUnreadableFile, "Unreadable File",
			fmt.Sprintf(MsgReadFailed, readReason(err)), path)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return userProblem(http.StatusGatewayTimeout, TypeTimeout, "Request Timeout",
			"The request took too long to process and was cancelled", path)
	default:
		return userProblem(http.StatusInternalServerError, TypeInternal, "Internal Server Error",
			"An unexpected error occurred while processing your request", path)
	}
}

// HandlePanic recovers from panics and returns RFC 7807 error
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())))

	problem := userProblem(http.StatusInternalServerError, TypeInternal, "Internal Server Error",
		"An unexpected error occurred", r.URL.Path).
		WithExtension("trace_id", reqID)
	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprintf("%v", recovered))
	}

	WriteProblem(w, problem)
}

// NotFound returns a standard 404 error
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	problem := userProblem(http.StatusNotFound, TypeNotFound, "Not Found",
		"The requested resource was not found", r.URL.Path).
		WithExtension("trace_id", middleware.GetReqID(r.Context()))
	WriteProblem(w, problem)
}

// MethodNotAllowed returns a standard 405 error
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	problem := userProblem(http.StatusMethodNotAllowed, TypeMethod, "Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method), r.URL.Path).
		WithExtension("trace_id", middleware.GetReqID(r.Context()))
	WriteProblem(w, problem)
}

// userProblem builds a problem whose detail is also exposed as "error",
// the field upload clients display.
func userProblem(status int, problemType, title, detail, instance string) *ProblemDetails {
	return NewProblemDetails(status, problemType, title, detail, instance).
		WithExtension("error", detail)
}

func typeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return TypeValidation
	case http.StatusNotFound:
		return TypeNotFound
	case http.StatusRequestEntityTooLarge:
		return TypePayloadTooLarge
	case http.StatusTooManyRequests:
		return TypeRateLimit
	default:
		return TypeInternal
	}
}

// readReason strips the sentinel prefix so the user sees only the cause
func readReason(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ingest.ErrMalformedInput.Error()+": "); i >= 0 {
		return msg[i+len(ingest.ErrMalformedInput.Error())+2:]
	}
	return msg
}
