// Package services holds the business operations behind the HTTP handlers.
//
// AnalysisService turns an uploaded file into a report: it checks the file
// name and size, parses the bytes in memory, runs the analytics engine,
// records metrics and notifies live clients. HealthService answers the
// health and version endpoints.
//
// Services take their collaborators through constructors and log through
// an injected *slog.Logger.
package services
