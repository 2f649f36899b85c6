package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"studentpulse/internal/infrastructure"
	"studentpulse/pkg/contracts"
)

// HubStatus is the part of the websocket hub the health checks read
type HubStatus interface {
	Running() bool
	Stats() map[string]interface{}
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	hub       HubStatus
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service. hub may be nil when live
// updates are disabled.
func NewHealthService(version, buildTime string, hub HubStatus, logger *slog.Logger) *HealthService {
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		hub:       hub,
		startTime: time.Now(),
		logger:    infrastructure.WithComponent(logger, "health_service"),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "health check",
		slog.Duration("uptime", time.Since(hs.startTime)))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports "ready" when every dependency is ready
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"analytics": {Status: "ready"},
			"websocket": hs.checkWebSocketHealth(),
		},
	}

	for name, svc := range status.Services {
		if svc.Status != "ready" {
			status.Status = "not_ready"
			hs.logger.WarnContext(ctx, "dependency not ready",
				slog.String("service", name),
				slog.String("message", svc.Message))
		}
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
	if hs.hub != nil {
		status.Runtime["websocket"] = hs.hub.Stats()
	}
	return status
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":     hs.version,
		"api_version": contracts.APIVersion,
		"go_version":  runtime.Version(),
		"os":          runtime.GOOS,
		"arch":        runtime.GOARCH,
		"uptime":      time.Since(hs.startTime).Seconds(),
		"start_time":  hs.startTime.Format(time.RFC3339),
	}
	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	return result
}

func (hs *HealthService) checkWebSocketHealth() ServiceHealth {
	if hs.hub == nil {
		return ServiceHealth{Status: "ready", Message: "live updates disabled"}
	}
	if !hs.hub.Running() {
		return ServiceHealth{Status: "not_ready", Message: "websocket hub stopped"}
	}
	return ServiceHealth{Status: "ready"}
}
