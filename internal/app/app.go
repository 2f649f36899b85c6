package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"studentpulse/internal/analytics"
	"studentpulse/internal/config"
	apierrors "studentpulse/internal/errors"
	"studentpulse/internal/infrastructure"
	customMiddleware "studentpulse/internal/middleware"
	"studentpulse/internal/services"
	transport "studentpulse/internal/transport/http"
	ws "studentpulse/internal/websocket"
	"studentpulse/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config          *config.Config
	Router          *chi.Mux
	Server          *http.Server
	Logger          *slog.Logger
	OTelProviders   *infrastructure.OTelProviders
	WebSocketHub    *ws.Hub
	AnalysisService *services.AnalysisService
	HealthService   *services.HealthService
	ErrorHandler    *apierrors.ErrorHandler
}

// NewApplication creates the application from a validated configuration.
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version))

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, contracts.Version, os.Stdout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Level == "debug"),
	}

	if err := a.initializeServices(); err != nil {
		_ = otelProviders.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	if err := a.setupRouter(); err != nil {
		_ = otelProviders.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}
	a.createServer()

	return a, nil
}

// initializeServices creates the engine, the hub and the services
func (a *Application) initializeServices() error {
	engine, err := analytics.NewEngine(
		analytics.WithThresholds(a.Config.Analysis.Thresholds),
		analytics.WithTracer(a.OTelProviders.TracerProvider.Tracer("studentpulse/analytics")),
		analytics.WithLogger(a.Logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create analytics engine: %w", err)
	}

	metrics, err := infrastructure.NewAnalysisMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create analysis metrics: %w", err)
	}

	a.WebSocketHub = ws.NewHub(ws.Options{
		ReadBufferSize:  a.Config.WebSocket.ReadBufferSize,
		WriteBufferSize: a.Config.WebSocket.WriteBufferSize,
		PingPeriod:      a.Config.WebSocket.PingPeriod,
		PongWait:        a.Config.WebSocket.PongWait,
		CheckOrigin:     a.checkOrigin,
	}, a.Logger)

	a.AnalysisService = services.NewAnalysisService(engine, a.Config.Analysis.MaxUploadBytes, a.Logger,
		services.WithMetrics(metrics),
		services.WithBroadcaster(a.WebSocketHub))
	a.HealthService = services.NewHealthService(contracts.Version, contracts.BuildTime, a.WebSocketHub, a.Logger)
	return nil
}

// setupRouter builds the chi router.
// Order: RequestID -> RealIP -> OTel -> Logger -> Recoverer -> headers -> CORS -> rate limit
func (a *Application) setupRouter() error {
	r := chi.NewRouter()
	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	// The websocket upgrade needs the raw ResponseWriter
	r.Handle("/ws", a.WebSocketHub)
	r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(
		a.OTelProviders.TracerProvider.Tracer("studentpulse/http"), a.OTelProviders.Meter, a.Logger)
	if err != nil {
		return err
	}

	r.Group(func(r chi.Router) {
		r.Use(otelMiddleware.Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.ErrorHandler))
		r.Use(customMiddleware.SecurityHeaders)
		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
				AllowedOrigins: a.Config.Security.AllowedOrigins,
				Logger:         a.Logger,
			}))
		}
		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}
		r.Use(chimw.Compress(5))

		a.setupAPIRoutes(r)
	})

	a.Router = r
	return nil
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	analysis := transport.NewAnalysisHandler(a.AnalysisService, a.Logger, a.ErrorHandler)
	health := transport.NewHealthHandler(a.HealthService, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Mount("/analyze", analysis.Routes())

		r.Get("/health", health.HealthCheck)
		r.Get("/health/ready", health.ReadinessCheck)
		r.Get("/health/live", health.LivenessCheck)
		r.Get("/version", health.Version)
	})
}

// checkOrigin accepts same-host upgrades and, with CORS enabled, the
// configured origins. Requests without an Origin header are not from
// browsers and are accepted.
func (a *Application) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	if !a.Config.Security.EnableCORS {
		return false
	}
	for _, allowed := range a.Config.Security.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run listens on the configured port and serves until ctx is cancelled or
// the process receives SIGINT or SIGTERM.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts everything down.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	a.WebSocketHub.Start()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "server listening",
			slog.String("address", ln.Addr().String()),
			slog.String("version", contracts.Version))
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.InfoContext(context.Background(), "shutdown requested")
		return a.Stop(context.Background())
	})

	return g.Wait()
}

// Stop gracefully stops the server, the hub and the telemetry providers
func (a *Application) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	a.WebSocketHub.Stop()

	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return errors.Join(errs...)
}
