package app

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"salesboard/internal/config"
	"salesboard/internal/dataset"
	apierrors "salesboard/internal/errors"
	"salesboard/internal/exporter"
	"salesboard/internal/infrastructure"
	custommw "salesboard/internal/middleware"
	"salesboard/internal/services"
	handlers "salesboard/internal/transport/http"
	ws "salesboard/internal/websocket"
)

const (
	AppName = "Salesboard"
	Version = "1.0.0"
)

// Application is the composition root: configuration, logging,
// observability, services, router and server, wired once at startup.
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Store         *dataset.Store
	Hub           *ws.Hub
	Dashboard     *services.DashboardService
	Health        *services.HealthService
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	WebFS         fs.FS
}

// NewApplication builds a fully wired application. webFS carries the
// embedded dashboard page and may be nil for API-only deployments.
func NewApplication(webFS fs.FS) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		WebFS:         webFS,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices wires the store, hub and domain services
func (a *Application) initializeServices() error {
	hub := ws.NewHub(a.Logger)
	hub.Start()
	a.Hub = hub

	loader := dataset.NewLoader(a.Logger)
	a.Store = dataset.NewStore(loader, a.Config.Dataset.File, a.Logger)

	// Initial load is non-fatal: the server comes up degraded and the
	// dataset can be fixed and reloaded over the API.
	if err := a.Store.Load(context.Background()); err != nil {
		a.Logger.Warn("initial dataset load failed",
			slog.String("file", a.Config.Dataset.File),
			slog.String("error", err.Error()))
	}

	a.Dashboard = services.NewDashboardService(
		a.Store,
		exporter.NewExcelWriter(a.Logger),
		exporter.NewCSVWriter(a.Logger),
		hub,
		a.Logger,
	)
	a.Health = services.NewHealthService(Version, a.Store, a.Logger)

	return nil
}

// setupRouter configures the HTTP router. Middleware ordering:
// RequestID, OTel, Logger, Recoverer, SecurityHeaders, CORS, RateLimit.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)

	// WebSocket endpoint stays outside the wrapping middleware so the
	// hijacked connection is not disturbed.
	r.HandleFunc("/ws", a.handleWebSocket)

	r.Group(func(r chi.Router) {
		if a.OTelProviders.Meter != nil {
			metrics, err := infrastructure.CreateHTTPMetrics(a.OTelProviders.Meter)
			if err != nil {
				a.Logger.Error("failed to create http metrics", slog.String("error", err.Error()))
			} else {
				r.Use(custommw.OTelMetrics(metrics))
			}
		}
		if a.OTelProviders.Tracer != nil {
			r.Use(custommw.OTelTracing(a.OTelProviders.Tracer))
		}

		r.Use(custommw.StructuredLogger(a.Logger))
		r.Use(custommw.Recoverer(a.Logger))
		r.Use(custommw.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(custommw.CORS(custommw.CORSConfig{
				AllowedOrigins: a.Config.Security.AllowedOrigins,
			}))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(custommw.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
		a.setupWebRoutes(r)
	})

	// Prometheus scrape endpoint, outside the middleware group
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes mounts the JSON API
func (a *Application) setupAPIRoutes(r chi.Router) {
	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)

	dashboardHandler := handlers.NewDashboardHandler(a.Dashboard, a.Logger, errorHandler)
	exportHandler := handlers.NewExportHandler(a.Dashboard, a.Logger, errorHandler)
	healthHandler := handlers.NewHealthHandler(a.Health, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/dashboard", dashboardHandler.Routes())
		r.Mount("/dataset", dashboardHandler.DatasetRoutes())
		r.Mount("/export", exportHandler.Routes())
		r.Mount("/healthz", healthHandler.Routes())
	})
}

// setupWebRoutes serves the embedded single-page dashboard
func (a *Application) setupWebRoutes(r chi.Router) {
	if a.WebFS == nil {
		return
	}

	r.Get("/", a.serveIndex)
	r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
		name := strings.TrimPrefix(path.Clean(req.URL.Path), "/")
		if name == "" || strings.HasPrefix(name, "api/") {
			http.NotFound(w, req)
			return
		}

		file, err := a.WebFS.Open(name)
		if err != nil {
			// Unknown paths fall back to the dashboard page
			a.serveIndex(w, req)
			return
		}
		defer file.Close()

		w.Header().Set("Content-Type", contentTypeFor(name))
		w.Header().Set("Cache-Control", "no-cache")
		io.Copy(w, file)
	})
}

func (a *Application) serveIndex(w http.ResponseWriter, r *http.Request) {
	file, err := a.WebFS.Open("index.html")
	if err != nil {
		a.Logger.ErrorContext(r.Context(), "dashboard page missing",
			slog.String("error", err.Error()))
		http.Error(w, "dashboard not available", http.StatusServiceUnavailable)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	io.Copy(w, file)
}

func contentTypeFor(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".js":
		return "application/javascript"
	case ".css":
		return "text/css"
	case ".json":
		return "application/json"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".ico":
		return "image/x-icon"
	default:
		return "application/octet-stream"
	}
}

// handleWebSocket upgrades the connection and hands it to the hub
func (a *Application) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws.ServeWS(a.Hub, w, r)
}

// createServer builds the HTTP server from configuration
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         a.Config.GetListenAddr(),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run starts the server and blocks until the context is cancelled or a
// termination signal arrives, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(ctx, "server listening",
			slog.String("addr", a.Server.Addr),
			slog.String("url", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))

		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return a.Shutdown()
	})

	return g.Wait()
}

// Shutdown stops the server, the hub and the observability providers
func (a *Application) Shutdown() error {
	a.Logger.Info("shutting down",
		slog.Duration("timeout", a.Config.Server.ShutdownTimeout))

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	var firstErr error
	if err := a.Server.Shutdown(ctx); err != nil {
		firstErr = fmt.Errorf("server shutdown: %w", err)
	}

	a.Hub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("observability shutdown: %w", err)
		}
	}

	if err := infrastructure.CloseLogger(); err != nil && firstErr == nil {
		firstErr = err
	}

	a.Logger.Info("shutdown complete", slog.String("uptime", time.Since(startTime).Round(time.Second).String()))
	return firstErr
}

var startTime = time.Now()
