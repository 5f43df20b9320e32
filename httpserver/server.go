package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/flashbots/go-utils/httplogger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/swaggo/swag"
	"github.com/veriluxe/certificate-registry/api"
	_ "github.com/veriluxe/certificate-registry/api/docs"
	"github.com/veriluxe/certificate-registry/metrics"
	"go.uber.org/atomic"
)

// RouteRegistrar is implemented by the API handlers mounted on the server.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// ReadinessCheck reports whether a dependency can serve requests.
type ReadinessCheck func(ctx context.Context) bool

type Server struct {
	cfg     *api.HTTPServerConfig
	isReady atomic.Bool
	log     *slog.Logger

	srv        *http.Server
	metricsSrv *metrics.MetricsServer
	handlers   []RouteRegistrar
	checks     map[string]ReadinessCheck
}

// New creates the API server. metricsSrv may be nil when cfg.MetricsAddr is
// empty.
func New(cfg *api.HTTPServerConfig, metricsSrv *metrics.MetricsServer, handlers ...RouteRegistrar) (srv *Server, err error) {
	if cfg.MetricsAddr != "" && metricsSrv == nil {
		return nil, errors.New("metrics address configured without a metrics server")
	}

	srv = &Server{
		cfg:        cfg,
		log:        cfg.Log,
		srv:        nil,
		metricsSrv: metricsSrv,
		handlers:   handlers,
		checks:     make(map[string]ReadinessCheck),
	}
	srv.isReady.Store(true)

	srv.srv = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      srv.getRouter(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return srv, nil
}

// AddReadinessCheck makes /readyz fail while check reports false.
func (srv *Server) AddReadinessCheck(name string, check ReadinessCheck) {
	srv.checks[name] = check
}

// Handler returns the root HTTP handler.
func (srv *Server) Handler() http.Handler {
	return srv.srv.Handler
}

func (srv *Server) getRouter() http.Handler {
	mux := chi.NewRouter()

	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(srv.httpLogger)
	mux.Use(middleware.Recoverer)
	mux.Use(SecurityHeaders)
	mux.Use(CORS(srv.cfg.AllowedOrigins))

	// Health and diagnostic endpoints are exempt from rate and size limits.
	mux.Get("/health", srv.handleHealth)
	mux.Get("/livez", srv.handleLivenessCheck)
	mux.Get("/readyz", srv.handleReadinessCheck)
	mux.Get("/drain", srv.handleDrain)
	mux.Get("/undrain", srv.handleUndrain)
	mux.Get("/api-docs/openapi.json", srv.handleOpenAPI)

	mux.Group(func(r chi.Router) {
		r.Use(RateLimit(srv.cfg.RateLimit, srv.cfg.RateBurst, srv.log))
		r.Use(RequestSizeLimit(srv.cfg.MaxBodyBytes, srv.log))

		for _, h := range srv.handlers {
			h.RegisterRoutes(r)
		}
	})

	if srv.cfg.EnablePprof {
		srv.log.Info("pprof API enabled")
		mux.Mount("/debug", middleware.Profiler())
	}
	return mux
}

func (srv *Server) httpLogger(next http.Handler) http.Handler {
	return httplogger.LoggingMiddlewareSlog(srv.log, next)
}

func (srv *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	api.WriteSuccess(w, srv.log, api.HealthStatus, "")
}

func (srv *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		api.WriteError(w, srv.log, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(doc)); err != nil {
		srv.log.Error("Failed to write OpenAPI document", "err", err)
	}
}

// writeStatus writes the {"status": ...} body of the operational endpoints.
func (srv *Server) writeStatus(w http.ResponseWriter, code int, status string) {
	if err := api.WriteJSON(w, code, map[string]string{"status": status}); err != nil {
		srv.log.Error("Failed to write response", "status", status, "err", err)
	}
}

func (srv *Server) handleLivenessCheck(w http.ResponseWriter, r *http.Request) {
	srv.writeStatus(w, http.StatusOK, "alive")
}

func (srv *Server) handleReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if !srv.isReady.Load() {
		srv.writeStatus(w, http.StatusServiceUnavailable, "not ready")
		return
	}

	for name, check := range srv.checks {
		if !check(r.Context()) {
			srv.log.Warn("Readiness check failed", "check", name)
			srv.writeStatus(w, http.StatusServiceUnavailable, "not ready")
			return
		}
	}

	srv.writeStatus(w, http.StatusOK, "ready")
}

func (srv *Server) handleDrain(w http.ResponseWriter, r *http.Request) {
	if !srv.isReady.Swap(false) {
		srv.writeStatus(w, http.StatusOK, "already draining")
		return
	}

	srv.log.Info("Server marked as not ready")

	// load balancers need DrainDuration to notice
	time.AfterFunc(srv.cfg.DrainDuration, func() {
		srv.log.Info("Drain period completed")
	})

	srv.writeStatus(w, http.StatusOK, "draining")
}

func (srv *Server) handleUndrain(w http.ResponseWriter, r *http.Request) {
	if srv.isReady.Swap(true) {
		srv.writeStatus(w, http.StatusOK, "already ready")
		return
	}

	srv.log.Info("Server marked as ready")

	srv.writeStatus(w, http.StatusOK, "ready")
}

func (srv *Server) RunInBackground() {
	// metrics
	if srv.cfg.MetricsAddr != "" {
		go func() {
			srv.log.With("metricsAddress", srv.cfg.MetricsAddr).Info("Starting metrics server")
			err := srv.metricsSrv.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				srv.log.Error("HTTP server failed", "err", err)
			}
		}()
	}

	// api
	go func() {
		srv.log.Info("Starting HTTP server", "listenAddress", srv.cfg.ListenAddr)
		if err := srv.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.log.Error("HTTP server failed", "err", err)
		}
	}()
}

func (srv *Server) Shutdown() {
	// api
	ctx, cancel := context.WithTimeout(context.Background(), srv.cfg.GracefulShutdownDuration)
	defer cancel()
	if err := srv.srv.Shutdown(ctx); err != nil {
		srv.log.Error("Graceful HTTP server shutdown failed", "err", err)
	} else {
		srv.log.Info("HTTP server gracefully stopped")
	}

	// metrics
	if len(srv.cfg.MetricsAddr) != 0 {
		ctx, cancel := context.WithTimeout(context.Background(), srv.cfg.GracefulShutdownDuration)
		defer cancel()

		if err := srv.metricsSrv.Shutdown(ctx); err != nil {
			srv.log.Error("Graceful metrics server shutdown failed", "err", err)
		} else {
			srv.log.Info("Metrics server gracefully stopped")
		}
	}
}
