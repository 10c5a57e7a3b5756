// Package server provides the HTTP status server of the importer: health,
// import status and Prometheus metrics. It includes middleware configuration
// and graceful shutdown with proper error handling and logging.
package server

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"festbetrag/config"
	"festbetrag/health"
	"festbetrag/interfaces"
	"festbetrag/logging"
	"festbetrag/metrics"
)

// Global server start time
var serverStartTime = time.Now()

// formatUptimeHuman formats duration into a human-readable string
func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}

// Server represents the HTTP status server
type Server struct {
	server  *http.Server
	router  chi.Router
	status  interfaces.ImportStatus
	checker *health.HealthChecker
	config  *config.Config
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, status interfaces.ImportStatus) *Server {
	router := chi.NewRouter()

	server := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:  router,
		status:  status,
		checker: health.NewHealthChecker(status, cfg.ImportTime),
		config:  cfg,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.Middleware(logging.DefaultLoggingService.Logger))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Metrics)
	s.router.Use(RateLimitHandler)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/status", s.handleStatus)
	s.router.Handle("/metrics", promhttp.Handler())
}

// handleHealth serves the health check with data freshness thresholds
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, data, httpStatus := s.checker.HealthCheck()
	data["status"] = status
	respondWithJSON(w, httpStatus, data)
}

// StatusData represents the import status response
type StatusData struct {
	Status      string                   `json:"status"`
	Uptime      string                   `json:"uptime"`
	MemoryUsage int                      `json:"memory_usage_mb"`
	LastImport  string                   `json:"last_import"`
	NextImport  string                   `json:"next_import"`
	IsUpdating  bool                     `json:"is_updating"`
	RecordCount int64                    `json:"record_count"`
	LastReport  *interfaces.ImportReport `json:"last_report,omitempty"`
}

// handleStatus serves the detailed import status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	respondWithJSON(w, http.StatusOK, StatusData{
		Status:      "ok",
		Uptime:      formatUptimeHuman(time.Since(serverStartTime)),
		MemoryUsage: int(m.Alloc / 1024 / 1024),
		LastImport:  s.status.GetLastImported().Format(time.RFC3339),
		NextImport:  s.checker.CalculateNextImport().Format(time.RFC3339),
		IsUpdating:  s.status.IsUpdating(),
		RecordCount: s.status.GetRecordCount(),
		LastReport:  s.status.GetLastReport(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	// Start profiling server if in development mode
	if s.config.Env == "dev" {
		s.startProfilingServer()
	}

	logging.Info(fmt.Sprintf("Starting status server at: %s:%s", s.config.Address, s.config.Port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		// If graceful shutdown fails, force close
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}

// startProfilingServer starts the pprof profiling server in development mode
func (s *Server) startProfilingServer() {
	go func() {
		fmt.Println("Profiling server started at http://localhost:6060/debug/pprof/")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			fmt.Println("Profiling server failed: ", err)
		}
	}()
}
