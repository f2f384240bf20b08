package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/tomomira/youtube-video-analyzer/internal/store"
)

// Metrics for Prometheus
var (
	searchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ytanalyzer_searches_total",
		Help: "Total number of search tasks by outcome",
	}, []string{"status"})

	searchDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ytanalyzer_search_duration_seconds",
		Help:    "Duration of search tasks in seconds",
		Buckets: prometheus.DefBuckets,
	})

	videosReturned = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ytanalyzer_videos_returned",
		Help:    "Number of videos returned per successful search",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
	})

	exportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ytanalyzer_exports_total",
		Help: "Total number of export tasks by format and outcome",
	}, []string{"format", "status"})

	errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ytanalyzer_errors_total",
		Help: "Total number of errors",
	}, []string{"type"})
)

// Metric status labels
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

func init() {
	prometheus.MustRegister(searchesTotal)
	prometheus.MustRegister(searchDurationSeconds)
	prometheus.MustRegister(videosReturned)
	prometheus.MustRegister(exportsTotal)
	prometheus.MustRegister(errorsTotal)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
	TaskBusy bool   `json:"task_busy"`
}

// TaskState reports whether a background task is running
type TaskState interface {
	IsRunning() bool
}

// Server handles HTTP requests for health checks and metrics
type Server struct {
	store     store.Store
	tasks     TaskState
	router    *http.ServeMux
	server    *http.Server
	startTime time.Time
	log       zerolog.Logger
}

// NewServer creates a new HTTP server instance; tasks may be nil
func NewServer(st store.Store, tasks TaskState, logger zerolog.Logger) *Server {
	s := &Server{
		store:     st,
		tasks:     tasks,
		router:    http.NewServeMux(),
		startTime: time.Now(),
		log:       logger.With().Str("component", "server").Logger(),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())
}

// Handler returns the router, for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening on the specified port
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.log.Info().Int("port", port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.log.Info().Msg("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// handleHealth returns JSON with status, database connectivity, and uptime
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dbStatus := "healthy"
	if err := s.store.Ping(ctx); err != nil {
		dbStatus = fmt.Sprintf("unhealthy: %v", err)
	}

	status := "healthy"
	if dbStatus != "healthy" {
		status = "unhealthy"
	}

	response := HealthResponse{
		Status:   status,
		Database: dbStatus,
		Uptime:   s.GetUptime().Round(time.Second).String(),
		TaskBusy: s.tasks != nil && s.tasks.IsRunning(),
	}

	w.Header().Set("Content-Type", "application/json")
	if status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode health response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// RecordSearch records one finished search task
func RecordSearch(status string, duration time.Duration, videos int) {
	searchesTotal.WithLabelValues(status).Inc()
	searchDurationSeconds.Observe(duration.Seconds())
	if status == StatusSuccess {
		videosReturned.Observe(float64(videos))
	}
}

// RecordExport records one finished export task
func RecordExport(format, status string) {
	exportsTotal.WithLabelValues(format, status).Inc()
}

// RecordError records an error metric
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}

// GetUptime returns the server uptime
func (s *Server) GetUptime() time.Duration {
	return time.Since(s.startTime)
}
