package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vibecoding/devlog/internal/logger"
	"github.com/vibecoding/devlog/internal/service"
)

// Config controls the HTTP listener
type Config struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DefaultConfig returns the listener defaults
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server is the HTTP front end over the services
type Server struct {
	cfg  Config
	http *http.Server
	log  logger.Logger

	projects *service.ProjectService
	logs     *service.DevLogService
	tags     *service.TechTagService
	stats    *service.StatisticsService
}

// New assembles the server and its routes
func New(cfg Config, projects *service.ProjectService, logs *service.DevLogService,
	tags *service.TechTagService, stats *service.StatisticsService) *Server {

	s := &Server{
		cfg:      cfg,
		log:      logger.HTTP(),
		projects: projects,
		logs:     logs,
		tags:     tags,
		stats:    stats,
	}

	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID, requestLogger, recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", s.handleListProjects)
			r.Post("/", s.handleCreateProject)
			r.Get("/statistics", s.handleProjectSummary)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetProject)
				r.Put("/", s.handleUpdateProject)
				r.Delete("/", s.handleDeleteProject)
				r.Patch("/progress", s.handleUpdateProjectProgress)
				r.Patch("/status", s.handleUpdateProjectStatus)
			})
		})

		r.Route("/logs", func(r chi.Router) {
			r.Get("/", s.handleListLogs)
			r.Post("/", s.handleCreateLog)
			r.Get("/search", s.handleSearchLogs)
			r.Get("/recent", s.handleRecentLogs)
			r.Get("/calendar", s.handleLogCalendar)
			r.Get("/statistics", s.handleLogSummary)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetLog)
				r.Put("/", s.handleUpdateLog)
				r.Delete("/", s.handleDeleteLog)
			})
		})

		r.Route("/tech-tags", func(r chi.Router) {
			r.Get("/", s.handleListTags)
			r.Post("/", s.handleCreateTag)
			r.Get("/popular", s.handlePopularTags)
			r.Get("/search", s.handleSearchTags)
			r.Get("/statistics", s.handleTagSummary)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetTag)
				r.Put("/", s.handleUpdateTag)
				r.Delete("/", s.handleDeleteTag)
				r.Post("/increment", s.handleIncrementTag)
				r.Post("/decrement", s.handleDecrementTag)
			})
		})

		r.Route("/statistics", func(r chi.Router) {
			r.Get("/weekly", s.handleWeeklyStats)
			r.Get("/weekly/current", s.handleWeeklyStats)
			r.Get("/weekly/last", s.handleLastWeekStats)
			r.Get("/monthly", s.handleMonthlyStats)
			r.Get("/monthly/current", s.handleMonthlyStats)
			r.Get("/monthly/last", s.handleLastMonthStats)
			r.Get("/project/{projectId}", s.handleProjectStats)
			r.Get("/tech-stack", s.handleTechStackStats)
			r.Get("/dashboard", s.handleDashboardStats)
		})
	})

	return r
}

// Start begins serving and blocks until the listener stops
func (s *Server) Start() error {
	s.log.Info("listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout
func (s *Server) Shutdown(ctx context.Context) error {
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.log.Info("shutting down")
	return s.http.Shutdown(ctx)
}

// Handler exposes the routed handler, used by tests
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "UP",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
