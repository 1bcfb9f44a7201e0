// Package api serves the decision engine over HTTP.
package api

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"visa-predictor/internal/common/config"
	"visa-predictor/internal/common/logger"
	"visa-predictor/internal/visa"
)

// ReadinessChecker reports whether a dependency can serve.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// ReadinessGroup is ready when every member is.
type ReadinessGroup []ReadinessChecker

func (g ReadinessGroup) Ready(ctx context.Context) error {
	for _, c := range g {
		if err := c.Ready(ctx); err != nil {
			return err
		}
	}
	return nil
}

type Options struct {
	Config    config.ServerConfig
	Engine    *visa.Engine
	Readiness ReadinessChecker
	Logger    logger.Logger
	// InputSchema replaces the built-in request schema, typically with the
	// one registered for the activity.
	InputSchema map[string]interface{}
}

type Server struct {
	cfg       config.ServerConfig
	engine    *visa.Engine
	readiness ReadinessChecker
	validator *SchemaValidator
	logger    logger.Logger
	router    chi.Router
	http      *http.Server
}

func NewServer(opts Options) (*Server, error) {
	if opts.Engine == nil {
		return nil, fmt.Errorf("api: decision engine is required")
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	doc := opts.InputSchema
	if len(doc) == 0 {
		doc = PredictRequestSchema(opts.Engine.Table())
	}
	validator, err := NewSchemaValidator(doc)
	if err != nil {
		return nil, fmt.Errorf("api: request schema: %w", err)
	}

	s := &Server{
		cfg:       opts.Config,
		engine:    opts.Engine,
		readiness: opts.Readiness,
		validator: validator,
		logger:    log.WithFields(map[string]interface{}{"component": "http"}),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(instrument(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors(s.cfg.AllowedOrigins))
	if s.cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(config.GetDuration(s.cfg.RequestTimeout)))
	}

	r.Get("/", s.handleRoot)
	r.Post("/predict", s.handlePredict)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  config.GetDuration(s.cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(s.cfg.WriteTimeout),
	}

	s.logger.Info("HTTP server listening", map[string]interface{}{"addr": s.http.Addr})
	if err := s.http.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
