// Package server exposes sessions over HTTP: upload a screenshot, chat about
// the result, preview it and download it.
package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"screen2html/internal/imageio"
	"screen2html/internal/logger"
	"screen2html/internal/metrics"
	"screen2html/internal/pipeline"
	"screen2html/internal/session"
)

const module = "server"

// Deps are the collaborators the server is built from
type Deps struct {
	Store      *session.Store
	Pipeline   *pipeline.Pipeline
	NewSession func() *session.Session
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	Logger     logger.ILogger

	// MaxUploadBytes caps screenshot uploads, 0 for imageio.MaxUploadBytes
	MaxUploadBytes int
}

// Server is the HTTP front end
type Server struct {
	app        *fiber.App
	store      *session.Store
	pipeline   *pipeline.Pipeline
	newSession func() *session.Session
	metrics    *metrics.Metrics
	log        logger.ILogger
	maxUpload  int
}

// New builds the fiber app and registers the routes
func New(deps Deps) *Server {
	s := &Server{
		store:      deps.Store,
		pipeline:   deps.Pipeline,
		newSession: deps.NewSession,
		metrics:    deps.Metrics,
		log:        deps.Logger,
		maxUpload:  deps.MaxUploadBytes,
	}
	if s.log == nil {
		s.log = logger.NewNop()
	}
	if s.maxUpload <= 0 || s.maxUpload > imageio.MaxUploadBytes {
		s.maxUpload = imageio.MaxUploadBytes
	}

	s.app = fiber.New(fiber.Config{
		BodyLimit:             s.maxUpload + 1<<20,
		Immutable:             true, // request values outlive the handler in the turn history
		ErrorHandler:          s.handleError,
		DisableStartupMessage: true,
	})

	s.store.OnEvicted(func(id string) {
		s.syncSessionGauge()
	})

	s.app.Use(recover.New())

	api := s.app.Group("/api")
	sessions := api.Group("/sessions")
	sessions.Post("", s.createSession)
	sessions.Get(":id", s.showSession)
	sessions.Delete(":id", s.deleteSession)
	sessions.Post(":id/code", s.code)
	sessions.Post(":id/chat", s.chat)
	sessions.Get(":id/preview", s.preview)
	sessions.Get(":id/download", s.download)

	if deps.Gatherer != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	return s
}

// App returns the underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// Run listens on addr until the server is shut down
func (s *Server) Run(addr string) error {
	s.log.Info(module, "server listening", map[string]interface{}{"addr": addr})
	return s.app.Listen(addr)
}

// Shutdown stops accepting requests and waits for running ones until ctx ends
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
