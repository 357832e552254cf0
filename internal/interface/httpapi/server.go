package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/YoshitsuguKoike/taskplan/internal/app"
	"github.com/YoshitsuguKoike/taskplan/internal/application/port/input"
)

// maxBodyBytes limits request bodies
const maxBodyBytes = 1 << 20

// Server exposes the task store over HTTP
type Server struct {
	httpServer *http.Server
	tasks      input.TaskUseCase
	logger     app.Logger
}

// NewServer creates a server listening on addr once started
func NewServer(tasks input.TaskUseCase, addr string, logger app.Logger) *Server {
	s := &Server{
		tasks:  tasks,
		logger: app.OrDefault(logger),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(AccessLog(s.logger))

	r.Get("/health", s.handleHealth)
	r.Get("/history", s.handleHistory)
	r.Get("/prioritized", s.handlePrioritized)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.handleListTasks)
		r.Post("/", s.handleSaveTask)
		r.Delete("/", s.handleClearTasks)
		r.Get("/{id}", s.handleGetTask)
		r.Post("/{id}", s.handleSaveTask)
		r.Delete("/{id}", s.handleDeleteTask)
	})

	r.Route("/epics", func(r chi.Router) {
		r.Get("/", s.handleListEpics)
		r.Post("/", s.handleSaveEpic)
		r.Delete("/", s.handleClearEpics)
		r.Get("/{id}", s.handleGetEpic)
		r.Get("/{id}/subtasks", s.handleListEpicSubtasks)
		r.Post("/{id}", s.handleSaveEpic)
		r.Delete("/{id}", s.handleDeleteEpic)
	})

	r.Route("/subtasks", func(r chi.Router) {
		r.Get("/", s.handleListSubtasks)
		r.Post("/", s.handleSaveSubtask)
		r.Delete("/", s.handleClearSubtasks)
		r.Get("/{id}", s.handleGetSubtask)
		r.Post("/{id}", s.handleSaveSubtask)
		r.Delete("/{id}", s.handleDeleteSubtask)
	})

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens on the configured address. It blocks until the server is stopped.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln. It blocks until the server is stopped.
// A graceful shutdown is not reported as an error.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("taskplan listening on %s", ln.Addr())
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
