package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/BrandonDHaskell/kiosk/internal/kiosk/auth"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/service"
	"github.com/BrandonDHaskell/kiosk/internal/logger"
)

type Dependencies struct {
	Logger         *logger.Logger
	Addr           string
	RequestTimeout time.Duration

	Authenticator     *auth.Authenticator
	AccessService     *service.AccessService
	HistoryService    *service.HistoryService
	CredentialService *service.CredentialService

	// Ready reports whether the backing store is reachable.  Nil means
	// always ready.
	Ready func(ctx context.Context) error
}

type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
	router     chi.Router

	auth        *auth.Authenticator
	access      *service.AccessService
	history     *service.HistoryService
	credentials *service.CredentialService
	ready       func(ctx context.Context) error
}

func NewServer(d Dependencies) *Server {
	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	s := &Server{
		logger:      d.Logger,
		auth:        d.Authenticator,
		access:      d.AccessService,
		history:     d.HistoryService,
		credentials: d.CredentialService,
		ready:       d.Ready,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(d.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", s.handleReady)

	r.Route("/v1", func(r chi.Router) {
		r.Use(withDeadline(timeout))

		r.Post("/access/validate", s.handleValidate)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdministrator)
			r.Get("/access/history", s.handleHistory)
			r.Get("/members/lookup", s.handleLookup)
			r.Post("/members/{id}/credential/rotate", s.handleRotate)
		})
	})

	s.router = r
	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			s.logger.Warn("readiness check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "Service Unavailable")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
