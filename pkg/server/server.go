package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/sortable/internal/config"
	"github.com/vango-dev/sortable/pkg/persist"
	"github.com/vango-dev/sortable/pkg/store"
	"github.com/vango-dev/sortable/pkg/wire"
)

// Server ties the store, the drag sessions and the HTTP routes together.
type Server struct {
	config  *config.Config
	store   store.Store
	persist *persist.Client
	ws      *wire.Handler
	router  chi.Router
	logger  *slog.Logger

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithPersistClient replaces the client that sessions post sorted orders
// with.
func WithPersistClient(c *persist.Client) Option {
	return func(s *Server) { s.persist = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a Server over st.
func New(cfg *config.Config, st store.Store, opts ...Option) *Server {
	s := &Server{
		config: cfg,
		store:  st,
		logger: slog.Default().With("component", "server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.persist == nil {
		s.persist = persist.New(cfg.PersistEndpoint(),
			persist.WithIDAttr(cfg.Sortable.IDAttr),
			persist.WithTimeout(cfg.PersistTimeout()),
		)
	}

	sessionConfig := wire.DefaultSessionConfig()
	sessionConfig.RefreshDelay = cfg.RefreshDelay()
	s.ws = wire.NewHandler(s.newSession, sessionConfig)

	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Sessions returns the number of open drag sessions.
func (s *Server) Sessions() int { return s.ws.Len() }

// Serve accepts connections on l until ctx is done, then shuts down.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", l.Addr().String())
		errCh <- s.httpServer.Serve(l)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// ListenAndServe listens on the configured address and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}

// Shutdown closes the drag sessions, then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout())
	defer cancel()

	s.ws.Close()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.logger.Info("server stopped")
	return nil
}
