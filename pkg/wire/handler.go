package wire

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/sortable/internal/errors"
	"github.com/vango-dev/sortable/pkg/dom"
	"github.com/vango-dev/sortable/pkg/sortable"
)

// Factory builds the document and container for a new session of typ.
type Factory func(ctx context.Context, typ string) (*dom.Document, *sortable.Container, error)

// Handler upgrades requests to drag sessions. The sortable type is the
// chi URL parameter "type".
type Handler struct {
	upgrader websocket.Upgrader
	factory  Factory
	config   SessionConfig
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithCheckOrigin sets the origin check used during the upgrade.
func WithCheckOrigin(fn func(r *http.Request) bool) HandlerOption {
	return func(h *Handler) { h.upgrader.CheckOrigin = fn }
}

// WithHandlerLogger sets the logger.
func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) { h.logger = l }
}

// NewHandler creates a Handler.
func NewHandler(factory Factory, cfg SessionConfig, opts ...HandlerOption) *Handler {
	h := &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		factory:  factory,
		config:   cfg,
		logger:   slog.Default().With("component", "wire"),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP builds the session before upgrading, so an unknown type is
// answered with a plain HTTP error.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	typ := chi.URLParam(r, "type")
	doc, c, err := h.factory(r.Context(), typ)
	if err != nil {
		h.logger.Warn("session setup failed", "type", typ, "error", err)
		http.Error(w, err.Error(), errors.HTTPStatus(err))
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	if h.config.MaxMessageSize > 0 {
		ws.SetReadLimit(h.config.MaxMessageSize)
	}

	s := NewSession(ws, doc, c, h.config)
	h.add(s)
	defer h.remove(s)

	if err := s.Run(r.Context()); err != nil {
		if websocket.IsUnexpectedCloseError(err,
			websocket.CloseGoingAway,
			websocket.CloseAbnormalClosure,
			websocket.CloseNormalClosure) {
			h.logger.Error("read error", "session", s.ID, "error", err)
		}
	}
}

// Len returns the number of open sessions.
func (h *Handler) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Close closes every open session.
func (h *Handler) Close() {
	h.mu.Lock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

func (h *Handler) add(s *Session) {
	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()
}

func (h *Handler) remove(s *Session) {
	h.mu.Lock()
	delete(h.sessions, s.ID)
	h.mu.Unlock()
}
