package wire

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/sortable/pkg/dom"
	"github.com/vango-dev/sortable/pkg/middleware"
	"github.com/vango-dev/sortable/pkg/refresh"
	"github.com/vango-dev/sortable/pkg/sortable"
)

// SessionConfig holds per-connection settings.
type SessionConfig struct {
	// ReadTimeout is the maximum time to wait for a frame from the client.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a frame.
	WriteTimeout time.Duration

	// MaxMessageSize is the maximum size of an incoming frame.
	MaxMessageSize int64

	// HeartbeatInterval is the time between pings. Every pong extends the
	// read deadline, so an idle page keeps its session. Zero disables pings.
	HeartbeatInterval time.Duration

	// RefreshDelay is the idle time before a reload frame is pushed.
	// Zero disables auto-refresh.
	RefreshDelay time.Duration
}

// DefaultSessionConfig returns the default session settings.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		MaxMessageSize:    64 * 1024,
		HeartbeatInterval: 30 * time.Second,
		RefreshDelay:      refresh.DefaultDelay,
	}
}

// conn is the part of *websocket.Conn a Session uses.
type conn interface {
	frameReader
	WriteJSON(v any) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Session is one drag session: a document, its container and the
// connection that feeds it. Events are dispatched on the goroutine that
// calls Run; writes from any goroutine are serialised.
type Session struct {
	ID string

	conn      conn
	doc       *dom.Document
	container *sortable.Container
	source    *Source
	timer     *refresh.Timer
	config    SessionConfig
	logger    *slog.Logger

	writeMu   sync.Mutex
	lastOrder []string
	done      chan struct{}
	closeOnce sync.Once
}

// NewSession wires c to the connection. A sorted listener is registered
// on c that pushes the new orders to the client.
func NewSession(ws conn, doc *dom.Document, c *sortable.Container, cfg SessionConfig) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		conn:      ws,
		doc:       doc,
		container: c,
		config:    cfg,
		done:      make(chan struct{}),
	}
	s.logger = slog.Default().With("component", "wire", "session", s.ID, "type", c.Type())

	if cfg.RefreshDelay > 0 {
		s.timer = refresh.New(cfg.RefreshDelay,
			refresh.OnTick(func(seconds int) {
				s.send(CountdownFrame(seconds))
			}),
			refresh.OnExpire(func() {
				s.logger.Debug("idle, reloading")
				s.send(ReloadFrame())
			}),
		)
	}

	s.source = NewSource(ws, doc, cfg.ReadTimeout)
	s.source.OnFrame = func(Frame) {
		if s.timer != nil {
			s.timer.Reset()
		}
	}
	s.source.OnReject = func(err error) {
		s.logger.Warn("frame rejected", "error", err)
		s.send(ErrorFrame(err))
	}
	ws.SetPongHandler(func(string) error {
		if cfg.ReadTimeout > 0 {
			return ws.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
		}
		return nil
	})

	c.On(sortable.EventSorted, func(event string, c *sortable.Container) error {
		return s.Send(SortedFrame(c.Snapshot("")))
	})

	s.lastOrder = s.liveOrder()
	return s
}

// Container returns the session's container.
func (s *Session) Container() *sortable.Container { return s.container }

// Run dispatches events until the client goes away or ctx is done.
// A normal close returns nil.
func (s *Session) Run(ctx context.Context) error {
	middleware.RecordSessionCreate()
	defer middleware.RecordSessionDestroy()
	defer s.Close()

	stop := context.AfterFunc(ctx, func() { s.Close() })
	defer stop()

	if s.timer != nil {
		s.timer.Start()
	}
	if s.config.HeartbeatInterval > 0 {
		go s.heartbeat()
	}
	s.logger.Info("session started")

	for {
		ev, err := s.source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil || isNormalClose(err) {
				s.logger.Info("session closed")
				return nil
			}
			middleware.RecordWebSocketError("read")
			return err
		}

		if err := s.container.Dispatch(ev); err != nil {
			s.logger.Warn("dispatch failed", "event", string(ev.Kind), "error", err)
			s.send(ErrorFrame(err))
		}
		s.syncOrder()
	}
}

// Send writes one frame to the client.
func (s *Session) Send(f ServerFrame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.config.WriteTimeout > 0 {
		s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	}
	if err := s.conn.WriteJSON(f); err != nil {
		middleware.RecordWebSocketError("write")
		return err
	}
	return nil
}

// heartbeat pings the client until the session is closed. Pongs are
// handled on the read side while Run is blocked in ReadMessage.
func (s *Session) heartbeat() {
	ticker := time.NewTicker(s.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.ping(); err != nil {
				s.logger.Debug("ping failed", "error", err)
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *Session) ping() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var deadline time.Time
	if s.config.WriteTimeout > 0 {
		deadline = time.Now().Add(s.config.WriteTimeout)
	}
	if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
		middleware.RecordWebSocketError("ping")
		return err
	}
	return nil
}

// send is Send for callers that can only log.
func (s *Session) send(f ServerFrame) {
	if err := s.Send(f); err != nil {
		s.logger.Debug("send failed", "frame", f.Type, "error", err)
	}
}

// Close stops the refresh timer and closes the connection. It is safe to
// call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.timer != nil {
			s.timer.Cancel()
		}
		s.conn.Close()
	})
}

// syncOrder pushes an order frame when the live item order changed.
func (s *Session) syncOrder() {
	order := s.liveOrder()
	if equalStrings(order, s.lastOrder) {
		return
	}
	s.lastOrder = order
	s.send(OrderFrame(order))
}

// liveOrder returns the hids of the items sorted by order.
func (s *Session) liveOrder() []string {
	items := s.container.Items()
	sort.Slice(items, func(i, j int) bool { return items[i].Order() < items[j].Order() })
	hids := make([]string, len(items))
	for i, it := range items {
		hids[i] = s.doc.HID(it.Element())
	}
	return hids
}

func isNormalClose(err error) bool {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return true
	}
	return errors.Is(err, net.ErrClosed)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
