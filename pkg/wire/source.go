package wire

import (
	"context"
	"time"

	"github.com/vango-dev/sortable/internal/errors"
	"github.com/vango-dev/sortable/pkg/dom"
	"github.com/vango-dev/sortable/pkg/middleware"
	"github.com/vango-dev/sortable/pkg/sortable"
)

// frameReader is the read half of *websocket.Conn.
type frameReader interface {
	ReadMessage() (messageType int, p []byte, err error)
	SetReadDeadline(t time.Time) error
}

// Source reads drag events from a WebSocket connection. It implements
// sortable.EventSource. Layout frames are applied to the document's
// measured layout and never surface as events.
type Source struct {
	conn        frameReader
	doc         *dom.Document
	layout      *dom.Measured
	readTimeout time.Duration

	// OnFrame runs for every well-formed frame.
	OnFrame func(Frame)

	// OnReject runs for frames that are dropped: malformed JSON, an
	// unknown type or an unknown target.
	OnReject func(error)
}

// NewSource creates a Source resolving targets in doc. If doc's layout is
// not a *dom.Measured, one is installed with the old layout as fallback.
func NewSource(conn frameReader, doc *dom.Document, readTimeout time.Duration) *Source {
	layout, ok := doc.Layout().(*dom.Measured)
	if !ok {
		layout = dom.NewMeasured(doc.Layout())
		doc.SetLayout(layout)
	}
	return &Source{
		conn:        conn,
		doc:         doc,
		layout:      layout,
		readTimeout: readTimeout,
	}
}

// Next implements sortable.EventSource.
func (s *Source) Next(ctx context.Context) (sortable.Event, error) {
	for {
		if err := ctx.Err(); err != nil {
			return sortable.Event{}, err
		}
		if s.readTimeout > 0 {
			s.conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		}
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			return sortable.Event{}, err
		}

		f, err := DecodeFrame(msg)
		if err != nil {
			s.reject(err)
			continue
		}
		if s.OnFrame != nil {
			s.OnFrame(f)
		}

		if f.Type == FrameLayout {
			s.applyLayout(f.Rects)
			continue
		}

		target, ok := s.doc.Lookup(f.Target)
		if !ok {
			s.reject(errors.New("E141").WithDetailf("%q", f.Target))
			continue
		}
		middleware.RecordDragEvent(f.Type)
		return sortable.Event{Kind: sortable.EventKind(f.Type), Target: target, Y: f.Y}, nil
	}
}

// applyLayout replaces the measured boxes. Unknown hids are skipped.
func (s *Source) applyLayout(rects map[string]Rect) {
	s.layout.Reset()
	for hid, r := range rects {
		n, ok := s.doc.Lookup(hid)
		if !ok {
			continue
		}
		s.layout.Set(dom.Unwrap(n), r.toSortable())
	}
}

func (s *Source) reject(err error) {
	if s.OnReject != nil {
		s.OnReject(err)
	}
}
