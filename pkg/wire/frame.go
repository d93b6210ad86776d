package wire

import (
	"encoding/json"

	"github.com/vango-dev/sortable/internal/errors"
	"github.com/vango-dev/sortable/pkg/sortable"
)

// FrameLayout reports measured element boxes.
const FrameLayout = "layout"

// Server frame types.
const (
	FrameOrder     = "order"
	FrameSorted    = "sorted"
	FrameCountdown = "countdown"
	FrameReload    = "reload"
	FrameError     = "error"
)

// Rect is a box as the browser reports it.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) toSortable() sortable.Rect {
	return sortable.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Frame is a client → server message.
type Frame struct {
	Type   string          `json:"type"`
	Target string          `json:"target,omitempty"`
	Y      float64         `json:"y,omitempty"`
	Rects  map[string]Rect `json:"rects,omitempty"`
}

// DecodeFrame parses one client frame. The type must be layout or a drag
// event kind, and event frames must name a target.
func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, errors.New("E140").Wrap(err)
	}
	switch {
	case f.Type == FrameLayout:
	case sortable.EventKind(f.Type).Valid():
		if f.Target == "" {
			return Frame{}, errors.New("E140").WithDetailf("%s frame without target", f.Type)
		}
	case f.Type == "":
		return Frame{}, errors.New("E140").WithDetail("missing type")
	default:
		return Frame{}, errors.New("E142").WithDetailf("%q", f.Type)
	}
	return f, nil
}

// ServerFrame is a server → client message.
type ServerFrame struct {
	Type string `json:"type"`

	// HIDs is the live item order (order frames).
	HIDs []string `json:"hids,omitempty"`

	// Order is the id → order map announced with sorted.
	Order map[string]int `json:"order,omitempty"`

	Seconds int    `json:"seconds,omitempty"`
	Message string `json:"message,omitempty"`
}

// OrderFrame tells the client to arrange the items in hids order.
func OrderFrame(hids []string) ServerFrame {
	return ServerFrame{Type: FrameOrder, HIDs: hids}
}

// SortedFrame announces a completed drop.
func SortedFrame(order map[string]int) ServerFrame {
	return ServerFrame{Type: FrameSorted, Order: order}
}

// CountdownFrame reports the seconds left before reload.
func CountdownFrame(seconds int) ServerFrame {
	return ServerFrame{Type: FrameCountdown, Seconds: seconds}
}

// ReloadFrame tells the client to reload the page.
func ReloadFrame() ServerFrame {
	return ServerFrame{Type: FrameReload}
}

// ErrorFrame reports a rejected frame.
func ErrorFrame(err error) ServerFrame {
	return ServerFrame{Type: FrameError, Message: err.Error()}
}
