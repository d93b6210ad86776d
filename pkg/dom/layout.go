package dom

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/sortable/pkg/sortable"
)

// Layout computes bounding boxes for nodes.
type Layout interface {
	Bounds(n *html.Node) sortable.Rect
}

// StackLayout places every element in a row of its own, stacked top to
// bottom in live sibling order. It suits flat lists: an element's box only
// depends on how many element siblings precede it.
type StackLayout struct {
	Origin    float64
	RowHeight float64
	Width     float64
}

// DefaultRowHeight is the row height used when StackLayout has none.
const DefaultRowHeight = 40

// Bounds implements Layout.
func (l StackLayout) Bounds(n *html.Node) sortable.Rect {
	h := l.RowHeight
	if h <= 0 {
		h = DefaultRowHeight
	}
	if n == nil || n.Type != html.ElementNode {
		return sortable.Rect{}
	}

	index := 0
	for p := n.PrevSibling; p != nil; p = p.PrevSibling {
		if p.Type == html.ElementNode {
			index++
		}
	}

	return sortable.Rect{
		Y:      l.Origin + float64(index)*h,
		Width:  l.Width,
		Height: h,
	}
}

// Measured holds boxes measured elsewhere, typically reported by a browser.
// Nodes without a measurement are laid out by Fallback.
type Measured struct {
	Fallback Layout
	boxes    map[*html.Node]sortable.Rect
}

// NewMeasured creates an empty Measured layout.
func NewMeasured(fallback Layout) *Measured {
	if fallback == nil {
		fallback = StackLayout{}
	}
	return &Measured{
		Fallback: fallback,
		boxes:    make(map[*html.Node]sortable.Rect),
	}
}

// Set records the box of n.
func (m *Measured) Set(n *html.Node, r sortable.Rect) {
	if n != nil {
		m.boxes[n] = r
	}
}

// Reset forgets every measurement.
func (m *Measured) Reset() {
	clear(m.boxes)
}

// Bounds implements Layout.
func (m *Measured) Bounds(n *html.Node) sortable.Rect {
	if r, ok := m.boxes[n]; ok {
		return r
	}
	return m.Fallback.Bounds(n)
}
