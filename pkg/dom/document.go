package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/vango-dev/sortable/pkg/sortable"
)

// Document is a live HTML tree.
// It is not safe for concurrent use.
type Document struct {
	root      *html.Node
	layout    Layout
	selectors map[string]cascadia.Selector
	hids      map[string]*html.Node
	counter   uint32
}

// Option configures a Document.
type Option func(*Document)

// WithLayout sets the layout used for bounding boxes.
func WithLayout(l Layout) Option {
	return func(d *Document) {
		if l != nil {
			d.layout = l
		}
	}
}

// NewDocument wraps an existing tree.
func NewDocument(root *html.Node, opts ...Option) *Document {
	d := &Document{
		root:      root,
		layout:    StackLayout{},
		selectors: make(map[string]cascadia.Selector),
		hids:      make(map[string]*html.Node),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Parse parses an HTML document.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return NewDocument(root, opts...), nil
}

// ParseString parses an HTML document from a string.
func ParseString(s string, opts ...Option) (*Document, error) {
	return Parse(strings.NewReader(s), opts...)
}

// Root returns the document root.
func (d *Document) Root() sortable.Node { return d.wrap(d.root) }

// Node wraps n for use with the sortable engine.
func (d *Document) Node(n *html.Node) sortable.Node { return d.wrap(n) }

// Layout returns the layout in use.
func (d *Document) Layout() Layout { return d.layout }

// SetLayout replaces the layout.
func (d *Document) SetLayout(l Layout) {
	if l != nil {
		d.layout = l
	}
}

// Find returns the first node matching selector, or nil.
func (d *Document) Find(selector string) (sortable.Node, error) {
	sel, err := d.selector(selector)
	if err != nil {
		return nil, err
	}
	return d.wrap(sel.MatchFirst(d.root)), nil
}

// FindAll returns every node matching selector in document order.
func (d *Document) FindAll(selector string) ([]sortable.Node, error) {
	sel, err := d.selector(selector)
	if err != nil {
		return nil, err
	}
	return d.wrapAll(sel.MatchAll(d.root)), nil
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the document, for diagnostics.
func (d *Document) String() string {
	var b strings.Builder
	if err := d.Render(&b); err != nil {
		return ""
	}
	return b.String()
}

func (d *Document) selector(s string) (cascadia.Selector, error) {
	if sel, ok := d.selectors[s]; ok {
		return sel, nil
	}
	sel, err := cascadia.Compile(s)
	if err != nil {
		return nil, fmt.Errorf("dom: selector %q: %w", s, err)
	}
	d.selectors[s] = sel
	return sel, nil
}

func (d *Document) wrap(n *html.Node) sortable.Node {
	if n == nil {
		return nil
	}
	return node{n: n, doc: d}
}

func (d *Document) wrapAll(ns []*html.Node) []sortable.Node {
	out := make([]sortable.Node, 0, len(ns))
	for _, n := range ns {
		out = append(out, d.wrap(n))
	}
	return out
}

// Unwrap returns the *html.Node behind a Node created by a Document, or nil.
func Unwrap(n sortable.Node) *html.Node {
	if w, ok := n.(node); ok {
		return w.n
	}
	return nil
}
