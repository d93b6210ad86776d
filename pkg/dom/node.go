package dom

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/vango-dev/sortable/pkg/sortable"
)

// node adapts *html.Node to sortable.Node. It is a value type so that two
// wrappers of the same node compare equal.
type node struct {
	n   *html.Node
	doc *Document
}

func (x node) Parent() sortable.Node      { return x.doc.wrap(x.n.Parent) }
func (x node) NextSibling() sortable.Node { return x.doc.wrap(x.n.NextSibling) }
func (x node) PrevSibling() sortable.Node { return x.doc.wrap(x.n.PrevSibling) }

func (x node) Children() []sortable.Node {
	var out []sortable.Node
	for c := x.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, x.doc.wrap(c))
		}
	}
	return out
}

func (x node) Contains(other sortable.Node) bool {
	o := Unwrap(other)
	for p := o; p != nil; p = p.Parent {
		if p == x.n {
			return true
		}
	}
	return false
}

func (x node) InsertBefore(child, ref sortable.Node) {
	c := Unwrap(child)
	if c == nil || c == x.n {
		return
	}
	r := Unwrap(ref)
	if r == c {
		r = c.NextSibling
	}
	if r != nil && r.Parent != x.n {
		return
	}
	// Moving a node inside its own subtree would detach the parent.
	for p := x.n; p != nil; p = p.Parent {
		if p == c {
			return
		}
	}
	if c.Parent != nil {
		c.Parent.RemoveChild(c)
	}
	x.n.InsertBefore(c, r)
}

func (x node) Bounds() sortable.Rect {
	return x.doc.layout.Bounds(x.n)
}

func (x node) SetTransform(value string) {
	if x.n.Type != html.ElementNode {
		return
	}
	setAttr(x.n, "style", "transform: "+value)
}

func (x node) Attr(name string) string {
	return getAttr(x.n, name)
}

// Text returns the node's text content with runs of whitespace collapsed.
func (x node) Text() string {
	var b strings.Builder
	collectText(x.n, &b)
	return strings.Join(strings.Fields(b.String()), " ")
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

// Query matches descendants only, like querySelector.
func (x node) Query(selector string) (sortable.Node, error) {
	sel, err := x.doc.selector(selector)
	if err != nil {
		return nil, err
	}
	for c := x.n.FirstChild; c != nil; c = c.NextSibling {
		if m := sel.MatchFirst(c); m != nil {
			return x.doc.wrap(m), nil
		}
	}
	return nil, nil
}

// QueryAll matches descendants only, in document order.
func (x node) QueryAll(selector string) ([]sortable.Node, error) {
	sel, err := x.doc.selector(selector)
	if err != nil {
		return nil, err
	}
	var out []sortable.Node
	for c := x.n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, x.doc.wrapAll(sel.MatchAll(c))...)
	}
	return out, nil
}
