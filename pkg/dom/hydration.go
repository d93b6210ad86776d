package dom

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/vango-dev/sortable/pkg/sortable"
)

// HIDAttr is the attribute that carries a hydration ID.
const HIDAttr = "data-hid"

// AssignHIDs walks the tree and gives every element without a hydration ID
// the next one ("h1", "h2", ...). Elements that already carry one are indexed
// as they are.
func (d *Document) AssignHIDs() {
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			hid := getAttr(n, HIDAttr)
			if hid == "" {
				d.counter++
				hid = fmt.Sprintf("h%d", d.counter)
				setAttr(n, HIDAttr, hid)
			}
			d.hids[hid] = n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
}

// Lookup resolves a hydration ID assigned by AssignHIDs.
func (d *Document) Lookup(hid string) (sortable.Node, bool) {
	n, ok := d.hids[hid]
	if !ok {
		return nil, false
	}
	return d.wrap(n), true
}

// HID returns the hydration ID of n, or "".
func (d *Document) HID(n sortable.Node) string {
	if h := Unwrap(n); h != nil {
		return getAttr(h, HIDAttr)
	}
	return ""
}
