package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// El creates an element node.
// Arguments can be: nil, html.Attribute, []html.Attribute, *html.Node,
// []*html.Node or string (a text child).
func El(tag string, args ...any) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case html.Attribute:
			setAttr(n, v.Key, v.Val)
		case []html.Attribute:
			for _, a := range v {
				setAttr(n, a.Key, a.Val)
			}
		case *html.Node:
			if v != nil {
				n.AppendChild(v)
			}
		case []*html.Node:
			for _, c := range v {
				if c != nil {
					n.AppendChild(c)
				}
			}
		case string:
			n.AppendChild(Text(v))
		}
	}

	return n
}

// Text creates a text node.
func Text(content string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: content}
}

// Attr creates an attribute.
func Attr(key, value string) html.Attribute {
	return html.Attribute{Key: key, Val: value}
}

// ID sets the id attribute.
func ID(id string) html.Attribute { return Attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) html.Attribute { return Attr("class", strings.Join(classes, " ")) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) html.Attribute { return Attr("data-"+key, value) }

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, value string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}
