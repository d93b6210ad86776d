package sortable

// Rect is a bounding box in page coordinates.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Node is a handle to one node of a live visual tree.
//
// Node values must be comparable with ==, and two values are equal exactly
// when they refer to the same underlying node. Methods returning a Node
// return an untyped nil when there is no such node.
type Node interface {
	// Parent returns the enclosing node.
	Parent() Node

	// NextSibling and PrevSibling return raw tree siblings, including
	// whitespace and other non-element nodes.
	NextSibling() Node
	PrevSibling() Node

	// Children returns the element children in tree order.
	Children() []Node

	// Contains reports whether other is this node or one of its descendants.
	Contains(other Node) bool

	// InsertBefore moves child so it sits immediately before ref, which must
	// be a child of this node. A nil ref appends.
	InsertBefore(child, ref Node)

	// Bounds returns the node's bounding box.
	Bounds() Rect

	// SetTransform sets the node's visual transform.
	SetTransform(value string)

	Attr(name string) string
	Text() string

	// Query and QueryAll match a CSS selector against descendants.
	Query(selector string) (Node, error)
	QueryAll(selector string) ([]Node, error)
}
