package sortable

import "strings"

// Transforms applied to a dragged element. Moving it far off-screen keeps the
// native drag image from showing a duplicate.
const (
	DetachTransform = "translateX(-9999px)"
	ResetTransform  = "unset"
)

// State is an Item's position in the drag lifecycle.
type State uint8

const (
	StateIdle     State = iota // no drag in progress
	StateArmed                 // pointer is down, drag not started
	StateDragging              // drag accepted
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateArmed:
		return "Armed"
	case StateDragging:
		return "Dragging"
	default:
		return "Unknown"
	}
}

// Item is one orderable element registered with a Container.
type Item struct {
	parent     *Container
	order      int
	element    Node
	handle     Node
	name       string
	dragTarget Node
	state      State
}

func newItem(parent *Container, order int, element Node) (*Item, error) {
	it := &Item{
		parent:  parent,
		order:   order,
		element: element,
	}

	if sel := parent.config.Handle; sel != "" {
		h, err := element.Query(sel)
		if err != nil {
			return nil, err
		}
		it.handle = h
	}

	if sel := parent.config.Name; sel != "" {
		n, err := element.Query(sel)
		if err != nil {
			return nil, err
		}
		if n != nil {
			it.name = strings.TrimSpace(n.Text())
		}
	}

	return it, nil
}

// Order returns the Item's rank within its Container.
func (it *Item) Order() int { return it.order }

// Element returns the node the Item represents.
func (it *Item) Element() Node { return it.element }

// Handle returns the drag handle, or nil when the whole element is the handle.
func (it *Item) Handle() Node { return it.handle }

// Name returns the cached display label.
func (it *Item) Name() string { return it.name }

// State returns the drag lifecycle state.
func (it *Item) State() State { return it.state }

// Container returns the Container the Item is registered with.
func (it *Item) Container() *Container { return it.parent }

// Pos returns the element's current bounding box.
func (it *Item) Pos() Rect { return it.element.Bounds() }

// Midpoint returns the vertical center of the element's bounding box.
func (it *Item) Midpoint() float64 {
	pos := it.Pos()
	return pos.Y + pos.Height/2
}

// Next returns the nearest registered Item after this one in the live tree,
// skipping nodes that are not Items.
func (it *Item) Next() *Item {
	for n := it.element.NextSibling(); n != nil; n = n.NextSibling() {
		if c := it.parent.FindChild(n); c != nil {
			return c
		}
	}
	return nil
}

// Prev returns the nearest registered Item before this one in the live tree.
func (it *Item) Prev() *Item {
	for n := it.element.PrevSibling(); n != nil; n = n.PrevSibling() {
		if c := it.parent.FindChild(n); c != nil {
			return c
		}
	}
	return nil
}

// PointerDown records where a pointer went down inside the element and arms
// the Item for a drag.
func (it *Item) PointerDown(target Node) {
	if it.state == StateDragging {
		return
	}
	it.dragTarget = target
	it.state = StateArmed
}

// DragStart begins a drag. When a handle is configured and the pointer did
// not go down inside it, the drag is vetoed: DragStart returns false and the
// Item goes back to Idle.
func (it *Item) DragStart() bool {
	if it.handle != nil && (it.dragTarget == nil || !it.handle.Contains(it.dragTarget)) {
		it.state = StateIdle
		return false
	}
	it.element.SetTransform(DetachTransform)
	it.state = StateDragging
	return true
}

// Drag handles one drag-move sample at vertical position y. When another
// Item is hovered, the dragged Item is moved above it if y is above the
// hovered Item's midpoint and below it otherwise.
func (it *Item) Drag(y float64) {
	if it.state != StateDragging {
		return
	}
	over := it.parent.hovered
	if over == nil || over == it {
		return
	}
	if y < over.Midpoint() {
		it.MoveNextTo(over, Above)
	} else {
		it.MoveNextTo(over, Below)
	}
}

// DragEnd clears the detach transform and ends the drag, whether or not the
// Item moved.
func (it *Item) DragEnd() {
	it.element.SetTransform(ResetTransform)
	it.state = StateIdle
	it.dragTarget = nil
	it.parent.hovered = nil
}

// Drop triggers EventSorted on the Container.
func (it *Item) Drop() error {
	return it.parent.Trigger(EventSorted)
}

// MoveNextTo moves the Item directly above or below target in the live tree
// and recomputes the Container's orders. It reports whether anything
// changed; when the Item already sits in the requested position it does
// nothing.
func (it *Item) MoveNextTo(target *Item, where Placement) bool {
	if target == nil || target == it || target.parent != it.parent {
		return false
	}
	parent := target.element.Parent()
	if parent == nil {
		return false
	}

	switch where {
	case Above:
		if target.Prev() == it {
			return false
		}
		parent.InsertBefore(it.element, target.element)
	case Below:
		if target.Next() == it {
			return false
		}
		parent.InsertBefore(it.element, target.element.NextSibling())
	default:
		return false
	}

	it.parent.logger.Debug("move", "item", it.name, "where", string(where), "target", target.name)
	return it.parent.Reorder(it, target, where)
}
