package sortable

import (
	"context"

	"github.com/vango-dev/sortable/internal/errors"
)

// EventKind names a pointer or drag event.
type EventKind string

const (
	EventPointerDown EventKind = "pointerdown"
	EventDragStart   EventKind = "dragstart"
	EventDrag        EventKind = "drag"
	EventDragOver    EventKind = "dragover"
	EventDragEnd     EventKind = "dragend"
	EventDrop        EventKind = "drop"
)

// Valid reports whether k is one of the known kinds.
func (k EventKind) Valid() bool {
	switch k {
	case EventPointerDown, EventDragStart, EventDrag, EventDragOver, EventDragEnd, EventDrop:
		return true
	}
	return false
}

// Event is one pointer or drag sample.
type Event struct {
	Kind EventKind

	// Target is the node the event fired on.
	Target Node

	// Y is the pointer's vertical position, used by EventDrag.
	Y float64
}

// EventSource delivers events in the order they happened.
type EventSource interface {
	Next(ctx context.Context) (Event, error)
}

// Dispatch routes ev to the Item that owns its target. Dragover updates the
// hovered Item; events outside every Item are ignored. The only error
// Dispatch passes through from the engine is a failing listener on drop.
func (c *Container) Dispatch(ev Event) error {
	if !ev.Kind.Valid() {
		return errors.New("E142").WithDetailf("%q", ev.Kind)
	}
	if ev.Kind == EventDragOver {
		c.DragOver(ev.Target)
		return nil
	}

	it := c.FindChild(ev.Target)
	if it == nil {
		return nil
	}

	switch ev.Kind {
	case EventPointerDown:
		it.PointerDown(ev.Target)
	case EventDragStart:
		if !it.DragStart() {
			c.logger.Debug("drag vetoed", "item", it.name)
		}
	case EventDrag:
		it.Drag(ev.Y)
	case EventDragEnd:
		it.DragEnd()
	case EventDrop:
		return it.Drop()
	}
	return nil
}

// Run dispatches events from src one at a time until src fails or ctx is
// done. Listener errors are logged and do not stop the loop.
func (c *Container) Run(ctx context.Context, src EventSource) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev, err := src.Next(ctx)
		if err != nil {
			return err
		}
		if err := c.Dispatch(ev); err != nil {
			c.logger.Warn("dispatch failed", "event", string(ev.Kind), "error", err)
		}
	}
}
