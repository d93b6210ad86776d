package sortable

// EventSorted is triggered when an Item is dropped.
const EventSorted = "sorted"

// Listener handles a triggered event. A non-nil error stops the dispatch.
type Listener func(event string, c *Container) error

// On registers fn for event and returns c for chaining.
func (c *Container) On(event string, fn Listener) *Container {
	if fn == nil {
		return c
	}
	c.listeners[event] = append(c.listeners[event], fn)
	return c
}

// Trigger calls the listeners registered for event synchronously, in
// registration order. The first listener error aborts the remaining
// listeners and is returned.
func (c *Container) Trigger(event string) error {
	for _, fn := range c.listeners[event] {
		if err := fn(event, c); err != nil {
			return err
		}
	}
	return nil
}

// Listeners returns how many listeners are registered for event.
func (c *Container) Listeners(event string) int {
	return len(c.listeners[event])
}
