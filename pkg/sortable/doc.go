// Package sortable implements drag-to-reorder for an ordered set of items
// living in a visual tree.
//
// A Container is built over a root node. Each matching descendant becomes an
// Item with an integer order; the orders always form the permutation 0..N-1.
// As a drag progresses the dragged Item is moved next to the hovered Item in
// the live tree and the Container recomputes every order. Dropping triggers
// the "sorted" event:
//
//	c, err := sortable.New(doc.Root(),
//	    sortable.WithItems("tr"),
//	    sortable.WithHandle(".drag-handle"),
//	)
//	c.On(sortable.EventSorted, func(event string, c *sortable.Container) error {
//	    return save(c.Snapshot("data-id"))
//	})
//
// The package never touches a concrete UI toolkit; it drives any tree that
// implements Node. Pointer and drag input arrives as Event values, either
// through Dispatch or from an EventSource consumed by Run.
//
// A Container is not safe for concurrent use. All events for one Container
// must be delivered from a single goroutine, in order.
package sortable
