package sortable

import (
	"log/slog"

	"github.com/vango-dev/sortable/internal/errors"
)

// Placement says on which side of a target the dragged Item lands.
type Placement string

const (
	Above Placement = "above"
	Below Placement = "below"
)

// Valid reports whether p is Above or Below.
func (p Placement) Valid() bool {
	return p == Above || p == Below
}

// Container owns the Items under a root node and keeps their orders
// consistent while they are dragged around.
type Container struct {
	root      Node
	items     []*Item
	hovered   *Item
	listeners map[string][]Listener
	config    Config
	logger    *slog.Logger
}

// Option configures a Container.
type Option func(*Container)

// WithConfig replaces the whole selector configuration.
func WithConfig(cfg Config) Option {
	return func(c *Container) {
		if cfg.IDAttr == "" {
			cfg.IDAttr = DefaultIDAttr
		}
		c.config = cfg
	}
}

// WithItems sets the selector for descendants that become Items.
func WithItems(selector string) Option {
	return func(c *Container) {
		c.config.Items = selector
	}
}

// WithHandle sets the drag handle selector.
func WithHandle(selector string) Option {
	return func(c *Container) {
		c.config.Handle = selector
	}
}

// WithName sets the selector of the element naming each Item.
func WithName(selector string) Option {
	return func(c *Container) {
		c.config.Name = selector
	}
}

// WithLogger sets the logger used for move diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a Container over root. Items are registered in traversal order
// and given the orders 0..N-1.
func New(root Node, opts ...Option) (*Container, error) {
	if root == nil {
		return nil, errors.New("E111")
	}

	c := &Container{
		root:      root,
		listeners: make(map[string][]Listener),
		config:    DefaultConfig(),
		logger:    slog.Default().With("component", "sortable"),
	}
	for _, opt := range opts {
		opt(c)
	}

	var elements []Node
	if c.config.Items != "" {
		found, err := root.QueryAll(c.config.Items)
		if err != nil {
			return nil, errors.New("E110").WithDetailf("items selector %q", c.config.Items).Wrap(err)
		}
		elements = found
	} else {
		elements = root.Children()
	}

	c.items = make([]*Item, 0, len(elements))
	for i, el := range elements {
		it, err := newItem(c, i, el)
		if err != nil {
			return nil, errors.New("E110").WithDetailf("handle %q or name %q", c.config.Handle, c.config.Name).Wrap(err)
		}
		c.items = append(c.items, it)
	}

	c.logger.Debug("container built", "type", c.Type(), "items", len(c.items))
	return c, nil
}

// Root returns the node the Container was built over.
func (c *Container) Root() Node { return c.root }

// Config returns the selector configuration.
func (c *Container) Config() Config { return c.config }

// Type returns the container's data-sortable-type tag.
func (c *Container) Type() string { return c.root.Attr("data-sortable-type") }

// Len returns the number of Items.
func (c *Container) Len() int { return len(c.items) }

// Items returns the Items in construction order.
func (c *Container) Items() []*Item {
	out := make([]*Item, len(c.items))
	copy(out, c.items)
	return out
}

// Hovered returns the Item under the pointer during a drag, if any.
func (c *Container) Hovered() *Item { return c.hovered }

// FindChild returns the Item whose element contains node, or nil when node
// is outside the Container or not inside any Item.
func (c *Container) FindChild(node Node) *Item {
	if node == nil || !c.root.Contains(node) {
		return nil
	}
	for _, it := range c.items {
		if it.element.Contains(node) {
			return it
		}
	}
	return nil
}

// DragOver records the Item under target as hovered. It reports whether a
// drop there should be accepted.
func (c *Container) DragOver(target Node) bool {
	c.hovered = c.FindChild(target)
	return c.hovered != nil
}

// Reorder gives dragged the rank directly above or below target and shifts
// the other Items so the orders stay the permutation 0..N-1. Items are
// scanned in construction order; the gap at dragged's old rank is closed and
// a new rank is opened at the target. Placing Above takes the target's rank
// and pushes the target down one; placing Below takes the rank after the
// target and does not push it. Closing the gap also moves the target up one
// when dragged started before it, so Below leaves the target's rank alone
// only when dragged came after it.
//
// Reorder reports false and changes nothing for an invalid placement, for
// Items from another Container, or when dragged is target.
func (c *Container) Reorder(dragged, target *Item, where Placement) bool {
	if !where.Valid() || dragged == nil || target == nil || dragged == target {
		return false
	}
	if dragged.parent != c || target.parent != c {
		return false
	}

	from := dragged.order
	rank := target.order
	if rank > from {
		rank--
	}
	if where == Below {
		rank++
	}

	for _, it := range c.items {
		if it == dragged {
			continue
		}
		o := it.order
		if o > from {
			o--
		}
		if o >= rank {
			o++
		}
		it.order = o
	}
	dragged.order = rank
	return true
}

// Snapshot maps each Item's attr value to its order. Items without the
// attribute are left out. An empty attr uses the configured IDAttr.
func (c *Container) Snapshot(attr string) map[string]int {
	if attr == "" {
		attr = c.config.IDAttr
	}
	out := make(map[string]int, len(c.items))
	for _, it := range c.items {
		id := it.element.Attr(attr)
		if id == "" {
			c.logger.Debug("item without id", "item", it.name, "attr", attr)
			continue
		}
		out[id] = it.order
	}
	return out
}
