package sortable

// Config holds the selectors a Container is built with.
type Config struct {
	// Items restricts which descendants of the root become Items.
	// Empty means the root's element children.
	Items string `json:"items,omitempty" toml:"items"`

	// Handle selects the sub-region of an Item a drag must start from.
	// Empty, or no match inside an Item, lets the whole Item start drags.
	Handle string `json:"handle,omitempty" toml:"handle"`

	// Name selects the element whose text labels an Item in logs.
	Name string `json:"name,omitempty" toml:"name"`

	// IDAttr names the attribute carrying an Item's external id.
	IDAttr string `json:"idAttr,omitempty" toml:"id_attr"`
}

// DefaultIDAttr is the attribute Snapshot keys on when none is configured.
const DefaultIDAttr = "data-id"

// DefaultConfig returns a Config that registers every element child.
func DefaultConfig() Config {
	return Config{IDAttr: DefaultIDAttr}
}

// TableConfig returns the configuration for admin tables: one Item per row,
// dragged by its ".drag-handle" cell and named by its second column.
func TableConfig() Config {
	return Config{
		Items:  "tr",
		Handle: ".drag-handle",
		Name:   "td:nth-child(2)",
		IDAttr: DefaultIDAttr,
	}
}
