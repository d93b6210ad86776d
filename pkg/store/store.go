// Package store persists the order of sortable entries.
//
// Entries are grouped by sortable type (the data-sortable-type of a
// container). A Store lists a type's entries by order and applies the
// id → order maps produced by drag sessions.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/vango-dev/sortable/internal/config"
	serrors "github.com/vango-dev/sortable/internal/errors"
)

var (
	// ErrUnknownType is returned for a sortable type with no entries.
	ErrUnknownType = errors.New("store: unknown sortable type")

	// ErrUnknownID is returned when a reorder names an id the type lacks.
	ErrUnknownID = errors.New("store: unknown id")
)

// Entry is one orderable record.
type Entry struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// Store persists entries per sortable type.
type Store interface {
	// List returns the entries of typ sorted by order, then id.
	List(ctx context.Context, typ string) ([]Entry, error)

	// Put creates or replaces an entry.
	Put(ctx context.Context, typ string, e Entry) error

	// Reorder sets the order of each listed id. Either every id is applied
	// or none is.
	Reorder(ctx context.Context, typ string, orders map[int]int) error

	Close() error
}

// Open creates the Store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", config.DriverMemory:
		return NewMemory(), nil
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.Path)
	case config.DriverRedis:
		return OpenRedis(ctx, cfg)
	case config.DriverS3:
		return OpenS3(cfg)
	default:
		return nil, serrors.New("E151").WithDetailf("%q", cfg.Driver)
	}
}

// sortEntries orders entries by Order, then ID.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Order != entries[j].Order {
			return entries[i].Order < entries[j].Order
		}
		return entries[i].ID < entries[j].ID
	})
}

// checkIDs reports the first id in orders that is missing from known.
func checkIDs(typ string, known map[int]bool, orders map[int]int) error {
	for id := range orders {
		if !known[id] {
			return fmt.Errorf("%w: %d in %q", ErrUnknownID, id, typ)
		}
	}
	return nil
}

func unknownType(typ string) error {
	return fmt.Errorf("%w: %q", ErrUnknownType, typ)
}
