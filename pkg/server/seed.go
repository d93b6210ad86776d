package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sort"

	"github.com/vango-dev/sortable/internal/config"
	"github.com/vango-dev/sortable/pkg/store"
)

// Seed stores the configured entries of every type the store does not
// know yet. Types that already have entries are left alone, so restarts
// keep the orders users chose. Seeded orders follow the listed order.
func Seed(ctx context.Context, st store.Store, seeds map[string][]config.SeedEntry) error {
	logger := slog.Default().With("component", "seed")

	types := make([]string, 0, len(seeds))
	for typ := range seeds {
		types = append(types, typ)
	}
	sort.Strings(types)

	for _, typ := range types {
		_, err := st.List(ctx, typ)
		switch {
		case err == nil:
			logger.Debug("already seeded", "type", typ)
			continue
		case !stderrors.Is(err, store.ErrUnknownType):
			return err
		}

		for i, e := range seeds[typ] {
			if err := st.Put(ctx, typ, store.Entry{ID: e.ID, Name: e.Name, Order: i}); err != nil {
				return err
			}
		}
		logger.Info("seeded", "type", typ, "entries", len(seeds[typ]))
	}
	return nil
}
