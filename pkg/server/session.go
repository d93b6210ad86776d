package server

import (
	"context"

	"github.com/vango-dev/sortable/internal/errors"
	"github.com/vango-dev/sortable/pkg/dom"
	"github.com/vango-dev/sortable/pkg/sortable"
)

// newSession builds the live model of a drag session from the stored
// entries and attaches the persistence listener.
func (s *Server) newSession(ctx context.Context, typ string) (*dom.Document, *sortable.Container, error) {
	entries, err := s.store.List(ctx, typ)
	if err != nil {
		return nil, nil, storeError(err, typ)
	}

	doc := s.buildDocument(typ, entries)
	root, err := doc.Find(RootSelector)
	if err != nil {
		return nil, nil, err
	}

	c, err := sortable.New(root,
		sortable.WithConfig(s.config.Sortable),
		sortable.WithLogger(s.logger.With("type", typ)),
	)
	if err != nil {
		return nil, nil, errors.FromError(err, "E110")
	}
	c.On(sortable.EventSorted, s.persist.Listener())
	return doc, c, nil
}
