package store

import (
	"context"
	"sync"
)

// Memory is an in-process Store.
type Memory struct {
	mu    sync.RWMutex
	types map[string]map[int]Entry
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{types: make(map[string]map[int]Entry)}
}

// List implements Store.
func (m *Memory) List(ctx context.Context, typ string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries, ok := m.types[typ]
	if !ok || len(entries) == 0 {
		return nil, unknownType(typ)
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e)
	}
	sortEntries(out)
	return out, nil
}

// Put implements Store.
func (m *Memory) Put(ctx context.Context, typ string, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, ok := m.types[typ]
	if !ok {
		entries = make(map[int]Entry)
		m.types[typ] = entries
	}
	entries[e.ID] = e
	return nil
}

// Reorder implements Store.
func (m *Memory) Reorder(ctx context.Context, typ string, orders map[int]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, ok := m.types[typ]
	if !ok || len(entries) == 0 {
		return unknownType(typ)
	}
	known := make(map[int]bool, len(entries))
	for id := range entries {
		known[id] = true
	}
	if err := checkIDs(typ, known, orders); err != nil {
		return err
	}
	for id, order := range orders {
		e := entries[id]
		e.Order = order
		entries[id] = e
	}
	return nil
}

// Close implements Store.
func (m *Memory) Close() error { return nil }
