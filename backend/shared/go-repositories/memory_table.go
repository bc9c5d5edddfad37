package repositories

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgconn"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

var (
	tagUpdated = pgconn.CommandTag("UPDATE 1")
	tagMissed  = pgconn.CommandTag("UPDATE 0")
)

/*
memoryTable is the in-process stand-in for a versioned SQL table. Rows are
cloned on the way in and out so callers never share memory with the store,
and UpdateIfVersion applies the same compare-and-swap rule as the
`WHERE row_version=$n` statements in the Postgres repositories.
*/
type memoryTable[T EntityWithVersion] struct {
	mu    sync.RWMutex
	rows  map[string]T
	order []string
	clone func(T) T
}

func newMemoryTable[T EntityWithVersion](clone func(T) T) *memoryTable[T] {
	return &memoryTable[T]{rows: make(map[string]T), clone: clone}
}

// insert adds e as a new row at version 1. clashes, when given, plays the
// part of a unique index on the other rows.
func (m *memoryTable[T]) insert(e T, clashes ...func(T) bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[e.GetID()]; ok {
		return fmt.Errorf("duplicate id %q: %w", e.GetID(), utils.ErrConflict)
	}
	for _, clash := range clashes {
		for _, row := range m.rows {
			if clash(row) {
				return fmt.Errorf("unique constraint on %q: %w", e.GetID(), utils.ErrConflict)
			}
		}
	}
	e.SetRowVersion(1)
	m.rows[e.GetID()] = m.clone(e)
	m.order = append(m.order, e.GetID())
	return nil
}

func (m *memoryTable[T]) get(_ context.Context, id string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.rows[id]
	if !ok {
		var zero T
		return zero, nil
	}
	return m.clone(row), nil
}

// list returns clones of every row accepted by keep, in insertion order.
func (m *memoryTable[T]) list(keep func(T) bool) []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []T
	for _, id := range m.order {
		row, ok := m.rows[id]
		if !ok {
			continue
		}
		if keep == nil || keep(row) {
			out = append(out, m.clone(row))
		}
	}
	return out
}

// find returns the first row accepted by keep.
func (m *memoryTable[T]) find(keep func(T) bool) T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.order {
		if row, ok := m.rows[id]; ok && keep(row) {
			return m.clone(row)
		}
	}
	var zero T
	return zero
}

func (m *memoryTable[T]) updateIfVersion(_ context.Context, e T, expected int64) (pgconn.CommandTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[e.GetID()]
	if !ok || cur.GetRowVersion() != expected {
		return tagMissed, nil
	}
	e.SetRowVersion(expected + 1)
	m.rows[e.GetID()] = m.clone(e)
	return tagUpdated, nil
}

// put overwrites without a version check (mirrors the unchecked Update).
func (m *memoryTable[T]) put(e T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[e.GetID()]
	if !ok {
		return fmt.Errorf("no row %q: %w", e.GetID(), utils.ErrNotFound)
	}
	e.SetRowVersion(cur.GetRowVersion() + 1)
	m.rows[e.GetID()] = m.clone(e)
	return nil
}
