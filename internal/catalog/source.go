// Package catalog resolves which action items are scheduled for a learner's
// current unit of the program.
package catalog

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/alexanderramin/ascent/internal/domain"
)

// ErrNoDay is returned by a Source when nothing is scheduled for a DB day.
var ErrNoDay = errors.New("no catalog day scheduled")

// Source is the read-only content catalog.
type Source interface {
	Day(ctx context.Context, dbDay int) (*domain.CatalogDay, error)
}

// MemorySource is an in-memory catalog keyed by DB day.
type MemorySource struct {
	mu   sync.RWMutex
	days map[int]domain.CatalogDay
}

func NewMemorySource(days ...domain.CatalogDay) *MemorySource {
	m := &MemorySource{days: make(map[int]domain.CatalogDay, len(days))}
	for _, d := range days {
		m.days[d.DBDay] = d
	}
	return m
}

// Put adds or replaces a day.
func (m *MemorySource) Put(day domain.CatalogDay) {
	m.mu.Lock()
	m.days[day.DBDay] = day
	m.mu.Unlock()
}

func (m *MemorySource) Day(_ context.Context, dbDay int) (*domain.CatalogDay, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.days[dbDay]
	if !ok {
		return nil, ErrNoDay
	}
	actions := make([]domain.CatalogAction, len(d.Actions))
	copy(actions, d.Actions)
	d.Actions = actions
	return &d, nil
}

// DBDays returns the scheduled DB days in ascending order.
func (m *MemorySource) DBDays() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]int, 0, len(m.days))
	for d := range m.days {
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}
