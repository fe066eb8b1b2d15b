package service

import (
	"context"
	"sync"

	"github.com/alexanderramin/ascent/internal/domain"
	"github.com/alexanderramin/ascent/internal/store"
)

// Tracker is a client-side view of one learner's item statuses. Toggles are
// shown immediately as overrides; every authoritative snapshot replaces the
// records and drops all overrides, and a failed write drops its override
// right away.
type Tracker struct {
	mu        sync.Mutex
	progress  ProgressService
	learnerID string
	signals   domain.Signals
	source    recordSource
	overrides map[string]domain.ItemStatus
	revision  string
}

func NewTracker(progress ProgressService, learnerID string, signals domain.Signals) *Tracker {
	return &Tracker{
		progress:  progress,
		learnerID: learnerID,
		signals:   signals,
		source:    newRecordSource(nil, signals),
		overrides: make(map[string]domain.ItemStatus),
	}
}

// Reconcile adopts snap as the authoritative state.
func (t *Tracker) Reconcile(snap store.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.source = newRecordSource(snap.Records, t.signals)
	t.revision = snap.Revision
	clear(t.overrides)
}

// Revision is the revision of the last reconciled snapshot.
func (t *Tracker) Revision() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.revision
}

// Pending reports whether itemID shows an unconfirmed override.
func (t *Tracker) Pending(itemID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.overrides[itemID]
	return ok
}

func (t *Tracker) ItemStatus(itemID string) domain.ItemStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.overrides[itemID]; ok {
		return s
	}
	return t.source.ItemStatus(itemID)
}

func (t *Tracker) Signal(key domain.SignalKey) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.signals[key]
}

// Toggle flips itemID between completed and pending and returns the status
// now shown.
func (t *Tracker) Toggle(ctx context.Context, itemID string) (domain.ItemStatus, error) {
	current := t.ItemStatus(itemID)
	target := domain.ItemCompleted
	if current == domain.ItemCompleted {
		target = domain.ItemPending
	}

	t.mu.Lock()
	t.overrides[itemID] = target
	t.mu.Unlock()

	var err error
	if target == domain.ItemCompleted {
		_, err = t.progress.Complete(ctx, t.learnerID, itemID)
	} else {
		_, err = t.progress.Uncomplete(ctx, t.learnerID, itemID)
	}
	if err != nil {
		t.mu.Lock()
		if t.overrides[itemID] == target {
			delete(t.overrides, itemID)
		}
		t.mu.Unlock()
		return t.ItemStatus(itemID), err
	}
	return target, nil
}
