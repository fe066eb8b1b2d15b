// Package store persists progress records with merge semantics and pushes
// per-learner snapshots to live subscribers.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/alexanderramin/ascent/internal/clock"
	"github.com/alexanderramin/ascent/internal/db"
	"github.com/alexanderramin/ascent/internal/domain"
	"github.com/alexanderramin/ascent/internal/logger"
	"github.com/alexanderramin/ascent/internal/repository"
	"github.com/google/uuid"
)

// ErrInvalidKey is returned for an empty learner or item id.
var ErrInvalidKey = errors.New("learner and item ids are required")

// Snapshot is the full set of a learner's stored records at one revision.
type Snapshot struct {
	LearnerID string
	Revision  string
	TakenAt   time.Time
	Records   []domain.ProgressRecord
}

// Lookup returns the stored record for itemID.
func (s Snapshot) Lookup(itemID string) (domain.ProgressRecord, bool) {
	for _, r := range s.Records {
		if r.ItemID == itemID {
			return r, true
		}
	}
	return domain.ProgressRecord{}, false
}

type Option func(*Store)

func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithSubscriberBuffer sets how many undelivered snapshots a subscriber may
// hold before the oldest is dropped. Defaults to 1.
func WithSubscriberBuffer(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.hub.capacity = n
		}
	}
}

// Store is safe for concurrent use. Writes for the same learner are
// serialized in-process so snapshots are published in commit order.
type Store struct {
	uow   db.UnitOfWork
	conn  db.DBTX
	clock clock.Clock
	locks keyedMutex
	hub   *hub
}

// New builds a store. conn serves reads outside transactions; it must not be
// used while a transaction from uow is open on a single-connection database.
func New(uow db.UnitOfWork, conn db.DBTX, opts ...Option) *Store {
	s := &Store{
		uow:   uow,
		conn:  conn,
		clock: clock.System{},
		locks: keyedMutex{locks: map[string]*keyLock{}},
		hub:   newHub(1),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// GetAll returns every stored record for the learner, ordered by item id.
func (s *Store) GetAll(ctx context.Context, learnerID string) ([]domain.ProgressRecord, error) {
	if learnerID == "" {
		return nil, ErrInvalidKey
	}
	return listRecords(ctx, repository.NewSQLProgressRepo(s.conn), learnerID)
}

// Get returns the stored record, or the default pending record on a miss.
func (s *Store) Get(ctx context.Context, learnerID, itemID string) (domain.ProgressRecord, error) {
	if learnerID == "" || itemID == "" {
		return domain.ProgressRecord{}, ErrInvalidKey
	}
	rec, err := repository.NewSQLProgressRepo(s.conn).Get(ctx, learnerID, itemID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NewPendingRecord(learnerID, itemID), nil
	}
	if err != nil {
		return domain.ProgressRecord{}, err
	}
	return *rec, nil
}

// Upsert merges patch into the stored record (creating it if absent) and
// returns the result. Subscribers for the learner receive a fresh snapshot
// after the write commits.
func (s *Store) Upsert(ctx context.Context, learnerID, itemID string, patch domain.ProgressPatch) (domain.ProgressRecord, error) {
	if learnerID == "" || itemID == "" {
		return domain.ProgressRecord{}, ErrInvalidKey
	}
	unlock := s.locks.Lock(learnerID)
	defer unlock()

	if patch.UpdatedAt.IsZero() {
		patch.UpdatedAt = s.clock.Now()
	}

	var merged domain.ProgressRecord
	var snap *Snapshot
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLProgressRepo(tx)
		existing, err := repo.Get(ctx, learnerID, itemID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			merged = domain.NewPendingRecord(learnerID, itemID)
		case err != nil:
			return err
		default:
			merged = *existing
		}
		merged.Apply(patch)
		if err := repo.Save(ctx, &merged); err != nil {
			return err
		}

		if !s.hub.has(learnerID) {
			return nil
		}
		records, err := listRecords(ctx, repo, learnerID)
		if err != nil {
			return err
		}
		snap = s.snapshot(learnerID, records)
		return nil
	})
	if err != nil {
		logger.Error("progress write failed", "learner", learnerID, "item", itemID, "err", err)
		return domain.ProgressRecord{}, fmt.Errorf("upserting %s/%s: %w", learnerID, itemID, err)
	}

	if snap != nil {
		s.hub.publish(*snap)
	}
	return merged, nil
}

// Subscribe delivers the learner's current snapshot immediately and a new
// one after every successful write. Only the newest undelivered snapshot is
// kept. The subscription ends on Close or when ctx is cancelled.
func (s *Store) Subscribe(ctx context.Context, learnerID string) (*Subscription, error) {
	if learnerID == "" {
		return nil, ErrInvalidKey
	}
	unlock := s.locks.Lock(learnerID)
	defer unlock()

	records, err := s.GetAll(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	sub := s.hub.subscribe(learnerID)
	sub.deliver(*s.snapshot(learnerID, records))

	subscription := &Subscription{
		Events: sub.ch,
		cancel: func() { s.hub.remove(learnerID, sub) },
	}
	go func() {
		select {
		case <-ctx.Done():
			subscription.Close()
		case <-sub.done:
		}
	}()
	return subscription, nil
}

func (s *Store) snapshot(learnerID string, records []domain.ProgressRecord) *Snapshot {
	return &Snapshot{
		LearnerID: learnerID,
		Revision:  uuid.NewString(),
		TakenAt:   s.clock.Now(),
		Records:   records,
	}
}

func listRecords(ctx context.Context, repo repository.ProgressRepo, learnerID string) ([]domain.ProgressRecord, error) {
	ptrs, err := repo.ListByLearner(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ProgressRecord, 0, len(ptrs))
	for _, p := range ptrs {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sync.Mutex
	refs int
}

// Lock acquires the mutex for key and returns its release func.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l := k.locks[key]
	if l == nil {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
