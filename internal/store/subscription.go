package store

import "sync"

// Subscription is a live feed of one learner's snapshots.
type Subscription struct {
	Events <-chan Snapshot
	cancel func()
}

// Close ends the subscription and closes Events. Safe to call repeatedly.
func (s *Subscription) Close() {
	if s != nil && s.cancel != nil {
		s.cancel()
	}
}

type hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*subscriber]struct{}
	capacity    int
}

func newHub(capacity int) *hub {
	return &hub{
		subscribers: map[string]map[*subscriber]struct{}{},
		capacity:    capacity,
	}
}

func (h *hub) has(learnerID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[learnerID]) > 0
}

func (h *hub) subscribe(learnerID string) *subscriber {
	sub := &subscriber{
		ch:   make(chan Snapshot, h.capacity),
		done: make(chan struct{}),
	}
	h.mu.Lock()
	if h.subscribers[learnerID] == nil {
		h.subscribers[learnerID] = map[*subscriber]struct{}{}
	}
	h.subscribers[learnerID][sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *hub) publish(snap Snapshot) {
	h.mu.RLock()
	live := h.subscribers[snap.LearnerID]
	subs := make([]*subscriber, 0, len(live))
	for sub := range live {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		sub.deliver(snap)
	}
}

func (h *hub) remove(learnerID string, sub *subscriber) {
	h.mu.Lock()
	if subs := h.subscribers[learnerID]; subs != nil {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.subscribers, learnerID)
		}
	}
	h.mu.Unlock()
	sub.close()
}

type subscriber struct {
	mu     sync.Mutex
	ch     chan Snapshot
	done   chan struct{}
	closed bool
}

// deliver never blocks. When the buffer is full the oldest pending snapshot
// is dropped.
func (s *subscriber) deliver(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for {
		select {
		case s.ch <- snap:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
	close(s.done)
}
