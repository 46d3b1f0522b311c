package reconcile

import "sync"

// Subscription delivers snapshots to one listener until closed.
type Subscription struct {
	s  *Scheduler
	id uint64
	fn func(Snapshot)

	mu     sync.Mutex
	closed bool
}

// Subscribe registers fn for every refresh result, stale ones included. fn
// runs on the refreshing goroutine and must not call Close on its own
// subscription.
func (s *Scheduler) Subscribe(fn func(Snapshot)) *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	s.nextID++
	sub := &Subscription{s: s, id: s.nextID, fn: fn}
	s.subs[sub.id] = sub
	return sub
}

// Close stops delivery. Once Close returns fn is not running and will not be
// called again.
func (sub *Subscription) Close() {
	sub.mu.Lock()
	sub.closed = true
	sub.mu.Unlock()

	sub.s.subsMu.Lock()
	delete(sub.s.subs, sub.id)
	sub.s.subsMu.Unlock()
}

func (sub *Subscription) deliver(snap Snapshot) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return
	}
	sub.fn(snap)
}

func (s *Scheduler) publish(snap Snapshot) {
	s.subsMu.Lock()
	subs := make([]*Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.subsMu.Unlock()

	for _, sub := range subs {
		sub.deliver(snap)
	}
}
