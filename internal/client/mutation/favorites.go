package mutation

import (
	"slices"
	"sync"
)

// FavoriteSet is the local mirror of favorite product ids. It implements
// State[string].
type FavoriteSet struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

func NewFavoriteSet(ids ...string) *FavoriteSet {
	s := &FavoriteSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s *FavoriteSet) Get(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

func (s *FavoriteSet) Set(id string, value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value {
		s.ids[id] = struct{}{}
	} else {
		delete(s.ids, id)
	}
}

// IDs returns the members in ascending order.
func (s *FavoriteSet) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Snapshot copies the members for a merge.
func (s *FavoriteSet) Snapshot() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]struct{}, len(s.ids))
	for id := range s.ids {
		out[id] = struct{}{}
	}
	return out
}

// Replace swaps the members for ids from the server while keeping every
// pending optimistic value.
func (s *FavoriteSet) Replace(ids []string, pending map[string]bool) {
	next := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}
	for id, v := range pending {
		if v {
			next[id] = struct{}{}
		} else {
			delete(next, id)
		}
	}
	s.mu.Lock()
	s.ids = next
	s.mu.Unlock()
}

// Clear empties the set.
func (s *FavoriteSet) Clear() {
	s.Replace(nil, nil)
}
