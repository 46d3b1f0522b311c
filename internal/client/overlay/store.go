package overlay

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/fridgekeeper/internal/logging"
)

// Store wraps a kv.Store with JSON documents and per-key write locks.
type Store struct {
	kv    kv.Store
	log   logging.Logger
	locks keyLocks
}

func New(store kv.Store, log logging.Logger) *Store {
	return &Store{kv: store, log: log, locks: keyLocks{m: map[string]*keyLock{}}}
}

// GetDocument loads key into a T. A missing key, a storage failure or
// unparsable JSON all yield the zero T and false.
func GetDocument[T any](ctx context.Context, s *Store, key string) (T, bool) {
	return getDocument[T](ctx, s, key)
}

// PutDocument replaces the document under key.
func PutDocument[T any](ctx context.Context, s *Store, key string, value T) error {
	unlock := s.locks.lock(key)
	defer unlock()
	return putDocument(ctx, s, key, value)
}

// Update runs a read-modify-write of the document under key while holding
// its lock. fn receives the current value (zero if absent) and returns the
// new one.
func Update[T any](ctx context.Context, s *Store, key string, fn func(cur T, found bool) (T, error)) error {
	unlock := s.locks.lock(key)
	defer unlock()

	cur, found := getDocument[T](ctx, s, key)
	next, err := fn(cur, found)
	if err != nil {
		return err
	}
	return putDocument(ctx, s, key, next)
}

// MergeMapEntry sets entryKey in the map document under key, creating the
// map if needed.
func MergeMapEntry[V any](ctx context.Context, s *Store, key, entryKey string, value V) error {
	return Update(ctx, s, key, func(m map[string]V, _ bool) (map[string]V, error) {
		if m == nil {
			m = make(map[string]V, 1)
		}
		m[entryKey] = value
		return m, nil
	})
}

// DeleteMapEntries removes entryKeys from the map document under key.
func DeleteMapEntries[V any](ctx context.Context, s *Store, key string, entryKeys ...string) error {
	if len(entryKeys) == 0 {
		return nil
	}
	return Update(ctx, s, key, func(m map[string]V, _ bool) (map[string]V, error) {
		if m == nil {
			m = map[string]V{}
		}
		for _, k := range entryKeys {
			delete(m, k)
		}
		return m, nil
	})
}

// PruneMap drops every entry of the map document under key for which keep
// returns false, and reports how many were removed. Nothing is written when
// nothing changes.
func PruneMap[V any](ctx context.Context, s *Store, key string, keep func(entryKey string) bool) (int, error) {
	unlock := s.locks.lock(key)
	defer unlock()

	m, found := getDocument[map[string]V](ctx, s, key)
	if !found {
		return 0, nil
	}
	removed := 0
	for k := range m {
		if !keep(k) {
			delete(m, k)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, putDocument(ctx, s, key, m)
}

// RemoveDocument deletes key. Removing a missing key is not an error.
func (s *Store) RemoveDocument(ctx context.Context, key string) error {
	unlock := s.locks.lock(key)
	defer unlock()

	if err := s.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to remove overlay %s: %w", key, err)
	}
	return nil
}

// RemoveNamespace deletes every key starting with prefix.
func (s *Store) RemoveNamespace(ctx context.Context, prefix string) error {
	if prefix == "" {
		return fmt.Errorf("refusing to remove empty namespace")
	}
	keys, err := s.kv.Keys(ctx, prefix)
	if err != nil {
		return fmt.Errorf("failed to list overlay namespace %s: %w", prefix, err)
	}
	if err := s.kv.DeleteMany(ctx, keys...); err != nil {
		return fmt.Errorf("failed to remove overlay namespace %s: %w", prefix, err)
	}
	return nil
}

// GetString reads a plain (non-JSON) value.
func (s *Store) GetString(ctx context.Context, key string) string {
	v, _, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.Warn(ctx, "overlay read failed", "key", key, "err", err)
		return ""
	}
	return v
}

// PutString writes a plain value; an empty value removes the key.
func (s *Store) PutString(ctx context.Context, key, value string) error {
	unlock := s.locks.lock(key)
	defer unlock()

	var err error
	if value == "" {
		err = s.kv.Delete(ctx, key)
	} else {
		err = s.kv.Set(ctx, key, value)
	}
	if err != nil {
		return fmt.Errorf("failed to write overlay %s: %w", key, err)
	}
	return nil
}

func getDocument[T any](ctx context.Context, s *Store, key string) (T, bool) {
	var zero T

	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.Warn(ctx, "overlay read failed", "key", key, "err", err)
		return zero, false
	}
	if !ok || raw == "" {
		return zero, false
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.log.Warn(ctx, "overlay document corrupted, using default", "key", key, "err", err)
		return zero, false
	}
	return v, true
}

func putDocument[T any](ctx context.Context, s *Store, key string, value T) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode overlay %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("failed to write overlay %s: %w", key, err)
	}
	return nil
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// keyLocks hands out one mutex per key and forgets it when unused.
type keyLocks struct {
	mu sync.Mutex
	m  map[string]*keyLock
}

func (l *keyLocks) lock(key string) (unlock func()) {
	l.mu.Lock()
	kl, ok := l.m[key]
	if !ok {
		kl = &keyLock{}
		l.m[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	kl.mu.Lock()
	return func() {
		kl.mu.Unlock()
		l.mu.Lock()
		kl.refs--
		if kl.refs == 0 {
			delete(l.m, key)
		}
		l.mu.Unlock()
	}
}
