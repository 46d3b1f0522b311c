package mutation

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/client"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/metrics"
	"github.com/dmitrijs2005/fridgekeeper/internal/logging"
)

// ErrBusy rejects a mutation for an id that already has one in flight.
var ErrBusy = errors.New("mutation already in flight")

// RollbackError reports a failed remote call after the local state was
// restored.
type RollbackError struct {
	ID  string
	Err error
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("mutation of %s rolled back: %v", e.ID, e.Err)
}

func (e *RollbackError) Unwrap() error { return e.Err }

// State is the local boolean state a controller mutates.
type State[K comparable] interface {
	Get(id K) bool
	Set(id K, value bool)
}

// RemoteFunc confirms value for id with the backend.
type RemoteFunc[K comparable] func(ctx context.Context, id K, value bool) error

type Controller[K comparable] struct {
	state      State[K]
	log        logging.Logger
	onRollback func(*RollbackError)
	isMoot     func(error) bool

	mu       sync.Mutex
	inflight map[K]bool
}

type Option[K comparable] func(*Controller[K])

// WithRollbackHook registers fn to be called once per rollback.
func WithRollbackHook[K comparable](fn func(*RollbackError)) Option[K] {
	return func(c *Controller[K]) { c.onRollback = fn }
}

func WithLogger[K comparable](l logging.Logger) Option[K] {
	return func(c *Controller[K]) { c.log = l }
}

// WithMootCheck overrides how a remote error is recognised as "entity gone".
// The default is client.IsNotFound.
func WithMootCheck[K comparable](fn func(error) bool) Option[K] {
	return func(c *Controller[K]) { c.isMoot = fn }
}

func NewController[K comparable](state State[K], opts ...Option[K]) *Controller[K] {
	c := &Controller[K]{
		state:    state,
		log:      logging.Discard(),
		isMoot:   client.IsNotFound,
		inflight: map[K]bool{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Apply sets id to target locally, then calls remote. On remote failure the
// previous value is restored and a *RollbackError is returned.
func (c *Controller[K]) Apply(ctx context.Context, id K, target bool, remote RemoteFunc[K]) error {
	return c.run(ctx, id, func(bool) bool { return target }, remote)
}

// Toggle flips the current value of id.
func (c *Controller[K]) Toggle(ctx context.Context, id K, remote RemoteFunc[K]) error {
	return c.run(ctx, id, func(cur bool) bool { return !cur }, remote)
}

// Pending returns the optimistic value of id while a mutation is in flight.
func (c *Controller[K]) Pending(id K) (value bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok = c.inflight[id]
	return value, ok
}

// PendingAll returns a copy of every in-flight optimistic value.
func (c *Controller[K]) PendingAll() map[K]bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.inflight)
}

// Sync runs fn with the in-flight values while no mutation can start or
// settle. Use it to replace the local state with server data without losing
// optimistic values. fn must not call back into the controller.
func (c *Controller[K]) Sync(fn func(pending map[K]bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.inflight)
}

func (c *Controller[K]) run(ctx context.Context, id K, next func(cur bool) bool, remote RemoteFunc[K]) error {
	c.mu.Lock()
	if _, busy := c.inflight[id]; busy {
		c.mu.Unlock()
		metrics.MutationsTotal.WithLabelValues(metrics.ResultBusy).Inc()
		return ErrBusy
	}
	prev := c.state.Get(id)
	target := next(prev)
	c.inflight[id] = target
	c.state.Set(id, target)
	c.mu.Unlock()

	err := remote(ctx, id, target)

	c.mu.Lock()
	delete(c.inflight, id)
	var rerr *RollbackError
	switch {
	case err == nil:
		metrics.MutationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	case c.isMoot(err):
		metrics.MutationsTotal.WithLabelValues(metrics.ResultMoot).Inc()
		c.log.Info(ctx, "mutation moot, entity gone", "id", id)
	default:
		c.state.Set(id, prev)
		rerr = &RollbackError{ID: fmt.Sprint(id), Err: err}
		metrics.MutationsTotal.WithLabelValues(metrics.ResultRollback).Inc()
	}
	c.mu.Unlock()

	if rerr == nil {
		return nil
	}
	c.log.Warn(ctx, "mutation rolled back", "id", id, "err", err)
	if c.onRollback != nil {
		c.onRollback(rerr)
	}
	return rerr
}
