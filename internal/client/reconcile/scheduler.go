package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/client"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/merge"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/metrics"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/models"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/mutation"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/overlay"
	"github.com/dmitrijs2005/fridgekeeper/internal/logging"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/singleflight"
)

// RetryPolicy bounds retries of transient fetch failures.
type RetryPolicy struct {
	Attempts uint
	Delay    time.Duration
}

var DefaultRetry = RetryPolicy{Attempts: 3, Delay: 300 * time.Millisecond}

// ErrSuperseded is returned by a refresh that was still running when Reset
// was called. Its result is discarded.
var ErrSuperseded = errors.New("refresh superseded by reset")

type Scheduler struct {
	remote     Fetcher
	categories *overlay.CategoryMap
	favorites  *mutation.FavoriteSet
	ctrl       *mutation.Controller[string]
	log        logging.Logger
	retry      RetryPolicy
	now        func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	snapshots map[Collection]Snapshot
	// gen counts resets; a fetch only lands if gen did not move meanwhile
	gen uint64

	subsMu sync.Mutex
	subs   map[uint64]*Subscription
	nextID uint64
}

func New(
	remote Fetcher,
	categories *overlay.CategoryMap,
	favorites *mutation.FavoriteSet,
	ctrl *mutation.Controller[string],
	log logging.Logger,
	retry RetryPolicy,
) *Scheduler {
	if retry.Attempts == 0 {
		retry.Attempts = 1
	}
	return &Scheduler{
		remote:     remote,
		categories: categories,
		favorites:  favorites,
		ctrl:       ctrl,
		log:        log,
		retry:      retry,
		now:        time.Now,
		snapshots:  map[Collection]Snapshot{},
		subs:       map[uint64]*Subscription{},
	}
}

// Refresh refetches coll. If a fetch for coll is already running the call
// waits for it instead of starting another. On failure the previous snapshot
// is returned, marked stale, together with the error.
//
// The shared fetch is detached from ctx so one caller giving up does not fail
// the others; ctx only bounds how long this caller waits.
//
// A call joining a running fetch gets that fetch's data, even if it was
// issued after a mutation settled that the running fetch started before. The
// favorites set then holds the older server membership until the next refresh.
// Fetches never cross a Reset: one started before it returns ErrSuperseded
// and leaves no trace, and calls after it start a fetch of their own.
func (s *Scheduler) Refresh(ctx context.Context, coll Collection, trigger Trigger) (Snapshot, error) {
	gen := s.generation()
	ch := s.group.DoChan(fmt.Sprintf("%d/%s", gen, coll), func() (any, error) {
		return s.refresh(context.WithoutCancel(ctx), gen, coll, trigger)
	})

	select {
	case res := <-ch:
		if res.Shared {
			metrics.RefreshesCoalesced.WithLabelValues(string(coll)).Inc()
		}
		snap := res.Val.(Snapshot)
		return snap, res.Err
	case <-ctx.Done():
		return s.Current(ctx, coll), ctx.Err()
	}
}

// Current returns the cached snapshot of coll re-merged with the current
// overlay, so optimistic changes made since the fetch are visible.
func (s *Scheduler) Current(ctx context.Context, coll Collection) Snapshot {
	s.mu.RLock()
	snap, ok := s.snapshots[coll]
	s.mu.RUnlock()
	if !ok {
		return Snapshot{Collection: coll}
	}
	snap.Views = s.merge(ctx, coll, snap.Products)
	return snap
}

// Views merges products obtained outside a refresh, such as a single
// product fetch, with the current overlay.
func (s *Scheduler) Views(ctx context.Context, products []models.Product) []models.ProductView {
	return s.merge(ctx, CollectionProducts, products)
}

// Reset drops every cached snapshot and the favorites working set, and
// invalidates fetches still in flight. Used on logout.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	s.gen++
	s.snapshots = map[Collection]Snapshot{}
	s.favorites.Clear()
	s.mu.Unlock()
}

func (s *Scheduler) generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

func (s *Scheduler) refresh(ctx context.Context, gen uint64, coll Collection, trigger Trigger) (Snapshot, error) {
	log := s.log.With("collection", string(coll), "trigger", trigger.String())

	res, err := s.fetch(ctx, coll)

	// everything below runs under mu so a concurrent Reset either happens
	// before the check or after the result has landed
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		log.Debug(ctx, "dropping refresh result after reset")
		return Snapshot{Collection: coll}, ErrSuperseded
	}

	if err != nil {
		metrics.RefreshesTotal.WithLabelValues(string(coll), metrics.ResultStale).Inc()
		log.Warn(ctx, "refresh failed, keeping previous data", "err", err)

		prev := s.snapshots[coll]
		prev.Collection = coll
		prev.Stale = true
		prev.Err = err
		s.snapshots[coll] = prev
		s.mu.Unlock()

		prev.Views = s.merge(ctx, coll, prev.Products)
		s.publish(prev)
		return prev, err
	}

	if res.hasFavorites {
		s.replaceFavorites(res.favorites)
	}
	if res.full {
		s.pruneCategories(ctx, res.snap.Products)
	}
	snap := res.snap
	s.snapshots[coll] = snap
	s.mu.Unlock()

	metrics.RefreshesTotal.WithLabelValues(string(coll), metrics.ResultOK).Inc()
	log.Debug(ctx, "refresh done", "items", len(snap.Products))

	snap.Views = s.merge(ctx, coll, snap.Products)
	s.publish(snap)
	return snap, nil
}

// fetchResult is what a fetch learned. Side effects on shared state are
// applied by refresh once the result is known to be current.
type fetchResult struct {
	snap         Snapshot
	favorites    []models.Product
	hasFavorites bool
	// full marks the unfiltered product list, the only one fit for pruning
	full bool
}

func (s *Scheduler) fetch(ctx context.Context, coll Collection) (fetchResult, error) {
	res := fetchResult{snap: Snapshot{Collection: coll}}

	switch coll {
	case CollectionProducts:
		var (
			products []models.Product
			favs     []models.Product
			places   []models.StoragePlace
		)
		p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
		p.Go(func(ctx context.Context) (err error) {
			products, err = s.list(ctx, client.ProductQuery{})
			return err
		})
		p.Go(func(ctx context.Context) (err error) {
			favs, err = s.list(ctx, client.ProductQuery{FavoritesOnly: true})
			return err
		})
		p.Go(func(ctx context.Context) error {
			var err error
			places, err = withRetry(ctx, s.retry, func() ([]models.StoragePlace, error) {
				return s.remote.ListStoragePlaces(ctx)
			})
			if err != nil {
				// storage places only label rows; keep the last known ones
				s.log.Warn(ctx, "storage places unavailable", "err", err)
				places = s.cachedPlaces()
			}
			return nil
		})
		if err := p.Wait(); err != nil {
			return fetchResult{}, err
		}

		res.favorites, res.hasFavorites, res.full = favs, true, true
		res.snap.Products, res.snap.StoragePlaces = products, places

	case CollectionFavorites:
		favs, err := s.list(ctx, client.ProductQuery{FavoritesOnly: true})
		if err != nil {
			return fetchResult{}, err
		}
		res.favorites, res.hasFavorites = favs, true
		res.snap.Products = favs

	case CollectionExpiring:
		soon, err := s.list(ctx, client.ProductQuery{ExpiringSoon: true})
		if err != nil {
			return fetchResult{}, err
		}
		res.snap.Products = soon

	default:
		return fetchResult{}, fmt.Errorf("unknown collection %q", coll)
	}

	res.snap.FetchedAt = s.now()
	return res, nil
}

func (s *Scheduler) list(ctx context.Context, q client.ProductQuery) ([]models.Product, error) {
	return withRetry(ctx, s.retry, func() ([]models.Product, error) {
		return s.remote.ListProducts(ctx, q)
	})
}

func withRetry[T any](ctx context.Context, p RetryPolicy, fn func() (T, error)) (T, error) {
	return retry.DoWithData(fn,
		retry.Context(ctx),
		retry.Attempts(p.Attempts),
		retry.Delay(p.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(client.IsTransient),
		retry.LastErrorOnly(true),
	)
}

func (s *Scheduler) replaceFavorites(favs []models.Product) {
	ids := make([]string, len(favs))
	for i, p := range favs {
		ids[i] = p.ID
	}
	s.ctrl.Sync(func(pending map[string]bool) {
		s.favorites.Replace(ids, pending)
	})
}

// pruneCategories drops assignments of products the server no longer has.
// Only a full product list is authoritative enough for that.
func (s *Scheduler) pruneCategories(ctx context.Context, products []models.Product) {
	live := make(map[string]struct{}, len(products))
	for _, p := range products {
		live[p.ID] = struct{}{}
	}
	n, err := s.categories.Prune(ctx, live)
	if err != nil {
		s.log.Warn(ctx, "category prune failed", "err", err)
		return
	}
	if n > 0 {
		s.log.Debug(ctx, "pruned category assignments", "removed", n)
	}
}

func (s *Scheduler) cachedPlaces() []models.StoragePlace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshots[CollectionProducts].StoragePlaces
}

func (s *Scheduler) merge(ctx context.Context, coll Collection, products []models.Product) []models.ProductView {
	ov := merge.Overlay{
		Categories: s.categories.All(ctx),
		Favorites:  s.favorites.Snapshot(),
		Pending:    s.ctrl.PendingAll(),
		Now:        s.now(),
	}
	if coll == CollectionFavorites {
		ov.Source = merge.SourceFavorites
	}
	return merge.Merge(products, ov)
}
