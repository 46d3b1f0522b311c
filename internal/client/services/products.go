package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/client"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/merge"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/models"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/mutation"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/reconcile"
)

// ProductList is one filtered, merged view of a collection.
type ProductList struct {
	Views []models.ProductView
	// Stale is set when the refresh failed and Views come from the last
	// successful fetch.
	Stale bool
}

// BatchItem is one row of a batch create together with its local category.
type BatchItem struct {
	Input      models.ProductInput
	CategoryID int
}

type ProductService interface {
	// List refreshes coll and returns the filtered views. On refresh failure
	// the last known views are returned with Stale set, alongside the error.
	List(ctx context.Context, coll reconcile.Collection, f merge.Filter, trigger reconcile.Trigger) (ProductList, error)
	// Cached filters the last snapshot of coll without touching the network.
	Cached(ctx context.Context, coll reconcile.Collection, f merge.Filter) ProductList
	Get(ctx context.Context, id string) (models.ProductView, error)
	Create(ctx context.Context, in models.ProductInput, categoryID int) (models.Product, error)
	CreateBatch(ctx context.Context, items []BatchItem) ([]models.Product, error)
	Update(ctx context.Context, id string, in models.ProductInput, categoryID int) error
	Delete(ctx context.Context, id string) error
	// ToggleFavorite flips the favorite flag optimistically and returns the
	// value in effect once the remote call settled.
	ToggleFavorite(ctx context.Context, id string) (bool, error)
	StoragePlaces(ctx context.Context) ([]models.StoragePlace, error)
}

type productService struct {
	d *Deps
}

func NewProductService(d *Deps) ProductService {
	return &productService{d: d}
}

func (s *productService) List(ctx context.Context, coll reconcile.Collection, f merge.Filter, trigger reconcile.Trigger) (ProductList, error) {
	snap, err := s.d.Scheduler.Refresh(ctx, coll, trigger)
	return ProductList{Views: merge.Apply(snap.Views, f), Stale: snap.Stale}, err
}

func (s *productService) Cached(ctx context.Context, coll reconcile.Collection, f merge.Filter) ProductList {
	snap := s.d.Scheduler.Current(ctx, coll)
	return ProductList{Views: merge.Apply(snap.Views, f), Stale: snap.Stale}
}

func (s *productService) Get(ctx context.Context, id string) (models.ProductView, error) {
	p, err := s.d.Client.GetProduct(ctx, id)
	if err != nil {
		return models.ProductView{}, err
	}
	return s.d.Scheduler.Views(ctx, []models.Product{p})[0], nil
}

func (s *productService) Create(ctx context.Context, in models.ProductInput, categoryID int) (models.Product, error) {
	if err := s.checkProduct(in, categoryID); err != nil {
		return models.Product{}, err
	}

	p, err := s.d.Client.CreateProduct(ctx, in)
	if err != nil {
		return models.Product{}, fmt.Errorf("create error: %w", err)
	}
	if p.ID == "" {
		created, err := s.lastCreated(ctx, 1)
		if err != nil {
			return models.Product{}, err
		}
		if len(created) == 1 {
			p = created[0]
		}
	}

	if categoryID != 0 && p.ID != "" {
		if err := s.d.categories.Assign(ctx, p.ID, categoryID); err != nil {
			s.d.Log.Warn(ctx, "category not saved", "id", p.ID, "err", err)
		}
	}
	s.refresh(ctx, reconcile.CollectionProducts)
	return p, nil
}

// CreateBatch creates items in one call. Category assignments are keyed by
// the ids the backend returns; when it does not return one row per item the
// newest rows of a full refetch are used, in the same order.
func (s *productService) CreateBatch(ctx context.Context, items []BatchItem) ([]models.Product, error) {
	if len(items) == 0 {
		return []models.Product{}, nil
	}
	inputs := make([]models.ProductInput, len(items))
	for i, it := range items {
		if err := s.checkProduct(it.Input, it.CategoryID); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		inputs[i] = it.Input
	}

	created, err := s.d.Client.CreateProducts(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("batch create error: %w", err)
	}
	if len(created) != len(items) {
		s.d.Log.Debug(ctx, "batch response without rows, matching by refetch", "returned", len(created))
		if created, err = s.lastCreated(ctx, len(items)); err != nil {
			return nil, err
		}
	}

	assign := make(map[string]int, len(created))
	for i, p := range created {
		if c := items[i].CategoryID; c != 0 && p.ID != "" {
			assign[p.ID] = c
		}
	}
	if err := s.d.categories.AssignMany(ctx, assign); err != nil {
		s.d.Log.Warn(ctx, "categories not saved", "err", err)
	}
	s.refresh(ctx, reconcile.CollectionProducts)
	return created, nil
}

// lastCreated returns up to n newest products of the full list.
func (s *productService) lastCreated(ctx context.Context, n int) ([]models.Product, error) {
	all, err := s.d.Client.ListProducts(ctx, client.ProductQuery{})
	if err != nil {
		return nil, fmt.Errorf("refetch after create error: %w", err)
	}
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all, nil
}

func (s *productService) Update(ctx context.Context, id string, in models.ProductInput, categoryID int) error {
	if err := s.checkProduct(in, categoryID); err != nil {
		return err
	}
	if err := s.d.Client.UpdateProduct(ctx, id, in); err != nil {
		return fmt.Errorf("update error: %w", err)
	}
	if categoryID != 0 {
		if err := s.d.categories.Assign(ctx, id, categoryID); err != nil {
			s.d.Log.Warn(ctx, "category not saved", "id", id, "err", err)
		}
	}
	s.refresh(ctx, reconcile.CollectionProducts)
	return nil
}

// Delete removes the product. A product that is already gone counts as
// deleted.
func (s *productService) Delete(ctx context.Context, id string) error {
	if err := s.d.Client.DeleteProduct(ctx, id); err != nil && !client.IsNotFound(err) {
		return fmt.Errorf("delete error: %w", err)
	}
	if err := s.d.categories.Remove(ctx, id); err != nil {
		s.d.Log.Warn(ctx, "category not removed", "id", id, "err", err)
	}
	s.refresh(ctx, reconcile.CollectionProducts, reconcile.CollectionFavorites)
	return nil
}

func (s *productService) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	// the toggle reads the current flag from the favorite set
	if s.d.Scheduler.Current(ctx, reconcile.CollectionProducts).FetchedAt.IsZero() &&
		s.d.Scheduler.Current(ctx, reconcile.CollectionFavorites).FetchedAt.IsZero() {
		if _, err := s.d.Scheduler.Refresh(ctx, reconcile.CollectionFavorites, reconcile.TriggerFocus); err != nil {
			return false, fmt.Errorf("favorites unavailable: %w", err)
		}
	}

	err := s.d.Mutations.Toggle(ctx, id, s.d.Client.SetFavorite)
	if errors.Is(err, mutation.ErrBusy) {
		return s.d.Favorites.Get(id), err
	}
	s.refresh(ctx, reconcile.CollectionProducts, reconcile.CollectionFavorites)
	return s.d.Favorites.Get(id), err
}

// StoragePlaces returns the places cached by the last full refresh, or asks
// the backend when there are none yet.
func (s *productService) StoragePlaces(ctx context.Context) ([]models.StoragePlace, error) {
	if places := s.d.Scheduler.Current(ctx, reconcile.CollectionProducts).StoragePlaces; len(places) > 0 {
		return places, nil
	}
	return s.d.Client.ListStoragePlaces(ctx)
}

func (s *productService) checkProduct(in models.ProductInput, categoryID int) error {
	if err := s.d.check(in); err != nil {
		return err
	}
	if categoryID != 0 {
		if _, ok := models.CategoryByID(categoryID); !ok {
			return fmt.Errorf("%w: %d", ErrUnknownCategory, categoryID)
		}
	}
	return nil
}

// refresh runs post-mutation refreshes. Failures leave stale data in place
// and are only logged.
func (s *productService) refresh(ctx context.Context, colls ...reconcile.Collection) {
	for _, c := range colls {
		if _, err := s.d.Scheduler.Refresh(ctx, c, reconcile.TriggerMutation); err != nil {
			s.d.Log.Warn(ctx, "refresh after change failed", "collection", string(c), "err", err)
		}
	}
}
