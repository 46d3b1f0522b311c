package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/client"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/merge"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/models"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/mutation"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/reconcile"
	"github.com/dmitrijs2005/fridgekeeper/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var filterAll = merge.Filter{}

func names(views []models.ProductView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Name
	}
	return out
}

func TestProducts_ListFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient(
		models.Product{ID: "1", Name: "Milk", StoragePlaceID: "1", ExpirationDate: timex.NewDate(2026, 3, 5)},
		models.Product{ID: "2", Name: "Ice cream", StoragePlaceID: "2", ExpirationDate: timex.NewDate(2026, 6, 1)},
		models.Product{ID: "3", Name: "Oat milk", StoragePlaceID: "1"},
		models.Product{ID: "4", Name: "Cheese", StoragePlaceID: "1", ExpirationDate: timex.NewDate(2026, 2, 1)},
	)
	fc.favorites["3"] = true
	d := newTestDeps(t, fc)
	require.NoError(t, d.categories.Assign(ctx, "1", 1))
	svc := NewProductService(d)

	list, err := svc.List(ctx, reconcile.CollectionProducts, merge.Filter{StorageTab: "1", Sort: merge.SortDateAsc}, reconcile.TriggerFocus)
	require.NoError(t, err)
	assert.False(t, list.Stale)
	assert.Equal(t, []string{"Cheese", "Milk", "Oat milk"}, names(list.Views))

	list = svc.Cached(ctx, reconcile.CollectionProducts, merge.Filter{Search: "MILK"})
	assert.Equal(t, []string{"Milk", "Oat milk"}, names(list.Views))

	list = svc.Cached(ctx, reconcile.CollectionProducts, merge.Filter{FavoritesOnly: true})
	assert.Equal(t, []string{"Oat milk"}, names(list.Views))

	list = svc.Cached(ctx, reconcile.CollectionProducts, merge.Filter{CategoryID: 1})
	assert.Equal(t, []string{"Milk"}, names(list.Views))
}

func TestProducts_ListKeepsStaleDataOnFailure(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient(models.Product{ID: "1", Name: "Milk"})
	svc := NewProductService(newTestDeps(t, fc))

	_, err := svc.List(ctx, reconcile.CollectionProducts, filterAll, reconcile.TriggerFocus)
	require.NoError(t, err)

	fc.ListErr = &client.HTTPError{Status: http.StatusBadGateway}
	list, err := svc.List(ctx, reconcile.CollectionProducts, filterAll, reconcile.TriggerPullToRefresh)
	require.Error(t, err)
	assert.True(t, list.Stale)
	assert.Equal(t, []string{"Milk"}, names(list.Views))
}

func TestProducts_GetMergesOverlay(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient(models.Product{ID: "7", Name: "Salmon"})
	d := newTestDeps(t, fc)
	require.NoError(t, d.categories.Assign(ctx, "7", 5))

	v, err := NewProductService(d).Get(ctx, "7")
	require.NoError(t, err)
	require.NotNil(t, v.Category)
	assert.Equal(t, "Fish", v.Category.Name)

	_, err = NewProductService(d).Get(ctx, "nope")
	assert.True(t, client.IsNotFound(err))
}

func TestProducts_CreateAssignsCategory(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient()
	d := newTestDeps(t, fc)
	svc := NewProductService(d)

	p, err := svc.Create(ctx, validInput("Yogurt"), 1)
	require.NoError(t, err)
	assert.Equal(t, "101", p.ID)
	assert.Equal(t, map[string]int{"101": 1}, d.categories.All(ctx))

	list := svc.Cached(ctx, reconcile.CollectionProducts, filterAll)
	require.Len(t, list.Views, 1)
	require.NotNil(t, list.Views[0].Category)
	assert.Equal(t, 1, list.Views[0].Category.ID)
}

func TestProducts_CreateWithoutEchoUsesRefetch(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient(models.Product{ID: "1", Name: "Old"})
	fc.echoCreate = false
	d := newTestDeps(t, fc)

	p, err := NewProductService(d).Create(ctx, validInput("Yogurt"), 2)
	require.NoError(t, err)
	assert.Equal(t, "Yogurt", p.Name)
	assert.Equal(t, map[string]int{p.ID: 2}, d.categories.All(ctx))
}

func TestProducts_CreateRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient()
	svc := NewProductService(newTestDeps(t, fc))

	bad := validInput("")
	_, err := svc.Create(ctx, bad, 0)
	require.ErrorIs(t, err, ErrInvalidInput)

	bad = validInput("Milk")
	bad.Unit = "cup"
	_, err = svc.Create(ctx, bad, 0)
	require.ErrorIs(t, err, ErrInvalidInput)

	bad = validInput("Milk")
	bad.Quantity = 0
	_, err = svc.Create(ctx, bad, 0)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, validInput("Milk"), 99)
	require.ErrorIs(t, err, ErrUnknownCategory)

	assert.Empty(t, fc.products)
}

func TestProducts_CreateBatch(t *testing.T) {
	for _, echo := range []bool{true, false} {
		t.Run(map[bool]string{true: "echo", false: "refetch"}[echo], func(t *testing.T) {
			ctx := context.Background()
			fc := newFakeClient(models.Product{ID: "1", Name: "Old"})
			fc.echoCreate = echo
			d := newTestDeps(t, fc)

			created, err := NewProductService(d).CreateBatch(ctx, []BatchItem{
				{Input: validInput("Apples"), CategoryID: 4},
				{Input: validInput("Bread")},
				{Input: validInput("Eggs"), CategoryID: 14},
			})
			require.NoError(t, err)
			require.Len(t, created, 3)
			assert.Equal(t, "Apples", created[0].Name)
			assert.Equal(t, map[string]int{"101": 4, "103": 14}, d.categories.All(ctx))
		})
	}
}

func TestProducts_CreateBatchValidatesEveryItem(t *testing.T) {
	fc := newFakeClient()
	svc := NewProductService(newTestDeps(t, fc))

	_, err := svc.CreateBatch(context.Background(), []BatchItem{
		{Input: validInput("Apples")},
		{Input: validInput("")},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorContains(t, err, "item 2")
	assert.Empty(t, fc.products)

	created, err := svc.CreateBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestProducts_UpdateReassignsCategory(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient(models.Product{ID: "1", Name: "Milk"})
	d := newTestDeps(t, fc)
	require.NoError(t, d.categories.Assign(ctx, "1", 1))

	in := validInput("Skim milk")
	require.NoError(t, NewProductService(d).Update(ctx, "1", in, 8))
	assert.Equal(t, "Skim milk", fc.products[0].Name)
	assert.Equal(t, map[string]int{"1": 8}, d.categories.All(ctx))
}

func TestProducts_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient(models.Product{ID: "1", Name: "Milk"})
	d := newTestDeps(t, fc)
	require.NoError(t, d.categories.Assign(ctx, "1", 1))
	svc := NewProductService(d)

	require.NoError(t, svc.Delete(ctx, "1"))
	assert.Empty(t, d.categories.All(ctx))
	require.NoError(t, svc.Delete(ctx, "1"), "already deleted is not an error")

	fc.DeleteErr = &client.HTTPError{Status: http.StatusInternalServerError}
	require.Error(t, svc.Delete(ctx, "2"))
}

func TestProducts_ToggleFavorite(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient(models.Product{ID: "1", Name: "Milk"})
	d := newTestDeps(t, fc)
	svc := NewProductService(d)

	fav, err := svc.ToggleFavorite(ctx, "1")
	require.NoError(t, err)
	assert.True(t, fav)
	assert.True(t, fc.favorites["1"])

	list := svc.Cached(ctx, reconcile.CollectionFavorites, filterAll)
	assert.Equal(t, []string{"Milk"}, names(list.Views))

	fav, err = svc.ToggleFavorite(ctx, "1")
	require.NoError(t, err)
	assert.False(t, fav)
	assert.False(t, fc.favorites["1"])
}

func TestProducts_ToggleFavoriteRollsBack(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient(models.Product{ID: "1", Name: "Milk"})
	fc.FavoriteErr = &client.HTTPError{Status: http.StatusInternalServerError}
	d := newTestDeps(t, fc)

	fav, err := NewProductService(d).ToggleFavorite(ctx, "1")
	var rb *mutation.RollbackError
	require.ErrorAs(t, err, &rb)
	assert.Equal(t, "1", rb.ID)
	assert.False(t, fav)
	assert.False(t, d.Favorites.Get("1"))
}

func TestProducts_ToggleFavoriteOnVanishedProduct(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient(models.Product{ID: "1", Name: "Milk"})
	d := newTestDeps(t, fc)
	svc := NewProductService(d)

	_, err := svc.List(ctx, reconcile.CollectionProducts, filterAll, reconcile.TriggerFocus)
	require.NoError(t, err)

	// deleted elsewhere
	fc.products = nil

	_, err = svc.ToggleFavorite(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, svc.Cached(ctx, reconcile.CollectionProducts, filterAll).Views)
}

func TestProducts_StoragePlaces(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient()
	svc := NewProductService(newTestDeps(t, fc))

	places, err := svc.StoragePlaces(ctx)
	require.NoError(t, err)
	assert.Len(t, places, 2)

	_, err = svc.List(ctx, reconcile.CollectionProducts, filterAll, reconcile.TriggerFocus)
	require.NoError(t, err)
	fc.places = nil
	places, err = svc.StoragePlaces(ctx)
	require.NoError(t, err)
	assert.Len(t, places, 2)
}
