package merge

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/models"
	"github.com/dmitrijs2005/fridgekeeper/internal/timex"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) timex.Date {
	d, err := timex.ParseISO(s)
	if err != nil {
		panic(err)
	}
	return d
}

func ids(views []models.ProductView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}

func TestSortScenario_AscDesc(t *testing.T) {
	views := Merge([]models.Product{
		{ID: "a", Name: "A", ExpirationDate: date("2026-02-20")},
		{ID: "b", Name: "B", ExpirationDate: date("2026-02-18")},
	}, Overlay{})

	assert.Equal(t, []string{"b", "a"}, ids(Apply(views, Filter{Sort: SortDateAsc})))
	assert.Equal(t, []string{"a", "b"}, ids(Apply(views, Filter{Sort: SortDateDesc})))
	assert.Equal(t, []string{"a", "b"}, ids(views), "input untouched")
}

func TestCategoryScenario(t *testing.T) {
	views := Merge([]models.Product{{ID: "p1"}, {ID: "p2"}}, Overlay{Categories: map[string]int{"p1": 3}})

	require.NotNil(t, views[0].Category)
	want, _ := models.CategoryByID(3)
	if diff := cmp.Diff(want, *views[0].Category); diff != "" {
		t.Fatalf("category mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, views[1].Category)
}

func TestMerge_UnknownCategoryIDIsUnset(t *testing.T) {
	views := Merge([]models.Product{{ID: "p1"}}, Overlay{Categories: map[string]int{"p1": 999}})
	assert.Nil(t, views[0].Category)
}

func TestMerge_FavoriteSources(t *testing.T) {
	products := []models.Product{{ID: "a"}, {ID: "b", IsFavorite: true}}

	fav := Merge(products, Overlay{Source: SourceFavorites})
	assert.True(t, fav[0].Favorite)
	assert.True(t, fav[1].Favorite)

	all := Merge(products, Overlay{Favorites: map[string]struct{}{"a": {}}})
	assert.True(t, all[0].Favorite)
	assert.False(t, all[1].Favorite, "mirrored set wins over the row flag")

	noSet := Merge(products, Overlay{})
	assert.False(t, noSet[0].Favorite)
	assert.True(t, noSet[1].Favorite)
}

func TestMerge_PendingOptimisticValueWins(t *testing.T) {
	products := []models.Product{{ID: "a", IsFavorite: false}, {ID: "b"}}

	views := Merge(products, Overlay{
		Favorites: map[string]struct{}{},
		Pending:   map[string]bool{"a": true},
	})
	assert.True(t, views[0].Favorite)
	assert.True(t, views[0].Pending)
	assert.False(t, views[1].Pending)

	views = Merge(products, Overlay{Source: SourceFavorites, Pending: map[string]bool{"a": false}})
	assert.False(t, views[0].Favorite, "pending unfavorite beats favorites source")
}

func TestApply_StableSortIsIdempotent(t *testing.T) {
	views := Merge([]models.Product{
		{ID: "1", ExpirationDate: date("2026-03-01")},
		{ID: "2", ExpirationDate: date("2026-02-01")},
		{ID: "3", ExpirationDate: date("2026-03-01")},
		{ID: "4"},
		{ID: "5", ExpirationDate: date("2026-02-01")},
		{ID: "6"},
	}, Overlay{})

	once := Apply(views, Filter{Sort: SortDateAsc})
	assert.Equal(t, []string{"2", "5", "1", "3", "4", "6"}, ids(once))

	twice := Apply(once, Filter{Sort: SortDateAsc})
	if diff := cmp.Diff(ids(once), ids(twice)); diff != "" {
		t.Fatalf("resort changed order:\n%s", diff)
	}

	desc := Apply(views, Filter{Sort: SortDateDesc})
	assert.Equal(t, []string{"1", "3", "2", "5", "4", "6"}, ids(desc), "missing dates last")
}

func TestApply_PipelineStages(t *testing.T) {
	fridge := &models.StoragePlace{ID: "1", Name: "Fridge"}
	pantry := &models.StoragePlace{ID: "2", Name: "Pantry"}
	views := Merge([]models.Product{
		{ID: "milk", Name: "Milk", StoragePlaceID: "1", StoragePlace: fridge, ExpirationDate: date("2026-02-20")},
		{ID: "oat", Name: "Oat milk", StoragePlaceID: "2", StoragePlace: pantry, ExpirationDate: date("2026-05-01")},
		{ID: "kefir", Name: "Kefir", StoragePlaceID: "1", StoragePlace: fridge, ExpirationDate: date("2026-02-19")},
		{ID: "cheese", Name: "Cheese", StoragePlaceID: "1", StoragePlace: fridge},
	}, Overlay{
		Favorites:  map[string]struct{}{"milk": {}, "oat": {}, "kefir": {}},
		Categories: map[string]int{"milk": 1, "kefir": 1, "oat": 6},
	})

	assert.Equal(t, []string{"milk", "kefir", "cheese"}, ids(Apply(views, Filter{StorageTab: "fridge"})))
	assert.Equal(t, []string{"oat"}, ids(Apply(views, Filter{StorageTab: "2"})))
	assert.Equal(t, []string{"milk", "oat"}, ids(Apply(views, Filter{Search: " MILK"})))
	assert.Equal(t, []string{"kefir", "milk"}, ids(Apply(views, Filter{
		StorageTab:    "Fridge",
		FavoritesOnly: true,
		CategoryID:    1,
		Sort:          SortDateAsc,
	})))
	assert.Empty(t, Apply(views, Filter{Search: "bread"}))
	assert.Len(t, Apply(views, Filter{}), 4)
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortDateAsc, ParseSortOrder("dateAsc"))
	assert.Equal(t, SortDateDesc, ParseSortOrder("DESC"))
	assert.Equal(t, SortNone, ParseSortOrder(""))
}

func TestFreshness(t *testing.T) {
	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	expires := time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 100.0, Freshness(created, expires, created.Add(-time.Hour)))
	assert.InDelta(t, 50.0, Freshness(created, expires, created.Add(5*24*time.Hour)), 1e-9)
	assert.Equal(t, 0.0, Freshness(created, expires, expires))
	assert.Equal(t, 0.0, Freshness(time.Time{}, expires, created))
	assert.Equal(t, 0.0, Freshness(expires, created, expires.Add(-time.Hour)))

	v := Merge([]models.Product{{ID: "x", CreatedAt: created, ExpirationDate: timex.DateOf(expires)}},
		Overlay{Now: created.Add(24 * time.Hour)})
	assert.InDelta(t, 90.0, v[0].Freshness, 1e-9)
}
