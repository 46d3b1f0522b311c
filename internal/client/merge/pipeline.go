package merge

import (
	"slices"
	"strings"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/models"
)

// SortOrder orders by expiration date.
type SortOrder int

const (
	SortNone SortOrder = iota
	// SortDateAsc puts the nearest expiration first.
	SortDateAsc
	// SortDateDesc puts the farthest expiration first.
	SortDateDesc
)

// ParseSortOrder maps "asc"/"desc" (and the dateAsc/dateDesc spelling) to a
// SortOrder; anything else is SortNone.
func ParseSortOrder(s string) SortOrder {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "dateasc", "nearest":
		return SortDateAsc
	case "desc", "datedesc", "farthest":
		return SortDateDesc
	default:
		return SortNone
	}
}

// Filter selects and orders merged views. Zero values disable a stage.
type Filter struct {
	// StorageTab matches a storage place by id or by name, case-insensitively.
	StorageTab    string
	Search        string
	FavoritesOnly bool
	CategoryID    int
	Sort          SortOrder
}

// Apply runs the pipeline in fixed order: storage tab, name search,
// favorites only, category, then a stable sort. Products without an
// expiration date sort last in both directions. The input is not modified.
func Apply(views []models.ProductView, f Filter) []models.ProductView {
	out := make([]models.ProductView, 0, len(views))
	search := strings.ToLower(strings.TrimSpace(f.Search))
	tab := strings.TrimSpace(f.StorageTab)

	for _, v := range views {
		if tab != "" && !matchesTab(v.Product, tab) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(v.Name), search) {
			continue
		}
		if f.FavoritesOnly && !v.Favorite {
			continue
		}
		if f.CategoryID != 0 && (v.Category == nil || v.Category.ID != f.CategoryID) {
			continue
		}
		out = append(out, v)
	}

	if f.Sort != SortNone {
		desc := f.Sort == SortDateDesc
		slices.SortStableFunc(out, func(a, b models.ProductView) int {
			return compareExpiration(a, b, desc)
		})
	}
	return out
}

func matchesTab(p models.Product, tab string) bool {
	if p.StoragePlaceID == tab {
		return true
	}
	return p.StoragePlace != nil && strings.EqualFold(p.StoragePlace.Name, tab)
}

func compareExpiration(a, b models.ProductView, desc bool) int {
	az, bz := a.ExpirationDate.IsZero(), b.ExpirationDate.IsZero()
	switch {
	case az && bz:
		return 0
	case az:
		return 1
	case bz:
		return -1
	}
	c := a.ExpirationDate.Compare(b.ExpirationDate)
	if desc {
		return -c
	}
	return c
}
