// Package merge joins fetched products with overlay data and applies the
// list pipeline (storage tab, search, favorites, category, sort).
//
// Precedence: an in-flight optimistic favorite value wins; otherwise server
// data wins over the overlay. Everything here is pure and safe to call from
// any goroutine.
package merge

import (
	"time"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/models"
)

// Source tells Merge which query produced the product list.
type Source int

const (
	// SourceAll is the general product list; favorite flags come from the
	// locally mirrored favorites set.
	SourceAll Source = iota
	// SourceFavorites is the favorites-filtered list; every row is a favorite.
	SourceFavorites
)

// Overlay carries everything Merge needs besides the products.
type Overlay struct {
	// Categories maps product id to category id.
	Categories map[string]int
	// Favorites is the mirrored favorites set. When nil with SourceAll the
	// server flag on each product is used.
	Favorites map[string]struct{}
	Source    Source
	// Pending holds in-flight optimistic favorite values.
	Pending map[string]bool
	// Now is used for freshness; zero means time.Now().
	Now time.Time
}

// Merge builds one view per product, keeping input order.
func Merge(products []models.Product, ov Overlay) []models.ProductView {
	now := ov.Now
	if now.IsZero() {
		now = time.Now()
	}

	out := make([]models.ProductView, 0, len(products))
	for _, p := range products {
		v := models.ProductView{Product: p}

		if id, ok := ov.Categories[p.ID]; ok {
			if c, ok := models.CategoryByID(id); ok {
				v.Category = &c
			}
		}

		switch {
		case ov.Source == SourceFavorites:
			v.Favorite = true
		case ov.Favorites != nil:
			_, v.Favorite = ov.Favorites[p.ID]
		default:
			v.Favorite = p.IsFavorite
		}
		if pv, ok := ov.Pending[p.ID]; ok {
			v.Favorite = pv
			v.Pending = true
		}

		v.Freshness = Freshness(p.CreatedAt, p.ExpirationDate.Time(), now)
		out = append(out, v)
	}
	return out
}

// Freshness is 100 at created, falls linearly, and reaches 0 at expires.
// Unknown dates give 0.
func Freshness(created, expires, now time.Time) float64 {
	if created.IsZero() || expires.IsZero() {
		return 0
	}
	if !now.Before(expires) {
		return 0
	}
	if !now.After(created) {
		return 100
	}
	total := expires.Sub(created)
	if total <= 0 {
		return 0
	}
	pct := 100 - float64(now.Sub(created))/float64(total)*100
	return min(100, max(0, pct))
}
