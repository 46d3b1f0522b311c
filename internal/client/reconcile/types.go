package reconcile

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/client"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/models"
)

// Trigger is the reason for a refresh.
type Trigger int

const (
	TriggerFocus Trigger = iota
	TriggerPullToRefresh
	TriggerMutation
)

func (t Trigger) String() string {
	switch t {
	case TriggerFocus:
		return "focus"
	case TriggerPullToRefresh:
		return "pull"
	case TriggerMutation:
		return "mutation"
	default:
		return "unknown"
	}
}

// Collection names a refetchable product list.
type Collection string

const (
	// CollectionProducts is the full list, fetched together with favorites
	// and storage places.
	CollectionProducts Collection = "products"
	// CollectionFavorites is the favorites-filtered list.
	CollectionFavorites Collection = "favorites"
	// CollectionExpiring is the expiring-soon list.
	CollectionExpiring Collection = "expiring"
)

// Snapshot is the last known state of a collection.
type Snapshot struct {
	Collection    Collection
	Products      []models.Product
	Views         []models.ProductView
	StoragePlaces []models.StoragePlace
	FetchedAt     time.Time
	// Stale is set when the latest refresh failed; Err holds its error and
	// the data is from the last successful one.
	Stale bool
	Err   error
}

// Fetcher is the part of client.Client the scheduler reads from.
type Fetcher interface {
	ListProducts(ctx context.Context, q client.ProductQuery) ([]models.Product, error)
	ListStoragePlaces(ctx context.Context) ([]models.StoragePlace, error)
}
