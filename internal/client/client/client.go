package client

import (
	"context"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/models"
)

// ProductQuery selects a server-side filter for ListProducts. Both filters
// may be combined.
type ProductQuery struct {
	ExpiringSoon  bool
	FavoritesOnly bool
}

type Client interface {
	Ping(ctx context.Context) error

	Login(ctx context.Context, creds models.Credentials) (string, error)
	Register(ctx context.Context, creds models.Credentials) (string, error)
	Me(ctx context.Context) (models.Profile, error)
	UpdateProfile(ctx context.Context, name string) (models.Profile, error)
	DeleteProfile(ctx context.Context) error

	ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
	CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error)
	// CreateProducts creates a batch. The result may be empty when the
	// backend does not echo created rows.
	CreateProducts(ctx context.Context, in []models.ProductInput) ([]models.Product, error)
	UpdateProduct(ctx context.Context, id string, in models.ProductInput) error
	DeleteProduct(ctx context.Context, id string) error
	SetFavorite(ctx context.Context, id string, value bool) error

	ListStoragePlaces(ctx context.Context) ([]models.StoragePlace, error)

	GenerateRecipes(ctx context.Context, req models.RecipeRequest) ([]models.Recipe, error)
}

// TokenSource supplies the bearer token; *session.Session implements it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
