package services

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"testing"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/client"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/models"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/reconcile"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/session"
	"github.com/dmitrijs2005/fridgekeeper/internal/logging"
	"github.com/stretchr/testify/require"
)

// fakeClient is an in-memory backend implementing client.Client.
type fakeClient struct {
	mu sync.Mutex

	products  []models.Product
	favorites map[string]bool
	places    []models.StoragePlace
	expiring  []models.Product
	nextID    int

	// echo created rows back from CreateProduct / CreateProducts
	echoCreate bool

	loginToken    string
	registerToken string
	me            models.Profile
	recipes       []models.Recipe

	PingErr     error
	LoginErr    error
	MeErr       error
	ListErr     error
	DeleteErr   error
	FavoriteErr error

	LastLogin      models.Credentials
	LastRecipe     models.RecipeRequest
	LoginCalls     int
	FavoriteCalls  int
	ExpiringCalls  int
	DeletedProfile bool
}

var _ client.Client = (*fakeClient)(nil)

func newFakeClient(products ...models.Product) *fakeClient {
	return &fakeClient{
		products:      products,
		favorites:     map[string]bool{},
		places:        []models.StoragePlace{{ID: "1", Name: "Fridge"}, {ID: "2", Name: "Freezer"}},
		echoCreate:    true,
		loginToken:    "tok-1",
		registerToken: "tok-reg",
		nextID:        100,
	}
}

func notFound() error { return &client.HTTPError{Method: http.MethodGet, Status: http.StatusNotFound} }

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

func (f *fakeClient) Login(_ context.Context, creds models.Credentials) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LoginCalls++
	f.LastLogin = creds
	if f.LoginErr != nil {
		return "", f.LoginErr
	}
	return f.loginToken, nil
}

func (f *fakeClient) Register(_ context.Context, creds models.Credentials) (string, error) {
	return f.registerToken, nil
}

func (f *fakeClient) Me(context.Context) (models.Profile, error) {
	if f.MeErr != nil {
		return models.Profile{}, f.MeErr
	}
	return f.me, nil
}

func (f *fakeClient) UpdateProfile(_ context.Context, name string) (models.Profile, error) {
	f.me.Name = name
	return f.me, nil
}

func (f *fakeClient) DeleteProfile(context.Context) error {
	f.DeletedProfile = true
	return nil
}

func (f *fakeClient) ListProducts(_ context.Context, q client.ProductQuery) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if q.ExpiringSoon {
		f.ExpiringCalls++
	}
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	src := f.products
	if q.ExpiringSoon {
		src = f.expiring
	}
	out := make([]models.Product, 0, len(src))
	for _, p := range src {
		if q.FavoritesOnly && !f.favorites[p.ID] {
			continue
		}
		p.IsFavorite = f.favorites[p.ID]
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeClient) GetProduct(_ context.Context, id string) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID == id {
			p.IsFavorite = f.favorites[id]
			return p, nil
		}
	}
	return models.Product{}, notFound()
}

func (f *fakeClient) create(in models.ProductInput) models.Product {
	f.nextID++
	p := models.Product{
		ID:             strconv.Itoa(f.nextID),
		Name:           in.Name,
		Quantity:       in.Quantity,
		Unit:           in.Unit,
		ExpirationDate: in.ExpirationDate,
		StoragePlaceID: in.StoragePlaceID,
		Comment:        in.Comment,
	}
	f.products = append(f.products, p)
	return p
}

func (f *fakeClient) CreateProduct(_ context.Context, in models.ProductInput) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.create(in)
	if !f.echoCreate {
		return models.Product{}, nil
	}
	return p, nil
}

func (f *fakeClient) CreateProducts(_ context.Context, in []models.ProductInput) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Product, 0, len(in))
	for _, it := range in {
		out = append(out, f.create(it))
	}
	if !f.echoCreate {
		return []models.Product{}, nil
	}
	return out, nil
}

func (f *fakeClient) UpdateProduct(_ context.Context, id string, in models.ProductInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.products {
		if f.products[i].ID == id {
			f.products[i].Name = in.Name
			f.products[i].Quantity = in.Quantity
			return nil
		}
	}
	return notFound()
}

func (f *fakeClient) DeleteProduct(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i := range f.products {
		if f.products[i].ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			delete(f.favorites, id)
			return nil
		}
	}
	return notFound()
}

func (f *fakeClient) SetFavorite(_ context.Context, id string, value bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FavoriteCalls++
	if f.FavoriteErr != nil {
		return f.FavoriteErr
	}
	for _, p := range f.products {
		if p.ID == id {
			f.favorites[id] = value
			return nil
		}
	}
	return notFound()
}

func (f *fakeClient) ListStoragePlaces(context.Context) ([]models.StoragePlace, error) {
	return f.places, nil
}

func (f *fakeClient) GenerateRecipes(_ context.Context, req models.RecipeRequest) ([]models.Recipe, error) {
	f.LastRecipe = req
	return f.recipes, nil
}

func newTestDeps(t *testing.T, fc *fakeClient) *Deps {
	t.Helper()
	db, err := kv.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := kv.NewSQLiteStore(db)
	return NewDeps(fc, session.New(store), store, logging.Discard(), reconcile.RetryPolicy{Attempts: 1})
}

// failingStore fails writes to selected keys.
type failingStore struct {
	kv.Store

	mu   sync.Mutex
	fail map[string]error
}

func (s *failingStore) failSet(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail == nil {
		s.fail = map[string]error{}
	}
	s.fail[key] = err
}

func (s *failingStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	err := s.fail[key]
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.Store.Set(ctx, key, value)
}

func newFailingDeps(t *testing.T, fc *fakeClient) (*Deps, *failingStore) {
	t.Helper()
	db, err := kv.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := &failingStore{Store: kv.NewSQLiteStore(db)}
	return NewDeps(fc, session.New(store), store, logging.Discard(), reconcile.RetryPolicy{Attempts: 1}), store
}

func signIn(t *testing.T, d *Deps, email string) {
	t.Helper()
	require.NoError(t, NewAuthService(d).Login(context.Background(), models.Credentials{Email: email, Password: "secret"}))
}

func validInput(name string) models.ProductInput {
	return models.ProductInput{Name: name, Quantity: 1, Unit: models.UnitPieces, StoragePlaceID: "1"}
}
