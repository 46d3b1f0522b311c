package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/models"
	"github.com/dmitrijs2005/fridgekeeper/internal/logging"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultTimeout = 15 * time.Second

	maxResponseBytes = 4 << 20
	maxErrorBody     = 512
)

var _ Client = (*HTTPClient)(nil)

// HTTPClient implements Client against the REST backend.
type HTTPClient struct {
	baseURL  string
	hc       *http.Client
	tokens   TokenSource
	log      logging.Logger
	validate *validator.Validate
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.hc = hc }
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.hc.Timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// NewHTTPClient creates a client for baseURL, e.g. "https://host/api".
func NewHTTPClient(baseURL string, tokens TokenSource, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		hc:       &http.Client{Timeout: DefaultTimeout},
		tokens:   tokens,
		log:      logging.Discard(),
		validate: validator.New(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	auth   bool
}

// do performs r and decodes a JSON response into out when out is non-nil and
// the body is not empty.
func (c *HTTPClient) do(ctx context.Context, r request, out any) error {
	var token string
	if r.auth {
		t, err := c.tokens.Token(ctx)
		if err != nil {
			return err
		}
		token = t
	}

	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s: %w", r.method, r.path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return fmt.Errorf("failed to build %s %s: %w", r.method, r.path, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, r.method, r.path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return fmt.Errorf("%w: reading %s %s: %w", ErrUnavailable, r.method, r.path, err)
	}
	truncated := len(data) > maxResponseBytes
	if truncated {
		data = data[:maxResponseBytes]
	}

	c.log.Debug(ctx, "http call", "method", r.method, "path", r.path,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(data))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return &HTTPError{Method: r.method, Path: r.path, Status: resp.StatusCode, Body: msg}
	}
	if truncated {
		c.log.Warn(ctx, "response body over limit", "method", r.method, "path", r.path, "limit", maxResponseBytes)
		return fmt.Errorf("%w: %s %s: over %d bytes", ErrResponseTooLarge, r.method, r.path, maxResponseBytes)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", r.method, r.path, err)
	}
	return nil
}

// Ping checks that the backend answers at all. Any HTTP status counts.
func (c *HTTPClient) Ping(ctx context.Context) error {
	err := c.do(ctx, request{method: http.MethodGet, path: "/"}, nil)
	var he *HTTPError
	if errors.As(err, &he) {
		return nil
	}
	return err
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (string, error) {
	var resp authResponse
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: creds}, &resp)
	if err != nil {
		return "", err
	}
	tok := resp.token()
	if tok == "" {
		return "", ErrNoToken
	}
	return tok, nil
}

// Register creates an account. Some backend versions do not sign the new
// user in; the returned token is empty then.
func (c *HTTPClient) Register(ctx context.Context, creds models.Credentials) (string, error) {
	var resp authResponse
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/register", body: creds}, &resp)
	if err != nil {
		return "", err
	}
	return resp.token(), nil
}

func (c *HTTPClient) Me(ctx context.Context) (models.Profile, error) {
	var d profileDTO
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users/me", auth: true}, &d); err != nil {
		return models.Profile{}, err
	}
	return d.toModel(), nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, name string) (models.Profile, error) {
	var d profileDTO
	body := map[string]string{"name": name}
	if err := c.do(ctx, request{method: http.MethodPatch, path: "/users/profile", body: body, auth: true}, &d); err != nil {
		return models.Profile{}, err
	}
	return d.toModel(), nil
}

func (c *HTTPClient) DeleteProfile(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/users/profile", auth: true}, nil)
}

func (c *HTTPClient) ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	v := url.Values{}
	if q.ExpiringSoon {
		v.Set("expirationCategory", "soon")
	}
	if q.FavoritesOnly {
		v.Set("IsFavorite", "true")
	}

	var rows []json.RawMessage
	if err := c.do(ctx, request{method: http.MethodGet, path: "/products", query: v, auth: true}, &rows); err != nil {
		return nil, err
	}
	return c.normalize(ctx, rows), nil
}

func (c *HTTPClient) GetProduct(ctx context.Context, id string) (models.Product, error) {
	var d productDTO
	if err := c.do(ctx, request{method: http.MethodGet, path: productPath(id), auth: true}, &d); err != nil {
		return models.Product{}, err
	}
	return toProduct(c.validate, d)
}

// CreateProduct returns the created product, or a zero Product when the
// backend answers without a body.
func (c *HTTPClient) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	var raw json.RawMessage
	r := request{method: http.MethodPost, path: "/products", body: newProductBody(in), auth: true}
	if err := c.do(ctx, r, &raw); err != nil {
		return models.Product{}, err
	}
	if len(raw) == 0 {
		return models.Product{}, nil
	}
	var d productDTO
	if err := json.Unmarshal(raw, &d); err != nil {
		c.log.Warn(ctx, "unexpected create response", "err", err)
		return models.Product{}, nil
	}
	p, err := toProduct(c.validate, d)
	if err != nil {
		c.log.Warn(ctx, "unexpected create response", "err", err)
		return models.Product{}, nil
	}
	return p, nil
}

func (c *HTTPClient) CreateProducts(ctx context.Context, in []models.ProductInput) ([]models.Product, error) {
	items := make([]batchItemBody, len(in))
	for i, p := range in {
		items[i] = newBatchItemBody(p)
	}

	var raw json.RawMessage
	r := request{method: http.MethodPost, path: "/products/batch", body: items, auth: true}
	if err := c.do(ctx, r, &raw); err != nil {
		return nil, err
	}

	var rows []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &rows) != nil {
		return []models.Product{}, nil
	}
	return c.normalize(ctx, rows), nil
}

func (c *HTTPClient) UpdateProduct(ctx context.Context, id string, in models.ProductInput) error {
	return c.do(ctx, request{method: http.MethodPatch, path: productPath(id), body: newProductBody(in), auth: true}, nil)
}

func (c *HTTPClient) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: productPath(id), auth: true}, nil)
}

// SetFavorite sends the raw boolean body, negotiating the method.
func (c *HTTPClient) SetFavorite(ctx context.Context, id string, value bool) error {
	path := productPath(id) + "/favorite"
	return favoriteMethods.run(ctx, func(ctx context.Context, method string) error {
		return c.do(ctx, request{method: method, path: path, body: value, auth: true}, nil)
	})
}

func (c *HTTPClient) ListStoragePlaces(ctx context.Context) ([]models.StoragePlace, error) {
	var rows []storagePlaceDTO
	if err := c.do(ctx, request{method: http.MethodGet, path: "/StoragePlace/all", auth: true}, &rows); err != nil {
		return nil, err
	}
	out := make([]models.StoragePlace, 0, len(rows))
	for _, r := range rows {
		if r.ID == "" {
			continue
		}
		out = append(out, models.StoragePlace{ID: string(r.ID), Name: r.Name})
	}
	return out, nil
}

func (c *HTTPClient) GenerateRecipes(ctx context.Context, req models.RecipeRequest) ([]models.Recipe, error) {
	if req.AvailableIngredients == nil {
		req.AvailableIngredients = []string{}
	}
	var items []json.RawMessage
	if err := c.do(ctx, request{method: http.MethodPost, path: "/Recipe/generate", body: req, auth: true}, &items); err != nil {
		return nil, err
	}
	out := make([]models.Recipe, 0, len(items))
	for _, it := range items {
		out = append(out, toRecipe(it))
	}
	return out, nil
}

// normalize decodes rows one by one so a malformed row costs only itself.
func (c *HTTPClient) normalize(ctx context.Context, rows []json.RawMessage) []models.Product {
	out := make([]models.Product, 0, len(rows))
	for i, raw := range rows {
		var d productDTO
		if err := json.Unmarshal(raw, &d); err != nil {
			c.log.Warn(ctx, "dropping product row", "index", i, "err", err)
			continue
		}
		p, err := toProduct(c.validate, d)
		if err != nil {
			c.log.Warn(ctx, "dropping product row", "index", i, "id", string(d.ID), "err", err)
			continue
		}
		out = append(out, p)
	}
	return out
}

func productPath(id string) string {
	return "/products/" + url.PathEscape(id)
}
