package fakeapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/dmitrijs2005/fridgekeeper/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// DefaultPlaces are the storage places every account starts with.
var DefaultPlaces = []string{"Fridge", "Freezer", "Pantry"}

type Server struct {
	e *echo.Echo

	secret          []byte
	tokenTTL        time.Duration
	now             func() time.Time
	favoriteMethods []string
	echoBatch       bool
	log             logging.Logger

	mu     sync.Mutex
	users  map[string]*user
	places []place
	nextID int
	faults []*fault
}

type Option func(*Server)

func WithSecret(secret string) Option {
	return func(s *Server) { s.secret = []byte(secret) }
}

func WithTokenTTL(d time.Duration) Option {
	return func(s *Server) { s.tokenTTL = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithFavoriteMethods sets which methods the favorite endpoint accepts;
// others get 405. The default is PATCH only.
func WithFavoriteMethods(methods ...string) Option {
	return func(s *Server) { s.favoriteMethods = methods }
}

// WithoutBatchEcho makes the batch endpoint answer 201 with an empty body,
// like older backend versions.
func WithoutBatchEcho() Option {
	return func(s *Server) { s.echoBatch = false }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.log = l }
}

func New(opts ...Option) *Server {
	s := &Server{
		secret:          []byte("fakeapi-secret"),
		tokenTTL:        24 * time.Hour,
		now:             time.Now,
		favoriteMethods: []string{http.MethodPatch},
		echoBatch:       true,
		log:             logging.Discard(),
		users:           map[string]*user{},
		nextID:          1,
	}
	for _, o := range opts {
		o(s)
	}
	for i, name := range DefaultPlaces {
		s.places = append(s.places, place{ID: i + 1, Name: name})
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomiddleware.Recover())
	e.Use(s.requestLog)
	e.Use(s.injectFaults)

	e.GET("/", s.health)
	e.POST("/auth/register", s.register)
	e.POST("/auth/login", s.login)

	e.GET("/users/me", s.me, s.auth)
	e.PATCH("/users/profile", s.updateProfile, s.auth)
	e.DELETE("/users/profile", s.deleteProfile, s.auth)

	e.GET("/products", s.listProducts, s.auth)
	e.POST("/products", s.createProduct, s.auth)
	e.POST("/products/batch", s.createBatch, s.auth)
	e.GET("/products/:id", s.getProduct, s.auth)
	e.PATCH("/products/:id", s.updateProduct, s.auth)
	e.DELETE("/products/:id", s.deleteProduct, s.auth)
	for _, m := range s.favoriteMethods {
		e.Add(m, "/products/:id/favorite", s.setFavorite, s.auth)
	}

	e.GET("/StoragePlace/all", s.storagePlaces, s.auth)
	e.POST("/Recipe/generate", s.generateRecipes, s.auth)

	s.e = e
	return s
}

// Handle mounts h next to the API routes, e.g. a metrics endpoint.
func (s *Server) Handle(method, path string, h http.Handler) {
	s.e.Add(method, path, echo.WrapHandler(h))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.e.Start(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info(ctx, "shutting down fake backend")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := s.e.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

type fault struct {
	method    string
	path      string
	status    int
	remaining int
}

// FailNext makes the next times requests matching method and path answer
// with status instead of being handled.
func (s *Server) FailNext(method, path string, status, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, &fault{method: method, path: path, status: status, remaining: times})
}

func (s *Server) injectFaults(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := c.Request()
		s.mu.Lock()
		for _, f := range s.faults {
			if f.remaining > 0 && f.method == r.Method && f.path == r.URL.Path {
				f.remaining--
				s.mu.Unlock()
				return echo.NewHTTPError(f.status, "injected failure")
			}
		}
		s.mu.Unlock()
		return next(c)
	}
}

func (s *Server) requestLog(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		r := c.Request()
		status, elapsed := c.Response().Status, time.Since(start)
		RequestsTotal.WithLabelValues(c.Path(), r.Method, strconv.Itoa(status)).Inc()
		RequestDuration.WithLabelValues(c.Path()).Observe(elapsed.Seconds())
		s.log.Debug(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", elapsed,
		)
		return nil
	}
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
