package fakeapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// soonDays is how far ahead "expirationCategory=soon" looks.
const soonDays = 3

func (s *Server) me(c echo.Context) error {
	u := currentUser(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, profile{ID: u.ID, Email: u.Email, Name: u.Name})
}

func (s *Server) updateProfile(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	u := currentUser(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Name = strings.TrimSpace(req.Name)
	return c.JSON(http.StatusOK, profile{ID: u.ID, Email: u.Email, Name: u.Name})
}

func (s *Server) deleteProfile(c echo.Context) error {
	u := currentUser(c)
	s.mu.Lock()
	delete(s.users, u.Email)
	s.mu.Unlock()
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listProducts(c echo.Context) error {
	soon := c.QueryParam("expirationCategory") == "soon"
	favOnly, _ := strconv.ParseBool(c.QueryParam("IsFavorite"))

	today := s.now().UTC().Format(time.DateOnly)
	horizon := s.now().UTC().AddDate(0, 0, soonDays).Format(time.DateOnly)

	u := currentUser(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]product, 0, len(u.Products))
	for _, p := range u.Products {
		if favOnly && !p.IsFavorite {
			continue
		}
		if soon {
			// ISO dates compare correctly as strings
			if p.ExpirationDate == nil || *p.ExpirationDate < today || *p.ExpirationDate > horizon {
				continue
			}
		}
		out = append(out, s.withPlace(*p))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getProduct(c echo.Context) error {
	u := currentUser(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	_, p := u.find(c.Param("id"))
	if p == nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	return c.JSON(http.StatusOK, s.withPlace(*p))
}

func (s *Server) createProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	u := currentUser(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.newProduct(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	u.Products = append(u.Products, p)
	return c.JSON(http.StatusCreated, s.withPlace(*p))
}

func (s *Server) createBatch(c echo.Context) error {
	var req []productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	u := currentUser(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	created := make([]*product, 0, len(req))
	for i, r := range req {
		p, err := s.newProduct(r)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("item %d: %v", i, err))
		}
		created = append(created, p)
	}
	u.Products = append(u.Products, created...)

	if !s.echoBatch {
		return c.NoContent(http.StatusCreated)
	}
	out := make([]product, len(created))
	for i, p := range created {
		out[i] = s.withPlace(*p)
	}
	return c.JSON(http.StatusCreated, out)
}

func (s *Server) updateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	u := currentUser(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	_, p := u.find(c.Param("id"))
	if p == nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	next, err := s.newProduct(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	// newProduct consumed an id; the edited row keeps its own
	s.nextID--
	next.ID, next.CreatedAt, next.IsFavorite = p.ID, p.CreatedAt, p.IsFavorite
	*p = *next
	return c.JSON(http.StatusOK, s.withPlace(*p))
}

func (s *Server) deleteProduct(c echo.Context) error {
	u := currentUser(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	i, _ := u.find(c.Param("id"))
	if i < 0 {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	u.Products = append(u.Products[:i], u.Products[i+1:]...)
	return c.NoContent(http.StatusNoContent)
}

// setFavorite takes a bare JSON boolean body.
func (s *Server) setFavorite(c echo.Context) error {
	b, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	value, err := strconv.ParseBool(strings.TrimSpace(string(b)))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "body must be true or false")
	}

	u := currentUser(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	_, p := u.find(c.Param("id"))
	if p == nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	p.IsFavorite = value
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) storagePlaces(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.places)
}

func (s *Server) generateRecipes(c echo.Context) error {
	var req recipeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(req.AvailableIngredients) == 0 || strings.TrimSpace(req.UserPrompt) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "ingredients and prompt are required")
	}

	used := req.AvailableIngredients
	out := []recipe{{
		Title:              fmt.Sprintf("%s with %s", strings.TrimSpace(req.UserPrompt), used[0]),
		Difficulty:         "easy",
		MatchPercentage:    100,
		UsedIngredients:    used,
		MissingIngredients: []string{},
		Instructions:       []string{"Prepare " + strings.Join(used, ", ") + ".", "Cook and serve."},
		PrepTime:           fmt.Sprintf("%d min", 10+5*len(used)),
	}}
	return c.JSON(http.StatusOK, out)
}

// newProduct validates req and assigns the next id. Callers hold s.mu.
func (s *Server) newProduct(req productRequest) (*product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	placeID, err := strconv.Atoi(string(req.StoragePlaceID))
	if err != nil || s.place(placeID) == nil {
		return nil, fmt.Errorf("unknown storage place %q", req.StoragePlaceID)
	}
	if req.ExpirationDate != nil {
		if _, err := time.Parse(time.DateOnly, *req.ExpirationDate); err != nil {
			return nil, fmt.Errorf("expiration date %q: %w", *req.ExpirationDate, err)
		}
	}
	comment := req.Comments
	if comment == "" {
		comment = req.Comment
	}

	p := &product{
		ID:             s.nextID,
		Name:           name,
		Quantity:       req.Quantity,
		Unit:           req.Unit,
		ExpirationDate: req.ExpirationDate,
		StoragePlaceID: placeID,
		Comments:       comment,
		CreatedAt:      s.now().UTC(),
	}
	s.nextID++
	return p, nil
}

func (s *Server) place(id int) *place {
	for i := range s.places {
		if s.places[i].ID == id {
			return &s.places[i]
		}
	}
	return nil
}

// withPlace embeds the storage place the way the list endpoint does.
func (s *Server) withPlace(p product) product {
	if pl := s.place(p.StoragePlaceID); pl != nil {
		cp := *pl
		p.StoragePlaces = &cp
	}
	return p
}
