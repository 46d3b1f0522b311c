package fakeapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/fridgekeeper/internal/cryptox"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const ctxUser = "user"

func (s *Server) issueToken(email string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// auth validates the bearer JWT and puts the account into the context.
func (s *Server) auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		var claims jwt.RegisteredClaims
		_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		s.mu.Lock()
		u, found := s.users[claims.Subject]
		s.mu.Unlock()
		if !found {
			return echo.NewHTTPError(http.StatusUnauthorized, "unknown account")
		}
		c.Set(ctxUser, u)
		return next(c)
	}
}

func currentUser(c echo.Context) *user {
	u, _ := c.Get(ctxUser).(*user)
	return u
}

func (s *Server) register(c echo.Context) error {
	var req credentials
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	s.mu.Lock()
	if _, exists := s.users[email]; exists {
		s.mu.Unlock()
		return echo.NewHTTPError(http.StatusConflict, "account already exists")
	}
	s.users[email] = &user{ID: strconv.Itoa(len(s.users) + 1), Email: email, Password: cryptox.HashPassword(req.Password)}
	s.mu.Unlock()

	tok, err := s.issueToken(email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]string{"access_token": tok})
}

func (s *Server) login(c echo.Context) error {
	var req credentials
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	email := normalizeEmail(req.Email)

	s.mu.Lock()
	u, found := s.users[email]
	s.mu.Unlock()
	if !found || !u.Password.Verify(req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	tok, err := s.issueToken(email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"token": tok})
}
