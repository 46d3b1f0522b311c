package fakeapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/fridgekeeper/internal/cryptox"
)

// wireID accepts ids sent as JSON numbers or strings.
type wireID string

func (w *wireID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*w = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*w = wireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*w = wireID(n.String())
	return nil
}

type place struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type product struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Quantity       float64   `json:"quantity"`
	Unit           string    `json:"unit"`
	ExpirationDate *string   `json:"expiration_date"`
	StoragePlaceID int       `json:"storage_place_id"`
	StoragePlaces  *place    `json:"storage_places,omitempty"`
	Comments       string    `json:"comments"`
	CreatedAt      time.Time `json:"created_at"`
	IsFavorite     bool      `json:"is_favorite"`
}

type user struct {
	ID       string
	Email    string
	Name     string
	Password cryptox.PasswordHash
	Products []*product
}

func (u *user) find(id string) (int, *product) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return -1, nil
	}
	for i, p := range u.Products {
		if p.ID == n {
			return i, p
		}
	}
	return -1, nil
}

// productRequest covers both the snake-case single create and the
// Pascal-case batch item; JSON keys match case-insensitively.
type productRequest struct {
	Name           string  `json:"name"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit"`
	ExpirationDate *string `json:"expiration_date"`
	StoragePlaceID wireID  `json:"storage_place_id"`
	Comments       string  `json:"comments"`
	Comment        string  `json:"comment"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type recipeRequest struct {
	AvailableIngredients []string `json:"availableIngredients"`
	UserPrompt           string   `json:"userPrompt"`
}

type recipe struct {
	Title              string   `json:"title"`
	Difficulty         string   `json:"difficulty"`
	MatchPercentage    float64  `json:"matchPercentage"`
	UsedIngredients    []string `json:"usedIngredients"`
	MissingIngredients []string `json:"missingIngredients"`
	Instructions       []string `json:"instructions"`
	PrepTime           string   `json:"prepTime"`
}
