package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/models"
	"github.com/dmitrijs2005/fridgekeeper/internal/timex"
	"github.com/go-playground/validator/v10"
)

// flexString accepts a JSON string or number. Ids are GUID strings on the
// current backend but integers on some older endpoints.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", b)
		}
		*f = flexString(n.String())
	}
	return nil
}

// flexFloat accepts a JSON number or a numeric string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("quantity %q: %w", s, err)
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

type storagePlaceDTO struct {
	ID   flexString `json:"id"`
	Name string     `json:"name"`
}

// productDTO lists every spelling the backend has been seen to use. Field
// names match case-insensitively, so "Expiration_Date" lands in
// ExpirationDate.
type productDTO struct {
	ID                  flexString       `json:"id" validate:"required"`
	Name                string           `json:"name" validate:"required"`
	Quantity            flexFloat        `json:"quantity" validate:"gte=0"`
	Unit                string           `json:"unit"`
	ExpirationDate      string           `json:"expiration_date"`
	ExpirationDateCamel string           `json:"expirationDate"`
	StoragePlaceID      flexString       `json:"storage_place_id"`
	StoragePlaceIDCamel flexString       `json:"storagePlaceId"`
	StoragePlaces       *storagePlaceDTO `json:"storage_places"`
	StoragePlace        *storagePlaceDTO `json:"storagePlace"`
	Comments            string           `json:"comments"`
	Comment             string           `json:"comment"`
	CreatedAt           string           `json:"created_at"`
	CreatedAtCamel      string           `json:"createdAt"`
	IsFavorite          bool             `json:"is_favorite"`
	IsFavoriteCamel     bool             `json:"isFavorite"`
}

func firstNonEmpty[T ~string](vs ...T) T {
	for _, v := range vs {
		if strings.TrimSpace(string(v)) != "" {
			return v
		}
	}
	return ""
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// toProduct is the single normalization point from wire shape to
// models.Product. Unparsable dates and timestamps become zero values; rows
// without id or name are rejected.
func toProduct(v *validator.Validate, d productDTO) (models.Product, error) {
	if err := v.Struct(d); err != nil {
		return models.Product{}, fmt.Errorf("invalid product row: %w", err)
	}

	p := models.Product{
		ID:             string(d.ID),
		Name:           strings.TrimSpace(d.Name),
		Quantity:       float64(d.Quantity),
		Unit:           models.Unit(strings.ToLower(strings.TrimSpace(d.Unit))),
		StoragePlaceID: string(firstNonEmpty(d.StoragePlaceID, d.StoragePlaceIDCamel)),
		Comment:        firstNonEmpty(d.Comments, d.Comment),
		CreatedAt:      parseTimestamp(firstNonEmpty(d.CreatedAt, d.CreatedAtCamel)),
		IsFavorite:     d.IsFavorite || d.IsFavoriteCamel,
	}

	if exp, err := timex.ParseISO(firstNonEmpty(d.ExpirationDate, d.ExpirationDateCamel)); err == nil {
		p.ExpirationDate = exp
	}

	sp := d.StoragePlaces
	if sp == nil {
		sp = d.StoragePlace
	}
	if sp != nil {
		p.StoragePlace = &models.StoragePlace{ID: string(sp.ID), Name: sp.Name}
		if p.StoragePlaceID == "" {
			p.StoragePlaceID = string(sp.ID)
		}
	}
	return p, nil
}

type profileDTO struct {
	ID    flexString `json:"id"`
	Email string     `json:"email"`
	Name  string     `json:"name"`
}

func (d profileDTO) toModel() models.Profile {
	return models.Profile{ID: string(d.ID), Email: strings.TrimSpace(d.Email), Name: d.Name}
}

type authResponse struct {
	AccessToken      string `json:"access_token"`
	AccessTokenCamel string `json:"accessToken"`
	Token            string `json:"token"`
}

func (r authResponse) token() string {
	return firstNonEmpty(r.AccessToken, r.AccessTokenCamel, r.Token)
}

// idValue sends numeric ids as JSON numbers and everything else as strings.
func idValue(id string) any {
	if _, err := strconv.ParseInt(id, 10, 64); err == nil {
		return json.Number(id)
	}
	return id
}

func isoOrNil(d timex.Date) *string {
	if d.IsZero() {
		return nil
	}
	s := d.ISO()
	return &s
}

type productBody struct {
	Name           string  `json:"name"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit"`
	ExpirationDate *string `json:"expiration_date"`
	StoragePlaceID any     `json:"storage_place_id"`
	Comments       string  `json:"comments"`
}

func newProductBody(in models.ProductInput) productBody {
	return productBody{
		Name:           strings.TrimSpace(in.Name),
		Quantity:       in.Quantity,
		Unit:           string(in.Unit),
		ExpirationDate: isoOrNil(in.ExpirationDate),
		StoragePlaceID: idValue(in.StoragePlaceID),
		Comments:       in.Comment,
	}
}

// batchItemBody is the batch endpoint's Pascal-case item.
type batchItemBody struct {
	Name           string  `json:"Name"`
	Quantity       float64 `json:"Quantity"`
	Unit           string  `json:"Unit"`
	ExpirationDate *string `json:"Expiration_Date"`
	StoragePlaceID any     `json:"Storage_Place_Id"`
	Comment        string  `json:"Comment"`
}

func newBatchItemBody(in models.ProductInput) batchItemBody {
	return batchItemBody{
		Name:           strings.TrimSpace(in.Name),
		Quantity:       in.Quantity,
		Unit:           string(in.Unit),
		ExpirationDate: isoOrNil(in.ExpirationDate),
		StoragePlaceID: idValue(in.StoragePlaceID),
		Comment:        in.Comment,
	}
}

func toRecipe(raw json.RawMessage) models.Recipe {
	var r models.Recipe
	if err := json.Unmarshal(raw, &r); err != nil {
		r = models.Recipe{}
	}
	r.Raw = append(json.RawMessage(nil), raw...)
	return r
}
