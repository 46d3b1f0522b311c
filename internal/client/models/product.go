package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/fridgekeeper/internal/timex"
)

// Unit is the measure a product quantity is expressed in.
type Unit string

const (
	UnitPieces     Unit = "pcs"
	UnitKilograms  Unit = "kg"
	UnitGrams      Unit = "g"
	UnitLiters     Unit = "l"
	UnitMilliliter Unit = "ml"
)

var Units = []Unit{UnitPieces, UnitKilograms, UnitGrams, UnitLiters, UnitMilliliter}

var ErrUnknownUnit = errors.New("unknown unit")

// ParseUnit accepts the canonical unit names, case-insensitively.
func ParseUnit(s string) (Unit, error) {
	u := Unit(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Units {
		if u == known {
			return u, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUnit, s)
}

// StoragePlace is a location such as Fridge, Freezer or Pantry. The set is
// owned by the backend.
type StoragePlace struct {
	ID   string
	Name string
}

// Product is a server-owned inventory item. The client never changes it
// locally; overlay data is attached only in ProductView.
type Product struct {
	ID             string
	Name           string
	Quantity       float64
	Unit           Unit
	ExpirationDate timex.Date
	StoragePlaceID string
	// StoragePlace is filled when the backend embeds it in list responses.
	StoragePlace *StoragePlace
	Comment      string
	CreatedAt    time.Time
	IsFavorite   bool
}

// StorageName returns the embedded storage place name, if any.
func (p Product) StorageName() string {
	if p.StoragePlace == nil {
		return ""
	}
	return p.StoragePlace.Name
}

// ProductInput carries the user-editable fields for create and update.
type ProductInput struct {
	Name           string     `validate:"required,max=200"`
	Quantity       float64    `validate:"gt=0"`
	Unit           Unit       `validate:"required,oneof=pcs kg g l ml"`
	ExpirationDate timex.Date `validate:"-"`
	StoragePlaceID string     `validate:"required"`
	Comment        string     `validate:"max=1000"`
}
