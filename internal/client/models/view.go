package models

// ProductView is a product joined with its overlay data.
type ProductView struct {
	Product
	// Category is nil when no assignment exists.
	Category *Category
	// Favorite is the effective flag, optimistic value included.
	Favorite bool
	// Pending is set while a favorite mutation for the product is in flight.
	Pending bool
	// Freshness goes from 100 at creation to 0 at expiration.
	Freshness float64
}
