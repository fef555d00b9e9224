package models

import "fmt"

// Price is an amount in minor currency units (cents).
type Price int64

// maxPrice keeps prices inside the range JSON clients represent exactly.
const maxPrice = Price(1<<53 - 1)

// NewPrice rejects negative and out-of-range amounts.
func NewPrice(cents int64) (Price, error) {
	if cents < 0 {
		return 0, fmt.Errorf("price must not be negative")
	}
	if Price(cents) > maxPrice {
		return 0, fmt.Errorf("price must not exceed %d cents", int64(maxPrice))
	}
	return Price(cents), nil
}

// Cents returns the amount in cents.
func (p Price) Cents() int64 {
	return int64(p)
}
