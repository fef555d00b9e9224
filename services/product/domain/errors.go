package domain

import "errors"

// Sentinel errors for the product domain. Use errors.Is() to check these.
var (
	// ErrProductNotFound indicates the requested product does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrProductAlreadyExists indicates another product already uses the name.
	ErrProductAlreadyExists = errors.New("product already exists")

	// ErrInvalidProduct wraps every domain rule violation, e.g.
	// fmt.Errorf("%w: %w", ErrInvalidProduct, reason).
	ErrInvalidProduct = errors.New("invalid product")
)
