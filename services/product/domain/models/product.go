package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the aggregate root of the catalog.
type Product struct {
	ID          uuid.UUID
	Name        ProductName
	Description string
	Category    string
	Price       Price
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Details are the client-editable fields of a Product.
type Details struct {
	Name        ProductName
	Description string
	Category    string
	Price       Price
	Available   bool
}

// NewProduct builds a Product with a fresh ID and both timestamps set to now.
func NewProduct(d Details) *Product {
	now := time.Now().UTC()
	p := &Product{
		ID:        uuid.New(),
		CreatedAt: now,
	}
	p.apply(d, now)
	return p
}

// Replace overwrites the editable fields and bumps UpdatedAt.
func (p *Product) Replace(d Details) {
	p.apply(d, time.Now().UTC())
}

func (p *Product) apply(d Details, at time.Time) {
	p.Name = d.Name
	p.Description = d.Description
	p.Category = d.Category
	p.Price = d.Price
	p.Available = d.Available
	p.UpdatedAt = at
}
