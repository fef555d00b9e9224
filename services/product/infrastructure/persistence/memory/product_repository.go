// Package memory is an in-process ProductRepository for tests that exercise
// the service and HTTP layers without Postgres. It enforces the same
// uniqueness and not-found rules as the postgres repository.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	productdomain "github.com/ghuser/catalog/services/product/domain"
	"github.com/ghuser/catalog/services/product/domain/models"
	"github.com/ghuser/catalog/services/product/domain/repositories"
)

// ProductRepository stores copies of products in a map.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]models.Product

	// Err, when set, is returned by every call.
	Err error
}

var _ repositories.ProductRepository = (*ProductRepository)(nil)

// NewProductRepository returns an empty repository.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[uuid.UUID]models.Product)}
}

func (r *ProductRepository) Save(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if r.nameTaken(p.ID, p.Name) {
		return productdomain.ErrProductAlreadyExists
	}
	r.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	p, ok := r.products[id]
	if !ok {
		return nil, productdomain.ErrProductNotFound
	}
	return &p, nil
}

func (r *ProductRepository) List(_ context.Context, opts repositories.ListOpts) ([]*models.Product, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, 0, r.Err
	}

	var matched []*models.Product
	for _, p := range r.products {
		if opts.Category != "" && p.Category != opts.Category {
			continue
		}
		matched = append(matched, &p)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	total := len(matched)
	start := min(opts.Offset, total)
	end := total
	if opts.Limit > 0 {
		end = min(start+opts.Limit, total)
	}
	return matched[start:end], total, nil
}

func (r *ProductRepository) Update(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.products[p.ID]; !ok {
		return productdomain.ErrProductNotFound
	}
	if r.nameTaken(p.ID, p.Name) {
		return productdomain.ErrProductAlreadyExists
	}
	r.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.products[id]; !ok {
		return productdomain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *ProductRepository) nameTaken(self uuid.UUID, name models.ProductName) bool {
	for id, p := range r.products {
		if id != self && strings.EqualFold(p.Name.String(), name.String()) {
			return true
		}
	}
	return false
}
