package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/catalog/services/product/domain/models"
)

// ListOpts holds pagination and filtering for List.
type ListOpts struct {
	Limit    int
	Offset   int
	Category string // empty means every category
}

// ProductRepository is the persistence interface for the Product aggregate.
// Implementations return domain.ErrProductNotFound and
// domain.ErrProductAlreadyExists rather than driver errors.
type ProductRepository interface {
	Save(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)

	// List returns one page ordered by newest first, plus the total number of
	// matching products ignoring pagination.
	List(ctx context.Context, opts ListOpts) ([]*models.Product, int, error)

	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}
