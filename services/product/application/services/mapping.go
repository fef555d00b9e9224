package services

import (
	"errors"

	pkgcache "github.com/ghuser/catalog/pkg/cache"
	productdomain "github.com/ghuser/catalog/services/product/domain"
	"github.com/ghuser/catalog/services/product/domain/models"
)

func toCache(p *models.Product) *pkgcache.CachedProduct {
	return &pkgcache.CachedProduct{
		ID:          p.ID,
		Name:        p.Name.String(),
		Description: p.Description,
		Category:    p.Category,
		PriceCents:  p.Price.Cents(),
		Available:   p.Available,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func fromCache(c *pkgcache.CachedProduct) *models.Product {
	return &models.Product{
		ID:          c.ID,
		Name:        models.ProductName(c.Name),
		Description: c.Description,
		Category:    c.Category,
		Price:       models.Price(c.PriceCents),
		Available:   c.Available,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, productdomain.ErrProductNotFound)
}
