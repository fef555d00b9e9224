package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgcache "github.com/ghuser/catalog/pkg/cache"
	"github.com/ghuser/catalog/pkg/logger"
	productdomain "github.com/ghuser/catalog/services/product/domain"
	"github.com/ghuser/catalog/services/product/domain/models"
	"github.com/ghuser/catalog/services/product/domain/repositories"
	domainsvcs "github.com/ghuser/catalog/services/product/domain/services"
)

// ProductCache is the read model store consulted by Get. *pkgcache.ProductCache
// implements it; Get must return an error matching pkgcache.IsMiss on a miss.
type ProductCache interface {
	Get(ctx context.Context, id uuid.UUID) (*pkgcache.CachedProduct, error)
	Set(ctx context.Context, p *pkgcache.CachedProduct) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Input carries the client-supplied fields for Create and Update.
type Input struct {
	Name        string
	Description string
	Category    string
	PriceCents  int64
	Available   bool
}

// ProductService orchestrates the product use cases. Events are published by
// the repository in the same transaction as the write.
type ProductService struct {
	repo  repositories.ProductRepository
	cache ProductCache
	log   logger.Logger
}

// NewProductService wires the service. cache may be nil.
func NewProductService(repo repositories.ProductRepository, cache ProductCache, log logger.Logger) *ProductService {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductService{repo: repo, cache: cache, log: log}
}

// Create validates in and persists a new product.
func (s *ProductService) Create(ctx context.Context, in Input) (*models.Product, error) {
	d, err := details(in)
	if err != nil {
		return nil, err
	}
	p := models.NewProduct(d)
	if err := domainsvcs.ValidateProduct(p); err != nil {
		return nil, fmt.Errorf("%w: %w", productdomain.ErrInvalidProduct, err)
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get reads through the cache:
//  1. serve from Redis on a hit;
//  2. on a miss or cache error, query Postgres;
//  3. write the result back to Redis.
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err == nil {
			return fromCache(cached), nil
		}
		if !pkgcache.IsMiss(err) {
			s.log.WarnContext(ctx, "product cache read failed", "product_id", id, "error", err)
		}
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.store(ctx, p)
	return p, nil
}

// List returns one page of products and the total count.
func (s *ProductService) List(ctx context.Context, opts repositories.ListOpts) ([]*models.Product, int, error) {
	if err := domainsvcs.ValidateCategory(opts.Category); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", productdomain.ErrInvalidProduct, err)
	}
	products, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

// Update replaces the editable fields of an existing product.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, in Input) (*models.Product, error) {
	d, err := details(in)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Replace(d)
	if err := domainsvcs.ValidateProduct(p); err != nil {
		return nil, fmt.Errorf("%w: %w", productdomain.ErrInvalidProduct, err)
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.Evict(ctx, id)
	return p, nil
}

// Delete removes a product and evicts it from the cache.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.Evict(ctx, id)
	return nil
}

// Warm loads a product from Postgres into the cache. A product deleted in
// the meantime is not an error.
func (s *ProductService) Warm(ctx context.Context, id uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("warm product: %w", err)
	}
	if err := s.cache.Set(ctx, toCache(p)); err != nil {
		return fmt.Errorf("warm product: %w", err)
	}
	return nil
}

// Evict drops a product from the cache. Failures are logged; the entry
// expires on its own.
func (s *ProductService) Evict(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.WarnContext(ctx, "product cache evict failed", "product_id", id, "error", err)
	}
}

func (s *ProductService) store(ctx context.Context, p *models.Product) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, toCache(p)); err != nil {
		s.log.WarnContext(ctx, "product cache write failed", "product_id", p.ID, "error", err)
	}
}

func details(in Input) (models.Details, error) {
	name, err := models.NewProductName(in.Name)
	if err != nil {
		return models.Details{}, fmt.Errorf("%w: %w", productdomain.ErrInvalidProduct, err)
	}
	price, err := models.NewPrice(in.PriceCents)
	if err != nil {
		return models.Details{}, fmt.Errorf("%w: %w", productdomain.ErrInvalidProduct, err)
	}
	return models.Details{
		Name:        name,
		Description: in.Description,
		Category:    in.Category,
		Price:       price,
		Available:   in.Available,
	}, nil
}
