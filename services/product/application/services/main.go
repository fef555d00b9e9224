package services

import (
	"github.com/ghuser/catalog/pkg/app"
	"github.com/ghuser/catalog/pkg/cache"
	"github.com/ghuser/catalog/services/product/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for the product
// bounded context.
type Services struct {
	Product *ProductService
}

// New wires the product services with the infrastructure in a.
func New(a *app.Application) *Services {
	repo := postgres.NewProductRepository(a.Db, a.EventBus)
	var productCache ProductCache
	if a.Redis != nil {
		productCache = cache.NewProductCache(a.Redis)
	}
	return &Services{
		Product: NewProductService(repo, productCache, a.Logger),
	}
}
