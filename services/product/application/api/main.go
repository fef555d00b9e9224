package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/catalog/pkg/app"
	"github.com/ghuser/catalog/pkg/errhttp"
	"github.com/ghuser/catalog/services/product/application/handlers"
	appsvcs "github.com/ghuser/catalog/services/product/application/services"
	productdomain "github.com/ghuser/catalog/services/product/domain"
)

// ErrorOptions maps the product domain's sentinel errors to error-layer
// kinds. Pass them to errhttp.New when building the Translator.
func ErrorOptions() []errhttp.Option {
	return []errhttp.Option{
		errhttp.WithSentinel(productdomain.ErrProductNotFound, errhttp.KindNotFound),
		errhttp.WithSentinel(productdomain.ErrProductAlreadyExists, errhttp.KindValidationFailure),
		errhttp.WithSentinel(productdomain.ErrInvalidProduct, errhttp.KindValidationFailure),
	}
}

// ProductRoutes registers the product endpoints on r.
func ProductRoutes(r chi.Router, a *app.Application) {
	Routes(r, appsvcs.New(a), a.Errors)
}

// Routes registers the product endpoints backed by svcs.
func Routes(r chi.Router, svcs *appsvcs.Services, errs *errhttp.Translator) {
	requireJSON := errs.RequireContentType("application/json")

	r.Route("/products", func(r chi.Router) {
		r.Get("/", handlers.NewListProductsHandler(svcs, errs).Execute)
		r.With(requireJSON).Post("/", handlers.NewPostProductHandler(svcs, errs).Execute)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handlers.NewGetProductHandler(svcs, errs).Execute)
			r.With(requireJSON).Put("/", handlers.NewPutProductHandler(svcs, errs).Execute)
			r.Delete("/", handlers.NewDeleteProductHandler(svcs, errs).Execute)
		})
	})
}
