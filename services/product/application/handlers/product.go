package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/catalog/pkg/errhttp"
	appsvcs "github.com/ghuser/catalog/services/product/application/services"
	"github.com/ghuser/catalog/services/product/domain/models"
	"github.com/ghuser/catalog/services/product/domain/repositories"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ProductRequest is the body of POST /products and PUT /products/{id}.
// PUT replaces every field; an omitted "available" means true.
type ProductRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category"    validate:"omitempty,max=50"`
	PriceCents  *int64 `json:"price_cents" validate:"required,gte=0"`
	Available   *bool  `json:"available"`
}

func (req *ProductRequest) input() appsvcs.Input {
	in := appsvcs.Input{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		PriceCents:  *req.PriceCents,
		Available:   true,
	}
	if req.Available != nil {
		in.Available = *req.Available
	}
	return in
}

// ProductResponse is the JSON representation of a product.
type ProductResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	PriceCents  int64     `json:"price_cents"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListProductsResponse is one page of products.
type ListProductsResponse struct {
	Items  []ProductResponse `json:"items"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

func toResponse(p *models.Product) ProductResponse {
	return ProductResponse{
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

// productID parses the {id} path parameter.
func productID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errhttp.BadRequest("id must be a valid UUID")
	}
	return id, nil
}

// listOpts parses ?limit=&offset=&category=.
func listOpts(r *http.Request) (repositories.ListOpts, error) {
	q := r.URL.Query()
	opts := repositories.ListOpts{Limit: defaultPageSize, Category: q.Get("category")}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageSize {
			return opts, errhttp.BadRequest("limit must be an integer between 1 and " + strconv.Itoa(maxPageSize))
		}
		opts.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errhttp.BadRequest("offset must be a non-negative integer")
		}
		opts.Offset = n
	}
	return opts, nil
}
