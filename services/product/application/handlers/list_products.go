package handlers

import (
	"net/http"

	"github.com/ghuser/catalog/pkg/errhttp"
	"github.com/ghuser/catalog/pkg/httpx"
	appsvcs "github.com/ghuser/catalog/services/product/application/services"
)

// ListProductsHandler handles GET /products.
type ListProductsHandler struct {
	svc  *appsvcs.Services
	errs *errhttp.Translator
}

func NewListProductsHandler(svc *appsvcs.Services, errs *errhttp.Translator) *ListProductsHandler {
	return &ListProductsHandler{svc: svc, errs: errs}
}

// Execute answers one page, newest first. Defaults: limit 20, offset 0.
//
//	@Summary		List products
//	@Tags			products
//	@Produce		json
//	@Param			limit		query		int		false	"Page size (1-100)"	default(20)
//	@Param			offset		query		int		false	"Items to skip"		default(0)
//	@Param			category	query		string	false	"Category slug"
//	@Success		200			{object}	ListProductsResponse
//	@Failure		400			{object}	errhttp.ErrorResponse
//	@Failure		405			{object}	errhttp.ErrorResponse
//	@Failure		500			{object}	errhttp.ErrorResponse
//	@Router			/products [get]
func (h *ListProductsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	opts, err := listOpts(r)
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}

	products, total, err := h.svc.Product.List(r.Context(), opts)
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}

	items := make([]ProductResponse, len(products))
	for i, p := range products {
		items[i] = toResponse(p)
	}
	httpx.JSON(w, http.StatusOK, ListProductsResponse{
		Items:  items,
		Total:  total,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
}
