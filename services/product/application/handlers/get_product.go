package handlers

import (
	"net/http"

	"github.com/ghuser/catalog/pkg/errhttp"
	"github.com/ghuser/catalog/pkg/httpx"
	appsvcs "github.com/ghuser/catalog/services/product/application/services"
)

// GetProductHandler handles GET /products/{id}.
type GetProductHandler struct {
	svc  *appsvcs.Services
	errs *errhttp.Translator
}

func NewGetProductHandler(svc *appsvcs.Services, errs *errhttp.Translator) *GetProductHandler {
	return &GetProductHandler{svc: svc, errs: errs}
}

// Execute answers the product with the given id.
//
//	@Summary		Get product
//	@Tags			products
//	@Produce		json
//	@Param			id	path		string	true	"Product ID"	format(uuid)
//	@Success		200	{object}	ProductResponse
//	@Failure		400	{object}	errhttp.ErrorResponse
//	@Failure		404	{object}	errhttp.ErrorResponse
//	@Failure		405	{object}	errhttp.ErrorResponse
//	@Failure		500	{object}	errhttp.ErrorResponse
//	@Router			/products/{id} [get]
func (h *GetProductHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}

	p, err := h.svc.Product.Get(r.Context(), id)
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(p))
}
