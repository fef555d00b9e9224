package handlers

import (
	"net/http"

	"github.com/ghuser/catalog/pkg/errhttp"
	"github.com/ghuser/catalog/pkg/httpx"
	appsvcs "github.com/ghuser/catalog/services/product/application/services"
)

// DeleteProductHandler handles DELETE /products/{id}.
type DeleteProductHandler struct {
	svc  *appsvcs.Services
	errs *errhttp.Translator
}

func NewDeleteProductHandler(svc *appsvcs.Services, errs *errhttp.Translator) *DeleteProductHandler {
	return &DeleteProductHandler{svc: svc, errs: errs}
}

// Execute removes the product and answers 204.
//
//	@Summary		Delete product
//	@Tags			products
//	@Param			id	path	string	true	"Product ID"	format(uuid)
//	@Success		204
//	@Failure		400	{object}	errhttp.ErrorResponse
//	@Failure		404	{object}	errhttp.ErrorResponse
//	@Failure		405	{object}	errhttp.ErrorResponse
//	@Failure		500	{object}	errhttp.ErrorResponse
//	@Router			/products/{id} [delete]
func (h *DeleteProductHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}
	if err := h.svc.Product.Delete(r.Context(), id); err != nil {
		h.errs.WriteError(w, r, err)
		return
	}
	httpx.NoContent(w)
}
