package handlers

import (
	"net/http"

	"github.com/ghuser/catalog/pkg/errhttp"
	"github.com/ghuser/catalog/pkg/httpx"
	pkgvalidator "github.com/ghuser/catalog/pkg/validator"
	appsvcs "github.com/ghuser/catalog/services/product/application/services"
)

// PutProductHandler handles PUT /products/{id}.
type PutProductHandler struct {
	svc  *appsvcs.Services
	errs *errhttp.Translator
}

func NewPutProductHandler(svc *appsvcs.Services, errs *errhttp.Translator) *PutProductHandler {
	return &PutProductHandler{svc: svc, errs: errs}
}

// Execute replaces the product's editable fields.
//
//	@Summary		Replace product
//	@Description	Replaces every editable field. An omitted "available" means true.
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Product ID"	format(uuid)
//	@Param			request	body		ProductRequest	true	"Product"
//	@Success		200		{object}	ProductResponse
//	@Failure		400		{object}	errhttp.ErrorResponse
//	@Failure		404		{object}	errhttp.ErrorResponse
//	@Failure		405		{object}	errhttp.ErrorResponse
//	@Failure		415		{object}	errhttp.ErrorResponse
//	@Failure		500		{object}	errhttp.ErrorResponse
//	@Router			/products/{id} [put]
func (h *PutProductHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}
	req, err := pkgvalidator.Decode[ProductRequest](r)
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}

	p, err := h.svc.Product.Update(r.Context(), id, req.input())
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(p))
}
