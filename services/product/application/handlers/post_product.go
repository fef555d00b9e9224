package handlers

import (
	"net/http"

	"github.com/ghuser/catalog/pkg/errhttp"
	"github.com/ghuser/catalog/pkg/httpx"
	pkgvalidator "github.com/ghuser/catalog/pkg/validator"
	appsvcs "github.com/ghuser/catalog/services/product/application/services"
)

// PostProductHandler handles POST /products.
type PostProductHandler struct {
	svc  *appsvcs.Services
	errs *errhttp.Translator
}

// NewPostProductHandler returns a PostProductHandler.
func NewPostProductHandler(svc *appsvcs.Services, errs *errhttp.Translator) *PostProductHandler {
	return &PostProductHandler{svc: svc, errs: errs}
}

// Execute creates a product and answers 201 with it.
//
//	@Summary		Create product
//	@Description	Creates a catalog product. Names are unique, ignoring case.
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ProductRequest	true	"Product"
//	@Success		201		{object}	ProductResponse
//	@Failure		400		{object}	errhttp.ErrorResponse
//	@Failure		405		{object}	errhttp.ErrorResponse
//	@Failure		415		{object}	errhttp.ErrorResponse
//	@Failure		500		{object}	errhttp.ErrorResponse
//	@Router			/products [post]
func (h *PostProductHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, err := pkgvalidator.Decode[ProductRequest](r)
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}

	p, err := h.svc.Product.Create(r.Context(), req.input())
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/products/"+p.ID.String())
	httpx.JSON(w, http.StatusCreated, toResponse(p))
}
