package main

import (
	"errors"
	"net/http"

	"buddybox/internal/domain/promos"

	"github.com/go-chi/chi/v5"
)

type CreatePromoPayload struct {
	Code     string `json:"code" validate:"required,alphanum,max=32"`
	Discount int    `json:"discount" validate:"required,min=1,max=100"`
	Edit     bool   `json:"edit"`
}

// GET /v1/promos
func (app *application) listPromosHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.promos.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createPromoHandler creates a promo code, or updates one when edit is
// set. A duplicate code without edit is rejected and the registry left
// untouched.
//
// POST /v1/promos
func (app *application) createPromoHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreatePromoPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err := app.promos.AddOrUpdate(r.Context(), payload.Code, payload.Discount, payload.Edit)
	switch {
	case errors.Is(err, promos.ErrDuplicateCode):
		app.conflictResponse(w, r, err)
	case errors.Is(err, promos.ErrInvalidDiscount):
		app.badRequestResponse(w, r, err)
	case err != nil:
		app.internalServerError(w, r, err)
	default:
		if err := app.jsonResponse(w, http.StatusCreated, promos.Promo{Code: payload.Code, Discount: payload.Discount}); err != nil {
			app.internalServerError(w, r, err)
		}
	}
}

// DELETE /v1/promos/{code}
func (app *application) deletePromoHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := app.promos.Remove(r.Context(), code); err != nil {
		app.internalServerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
