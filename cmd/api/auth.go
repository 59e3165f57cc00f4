package main

import (
	"crypto/subtle"
	"fmt"
	"net/http"
)

type CreateTokenPayload struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=100"`
}

// createTokenHandler exchanges the shared staff credential for a staff
// session token. There is a single credential for the whole venue; no
// per-user accounts.
func (app *application) createTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(payload.Username), []byte(app.config.auth.basic.user)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(payload.Password), []byte(app.config.auth.basic.pass)) == 1
	if !userOK || !passOK {
		app.unauthorizedErrorResponse(w, r, fmt.Errorf("invalid credentials"))
		return
	}

	token, err := app.authenticator.GenerateStaffToken()
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"token": token}); err != nil {
		app.internalServerError(w, r, err)
	}
}
