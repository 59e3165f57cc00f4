package main

import (
	"fmt"
	"net/http"
	"strings"

	"buddybox/internal/qr"
)

// paymentQRHandler renders a payment-intent URI as a scannable PNG.
// Failures are recoverable: the customer can retry or pay at the
// counter.
//
// GET /v1/payments/qr?uri=upi%3A%2F%2Fpay%3F...
func (app *application) paymentQRHandler(w http.ResponseWriter, r *http.Request) {
	uri := r.URL.Query().Get("uri")
	if uri == "" {
		app.badRequestResponse(w, r, fmt.Errorf("missing uri"))
		return
	}
	if !strings.HasPrefix(uri, "upi://") {
		app.badRequestResponse(w, r, fmt.Errorf("unsupported payment uri"))
		return
	}

	png, err := qr.Generate(uri)
	if err != nil {
		app.logger.Errorw("qr generation failed", "error", err)
		writeJSONError(w, http.StatusBadGateway, "could not render payment code, please retry")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
