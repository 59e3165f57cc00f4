package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"buddybox/internal/domain/pricing"
	"buddybox/internal/domain/promos"
	"buddybox/internal/domain/slots"
	"buddybox/internal/payments"

	"github.com/go-chi/chi/v5"
)

type QuotePayload struct {
	SlotID    string `json:"slot_id" validate:"required"`
	Duration  int    `json:"duration" validate:"required,min=1,max=24"`
	Members   int    `json:"members" validate:"required,min=1,max=50"`
	Mobile    string `json:"mobile" validate:"omitempty,mobile"`
	PromoCode string `json:"promo_code" validate:"omitempty,alphanum,max=32"`
}

type BookingPayload struct {
	SlotID    string `json:"slot_id" validate:"required"`
	Name      string `json:"name" validate:"required,max=100"`
	Mobile    string `json:"mobile" validate:"required,mobile"`
	Duration  int    `json:"duration" validate:"required,min=1,max=24"`
	Members   int    `json:"members" validate:"required,min=1,max=50"`
	PromoCode string `json:"promo_code" validate:"omitempty,alphanum,max=32"`
}

// BookingReceipt is the payload a successful booking returns: the ledger
// record, the itemized price and the payment intent the QR encoded.
type BookingReceipt struct {
	Receipt any                    `json:"receipt"`
	Quote   pricing.Quote          `json:"quote"`
	Payment payments.PaymentIntent `json:"payment"`
}

// quoteBookingHandler validates a slot selection and prices it without
// touching any state. A too-long duration comes back as 422 with the
// clamped maximum so the UI can re-prompt.
//
// POST /v1/bookings/quote
func (app *application) quoteBookingHandler(w http.ResponseWriter, r *http.Request) {
	var payload QuotePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	quote, err := app.buildQuote(r.Context(), payload.SlotID, payload.Duration, payload.Members, payload.Mobile, payload.PromoCode)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, quote); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createBookingHandler runs the whole flow: price the selection, hand
// the customer a payment intent, wait out the simulated settlement, then
// commit. The engine re-checks the authoritative store at commit time,
// so a slot grabbed by another session during payment surfaces as 409.
//
// POST /v1/bookings
func (app *application) createBookingHandler(w http.ResponseWriter, r *http.Request) {
	var payload BookingPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	quote, err := app.buildQuote(ctx, payload.SlotID, payload.Duration, payload.Members, payload.Mobile, payload.PromoCode)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	intent, err := app.gateway.Initiate(ctx, payments.PaymentRequest{
		Amount:        quote.Total,
		ProductName:   fmt.Sprintf("%s %s", app.config.venueName, payload.SlotID),
		CustomerName:  payload.Name,
		CustomerPhone: payload.Mobile,
	})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.gateway.Verify(ctx, intent.Ref); err != nil {
		// Customer closed the payment window; nothing was written.
		app.logger.Infow("payment abandoned", "slot", payload.SlotID, "error", err)
		return
	}

	rec, err := app.engine.ConfirmBooking(ctx, payload.SlotID, slots.BookingDetails{
		Name:     payload.Name,
		Mobile:   payload.Mobile,
		Members:  payload.Members,
		Duration: payload.Duration,
		Price:    quote.Total,
	})
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, BookingReceipt{
		Receipt: rec,
		Quote:   quote,
		Payment: intent,
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// cancelBookingHandler frees a booked run. Staff only; slotID may be
// any slot of the run, not just the grouped card's first slot.
//
// DELETE /v1/bookings/{slotID}
func (app *application) cancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	slotID := chi.URLParam(r, "slotID")

	err := app.engine.CancelBooking(r.Context(), slotID)
	switch {
	case errors.Is(err, slots.ErrSlotNotFound):
		app.notFoundResponse(w, r, err)
	case errors.Is(err, slots.ErrNoBooking):
		app.badRequestResponse(w, r, err)
	case err != nil:
		app.internalServerError(w, r, err)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// buildQuote validates the selection and resolves promo and loyalty
// discounts into a price.
func (app *application) buildQuote(ctx context.Context, slotID string, duration, members int, mobile, promoCode string) (pricing.Quote, error) {
	if err := app.engine.SelectSlot(slotID, duration); err != nil {
		return pricing.Quote{}, err
	}

	discount := 0
	if promoCode != "" {
		d, err := app.promos.Lookup(ctx, promoCode)
		if err != nil {
			return pricing.Quote{}, err
		}
		discount = d
	}

	prior := 0
	if mobile != "" {
		count, err := app.ledger.CountForCustomer(ctx, mobile)
		if err != nil {
			app.logger.Warnw("loyalty count unavailable", "error", err)
		} else {
			prior = count
		}
	}

	return pricing.Compute(members, duration, prior, discount)
}

// bookingErrorResponse maps engine and pricing failures onto the HTTP
// surface. DurationExceeded carries the clamped maximum in the body.
func (app *application) bookingErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var durErr *slots.DurationExceededError
	switch {
	case errors.As(err, &durErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"success":   false,
			"message":   durErr.Error(),
			"max_hours": durErr.Max,
		})
	case errors.Is(err, slots.ErrSlotNotFound):
		app.notFoundResponse(w, r, err)
	case errors.Is(err, slots.ErrSlotTaken), errors.Is(err, slots.ErrSlotUnavailable):
		app.conflictResponse(w, r, err)
	case errors.Is(err, pricing.ErrInvalidPartySize), errors.Is(err, pricing.ErrInvalidDuration):
		app.badRequestResponse(w, r, err)
	case errors.Is(err, promos.ErrNotFound):
		app.badRequestResponse(w, r, fmt.Errorf("unknown promo code"))
	default:
		app.internalServerError(w, r, err)
	}
}
