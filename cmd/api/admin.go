package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"buddybox/internal/domain/slots"
)

type HolidayPayload struct {
	SlotID string `json:"slot_id" validate:"required"`
	Title  string `json:"title" validate:"required,max=100"`
}

type DayPayload struct {
	Date  string `json:"date" validate:"required"`
	Title string `json:"title" validate:"required,max=100"`
}

// toggleHolidayHandler flips a single slot between holiday and free.
//
// POST /v1/admin/holiday
func (app *application) toggleHolidayHandler(w http.ResponseWriter, r *http.Request) {
	var payload HolidayPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err := app.engine.ToggleHoliday(r.Context(), payload.SlotID, payload.Title)
	switch {
	case errors.Is(err, slots.ErrSlotNotFound):
		app.notFoundResponse(w, r, err)
	case err != nil:
		app.internalServerError(w, r, err)
	default:
		if err := app.jsonResponse(w, http.StatusOK, map[string]string{"slot_id": payload.SlotID}); err != nil {
			app.internalServerError(w, r, err)
		}
	}
}

// markDayHolidayHandler marks every slot of a date as a holiday, the
// bulk form used when the venue closes for a full day.
//
// POST /v1/admin/holiday-day
func (app *application) markDayHolidayHandler(w http.ResponseWriter, r *http.Request) {
	app.dayMutation(w, r, app.engine.MarkDayHoliday)
}

// blockDayHandler blocks every slot of a date.
//
// POST /v1/admin/block-day
func (app *application) blockDayHandler(w http.ResponseWriter, r *http.Request) {
	app.dayMutation(w, r, app.engine.BlockDay)
}

func (app *application) dayMutation(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, date, title string) error) {
	var payload DayPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if _, err := time.Parse(slots.DateLayout, payload.Date); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err := op(r.Context(), payload.Date, payload.Title)
	switch {
	case errors.Is(err, slots.ErrSlotNotFound):
		app.notFoundResponse(w, r, err)
	case err != nil:
		app.internalServerError(w, r, err)
	default:
		if err := app.jsonResponse(w, http.StatusOK, map[string]string{"date": payload.Date}); err != nil {
			app.internalServerError(w, r, err)
		}
	}
}

// undoHandler restores the most recently touched slot to its prior
// state. Single-step: undoing a whole day block takes one call per slot.
//
// POST /v1/admin/undo
func (app *application) undoHandler(w http.ResponseWriter, r *http.Request) {
	restored, err := app.engine.Undo(r.Context())
	switch {
	case errors.Is(err, slots.ErrNothingToUndo):
		app.badRequestResponse(w, r, err)
	case err != nil:
		app.internalServerError(w, r, err)
	default:
		if err := app.jsonResponse(w, http.StatusOK, restored); err != nil {
			app.internalServerError(w, r, err)
		}
	}
}

// listHistoryHandler returns the full transaction ledger, newest first.
//
// GET /v1/admin/history
func (app *application) listHistoryHandler(w http.ResponseWriter, r *http.Request) {
	records, err := app.ledger.ListAll(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if err := app.jsonResponse(w, http.StatusOK, records); err != nil {
		app.internalServerError(w, r, err)
	}
}
