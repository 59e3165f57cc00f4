package main

import (
	"fmt"
	"net/http"
	"time"

	"buddybox/internal/domain/slots"
)

// listSlotsHandler returns the slots for a date, filtered. Slots on the
// current day that start before the booking cutoff are never listed.
//
// GET /v1/slots?date=2025-03-10&filter=available
func (app *application) listSlotsHandler(w http.ResponseWriter, r *http.Request) {
	date, filter, err := slotListParams(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, app.engine.FilteredSlots(date, filter, time.Now())); err != nil {
		app.internalServerError(w, r, err)
	}
}

// groupedSlotsHandler returns the date's slots with multi-hour bookings
// collapsed into a single card.
//
// GET /v1/slots/grouped?date=2025-03-10
func (app *application) groupedSlotsHandler(w http.ResponseWriter, r *http.Request) {
	date, _, err := slotListParams(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, app.engine.GroupedSlots(date, time.Now())); err != nil {
		app.internalServerError(w, r, err)
	}
}

func slotListParams(r *http.Request) (string, slots.Filter, error) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format(slots.DateLayout)
	} else if _, err := time.Parse(slots.DateLayout, date); err != nil {
		return "", "", fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}

	filter := slots.Filter(r.URL.Query().Get("filter"))
	if filter == "" {
		filter = slots.FilterAll
	}
	if !filter.Valid() {
		return "", "", fmt.Errorf("invalid filter %q, want all, available or booked", filter)
	}
	return date, filter, nil
}
