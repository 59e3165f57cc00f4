package main

import (
	"net/http"
	"time"

	"buddybox/internal/domain/slots"
)

type boardSession struct {
	Slot      slots.Slot `json:"slot"`
	Remaining string     `json:"remaining"`
}

type displayBoard struct {
	Venue    string        `json:"venue"`
	Clock    string        `json:"clock"`
	Current  *boardSession `json:"current,omitempty"`
	Upcoming []slots.Slot  `json:"upcoming"`
}

const upcomingBoardCount = 4

// displayBoardHandler feeds the TV board: the session on the turf right
// now with its countdown, and the next few booked sessions today and
// tomorrow.
//
// GET /v1/display/board
func (app *application) displayBoardHandler(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	board := displayBoard{
		Venue:    app.config.venueName,
		Clock:    now.Format("3:04 PM"),
		Upcoming: app.engine.Upcoming(now, upcomingBoardCount),
	}
	if active := app.engine.CurrentActive(now); active != nil {
		board.Current = &boardSession{
			Slot:      *active,
			Remaining: slots.RemainingTime(*active, now),
		}
	}

	if err := app.jsonResponse(w, http.StatusOK, board); err != nil {
		app.internalServerError(w, r, err)
	}
}
