package slots

import (
	"errors"
	"fmt"
)

const (
	// OpeningHour and ClosingHour bound the bookable day: one slot per
	// hour in [OpeningHour, ClosingHour).
	OpeningHour = 5
	ClosingHour = 24

	// WeekDays is the size of the rolling window the venue sells.
	WeekDays = 7

	DateLayout = "2006-01-02"
)

var (
	ErrSlotNotFound    = errors.New("slot not found")
	ErrSlotUnavailable = errors.New("slot is not available for booking")
	ErrSlotTaken       = errors.New("slot was booked by another session")
	ErrNoBooking       = errors.New("slot has no booking")
	ErrNothingToUndo   = errors.New("nothing to undo")
)

// DurationExceededError is returned when a requested duration would run
// past midnight. Max carries the clamped maximum so the caller can
// re-prompt with a valid value.
type DurationExceededError struct {
	Max int
}

func (e *DurationExceededError) Error() string {
	unit := "hr"
	if e.Max > 1 {
		unit = "hrs"
	}
	return fmt.Sprintf("venue closes at midnight, max hours available: %d %s", e.Max, unit)
}

// Slot is one hourly bucket of a venue day. A slot is booked, holiday,
// blocked or free; never more than one of the first three at a time.
// Duration is carried by every slot of a multi-hour run, but only the
// run's first slot is surfaced as a card by the grouped view.
type Slot struct {
	ID           string `json:"id"` // "<date>-<hour>"
	Date         string `json:"date"`
	StartHour    int    `json:"start_hour"`
	EndHour      int    `json:"end_hour"`
	IsBooked     bool   `json:"is_booked"`
	Name         string `json:"name,omitempty"`
	Mobile       string `json:"mobile,omitempty"`
	Members      int    `json:"members,omitempty"`
	Duration     int    `json:"duration,omitempty"`
	IsHoliday    bool   `json:"is_holiday"`
	HolidayTitle string `json:"holiday_title,omitempty"`
	IsBlocked    bool   `json:"is_blocked"`
	BlockTitle   string `json:"block_title,omitempty"`
}

// BookingDetails is the customer side of a confirmed booking, applied
// identically to every slot of the run.
type BookingDetails struct {
	Name     string
	Mobile   string
	Members  int
	Duration int
	Price    int
}

// SlotID builds the composite identity used everywhere: "<date>-<hour>".
func SlotID(date string, hour int) string {
	return fmt.Sprintf("%s-%d", date, hour)
}

// IsFree reports whether the slot can take a booking.
func (s *Slot) IsFree() bool {
	return !s.IsBooked && !s.IsHoliday && !s.IsBlocked
}

// reset returns the slot to its empty free state, clearing booking,
// holiday and block attributes alike.
func (s *Slot) reset() {
	s.IsBooked = false
	s.Name = ""
	s.Mobile = ""
	s.Members = 0
	s.Duration = 0
	s.IsHoliday = false
	s.HolidayTitle = ""
	s.IsBlocked = false
	s.BlockTitle = ""
}
