// Package pricing maps a booking request to an itemized price. It is
// pure: party size and duration pick the tier, promo and loyalty
// discounts apply multiplicatively on top, and rounding happens once per
// figure.
package pricing

import (
	"errors"
	"math"
)

var (
	ErrInvalidPartySize = errors.New("party size must be 6 or 12")
	ErrInvalidDuration  = errors.New("duration must be 1, 3, 6 or 12 hours")
)

// LoyaltyThreshold is the completed-booking count, current booking
// included, from which the loyalty discount applies.
const LoyaltyThreshold = 5

const loyaltyPercent = 2

// Quote is the receipt-ready breakdown of a priced booking.
type Quote struct {
	HourlyRate     int    `json:"hourly_rate"`
	Subtotal       int    `json:"subtotal"`
	Total          int    `json:"total"`
	DurationDeal   string `json:"duration_deal,omitempty"`
	PromoPercent   int    `json:"promo_percent"`
	LoyaltyPercent int    `json:"loyalty_percent"`
}

// Compute prices a booking. priorBookings is the customer's completed
// booking count before this one; promoPercent is the resolved promo
// discount (0 when none). Discounts chain multiplicatively: duration
// tier, then promo, then loyalty.
func Compute(members, duration, priorBookings, promoPercent int) (Quote, error) {
	var rate int
	switch members {
	case 6:
		rate = 250
	case 12:
		rate = 400
	default:
		return Quote{}, ErrInvalidPartySize
	}

	var hours float64
	var deal string
	switch duration {
	case 1:
		hours = 1
	case 3:
		hours = 3
	case 6:
		hours = 6 * 0.90
		deal = "10% off on 6 hours"
	case 12:
		hours = 12 * 0.85
		deal = "15% off on 12 hours"
	default:
		return Quote{}, ErrInvalidDuration
	}

	subtotal := float64(rate) * hours
	total := subtotal * (1 - float64(promoPercent)/100)

	loyalty := 0
	if priorBookings+1 >= LoyaltyThreshold {
		loyalty = loyaltyPercent
		total *= 1 - float64(loyaltyPercent)/100
	}

	return Quote{
		HourlyRate:     rate,
		Subtotal:       roundHalfUp(subtotal),
		Total:          roundHalfUp(total),
		DurationDeal:   deal,
		PromoPercent:   promoPercent,
		LoyaltyPercent: loyalty,
	}, nil
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
