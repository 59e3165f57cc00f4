// Package payments drives the checkout step of a booking. Real payment
// processing is out of scope; the simulated gateway reproduces the
// timing and cancellation behavior of a UPI flow without moving money.
package payments

import "context"

// PaymentRequest describes what the customer is paying for.
type PaymentRequest struct {
	TransactionRef string
	Amount         int
	ProductName    string
	CustomerName   string
	CustomerPhone  string
}

// PaymentIntent is what the presentation layer turns into a QR code.
type PaymentIntent struct {
	Ref string `json:"ref"`
	URI string `json:"uri"`
}

// Gateway is the payment collaborator the booking flow drives. Initiate
// produces the intent the customer scans; Verify resolves once the
// payment settles or fails with the context error when the customer
// closes the payment window.
type Gateway interface {
	Initiate(ctx context.Context, req PaymentRequest) (PaymentIntent, error)
	Verify(ctx context.Context, ref string) error
}
