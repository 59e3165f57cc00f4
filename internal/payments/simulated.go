package payments

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// SimulatedGateway stands in for a real UPI provider. Initiate builds
// the upi:// intent URI immediately; Verify waits the configured delay
// and reports success. No lock is held during the wait, so the booking
// engine must re-check slot state after Verify returns.
type SimulatedGateway struct {
	vpa   string
	payee string
	delay time.Duration
}

func NewSimulatedGateway(vpa, payee string, delay time.Duration) *SimulatedGateway {
	return &SimulatedGateway{vpa: vpa, payee: payee, delay: delay}
}

func (g *SimulatedGateway) Initiate(_ context.Context, req PaymentRequest) (PaymentIntent, error) {
	ref := req.TransactionRef
	if ref == "" {
		ref = uuid.NewString()
	}
	q := url.Values{}
	q.Set("pa", g.vpa)
	q.Set("pn", g.payee)
	q.Set("am", fmt.Sprintf("%d.00", req.Amount))
	q.Set("tr", ref)
	q.Set("tn", req.ProductName)
	q.Set("cu", "INR")
	return PaymentIntent{Ref: ref, URI: "upi://pay?" + q.Encode()}, nil
}

// Verify simulates the settlement delay. Cancelling the context models
// the customer closing the payment modal: the error propagates and no
// state is mutated anywhere.
func (g *SimulatedGateway) Verify(ctx context.Context, _ string) error {
	t := time.NewTimer(g.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var _ Gateway = (*SimulatedGateway)(nil)
