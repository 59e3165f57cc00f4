// Package history keeps the append-only record of completed
// transactions. Records back receipts, reporting and the loyalty count
// used by pricing; they are never mutated or deleted.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record is one completed transaction. Immutable once appended.
type Record struct {
	TransactionID string    `json:"transaction_id"`
	Name          string    `json:"name"`
	Mobile        string    `json:"mobile"`
	Date          string    `json:"date"`
	StartHour     int       `json:"start_hour"`
	Duration      int       `json:"duration"`
	Members       int       `json:"members"`
	Price         int       `json:"price"`
	CreatedAt     time.Time `json:"created_at"`
}

type Store interface {
	Insert(ctx context.Context, rec *Record) error
	List(ctx context.Context) ([]Record, error)
	CountByMobile(ctx context.Context, mobile string) (int, error)
}

type Ledger struct {
	store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// Append assigns the transaction id and creation timestamp, then
// persists the record.
func (l *Ledger) Append(ctx context.Context, rec *Record) error {
	rec.TransactionID = newTransactionID()
	rec.CreatedAt = time.Now().UTC()
	return l.store.Insert(ctx, rec)
}

func (l *Ledger) ListAll(ctx context.Context) ([]Record, error) {
	return l.store.List(ctx)
}

// CountForCustomer returns the customer's completed booking count, keyed
// by mobile number. Drives the loyalty discount on the next booking.
func (l *Ledger) CountForCustomer(ctx context.Context, mobile string) (int, error) {
	return l.store.CountByMobile(ctx, mobile)
}

// newTransactionID is a millisecond timestamp with a random suffix.
// Collisions are treated as negligible for a single venue.
func newTransactionID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
