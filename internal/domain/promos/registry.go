// Package promos maps promotional codes to their percentage discounts.
// Codes are unique; creation, edit and removal are staff operations.
package promos

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("promo code not found")
	ErrDuplicateCode   = errors.New("promo code already exists")
	ErrInvalidDiscount = errors.New("discount must be between 1 and 100")
)

type Promo struct {
	Code     string `json:"code"`
	Discount int    `json:"discount"`
}

type Store interface {
	Get(ctx context.Context, code string) (*Promo, error)
	Upsert(ctx context.Context, p *Promo) error
	Delete(ctx context.Context, code string) error
	List(ctx context.Context) ([]Promo, error)
}

type Registry struct {
	store Store
}

func NewRegistry(store Store) *Registry {
	return &Registry{store: store}
}

// AddOrUpdate creates a promo code, or updates it when edit is set.
// Creating a code that already exists fails with ErrDuplicateCode and
// leaves the registry unchanged.
func (r *Registry) AddOrUpdate(ctx context.Context, code string, discount int, edit bool) error {
	if discount <= 0 || discount > 100 {
		return ErrInvalidDiscount
	}
	_, err := r.store.Get(ctx, code)
	switch {
	case err == nil && !edit:
		return ErrDuplicateCode
	case err != nil && !errors.Is(err, ErrNotFound):
		return err
	}
	return r.store.Upsert(ctx, &Promo{Code: code, Discount: discount})
}

// Remove deletes a promo code. Removing an unknown code is a no-op.
func (r *Registry) Remove(ctx context.Context, code string) error {
	return r.store.Delete(ctx, code)
}

// Lookup resolves a code to its discount percent.
func (r *Registry) Lookup(ctx context.Context, code string) (int, error) {
	p, err := r.store.Get(ctx, code)
	if err != nil {
		return 0, err
	}
	return p.Discount, nil
}

func (r *Registry) List(ctx context.Context) ([]Promo, error) {
	return r.store.List(ctx)
}
