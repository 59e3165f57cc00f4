package promos

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) Get(ctx context.Context, code string) (*Promo, error) {
	const query = `SELECT code, discount FROM promo_codes WHERE code = $1`
	var p Promo
	err := r.db.QueryRow(ctx, query, code).Scan(&p.Code, &p.Discount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Upsert(ctx context.Context, p *Promo) error {
	const query = `
        INSERT INTO promo_codes (code, discount)
        VALUES ($1, $2)
        ON CONFLICT (code) DO UPDATE SET discount = EXCLUDED.discount`
	_, err := r.db.Exec(ctx, query, p.Code, p.Discount)
	return err
}

func (r *Repository) Delete(ctx context.Context, code string) error {
	const query = `DELETE FROM promo_codes WHERE code = $1`
	_, err := r.db.Exec(ctx, query, code)
	return err
}

func (r *Repository) List(ctx context.Context) ([]Promo, error) {
	const query = `SELECT code, discount FROM promo_codes ORDER BY code`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var promos []Promo
	for rows.Next() {
		var p Promo
		if err := rows.Scan(&p.Code, &p.Discount); err != nil {
			return nil, err
		}
		promos = append(promos, p)
	}
	return promos, rows.Err()
}
