package history

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, rec *Record) error {
	const query = `
        INSERT INTO booking_history
            (transaction_id, name, mobile, date, start_hour, duration, members, price, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		rec.TransactionID,
		rec.Name,
		rec.Mobile,
		rec.Date,
		rec.StartHour,
		rec.Duration,
		rec.Members,
		rec.Price,
		rec.CreatedAt,
	)
	return err
}

func (r *Repository) List(ctx context.Context) ([]Record, error) {
	const query = `
        SELECT transaction_id, name, mobile, date, start_hour, duration, members, price, created_at
        FROM booking_history
        ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.TransactionID,
			&rec.Name,
			&rec.Mobile,
			&rec.Date,
			&rec.StartHour,
			&rec.Duration,
			&rec.Members,
			&rec.Price,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *Repository) CountByMobile(ctx context.Context, mobile string) (int, error) {
	const query = `SELECT COUNT(*) FROM booking_history WHERE mobile = $1`
	var count int
	if err := r.db.QueryRow(ctx, query, mobile).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
