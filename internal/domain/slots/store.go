package slots

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the persistence collaborator the engine flushes to. Records
// are keyed by (date, id); reads for an unknown date return an empty
// sequence.
type Store interface {
	GetForDate(ctx context.Context, date string) ([]Slot, error)
	Upsert(ctx context.Context, s Slot) error
	UpsertRun(ctx context.Context, run []Slot) error
	MarkHolidayForDate(ctx context.Context, date, title string) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

const slotColumns = `id, date, start_hour, end_hour, is_booked, name, mobile,
        members, duration, is_holiday, holiday_title, is_blocked, block_title`

const upsertSlotQuery = `
        INSERT INTO slots
            (id, date, start_hour, end_hour, is_booked, name, mobile,
             members, duration, is_holiday, holiday_title, is_blocked, block_title)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        ON CONFLICT (id) DO UPDATE SET
            is_booked = EXCLUDED.is_booked,
            name = EXCLUDED.name,
            mobile = EXCLUDED.mobile,
            members = EXCLUDED.members,
            duration = EXCLUDED.duration,
            is_holiday = EXCLUDED.is_holiday,
            holiday_title = EXCLUDED.holiday_title,
            is_blocked = EXCLUDED.is_blocked,
            block_title = EXCLUDED.block_title`

func (r *Repository) GetForDate(ctx context.Context, date string) ([]Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE date = $1 ORDER BY start_hour`
	rows, err := r.db.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Slot
	for rows.Next() {
		var s Slot
		if err := rows.Scan(
			&s.ID, &s.Date, &s.StartHour, &s.EndHour, &s.IsBooked,
			&s.Name, &s.Mobile, &s.Members, &s.Duration,
			&s.IsHoliday, &s.HolidayTitle, &s.IsBlocked, &s.BlockTitle,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) Upsert(ctx context.Context, s Slot) error {
	_, err := r.db.Exec(ctx, upsertSlotQuery,
		s.ID, s.Date, s.StartHour, s.EndHour, s.IsBooked,
		s.Name, s.Mobile, s.Members, s.Duration,
		s.IsHoliday, s.HolidayTitle, s.IsBlocked, s.BlockTitle,
	)
	return err
}

// UpsertRun writes every slot of a run in one round-trip using pgx.Batch.
func (r *Repository) UpsertRun(ctx context.Context, run []Slot) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, s := range run {
		batch.Queue(upsertSlotQuery,
			s.ID, s.Date, s.StartHour, s.EndHour, s.IsBooked,
			s.Name, s.Mobile, s.Members, s.Duration,
			s.IsHoliday, s.HolidayTitle, s.IsBlocked, s.BlockTitle,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range run {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return err
		}
	}
	if err := br.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// MarkHolidayForDate is the bulk holiday write: every slot of the date
// becomes a holiday with the given title, clearing any prior state.
func (r *Repository) MarkHolidayForDate(ctx context.Context, date, title string) error {
	const query = `
        UPDATE slots SET
            is_booked = FALSE, name = '', mobile = '', members = 0, duration = 0,
            is_holiday = TRUE, holiday_title = $2,
            is_blocked = FALSE, block_title = ''
        WHERE date = $1`
	_, err := r.db.Exec(ctx, query, date, title)
	return err
}
