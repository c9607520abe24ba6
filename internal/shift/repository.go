package shift

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrOpenShift    = errors.New("shift already open")
	ErrNoShiftToday = errors.New("no shift today")
	ErrShiftClosed  = errors.New("shift already closed")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) CheckIn(ctx context.Context, monitorCode string, day, at time.Time) (*ShiftRecord, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Serialize transitions per monitor. The users row is the only thing
	// that always exists to lock on a first check-in.
	var code string
	err = tx.GetContext(ctx, &code,
		`SELECT code FROM users WHERE code = $1 FOR UPDATE`, monitorCode)
	if err != nil {
		return nil, err
	}

	latest, err := latestOfDay(ctx, tx, monitorCode, day)
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.Open() {
		return nil, ErrOpenShift
	}

	var record ShiftRecord
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO shift_records (monitor_code, date, check_in)
		VALUES ($1, $2, $3)
		RETURNING id, monitor_code, date, check_in, check_out
	`, monitorCode, day, at).StructScan(&record)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *repository) CheckOut(ctx context.Context, monitorCode string, day, at time.Time) (*ShiftRecord, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var code string
	err = tx.GetContext(ctx, &code,
		`SELECT code FROM users WHERE code = $1 FOR UPDATE`, monitorCode)
	if err != nil {
		return nil, err
	}

	latest, err := latestOfDay(ctx, tx, monitorCode, day)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, ErrNoShiftToday
	}
	if !latest.Open() {
		return nil, ErrShiftClosed
	}

	var record ShiftRecord
	err = tx.QueryRowxContext(ctx, `
		UPDATE shift_records SET check_out = $2
		WHERE id = $1
		RETURNING id, monitor_code, date, check_in, check_out
	`, latest.ID, at).StructScan(&record)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &record, nil
}

func latestOfDay(ctx context.Context, tx *sqlx.Tx, monitorCode string, day time.Time) (*ShiftRecord, error) {
	var record ShiftRecord
	err := tx.GetContext(ctx, &record, `
		SELECT id, monitor_code, date, check_in, check_out
		FROM shift_records
		WHERE monitor_code = $1 AND date = $2
		ORDER BY check_in DESC
		LIMIT 1
	`, monitorCode, day)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) ListByMonitor(ctx context.Context, monitorCode string, from, to time.Time, limit, offset int) ([]ShiftRecord, error) {
	var records []ShiftRecord
	err := r.db.SelectContext(ctx, &records, `
		SELECT id, monitor_code, date, check_in, check_out
		FROM shift_records
		WHERE monitor_code = $1 AND date BETWEEN $2 AND $3
		ORDER BY date DESC, check_in DESC
		LIMIT $4 OFFSET $5
	`, monitorCode, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) Summarize(ctx context.Context, monitorCode string, from, to time.Time) (*ShiftSummary, error) {
	var summary ShiftSummary
	err := r.db.GetContext(ctx, &summary, `
		SELECT
			COUNT(DISTINCT date) AS days_worked,
			COALESCE(SUM(EXTRACT(EPOCH FROM (check_out - check_in)) / 60), 0)::int AS total_minutes
		FROM shift_records
		WHERE monitor_code = $1 AND date BETWEEN $2 AND $3 AND check_out IS NOT NULL
	`, monitorCode, from, to)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
