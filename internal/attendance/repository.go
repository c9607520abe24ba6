package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrAlreadyRegistered = errors.New("attendance already registered")

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) Register(ctx context.Context, studentCode string, day, at time.Time) (*AttendanceRecord, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Serialize registrations per student. The users row is the only
	// thing that always exists to lock on a first registration.
	var code string
	err = tx.GetContext(ctx, &code,
		`SELECT code FROM users WHERE code = $1 FOR UPDATE`, studentCode)
	if err != nil {
		return nil, err
	}

	var existing int
	err = tx.GetContext(ctx, &existing, `
		SELECT id FROM attendance_records
		WHERE student_code = $1 AND date = $2
	`, studentCode, day)
	if err == nil {
		return nil, ErrAlreadyRegistered
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var record AttendanceRecord
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO attendance_records (student_code, date, registered_at)
		VALUES ($1, $2, $3)
		RETURNING id, student_code, date, registered_at
	`, studentCode, day, at).StructScan(&record)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *repository) ListByStudent(ctx context.Context, studentCode string, limit, offset int) ([]AttendanceRecord, error) {
	var records []AttendanceRecord
	err := r.db.SelectContext(ctx, &records, `
		SELECT id, student_code, date, registered_at
		FROM attendance_records
		WHERE student_code = $1
		ORDER BY date DESC
		LIMIT $2 OFFSET $3
	`, studentCode, limit, offset)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) ListByRange(ctx context.Context, from, to time.Time, limit, offset int) ([]AttendanceRecord, error) {
	var records []AttendanceRecord
	err := r.db.SelectContext(ctx, &records, `
		SELECT id, student_code, date, registered_at
		FROM attendance_records
		WHERE date BETWEEN $1 AND $2
		ORDER BY date DESC, registered_at DESC
		LIMIT $3 OFFSET $4
	`, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) MonthlyReport(ctx context.Context, year, month, limit, offset int) ([]MonthlyRow, error) {
	var rows []MonthlyRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT
			a.student_code,
			u.name AS student_name,
			COUNT(*)::int AS total,
			array_agg(to_char(a.date, 'YYYY-MM-DD') ORDER BY a.date) AS dates
		FROM attendance_records a
		JOIN users u ON u.code = a.student_code
		WHERE date_part('year', a.date) = $1 AND date_part('month', a.date) = $2
		GROUP BY a.student_code, u.name
		ORDER BY u.name ASC
		LIMIT $3 OFFSET $4
	`, year, month, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) MonthlySummary(ctx context.Context, year, month int) (*MonthlySummary, error) {
	var summary MonthlySummary
	err := r.db.GetContext(ctx, &summary, `
		SELECT
			COUNT(DISTINCT student_code)::int AS total_students,
			COUNT(*)::int AS total_attendances,
			COALESCE(to_char(MIN(date), 'YYYY-MM-DD'), '') AS first_date,
			COALESCE(to_char(MAX(date), 'YYYY-MM-DD'), '') AS last_date
		FROM attendance_records
		WHERE date_part('year', date) = $1 AND date_part('month', date) = $2
	`, year, month)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
