package practice

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrTimeConflict = errors.New("practice time conflict")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateScheduled(ctx context.Context, p *Practice) (*Practice, []TimeRange, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	// Serialize concurrent scheduling on the same lab. Without the lock
	// two requests could both pass the overlap check and commit
	// overlapping bookings.
	var labID int
	err = tx.GetContext(ctx, &labID,
		`SELECT id FROM laboratories WHERE id = $1 FOR UPDATE`, p.LaboratoryID)
	if err != nil {
		return nil, nil, err
	}

	var occupied []TimeRange
	err = tx.SelectContext(ctx, &occupied, `
		SELECT start_minute, end_minute
		FROM practice_schedules
		WHERE laboratory_id = $1 AND date = $2
		ORDER BY start_minute ASC
	`, p.LaboratoryID, p.Date)
	if err != nil {
		return nil, nil, err
	}

	requested := TimeRange{StartMinute: p.StartMinute, EndMinute: p.EndMinute}
	for _, r := range occupied {
		if requested.Overlaps(r) {
			return nil, occupied, ErrTimeConflict
		}
	}

	var created Practice
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO practice_schedules
			(laboratory_id, teacher_code, subject, practice_type, date,
			 start_minute, end_minute, duration_minutes, student_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, laboratory_id, teacher_code, subject, practice_type, date,
		          start_minute, end_minute, duration_minutes, student_count, created_at
	`, p.LaboratoryID, p.TeacherCode, p.Subject, p.PracticeType, p.Date,
		p.StartMinute, p.EndMinute, p.DurationMinutes, p.StudentCount,
	).StructScan(&created)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	return &created, nil, nil
}

func (r *repository) ListByTeacher(ctx context.Context, teacherCode string, limit, offset int) ([]PracticeWithLab, error) {
	query := `
		SELECT
			p.id, p.laboratory_id, p.teacher_code, p.subject, p.practice_type,
			p.date, p.start_minute, p.end_minute, p.duration_minutes,
			p.student_count, p.created_at,
			l.name AS laboratory_name
		FROM practice_schedules p
		JOIN laboratories l ON p.laboratory_id = l.id
		WHERE p.teacher_code = $1
		ORDER BY p.date DESC, p.start_minute ASC
		LIMIT $2 OFFSET $3
	`

	var practices []PracticeWithLab
	err := r.db.SelectContext(ctx, &practices, query, teacherCode, limit, offset)
	if err != nil {
		return nil, err
	}

	return practices, nil
}

func (r *repository) ListByLabAndDate(ctx context.Context, labID int, date time.Time) ([]Practice, error) {
	query := `
		SELECT id, laboratory_id, teacher_code, subject, practice_type, date,
		       start_minute, end_minute, duration_minutes, student_count, created_at
		FROM practice_schedules
		WHERE laboratory_id = $1 AND date = $2
		ORDER BY start_minute ASC
	`

	var practices []Practice
	err := r.db.SelectContext(ctx, &practices, query, labID, date)
	if err != nil {
		return nil, err
	}

	return practices, nil
}
