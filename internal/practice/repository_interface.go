package practice

import (
	"context"
	"time"
)

type Repository interface {
	// CreateScheduled checks the overlap invariant and inserts the
	// practice as one atomic unit: the laboratory row is locked for the
	// duration of the transaction so concurrent requests for the same
	// lab and date serialize. On conflict it returns ErrTimeConflict
	// together with the day's occupied ranges, sorted by start.
	CreateScheduled(ctx context.Context, p *Practice) (*Practice, []TimeRange, error)
	ListByTeacher(ctx context.Context, teacherCode string, limit, offset int) ([]PracticeWithLab, error)
	ListByLabAndDate(ctx context.Context, labID int, date time.Time) ([]Practice, error)
}
