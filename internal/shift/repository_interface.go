package shift

import (
	"context"
	"time"
)

type Repository interface {
	// CheckIn opens a new shift, atomically rejecting a second open
	// shift on the same day.
	CheckIn(ctx context.Context, monitorCode string, day, at time.Time) (*ShiftRecord, error)

	// CheckOut closes the latest shift of the day, atomically.
	CheckOut(ctx context.Context, monitorCode string, day, at time.Time) (*ShiftRecord, error)

	ListByMonitor(ctx context.Context, monitorCode string, from, to time.Time, limit, offset int) ([]ShiftRecord, error)
	Summarize(ctx context.Context, monitorCode string, from, to time.Time) (*ShiftSummary, error)
}
