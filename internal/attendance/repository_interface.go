package attendance

import (
	"context"
	"time"
)

type Repository interface {
	// Register inserts the day's attendance, atomically rejecting a
	// second registration on the same day.
	Register(ctx context.Context, studentCode string, day, at time.Time) (*AttendanceRecord, error)

	ListByStudent(ctx context.Context, studentCode string, limit, offset int) ([]AttendanceRecord, error)
	ListByRange(ctx context.Context, from, to time.Time, limit, offset int) ([]AttendanceRecord, error)
	MonthlyReport(ctx context.Context, year, month, limit, offset int) ([]MonthlyRow, error)
	MonthlySummary(ctx context.Context, year, month int) (*MonthlySummary, error)
}
