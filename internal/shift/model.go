package shift

import "time"

const (
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusMissing    = "MISSING"
)

// ShiftRecord is one check-in of a monitor, closed by the matching
// check-out. Several records per monitor and day are allowed; only the
// latest one drives the state machine.
type ShiftRecord struct {
	ID          int        `db:"id"`
	MonitorCode string     `db:"monitor_code"`
	Date        time.Time  `db:"date"`
	CheckIn     time.Time  `db:"check_in"`
	CheckOut    *time.Time `db:"check_out"`
}

// Open reports whether the shift is still waiting for its check-out.
func (r *ShiftRecord) Open() bool {
	return r.CheckOut == nil
}

// MinutesWorked is zero while the shift is open.
func (r *ShiftRecord) MinutesWorked() int {
	if r.CheckOut == nil {
		return 0
	}
	return int(r.CheckOut.Sub(r.CheckIn) / time.Minute)
}

// StatusAt derives the record state: closed records are COMPLETED, an
// open record on the current day is IN_PROGRESS, and an open record
// left behind on a past day is MISSING.
func (r *ShiftRecord) StatusAt(now time.Time) string {
	if r.CheckOut != nil {
		return StatusCompleted
	}
	if sameDay(r.Date, now) {
		return StatusInProgress
	}
	return StatusMissing
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// ShiftSummary aggregates the closed shifts of one monitor in a range.
type ShiftSummary struct {
	DaysWorked   int `db:"days_worked"`
	TotalMinutes int `db:"total_minutes"`
}

type ShiftResponse struct {
	ID          int        `json:"id"`
	MonitorCode string     `json:"monitor_code"`
	Date        string     `json:"date"`
	CheckIn     time.Time  `json:"check_in"`
	CheckOut    *time.Time `json:"check_out,omitempty"`
	HoursWorked float64    `json:"hours_worked"`
	Status      string     `json:"status"`
}

type ReportResponse struct {
	MonitorCode string          `json:"monitor_code"`
	MonitorName string          `json:"monitor_name"`
	DaysWorked  int             `json:"days_worked"`
	TotalHours  float64         `json:"total_hours"`
	Shifts      []ShiftResponse `json:"shifts"`
}

func buildShiftResponse(r *ShiftRecord, now time.Time) *ShiftResponse {
	return &ShiftResponse{
		ID:          r.ID,
		MonitorCode: r.MonitorCode,
		Date:        r.Date.Format("2006-01-02"),
		CheckIn:     r.CheckIn,
		CheckOut:    r.CheckOut,
		HoursWorked: float64(r.MinutesWorked()) / 60,
		Status:      r.StatusAt(now),
	}
}
