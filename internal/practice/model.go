package practice

import (
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// Practice is a committed, immutable reservation of one laboratory for a
// half-open [start, end) interval on a given date. Clock values are kept
// as minutes from midnight; "HH:MM" strings exist only at the API edge.
type Practice struct {
	ID              int       `db:"id"`
	LaboratoryID    int       `db:"laboratory_id"`
	TeacherCode     string    `db:"teacher_code"`
	Subject         string    `db:"subject"`
	PracticeType    string    `db:"practice_type"`
	Date            time.Time `db:"date"`
	StartMinute     int       `db:"start_minute"`
	EndMinute       int       `db:"end_minute"`
	DurationMinutes int       `db:"duration_minutes"`
	StudentCount    int       `db:"student_count"`
	CreatedAt       time.Time `db:"created_at"`
}

// PracticeWithLab carries the joined laboratory name for listings.
type PracticeWithLab struct {
	Practice
	LaboratoryName string `db:"laboratory_name"`
}

// TimeRange is an occupied [start, end) interval of a lab's day.
type TimeRange struct {
	StartMinute int `db:"start_minute"`
	EndMinute   int `db:"end_minute"`
}

func (r TimeRange) String() string {
	return FormatClock(r.StartMinute) + " - " + FormatClock(r.EndMinute)
}

// Overlaps reports whether two half-open intervals intersect. Back-to-back
// ranges (one ends exactly when the other starts) do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.StartMinute < other.EndMinute && other.StartMinute < r.EndMinute
}

type ScheduleRequest struct {
	LaboratoryName  string `json:"laboratory_name"`
	Subject         string `json:"subject" binding:"required"`
	PracticeType    string `json:"practice_type" binding:"required"`
	Date            string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime       string `json:"start_time" binding:"required,datetime=15:04"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1"`
	StudentCount    int    `json:"student_count" binding:"required,min=1"`
}

type PracticeResponse struct {
	ID              int    `json:"id"`
	Subject         string `json:"subject"`
	PracticeType    string `json:"practice_type"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
	LaboratoryName  string `json:"laboratory_name"`
	StudentCount    int    `json:"student_count"`
}

func buildResponse(p *Practice, labName string) *PracticeResponse {
	return &PracticeResponse{
		ID:              p.ID,
		Subject:         p.Subject,
		PracticeType:    p.PracticeType,
		Date:            p.Date.Format("2006-01-02"),
		StartTime:       FormatClock(p.StartMinute),
		EndTime:         FormatClock(p.EndMinute),
		DurationMinutes: p.DurationMinutes,
		LaboratoryName:  labName,
		StudentCount:    p.StudentCount,
	}
}

// ParseClock converts "HH:MM" to minutes from midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock converts minutes from midnight back to "HH:MM".
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
