package attendance

import (
	"time"

	"github.com/lib/pq"
)

// AttendanceRecord is one lab entry of a student, at most one per day.
type AttendanceRecord struct {
	ID           int       `db:"id"`
	StudentCode  string    `db:"student_code"`
	Date         time.Time `db:"date"`
	RegisteredAt time.Time `db:"registered_at"`
}

type RegisterRequest struct {
	StudentCode string `json:"student_code" binding:"required"`
}

type AttendanceResponse struct {
	ID           int       `json:"id"`
	StudentCode  string    `json:"student_code"`
	Date         string    `json:"date"`
	RegisteredAt time.Time `json:"registered_at"`
}

// MonthlyRow is one student's attendance aggregated over a month.
type MonthlyRow struct {
	StudentCode string         `db:"student_code" json:"student_code"`
	StudentName string         `db:"student_name" json:"student_name"`
	Total       int            `db:"total" json:"total_attendances"`
	Dates       pq.StringArray `db:"dates" json:"dates"`
}

// MonthlySummary condenses a whole month of attendance.
type MonthlySummary struct {
	TotalStudents    int    `db:"total_students" json:"total_students"`
	TotalAttendances int    `db:"total_attendances" json:"total_attendances"`
	FirstDate        string `db:"first_date" json:"first_date,omitempty"`
	LastDate         string `db:"last_date" json:"last_date,omitempty"`
}

func buildAttendanceResponse(r *AttendanceRecord) *AttendanceResponse {
	return &AttendanceResponse{
		ID:           r.ID,
		StudentCode:  r.StudentCode,
		Date:         r.Date.Format("2006-01-02"),
		RegisteredAt: r.RegisteredAt,
	}
}

func buildAttendanceResponses(records []AttendanceRecord) []AttendanceResponse {
	responses := make([]AttendanceResponse, 0, len(records))
	for i := range records {
		responses = append(responses, *buildAttendanceResponse(&records[i]))
	}
	return responses
}
