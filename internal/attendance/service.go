package attendance

import (
	"context"
	"errors"
	"time"

	"labslot/internal/apperr"
	"labslot/internal/metrics"
	"labslot/internal/user"
)

// IdentityGate resolves an actor code to an identity with a role.
type IdentityGate interface {
	Resolve(ctx context.Context, code string) (*user.User, error)
}

type Service interface {
	// Register records the student's entry for today, scanned by the
	// acting monitor. At most one registration per student and day.
	Register(ctx context.Context, monitorCode, studentCode string) (*AttendanceResponse, error)

	History(ctx context.Context, studentCode string, limit, offset int) ([]AttendanceResponse, error)
	List(ctx context.Context, from, to string, limit, offset int) ([]AttendanceResponse, error)
	MonthlyReport(ctx context.Context, year, month, limit, offset int) ([]MonthlyRow, error)
	MonthlySummary(ctx context.Context, year, month int) (*MonthlySummary, error)
}

type service struct {
	repo Repository
	gate IdentityGate
	now  func() time.Time
}

func NewService(repo Repository, gate IdentityGate) Service {
	return &service{repo: repo, gate: gate, now: time.Now}
}

func (s *service) Register(ctx context.Context, monitorCode, studentCode string) (*AttendanceResponse, error) {
	student, err := s.authorize(ctx, monitorCode, studentCode)
	if err != nil {
		metrics.RecordAttendance("rejected")
		return nil, err
	}

	now := s.now()
	record, err := s.repo.Register(ctx, student.Code, dayOf(now), now)
	if err != nil {
		metrics.RecordAttendance("rejected")
		if errors.Is(err, ErrAlreadyRegistered) {
			return nil, apperr.Conflict("Attendance already registered for %s today", student.Code)
		}
		return nil, err
	}

	metrics.RecordAttendance("accepted")
	return buildAttendanceResponse(record), nil
}

func (s *service) History(ctx context.Context, studentCode string, limit, offset int) ([]AttendanceResponse, error) {
	records, err := s.repo.ListByStudent(ctx, studentCode, limit, offset)
	if err != nil {
		return nil, err
	}
	return buildAttendanceResponses(records), nil
}

func (s *service) List(ctx context.Context, from, to string, limit, offset int) ([]AttendanceResponse, error) {
	fromDate, toDate, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.ListByRange(ctx, fromDate, toDate, limit, offset)
	if err != nil {
		return nil, err
	}
	return buildAttendanceResponses(records), nil
}

func (s *service) MonthlyReport(ctx context.Context, year, month, limit, offset int) ([]MonthlyRow, error) {
	if err := validateMonth(year, month); err != nil {
		return nil, err
	}
	return s.repo.MonthlyReport(ctx, year, month, limit, offset)
}

func (s *service) MonthlySummary(ctx context.Context, year, month int) (*MonthlySummary, error) {
	if err := validateMonth(year, month); err != nil {
		return nil, err
	}
	return s.repo.MonthlySummary(ctx, year, month)
}

// authorize checks the acting monitor and the registered student before
// anything is written.
func (s *service) authorize(ctx context.Context, monitorCode, studentCode string) (*user.User, error) {
	monitor, err := s.gate.Resolve(ctx, monitorCode)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("Monitor not found: %s", monitorCode)
		}
		return nil, err
	}
	if !monitor.HasRole(user.RoleMonitor) {
		return nil, apperr.Forbidden("Only monitors can perform this action")
	}

	student, err := s.gate.Resolve(ctx, studentCode)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("Student not found: %s", studentCode)
		}
		return nil, err
	}
	if !student.HasRole(user.RoleStudent) {
		return nil, apperr.Validation("Code does not belong to a student")
	}
	return student, nil
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	fromDate, err := time.Parse("2006-01-02", from)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("invalid date %q, expected YYYY-MM-DD", from)
	}
	toDate, err := time.Parse("2006-01-02", to)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("invalid date %q, expected YYYY-MM-DD", to)
	}
	if toDate.Before(fromDate) {
		return time.Time{}, time.Time{}, apperr.Validation("range end %s precedes start %s", to, from)
	}
	return fromDate, toDate, nil
}

func validateMonth(year, month int) error {
	if year < 2000 || year > 2100 {
		return apperr.Validation("invalid year %d", year)
	}
	if month < 1 || month > 12 {
		return apperr.Validation("invalid month %d", month)
	}
	return nil
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
