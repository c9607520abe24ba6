package shift

import (
	"context"
	"errors"
	"time"

	"labslot/internal/apperr"
	"labslot/internal/metrics"
	"labslot/internal/user"
)

// IdentityGate resolves an actor code to an identity with a role and
// enumerates the holders of one.
type IdentityGate interface {
	Resolve(ctx context.Context, code string) (*user.User, error)
	ListByRole(ctx context.Context, role string, limit, offset int) ([]user.User, error)
}

// Shifts fetched per monitor when building a report row.
const maxReportShifts = 500

type Service interface {
	CheckIn(ctx context.Context, monitorCode string) (*ShiftResponse, error)
	CheckOut(ctx context.Context, monitorCode string) (*ShiftResponse, error)
	Report(ctx context.Context, monitorCode, from, to string, limit, offset int) (*ReportResponse, error)

	// ReportAll aggregates every monitor-role user, paginated across
	// monitors.
	ReportAll(ctx context.Context, from, to string, limit, offset int) ([]ReportResponse, error)
}

type service struct {
	repo Repository
	gate IdentityGate
	now  func() time.Time
}

func NewService(repo Repository, gate IdentityGate) Service {
	return &service{repo: repo, gate: gate, now: time.Now}
}

func (s *service) CheckIn(ctx context.Context, monitorCode string) (*ShiftResponse, error) {
	monitor, err := s.authorize(ctx, monitorCode)
	if err != nil {
		metrics.RecordShiftEvent("check_in", "rejected")
		return nil, err
	}

	now := s.now()
	record, err := s.repo.CheckIn(ctx, monitor.Code, dayOf(now), now)
	if err != nil {
		metrics.RecordShiftEvent("check_in", "rejected")
		if errors.Is(err, ErrOpenShift) {
			return nil, apperr.Conflict("You already checked in and haven't checked out yet")
		}
		return nil, err
	}

	metrics.RecordShiftEvent("check_in", "accepted")
	return buildShiftResponse(record, now), nil
}

func (s *service) CheckOut(ctx context.Context, monitorCode string) (*ShiftResponse, error) {
	monitor, err := s.authorize(ctx, monitorCode)
	if err != nil {
		metrics.RecordShiftEvent("check_out", "rejected")
		return nil, err
	}

	now := s.now()
	record, err := s.repo.CheckOut(ctx, monitor.Code, dayOf(now), now)
	if err != nil {
		metrics.RecordShiftEvent("check_out", "rejected")
		switch {
		case errors.Is(err, ErrNoShiftToday):
			return nil, apperr.Validation("You cannot check out without checking in")
		case errors.Is(err, ErrShiftClosed):
			return nil, apperr.Conflict("You already checked out, do check-in again for next shift")
		}
		return nil, err
	}

	metrics.RecordShiftEvent("check_out", "accepted")
	return buildShiftResponse(record, now), nil
}

func (s *service) Report(ctx context.Context, monitorCode, from, to string, limit, offset int) (*ReportResponse, error) {
	monitor, err := s.gate.Resolve(ctx, monitorCode)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("Monitor not found: %s", monitorCode)
		}
		return nil, err
	}
	if !monitor.HasRole(user.RoleMonitor) {
		return nil, apperr.NotFound("Monitor not found: %s", monitorCode)
	}

	fromDate, toDate, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}

	return s.buildReport(ctx, monitor, fromDate, toDate, limit, offset)
}

func (s *service) ReportAll(ctx context.Context, from, to string, limit, offset int) ([]ReportResponse, error) {
	fromDate, toDate, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}

	monitors, err := s.gate.ListByRole(ctx, user.RoleMonitor, limit, offset)
	if err != nil {
		return nil, err
	}

	reports := make([]ReportResponse, 0, len(monitors))
	for i := range monitors {
		report, err := s.buildReport(ctx, &monitors[i], fromDate, toDate, maxReportShifts, 0)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

func (s *service) buildReport(ctx context.Context, monitor *user.User, from, to time.Time, limit, offset int) (*ReportResponse, error) {
	records, err := s.repo.ListByMonitor(ctx, monitor.Code, from, to, limit, offset)
	if err != nil {
		return nil, err
	}

	summary, err := s.repo.Summarize(ctx, monitor.Code, from, to)
	if err != nil {
		return nil, err
	}

	now := s.now()
	shifts := make([]ShiftResponse, 0, len(records))
	for i := range records {
		shifts = append(shifts, *buildShiftResponse(&records[i], now))
	}

	return &ReportResponse{
		MonitorCode: monitor.Code,
		MonitorName: monitor.Name,
		DaysWorked:  summary.DaysWorked,
		TotalHours:  float64(summary.TotalMinutes) / 60,
		Shifts:      shifts,
	}, nil
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

func (s *service) authorize(ctx context.Context, monitorCode string) (*user.User, error) {
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
	return monitor, nil
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
