package practice

import (
	"context"
	"errors"
	"strings"
	"time"

	"labslot/internal/apperr"
	"labslot/internal/laboratory"
	"labslot/internal/logger"
	"labslot/internal/metrics"
	"labslot/internal/user"
)

// IdentityGate resolves an actor code to an identity with a role.
type IdentityGate interface {
	Resolve(ctx context.Context, code string) (*user.User, error)
}

// LabDirectory resolves the booking target; an empty name selects the
// default laboratory per the directory's activation policy.
type LabDirectory interface {
	Resolve(ctx context.Context, name string) (*laboratory.Laboratory, error)
}

// Notifier queues a confirmation email for an accepted booking. A nil
// Notifier disables confirmations.
type Notifier interface {
	PracticeConfirmation(ctx context.Context, email, name, labName, subject, date, timeRange string) error
}

type Service interface {
	Schedule(ctx context.Context, teacherCode string, req ScheduleRequest) (*PracticeResponse, error)
	ListMine(ctx context.Context, teacherCode string, limit, offset int) ([]PracticeResponse, error)
	DaySchedule(ctx context.Context, labName, date string) ([]TimeRange, error)
}

type service struct {
	repo   Repository
	gate   IdentityGate
	labs   LabDirectory
	notify Notifier
}

func NewService(repo Repository, gate IdentityGate, labs LabDirectory, notify Notifier) Service {
	return &service{repo: repo, gate: gate, labs: labs, notify: notify}
}

func (s *service) Schedule(ctx context.Context, teacherCode string, req ScheduleRequest) (*PracticeResponse, error) {
	teacher, err := s.gate.Resolve(ctx, teacherCode)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("Teacher not found")
		}
		return nil, err
	}

	lab, err := s.labs.Resolve(ctx, req.LaboratoryName)
	if err != nil {
		return nil, err
	}

	if req.StudentCount > lab.Capacity {
		return nil, apperr.Validation(
			"The laboratory '%s' cannot accommodate %d students (capacity: %d)",
			lab.Name, req.StudentCount, lab.Capacity)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperr.Validation("invalid date %q, expected YYYY-MM-DD", req.Date)
	}

	startMinute, err := ParseClock(req.StartTime)
	if err != nil {
		return nil, apperr.Validation("invalid start time %q, expected HH:MM", req.StartTime)
	}

	endMinute := startMinute + req.DurationMinutes
	if endMinute > minutesPerDay {
		return nil, apperr.Validation("practice cannot extend past midnight")
	}

	created, occupied, err := s.repo.CreateScheduled(ctx, &Practice{
		LaboratoryID:    lab.ID,
		TeacherCode:     teacher.Code,
		Subject:         req.Subject,
		PracticeType:    req.PracticeType,
		Date:            date,
		StartMinute:     startMinute,
		EndMinute:       endMinute,
		DurationMinutes: req.DurationMinutes,
		StudentCount:    req.StudentCount,
	})
	if err != nil {
		if errors.Is(err, ErrTimeConflict) {
			metrics.RecordScheduleConflict()
			metrics.RecordPracticeScheduled("conflict")
			return nil, apperr.Conflict(
				"The laboratory '%s' is already reserved at that time: %s",
				lab.Name, formatRanges(occupied))
		}
		return nil, err
	}

	metrics.RecordPracticeScheduled("accepted")
	s.sendConfirmation(ctx, teacher, lab.Name, created)
	return buildResponse(created, lab.Name), nil
}

func (s *service) sendConfirmation(ctx context.Context, teacher *user.User, labName string, p *Practice) {
	if s.notify == nil || teacher.Email == "" {
		return
	}
	timeRange := TimeRange{StartMinute: p.StartMinute, EndMinute: p.EndMinute}.String()
	err := s.notify.PracticeConfirmation(ctx, teacher.Email, teacher.Name,
		labName, p.Subject, p.Date.Format("2006-01-02"), timeRange)
	if err != nil {
		logger.Warnf("failed to queue practice confirmation for %s: %v", teacher.Code, err)
	}
}

func (s *service) ListMine(ctx context.Context, teacherCode string, limit, offset int) ([]PracticeResponse, error) {
	practices, err := s.repo.ListByTeacher(ctx, teacherCode, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]PracticeResponse, 0, len(practices))
	for i := range practices {
		responses = append(responses, *buildResponse(&practices[i].Practice, practices[i].LaboratoryName))
	}
	return responses, nil
}

func (s *service) DaySchedule(ctx context.Context, labName, dateStr string) ([]TimeRange, error) {
	lab, err := s.labs.Resolve(ctx, labName)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, apperr.Validation("invalid date %q, expected YYYY-MM-DD", dateStr)
	}

	practices, err := s.repo.ListByLabAndDate(ctx, lab.ID, date)
	if err != nil {
		return nil, err
	}

	ranges := make([]TimeRange, 0, len(practices))
	for _, p := range practices {
		ranges = append(ranges, TimeRange{StartMinute: p.StartMinute, EndMinute: p.EndMinute})
	}
	return ranges, nil
}

func formatRanges(ranges []TimeRange) string {
	parts := make([]string, 0, len(ranges))
	for _, r := range ranges {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, ", ")
}
