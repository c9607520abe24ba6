package practice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"labslot/internal/apperr"
	"labslot/internal/laboratory"
	"labslot/internal/user"
)

type MockPracticeRepo struct{ mock.Mock }

func (m *MockPracticeRepo) CreateScheduled(ctx context.Context, p *Practice) (*Practice, []TimeRange, error) {
	args := m.Called(ctx, p)
	var created *Practice
	if args.Get(0) != nil {
		created = args.Get(0).(*Practice)
	}
	var occupied []TimeRange
	if args.Get(1) != nil {
		occupied = args.Get(1).([]TimeRange)
	}
	return created, occupied, args.Error(2)
}

func (m *MockPracticeRepo) ListByTeacher(ctx context.Context, teacherCode string, limit, offset int) ([]PracticeWithLab, error) {
	args := m.Called(ctx, teacherCode, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PracticeWithLab), args.Error(1)
}

func (m *MockPracticeRepo) ListByLabAndDate(ctx context.Context, labID int, date time.Time) ([]Practice, error) {
	args := m.Called(ctx, labID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Practice), args.Error(1)
}

type MockGate struct{ mock.Mock }

func (m *MockGate) Resolve(ctx context.Context, code string) (*user.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockLabs struct{ mock.Mock }

func (m *MockLabs) Resolve(ctx context.Context, name string) (*laboratory.Laboratory, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*laboratory.Laboratory), args.Error(1)
}

func validRequest() ScheduleRequest {
	return ScheduleRequest{
		LaboratoryName:  "Main",
		Subject:         "Physics II",
		PracticeType:    "LAB",
		Date:            "2025-03-01",
		StartTime:       "10:00",
		DurationMinutes: 60,
		StudentCount:    15,
	}
}

func mainLab() *laboratory.Laboratory {
	return &laboratory.Laboratory{ID: 1, Name: "Main", Capacity: 18, Active: true}
}

func teacherRuiz() *user.User {
	return &user.User{Code: "T-100", Name: "Prof. Ruiz", Role: user.RoleTeacher}
}

func TestScheduleTeacherNotFound(t *testing.T) {
	repo := new(MockPracticeRepo)
	gate := new(MockGate)
	labs := new(MockLabs)
	gate.On("Resolve", mock.Anything, "ghost").Return(nil, apperr.NotFound("user not found: ghost"))

	svc := NewService(repo, gate, labs, nil)
	_, err := svc.Schedule(context.Background(), "ghost", validRequest())

	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "Teacher not found", err.Error())
}

func TestScheduleCapacityExceeded(t *testing.T) {
	repo := new(MockPracticeRepo)
	gate := new(MockGate)
	labs := new(MockLabs)
	gate.On("Resolve", mock.Anything, "T-100").Return(teacherRuiz(), nil)
	labs.On("Resolve", mock.Anything, "Main").Return(mainLab(), nil)

	req := validRequest()
	req.StudentCount = 19

	svc := NewService(repo, gate, labs, nil)
	_, err := svc.Schedule(context.Background(), "T-100", req)

	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "capacity: 18")
	repo.AssertNotCalled(t, "CreateScheduled")
}

func TestScheduleAtCapacityAccepted(t *testing.T) {
	repo := new(MockPracticeRepo)
	gate := new(MockGate)
	labs := new(MockLabs)
	gate.On("Resolve", mock.Anything, "T-100").Return(teacherRuiz(), nil)
	labs.On("Resolve", mock.Anything, "Main").Return(mainLab(), nil)

	req := validRequest()
	req.StudentCount = 18

	date, _ := time.Parse("2006-01-02", req.Date)
	repo.On("CreateScheduled", mock.Anything, mock.MatchedBy(func(p *Practice) bool {
		return p.StartMinute == 10*60 && p.EndMinute == 11*60 && p.StudentCount == 18
	})).Return(&Practice{
		ID: 7, LaboratoryID: 1, TeacherCode: "T-100", Subject: req.Subject,
		PracticeType: req.PracticeType, Date: date,
		StartMinute: 10 * 60, EndMinute: 11 * 60,
		DurationMinutes: 60, StudentCount: 18,
	}, nil, nil)

	svc := NewService(repo, gate, labs, nil)
	resp, err := svc.Schedule(context.Background(), "T-100", req)

	require.NoError(t, err)
	assert.Equal(t, 7, resp.ID)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, "11:00", resp.EndTime)
	assert.Equal(t, "Main", resp.LaboratoryName)
	repo.AssertExpectations(t)
}

func TestScheduleConflictListsOccupiedRanges(t *testing.T) {
	repo := new(MockPracticeRepo)
	gate := new(MockGate)
	labs := new(MockLabs)
	gate.On("Resolve", mock.Anything, "T-100").Return(teacherRuiz(), nil)
	labs.On("Resolve", mock.Anything, "Main").Return(mainLab(), nil)

	repo.On("CreateScheduled", mock.Anything, mock.Anything).Return(nil, []TimeRange{
		{StartMinute: 9 * 60, EndMinute: 10*60 + 30},
		{StartMinute: 14 * 60, EndMinute: 16 * 60},
	}, ErrTimeConflict)

	svc := NewService(repo, gate, labs, nil)
	_, err := svc.Schedule(context.Background(), "T-100", validRequest())

	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "already reserved at that time")
	assert.Contains(t, err.Error(), "09:00 - 10:30, 14:00 - 16:00")
}

func TestSchedulePastMidnightRejected(t *testing.T) {
	repo := new(MockPracticeRepo)
	gate := new(MockGate)
	labs := new(MockLabs)
	gate.On("Resolve", mock.Anything, "T-100").Return(teacherRuiz(), nil)
	labs.On("Resolve", mock.Anything, "Main").Return(mainLab(), nil)

	req := validRequest()
	req.StartTime = "23:30"
	req.DurationMinutes = 60

	svc := NewService(repo, gate, labs, nil)
	_, err := svc.Schedule(context.Background(), "T-100", req)

	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	repo.AssertNotCalled(t, "CreateScheduled")
}

func TestScheduleDefaultLabUnavailable(t *testing.T) {
	repo := new(MockPracticeRepo)
	gate := new(MockGate)
	labs := new(MockLabs)
	gate.On("Resolve", mock.Anything, "T-100").Return(teacherRuiz(), nil)
	labs.On("Resolve", mock.Anything, "").Return(nil, apperr.Validation("No active laboratories available"))

	req := validRequest()
	req.LaboratoryName = ""

	svc := NewService(repo, gate, labs, nil)
	_, err := svc.Schedule(context.Background(), "T-100", req)

	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "No active laboratories available")
}

func TestListMine(t *testing.T) {
	repo := new(MockPracticeRepo)
	gate := new(MockGate)
	labs := new(MockLabs)

	date, _ := time.Parse("2006-01-02", "2025-03-01")
	repo.On("ListByTeacher", mock.Anything, "T-100", 20, 0).Return([]PracticeWithLab{
		{
			Practice: Practice{
				ID: 1, LaboratoryID: 1, TeacherCode: "T-100", Subject: "Physics II",
				PracticeType: "LAB", Date: date,
				StartMinute: 9 * 60, EndMinute: 10*60 + 30,
				DurationMinutes: 90, StudentCount: 12,
			},
			LaboratoryName: "Main",
		},
	}, nil)

	svc := NewService(repo, gate, labs, nil)
	resps, err := svc.ListMine(context.Background(), "T-100", 20, 0)

	require.NoError(t, err)
	require.Len(t, resps, 1)
	assert.Equal(t, "2025-03-01", resps[0].Date)
	assert.Equal(t, "09:00", resps[0].StartTime)
	assert.Equal(t, "10:30", resps[0].EndTime)
	assert.Equal(t, "Main", resps[0].LaboratoryName)
}
