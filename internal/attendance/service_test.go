package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"labslot/internal/apperr"
	"labslot/internal/user"
)

type MockAttendanceRepo struct{ mock.Mock }

func (m *MockAttendanceRepo) Register(ctx context.Context, studentCode string, day, at time.Time) (*AttendanceRecord, error) {
	args := m.Called(ctx, studentCode, day, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AttendanceRecord), args.Error(1)
}

func (m *MockAttendanceRepo) ListByStudent(ctx context.Context, studentCode string, limit, offset int) ([]AttendanceRecord, error) {
	args := m.Called(ctx, studentCode, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]AttendanceRecord), args.Error(1)
}

func (m *MockAttendanceRepo) ListByRange(ctx context.Context, from, to time.Time, limit, offset int) ([]AttendanceRecord, error) {
	args := m.Called(ctx, from, to, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]AttendanceRecord), args.Error(1)
}

func (m *MockAttendanceRepo) MonthlyReport(ctx context.Context, year, month, limit, offset int) ([]MonthlyRow, error) {
	args := m.Called(ctx, year, month, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]MonthlyRow), args.Error(1)
}

func (m *MockAttendanceRepo) MonthlySummary(ctx context.Context, year, month int) (*MonthlySummary, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MonthlySummary), args.Error(1)
}

type MockGate struct{ mock.Mock }

func (m *MockGate) Resolve(ctx context.Context, code string) (*user.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

var fixedNow = time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)

func fixedDay() time.Time {
	return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
}

func newTestService(repo Repository, gate IdentityGate) *service {
	return &service{repo: repo, gate: gate, now: func() time.Time { return fixedNow }}
}

func monitorGomez() *user.User {
	return &user.User{Code: "M-200", Name: "Gomez", Role: user.RoleMonitor}
}

func studentPerez() *user.User {
	return &user.User{Code: "S-300", Name: "Perez", Role: user.RoleStudent}
}

func TestRegisterRequiresMonitorRole(t *testing.T) {
	repo := new(MockAttendanceRepo)
	gate := new(MockGate)
	gate.On("Resolve", mock.Anything, "S-300").Return(studentPerez(), nil)

	svc := newTestService(repo, gate)
	_, err := svc.Register(context.Background(), "S-300", "S-301")

	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Equal(t, "Only monitors can perform this action", err.Error())
	repo.AssertNotCalled(t, "Register")
}

func TestRegisterUnknownStudent(t *testing.T) {
	repo := new(MockAttendanceRepo)
	gate := new(MockGate)
	gate.On("Resolve", mock.Anything, "M-200").Return(monitorGomez(), nil)
	gate.On("Resolve", mock.Anything, "S-404").Return(nil, apperr.NotFound("user not found: S-404"))

	svc := newTestService(repo, gate)
	_, err := svc.Register(context.Background(), "M-200", "S-404")

	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "Student not found: S-404", err.Error())
}

func TestRegisterRejectsNonStudentCode(t *testing.T) {
	repo := new(MockAttendanceRepo)
	gate := new(MockGate)
	gate.On("Resolve", mock.Anything, "M-200").Return(monitorGomez(), nil)
	gate.On("Resolve", mock.Anything, "M-201").Return(
		&user.User{Code: "M-201", Role: user.RoleMonitor}, nil)

	svc := newTestService(repo, gate)
	_, err := svc.Register(context.Background(), "M-200", "M-201")

	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "Code does not belong to a student", err.Error())
	repo.AssertNotCalled(t, "Register")
}

func TestRegisterRecordsEntry(t *testing.T) {
	repo := new(MockAttendanceRepo)
	gate := new(MockGate)
	gate.On("Resolve", mock.Anything, "M-200").Return(monitorGomez(), nil)
	gate.On("Resolve", mock.Anything, "S-300").Return(studentPerez(), nil)
	repo.On("Register", mock.Anything, "S-300", fixedDay(), fixedNow).Return(
		&AttendanceRecord{ID: 1, StudentCode: "S-300", Date: fixedDay(), RegisteredAt: fixedNow}, nil)

	svc := newTestService(repo, gate)
	resp, err := svc.Register(context.Background(), "M-200", "S-300")

	require.NoError(t, err)
	assert.Equal(t, "S-300", resp.StudentCode)
	assert.Equal(t, "2025-03-01", resp.Date)
}

func TestRegisterTwiceSameDayRejected(t *testing.T) {
	repo := new(MockAttendanceRepo)
	gate := new(MockGate)
	gate.On("Resolve", mock.Anything, "M-200").Return(monitorGomez(), nil)
	gate.On("Resolve", mock.Anything, "S-300").Return(studentPerez(), nil)
	repo.On("Register", mock.Anything, "S-300", fixedDay(), fixedNow).Return(nil, ErrAlreadyRegistered)

	svc := newTestService(repo, gate)
	_, err := svc.Register(context.Background(), "M-200", "S-300")

	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "Attendance already registered for S-300 today", err.Error())
}

func TestListRejectsInvalidRange(t *testing.T) {
	repo := new(MockAttendanceRepo)
	gate := new(MockGate)

	svc := newTestService(repo, gate)
	_, err := svc.List(context.Background(), "2025-03-31", "2025-03-01", 20, 0)

	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	repo.AssertNotCalled(t, "ListByRange")
}

func TestHistoryReturnsNewestFirst(t *testing.T) {
	repo := new(MockAttendanceRepo)
	gate := new(MockGate)
	repo.On("ListByStudent", mock.Anything, "S-300", 20, 0).Return([]AttendanceRecord{
		{ID: 2, StudentCode: "S-300", Date: fixedDay(), RegisteredAt: fixedNow},
		{ID: 1, StudentCode: "S-300", Date: fixedDay().AddDate(0, 0, -1), RegisteredAt: fixedNow.AddDate(0, 0, -1)},
	}, nil)

	svc := newTestService(repo, gate)
	responses, err := svc.History(context.Background(), "S-300", 20, 0)

	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, "2025-03-01", responses[0].Date)
	assert.Equal(t, "2025-02-28", responses[1].Date)
}

func TestMonthlyReportRejectsBadMonth(t *testing.T) {
	repo := new(MockAttendanceRepo)
	gate := new(MockGate)

	svc := newTestService(repo, gate)
	_, err := svc.MonthlyReport(context.Background(), 2025, 13, 20, 0)

	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	repo.AssertNotCalled(t, "MonthlyReport")
}

func TestMonthlySummaryPassesThrough(t *testing.T) {
	repo := new(MockAttendanceRepo)
	gate := new(MockGate)
	repo.On("MonthlySummary", mock.Anything, 2025, 3).Return(
		&MonthlySummary{TotalStudents: 2, TotalAttendances: 5,
			FirstDate: "2025-03-01", LastDate: "2025-03-20"}, nil)

	svc := newTestService(repo, gate)
	summary, err := svc.MonthlySummary(context.Background(), 2025, 3)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalStudents)
	assert.Equal(t, 5, summary.TotalAttendances)
}
