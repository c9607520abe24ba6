package laboratory

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"labslot/internal/apperr"
)

type MockLabRepo struct{ mock.Mock }

func (m *MockLabRepo) Create(ctx context.Context, name string, capacity int) (*Laboratory, error) {
	args := m.Called(ctx, name, capacity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Laboratory), args.Error(1)
}

func (m *MockLabRepo) FindByID(ctx context.Context, id int) (*Laboratory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Laboratory), args.Error(1)
}

func (m *MockLabRepo) FindActiveByName(ctx context.Context, name string) (*Laboratory, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Laboratory), args.Error(1)
}

func (m *MockLabRepo) FindLatestActivated(ctx context.Context) (*Laboratory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Laboratory), args.Error(1)
}

func (m *MockLabRepo) ActiveNameExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockLabRepo) Deactivate(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockLabRepo) ListActive(ctx context.Context, limit, offset int) ([]Laboratory, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Laboratory), args.Error(1)
}

func (m *MockLabRepo) CountActive(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestCreateDuplicateActiveName(t *testing.T) {
	repo := new(MockLabRepo)
	repo.On("ActiveNameExists", mock.Anything, "Main").Return(true, nil)

	svc := NewService(repo)
	_, err := svc.Create(context.Background(), CreateLaboratoryRequest{Name: "Main", Capacity: 18})

	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "'Main' already exists")
	repo.AssertExpectations(t)
}

func TestCreateLab(t *testing.T) {
	repo := new(MockLabRepo)
	repo.On("ActiveNameExists", mock.Anything, "Main").Return(false, nil)
	repo.On("Create", mock.Anything, "Main", 18).Return(&Laboratory{ID: 1, Name: "Main", Capacity: 18, Active: true}, nil)

	svc := NewService(repo)
	lab, err := svc.Create(context.Background(), CreateLaboratoryRequest{Name: "Main", Capacity: 18})

	require.NoError(t, err)
	assert.Equal(t, 1, lab.ID)
	repo.AssertExpectations(t)
}

func TestResolveByNameMissing(t *testing.T) {
	repo := new(MockLabRepo)
	repo.On("FindActiveByName", mock.Anything, "Chemistry").Return(nil, sql.ErrNoRows)

	svc := NewService(repo)
	_, err := svc.Resolve(context.Background(), "Chemistry")

	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "Laboratory not found or inactive: Chemistry")
}

func TestResolveDefaultPicksLatestActivated(t *testing.T) {
	repo := new(MockLabRepo)
	repo.On("FindLatestActivated", mock.Anything).Return(&Laboratory{ID: 2, Name: "Electronics", Capacity: 24, Active: true}, nil)

	svc := NewService(repo)
	lab, err := svc.Resolve(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, "Electronics", lab.Name)
	repo.AssertExpectations(t)
}

func TestResolveDefaultNoneActive(t *testing.T) {
	repo := new(MockLabRepo)
	repo.On("FindLatestActivated", mock.Anything).Return(nil, sql.ErrNoRows)

	svc := NewService(repo)
	_, err := svc.Resolve(context.Background(), "")

	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "No active laboratories available")
}

func TestDeactivateMissingLab(t *testing.T) {
	repo := new(MockLabRepo)
	repo.On("Deactivate", mock.Anything, 99).Return(false, nil)

	svc := NewService(repo)
	err := svc.Deactivate(context.Background(), 99)

	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
