package laboratory

import (
	"context"
	"database/sql"
	"errors"

	"labslot/internal/apperr"
)

type Service interface {
	Create(ctx context.Context, req CreateLaboratoryRequest) (*Laboratory, error)
	Deactivate(ctx context.Context, id int) error
	ListActive(ctx context.Context, limit, offset int) ([]Laboratory, error)
	// Resolve picks the booking target: by name when one is given,
	// otherwise the most recently activated laboratory.
	Resolve(ctx context.Context, name string) (*Laboratory, error)
	GetByID(ctx context.Context, id int) (*Laboratory, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateLaboratoryRequest) (*Laboratory, error) {
	exists, err := s.repo.ActiveNameExists(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("A laboratory with the name '%s' already exists.", req.Name)
	}

	return s.repo.Create(ctx, req.Name, req.Capacity)
}

func (s *service) Deactivate(ctx context.Context, id int) error {
	found, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFound("Laboratory with id '%d' not found.", id)
	}
	return nil
}

func (s *service) ListActive(ctx context.Context, limit, offset int) ([]Laboratory, error) {
	return s.repo.ListActive(ctx, limit, offset)
}

func (s *service) Resolve(ctx context.Context, name string) (*Laboratory, error) {
	if name != "" {
		lab, err := s.repo.FindActiveByName(ctx, name)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, apperr.NotFound("Laboratory not found or inactive: %s", name)
			}
			return nil, err
		}
		return lab, nil
	}

	lab, err := s.repo.FindLatestActivated(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Validation("No active laboratories available")
		}
		return nil, err
	}
	return lab, nil
}

func (s *service) GetByID(ctx context.Context, id int) (*Laboratory, error) {
	lab, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Laboratory with id '%d' not found.", id)
		}
		return nil, err
	}
	return lab, nil
}
