package user

import (
	"context"
	"database/sql"
	"errors"

	"labslot/internal/apperr"
	"labslot/internal/auth"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Resolve(ctx context.Context, code string) (*User, error)
	ListByRole(ctx context.Context, role string, limit, offset int) ([]User, error)
}

type service struct {
	repo      Repository
	jwtSecret string
}

func NewService(repo Repository, jwtSecret string) Service {
	return &service{repo: repo, jwtSecret: jwtSecret}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	exists, err := s.repo.CodeExists(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("a user with code '%s' already exists", req.Code)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, &User{
		Code:         req.Code,
		Name:         req.Name,
		Email:        req.Email,
		Document:     req.Document,
		PasswordHash: hash,
		Role:         req.Role,
	})
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := s.repo.FindByCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Validation("invalid credentials")
		}
		return nil, err
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, apperr.Validation("invalid credentials")
	}

	token, err := auth.GenerateToken(u.Code, u.Name, u.Role, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{Token: token, User: u}, nil
}

// Resolve is the identity gate the ledger services authorize actors
// through. Missing codes come back as a classified NotFound so callers
// can attach their own actor-specific message.
func (s *service) Resolve(ctx context.Context, code string) (*User, error) {
	u, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("user not found: %s", code)
		}
		return nil, err
	}
	return u, nil
}

func (s *service) ListByRole(ctx context.Context, role string, limit, offset int) ([]User, error) {
	return s.repo.ListByRole(ctx, role, limit, offset)
}
