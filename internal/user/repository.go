package user

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) (*User, error) {
	query := `
		INSERT INTO users (code, name, email, document, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING code, name, email, document, password_hash, role, created_at
	`

	var created User
	err := r.db.GetContext(ctx, &created, query,
		u.Code, u.Name, u.Email, u.Document, u.PasswordHash, u.Role)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) FindByCode(ctx context.Context, code string) (*User, error) {
	query := `
		SELECT code, name, email, document, password_hash, role, created_at
		FROM users
		WHERE code = $1
	`

	var u User
	err := r.db.GetContext(ctx, &u, query, code)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) CodeExists(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE code = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, code)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *repository) ListByRole(ctx context.Context, role string, limit, offset int) ([]User, error) {
	query := `
		SELECT code, name, email, document, password_hash, role, created_at
		FROM users
		WHERE role = $1
		ORDER BY code ASC
		LIMIT $2 OFFSET $3
	`

	var users []User
	err := r.db.SelectContext(ctx, &users, query, role, limit, offset)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (r *repository) CountByRole(ctx context.Context, role string) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE role = $1`

	var count int
	err := r.db.GetContext(ctx, &count, query, role)
	if err != nil {
		return 0, err
	}

	return count, nil
}
