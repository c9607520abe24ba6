package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) (*User, error)
	FindByCode(ctx context.Context, code string) (*User, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	ListByRole(ctx context.Context, role string, limit, offset int) ([]User, error)
	CountByRole(ctx context.Context, role string) (int, error)
}
