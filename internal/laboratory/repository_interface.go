package laboratory

import "context"

type Repository interface {
	Create(ctx context.Context, name string, capacity int) (*Laboratory, error)
	FindByID(ctx context.Context, id int) (*Laboratory, error)
	FindActiveByName(ctx context.Context, name string) (*Laboratory, error)
	// FindLatestActivated returns the active laboratory that was marked
	// active most recently. This is the documented default-lab policy.
	FindLatestActivated(ctx context.Context) (*Laboratory, error)
	ActiveNameExists(ctx context.Context, name string) (bool, error)
	Deactivate(ctx context.Context, id int) (bool, error)
	ListActive(ctx context.Context, limit, offset int) ([]Laboratory, error)
	CountActive(ctx context.Context) (int, error)
}
