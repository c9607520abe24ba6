package laboratory

import (
	"context"

	"github.com/jmoiron/sqlx"

	"labslot/internal/db"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(dbx *sqlx.DB) Repository {
	return &repository{db: dbx}
}

func (r *repository) Create(ctx context.Context, name string, capacity int) (*Laboratory, error) {
	query := `
		INSERT INTO laboratories (name, capacity, active, activated_at)
		VALUES ($1, $2, TRUE, NOW())
		RETURNING id, name, capacity, active, activated_at, created_at
	`

	var lab Laboratory
	err := r.db.GetContext(ctx, &lab, query, name, capacity)
	if err != nil {
		return nil, err
	}

	return &lab, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*Laboratory, error) {
	query := `
		SELECT id, name, capacity, active, activated_at, created_at
		FROM laboratories
		WHERE id = $1
	`

	var lab Laboratory
	err := r.db.GetContext(ctx, &lab, query, id)
	if err != nil {
		return nil, err
	}

	return &lab, nil
}

func (r *repository) FindActiveByName(ctx context.Context, name string) (*Laboratory, error) {
	query := `
		SELECT id, name, capacity, active, activated_at, created_at
		FROM laboratories
		WHERE name = $1 AND active = TRUE
	`

	var lab Laboratory
	err := r.db.GetContext(ctx, &lab, query, name)
	if err != nil {
		return nil, err
	}

	return &lab, nil
}

func (r *repository) FindLatestActivated(ctx context.Context) (*Laboratory, error) {
	query := `
		SELECT id, name, capacity, active, activated_at, created_at
		FROM laboratories
		WHERE active = TRUE
		ORDER BY activated_at DESC
		LIMIT 1
	`

	var lab Laboratory
	err := r.db.GetContext(ctx, &lab, query)
	if err != nil {
		return nil, err
	}

	return &lab, nil
}

func (r *repository) ActiveNameExists(ctx context.Context, name string) (bool, error) {
	return db.Exists(ctx, r.db,
		`SELECT EXISTS(SELECT 1 FROM laboratories WHERE name = $1 AND active = TRUE)`, name)
}

func (r *repository) Deactivate(ctx context.Context, id int) (bool, error) {
	query := `
		UPDATE laboratories
		SET active = FALSE
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func (r *repository) ListActive(ctx context.Context, limit, offset int) ([]Laboratory, error) {
	query := `
		SELECT id, name, capacity, active, activated_at, created_at
		FROM laboratories
		WHERE active = TRUE
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`

	var labs []Laboratory
	err := r.db.SelectContext(ctx, &labs, query, limit, offset)
	if err != nil {
		return nil, err
	}

	return labs, nil
}

func (r *repository) CountActive(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM laboratories WHERE active = TRUE`

	var count int
	err := r.db.GetContext(ctx, &count, query)
	if err != nil {
		return 0, err
	}

	return count, nil
}
