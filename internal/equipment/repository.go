package equipment

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"labslot/internal/db"
)

var (
	ErrEquipmentNotFound = errors.New("equipment not found")
	ErrNoAvailableUnits  = errors.New("no available units")
	ErrLoanNotFound      = errors.New("loan not found")
	ErrAlreadyReturned   = errors.New("loan already returned")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) CreateEquipment(ctx context.Context, e *Equipment) (*Equipment, error) {
	var created Equipment
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO equipment (barcode, name, total_units, available_units)
		VALUES ($1, $2, $3, $3)
		RETURNING id, barcode, name, total_units, available_units, created_at
	`, e.Barcode, e.Name, e.TotalUnits).StructScan(&created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) BarcodeExists(ctx context.Context, barcode string) (bool, error) {
	return db.Exists(ctx, r.db,
		`SELECT EXISTS(SELECT 1 FROM equipment WHERE barcode = $1)`, barcode)
}

func (r *repository) FindByBarcode(ctx context.Context, barcode string) (*Equipment, error) {
	var e Equipment
	err := r.db.GetContext(ctx, &e, `
		SELECT id, barcode, name, total_units, available_units, created_at
		FROM equipment
		WHERE barcode = $1
	`, barcode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEquipmentNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *repository) ListEquipment(ctx context.Context, limit, offset int) ([]Equipment, error) {
	var items []Equipment
	err := r.db.SelectContext(ctx, &items, `
		SELECT id, barcode, name, total_units, available_units, created_at
		FROM equipment
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Allocate(ctx context.Context, barcode, studentCode, monitorCode string, at time.Time) (*Loan, *Equipment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	// Lock the counter row so two concurrent loans of the last unit
	// cannot both see available_units = 1.
	var e Equipment
	err = tx.GetContext(ctx, &e, `
		SELECT id, barcode, name, total_units, available_units, created_at
		FROM equipment
		WHERE barcode = $1
		FOR UPDATE
	`, barcode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrEquipmentNotFound
		}
		return nil, nil, err
	}

	if e.AvailableUnits <= 0 {
		return nil, &e, ErrNoAvailableUnits
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE equipment SET available_units = available_units - 1 WHERE id = $1`, e.ID)
	if err != nil {
		return nil, nil, err
	}

	var loan Loan
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO loans (equipment_id, student_code, monitor_code, loan_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, equipment_id, student_code, monitor_code, loan_time, return_time
	`, e.ID, studentCode, monitorCode, at).StructScan(&loan)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	e.AvailableUnits--
	return &loan, &e, nil
}

func (r *repository) Release(ctx context.Context, loanID int, at time.Time) (*Loan, *Equipment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	var loan Loan
	err = tx.GetContext(ctx, &loan, `
		SELECT id, equipment_id, student_code, monitor_code, loan_time, return_time
		FROM loans
		WHERE id = $1
		FOR UPDATE
	`, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrLoanNotFound
		}
		return nil, nil, err
	}

	if loan.ReturnTime != nil {
		return nil, nil, ErrAlreadyReturned
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE loans SET return_time = $2 WHERE id = $1`, loan.ID, at)
	if err != nil {
		return nil, nil, err
	}

	var e Equipment
	err = tx.QueryRowxContext(ctx, `
		UPDATE equipment SET available_units = available_units + 1
		WHERE id = $1
		RETURNING id, barcode, name, total_units, available_units, created_at
	`, loan.EquipmentID).StructScan(&e)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	loan.ReturnTime = &at
	return &loan, &e, nil
}

func (r *repository) ListActiveLoans(ctx context.Context, limit, offset int) ([]LoanWithEquipment, error) {
	var loans []LoanWithEquipment
	err := r.db.SelectContext(ctx, &loans, `
		SELECT
			lo.id, lo.equipment_id, lo.student_code, lo.monitor_code,
			lo.loan_time, lo.return_time,
			e.name AS equipment_name, e.barcode
		FROM loans lo
		JOIN equipment e ON lo.equipment_id = e.id
		WHERE lo.return_time IS NULL
		ORDER BY lo.loan_time DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *repository) ListLoansByStudent(ctx context.Context, studentCode string, activeOnly bool, limit, offset int) ([]LoanWithEquipment, error) {
	query := `
		SELECT
			lo.id, lo.equipment_id, lo.student_code, lo.monitor_code,
			lo.loan_time, lo.return_time,
			e.name AS equipment_name, e.barcode
		FROM loans lo
		JOIN equipment e ON lo.equipment_id = e.id
		WHERE lo.student_code = $1
	`
	if activeOnly {
		query += ` AND lo.return_time IS NULL`
	}
	query += `
		ORDER BY lo.loan_time DESC
		LIMIT $2 OFFSET $3
	`

	var loans []LoanWithEquipment
	err := r.db.SelectContext(ctx, &loans, query, studentCode, limit, offset)
	if err != nil {
		return nil, err
	}
	return loans, nil
}
