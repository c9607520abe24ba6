package equipment

import (
	"context"
	"time"
)

type Repository interface {
	CreateEquipment(ctx context.Context, e *Equipment) (*Equipment, error)
	BarcodeExists(ctx context.Context, barcode string) (bool, error)
	FindByBarcode(ctx context.Context, barcode string) (*Equipment, error)
	ListEquipment(ctx context.Context, limit, offset int) ([]Equipment, error)

	// Allocate takes one unit of the barcoded equipment and records the
	// loan, atomically. On ErrNoAvailableUnits the equipment is still
	// returned so callers can name it.
	Allocate(ctx context.Context, barcode, studentCode, monitorCode string, at time.Time) (*Loan, *Equipment, error)

	// Release closes the loan and puts its unit back, atomically.
	Release(ctx context.Context, loanID int, at time.Time) (*Loan, *Equipment, error)

	ListActiveLoans(ctx context.Context, limit, offset int) ([]LoanWithEquipment, error)

	// ListLoansByStudent returns either the student's open loans only
	// or their full history.
	ListLoansByStudent(ctx context.Context, studentCode string, activeOnly bool, limit, offset int) ([]LoanWithEquipment, error)
}
