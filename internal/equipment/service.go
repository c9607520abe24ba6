package equipment

import (
	"context"
	"errors"
	"time"

	"labslot/internal/apperr"
	"labslot/internal/logger"
	"labslot/internal/metrics"
	"labslot/internal/user"
)

// IdentityGate resolves an actor code to an identity with a role.
type IdentityGate interface {
	Resolve(ctx context.Context, code string) (*user.User, error)
}

// Notifier queues a receipt email for a completed loan operation.
// A nil Notifier disables receipts.
type Notifier interface {
	LoanReceipt(ctx context.Context, to, studentName, equipmentName string, at time.Time) error
}

type Service interface {
	CreateEquipment(ctx context.Context, req CreateEquipmentRequest) (*EquipmentResponse, error)
	ListEquipment(ctx context.Context, limit, offset int) ([]EquipmentResponse, error)
	Lend(ctx context.Context, monitorCode string, req LoanRequest) (*LoanResponse, error)
	Return(ctx context.Context, monitorCode string, loanID int) (*LoanResponse, error)
	ListActiveLoans(ctx context.Context, limit, offset int) ([]LoanResponse, error)
	StudentLoans(ctx context.Context, studentCode string, activeOnly bool, limit, offset int) ([]LoanResponse, error)
}

type service struct {
	repo   Repository
	gate   IdentityGate
	notify Notifier
	now    func() time.Time
}

func NewService(repo Repository, gate IdentityGate, notify Notifier) Service {
	return &service{repo: repo, gate: gate, notify: notify, now: time.Now}
}

func (s *service) CreateEquipment(ctx context.Context, req CreateEquipmentRequest) (*EquipmentResponse, error) {
	exists, err := s.repo.BarcodeExists(ctx, req.Barcode)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("equipment with barcode '%s' already exists", req.Barcode)
	}

	created, err := s.repo.CreateEquipment(ctx, &Equipment{
		Barcode:    req.Barcode,
		Name:       req.Name,
		TotalUnits: req.TotalUnits,
	})
	if err != nil {
		return nil, err
	}
	return buildEquipmentResponse(created), nil
}

func (s *service) ListEquipment(ctx context.Context, limit, offset int) ([]EquipmentResponse, error) {
	items, err := s.repo.ListEquipment(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]EquipmentResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *buildEquipmentResponse(&items[i]))
	}
	return responses, nil
}

func (s *service) Lend(ctx context.Context, monitorCode string, req LoanRequest) (*LoanResponse, error) {
	student, err := s.authorize(ctx, monitorCode, req.StudentCode)
	if err != nil {
		metrics.RecordLoan("lend", "rejected")
		return nil, err
	}

	loan, equip, err := s.repo.Allocate(ctx, req.Barcode, student.Code, monitorCode, s.now())
	if err != nil {
		metrics.RecordLoan("lend", "rejected")
		switch {
		case errors.Is(err, ErrEquipmentNotFound):
			return nil, apperr.NotFound("Equipment not found with barcode: %s", req.Barcode)
		case errors.Is(err, ErrNoAvailableUnits):
			return nil, apperr.Conflict("'%s' has no available units", equip.Name)
		}
		return nil, err
	}

	metrics.RecordLoan("lend", "accepted")
	s.sendReceipt(ctx, student, equip.Name, loan.LoanTime)
	return buildLoanResponse(loan, equip.Barcode, equip.Name), nil
}

func (s *service) Return(ctx context.Context, monitorCode string, loanID int) (*LoanResponse, error) {
	if _, err := s.resolveMonitor(ctx, monitorCode); err != nil {
		metrics.RecordLoan("return", "rejected")
		return nil, err
	}

	loan, equip, err := s.repo.Release(ctx, loanID, s.now())
	if err != nil {
		metrics.RecordLoan("return", "rejected")
		switch {
		case errors.Is(err, ErrLoanNotFound):
			return nil, apperr.NotFound("Loan not found with id: %d", loanID)
		case errors.Is(err, ErrAlreadyReturned):
			return nil, apperr.Conflict("This loan has already been returned")
		}
		return nil, err
	}

	metrics.RecordLoan("return", "accepted")
	return buildLoanResponse(loan, equip.Barcode, equip.Name), nil
}

func (s *service) ListActiveLoans(ctx context.Context, limit, offset int) ([]LoanResponse, error) {
	loans, err := s.repo.ListActiveLoans(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return buildLoanResponses(loans), nil
}

func (s *service) StudentLoans(ctx context.Context, studentCode string, activeOnly bool, limit, offset int) ([]LoanResponse, error) {
	loans, err := s.repo.ListLoansByStudent(ctx, studentCode, activeOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	return buildLoanResponses(loans), nil
}

// authorize checks the acting monitor and the borrowing student before
// any unit moves.
func (s *service) authorize(ctx context.Context, monitorCode, studentCode string) (*user.User, error) {
	if _, err := s.resolveMonitor(ctx, monitorCode); err != nil {
		return nil, err
	}

	student, err := s.gate.Resolve(ctx, studentCode)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("Student not found: %s", studentCode)
		}
		return nil, err
	}
	if !student.HasRole(user.RoleStudent) {
		return nil, apperr.Validation("Code does not belong to a student")
	}
	return student, nil
}

func (s *service) resolveMonitor(ctx context.Context, monitorCode string) (*user.User, error) {
	monitor, err := s.gate.Resolve(ctx, monitorCode)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("Monitor not found: %s", monitorCode)
		}
		return nil, err
	}
	if !monitor.HasRole(user.RoleMonitor) {
		return nil, apperr.Forbidden("Only monitors can perform this action")
	}
	return monitor, nil
}

func (s *service) sendReceipt(ctx context.Context, student *user.User, equipmentName string, at time.Time) {
	if s.notify == nil || student.Email == "" {
		return
	}
	if err := s.notify.LoanReceipt(ctx, student.Email, student.Name, equipmentName, at); err != nil {
		logger.Warnf("failed to queue loan receipt for %s: %v", student.Code, err)
	}
}

func buildLoanResponses(loans []LoanWithEquipment) []LoanResponse {
	responses := make([]LoanResponse, 0, len(loans))
	for i := range loans {
		responses = append(responses,
			*buildLoanResponse(&loans[i].Loan, loans[i].Barcode, loans[i].EquipmentName))
	}
	return responses
}
