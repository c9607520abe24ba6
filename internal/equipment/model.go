package equipment

import "time"

const (
	StatusAvailable = "AVAILABLE"
	StatusLoaned    = "LOANED"

	LoanActive   = "ACTIVE"
	LoanReturned = "RETURNED"
)

// Equipment tracks a pool of identical lendable units under one barcode.
// available_units is the single source of truth; status is derived from
// it and never stored.
type Equipment struct {
	ID             int       `db:"id"`
	Barcode        string    `db:"barcode"`
	Name           string    `db:"name"`
	TotalUnits     int       `db:"total_units"`
	AvailableUnits int       `db:"available_units"`
	CreatedAt      time.Time `db:"created_at"`
}

func (e *Equipment) Status() string {
	if e.AvailableUnits > 0 {
		return StatusAvailable
	}
	return StatusLoaned
}

// Loan records one unit lent to a student by a monitor. A nil ReturnTime
// means the unit is still out.
type Loan struct {
	ID          int        `db:"id"`
	EquipmentID int        `db:"equipment_id"`
	StudentCode string     `db:"student_code"`
	MonitorCode string     `db:"monitor_code"`
	LoanTime    time.Time  `db:"loan_time"`
	ReturnTime  *time.Time `db:"return_time"`
}

func (l *Loan) Status() string {
	if l.ReturnTime == nil {
		return LoanActive
	}
	return LoanReturned
}

// LoanWithEquipment carries the joined equipment fields for listings.
type LoanWithEquipment struct {
	Loan
	EquipmentName string `db:"equipment_name"`
	Barcode       string `db:"barcode"`
}

// TotalUnits may be zero: the item is registered and immediately shows
// as LOANED until stock arrives.
type CreateEquipmentRequest struct {
	Barcode    string `json:"barcode" binding:"required"`
	Name       string `json:"name" binding:"required"`
	TotalUnits int    `json:"total_units" binding:"gte=0"`
}

type LoanRequest struct {
	Barcode     string `json:"barcode" binding:"required"`
	StudentCode string `json:"student_code" binding:"required"`
}

type EquipmentResponse struct {
	ID             int    `json:"id"`
	Barcode        string `json:"barcode"`
	Name           string `json:"name"`
	TotalUnits     int    `json:"total_units"`
	AvailableUnits int    `json:"available_units"`
	Status         string `json:"status"`
}

type LoanResponse struct {
	ID            int        `json:"id"`
	Barcode       string     `json:"barcode"`
	EquipmentName string     `json:"equipment_name"`
	StudentCode   string     `json:"student_code"`
	MonitorCode   string     `json:"monitor_code"`
	LoanTime      time.Time  `json:"loan_time"`
	ReturnTime    *time.Time `json:"return_time,omitempty"`
	Status        string     `json:"status"`
}

func buildEquipmentResponse(e *Equipment) *EquipmentResponse {
	return &EquipmentResponse{
		ID:             e.ID,
		Barcode:        e.Barcode,
		Name:           e.Name,
		TotalUnits:     e.TotalUnits,
		AvailableUnits: e.AvailableUnits,
		Status:         e.Status(),
	}
}

func buildLoanResponse(l *Loan, barcode, equipmentName string) *LoanResponse {
	return &LoanResponse{
		ID:            l.ID,
		Barcode:       barcode,
		EquipmentName: equipmentName,
		StudentCode:   l.StudentCode,
		MonitorCode:   l.MonitorCode,
		LoanTime:      l.LoanTime,
		ReturnTime:    l.ReturnTime,
		Status:        l.Status(),
	}
}
