package laboratory

import "time"

// Laboratory is a bookable physical lab. Labs are never deleted, only
// deactivated, so historical bookings keep a valid reference.
type Laboratory struct {
	ID          int        `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Capacity    int        `db:"capacity" json:"capacity"`
	Active      bool       `db:"active" json:"active"`
	ActivatedAt *time.Time `db:"activated_at" json:"activated_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

type CreateLaboratoryRequest struct {
	Name     string `json:"name" binding:"required"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
}
