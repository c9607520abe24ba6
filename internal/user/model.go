package user

import "time"

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleMonitor = "monitor"
	RoleStudent = "student"
)

// User is an actor identified by institutional code. The role name is
// the actor's capability and gates every ledger operation.
type User struct {
	Code         string    `db:"code" json:"code"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Document     string    `db:"document" json:"document"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (u *User) HasRole(role string) bool {
	return u.Role == role
}

type RegisterRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Document string `json:"document" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=admin teacher monitor student"`
}

type LoginRequest struct {
	Code     string `json:"code" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
