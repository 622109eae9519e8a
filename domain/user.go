package domain

import "time"

// Roles recognised by the authorization guard.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
	RoleStaff   = "staff"
)

type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"-" db:"password"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleCashier, RoleStaff:
		return true
	}
	return false
}
