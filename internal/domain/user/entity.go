package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Reviews reports, leaves and manages holidays
	RoleEmployee Role = "employee" // Checks in/out and files reports
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

type User struct {
	ID           string
	Username     string
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if user can review other employees' data
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
