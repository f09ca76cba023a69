package model

import "time"

// Roles a portal account can hold. Every user has exactly one.
const (
	RoleStudent   = "student"
	RoleProfessor = "professor"
)

// ValidRole reports whether s is a role the portal knows about.
func ValidRole(s string) bool {
	return s == RoleStudent || s == RoleProfessor
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Department   string    `json:"department"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
