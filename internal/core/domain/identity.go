package domain

import "github.com/google/uuid"

// Role is the caller role granted by the auth service
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the authenticated caller
type Identity struct {
	UserID uuid.UUID
	Role   Role
}
