package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity a skill record or session request refers to. Teaching
// and learning are never stored here; see skill.ResolveCapabilities.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Role      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
