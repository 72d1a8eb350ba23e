package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleProfessional Role = "professional"
	RoleEmployer     Role = "employer"
	RoleAdmin        Role = "admin"
)

// DefaultRole is assumed whenever a role record is missing or unreadable.
const DefaultRole = RoleProfessional

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleProfessional, RoleEmployer, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

// Credential is a row of the local identity store.
type Credential struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Profile struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	Location  string    `json:"location,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Actor is the authenticated caller of a use case.
type Actor struct {
	ID    uuid.UUID
	Email string
	Role  Role
}

func (a Actor) Is(roles ...Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
