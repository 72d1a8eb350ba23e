package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
	ErrRoleNotFound = errors.New("role not found")
	ErrForbidden    = errors.New("not allowed for this account")
)

type CredentialRepository interface {
	Create(ctx context.Context, c Credential) error
	GetByID(ctx context.Context, id uuid.UUID) (Credential, error)
	GetByEmail(ctx context.Context, email string) (Credential, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

type ProfileRepository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (Profile, error)
	UpsertProfile(ctx context.Context, p Profile) (Profile, error)
}

type RoleRepository interface {
	GetRole(ctx context.Context, userID uuid.UUID) (Role, error)
	SetRole(ctx context.Context, userID uuid.UUID, role Role) error
}
