package repository

import (
	"context"
	"strings"
	"time"

	"mammy-coker-hub/internal/database"
	"mammy-coker-hub/internal/domain/user"

	"github.com/google/uuid"
)

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) GetProfile(ctx context.Context, userID uuid.UUID) (user.Profile, error) {
	var p user.Profile
	err := r.db.QueryRow(ctx,
		`SELECT user_id, email, full_name, phone, location, avatar_url, created_at, updated_at
		 FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.Email, &p.FullName, &p.Phone, &p.Location, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return user.Profile{}, user.ErrNotFound
		}
		return user.Profile{}, err
	}
	return p, nil
}

// UpsertProfile writes the profile; empty fields never overwrite stored values.
func (r *PostgresProfileRepository) UpsertProfile(ctx context.Context, p user.Profile) (user.Profile, error) {
	now := time.Now().UTC()
	var out user.Profile
	err := r.db.QueryRow(ctx,
		`INSERT INTO profiles (user_id, email, full_name, phone, location, avatar_url, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$7)
		 ON CONFLICT (user_id) DO UPDATE SET
			email = COALESCE(NULLIF(EXCLUDED.email, ''), profiles.email),
			full_name = COALESCE(NULLIF(EXCLUDED.full_name, ''), profiles.full_name),
			phone = COALESCE(NULLIF(EXCLUDED.phone, ''), profiles.phone),
			location = COALESCE(NULLIF(EXCLUDED.location, ''), profiles.location),
			avatar_url = COALESCE(NULLIF(EXCLUDED.avatar_url, ''), profiles.avatar_url),
			updated_at = EXCLUDED.updated_at
		 RETURNING user_id, email, full_name, phone, location, avatar_url, created_at, updated_at`,
		p.UserID,
		strings.TrimSpace(p.Email),
		strings.TrimSpace(p.FullName),
		strings.TrimSpace(p.Phone),
		strings.TrimSpace(p.Location),
		strings.TrimSpace(p.AvatarURL),
		now,
	).Scan(&out.UserID, &out.Email, &out.FullName, &out.Phone, &out.Location, &out.AvatarURL, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return user.Profile{}, err
	}
	return out, nil
}

type PostgresRoleRepository struct {
	db database.DB
}

func NewPostgresRoleRepository(db database.DB) *PostgresRoleRepository {
	return &PostgresRoleRepository{db: db}
}

func (r *PostgresRoleRepository) GetRole(ctx context.Context, userID uuid.UUID) (user.Role, error) {
	var raw string
	if err := r.db.QueryRow(ctx, `SELECT role FROM user_roles WHERE user_id = $1`, userID).Scan(&raw); err != nil {
		if isNoRows(err) {
			return "", user.ErrRoleNotFound
		}
		return "", err
	}
	role, ok := user.ParseRole(raw)
	if !ok {
		return "", user.ErrRoleNotFound
	}
	return role, nil
}

func (r *PostgresRoleRepository) SetRole(ctx context.Context, userID uuid.UUID, role user.Role) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role`,
		userID, string(role),
	)
	return err
}

var (
	_ user.ProfileRepository = (*PostgresProfileRepository)(nil)
	_ user.RoleRepository    = (*PostgresRoleRepository)(nil)
)
