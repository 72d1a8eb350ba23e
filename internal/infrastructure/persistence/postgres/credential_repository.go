// Package postgres holds the credential store used by the local identity
// provider. It runs on database/sql prepared statements over the pgx pool.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"mammy-coker-hub/internal/domain/user"
)

type CredentialRepository struct {
	db *sql.DB

	stmtCreate     *sql.Stmt
	stmtGetByID    *sql.Stmt
	stmtGetByEmail *sql.Stmt
	stmtUpdateHash *sql.Stmt
}

func NewCredentialRepository(ctx context.Context, db *sql.DB) (*CredentialRepository, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	r := &CredentialRepository{db: db}

	prepare := func(dst **sql.Stmt, query string) error {
		s, err := db.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		*dst = s
		return nil
	}

	for _, p := range []struct {
		dst   **sql.Stmt
		query string
	}{
		{&r.stmtCreate, `INSERT INTO users (id, email, password_hash, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`},
		{&r.stmtGetByID, `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = $1`},
		{&r.stmtGetByEmail, `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE lower(email) = lower($1)`},
		{&r.stmtUpdateHash, `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`},
	} {
		if err := prepare(p.dst, p.query); err != nil {
			_ = r.Close()
			return nil, err
		}
	}

	return r, nil
}

func (r *CredentialRepository) Close() error {
	var firstErr error
	for _, s := range []*sql.Stmt{r.stmtCreate, r.stmtGetByID, r.stmtGetByEmail, r.stmtUpdateHash} {
		if s == nil {
			continue
		}
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *CredentialRepository) Create(ctx context.Context, c user.Credential) error {
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}
	_, err := r.stmtCreate.ExecContext(ctx, c.ID, strings.ToLower(c.Email), c.PasswordHash, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *CredentialRepository) GetByID(ctx context.Context, id uuid.UUID) (user.Credential, error) {
	return scanCredential(r.stmtGetByID.QueryRowContext(ctx, id))
}

func (r *CredentialRepository) GetByEmail(ctx context.Context, email string) (user.Credential, error) {
	return scanCredential(r.stmtGetByEmail.QueryRowContext(ctx, strings.TrimSpace(email)))
}

func (r *CredentialRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	res, err := r.stmtUpdateHash.ExecContext(ctx, id, hash, time.Now().UTC())
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.ErrNotFound
	}
	return nil
}

type credentialRow interface {
	Scan(dest ...any) error
}

func scanCredential(row credentialRow) (user.Credential, error) {
	var c user.Credential
	if err := row.Scan(&c.ID, &c.Email, &c.PasswordHash, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.Credential{}, user.ErrNotFound
		}
		return user.Credential{}, err
	}
	return c, nil
}

var _ user.CredentialRepository = (*CredentialRepository)(nil)
