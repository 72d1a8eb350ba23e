package repository

import (
	"context"
	"time"

	"mammy-coker-hub/internal/database"
	"mammy-coker-hub/internal/domain/application"
	"mammy-coker-hub/internal/domain/job"
	"mammy-coker-hub/internal/domain/professional"

	"github.com/google/uuid"
)

type ApplicationRepository interface {
	Create(ctx context.Context, a application.Application) (application.Application, error)
	GetByID(ctx context.Context, id uuid.UUID) (application.Application, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]application.Application, error)
	ListByProfessional(ctx context.Context, professionalID uuid.UUID) ([]application.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status application.Status) (application.Application, error)
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

// Every read joins the job and the applicant so listings need no second query.
const applicationSelect = `SELECT a.id, a.job_id, a.professional_id, a.cover_letter, a.status,
	a.applied_at, a.updated_at, j.title, j.company, COALESCE(p.name, pr.full_name, '')
	FROM job_applications a
	JOIN jobs j ON j.id = a.job_id
	LEFT JOIN professionals p ON p.user_id = a.professional_id
	LEFT JOIN profiles pr ON pr.user_id = a.professional_id`

func scanApplication(row database.Row) (application.Application, error) {
	var a application.Application
	var status string
	err := row.Scan(&a.ID, &a.JobID, &a.ProfessionalID, &a.CoverLetter, &status,
		&a.AppliedAt, &a.UpdatedAt, &a.JobTitle, &a.Company, &a.ProfessionalName)
	if err != nil {
		if isNoRows(err) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, err
	}
	a.Status = application.Status(status)
	return a, nil
}

func (r *PostgresApplicationRepository) list(ctx context.Context, query string, args ...any) ([]application.Application, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresApplicationRepository) Create(ctx context.Context, a application.Application) (application.Application, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO job_applications (id, job_id, professional_id, cover_letter, status, applied_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$6)`,
		a.ID, a.JobID, a.ProfessionalID, a.CoverLetter, string(application.StatusPending), now,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return application.Application{}, application.ErrAlreadyApplied
		case isForeignKeyViolation(err):
			return application.Application{}, job.ErrNotFound
		}
		return application.Application{}, err
	}
	return r.GetByID(ctx, a.ID)
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (application.Application, error) {
	return scanApplication(r.db.QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, id))
}

func (r *PostgresApplicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]application.Application, error) {
	return r.list(ctx, applicationSelect+` WHERE a.job_id = $1 ORDER BY a.applied_at DESC`, jobID)
}

func (r *PostgresApplicationRepository) ListByProfessional(ctx context.Context, professionalID uuid.UUID) ([]application.Application, error) {
	return r.list(ctx, applicationSelect+` WHERE a.professional_id = $1 ORDER BY a.applied_at DESC`, professionalID)
}

func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status application.Status) (application.Application, error) {
	n, err := r.db.Exec(ctx,
		`UPDATE job_applications SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), time.Now().UTC(),
	)
	if err != nil {
		return application.Application{}, err
	}
	if n == 0 {
		return application.Application{}, application.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

type InvitationRepository interface {
	Create(ctx context.Context, inv application.Invitation) (application.Invitation, error)
	GetByID(ctx context.Context, id uuid.UUID) (application.Invitation, error)
	ListByProfessional(ctx context.Context, professionalID uuid.UUID) ([]application.Invitation, error)
	Respond(ctx context.Context, id uuid.UUID, status application.InvitationStatus) (application.Invitation, error)
}

type PostgresInvitationRepository struct {
	db database.DB
}

func NewPostgresInvitationRepository(db database.DB) *PostgresInvitationRepository {
	return &PostgresInvitationRepository{db: db}
}

const invitationSelect = `SELECT i.id, i.job_id, i.employer_id, i.professional_id, i.message, i.status,
	i.created_at, i.responded_at, j.title, j.company
	FROM job_invitations i
	JOIN jobs j ON j.id = i.job_id`

func scanInvitation(row database.Row) (application.Invitation, error) {
	var inv application.Invitation
	var status string
	err := row.Scan(&inv.ID, &inv.JobID, &inv.EmployerID, &inv.ProfessionalID, &inv.Message, &status,
		&inv.CreatedAt, &inv.RespondedAt, &inv.JobTitle, &inv.Company)
	if err != nil {
		if isNoRows(err) {
			return application.Invitation{}, application.ErrNotFound
		}
		return application.Invitation{}, err
	}
	inv.Status = application.InvitationStatus(status)
	return inv, nil
}

const invitationProfessionalFK = "job_invitations_professional_fk"

func (r *PostgresInvitationRepository) Create(ctx context.Context, inv application.Invitation) (application.Invitation, error) {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO job_invitations (id, job_id, employer_id, professional_id, message, status, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		inv.ID, inv.JobID, inv.EmployerID, inv.ProfessionalID, inv.Message,
		string(application.InvitationPending), time.Now().UTC(),
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return application.Invitation{}, application.ErrInvitationExists
		case isForeignKeyViolation(err) && violatedConstraint(err) == invitationProfessionalFK:
			return application.Invitation{}, professional.ErrNotFound
		case isForeignKeyViolation(err):
			return application.Invitation{}, job.ErrNotFound
		}
		return application.Invitation{}, err
	}
	return r.GetByID(ctx, inv.ID)
}

func (r *PostgresInvitationRepository) GetByID(ctx context.Context, id uuid.UUID) (application.Invitation, error) {
	return scanInvitation(r.db.QueryRow(ctx, invitationSelect+` WHERE i.id = $1`, id))
}

func (r *PostgresInvitationRepository) ListByProfessional(ctx context.Context, professionalID uuid.UUID) ([]application.Invitation, error) {
	rows, err := r.db.Query(ctx, invitationSelect+` WHERE i.professional_id = $1 ORDER BY i.created_at DESC`, professionalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.Invitation, 0)
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// Respond answers a pending invitation. Answered invitations are left alone.
func (r *PostgresInvitationRepository) Respond(ctx context.Context, id uuid.UUID, status application.InvitationStatus) (application.Invitation, error) {
	n, err := r.db.Exec(ctx,
		`UPDATE job_invitations SET status = $2, responded_at = $3 WHERE id = $1 AND status = 'pending'`,
		id, string(status), time.Now().UTC(),
	)
	if err != nil {
		return application.Invitation{}, err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return application.Invitation{}, err
		}
		return application.Invitation{}, application.ErrInvitationClosed
	}
	return r.GetByID(ctx, id)
}

var (
	_ ApplicationRepository = (*PostgresApplicationRepository)(nil)
	_ InvitationRepository  = (*PostgresInvitationRepository)(nil)
)
