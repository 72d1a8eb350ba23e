package repository

import (
	"context"
	"time"

	"mammy-coker-hub/internal/database"
	"mammy-coker-hub/internal/domain/job"

	"github.com/google/uuid"
)

type JobRepository interface {
	ListActive(ctx context.Context) ([]job.Job, error)
	ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]job.Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (job.Job, error)
	Create(ctx context.Context, j job.Job) (job.Job, error)
	Update(ctx context.Context, j job.Job) (job.Job, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `id, employer_id, title, company, location, category, type,
	salary_min, salary_max, description, requirements, benefits, status, created_at, updated_at`

func scanJob(row database.Row) (job.Job, error) {
	var j job.Job
	var typ, status string
	err := row.Scan(
		&j.ID, &j.EmployerID, &j.Title, &j.Company, &j.Location, &j.Category, &typ,
		&j.SalaryMin, &j.SalaryMax, &j.Description, &j.Requirements, &j.Benefits, &status,
		&j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}
	j.Type = job.Type(typ)
	j.Status = job.Status(status)
	return j, nil
}

func (r *PostgresJobRepository) list(ctx context.Context, query string, args ...any) ([]job.Job, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListActive returns every active job, newest first.
func (r *PostgresJobRepository) ListActive(ctx context.Context) ([]job.Job, error) {
	return r.list(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE status = 'active' ORDER BY created_at DESC, id ASC`,
	)
}

func (r *PostgresJobRepository) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]job.Job, error) {
	return r.list(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE employer_id = $1 ORDER BY created_at DESC, id ASC`,
		employerID,
	)
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	return scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
}

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) (job.Job, error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.Status == "" {
		j.Status = job.StatusActive
	}
	now := time.Now().UTC()

	return scanJob(r.db.QueryRow(ctx,
		`INSERT INTO jobs (id, employer_id, title, company, location, category, type,
			salary_min, salary_max, description, requirements, benefits, status, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$14)
		 RETURNING `+jobColumns,
		j.ID, j.EmployerID, j.Title, j.Company, j.Location, j.Category, string(j.Type),
		j.SalaryMin, j.SalaryMax, j.Description, j.Requirements, j.Benefits, string(j.Status), now,
	))
}

func (r *PostgresJobRepository) Update(ctx context.Context, j job.Job) (job.Job, error) {
	return scanJob(r.db.QueryRow(ctx,
		`UPDATE jobs SET
			title = $2, company = $3, location = $4, category = $5, type = $6,
			salary_min = $7, salary_max = $8, description = $9, requirements = $10,
			benefits = $11, status = $12, updated_at = $13
		 WHERE id = $1
		 RETURNING `+jobColumns,
		j.ID, j.Title, j.Company, j.Location, j.Category, string(j.Type),
		j.SalaryMin, j.SalaryMax, j.Description, j.Requirements, j.Benefits, string(j.Status),
		time.Now().UTC(),
	))
}

func (r *PostgresJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return job.ErrNotFound
	}
	return nil
}

type SavedJobRepository interface {
	Save(ctx context.Context, userID, jobID uuid.UUID) error
	Unsave(ctx context.Context, userID, jobID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]job.Job, error)
}

type PostgresSavedJobRepository struct {
	db database.DB
}

func NewPostgresSavedJobRepository(db database.DB) *PostgresSavedJobRepository {
	return &PostgresSavedJobRepository{db: db}
}

// Save is idempotent.
func (r *PostgresSavedJobRepository) Save(ctx context.Context, userID, jobID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO saved_jobs (user_id, job_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, jobID,
	)
	if isForeignKeyViolation(err) {
		return job.ErrNotFound
	}
	return err
}

func (r *PostgresSavedJobRepository) Unsave(ctx context.Context, userID, jobID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM saved_jobs WHERE user_id = $1 AND job_id = $2`, userID, jobID)
	return err
}

func (r *PostgresSavedJobRepository) List(ctx context.Context, userID uuid.UUID) ([]job.Job, error) {
	rows, err := r.db.Query(ctx,
		`SELECT j.id, j.employer_id, j.title, j.company, j.location, j.category, j.type,
			j.salary_min, j.salary_max, j.description, j.requirements, j.benefits, j.status,
			j.created_at, j.updated_at
		 FROM saved_jobs s
		 JOIN jobs j ON j.id = s.job_id
		 WHERE s.user_id = $1
		 ORDER BY s.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

var (
	_ JobRepository      = (*PostgresJobRepository)(nil)
	_ SavedJobRepository = (*PostgresSavedJobRepository)(nil)
)
