package repository

import (
	"context"
	"time"

	"mammy-coker-hub/internal/database"
	"mammy-coker-hub/internal/domain/professional"

	"github.com/google/uuid"
)

type ProfessionalRepository interface {
	List(ctx context.Context) ([]professional.Professional, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (professional.Professional, error)
	Upsert(ctx context.Context, p professional.Professional, phone string) (professional.Professional, error)
	SetAvatar(ctx context.Context, userID uuid.UUID, url string) error
}

type PostgresProfessionalRepository struct {
	db database.DB
}

func NewPostgresProfessionalRepository(db database.DB) *PostgresProfessionalRepository {
	return &PostgresProfessionalRepository{db: db}
}

const professionalColumns = `user_id, name, category, location, years_experience, rating::float8,
	reviews, skills, bio, availability, avatar_url, updated_at`

func scanProfessional(row database.Row) (professional.Professional, error) {
	var p professional.Professional
	var availability string
	err := row.Scan(&p.UserID, &p.Name, &p.Category, &p.Location, &p.YearsExperience, &p.Rating,
		&p.Reviews, &p.Skills, &p.Bio, &availability, &p.AvatarURL, &p.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return professional.Professional{}, professional.ErrNotFound
		}
		return professional.Professional{}, err
	}
	p.Availability = professional.Availability(availability)
	if p.Skills == nil {
		p.Skills = []string{}
	}
	return p, nil
}

// List returns professionals best-rated first.
func (r *PostgresProfessionalRepository) List(ctx context.Context) ([]professional.Professional, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+professionalColumns+` FROM professionals ORDER BY rating DESC, reviews DESC, name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]professional.Professional, 0)
	for rows.Next() {
		p, err := scanProfessional(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresProfessionalRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (professional.Professional, error) {
	return scanProfessional(r.db.QueryRow(ctx, `SELECT `+professionalColumns+` FROM professionals WHERE user_id = $1`, userID))
}

// Upsert stores the editable fields. Rating and review counts are never
// written from here.
func (r *PostgresProfessionalRepository) Upsert(ctx context.Context, p professional.Professional, phone string) (professional.Professional, error) {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	return scanProfessional(r.db.QueryRow(ctx,
		`INSERT INTO professionals (user_id, name, phone, category, location, years_experience, skills, bio, availability, avatar_url, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			category = EXCLUDED.category,
			location = EXCLUDED.location,
			years_experience = EXCLUDED.years_experience,
			skills = EXCLUDED.skills,
			bio = EXCLUDED.bio,
			availability = EXCLUDED.availability,
			avatar_url = COALESCE(NULLIF(EXCLUDED.avatar_url, ''), professionals.avatar_url),
			updated_at = EXCLUDED.updated_at
		 RETURNING `+professionalColumns,
		p.UserID, p.Name, phone, p.Category, p.Location, p.YearsExperience, skills, p.Bio,
		string(p.Availability), p.AvatarURL, time.Now().UTC(),
	))
}

func (r *PostgresProfessionalRepository) SetAvatar(ctx context.Context, userID uuid.UUID, url string) error {
	_, err := r.db.Exec(ctx, `UPDATE professionals SET avatar_url = $2, updated_at = now() WHERE user_id = $1`, userID, url)
	return err
}

type EmployerRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (professional.Employer, error)
	Upsert(ctx context.Context, e professional.Employer) (professional.Employer, error)
	SetLogo(ctx context.Context, userID uuid.UUID, url string) error
}

type PostgresEmployerRepository struct {
	db database.DB
}

func NewPostgresEmployerRepository(db database.DB) *PostgresEmployerRepository {
	return &PostgresEmployerRepository{db: db}
}

const employerColumns = `user_id, company_name, contact_name, email, phone, location, company_size,
	industry, description, website, logo_url, updated_at`

func scanEmployer(row database.Row) (professional.Employer, error) {
	var e professional.Employer
	err := row.Scan(&e.UserID, &e.CompanyName, &e.ContactName, &e.Email, &e.Phone, &e.Location,
		&e.CompanySize, &e.Industry, &e.Description, &e.Website, &e.LogoURL, &e.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return professional.Employer{}, professional.ErrEmployerNotFound
		}
		return professional.Employer{}, err
	}
	return e, nil
}

func (r *PostgresEmployerRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (professional.Employer, error) {
	return scanEmployer(r.db.QueryRow(ctx, `SELECT `+employerColumns+` FROM employers WHERE user_id = $1`, userID))
}

func (r *PostgresEmployerRepository) Upsert(ctx context.Context, e professional.Employer) (professional.Employer, error) {
	return scanEmployer(r.db.QueryRow(ctx,
		`INSERT INTO employers (user_id, company_name, contact_name, email, phone, location, company_size,
			industry, description, website, logo_url, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		 ON CONFLICT (user_id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			contact_name = EXCLUDED.contact_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			location = EXCLUDED.location,
			company_size = EXCLUDED.company_size,
			industry = EXCLUDED.industry,
			description = EXCLUDED.description,
			website = EXCLUDED.website,
			logo_url = COALESCE(NULLIF(EXCLUDED.logo_url, ''), employers.logo_url),
			updated_at = EXCLUDED.updated_at
		 RETURNING `+employerColumns,
		e.UserID, e.CompanyName, e.ContactName, e.Email, e.Phone, e.Location, e.CompanySize,
		e.Industry, e.Description, e.Website, e.LogoURL, time.Now().UTC(),
	))
}

func (r *PostgresEmployerRepository) SetLogo(ctx context.Context, userID uuid.UUID, url string) error {
	_, err := r.db.Exec(ctx, `UPDATE employers SET logo_url = $2, updated_at = now() WHERE user_id = $1`, userID, url)
	return err
}

type CertificateRepository interface {
	Create(ctx context.Context, c professional.Certificate) (professional.Certificate, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]professional.Certificate, error)
	GetByID(ctx context.Context, id uuid.UUID) (professional.Certificate, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresCertificateRepository struct {
	db database.DB
}

func NewPostgresCertificateRepository(db database.DB) *PostgresCertificateRepository {
	return &PostgresCertificateRepository{db: db}
}

const certificateColumns = `id, user_id, name, issuer, issued_at, file_path, file_url, created_at`

func scanCertificate(row database.Row) (professional.Certificate, error) {
	var c professional.Certificate
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Issuer, &c.IssuedAt, &c.FilePath, &c.FileURL, &c.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return professional.Certificate{}, professional.ErrCertificateNotFound
		}
		return professional.Certificate{}, err
	}
	return c, nil
}

func (r *PostgresCertificateRepository) Create(ctx context.Context, c professional.Certificate) (professional.Certificate, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return scanCertificate(r.db.QueryRow(ctx,
		`INSERT INTO certificates (id, user_id, name, issuer, issued_at, file_path, file_url, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING `+certificateColumns,
		c.ID, c.UserID, c.Name, c.Issuer, c.IssuedAt, c.FilePath, c.FileURL, time.Now().UTC(),
	))
}

func (r *PostgresCertificateRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]professional.Certificate, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+certificateColumns+` FROM certificates WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]professional.Certificate, 0)
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresCertificateRepository) GetByID(ctx context.Context, id uuid.UUID) (professional.Certificate, error) {
	return scanCertificate(r.db.QueryRow(ctx, `SELECT `+certificateColumns+` FROM certificates WHERE id = $1`, id))
}

func (r *PostgresCertificateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM certificates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return professional.ErrCertificateNotFound
	}
	return nil
}

var (
	_ ProfessionalRepository = (*PostgresProfessionalRepository)(nil)
	_ EmployerRepository     = (*PostgresEmployerRepository)(nil)
	_ CertificateRepository  = (*PostgresCertificateRepository)(nil)
)
