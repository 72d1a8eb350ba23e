package seeder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mammy-coker-hub/internal/database"
)

// JobsSeeder loads the demo job board: eight active postings, each owned by
// an employer account created for its company.
type JobsSeeder struct{}

func (JobsSeeder) Name() string { return "jobs" }

type demoJob struct {
	Title       string
	Company     string
	Location    string
	Category    string
	Type        string
	SalaryMin   int64
	SalaryMax   int64
	Description string
	PostedAgo   time.Duration
}

var demoJobs = []demoJob{
	{Title: "Experienced Carpenter Needed", Company: "ABC Construction", Location: "Freetown", Category: "Carpentry", Type: "Full-time", SalaryMin: 3000, SalaryMax: 5000, Description: "Looking for an experienced carpenter for residential construction projects", PostedAgo: 2 * 24 * time.Hour},
	{Title: "Licensed Electrician", Company: "PowerTech Solutions", Location: "Bo", Category: "Electrical", Type: "Full-time", SalaryMin: 4000, SalaryMax: 6000, Description: "Commercial electrician needed for large-scale installations", PostedAgo: 4 * 24 * time.Hour},
	{Title: "Plumbing Specialist", Company: "WaterWorks Ltd", Location: "Kenema", Category: "Plumbing", Type: "Contract", SalaryMin: 3500, SalaryMax: 5500, Description: "Residential and commercial plumbing repairs and installations", PostedAgo: 7 * 24 * time.Hour},
	{Title: "Construction Foreman", Company: "BuildTech Ltd", Location: "Freetown", Category: "Construction", Type: "Full-time", SalaryMin: 5000, SalaryMax: 7000, Description: "Experienced foreman needed to oversee construction projects", PostedAgo: 3 * 24 * time.Hour},
	{Title: "Part-time Electrician", Company: "Quick Fix Services", Location: "Bo", Category: "Electrical", Type: "Part-time", SalaryMin: 2500, SalaryMax: 3500, Description: "Flexible hours for electrical repair work", PostedAgo: 5 * 24 * time.Hour},
	{Title: "Master Carpenter", Company: "Premium Woodworks", Location: "Freetown", Category: "Carpentry", Type: "Full-time", SalaryMin: 6000, SalaryMax: 8000, Description: "High-end furniture and custom woodwork projects", PostedAgo: 24 * time.Hour},
	{Title: "Junior Plumber", Company: "City Plumbing Co", Location: "Makeni", Category: "Plumbing", Type: "Full-time", SalaryMin: 2000, SalaryMax: 3000, Description: "Entry-level plumber for residential repairs", PostedAgo: 6 * 24 * time.Hour},
	{Title: "Site Supervisor", Company: "MegaBuild Inc", Location: "Freetown", Category: "Construction", Type: "Full-time", SalaryMin: 7000, SalaryMax: 9000, Description: "Supervise construction sites and manage workers", PostedAgo: 2 * 24 * time.Hour},
}

func companySlug(company string) string {
	return strings.ToLower(strings.Join(strings.Fields(company), "-"))
}

func (JobsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "jobs",
		"id", "employer_id", "title", "company", "location", "category", "type",
		"salary_min", "salary_max", "description", "status", "created_at",
	); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "employers", "user_id", "company_name", "contact_name", "email"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	now := time.Now().UTC()
	for _, j := range demoJobs {
		employerID := demoID("employer", j.Company)
		slug := companySlug(j.Company)

		if _, err := tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, role) VALUES ($1, 'employer') ON CONFLICT (user_id) DO NOTHING`,
			employerID,
		); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO employers (user_id, company_name, contact_name, email, phone, location, company_size, industry, description)
			 VALUES ($1,$2,'Hiring Team',$3,'',$4,'11-50',$5,$6)
			 ON CONFLICT (user_id) DO NOTHING`,
			employerID, j.Company, "jobs@"+slug+".sl", j.Location, j.Category, j.Company+" hires skilled "+strings.ToLower(j.Category)+" workers.",
		); err != nil {
			return err
		}

		posted := now.Add(-j.PostedAgo)
		if _, err := tx.Exec(ctx,
			`INSERT INTO jobs (id, employer_id, title, company, location, category, type,
				salary_min, salary_max, description, status, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,'active',$11,$11)
			 ON CONFLICT (id) DO NOTHING`,
			demoID("job", j.Title+"@"+j.Company), employerID, j.Title, j.Company, j.Location, j.Category, j.Type,
			j.SalaryMin, j.SalaryMax, j.Description, posted,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
