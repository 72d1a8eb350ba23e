package job

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"mammy-coker-hub/internal/domain/validation"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("job not found")
	ErrNotOwner = errors.New("job belongs to another employer")
	ErrClosed   = errors.New("job is not accepting applications")

	ErrInvalidStatus = errors.New("invalid job status")
)

type Type string

const (
	TypeFullTime  Type = "Full-time"
	TypePartTime  Type = "Part-time"
	TypeContract  Type = "Contract"
	TypeTemporary Type = "Temporary"
)

var Types = []Type{TypeFullTime, TypePartTime, TypeContract, TypeTemporary}

type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
	StatusDraft  Status = "draft"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusClosed, StatusDraft:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

var Categories = []string{"Carpentry", "Electrical", "Plumbing", "Construction", "Masonry", "Painting", "Other"}

var Locations = []string{"Freetown", "Bo", "Kenema", "Makeni", "Koidu"}

// Job is a posted opportunity. Salaries are monthly amounts in Leones.
type Job struct {
	ID           uuid.UUID `json:"id"`
	EmployerID   uuid.UUID `json:"employer_id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Category     string    `json:"category"`
	Type         Type      `json:"type"`
	SalaryMin    int64     `json:"salary_min"`
	SalaryMax    int64     `json:"salary_max"`
	Description  string    `json:"description"`
	Requirements string    `json:"requirements,omitempty"`
	Benefits     string    `json:"benefits,omitempty"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SalaryLabel renders the range the way listings show it, e.g. "3,000-5,000 Le/month".
func (j Job) SalaryLabel() string {
	if j.SalaryMin == 0 && j.SalaryMax == 0 {
		return ""
	}
	return groupThousands(j.SalaryMin) + "-" + groupThousands(j.SalaryMax) + " Le/month"
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// Draft is the employer-editable part of a job.
type Draft struct {
	Title        string
	Category     string
	Location     string
	Type         string
	SalaryMin    *int64
	SalaryMax    *int64
	Description  string
	Requirements string
	Benefits     string
}

func (d Draft) Validate() error {
	e := validation.Errors{}

	validation.MinLen(e, "title", d.Title, 5, "Job title must be at least 5 characters")
	validation.MaxLen(e, "title", d.Title, 100, "Job title must be at most 100 characters")
	validation.MinLen(e, "category", d.Category, 1, "Please select a category")
	validation.MinLen(e, "location", d.Location, 2, "Location is required")

	if !validation.OneOf(strings.TrimSpace(d.Type), typeStrings()...) {
		e.Add("type", "Please select a valid job type")
	}

	validation.MinLen(e, "description", d.Description, 50, "Description must be at least 50 characters")
	validation.MaxLen(e, "description", d.Description, 5000, "Description must be at most 5000 characters")

	if d.SalaryMin != nil && *d.SalaryMin < 0 {
		e.Add("salaryMin", "Salary cannot be negative")
	}
	if d.SalaryMax != nil && *d.SalaryMax < 0 {
		e.Add("salaryMax", "Salary cannot be negative")
	}
	if d.SalaryMin != nil && d.SalaryMax != nil && *d.SalaryMax < *d.SalaryMin {
		e.Add("salaryMax", "Maximum salary must be greater than minimum salary")
	}

	return e.Err()
}

// Apply copies the draft onto j, trimming free text.
func (d Draft) Apply(j *Job) {
	j.Title = strings.TrimSpace(d.Title)
	j.Category = strings.TrimSpace(d.Category)
	j.Location = strings.TrimSpace(d.Location)
	j.Type = Type(strings.TrimSpace(d.Type))
	j.Description = strings.TrimSpace(d.Description)
	j.Requirements = strings.TrimSpace(d.Requirements)
	j.Benefits = strings.TrimSpace(d.Benefits)
	j.SalaryMin = 0
	j.SalaryMax = 0
	if d.SalaryMin != nil {
		j.SalaryMin = *d.SalaryMin
	}
	if d.SalaryMax != nil {
		j.SalaryMax = *d.SalaryMax
	}
}

func typeStrings() []string {
	out := make([]string, 0, len(Types))
	for _, t := range Types {
		out = append(out, string(t))
	}
	return out
}
