package professional

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"mammy-coker-hub/internal/domain/validation"

	"github.com/google/uuid"
)

var (
	ErrNotFound            = errors.New("professional not found")
	ErrEmployerNotFound    = errors.New("employer not found")
	ErrCertificateNotFound = errors.New("certificate not found")
)

type Availability string

const (
	AvailabilityAvailable Availability = "Available"
	AvailabilityBusy      Availability = "Busy"
)

var Categories = []string{"Carpentry", "Electrical", "Plumbing", "Masonry", "Tailoring", "Catering", "Construction", "Welding", "Painting"}

type Professional struct {
	UserID          uuid.UUID    `json:"user_id"`
	Name            string       `json:"name"`
	Category        string       `json:"category"`
	Location        string       `json:"location"`
	YearsExperience int          `json:"years_experience"`
	Rating          float64      `json:"rating"`
	Reviews         int          `json:"reviews"`
	Skills          []string     `json:"skills"`
	Bio             string       `json:"bio"`
	Availability    Availability `json:"availability"`
	AvatarURL       string       `json:"avatar_url,omitempty"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// ExperienceLabel renders years as the listings do ("8 years").
func (p Professional) ExperienceLabel() string {
	if p.YearsExperience == 1 {
		return "1 year"
	}
	return strconv.Itoa(p.YearsExperience) + " years"
}

type Employer struct {
	UserID      uuid.UUID `json:"user_id"`
	CompanyName string    `json:"company_name"`
	ContactName string    `json:"contact_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Location    string    `json:"location"`
	CompanySize string    `json:"company_size"`
	Industry    string    `json:"industry"`
	Description string    `json:"description"`
	Website     string    `json:"website,omitempty"`
	LogoURL     string    `json:"logo_url,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Certificate struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Name      string     `json:"name"`
	Issuer    string     `json:"issuer"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	FilePath  string     `json:"file_path"`
	FileURL   string     `json:"file_url"`
	CreatedAt time.Time  `json:"created_at"`
}

// Onboarding carries both professional onboarding steps.
type Onboarding struct {
	FullName        string
	Phone           string
	Location        string
	Category        string
	YearsExperience string
	Skills          string
	Bio             string
	Availability    string
}

func (o Onboarding) Validate() error {
	e := validation.Errors{}

	validation.MinLen(e, "fullName", o.FullName, 2, "Full name must be at least 2 characters")
	validation.MaxLen(e, "fullName", o.FullName, 100, "Full name must be at most 100 characters")
	validation.MinLen(e, "phone", o.Phone, 10, "Please enter a valid phone number")
	validation.MinLen(e, "location", o.Location, 2, "Location is required")

	validation.MinLen(e, "category", o.Category, 2, "Please select or enter a category")
	if n, err := strconv.Atoi(strings.TrimSpace(o.YearsExperience)); err != nil || n < 0 {
		e.Add("yearsExperience", "Please enter valid years of experience")
	}
	validation.MinLen(e, "skills", o.Skills, 3, "Please enter at least one skill")
	validation.MinLen(e, "bio", o.Bio, 20, "Bio must be at least 20 characters")
	validation.MaxLen(e, "bio", o.Bio, 500, "Bio must be at most 500 characters")

	if a := strings.TrimSpace(o.Availability); a != "" && !validation.OneOf(a, string(AvailabilityAvailable), string(AvailabilityBusy)) {
		e.Add("availability", "Availability must be Available or Busy")
	}

	return e.Err()
}

// Apply copies a validated onboarding form onto p.
func (o Onboarding) Apply(p *Professional) {
	p.Name = strings.TrimSpace(o.FullName)
	p.Location = strings.TrimSpace(o.Location)
	p.Category = strings.TrimSpace(o.Category)
	p.YearsExperience, _ = strconv.Atoi(strings.TrimSpace(o.YearsExperience))
	p.Skills = SplitSkills(o.Skills)
	p.Bio = strings.TrimSpace(o.Bio)
	p.Availability = AvailabilityAvailable
	if a := strings.TrimSpace(o.Availability); a != "" {
		p.Availability = Availability(a)
	}
}

// SplitSkills parses a comma separated skill list, dropping blanks and duplicates.
func SplitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		k := strings.ToLower(p)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return out
}

type EmployerOnboarding struct {
	CompanyName string
	ContactName string
	Email       string
	Phone       string
	Location    string
	CompanySize string
	Industry    string
	Description string
	Website     string
}

func (o EmployerOnboarding) Validate() error {
	e := validation.Errors{}

	validation.MinLen(e, "companyName", o.CompanyName, 2, "Company name is required")
	validation.MaxLen(e, "companyName", o.CompanyName, 100, "Company name must be at most 100 characters")
	validation.MinLen(e, "contactName", o.ContactName, 2, "Contact name is required")
	validation.MaxLen(e, "contactName", o.ContactName, 100, "Contact name must be at most 100 characters")
	if !validation.IsEmail(o.Email) {
		e.Add("email", "Please enter a valid business email")
	}
	validation.MinLen(e, "phone", o.Phone, 10, "Please enter a valid phone number")
	validation.MinLen(e, "location", o.Location, 2, "Location is required")

	validation.MinLen(e, "companySize", o.CompanySize, 1, "Please enter company size")
	validation.MinLen(e, "industry", o.Industry, 2, "Industry is required")
	validation.MinLen(e, "description", o.Description, 20, "Description must be at least 20 characters")
	validation.MaxLen(e, "description", o.Description, 1000, "Description must be at most 1000 characters")
	if w := strings.TrimSpace(o.Website); w != "" && !validation.IsURL(w) {
		e.Add("website", "Please enter a valid URL")
	}

	return e.Err()
}

func (o EmployerOnboarding) Apply(emp *Employer) {
	emp.CompanyName = strings.TrimSpace(o.CompanyName)
	emp.ContactName = strings.TrimSpace(o.ContactName)
	emp.Email = strings.ToLower(strings.TrimSpace(o.Email))
	emp.Phone = strings.TrimSpace(o.Phone)
	emp.Location = strings.TrimSpace(o.Location)
	emp.CompanySize = strings.TrimSpace(o.CompanySize)
	emp.Industry = strings.TrimSpace(o.Industry)
	emp.Description = strings.TrimSpace(o.Description)
	emp.Website = strings.TrimSpace(o.Website)
}
