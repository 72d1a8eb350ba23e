package dto

import "mammy-coker-hub/internal/domain/professional"

type OnboardingRequest struct {
	FullName        string `json:"fullName"`
	Phone           string `json:"phone"`
	Location        string `json:"location"`
	Category        string `json:"category"`
	YearsExperience string `json:"yearsExperience"`
	Skills          string `json:"skills"`
	Bio             string `json:"bio"`
	Availability    string `json:"availability"`
}

func (r OnboardingRequest) Onboarding() professional.Onboarding {
	return professional.Onboarding{
		FullName:        r.FullName,
		Phone:           r.Phone,
		Location:        r.Location,
		Category:        r.Category,
		YearsExperience: r.YearsExperience,
		Skills:          r.Skills,
		Bio:             r.Bio,
		Availability:    r.Availability,
	}
}

type EmployerOnboardingRequest struct {
	CompanyName string `json:"companyName"`
	ContactName string `json:"contactName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	CompanySize string `json:"companySize"`
	Industry    string `json:"industry"`
	Description string `json:"description"`
	Website     string `json:"website"`
}

func (r EmployerOnboardingRequest) Onboarding() professional.EmployerOnboarding {
	return professional.EmployerOnboarding{
		CompanyName: r.CompanyName,
		ContactName: r.ContactName,
		Email:       r.Email,
		Phone:       r.Phone,
		Location:    r.Location,
		CompanySize: r.CompanySize,
		Industry:    r.Industry,
		Description: r.Description,
		Website:     r.Website,
	}
}

type ProfessionalResponse struct {
	professional.Professional
	Experience string `json:"experience"`
}

func NewProfessionalResponses(items []professional.Professional) []ProfessionalResponse {
	out := make([]ProfessionalResponse, 0, len(items))
	for _, p := range items {
		out = append(out, ProfessionalResponse{Professional: p, Experience: p.ExperienceLabel()})
	}
	return out
}
