package dto

import (
	"mammy-coker-hub/internal/domain/job"

	"github.com/google/uuid"
)

type JobRequest struct {
	Title        string `json:"title"`
	Category     string `json:"category"`
	Location     string `json:"location"`
	Type         string `json:"type"`
	SalaryMin    *int64 `json:"salaryMin"`
	SalaryMax    *int64 `json:"salaryMax"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Benefits     string `json:"benefits"`
}

func (r JobRequest) Draft() job.Draft {
	return job.Draft{
		Title:        r.Title,
		Category:     r.Category,
		Location:     r.Location,
		Type:         r.Type,
		SalaryMin:    r.SalaryMin,
		SalaryMax:    r.SalaryMax,
		Description:  r.Description,
		Requirements: r.Requirements,
		Benefits:     r.Benefits,
	}
}

type StatusRequest struct {
	Status string `json:"status"`
}

type ApplyRequest struct {
	CoverLetter string `json:"cover_letter"`
}

type InviteRequest struct {
	ProfessionalIDs []uuid.UUID `json:"professional_ids"`
	Message         string      `json:"message"`
}

type RespondInvitationRequest struct {
	Response string `json:"response"`
}

// JobResponse adds the listing labels to a job.
type JobResponse struct {
	job.Job
	SalaryLabel string `json:"salary_label"`
}

func NewJobResponse(j job.Job) JobResponse {
	return JobResponse{Job: j, SalaryLabel: j.SalaryLabel()}
}

func NewJobResponses(items []job.Job) []JobResponse {
	out := make([]JobResponse, 0, len(items))
	for _, j := range items {
		out = append(out, NewJobResponse(j))
	}
	return out
}
