package application

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("application not found")
	ErrAlreadyApplied   = errors.New("already applied to this job")
	ErrInvalidStatus    = errors.New("invalid application status")
	ErrInvitationExists = errors.New("invitation already sent")
	ErrInvitationClosed = errors.New("invitation already answered")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusReviewed Status = "reviewed"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusReviewed, StatusAccepted, StatusRejected:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

type Application struct {
	ID             uuid.UUID `json:"id"`
	JobID          uuid.UUID `json:"job_id"`
	ProfessionalID uuid.UUID `json:"professional_id"`
	CoverLetter    string    `json:"cover_letter,omitempty"`
	Status         Status    `json:"status"`
	AppliedAt      time.Time `json:"applied_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Denormalized for listing views.
	JobTitle         string `json:"job_title,omitempty"`
	Company          string `json:"company,omitempty"`
	ProfessionalName string `json:"professional_name,omitempty"`
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// ParseResponse accepts the two answers a professional can give.
func ParseResponse(s string) (InvitationStatus, error) {
	switch InvitationStatus(s) {
	case InvitationAccepted, InvitationDeclined:
		return InvitationStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

type Invitation struct {
	ID             uuid.UUID        `json:"id"`
	JobID          uuid.UUID        `json:"job_id"`
	EmployerID     uuid.UUID        `json:"employer_id"`
	ProfessionalID uuid.UUID        `json:"professional_id"`
	Message        string           `json:"message,omitempty"`
	Status         InvitationStatus `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
	RespondedAt    *time.Time       `json:"responded_at,omitempty"`

	JobTitle string `json:"job_title,omitempty"`
	Company  string `json:"company,omitempty"`
}
