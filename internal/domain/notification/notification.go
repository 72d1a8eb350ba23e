package notification

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("notification not found")
	ErrInvalidType = errors.New("invalid notification type")
)

type Type string

const (
	TypeJobApplication Type = "job_application"
	TypeMessage        Type = "message"
	TypeJobUpdate      Type = "job_update"
	TypeProfileView    Type = "profile_view"
	TypeSystem         Type = "system"
)

func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeJobApplication, TypeMessage, TypeJobUpdate, TypeProfileView, TypeSystem:
		return Type(s), nil
	default:
		return "", ErrInvalidType
	}
}

type Notification struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Type      Type            `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data,omitempty"`
	Read      bool            `json:"read"`
	CreatedAt time.Time       `json:"created_at"`
}
