package dto

import "github.com/google/uuid"

// AssistantRequest is the ai-assistant function body.
type AssistantRequest struct {
	Prompt  string `json:"prompt"`
	Context string `json:"context"`
	Type    string `json:"type"`
}

// VerificationEmailRequest is the send-verification-email function body.
type VerificationEmailRequest struct {
	Email      string `json:"email"`
	Type       string `json:"type"`
	RedirectTo string `json:"redirectTo"`
}

// NotificationRequest is the send-notification function body.
type NotificationRequest struct {
	UserID  uuid.UUID      `json:"userId"`
	Type    string         `json:"type"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}
