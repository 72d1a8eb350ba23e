package dto

import "github.com/google/uuid"

type StartConversationRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

type DirectMessageRequest struct {
	RecipientID uuid.UUID `json:"recipient_id"`
	Content     string    `json:"content"`
}
