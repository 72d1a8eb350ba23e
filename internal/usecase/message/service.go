// Package message implements direct messaging between two users.
package message

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"mammy-coker-hub/internal/domain/message"
	"mammy-coker-hub/internal/domain/notification"
	"mammy-coker-hub/internal/domain/user"
	"mammy-coker-hub/internal/domain/validation"
	"mammy-coker-hub/internal/pkg/logging"
	"mammy-coker-hub/internal/repository"

	"github.com/google/uuid"
)

const ChannelPrefix = "conversation:"

func Channel(conversationID uuid.UUID) string { return ChannelPrefix + conversationID.String() }

const (
	EventMessageCreated = "message.created"
	EventMessagesRead   = "message.read"
)

// Event is what subscribers of a conversation channel receive.
type Event struct {
	Type           string           `json:"type"`
	ConversationID uuid.UUID        `json:"conversation_id"`
	Message        *message.Message `json:"message,omitempty"`
	ReaderID       *uuid.UUID       `json:"reader_id,omitempty"`
	At             time.Time        `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, t notification.Type, title, message string, data map[string]any)
}

const previewLength = 100

type Service struct {
	conversations repository.ConversationRepository
	profiles      user.ProfileRepository
	publisher     Publisher
	notifier      Notifier
	logger        *logging.Logger
	now           func() time.Time
}

func NewService(conversations repository.ConversationRepository, profiles user.ProfileRepository, publisher Publisher, notifier Notifier, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{
		conversations: conversations,
		profiles:      profiles,
		publisher:     publisher,
		notifier:      notifier,
		logger:        logger.With("component", "message"),
		now:           time.Now,
	}
}

// Conversations returns the inbox, most recently active first.
func (s *Service) Conversations(ctx context.Context, actor user.Actor) ([]message.Summary, error) {
	items, err := s.conversations.ListSummaries(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []message.Summary{}
	}
	return items, nil
}

// Start returns the conversation between actor and otherID, creating it on
// first contact.
func (s *Service) Start(ctx context.Context, actor user.Actor, otherID uuid.UUID) (message.Conversation, error) {
	if otherID == actor.ID {
		return message.Conversation{}, message.ErrSelfConversation
	}
	if s.profiles != nil {
		if _, err := s.profiles.GetProfile(ctx, otherID); err != nil {
			return message.Conversation{}, err
		}
	}
	return s.conversations.GetOrCreate(ctx, actor.ID, otherID)
}

func (s *Service) Messages(ctx context.Context, actor user.Actor, conversationID uuid.UUID) ([]message.Message, error) {
	if _, err := s.participant(ctx, actor, conversationID); err != nil {
		return nil, err
	}
	items, err := s.conversations.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []message.Message{}
	}
	return items, nil
}

func (s *Service) Send(ctx context.Context, actor user.Actor, conversationID uuid.UUID, content string) (message.Message, error) {
	content = strings.TrimSpace(content)
	if err := validateContent(content); err != nil {
		return message.Message{}, err
	}
	conv, err := s.participant(ctx, actor, conversationID)
	if err != nil {
		return message.Message{}, err
	}

	m, err := s.conversations.AddMessage(ctx, message.Message{
		ConversationID: conversationID,
		SenderID:       actor.ID,
		Content:        content,
	})
	if err != nil {
		return message.Message{}, err
	}

	s.publish(ctx, Event{Type: EventMessageCreated, ConversationID: conversationID, Message: &m, At: s.now().UTC()})

	if s.notifier != nil {
		s.notifier.Notify(ctx, conv.Other(actor.ID), notification.TypeMessage,
			"New message",
			preview(content),
			map[string]any{"conversation_id": conversationID, "message_id": m.ID, "sender_id": actor.ID},
		)
	}
	return m, nil
}

// SendTo opens (or reuses) the conversation with recipientID and sends content.
func (s *Service) SendTo(ctx context.Context, actor user.Actor, recipientID uuid.UUID, content string) (message.Message, error) {
	if err := validateContent(strings.TrimSpace(content)); err != nil {
		return message.Message{}, err
	}
	conv, err := s.Start(ctx, actor, recipientID)
	if err != nil {
		return message.Message{}, err
	}
	return s.Send(ctx, actor, conv.ID, content)
}

// MarkRead marks the other participant's messages as read.
func (s *Service) MarkRead(ctx context.Context, actor user.Actor, conversationID uuid.UUID) (int64, error) {
	if _, err := s.participant(ctx, actor, conversationID); err != nil {
		return 0, err
	}
	n, err := s.conversations.MarkRead(ctx, conversationID, actor.ID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		reader := actor.ID
		s.publish(ctx, Event{Type: EventMessagesRead, ConversationID: conversationID, ReaderID: &reader, At: s.now().UTC()})
	}
	return n, nil
}

// Authorize reports whether actor may follow the conversation's live feed.
func (s *Service) Authorize(ctx context.Context, actor user.Actor, conversationID uuid.UUID) error {
	_, err := s.participant(ctx, actor, conversationID)
	return err
}

func (s *Service) participant(ctx context.Context, actor user.Actor, conversationID uuid.UUID) (message.Conversation, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return message.Conversation{}, err
	}
	if !conv.Has(actor.ID) {
		return message.Conversation{}, message.ErrNotParticipant
	}
	return conv, nil
}

func (s *Service) publish(ctx context.Context, ev Event) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err == nil {
		err = s.publisher.Publish(ctx, Channel(ev.ConversationID), payload)
	}
	if err != nil {
		s.logger.Debug("event publish skipped", "conversation_id", ev.ConversationID, "type", ev.Type, "error", err)
	}
}

func validateContent(content string) error {
	if content == "" {
		return message.ErrEmptyMessage
	}
	if validation.Len(content) > message.MaxContentLength {
		return validation.Errors{"content": "Message must be at most 4000 characters"}
	}
	return nil
}

func preview(content string) string {
	r := []rune(content)
	if len(r) <= previewLength {
		return content
	}
	return string(r[:previewLength]) + "…"
}
