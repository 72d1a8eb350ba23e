// Package notification stores in-app notifications and pushes them to
// connected clients.
package notification

import (
	"context"
	"encoding/json"
	"strings"

	"mammy-coker-hub/internal/domain/notification"
	"mammy-coker-hub/internal/domain/validation"
	"mammy-coker-hub/internal/pkg/logging"
	"mammy-coker-hub/internal/repository"

	"github.com/google/uuid"
)

const defaultListLimit = 50

// ChannelPrefix prefixes the per-user real-time channel.
const ChannelPrefix = "notifications:"

func Channel(userID uuid.UUID) string { return ChannelPrefix + userID.String() }

type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

type Service struct {
	repo      repository.NotificationRepository
	publisher Publisher
	logger    *logging.Logger
}

func NewService(repo repository.NotificationRepository, publisher Publisher, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{repo: repo, publisher: publisher, logger: logger.With("component", "notification")}
}

type SendInput struct {
	UserID  uuid.UUID
	Type    string
	Title   string
	Message string
	Data    map[string]any
}

func (in SendInput) Validate() error {
	e := validation.Errors{}
	if in.UserID == uuid.Nil {
		e.Add("userId", "User id is required")
	}
	if _, err := notification.ParseType(strings.TrimSpace(in.Type)); err != nil {
		e.Add("type", "Unknown notification type")
	}
	validation.MinLen(e, "title", in.Title, 1, "Title is required")
	validation.MinLen(e, "message", in.Message, 1, "Message is required")
	return e.Err()
}

// Send backs the send-notification function. Only malformed input fails the
// call; a failed insert is logged and the built notification is returned.
func (s *Service) Send(ctx context.Context, in SendInput) (notification.Notification, error) {
	if err := in.Validate(); err != nil {
		return notification.Notification{}, err
	}
	t, _ := notification.ParseType(strings.TrimSpace(in.Type))
	return s.deliver(ctx, in.UserID, t, strings.TrimSpace(in.Title), strings.TrimSpace(in.Message), in.Data), nil
}

// Notify is the fire-and-forget form used by other services.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, t notification.Type, title, message string, data map[string]any) {
	s.deliver(ctx, userID, t, title, message, data)
}

func (s *Service) deliver(ctx context.Context, userID uuid.UUID, t notification.Type, title, message string, data map[string]any) notification.Notification {
	n := notification.Notification{UserID: userID, Type: t, Title: title, Message: message}
	if len(data) > 0 {
		raw, err := json.Marshal(data)
		if err != nil {
			s.logger.Warn("notification data dropped", "user_id", userID, "error", err)
		} else {
			n.Data = raw
		}
	}

	created, err := s.repo.Create(ctx, n)
	if err != nil {
		s.logger.Error("notification insert failed", "user_id", userID, "type", t, "error", err)
		return n
	}

	if s.publisher != nil {
		payload, err := json.Marshal(created)
		if err == nil {
			err = s.publisher.Publish(ctx, Channel(userID), payload)
		}
		if err != nil {
			s.logger.Debug("notification publish skipped", "user_id", userID, "error", err)
		}
	}
	return created
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, limit int) ([]notification.Notification, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	items, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []notification.Notification{}
	}
	return items, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, userID, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
