package repository

import (
	"context"
	"time"

	"mammy-coker-hub/internal/database"
	"mammy-coker-hub/internal/domain/message"

	"github.com/google/uuid"
)

type ConversationRepository interface {
	// GetOrCreate returns the single conversation for the pair, creating it
	// on first use.
	GetOrCreate(ctx context.Context, a, b uuid.UUID) (message.Conversation, error)
	GetByID(ctx context.Context, id uuid.UUID) (message.Conversation, error)
	ListSummaries(ctx context.Context, userID uuid.UUID) ([]message.Summary, error)
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]message.Message, error)
	AddMessage(ctx context.Context, m message.Message) (message.Message, error)
	MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error)
}

type PostgresConversationRepository struct {
	db database.DB
}

func NewPostgresConversationRepository(db database.DB) *PostgresConversationRepository {
	return &PostgresConversationRepository{db: db}
}

func scanConversation(row database.Row) (message.Conversation, error) {
	var c message.Conversation
	if err := row.Scan(&c.ID, &c.ParticipantA, &c.ParticipantB, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if isNoRows(err) {
			return message.Conversation{}, message.ErrConversationNotFound
		}
		return message.Conversation{}, err
	}
	return c, nil
}

func (r *PostgresConversationRepository) GetOrCreate(ctx context.Context, a, b uuid.UUID) (message.Conversation, error) {
	a, b = message.OrderedPair(a, b)
	now := time.Now().UTC()

	// The no-op update makes RETURNING yield the existing row on conflict.
	return scanConversation(r.db.QueryRow(ctx,
		`INSERT INTO conversations (id, participant_a, participant_b, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$4)
		 ON CONFLICT (participant_a, participant_b) DO UPDATE SET participant_a = EXCLUDED.participant_a
		 RETURNING id, participant_a, participant_b, created_at, updated_at`,
		uuid.New(), a, b, now,
	))
}

func (r *PostgresConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (message.Conversation, error) {
	return scanConversation(r.db.QueryRow(ctx,
		`SELECT id, participant_a, participant_b, created_at, updated_at FROM conversations WHERE id = $1`, id,
	))
}

// ListSummaries returns the user's inbox, most recently active first.
func (r *PostgresConversationRepository) ListSummaries(ctx context.Context, userID uuid.UUID) ([]message.Summary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.participant_a, c.participant_b, c.created_at, c.updated_at,
			other.id,
			COALESCE(NULLIF(p.full_name, ''), NULLIF(e.company_name, ''), ''),
			COALESCE(NULLIF(p.avatar_url, ''), NULLIF(e.logo_url, ''), ''),
			COALESCE(last.content, ''),
			COALESCE(last.created_at, c.updated_at),
			(SELECT COUNT(1) FROM messages m WHERE m.conversation_id = c.id AND m.sender_id <> $1 AND NOT m.read)
		 FROM conversations c
		 CROSS JOIN LATERAL (SELECT CASE WHEN c.participant_a = $1 THEN c.participant_b ELSE c.participant_a END AS id) other
		 LEFT JOIN profiles p ON p.user_id = other.id
		 LEFT JOIN employers e ON e.user_id = other.id
		 LEFT JOIN LATERAL (
			SELECT content, created_at FROM messages m
			WHERE m.conversation_id = c.id
			ORDER BY m.created_at DESC LIMIT 1
		 ) last ON true
		 WHERE c.participant_a = $1 OR c.participant_b = $1
		 ORDER BY c.updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]message.Summary, 0)
	for rows.Next() {
		var s message.Summary
		if err := rows.Scan(&s.ID, &s.ParticipantA, &s.ParticipantB, &s.CreatedAt, &s.UpdatedAt,
			&s.ParticipantID, &s.ParticipantName, &s.ParticipantAvatar,
			&s.LastMessage, &s.LastMessageAt, &s.Unread); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresConversationRepository) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]message.Message, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, conversation_id, sender_id, content, read, created_at
		 FROM messages WHERE conversation_id = $1
		 ORDER BY created_at ASC, id ASC`,
		conversationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]message.Message, 0)
	for rows.Next() {
		var m message.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// AddMessage stores m and bumps the conversation in one transaction.
func (r *PostgresConversationRepository) AddMessage(ctx context.Context, m message.Message) (message.Message, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return message.Message{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx,
		`INSERT INTO messages (id, conversation_id, sender_id, content, read, created_at)
		 VALUES ($1,$2,$3,$4,false,$5)`,
		m.ID, m.ConversationID, m.SenderID, m.Content, m.CreatedAt,
	); err != nil {
		if isForeignKeyViolation(err) {
			return message.Message{}, message.ErrConversationNotFound
		}
		return message.Message{}, err
	}
	if _, err := tx.Exec(ctx, `UPDATE conversations SET updated_at = $2 WHERE id = $1`, m.ConversationID, m.CreatedAt); err != nil {
		return message.Message{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return message.Message{}, err
	}
	return m, nil
}

// MarkRead flags the other participant's messages as read.
func (r *PostgresConversationRepository) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	return r.db.Exec(ctx,
		`UPDATE messages SET read = true WHERE conversation_id = $1 AND sender_id <> $2 AND NOT read`,
		conversationID, readerID,
	)
}

var _ ConversationRepository = (*PostgresConversationRepository)(nil)
