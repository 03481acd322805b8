package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TranscriptMessage is one stored chat turn.
type TranscriptMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TranscriptStore records conversation logs for later review and export.
type TranscriptStore interface {
	Append(ctx context.Context, sessionID string, msg TranscriptMessage) error
	List(ctx context.Context, sessionID string, limit int) ([]TranscriptMessage, error)
}

// pgxConn is the subset of pgxpool.Pool the store uses; pgxmock satisfies
// it in tests.
type pgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresTranscriptStore persists conversations and their messages.
type PostgresTranscriptStore struct {
	db pgxConn
}

// NewPostgresTranscriptStore creates a transcript store backed by Postgres.
func NewPostgresTranscriptStore(db pgxConn) *PostgresTranscriptStore {
	if db == nil {
		panic("chat: database connection required")
	}
	return &PostgresTranscriptStore{db: db}
}

// ensureConversation upserts the conversation row for a session.
func (s *PostgresTranscriptStore) ensureConversation(ctx context.Context, sessionID string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO conversations (id, session_id, started_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (session_id) DO UPDATE SET updated_at = EXCLUDED.updated_at
	`, uuid.New(), sessionID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("chat: failed to upsert conversation: %w", err)
	}
	return nil
}

// Append stores one message and bumps the conversation counters.
func (s *PostgresTranscriptStore) Append(ctx context.Context, sessionID string, msg TranscriptMessage) error {
	if strings.TrimSpace(sessionID) == "" {
		return errors.New("chat: session id required")
	}
	if err := s.ensureConversation(ctx, sessionID); err != nil {
		return err
	}

	msgID := uuid.New()
	if msg.ID != "" {
		if parsed, err := uuid.Parse(msg.ID); err == nil {
			msgID = parsed
		}
	}
	createdAt := msg.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO conversation_messages (id, session_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, msgID, sessionID, msg.Role, msg.Content, createdAt)
	if err != nil {
		return fmt.Errorf("chat: failed to insert message: %w", err)
	}

	counter := "message_count"
	switch msg.Role {
	case "user":
		counter = "user_message_count"
	case "assistant":
		counter = "assistant_message_count"
	}
	_, err = s.db.Exec(ctx, fmt.Sprintf(`
		UPDATE conversations SET
			%s = %s + 1,
			last_message_at = $1,
			updated_at = $1
		WHERE session_id = $2
	`, counter, counter), createdAt, sessionID)
	if err != nil {
		return fmt.Errorf("chat: failed to update counters: %w", err)
	}
	return nil
}

// List returns the oldest-first transcript for a session.
func (s *PostgresTranscriptStore) List(ctx context.Context, sessionID string, limit int) ([]TranscriptMessage, error) {
	query := `
		SELECT id, role, content, created_at
		FROM conversation_messages
		WHERE session_id = $1
		ORDER BY created_at ASC
	`
	args := []any{sessionID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("chat: failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []TranscriptMessage
	for rows.Next() {
		var (
			id  uuid.UUID
			msg TranscriptMessage
		)
		if err := rows.Scan(&id, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("chat: failed to scan message: %w", err)
		}
		msg.ID = id.String()
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chat: failed to read messages: %w", err)
	}
	return messages, nil
}

var _ TranscriptStore = (*PostgresTranscriptStore)(nil)
