package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxConn is the subset of pgxpool.Pool the store uses; pgxmock satisfies
// it in tests.
type pgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists user records.
type PostgresStore struct {
	db pgxConn
}

// NewPostgresStore creates a user store backed by Postgres.
func NewPostgresStore(db pgxConn) *PostgresStore {
	if db == nil {
		panic("users: database connection required")
	}
	return &PostgresStore{db: db}
}

// RecordVisitor upserts the session-keyed record, keeping the latest
// non-empty display name.
func (s *PostgresStore) RecordVisitor(ctx context.Context, sessionID, name string) error {
	if sessionID == "" {
		return nil
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, session_id, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id) DO UPDATE SET
			name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE users.name END,
			updated_at = now()
	`, uuid.New(), sessionID, name)
	if err != nil {
		return fmt.Errorf("users: visitor upsert failed: %w", err)
	}
	return nil
}

// RecordContact upserts a record keyed by email or phone. Empty incoming
// fields never blank out stored ones.
func (s *PostgresStore) RecordContact(ctx context.Context, in *User) (*User, error) {
	key := contactKey(in.Email, in.Phone)
	if key == "" {
		return nil, ErrNoContact
	}

	query := `
		INSERT INTO users (id, contact_key, name, email, phone, business_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (contact_key) DO UPDATE SET
			name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE users.name END,
			email = CASE WHEN EXCLUDED.email <> '' THEN EXCLUDED.email ELSE users.email END,
			phone = CASE WHEN EXCLUDED.phone <> '' THEN EXCLUDED.phone ELSE users.phone END,
			business_type = CASE WHEN EXCLUDED.business_type <> '' THEN EXCLUDED.business_type ELSE users.business_type END,
			updated_at = now()
		RETURNING id, name, email, phone, business_type, created_at, updated_at
	`
	var (
		id uuid.UUID
		u  User
	)
	err := s.db.QueryRow(ctx, query,
		uuid.New(), key, in.Name, in.Email, in.Phone, in.BusinessType,
	).Scan(&id, &u.Name, &u.Email, &u.Phone, &u.BusinessType, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("users: contact upsert failed: %w", err)
	}
	u.ID = id.String()
	return &u, nil
}

var _ Store = (*PostgresStore)(nil)
