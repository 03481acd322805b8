package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store defines the interface for user record storage.
type Store interface {
	// RecordVisitor upserts the record for a chat session, keeping the
	// latest non-empty display name.
	RecordVisitor(ctx context.Context, sessionID, name string) error
	// RecordContact upserts a record keyed by email or phone and returns
	// the stored row.
	RecordContact(ctx context.Context, u *User) (*User, error)
}

// InMemoryStore keeps user records in memory. Used in tests and when no
// database is configured.
type InMemoryStore struct {
	mu        sync.Mutex
	bySession map[string]*User
	byContact map[string]*User
}

// NewInMemoryStore creates a new in-memory user store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		bySession: make(map[string]*User),
		byContact: make(map[string]*User),
	}
}

// RecordVisitor upserts the session-keyed record.
func (s *InMemoryStore) RecordVisitor(ctx context.Context, sessionID, name string) error {
	if sessionID == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	u, ok := s.bySession[sessionID]
	if !ok {
		u = &User{ID: uuid.New().String(), SessionID: sessionID, CreatedAt: now}
		s.bySession[sessionID] = u
	}
	if name != "" {
		u.Name = name
	}
	u.UpdatedAt = now
	return nil
}

// RecordContact upserts the contact-keyed record.
func (s *InMemoryStore) RecordContact(ctx context.Context, in *User) (*User, error) {
	key := contactKey(in.Email, in.Phone)
	if key == "" {
		return nil, ErrNoContact
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	u, ok := s.byContact[key]
	if !ok {
		u = &User{ID: uuid.New().String(), CreatedAt: now}
		s.byContact[key] = u
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.Phone != "" {
		u.Phone = in.Phone
	}
	if in.BusinessType != "" {
		u.BusinessType = in.BusinessType
	}
	u.UpdatedAt = now

	cp := *u
	return &cp, nil
}

// Contact returns the contact-keyed record, if any.
func (s *InMemoryStore) Contact(email, phone string) (*User, bool) {
	key := contactKey(email, phone)
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byContact[key]
	if !ok {
		return nil, false
	}
	cp := *u
	return &cp, true
}

// Visitor returns the session-keyed record, if any.
func (s *InMemoryStore) Visitor(sessionID string) (*User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.bySession[sessionID]
	if !ok {
		return nil, false
	}
	cp := *u
	return &cp, true
}

var _ Store = (*InMemoryStore)(nil)
