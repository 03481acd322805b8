package chat

import (
	"context"
	"sync"
	"time"

	"github.com/webvantage/chatbot-platform/internal/classifier"
)

// Stage is the coarse progress marker of a conversation. Transitions only
// move forward; a session starts over only when its context expires.
type Stage string

const (
	StageInitial        Stage = "initial"
	StageDiscovery      Stage = "discovery"
	StageRecommendation Stage = "recommendation"
	StageClosing        Stage = "closing"
)

// rank orders stages so the service can enforce forward-only movement.
func (s Stage) rank() int {
	switch s {
	case StageDiscovery:
		return 1
	case StageRecommendation:
		return 2
	case StageClosing:
		return 3
	default:
		return 0
	}
}

// SessionContext is the per-session conversation state.
type SessionContext struct {
	SessionID     string              `json:"session_id"`
	Name          string              `json:"name,omitempty"`
	Category      classifier.Category `json:"category"`
	Services      []string            `json:"services"`
	Stage         Stage               `json:"stage"`
	JustCorrected bool                `json:"just_corrected"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// AddService appends a service if not already mentioned, preserving the
// order services came up in.
func (c *SessionContext) AddService(service string) {
	for _, s := range c.Services {
		if s == service {
			return
		}
	}
	c.Services = append(c.Services, service)
}

// ContextStore hands out and persists session contexts. Implementations
// must expire idle sessions after their TTL.
type ContextStore interface {
	GetOrCreate(ctx context.Context, sessionID string) (*SessionContext, error)
	Save(ctx context.Context, sc *SessionContext) error
}

func newSessionContext(sessionID string) *SessionContext {
	return &SessionContext{
		SessionID: sessionID,
		Category:  classifier.CategoryGeneral,
		Services:  []string{},
		Stage:     StageInitial,
		UpdatedAt: time.Now().UTC(),
	}
}

// MemoryContextStore keeps contexts in process memory. Used in tests and
// when Redis is not configured; entries expire lazily on access.
type MemoryContextStore struct {
	ttl time.Duration

	mu       sync.Mutex
	sessions map[string]*SessionContext
}

// NewMemoryContextStore creates an in-memory store with the given TTL.
func NewMemoryContextStore(ttl time.Duration) *MemoryContextStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &MemoryContextStore{
		ttl:      ttl,
		sessions: make(map[string]*SessionContext),
	}
}

// GetOrCreate returns the live context for a session, creating a fresh one
// when none exists or the previous one has expired.
func (s *MemoryContextStore) GetOrCreate(_ context.Context, sessionID string) (*SessionContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sc, ok := s.sessions[sessionID]; ok {
		if time.Since(sc.UpdatedAt) <= s.ttl {
			clone := *sc
			clone.Services = append([]string(nil), sc.Services...)
			return &clone, nil
		}
		delete(s.sessions, sessionID)
	}

	sc := newSessionContext(sessionID)
	s.sessions[sessionID] = sc
	clone := *sc
	return &clone, nil
}

// Save stores the context and refreshes its expiry.
func (s *MemoryContextStore) Save(_ context.Context, sc *SessionContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *sc
	clone.Services = append([]string(nil), sc.Services...)
	clone.UpdatedAt = time.Now().UTC()
	s.sessions[sc.SessionID] = &clone
	return nil
}
