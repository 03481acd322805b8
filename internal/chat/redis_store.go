package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// RedisContextStore persists session contexts in Redis under a TTL so idle
// sessions evict themselves instead of accumulating forever.
type RedisContextStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisContextStore creates a Redis-backed context store.
func NewRedisContextStore(client *redis.Client, ttl time.Duration) *RedisContextStore {
	if client == nil {
		panic("chat: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisContextStore{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("webvantage.internal.chat.context"),
	}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("chat:session:%s", sessionID)
}

// GetOrCreate loads the stored context or starts a fresh one when the key
// is missing or expired.
func (s *RedisContextStore) GetOrCreate(ctx context.Context, sessionID string) (*SessionContext, error) {
	ctx, span := s.tracer.Start(ctx, "chat.context_load")
	defer span.End()

	data, err := s.redis.Get(ctx, sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return newSessionContext(sessionID), nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("chat: failed to load session context: %w", err)
	}

	var sc SessionContext
	if err := json.Unmarshal(data, &sc); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("chat: failed to decode session context: %w", err)
	}
	return &sc, nil
}

// Save persists the context and resets its TTL.
func (s *RedisContextStore) Save(ctx context.Context, sc *SessionContext) error {
	ctx, span := s.tracer.Start(ctx, "chat.context_save")
	defer span.End()

	sc.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(sc)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("chat: failed to marshal session context: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(sc.SessionID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("chat: failed to persist session context: %w", err)
	}
	return nil
}

var _ ContextStore = (*RedisContextStore)(nil)
var _ ContextStore = (*MemoryContextStore)(nil)
