package events

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"showtix/internal/shared/constants"
)

// EventMutex is a best-effort per-event fence held across a seat
// mutation. The database row lock remains the correctness authority;
// the fence keeps concurrent lock attempts for hot events from piling
// up on the database.
type EventMutex struct {
	client *redis.Client
	ttl    time.Duration

	releaseScript *redis.Script
}

// releaseLua deletes the mutex key only when the caller still owns it.
const releaseLua = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

func NewEventMutex(client *redis.Client, ttl time.Duration) *EventMutex {
	return &EventMutex{
		client:        client,
		ttl:           ttl,
		releaseScript: redis.NewScript(releaseLua),
	}
}

// PreloadScripts loads the Lua scripts into the Redis script cache so
// later calls hit EVALSHA directly.
func (m *EventMutex) PreloadScripts(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	if err := m.releaseScript.Load(ctx, m.client).Err(); err != nil {
		return fmt.Errorf("failed to preload mutex scripts: %w", err)
	}
	return nil
}

// Acquire takes the per-event mutex and returns an opaque token for
// Release. When the mutex is held or Redis is unreachable it returns
// an empty token and the caller proceeds to contend on the database
// row lock directly.
func (m *EventMutex) Acquire(ctx context.Context, eventID uuid.UUID) (string, error) {
	if m.client == nil {
		return "", nil
	}
	token, err := newToken()
	if err != nil {
		return "", err
	}
	key := constants.BuildEventMutexKey(eventID.String())
	ok, err := m.client.SetNX(ctx, key, token, m.ttl).Result()
	if err != nil || !ok {
		return "", nil
	}
	return token, nil
}

// Release gives the mutex back if the token still owns it. Safe to call
// after the TTL has lapsed.
func (m *EventMutex) Release(ctx context.Context, eventID uuid.UUID, token string) {
	if m.client == nil || token == "" {
		return
	}
	key := constants.BuildEventMutexKey(eventID.String())
	// Run is EVALSHA with an EVAL fallback when the script cache was
	// flushed.
	m.releaseScript.Run(ctx, m.client, []string{key}, token)
}

func newToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate mutex token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
