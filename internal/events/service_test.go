package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showtix/pkg/cache"
	"showtix/pkg/logger"
)

// stubRepo serves a single in-memory event so service rules can be
// exercised without a database.
type stubRepo struct {
	event *Event
}

func (r *stubRepo) Create(ctx context.Context, event *Event) error { return nil }

func (r *stubRepo) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	if r.event == nil || r.event.ID != id {
		return nil, ErrEventNotFound
	}
	return r.event, nil
}

func (r *stubRepo) GetByIDWithSeats(ctx context.Context, id uuid.UUID) (*Event, error) {
	return r.GetByID(ctx, id)
}

func (r *stubRepo) GetAll(ctx context.Context, query ListQuery) ([]Event, int64, error) {
	return nil, 0, nil
}

func (r *stubRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Event, error) {
	return r.GetByID(ctx, id)
}

func (r *stubRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *stubRepo) MutateSeats(ctx context.Context, eventID uuid.UUID, fn SeatMutation) (*Event, error) {
	event, err := r.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if _, err := fn(event, event.Seats); err != nil {
		return nil, err
	}
	return event, nil
}

func (r *stubRepo) ReleaseExpiredLocks(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

// bypassCache always misses and always fetches.
type bypassCache struct{}

func (bypassCache) Get(ctx context.Context, key string, dest interface{}) error {
	return cache.ErrCacheMiss
}
func (bypassCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (bypassCache) Delete(ctx context.Context, key string) error         { return nil }
func (bypassCache) DeletePattern(ctx context.Context, pattern string) error { return nil }
func (bypassCache) Ping(ctx context.Context) error                       { return nil }

func (bypassCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	val, err := fetcher()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func newTestService(t *testing.T) (Service, *Event) {
	t.Helper()
	event := &Event{
		ID:       uuid.New(),
		Title:    "Test Event",
		DateTime: time.Now().Add(48 * time.Hour),
		IsActive: true,
		Seats:    GenerateLayoutForCapacity(40),
	}
	event.TotalSeats = len(event.Seats)
	event.AvailableSeats = len(event.Seats)

	repo := &stubRepo{event: event}
	svc := NewService(repo, bypassCache{}, NewEventMutex(nil, time.Second), logger.GetDefault())
	return svc, event
}

func TestConfirmSeatsRejectsInactiveEvent(t *testing.T) {
	svc, event := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	refs := []SeatRef{{Row: "A", Number: 1}}

	_, err := svc.LockSeats(ctx, event.ID, userID, refs, 15*time.Minute)
	require.NoError(t, err)

	event.IsActive = false
	_, err = svc.ConfirmSeats(ctx, event.ID, userID, refs)
	assert.ErrorIs(t, err, ErrEventNotActive)

	seat := findSeat(event.Seats, refs[0])
	require.NotNil(t, seat)
	assert.Equal(t, SeatLocked, seat.Status, "failed confirm must not touch the seat")

	event.IsActive = true
	snapshots, err := svc.ConfirmSeats(ctx, event.ID, userID, refs)
	require.NoError(t, err)
	assert.Len(t, snapshots, 1)
	assert.Equal(t, SeatBooked, seat.Status)
}

func TestQuoteLockedSeatsRejectsInactiveEvent(t *testing.T) {
	svc, event := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	refs := []SeatRef{{Row: "A", Number: 1}, {Row: "A", Number: 2}}

	_, err := svc.LockSeats(ctx, event.ID, userID, refs, 15*time.Minute)
	require.NoError(t, err)

	event.IsActive = false
	_, err = svc.QuoteLockedSeats(ctx, event.ID, userID, refs)
	assert.ErrorIs(t, err, ErrEventNotActive)
}
