package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSeatMapReportsLapsedLocksAsAvailable(t *testing.T) {
	seats := testSeats()
	user := uuid.New()
	start := time.Now()

	_, err := lockSeatSet(seats, refs(SeatRef{"A", 1}, SeatRef{"A", 2}), user, start, 15*time.Minute)
	require.NoError(t, err)

	event := &Event{
		ID:         uuid.New(),
		TotalSeats: len(seats),
		Seats:      seats,
	}

	live := BuildSeatMap(event, start.Add(time.Minute))
	assert.Equal(t, 38, live.AvailableSeats)
	assert.Equal(t, SeatLocked, live.Rows["A"][0].Status)

	// Once the hold lapses the map presents the seats as free again,
	// even though the sweeper has not run yet.
	lapsed := BuildSeatMap(event, start.Add(20*time.Minute))
	assert.Equal(t, 40, lapsed.AvailableSeats)
	assert.Equal(t, SeatAvailable, lapsed.Rows["A"][0].Status)
}
