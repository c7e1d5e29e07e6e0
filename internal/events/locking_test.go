package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeats() []Seat {
	return GenerateLayoutForCapacity(40)
}

func refs(labels ...SeatRef) []SeatRef { return labels }

func TestLockSeatSetAllOrNothing(t *testing.T) {
	seats := testSeats()
	user := uuid.New()
	other := uuid.New()
	now := time.Now()

	// Another user holds A2.
	_, err := lockSeatSet(seats, refs(SeatRef{"A", 2}), other, now, 15*time.Minute)
	require.NoError(t, err)

	_, err = lockSeatSet(seats, refs(SeatRef{"A", 1}, SeatRef{"A", 2}), user, now, 15*time.Minute)
	require.ErrorIs(t, err, ErrSeatLocked)

	// A1 must remain untouched after the failed request.
	a1 := findSeat(seats, SeatRef{"A", 1})
	assert.Equal(t, SeatAvailable, a1.Status)
	assert.Nil(t, a1.BookedBy)
}

func TestLockSeatSetSuccess(t *testing.T) {
	seats := testSeats()
	user := uuid.New()
	now := time.Now()

	picked, err := lockSeatSet(seats, refs(SeatRef{"A", 1}, SeatRef{"B", 1}), user, now, 15*time.Minute)
	require.NoError(t, err)
	require.Len(t, picked, 2)

	for _, seat := range picked {
		assert.Equal(t, SeatLocked, seat.Status)
		require.NotNil(t, seat.LockedUntil)
		assert.WithinDuration(t, now.Add(15*time.Minute), *seat.LockedUntil, time.Second)
		require.NotNil(t, seat.BookedBy)
		assert.Equal(t, user, *seat.BookedBy)
	}
}

func TestLockSeatSetReclaimsExpiredLock(t *testing.T) {
	seats := testSeats()
	first := uuid.New()
	second := uuid.New()
	start := time.Now()

	_, err := lockSeatSet(seats, refs(SeatRef{"A", 1}), first, start, 15*time.Minute)
	require.NoError(t, err)

	later := start.Add(16 * time.Minute)
	picked, err := lockSeatSet(seats, refs(SeatRef{"A", 1}), second, later, 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, second, *picked[0].BookedBy)
}

func TestLockSeatSetRejectsOwnLiveLock(t *testing.T) {
	seats := testSeats()
	user := uuid.New()
	now := time.Now()

	_, err := lockSeatSet(seats, refs(SeatRef{"A", 1}), user, now, 15*time.Minute)
	require.NoError(t, err)

	// A live lock blocks re-locking even for its holder.
	_, err = lockSeatSet(seats, refs(SeatRef{"A", 1}), user, now.Add(time.Minute), 15*time.Minute)
	assert.ErrorIs(t, err, ErrSeatLocked)
}

func TestLockSeatSetBookedSeat(t *testing.T) {
	seats := testSeats()
	user := uuid.New()
	buyer := uuid.New()
	now := time.Now()

	_, err := lockSeatSet(seats, refs(SeatRef{"A", 1}), buyer, now, 15*time.Minute)
	require.NoError(t, err)
	_, err = confirmSeatSet(seats, refs(SeatRef{"A", 1}), buyer)
	require.NoError(t, err)

	_, err = lockSeatSet(seats, refs(SeatRef{"A", 1}), user, now.Add(time.Hour), 15*time.Minute)
	assert.ErrorIs(t, err, ErrSeatAlreadyBooked)
}

func TestLockSeatSetValidation(t *testing.T) {
	seats := testSeats()
	user := uuid.New()
	now := time.Now()

	_, err := lockSeatSet(seats, nil, user, now, 15*time.Minute)
	assert.ErrorIs(t, err, ErrNoSeatsRequested)

	_, err = lockSeatSet(seats, refs(SeatRef{"A", 1}, SeatRef{"A", 1}), user, now, 15*time.Minute)
	assert.ErrorIs(t, err, ErrDuplicateSeatRef)

	_, err = lockSeatSet(seats, refs(SeatRef{"Z", 99}), user, now, 15*time.Minute)
	assert.ErrorIs(t, err, ErrSeatNotFound)
}

func TestConfirmSeatSetHolderOnly(t *testing.T) {
	seats := testSeats()
	holder := uuid.New()
	intruder := uuid.New()
	now := time.Now()

	_, err := lockSeatSet(seats, refs(SeatRef{"A", 1}), holder, now, 15*time.Minute)
	require.NoError(t, err)

	_, err = confirmSeatSet(seats, refs(SeatRef{"A", 1}), intruder)
	assert.ErrorIs(t, err, ErrSeatNotLockedByUser)

	picked, err := confirmSeatSet(seats, refs(SeatRef{"A", 1}), holder)
	require.NoError(t, err)
	assert.Equal(t, SeatBooked, picked[0].Status)
	assert.Nil(t, picked[0].LockedUntil)
	assert.Equal(t, holder, *picked[0].BookedBy)
}

func TestConfirmSeatSetAfterExpiryStillHeld(t *testing.T) {
	seats := testSeats()
	holder := uuid.New()
	start := time.Now()

	_, err := lockSeatSet(seats, refs(SeatRef{"A", 1}), holder, start, 15*time.Minute)
	require.NoError(t, err)

	// Expiry lapsed but nobody reclaimed the seat; the confirmation
	// still belongs to the original holder.
	picked, err := confirmSeatSet(seats, refs(SeatRef{"A", 1}), holder)
	require.NoError(t, err)
	assert.Equal(t, SeatBooked, picked[0].Status)
}

func TestConfirmSeatSetUnlockedSeat(t *testing.T) {
	seats := testSeats()
	user := uuid.New()

	_, err := confirmSeatSet(seats, refs(SeatRef{"A", 1}), user)
	assert.ErrorIs(t, err, ErrSeatNotLockedByUser)
}

func TestReleaseSeatSet(t *testing.T) {
	seats := testSeats()
	buyer := uuid.New()
	now := time.Now()

	_, err := lockSeatSet(seats, refs(SeatRef{"A", 1}, SeatRef{"A", 2}), buyer, now, 15*time.Minute)
	require.NoError(t, err)
	_, err = confirmSeatSet(seats, refs(SeatRef{"A", 1}, SeatRef{"A", 2}), buyer)
	require.NoError(t, err)

	released := releaseSeatSet(seats, refs(SeatRef{"A", 1}, SeatRef{"A", 2}, SeatRef{"A", 3}))
	// A3 was already available and is skipped.
	require.Len(t, released, 2)
	for _, seat := range released {
		assert.Equal(t, SeatAvailable, seat.Status)
		assert.Nil(t, seat.BookedBy)
		assert.Nil(t, seat.LockedUntil)
	}
}

func TestReclaimExpired(t *testing.T) {
	seats := testSeats()
	user := uuid.New()
	start := time.Now()

	_, err := lockSeatSet(seats, refs(SeatRef{"A", 1}, SeatRef{"A", 2}), user, start, 15*time.Minute)
	require.NoError(t, err)
	_, err = lockSeatSet(seats, refs(SeatRef{"B", 1}), user, start.Add(10*time.Minute), 15*time.Minute)
	require.NoError(t, err)

	reclaimed := reclaimExpired(seats, start.Add(16*time.Minute))
	require.Len(t, reclaimed, 2)
	b1 := findSeat(seats, SeatRef{"B", 1})
	assert.Equal(t, SeatLocked, b1.Status)
}

func TestCountAvailableTreatsLapsedLocksAsFree(t *testing.T) {
	seats := testSeats()
	user := uuid.New()
	start := time.Now()

	_, err := lockSeatSet(seats, refs(SeatRef{"A", 1}, SeatRef{"A", 2}), user, start, 15*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 38, countAvailable(seats, start.Add(time.Minute)))
	assert.Equal(t, 40, countAvailable(seats, start.Add(20*time.Minute)))
}
