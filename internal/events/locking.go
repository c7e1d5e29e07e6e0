package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// The functions in this file implement the seat state machine. They
// operate on an in-memory seat set loaded under the event's row lock,
// so every decision here is serialized per event.
//
//	available -> locked   (lockSeatSet)
//	locked    -> booked   (confirmSeatSet, holder only)
//	locked    -> available (releaseSeatSet, or lazy expiry)
//
// Expired locks are treated as available at the moment of the next
// conflicting request; no background action is required for
// correctness.

// lockSeatSet locks every requested seat for userID or none of them.
// Seats whose lock has lapsed are reclaimed in passing, including
// seats the same user previously held. A live lock blocks the request
// regardless of who holds it.
func lockSeatSet(seats []Seat, refs []SeatRef, userID uuid.UUID, now time.Time, ttl time.Duration) ([]*Seat, error) {
	if err := validateRefs(refs); err != nil {
		return nil, err
	}

	picked := make([]*Seat, 0, len(refs))
	for _, ref := range refs {
		seat := findSeat(seats, ref)
		if seat == nil {
			return nil, fmt.Errorf("seat %s: %w", ref.Label(), ErrSeatNotFound)
		}
		switch seat.Status {
		case SeatBooked:
			return nil, fmt.Errorf("seat %s: %w", ref.Label(), ErrSeatAlreadyBooked)
		case SeatLocked:
			if !seat.lockExpired(now) {
				return nil, fmt.Errorf("seat %s: %w", ref.Label(), ErrSeatLocked)
			}
		}
		picked = append(picked, seat)
	}

	expiry := now.Add(ttl)
	for _, seat := range picked {
		seat.Status = SeatLocked
		seat.LockedUntil = &expiry
		holder := userID
		seat.BookedBy = &holder
	}
	return picked, nil
}

// confirmSeatSet moves the requested seats from locked to booked on
// behalf of userID. Holding the lock is what grants the right to
// confirm; a lapsed expiry does not revoke it as long as nobody else
// has taken the seat in between.
func confirmSeatSet(seats []Seat, refs []SeatRef, userID uuid.UUID) ([]*Seat, error) {
	if err := validateRefs(refs); err != nil {
		return nil, err
	}

	picked := make([]*Seat, 0, len(refs))
	for _, ref := range refs {
		seat := findSeat(seats, ref)
		if seat == nil {
			return nil, fmt.Errorf("seat %s: %w", ref.Label(), ErrSeatNotFound)
		}
		if seat.Status == SeatBooked {
			return nil, fmt.Errorf("seat %s: %w", ref.Label(), ErrSeatAlreadyBooked)
		}
		if seat.Status != SeatLocked || seat.BookedBy == nil || *seat.BookedBy != userID {
			return nil, fmt.Errorf("seat %s: %w", ref.Label(), ErrSeatNotLockedByUser)
		}
		picked = append(picked, seat)
	}

	for _, seat := range picked {
		seat.Status = SeatBooked
		seat.LockedUntil = nil
	}
	return picked, nil
}

// releaseSeatSet returns booked or locked seats to the pool. Used on
// cancellation; unknown refs and already-available seats are skipped.
func releaseSeatSet(seats []Seat, refs []SeatRef) []*Seat {
	released := make([]*Seat, 0, len(refs))
	for _, ref := range refs {
		seat := findSeat(seats, ref)
		if seat == nil || seat.Status == SeatAvailable {
			continue
		}
		seat.Status = SeatAvailable
		seat.LockedUntil = nil
		seat.BookedBy = nil
		released = append(released, seat)
	}
	return released
}

// reclaimExpired flips every lapsed lock in the set back to available
// and returns the reclaimed seats.
func reclaimExpired(seats []Seat, now time.Time) []*Seat {
	reclaimed := make([]*Seat, 0)
	for i := range seats {
		seat := &seats[i]
		if seat.Status == SeatLocked && seat.lockExpired(now) {
			seat.Status = SeatAvailable
			seat.LockedUntil = nil
			seat.BookedBy = nil
			reclaimed = append(reclaimed, seat)
		}
	}
	return reclaimed
}

// countAvailable recomputes the availability counter from seat state,
// treating lapsed locks as available.
func countAvailable(seats []Seat, now time.Time) int {
	n := 0
	for i := range seats {
		seat := &seats[i]
		if seat.Status == SeatAvailable {
			n++
		} else if seat.Status == SeatLocked && seat.lockExpired(now) {
			n++
		}
	}
	return n
}

func findSeat(seats []Seat, ref SeatRef) *Seat {
	for i := range seats {
		if seats[i].Row == ref.Row && seats[i].Number == ref.Number {
			return &seats[i]
		}
	}
	return nil
}

func validateRefs(refs []SeatRef) error {
	if len(refs) == 0 {
		return ErrNoSeatsRequested
	}
	seen := make(map[SeatRef]struct{}, len(refs))
	for _, ref := range refs {
		if _, dup := seen[ref]; dup {
			return fmt.Errorf("seat %s: %w", ref.Label(), ErrDuplicateSeatRef)
		}
		seen[ref] = struct{}{}
	}
	return nil
}

func snapshotSeats(picked []*Seat) []SeatSnapshot {
	out := make([]SeatSnapshot, len(picked))
	for i, seat := range picked {
		out[i] = SeatSnapshot{
			Row:      seat.Row,
			Number:   seat.Number,
			Category: seat.Category,
			Price:    seat.Price,
		}
	}
	return out
}
