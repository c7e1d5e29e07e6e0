package bookings

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showtix/internal/events"
	"showtix/internal/payments"
	"showtix/internal/shared/config"
	"showtix/pkg/logger"
)

// fakeSeatStore reproduces the seat store contract in memory: a mutex
// per store takes the place of the event row lock, locks expire lazily,
// and multi-seat requests succeed or fail atomically.
type fakeSeatStore struct {
	mu     sync.Mutex
	events map[uuid.UUID]*events.Event
}

func newFakeSeatStore() *fakeSeatStore {
	return &fakeSeatStore{events: make(map[uuid.UUID]*events.Event)}
}

func (f *fakeSeatStore) addEvent(startsIn time.Duration, capacity int) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := uuid.New()
	seats := events.GenerateLayoutForCapacity(capacity)
	f.events[id] = &events.Event{
		ID:             id,
		Title:          "Test Event",
		DateTime:       time.Now().Add(startsIn),
		TotalSeats:     len(seats),
		AvailableSeats: len(seats),
		IsActive:       true,
		Seats:          seats,
	}
	return id
}

func (f *fakeSeatStore) seat(eventID uuid.UUID, ref events.SeatRef) *events.Seat {
	ev := f.events[eventID]
	for i := range ev.Seats {
		if ev.Seats[i].Row == ref.Row && ev.Seats[i].Number == ref.Number {
			return &ev.Seats[i]
		}
	}
	return nil
}

// expireLocks backdates every live lock on the event, simulating the
// hold window lapsing without anyone touching the seats.
func (f *fakeSeatStore) expireLocks(eventID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()

	past := time.Now().Add(-time.Minute)
	ev := f.events[eventID]
	for i := range ev.Seats {
		if ev.Seats[i].Status == events.SeatLocked {
			ev.Seats[i].LockedUntil = &past
		}
	}
}

func (f *fakeSeatStore) availableCount(eventID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[eventID].AvailableSeats
}

func (f *fakeSeatStore) recount(eventID uuid.UUID) {
	ev := f.events[eventID]
	n := 0
	for i := range ev.Seats {
		if ev.Seats[i].Status == events.SeatAvailable {
			n++
		}
	}
	ev.AvailableSeats = n
}

func (f *fakeSeatStore) LockSeats(ctx context.Context, eventID, userID uuid.UUID, refs []events.SeatRef, ttl time.Duration) (*events.SeatLockResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ev, ok := f.events[eventID]
	if !ok {
		return nil, events.ErrEventNotFound
	}
	if !ev.IsActive {
		return nil, events.ErrEventNotActive
	}
	now := time.Now()
	if ev.DateTime.Before(now) {
		return nil, events.ErrEventStarted
	}

	picked := make([]*events.Seat, 0, len(refs))
	for _, ref := range refs {
		seat := f.seat(eventID, ref)
		if seat == nil {
			return nil, fmt.Errorf("seat %s: %w", ref.Label(), events.ErrSeatNotFound)
		}
		switch seat.Status {
		case events.SeatBooked:
			return nil, fmt.Errorf("seat %s: %w", ref.Label(), events.ErrSeatAlreadyBooked)
		case events.SeatLocked:
			if seat.LockedUntil != nil && seat.LockedUntil.After(now) {
				return nil, fmt.Errorf("seat %s: %w", ref.Label(), events.ErrSeatLocked)
			}
		}
		picked = append(picked, seat)
	}

	expiry := now.Add(ttl)
	result := &events.SeatLockResult{LockExpiry: expiry}
	for _, seat := range picked {
		holder := userID
		seat.Status = events.SeatLocked
		seat.LockedUntil = &expiry
		seat.BookedBy = &holder
		result.Seats = append(result.Seats, snapshot(seat))
		result.TotalAmount += seat.Price
	}
	f.recount(eventID)
	return result, nil
}

func (f *fakeSeatStore) ConfirmSeats(ctx context.Context, eventID, userID uuid.UUID, refs []events.SeatRef) ([]events.SeatSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.events[eventID]; !ok {
		return nil, events.ErrEventNotFound
	}

	picked := make([]*events.Seat, 0, len(refs))
	for _, ref := range refs {
		seat := f.seat(eventID, ref)
		if seat == nil {
			return nil, fmt.Errorf("seat %s: %w", ref.Label(), events.ErrSeatNotFound)
		}
		if seat.Status != events.SeatLocked || seat.BookedBy == nil || *seat.BookedBy != userID {
			return nil, fmt.Errorf("seat %s: %w", ref.Label(), events.ErrSeatNotLockedByUser)
		}
		picked = append(picked, seat)
	}

	out := make([]events.SeatSnapshot, 0, len(picked))
	for _, seat := range picked {
		seat.Status = events.SeatBooked
		seat.LockedUntil = nil
		out = append(out, snapshot(seat))
	}
	f.recount(eventID)
	return out, nil
}

func (f *fakeSeatStore) ReleaseSeats(ctx context.Context, eventID uuid.UUID, refs []events.SeatRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.events[eventID]; !ok {
		return events.ErrEventNotFound
	}
	for _, ref := range refs {
		seat := f.seat(eventID, ref)
		if seat == nil || seat.Status == events.SeatAvailable {
			continue
		}
		seat.Status = events.SeatAvailable
		seat.LockedUntil = nil
		seat.BookedBy = nil
	}
	f.recount(eventID)
	return nil
}

func (f *fakeSeatStore) QuoteLockedSeats(ctx context.Context, eventID, userID uuid.UUID, refs []events.SeatRef) ([]events.SeatSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.events[eventID]; !ok {
		return nil, events.ErrEventNotFound
	}
	out := make([]events.SeatSnapshot, 0, len(refs))
	for _, ref := range refs {
		seat := f.seat(eventID, ref)
		if seat == nil {
			return nil, fmt.Errorf("seat %s: %w", ref.Label(), events.ErrSeatNotFound)
		}
		if seat.Status != events.SeatLocked || seat.BookedBy == nil || *seat.BookedBy != userID {
			return nil, fmt.Errorf("seat %s: %w", ref.Label(), events.ErrSeatNotLockedByUser)
		}
		out = append(out, snapshot(seat))
	}
	return out, nil
}

func (f *fakeSeatStore) GetEvent(ctx context.Context, id uuid.UUID) (*events.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ev, ok := f.events[id]
	if !ok {
		return nil, events.ErrEventNotFound
	}
	copied := *ev
	return &copied, nil
}

func snapshot(seat *events.Seat) events.SeatSnapshot {
	return events.SeatSnapshot{
		Row:      seat.Row,
		Number:   seat.Number,
		Category: seat.Category,
		Price:    seat.Price,
	}
}

// fakeVerifier mimics the gateway's consume-once contract.
type fakeVerifier struct {
	mu       sync.Mutex
	orders   map[string]float64
	consumed map[string]bool
}

func newFakeVerifier() *fakeVerifier {
	return &fakeVerifier{
		orders:   make(map[string]float64),
		consumed: make(map[string]bool),
	}
}

func (f *fakeVerifier) addOrder(orderID string, amount float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[orderID] = amount
}

func (f *fakeVerifier) VerifyAndConsume(ctx context.Context, attempt *payments.Attempt, expectedAmount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	amount, ok := f.orders[attempt.OrderID]
	if !ok {
		return payments.ErrOrderNotFound
	}
	if amount != expectedAmount {
		return payments.ErrAmountMismatch
	}
	if f.consumed[attempt.PaymentID] {
		return payments.ErrPaymentConsumed
	}
	f.consumed[attempt.PaymentID] = true
	return nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	confirmed []string
	cancelled []string
}

func (f *fakeNotifier) BookingConfirmed(ctx context.Context, booking *Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmed = append(f.confirmed, booking.BookingCode)
}

func (f *fakeNotifier) BookingCancelled(ctx context.Context, booking *Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, booking.BookingCode)
}

// fakeRepo keeps bookings in memory with the same conditional
// transition semantics as the SQL implementation.
type fakeRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*Booking
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: make(map[uuid.UUID]*Booking)}
}

func (f *fakeRepo) Create(ctx context.Context, booking *Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	booking.CreatedAt = time.Now()
	stored := *booking
	f.bookings[booking.ID] = &stored
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	copied := *booking
	return &copied, nil
}

func (f *fakeRepo) GetByCode(ctx context.Context, code string) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, booking := range f.bookings {
		if booking.BookingCode == code {
			copied := *booking
			return &copied, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (f *fakeRepo) GetByPaymentID(ctx context.Context, paymentID string) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, booking := range f.bookings {
		if booking.PaymentID != nil && *booking.PaymentID == paymentID {
			copied := *booking
			return &copied, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (f *fakeRepo) GetByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]Booking, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Booking
	for _, booking := range f.bookings {
		if booking.UserID == userID {
			out = append(out, *booking)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) GetAll(ctx context.Context, page, limit int) ([]Booking, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Booking
	for _, booking := range f.bookings {
		out = append(out, *booking)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok || booking.Status != from {
		return ErrBookingConflict
	}
	booking.Status = to
	return nil
}

type fixture struct {
	service  Service
	store    *fakeSeatStore
	verifier *fakeVerifier
	notifier *fakeNotifier
	repo     *fakeRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := &config.Config{
		Booking: config.BookingConfig{
			SeatLockTTL:        15 * time.Minute,
			CancellationWindow: 24 * time.Hour,
		},
	}
	store := newFakeSeatStore()
	verifier := newFakeVerifier()
	notifier := &fakeNotifier{}
	repo := newFakeRepo()
	return &fixture{
		service:  NewService(repo, store, verifier, notifier, cfg, logger.GetDefault()),
		store:    store,
		verifier: verifier,
		notifier: notifier,
		repo:     repo,
	}
}

func seatRefs(labels ...string) []events.SeatRef {
	out := make([]events.SeatRef, len(labels))
	for i, label := range labels {
		out[i] = events.SeatRef{Row: label[:1], Number: int(label[1] - '0')}
	}
	return out
}

func (fx *fixture) confirm(t *testing.T, userID, eventID uuid.UUID, refs []events.SeatRef, amount float64) (*Booking, error) {
	t.Helper()
	orderID := uuid.NewString()
	fx.verifier.addOrder(orderID, amount)
	return fx.service.ConfirmBooking(context.Background(), userID, &ConfirmBookingRequest{
		EventID: eventID,
		Seats:   refs,
		Payment: PaymentDetails{
			OrderID:   orderID,
			PaymentID: "pay_" + uuid.NewString(),
			Method:    payments.MethodNetbanking,
		},
	})
}

func TestLockThenConfirmFlow(t *testing.T) {
	fx := newFixture(t)
	eventID := fx.store.addEvent(48*time.Hour, 40)
	userID := uuid.New()
	ctx := context.Background()

	result, err := fx.service.LockSeats(ctx, userID, &LockSeatsRequest{
		EventID: eventID,
		Seats:   seatRefs("A1", "A2"),
	})
	require.NoError(t, err)
	require.Len(t, result.Seats, 2)
	// Row A is Platinum.
	assert.Equal(t, float64(1000), result.TotalAmount)
	assert.True(t, result.LockExpiry.After(time.Now()))
	assert.Equal(t, 38, fx.store.availableCount(eventID))

	booking, err := fx.confirm(t, userID, eventID, seatRefs("A1", "A2"), 1000)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, booking.Status)
	assert.Equal(t, PaymentSuccess, booking.PaymentStatus)
	assert.Equal(t, float64(1000), booking.TotalAmount)
	require.Len(t, booking.Seats, 2)
	assert.Equal(t, events.CategoryPlatinum, booking.Seats[0].Category)
	assert.Contains(t, booking.BookingCode, "TKT-")
	assert.Equal(t, []string{booking.BookingCode}, fx.notifier.confirmed)
}

func TestConcurrentLockSingleWinner(t *testing.T) {
	fx := newFixture(t)
	eventID := fx.store.addEvent(48*time.Hour, 40)
	ctx := context.Background()

	const racers = 32
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = fx.service.LockSeats(ctx, uuid.New(), &LockSeatsRequest{
				EventID: eventID,
				Seats:   seatRefs("C3"),
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, events.ErrSeatLocked)
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, 39, fx.store.availableCount(eventID))
}

func TestLockAllOrNothingAcrossUsers(t *testing.T) {
	fx := newFixture(t)
	eventID := fx.store.addEvent(48*time.Hour, 40)
	ctx := context.Background()

	_, err := fx.service.LockSeats(ctx, uuid.New(), &LockSeatsRequest{
		EventID: eventID,
		Seats:   seatRefs("B2"),
	})
	require.NoError(t, err)

	_, err = fx.service.LockSeats(ctx, uuid.New(), &LockSeatsRequest{
		EventID: eventID,
		Seats:   seatRefs("B1", "B2", "B3"),
	})
	require.ErrorIs(t, err, events.ErrSeatLocked)

	// The failed request must not leave partial holds behind.
	assert.Equal(t, 39, fx.store.availableCount(eventID))
}

func TestExpiredLockReclaimedByNextRequest(t *testing.T) {
	fx := newFixture(t)
	eventID := fx.store.addEvent(48*time.Hour, 40)
	ctx := context.Background()
	first := uuid.New()
	second := uuid.New()

	_, err := fx.service.LockSeats(ctx, first, &LockSeatsRequest{
		EventID: eventID,
		Seats:   seatRefs("A1"),
	})
	require.NoError(t, err)

	fx.store.expireLocks(eventID)

	result, err := fx.service.LockSeats(ctx, second, &LockSeatsRequest{
		EventID: eventID,
		Seats:   seatRefs("A1"),
	})
	require.NoError(t, err)
	require.Len(t, result.Seats, 1)

	// The first holder lost the seat and can no longer confirm it.
	_, err = fx.confirm(t, first, eventID, seatRefs("A1"), 500)
	assert.ErrorIs(t, err, events.ErrSeatNotLockedByUser)
}

func TestConfirmAfterExpiryStillOwned(t *testing.T) {
	fx := newFixture(t)
	eventID := fx.store.addEvent(48*time.Hour, 40)
	ctx := context.Background()
	userID := uuid.New()

	_, err := fx.service.LockSeats(ctx, userID, &LockSeatsRequest{
		EventID: eventID,
		Seats:   seatRefs("A1"),
	})
	require.NoError(t, err)

	// The lock lapses but nobody else claims the seat; the original
	// holder's confirmation still goes through.
	fx.store.expireLocks(eventID)

	booking, err := fx.confirm(t, userID, eventID, seatRefs("A1"), 500)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, booking.Status)
}

func TestConfirmWithoutLockFails(t *testing.T) {
	fx := newFixture(t)
	eventID := fx.store.addEvent(48*time.Hour, 40)

	_, err := fx.confirm(t, uuid.New(), eventID, seatRefs("A1"), 500)
	assert.ErrorIs(t, err, events.ErrSeatNotLockedByUser)
}

func TestConfirmAmountMismatchLeavesSeatsLocked(t *testing.T) {
	fx := newFixture(t)
	eventID := fx.store.addEvent(48*time.Hour, 40)
	ctx := context.Background()
	userID := uuid.New()

	_, err := fx.service.LockSeats(ctx, userID, &LockSeatsRequest{
		EventID: eventID,
		Seats:   seatRefs("A1"),
	})
	require.NoError(t, err)

	// Order opened for the wrong amount.
	_, err = fx.confirm(t, userID, eventID, seatRefs("A1"), 200)
	require.ErrorIs(t, err, payments.ErrAmountMismatch)

	// The hold survives a failed payment and the holder can retry.
	booking, err := fx.confirm(t, userID, eventID, seatRefs("A1"), 500)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, booking.Status)
}

func TestPaymentIDSettlesAtMostOneBooking(t *testing.T) {
	fx := newFixture(t)
	eventID := fx.store.addEvent(48*time.Hour, 40)
	ctx := context.Background()
	userID := uuid.New()

	_, err := fx.service.LockSeats(ctx, userID, &LockSeatsRequest{
		EventID: eventID,
		Seats:   seatRefs("A1", "A2"),
	})
	require.NoError(t, err)

	orderA := uuid.NewString()
	orderB := uuid.NewString()
	fx.verifier.addOrder(orderA, 500)
	fx.verifier.addOrder(orderB, 500)

	_, err = fx.service.ConfirmBooking(ctx, userID, &ConfirmBookingRequest{
		EventID: eventID,
		Seats:   seatRefs("A1"),
		Payment: PaymentDetails{OrderID: orderA, PaymentID: "pay_once", Method: payments.MethodQR},
	})
	require.NoError(t, err)

	_, err = fx.service.ConfirmBooking(ctx, userID, &ConfirmBookingRequest{
		EventID: eventID,
		Seats:   seatRefs("A2"),
		Payment: PaymentDetails{OrderID: orderB, PaymentID: "pay_once", Method: payments.MethodQR},
	})
	require.ErrorIs(t, err, payments.ErrPaymentConsumed)

	// The replayed payment must not book the second seat.
	seat := fx.store.seat(eventID, events.SeatRef{Row: "A", Number: 2})
	assert.Equal(t, events.SeatLocked, seat.Status)
}

func TestCancelReleasesSeats(t *testing.T) {
	fx := newFixture(t)
	eventID := fx.store.addEvent(48*time.Hour, 40)
	ctx := context.Background()
	userID := uuid.New()

	_, err := fx.service.LockSeats(ctx, userID, &LockSeatsRequest{
		EventID: eventID,
		Seats:   seatRefs("B1", "B2"),
	})
	require.NoError(t, err)

	booking, err := fx.confirm(t, userID, eventID, seatRefs("B1", "B2"), 1000)
	require.NoError(t, err)
	assert.Equal(t, 38, fx.store.availableCount(eventID))

	cancelled, err := fx.service.CancelBooking(ctx, booking.ID, userID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, userID, *cancelled.CancelledBy)
	assert.Equal(t, 40, fx.store.availableCount(eventID))
	assert.Equal(t, []string{booking.BookingCode}, fx.notifier.cancelled)
}

func TestCancelOwnershipEnforced(t *testing.T) {
	fx := newFixture(t)
	eventID := fx.store.addEvent(48*time.Hour, 40)
	ctx := context.Background()
	owner := uuid.New()

	_, err := fx.service.LockSeats(ctx, owner, &LockSeatsRequest{
		EventID: eventID,
		Seats:   seatRefs("A1"),
	})
	require.NoError(t, err)
	booking, err := fx.confirm(t, owner, eventID, seatRefs("A1"), 500)
	require.NoError(t, err)

	_, err = fx.service.CancelBooking(ctx, booking.ID, uuid.New(), false)
	assert.ErrorIs(t, err, ErrNotOwner)

	// An admin may cancel someone else's booking.
	admin := uuid.New()
	cancelled, err := fx.service.CancelBooking(ctx, booking.ID, admin, true)
	require.NoError(t, err)
	assert.Equal(t, admin, *cancelled.CancelledBy)
}

func TestCancelWindowClosed(t *testing.T) {
	fx := newFixture(t)
	// Event starts in two hours, inside the 24h cancellation window.
	eventID := fx.store.addEvent(2*time.Hour, 40)
	ctx := context.Background()
	userID := uuid.New()

	_, err := fx.service.LockSeats(ctx, userID, &LockSeatsRequest{
		EventID: eventID,
		Seats:   seatRefs("A1"),
	})
	require.NoError(t, err)
	booking, err := fx.confirm(t, userID, eventID, seatRefs("A1"), 500)
	require.NoError(t, err)

	_, err = fx.service.CancelBooking(ctx, booking.ID, userID, false)
	assert.ErrorIs(t, err, ErrCancellationWindowClosed)

	// Admins are not bound by the window.
	_, err = fx.service.CancelBooking(ctx, booking.ID, uuid.New(), true)
	assert.NoError(t, err)
}

func TestCancelWindowBoundary(t *testing.T) {
	ctx := context.Background()

	// Just inside the 24h window: the cancellation is refused.
	fx := newFixture(t)
	eventID := fx.store.addEvent(24*time.Hour-time.Minute, 40)
	userID := uuid.New()
	_, err := fx.service.LockSeats(ctx, userID, &LockSeatsRequest{
		EventID: eventID,
		Seats:   seatRefs("A1"),
	})
	require.NoError(t, err)
	booking, err := fx.confirm(t, userID, eventID, seatRefs("A1"), 500)
	require.NoError(t, err)
	_, err = fx.service.CancelBooking(ctx, booking.ID, userID, false)
	assert.ErrorIs(t, err, ErrCancellationWindowClosed)

	// Just outside the window: the cancellation goes through.
	fx = newFixture(t)
	eventID = fx.store.addEvent(24*time.Hour+time.Minute, 40)
	userID = uuid.New()
	_, err = fx.service.LockSeats(ctx, userID, &LockSeatsRequest{
		EventID: eventID,
		Seats:   seatRefs("A1"),
	})
	require.NoError(t, err)
	booking, err = fx.confirm(t, userID, eventID, seatRefs("A1"), 500)
	require.NoError(t, err)
	cancelled, err := fx.service.CancelBooking(ctx, booking.ID, userID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
}

func TestRefundByPaymentID(t *testing.T) {
	fx := newFixture(t)
	eventID := fx.store.addEvent(48*time.Hour, 40)
	ctx := context.Background()
	userID := uuid.New()

	_, err := fx.service.LockSeats(ctx, userID, &LockSeatsRequest{
		EventID: eventID,
		Seats:   seatRefs("A1"),
	})
	require.NoError(t, err)

	orderID := uuid.NewString()
	fx.verifier.addOrder(orderID, 500)
	booking, err := fx.service.ConfirmBooking(ctx, userID, &ConfirmBookingRequest{
		EventID: eventID,
		Seats:   seatRefs("A1"),
		Payment: PaymentDetails{OrderID: orderID, PaymentID: "pay_refund_me", Method: payments.MethodCard},
	})
	require.NoError(t, err)

	// A refund notification only settles cancelled bookings.
	_, err = fx.service.RefundByPaymentID(ctx, "pay_refund_me")
	assert.ErrorIs(t, err, ErrBookingConflict)

	_, err = fx.service.CancelBooking(ctx, booking.ID, userID, false)
	require.NoError(t, err)

	refunded, err := fx.service.RefundByPaymentID(ctx, "pay_refund_me")
	require.NoError(t, err)
	assert.Equal(t, StatusRefunded, refunded.Status)
	assert.Equal(t, booking.ID, refunded.ID)

	// Replayed notifications and unknown payment ids are rejected.
	_, err = fx.service.RefundByPaymentID(ctx, "pay_refund_me")
	assert.ErrorIs(t, err, ErrAlreadyRefunded)
	_, err = fx.service.RefundByPaymentID(ctx, "pay_unknown")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancelTerminalStates(t *testing.T) {
	fx := newFixture(t)
	eventID := fx.store.addEvent(48*time.Hour, 40)
	ctx := context.Background()
	userID := uuid.New()

	_, err := fx.service.LockSeats(ctx, userID, &LockSeatsRequest{
		EventID: eventID,
		Seats:   seatRefs("A1"),
	})
	require.NoError(t, err)
	booking, err := fx.confirm(t, userID, eventID, seatRefs("A1"), 500)
	require.NoError(t, err)

	_, err = fx.service.CancelBooking(ctx, booking.ID, userID, false)
	require.NoError(t, err)

	_, err = fx.service.CancelBooking(ctx, booking.ID, userID, false)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	_, err = fx.service.MarkRefunded(ctx, booking.ID)
	require.NoError(t, err)

	_, err = fx.service.CancelBooking(ctx, booking.ID, userID, false)
	assert.ErrorIs(t, err, ErrAlreadyRefunded)

	_, err = fx.service.MarkRefunded(ctx, booking.ID)
	assert.ErrorIs(t, err, ErrAlreadyRefunded)
}

func TestGetBookingOwnership(t *testing.T) {
	fx := newFixture(t)
	eventID := fx.store.addEvent(48*time.Hour, 40)
	ctx := context.Background()
	owner := uuid.New()

	_, err := fx.service.LockSeats(ctx, owner, &LockSeatsRequest{
		EventID: eventID,
		Seats:   seatRefs("A1"),
	})
	require.NoError(t, err)
	booking, err := fx.confirm(t, owner, eventID, seatRefs("A1"), 500)
	require.NoError(t, err)

	_, err = fx.service.GetBooking(ctx, booking.ID, uuid.New(), false)
	assert.ErrorIs(t, err, ErrNotOwner)

	got, err := fx.service.GetBooking(ctx, booking.ID, uuid.New(), true)
	require.NoError(t, err)
	assert.Equal(t, booking.BookingCode, got.BookingCode)
}

func TestBookingSnapshotsDetachedFromLiveSeats(t *testing.T) {
	fx := newFixture(t)
	eventID := fx.store.addEvent(48*time.Hour, 40)
	ctx := context.Background()
	userID := uuid.New()

	_, err := fx.service.LockSeats(ctx, userID, &LockSeatsRequest{
		EventID: eventID,
		Seats:   seatRefs("A1"),
	})
	require.NoError(t, err)
	booking, err := fx.confirm(t, userID, eventID, seatRefs("A1"), 500)
	require.NoError(t, err)

	// Repricing the live seat after confirmation must not change the
	// booked amount.
	seat := fx.store.seat(eventID, events.SeatRef{Row: "A", Number: 1})
	seat.Price = 9999

	got, err := fx.service.GetBooking(ctx, booking.ID, userID, false)
	require.NoError(t, err)
	assert.Equal(t, float64(500), got.TotalAmount)
	assert.Equal(t, float64(500), got.Seats[0].Price)
}
