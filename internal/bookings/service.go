package bookings

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"showtix/internal/events"
	"showtix/internal/payments"
	"showtix/internal/shared/config"
	"showtix/pkg/logger"
)

// SeatStore is the slice of the event service the booking workflow
// needs.
type SeatStore interface {
	LockSeats(ctx context.Context, eventID, userID uuid.UUID, refs []events.SeatRef, ttl time.Duration) (*events.SeatLockResult, error)
	ConfirmSeats(ctx context.Context, eventID, userID uuid.UUID, refs []events.SeatRef) ([]events.SeatSnapshot, error)
	ReleaseSeats(ctx context.Context, eventID uuid.UUID, refs []events.SeatRef) error
	QuoteLockedSeats(ctx context.Context, eventID, userID uuid.UUID, refs []events.SeatRef) ([]events.SeatSnapshot, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*events.Event, error)
}

// PaymentVerifier settles a payment attempt exactly once.
type PaymentVerifier interface {
	VerifyAndConsume(ctx context.Context, attempt *payments.Attempt, expectedAmount float64) error
}

// Notifier publishes booking lifecycle messages. Implementations must
// not block the booking path.
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking *Booking)
	BookingCancelled(ctx context.Context, booking *Booking)
}

type Service interface {
	LockSeats(ctx context.Context, userID uuid.UUID, req *LockSeatsRequest) (*events.SeatLockResult, error)
	ConfirmBooking(ctx context.Context, userID uuid.UUID, req *ConfirmBookingRequest) (*Booking, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, page, limit int) (*BookingListResponse, error)
	GetBooking(ctx context.Context, id, userID uuid.UUID, isAdmin bool) (*Booking, error)
	GetBookingByCode(ctx context.Context, code string, userID uuid.UUID, isAdmin bool) (*Booking, error)
	GetAllBookings(ctx context.Context, page, limit int) (*BookingListResponse, error)
	CancelBooking(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) (*Booking, error)
	MarkRefunded(ctx context.Context, id uuid.UUID) (*Booking, error)
	RefundByPaymentID(ctx context.Context, paymentID string) (*Booking, error)
}

type service struct {
	repo     Repository
	store    SeatStore
	payments PaymentVerifier
	notifier Notifier

	lockTTL      time.Duration
	cancelWindow time.Duration
	log          *logger.Logger
}

func NewService(repo Repository, store SeatStore, verifier PaymentVerifier, notifier Notifier, cfg *config.Config, log *logger.Logger) Service {
	return &service{
		repo:         repo,
		store:        store,
		payments:     verifier,
		notifier:     notifier,
		lockTTL:      cfg.Booking.SeatLockTTL,
		cancelWindow: cfg.Booking.CancellationWindow,
		log:          log,
	}
}

func (s *service) LockSeats(ctx context.Context, userID uuid.UUID, req *LockSeatsRequest) (*events.SeatLockResult, error) {
	return s.store.LockSeats(ctx, req.EventID, userID, req.Seats, s.lockTTL)
}

// ConfirmBooking turns held seats into a permanent booking. The payment
// is settled against the price of the held seats before any seat state
// changes, and a payment id settles at most one booking.
func (s *service) ConfirmBooking(ctx context.Context, userID uuid.UUID, req *ConfirmBookingRequest) (*Booking, error) {
	quoted, err := s.store.QuoteLockedSeats(ctx, req.EventID, userID, req.Seats)
	if err != nil {
		return nil, err
	}
	expected := sumPrices(quoted)

	if err := s.payments.VerifyAndConsume(ctx, req.Payment.attempt(), expected); err != nil {
		return nil, err
	}

	snapshots, err := s.store.ConfirmSeats(ctx, req.EventID, userID, req.Seats)
	if err != nil {
		// The payment is consumed but the seats slipped away between
		// quote and confirm. Needs a manual refund.
		s.log.ErrorWithContext(ctx, "payment consumed but seat confirmation failed", err, map[string]interface{}{
			"event_id":   req.EventID.String(),
			"user_id":    userID.String(),
			"payment_id": req.Payment.PaymentID,
		})
		return nil, err
	}

	now := time.Now()
	code, err := newBookingCode(now)
	if err != nil {
		return nil, err
	}

	paymentID := req.Payment.PaymentID
	booking := &Booking{
		BookingCode:   code,
		UserID:        userID,
		EventID:       req.EventID,
		TotalAmount:   sumPrices(snapshots),
		Status:        StatusConfirmed,
		PaymentID:     &paymentID,
		PaymentMethod: string(req.Payment.Method),
		PaymentStatus: PaymentSuccess,
	}
	for _, snap := range snapshots {
		booking.Seats = append(booking.Seats, BookingSeat{
			Row:      snap.Row,
			Number:   snap.Number,
			Category: snap.Category,
			Price:    snap.Price,
		})
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.log.ErrorWithContext(ctx, "seats booked but booking record failed", err, map[string]interface{}{
			"booking_code": code,
			"payment_id":   paymentID,
		})
		return nil, err
	}

	s.log.LogBookingConfirmed(ctx, booking.BookingCode, req.EventID.String(), userID.String(), booking.TotalAmount)
	s.notifier.BookingConfirmed(ctx, booking)
	return booking, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID, page, limit int) (*BookingListResponse, error) {
	page, limit = normalizePage(page, limit)
	list, total, err := s.repo.GetByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	return listResponse(list, total, page, limit), nil
}

func (s *service) GetBooking(ctx context.Context, id, userID uuid.UUID, isAdmin bool) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != userID {
		return nil, ErrNotOwner
	}
	return booking, nil
}

// GetBookingByCode resolves a ticket code scanned at the gate.
func (s *service) GetBookingByCode(ctx context.Context, code string, userID uuid.UUID, isAdmin bool) (*Booking, error) {
	booking, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != userID {
		return nil, ErrNotOwner
	}
	return booking, nil
}

func (s *service) GetAllBookings(ctx context.Context, page, limit int) (*BookingListResponse, error) {
	page, limit = normalizePage(page, limit)
	list, total, err := s.repo.GetAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return listResponse(list, total, page, limit), nil
}

// CancelBooking releases the booking's seats back to the pool. Owners
// may cancel until the cancellation window before the event closes;
// admins may cancel any confirmed booking at any time.
func (s *service) CancelBooking(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isAdmin && booking.UserID != actorID {
		return nil, ErrNotOwner
	}
	switch booking.Status {
	case StatusCancelled:
		return nil, ErrAlreadyCancelled
	case StatusRefunded:
		return nil, ErrAlreadyRefunded
	case StatusConfirmed:
	default:
		return nil, ErrNotConfirmed
	}

	if !isAdmin {
		event, err := s.store.GetEvent(ctx, booking.EventID)
		if err != nil {
			return nil, err
		}
		if time.Until(event.DateTime) < s.cancelWindow {
			return nil, ErrCancellationWindowClosed
		}
	}

	now := time.Now()
	cancelledBy := actorID
	err = s.repo.TransitionStatus(ctx, id, StatusConfirmed, StatusCancelled, map[string]interface{}{
		"cancelled_at": now,
		"cancelled_by": cancelledBy,
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.ReleaseSeats(ctx, booking.EventID, booking.SeatRefs()); err != nil {
		s.log.ErrorWithContext(ctx, "booking cancelled but seat release failed", err, map[string]interface{}{
			"booking_code": booking.BookingCode,
		})
	}

	booking.Status = StatusCancelled
	booking.CancelledAt = &now
	booking.CancelledBy = &cancelledBy

	s.log.LogBookingCancelled(ctx, booking.BookingCode, actorID.String(), isAdmin)
	s.notifier.BookingCancelled(ctx, booking)
	return booking, nil
}

func (s *service) MarkRefunded(ctx context.Context, id uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == StatusRefunded {
		return nil, ErrAlreadyRefunded
	}

	err = s.repo.TransitionStatus(ctx, id, StatusCancelled, StatusRefunded, nil)
	if err != nil {
		return nil, err
	}
	booking.Status = StatusRefunded
	return booking, nil
}

// RefundByPaymentID settles a provider refund notification against the
// booking the payment funded. Only cancelled bookings move to REFUNDED.
func (s *service) RefundByPaymentID(ctx context.Context, paymentID string) (*Booking, error) {
	booking, err := s.repo.GetByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	return s.MarkRefunded(ctx, booking.ID)
}

func sumPrices(snapshots []events.SeatSnapshot) float64 {
	var total float64
	for _, snap := range snapshots {
		total += snap.Price
	}
	return total
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func listResponse(list []Booking, total int64, page, limit int) *BookingListResponse {
	return &BookingListResponse{
		Bookings: list,
		Pagination: events.PaginationMeta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}
}
