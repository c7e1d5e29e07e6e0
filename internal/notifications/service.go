package notifications

import (
	"context"
	"fmt"
	"time"

	"showtix/internal/bookings"
	"showtix/pkg/logger"
)

// Service publishes booking lifecycle notifications without blocking
// the booking path. When Kafka is disabled it degrades to logging.
type Service struct {
	producer *Producer
	log      *logger.Logger
}

func NewService(producer *Producer, log *logger.Logger) *Service {
	return &Service{producer: producer, log: log}
}

func (s *Service) BookingConfirmed(ctx context.Context, booking *bookings.Booking) {
	s.publish(TypeBookingConfirmed, booking)
}

func (s *Service) BookingCancelled(ctx context.Context, booking *bookings.Booking) {
	s.publish(TypeBookingCancelled, booking)
}

func (s *Service) publish(typ NotificationType, booking *bookings.Booking) {
	msg := &Message{
		Type:        typ,
		BookingCode: booking.BookingCode,
		UserID:      booking.UserID.String(),
		EventID:     booking.EventID.String(),
		TotalAmount: booking.TotalAmount,
		OccurredAt:  time.Now(),
	}
	for _, seat := range booking.Seats {
		msg.Seats = append(msg.Seats, fmt.Sprintf("%s%d", seat.Row, seat.Number))
	}

	if s.producer == nil {
		s.log.Info("notification (kafka disabled)",
			"type", string(typ),
			"booking_code", msg.BookingCode,
		)
		return
	}

	// Fire and forget; a lost notification never fails a booking.
	go func() {
		if err := s.producer.Publish(msg); err != nil {
			s.log.WithError(err).Error("failed to publish notification",
				"type", string(typ),
				"booking_code", msg.BookingCode,
			)
		}
	}()
}
