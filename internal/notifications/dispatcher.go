package notifications

import (
	"context"
	"fmt"
	"strings"

	"showtix/pkg/logger"
)

// Dispatcher turns consumed notification messages into outbound
// deliveries. Email is the only channel today.
type Dispatcher struct {
	emailer Emailer
	log     *logger.Logger
}

// Emailer sends one email. The default implementation only logs; a
// real SMTP or provider client plugs in behind this.
type Emailer interface {
	Send(ctx context.Context, userID, subject, body string) error
}

func NewDispatcher(emailer Emailer, log *logger.Logger) *Dispatcher {
	if emailer == nil {
		emailer = &logEmailer{log: log}
	}
	return &Dispatcher{emailer: emailer, log: log}
}

func (d *Dispatcher) Dispatch(ctx context.Context, msg *Message) error {
	switch msg.Type {
	case TypeBookingConfirmed:
		subject := fmt.Sprintf("Booking %s confirmed", msg.BookingCode)
		body := fmt.Sprintf("Your seats %s are booked. Total paid: %.2f. Show this code at the gate: %s",
			strings.Join(msg.Seats, ", "), msg.TotalAmount, msg.BookingCode)
		return d.emailer.Send(ctx, msg.UserID, subject, body)
	case TypeBookingCancelled:
		subject := fmt.Sprintf("Booking %s cancelled", msg.BookingCode)
		body := fmt.Sprintf("Your booking for seats %s was cancelled. A refund of %.2f will be processed.",
			strings.Join(msg.Seats, ", "), msg.TotalAmount)
		return d.emailer.Send(ctx, msg.UserID, subject, body)
	default:
		d.log.Warn("ignoring unknown notification type", "type", string(msg.Type))
		return nil
	}
}

type logEmailer struct {
	log *logger.Logger
}

func (e *logEmailer) Send(ctx context.Context, userID, subject, body string) error {
	e.log.Info("email notification",
		"user_id", userID,
		"subject", subject,
	)
	return nil
}
