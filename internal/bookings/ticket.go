package bookings

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// TicketQR renders the booking's entry pass as a PNG QR code. Gate
// scanners resolve the embedded code through the booking lookup
// endpoint.
func TicketQR(booking *Booking, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	payload := fmt.Sprintf("showtix://ticket/%s", booking.BookingCode)
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render ticket QR: %w", err)
	}
	return png, nil
}
