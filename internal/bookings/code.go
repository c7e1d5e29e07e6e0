package bookings

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Unambiguous alphabet: no 0/O, 1/I/L.
const codeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// newBookingCode issues a ticket code like TKT-20260901-7KQ2XM.
func newBookingCode(now time.Time) (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate booking code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return fmt.Sprintf("TKT-%s-%s", now.Format("20060102"), string(buf)), nil
}
