package bookings

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"showtix/internal/events"
	"showtix/internal/payments"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := &Controller{}

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"booking not found", ErrBookingNotFound, http.StatusNotFound},
		{"not owner", ErrNotOwner, http.StatusForbidden},
		{"cancellation window closed", ErrCancellationWindowClosed, http.StatusForbidden},
		{"seat locked", events.ErrSeatLocked, http.StatusConflict},
		{"already cancelled", ErrAlreadyCancelled, http.StatusConflict},
		{"duplicate seat ref", events.ErrDuplicateSeatRef, http.StatusBadRequest},
		{"payment consumed", payments.ErrPaymentConsumed, http.StatusPaymentRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			ctrl.respondError(c, tc.err)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}
