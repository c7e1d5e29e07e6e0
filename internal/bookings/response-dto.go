package bookings

import "showtix/internal/events"

type BookingListResponse struct {
	Bookings   []Booking             `json:"bookings"`
	Pagination events.PaginationMeta `json:"pagination"`
}
