package events

import "time"

type SeatResponse struct {
	Row      string       `json:"row"`
	Number   int          `json:"number"`
	Category SeatCategory `json:"category"`
	Price    float64      `json:"price"`
	Status   SeatStatus   `json:"status"`
}

// SeatMapResponse presents the seat grid grouped by row. Locks that
// have lapsed but not yet been reclaimed are reported as available.
type SeatMapResponse struct {
	EventID        string                    `json:"event_id"`
	TotalSeats     int                       `json:"total_seats"`
	AvailableSeats int                       `json:"available_seats"`
	Rows           map[string][]SeatResponse `json:"rows"`
}

type EventListResponse struct {
	Events     []Event        `json:"events"`
	Pagination PaginationMeta `json:"pagination"`
}

type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// BuildSeatMap converts a loaded event into the grouped seat map view
func BuildSeatMap(event *Event, now time.Time) *SeatMapResponse {
	rows := make(map[string][]SeatResponse)
	for i := range event.Seats {
		seat := &event.Seats[i]
		status := seat.Status
		if status == SeatLocked && seat.lockExpired(now) {
			status = SeatAvailable
		}
		rows[seat.Row] = append(rows[seat.Row], SeatResponse{
			Row:      seat.Row,
			Number:   seat.Number,
			Category: seat.Category,
			Price:    seat.Price,
			Status:   status,
		})
	}
	return &SeatMapResponse{
		EventID:        event.ID.String(),
		TotalSeats:     event.TotalSeats,
		AvailableSeats: countAvailable(event.Seats, now),
		Rows:           rows,
	}
}
