package events

// Tier pricing by row position. The first two rows are Platinum, the
// next three Gold, the rest Silver.
const (
	pricePlatinum = 500
	priceGold     = 300
	priceSilver   = 200

	defaultRows        = 8
	defaultSeatsPerRow = 10
	maxRows            = 10
)

var rowLabels = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}

func categoryForRow(rowIdx int) (SeatCategory, float64) {
	switch {
	case rowIdx < 2:
		return CategoryPlatinum, pricePlatinum
	case rowIdx < 5:
		return CategoryGold, priceGold
	default:
		return CategorySilver, priceSilver
	}
}

// GenerateLayout builds the standard 8x10 seat grid (rows A-H).
func GenerateLayout() []Seat {
	return generate(defaultRows, defaultSeatsPerRow, defaultRows*defaultSeatsPerRow)
}

// GenerateLayoutForCapacity builds a grid sized to hold capacity seats,
// spreading them over up to ten rows and truncating the last row so the
// total matches capacity exactly. A non-positive capacity falls back to
// the standard layout.
func GenerateLayoutForCapacity(capacity int) []Seat {
	if capacity <= 0 {
		return GenerateLayout()
	}
	perRow := (capacity + maxRows - 1) / maxRows
	if perRow < 1 {
		perRow = 1
	}
	rows := (capacity + perRow - 1) / perRow
	return generate(rows, perRow, capacity)
}

func generate(rows, perRow, capacity int) []Seat {
	seats := make([]Seat, 0, capacity)
	for r := 0; r < rows && len(seats) < capacity; r++ {
		category, price := categoryForRow(r)
		for n := 1; n <= perRow && len(seats) < capacity; n++ {
			seats = append(seats, Seat{
				Row:      rowLabels[r],
				Number:   n,
				Category: category,
				Price:    price,
				Status:   SeatAvailable,
			})
		}
	}
	return seats
}
