package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLayoutDefaultGrid(t *testing.T) {
	seats := GenerateLayout()
	require.Len(t, seats, 80)

	byRow := make(map[string]int)
	for _, seat := range seats {
		byRow[seat.Row]++
		assert.Equal(t, SeatAvailable, seat.Status)
	}
	assert.Len(t, byRow, 8)
	for row, count := range byRow {
		assert.Equal(t, 10, count, "row %s", row)
	}
}

func TestGenerateLayoutTierPricing(t *testing.T) {
	seats := GenerateLayout()

	prices := map[string]float64{}
	categories := map[string]SeatCategory{}
	for _, seat := range seats {
		prices[seat.Row] = seat.Price
		categories[seat.Row] = seat.Category
	}

	assert.Equal(t, CategoryPlatinum, categories["A"])
	assert.Equal(t, CategoryPlatinum, categories["B"])
	assert.Equal(t, float64(500), prices["A"])

	assert.Equal(t, CategoryGold, categories["C"])
	assert.Equal(t, CategoryGold, categories["E"])
	assert.Equal(t, float64(300), prices["D"])

	assert.Equal(t, CategorySilver, categories["F"])
	assert.Equal(t, CategorySilver, categories["H"])
	assert.Equal(t, float64(200), prices["G"])
}

func TestGenerateLayoutForCapacityExactTotal(t *testing.T) {
	for _, capacity := range []int{1, 7, 10, 23, 55, 99, 100} {
		seats := GenerateLayoutForCapacity(capacity)
		assert.Len(t, seats, capacity, "capacity %d", capacity)
	}
}

func TestGenerateLayoutForCapacityRowShape(t *testing.T) {
	seats := GenerateLayoutForCapacity(23)

	byRow := make(map[string]int)
	for _, seat := range seats {
		byRow[seat.Row]++
	}
	// 23 seats spread three per row over rows A-H.
	assert.Equal(t, 3, byRow["A"])
	assert.Equal(t, 3, byRow["G"])
	assert.Equal(t, 2, byRow["H"])
}

func TestGenerateLayoutForCapacityFallback(t *testing.T) {
	assert.Len(t, GenerateLayoutForCapacity(0), 80)
	assert.Len(t, GenerateLayoutForCapacity(-5), 80)
}

func TestGenerateLayoutSeatRefsUnique(t *testing.T) {
	seats := GenerateLayoutForCapacity(100)
	seen := make(map[SeatRef]struct{})
	for _, seat := range seats {
		ref := SeatRef{Row: seat.Row, Number: seat.Number}
		_, dup := seen[ref]
		require.False(t, dup, "duplicate seat %s", ref.Label())
		seen[ref] = struct{}{}
	}
}
