package canvas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/satchart/internal/domain"
)

func satPoints(pairs ...[2]float64) []domain.BalancePoint {
	points := make([]domain.BalancePoint, 0, len(pairs))
	for _, p := range pairs {
		points = append(points, domain.BalancePoint{
			Timestamp: int64(p[0]),
			Balances:  domain.Amounts{domain.CurrencySatoshis: p[1]},
		})
	}
	return points
}

func TestMapper_ToCanvas(t *testing.T) {
	m := NewMapper()
	points := satPoints([2]float64{1000, 0}, [2]float64{1000, 500}, [2]float64{2000, 300}, [2]float64{2000, 300})
	timeRange := domain.AxisRange{Min: 840, Max: 2040, Unit: "minutes"}
	valueRange := domain.AxisRange{Min: 0, Max: 600, Unit: "sat"}

	got, err := m.ToCanvas(points, timeRange, valueRange, domain.CurrencySatoshis)
	require.NoError(t, err)

	assert.Equal(t, []domain.CanvasPoint{
		{X: 800 * 160.0 / 1200, Y: 0},
		{X: 800 * 160.0 / 1200, Y: 0},
		{X: 800 * 160.0 / 1200, Y: 0},
		{X: 800 * 160.0 / 1200, Y: 250},
		{X: 800 * 1160.0 / 1200, Y: 250},
		{X: 800 * 1160.0 / 1200, Y: 150},
		{X: 800 * 1160.0 / 1200, Y: 150},
		{X: 800 * 1160.0 / 1200, Y: 150},
	}, got)

	for _, p := range got {
		assert.True(t, p.X >= 0 && p.X <= Width)
		assert.True(t, p.Y >= 0 && p.Y <= Height)
	}
}

func TestMapper_ZeroSpan(t *testing.T) {
	m := NewMapper()
	points := satPoints([2]float64{10, 0}, [2]float64{10, 0})

	got, err := m.ToCanvas(points, domain.AxisRange{Min: 10, Max: 10}, domain.AxisRange{}, domain.CurrencySatoshis)
	require.NoError(t, err)
	for _, p := range got {
		assert.Equal(t, domain.CanvasPoint{}, p)
	}
}

func TestMapper_InvalidInput(t *testing.T) {
	m := NewMapper()
	r := domain.AxisRange{Min: 0, Max: 1}

	_, err := m.ToCanvas(nil, r, r, domain.CurrencyBTC)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = m.ToCanvas(satPoints([2]float64{0, 1}), r, r, "eth")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = m.ToCanvas(satPoints([2]float64{0, math.Inf(1)}), r, r, domain.CurrencySatoshis)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPolygon(t *testing.T) {
	assert.Equal(t, "", Polygon(nil))
	assert.Equal(t, "106.67,0 106.67,250 773.33,150.5",
		Polygon([]domain.CanvasPoint{{X: 106.666666, Y: 0}, {X: 106.666666, Y: 250}, {X: 773.3333, Y: 150.5}}))
}
