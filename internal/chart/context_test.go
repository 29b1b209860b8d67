package chart

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/satchart/internal/domain"
	"github.com/vadiminshakov/satchart/internal/services/axis"
	"github.com/vadiminshakov/satchart/internal/services/carousel"
	"github.com/vadiminshakov/satchart/internal/surface/svg"
)

const start = int64(1_700_000_000)

func sampleDeltas() []domain.BalanceDelta {
	return []domain.BalanceDelta{
		{Timestamp: start, Deltas: domain.Amounts{
			domain.CurrencyBTC:      0.0015,
			domain.CurrencySatoshis: 150_000,
			domain.CurrencyLocal:    55.5,
		}},
		{Timestamp: start + 5*3600, Deltas: domain.Amounts{
			domain.CurrencyBTC:      0.0005,
			domain.CurrencySatoshis: 50_000,
			domain.CurrencyLocal:    18.5,
		}},
	}
}

func TestNew_PlacesHeadings(t *testing.T) {
	doc := svg.NewChartDocument("USDT")
	c, err := New(doc, WithLayout(carousel.WideLayout))
	require.NoError(t, err)

	assert.Equal(t, domain.CurrencySatoshis, c.Currency())
	assert.Equal(t, carousel.DefaultState, c.Headings())

	tests := []struct {
		currency  domain.Currency
		transform string
		opacity   string
	}{
		{domain.CurrencyBTC, "translate(0,0)", "0.4"},
		{domain.CurrencySatoshis, "translate(60,0)", "1"},
		{domain.CurrencyLocal, "translate(160,0)", "0.4"},
	}
	for _, tt := range tests {
		t.Run(string(tt.currency), func(t *testing.T) {
			id := carousel.ElementID(tt.currency)
			transform, _ := doc.Attribute(id, "transform")
			opacity, _ := doc.Attribute(id, "opacity")
			assert.Equal(t, tt.transform, transform)
			assert.Equal(t, tt.opacity, opacity)
		})
	}

	_, ok := c.Frame()
	assert.False(t, ok)
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(svg.NewChartDocument(""), WithDivisions(0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = New(svg.NewChartDocument(""), WithInitialCurrency("eur"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestContext_Render(t *testing.T) {
	doc := svg.NewChartDocument("USDT")
	c, err := New(doc)
	require.NoError(t, err)

	frame, err := c.Render(sampleDeltas())
	require.NoError(t, err)

	assert.Equal(t, domain.CurrencySatoshis, frame.Currency)
	assert.Equal(t, string(domain.TimeUnitHours), frame.TimeRange.Unit)
	assert.Equal(t, 0.0, frame.ValueRange.Min)
	assert.Equal(t, 300_000.0, frame.ValueRange.Max)

	points, _ := doc.Attribute(PolygonID, "points")
	assert.Equal(t, frame.Polygon, points)
	assert.NotEmpty(t, points)
	// zero point, two deltas, closing point, each drawn as two vertices
	assert.Len(t, frame.Points, 8)

	require.Len(t, frame.XTicks, 6)
	require.Len(t, frame.YTicks, 6)
	assert.Equal(t, 0.0, frame.XTicks[0].Position)
	assert.Equal(t, 800.0, frame.XTicks[5].Position)
	assert.Equal(t, 300.0, frame.YTicks[0].Position)
	assert.Equal(t, 0.0, frame.YTicks[5].Position)

	wantY := []string{"0", "60 000", "120 000", "180 000", "240 000", "300 000"}
	for i, want := range wantY {
		assert.Equal(t, want, frame.YTicks[i].Label)
		text, ok := doc.Text(axis.DashlineID(axis.AxisY, i))
		require.True(t, ok)
		assert.Equal(t, want, text)
	}
	for i, tick := range frame.XTicks {
		text, ok := doc.Text(axis.DashlineID(axis.AxisX, i))
		require.True(t, ok)
		assert.Equal(t, tick.Label, text)
	}

	stored, ok := c.Frame()
	require.True(t, ok)
	assert.Equal(t, frame.Polygon, stored.Polygon)
}

func TestContext_RenderRejectsInvalidSeries(t *testing.T) {
	c, err := New(svg.NewChartDocument(""))
	require.NoError(t, err)

	_, err = c.Render(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	deltas := sampleDeltas()
	deltas[0], deltas[1] = deltas[1], deltas[0]
	_, err = c.Render(deltas)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, ok := c.Frame()
	assert.False(t, ok, "failed render leaves no frame")
}

func TestContext_SelectCurrency(t *testing.T) {
	doc := svg.NewChartDocument("USDT")
	c, err := New(doc)
	require.NoError(t, err)

	// selecting before any data only moves headings
	moves, err := c.SelectCurrency(domain.CurrencyLocal)
	require.NoError(t, err)
	assert.Len(t, moves, 2)
	_, ok := c.Frame()
	assert.False(t, ok)

	_, err = c.Render(sampleDeltas())
	require.NoError(t, err)

	moves, err = c.SelectCurrency(domain.CurrencyBTC)
	require.NoError(t, err)
	require.Len(t, moves, 2)

	frame, ok := c.Frame()
	require.True(t, ok)
	assert.Equal(t, domain.CurrencyBTC, frame.Currency)
	assert.Equal(t, domain.CurrencyBTC, c.Currency())
	assert.InDelta(t, 0.003, frame.ValueRange.Max, 1e-12)
	assert.Equal(t, "0.003", frame.YTicks[5].Label)

	transform, _ := doc.Attribute(carousel.ElementID(domain.CurrencyBTC), "transform")
	assert.Equal(t, "translate(60,0)", transform)

	moves, err = c.SelectCurrency(domain.CurrencyBTC)
	require.NoError(t, err)
	assert.Empty(t, moves)

	_, err = c.SelectCurrency("eur")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestContext_SetDivisions(t *testing.T) {
	doc := svg.NewChartDocument("")
	c, err := New(doc, WithDivisions(6), WithLocation(time.UTC))
	require.NoError(t, err)

	_, err = c.Render(sampleDeltas())
	require.NoError(t, err)
	assert.True(t, doc.Has(axis.DashlineID(axis.AxisX, 6)))

	frame, err := c.SetDivisions(3)
	require.NoError(t, err)
	assert.Len(t, frame.XTicks, 4)
	assert.Len(t, frame.YTicks, 4)
	for i := 4; i <= 6; i++ {
		assert.False(t, doc.Has(axis.DashlineID(axis.AxisX, i)))
		assert.False(t, doc.Has(axis.DashlineID(axis.AxisY, i)))
	}
	assert.True(t, doc.Has(axis.DashlineID(axis.AxisX, 0)))

	_, err = c.SetDivisions(0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestContext_RenderInLocation(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	doc := svg.NewChartDocument("")
	c, err := New(doc, WithLocation(newYork))
	require.NoError(t, err)

	first := time.Date(2024, 1, 1, 12, 0, 0, 0, newYork).Unix()
	frame, err := c.Render([]domain.BalanceDelta{
		{Timestamp: first, Deltas: domain.Amounts{domain.CurrencySatoshis: 100}},
		{Timestamp: first + 9*86400, Deltas: domain.Amounts{domain.CurrencySatoshis: 100}},
	})
	require.NoError(t, err)

	labels := make([]string, 0, len(frame.XTicks))
	for _, tick := range frame.XTicks {
		labels = append(labels, tick.Label)
	}
	assert.Equal(t, []string{
		"1-Jan-2024", "3-Jan-2024", "5-Jan-2024", "7-Jan-2024", "9-Jan-2024", "11-Jan-2024",
	}, labels)
	assert.Equal(t, float64(time.Date(2024, 1, 1, 0, 0, 0, 0, newYork).Unix()), frame.TimeRange.Min)
}

// labelFailingSurface rejects one tick label so a redraw can fail halfway.
type labelFailingSurface struct {
	*svg.Document
	label string
}

func (s *labelFailingSurface) SetText(id, text string) error {
	if text == s.label {
		return errors.Errorf("cannot write label %q", text)
	}
	return s.Document.SetText(id, text)
}

func TestContext_SelectCurrencyRestoresOnDrawFailure(t *testing.T) {
	doc := svg.NewChartDocument("USDT")
	surface := &labelFailingSurface{Document: doc, label: "0.003"}
	c, err := New(surface)
	require.NoError(t, err)

	before, err := c.Render(sampleDeltas())
	require.NoError(t, err)

	moves, err := c.SelectCurrency(domain.CurrencyBTC)
	require.Error(t, err)
	assert.Nil(t, moves)

	assert.Equal(t, domain.CurrencySatoshis, c.Currency())
	assert.Equal(t, carousel.DefaultState, c.Headings())
	transform, _ := doc.Attribute(carousel.ElementID(domain.CurrencySatoshis), "transform")
	assert.Equal(t, "translate(60,0)", transform)

	frame, ok := c.Frame()
	require.True(t, ok)
	assert.Equal(t, before.Polygon, frame.Polygon)
	assert.Equal(t, domain.CurrencySatoshis, frame.Currency)
	points, _ := doc.Attribute(PolygonID, "points")
	assert.Equal(t, before.Polygon, points)
}
