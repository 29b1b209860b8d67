// Package canvas maps the cumulative series onto the fixed drawing canvas.
package canvas

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/satchart/internal/domain"
)

const (
	// Width of the drawing canvas in surface units.
	Width = 800
	// Height of the drawing canvas in surface units.
	Height = 300
)

// Mapper scales data coordinates into a canvas of fixed size.
type Mapper struct {
	width  float64
	height float64
}

// NewMapper returns a mapper for the standard 800x300 canvas.
func NewMapper() *Mapper {
	return &Mapper{width: Width, height: Height}
}

// X maps a timestamp onto the horizontal axis.
func (m *Mapper) X(ts float64, timeRange domain.AxisRange) float64 {
	return scale(ts, timeRange, m.width)
}

// Y maps a balance onto the vertical axis. Y grows upwards from the baseline.
func (m *Mapper) Y(v float64, valueRange domain.AxisRange) float64 {
	return scale(v, valueRange, m.height)
}

// ToCanvas produces the step polygon for one currency: each point contributes (x, previous y)
// followed by (x, y), so the area rises and falls in steps instead of slopes.
func (m *Mapper) ToCanvas(points []domain.BalancePoint, timeRange, valueRange domain.AxisRange, currency domain.Currency) ([]domain.CanvasPoint, error) {
	if len(points) == 0 {
		return nil, errors.Wrap(domain.ErrInvalidInput, "no points to map")
	}
	if !currency.IsValid() {
		return nil, errors.Wrapf(domain.ErrInvalidInput, "unknown currency %q", currency)
	}

	out := make([]domain.CanvasPoint, 0, 2*len(points))
	prevY := m.Y(points[0].Balances.Get(currency), valueRange)
	for i, p := range points {
		x := m.X(float64(p.Timestamp), timeRange)
		y := m.Y(p.Balances.Get(currency), valueRange)
		if !finite(x) || !finite(y) || !finite(prevY) {
			return nil, errors.Wrapf(domain.ErrInvalidInput, "point %d maps to a non-finite coordinate", i)
		}
		out = append(out, domain.CanvasPoint{X: x, Y: prevY}, domain.CanvasPoint{X: x, Y: y})
		prevY = y
	}
	return out, nil
}

// Polygon renders canvas points as a space separated list of x,y pairs.
func Polygon(points []domain.CanvasPoint) string {
	var b strings.Builder
	for i, p := range points {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(formatCoord(p.X))
		b.WriteByte(',')
		b.WriteString(formatCoord(p.Y))
	}
	return b.String()
}

// scale clamps zero-span ranges to the origin.
func scale(v float64, r domain.AxisRange, length float64) float64 {
	span := r.Span()
	if span == 0 {
		return 0
	}
	return length * (v - r.Min) / span
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
