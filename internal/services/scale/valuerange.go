package scale

import (
	"math"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/satchart/internal/domain"
)

// ValueRanges computes one value axis per currency. Min is the lowest balance, Max the clean
// ceiling of the highest one.
func ValueRanges(points []domain.BalancePoint, divisions int) (map[domain.Currency]domain.AxisRange, error) {
	if len(points) == 0 {
		return nil, errors.Wrap(domain.ErrInvalidInput, "no points to scale")
	}
	if divisions < 1 {
		return nil, errors.Wrapf(domain.ErrInvalidInput, "divisions must be positive, got %d", divisions)
	}

	ranges := make(map[domain.Currency]domain.AxisRange, len(domain.Currencies))
	for _, c := range domain.Currencies {
		lo, hi := points[0].Balances.Get(c), points[0].Balances.Get(c)
		for _, p := range points[1:] {
			v := p.Balances.Get(c)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		if math.IsNaN(lo) || math.IsInf(lo, 0) || math.IsNaN(hi) || math.IsInf(hi, 0) {
			return nil, errors.Wrapf(domain.ErrInvalidInput, "non-finite %s balance", c)
		}
		ranges[c] = domain.AxisRange{
			Min:  lo,
			Max:  ClosestCurrencyAbove(hi),
			Unit: string(c),
		}
	}
	return ranges, nil
}

// ClosestCurrencyAbove rounds v up to a number with a single non-zero leading digit by bumping
// that digit at v's order of magnitude: 27459.63 -> 30000, 500 -> 600, 0.00342 -> 0.004.
// Zero stays zero. Negative values move toward zero to the clean value at or above them.
func ClosestCurrencyAbove(v float64) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}

	d := decimal.NewFromFloat(math.Abs(v))
	order := int32(d.NumDigits()) + d.Exponent() - 1
	lead := d.Shift(-order).Floor()

	if v > 0 {
		return lead.Add(decimal.NewFromInt(1)).Shift(order).InexactFloat64()
	}
	return lead.Shift(order).Neg().InexactFloat64()
}

// ValueTicks returns the divisions+1 gridline values of a value axis.
func ValueTicks(r domain.AxisRange, divisions int) []float64 {
	if divisions < 1 {
		return nil
	}
	ticks := make([]float64, 0, divisions+1)
	for i := 0; i <= divisions; i++ {
		ticks = append(ticks, r.Min+r.Span()*float64(i)/float64(divisions))
	}
	return ticks
}
