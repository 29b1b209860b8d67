// Package series turns balance deltas into the cumulative series the chart is drawn from.
package series

import (
	"math"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/satchart/internal/domain"
)

// Normalize converts chronologically ordered deltas into running totals. The result opens with
// a zero point at the first timestamp and closes with a copy of the last balance at the last
// timestamp, so it always holds len(deltas)+2 points.
func Normalize(deltas []domain.BalanceDelta) ([]domain.BalancePoint, error) {
	if len(deltas) == 0 {
		return nil, errors.Wrap(domain.ErrInvalidInput, "balance series is empty")
	}

	points := make([]domain.BalancePoint, 0, len(deltas)+2)
	running := domain.Amounts{}.Clone()
	points = append(points, domain.BalancePoint{
		Timestamp: deltas[0].Timestamp,
		Balances:  running.Clone(),
	})

	for i, d := range deltas {
		if i > 0 && d.Timestamp < deltas[i-1].Timestamp {
			return nil, errors.Wrapf(domain.ErrInvalidInput,
				"delta %d at %d is earlier than the previous one at %d", i, d.Timestamp, deltas[i-1].Timestamp)
		}
		for c, v := range d.Deltas {
			if !c.IsValid() {
				return nil, errors.Wrapf(domain.ErrInvalidInput, "delta %d has unknown currency %q", i, c)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errors.Wrapf(domain.ErrInvalidInput, "delta %d has non-finite %s value", i, c)
			}
		}
		for _, c := range domain.Currencies {
			running[c] += d.Deltas.Get(c)
		}
		points = append(points, domain.BalancePoint{
			Timestamp: d.Timestamp,
			Balances:  running.Clone(),
		})
	}

	points = append(points, domain.BalancePoint{
		Timestamp: deltas[len(deltas)-1].Timestamp,
		Balances:  running.Clone(),
	})

	return points, nil
}
