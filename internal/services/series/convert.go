package series

import (
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/satchart/internal/domain"
)

var satoshisPerBTC = decimal.NewFromInt(domain.SatoshisPerBTC)

// FromSatoshis expresses a satoshi-only series in every currency. rate is the price of one
// BTC in the local currency.
func FromSatoshis(rows []domain.SatoshiDelta, rate decimal.Decimal) []domain.BalanceDelta {
	out := make([]domain.BalanceDelta, 0, len(rows))
	for _, row := range rows {
		sat := decimal.NewFromInt(row.Satoshis)
		btc := sat.Div(satoshisPerBTC)
		out = append(out, domain.BalanceDelta{
			Timestamp: row.Timestamp,
			Deltas: domain.Amounts{
				domain.CurrencySatoshis: float64(row.Satoshis),
				domain.CurrencyBTC:      btc.InexactFloat64(),
				domain.CurrencyLocal:    btc.Mul(rate).InexactFloat64(),
			},
		})
	}
	return out
}

// Aggregate merges deltas sharing a timestamp, keeping the order in which timestamps first appear.
func Aggregate(rows []domain.SatoshiDelta) []domain.SatoshiDelta {
	out := make([]domain.SatoshiDelta, 0, len(rows))
	seen := make(map[int64]int, len(rows))
	for _, row := range rows {
		if idx, ok := seen[row.Timestamp]; ok {
			out[idx].Satoshis += row.Satoshis
			continue
		}
		seen[row.Timestamp] = len(out)
		out = append(out, row)
	}
	return out
}
