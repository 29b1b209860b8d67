// Package pricer provides the BTC exchange rate used to chart balances in the local currency.
package pricer

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/satchart/internal/domain"
)

// Pricer returns the price of pair.From expressed in pair.To.
type Pricer interface {
	GetPrice(ctx context.Context, pair domain.Pair) (decimal.Decimal, error)
}
