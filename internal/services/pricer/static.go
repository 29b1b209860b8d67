package pricer

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/satchart/internal/domain"
)

// StaticPricer returns a fixed configured rate for every pair.
type StaticPricer struct {
	rate decimal.Decimal
}

func NewStaticPricer(rate decimal.Decimal) (*StaticPricer, error) {
	if rate.IsNegative() {
		return nil, errors.Wrapf(domain.ErrInvalidInput, "exchange rate must not be negative, got %s", rate)
	}
	return &StaticPricer{rate: rate}, nil
}

func (p *StaticPricer) GetPrice(ctx context.Context, _ domain.Pair) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	return p.rate, nil
}
