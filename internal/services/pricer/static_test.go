package pricer

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/satchart/internal/domain"
)

func TestStaticPricer_GetPrice(t *testing.T) {
	tests := []struct {
		name string
		rate string
	}{
		{"zero rate", "0"},
		{"usd rate", "37000.25"},
		{"small rate", "0.00001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewStaticPricer(decimal.RequireFromString(tt.rate))
			require.NoError(t, err)

			price, err := p.GetPrice(context.Background(), domain.NewRatePair("USDT"))
			require.NoError(t, err)
			assert.True(t, price.Equal(decimal.RequireFromString(tt.rate)), "got %s", price)
		})
	}
}

func TestStaticPricer_Errors(t *testing.T) {
	_, err := NewStaticPricer(decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p, err := NewStaticPricer(decimal.NewFromInt(1))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.GetPrice(ctx, domain.NewRatePair("EUR"))
	assert.ErrorIs(t, err, context.Canceled)
}
