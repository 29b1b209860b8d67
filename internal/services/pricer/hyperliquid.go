package pricer

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	hyperliquid "github.com/sonirico/go-hyperliquid"

	"github.com/vadiminshakov/satchart/internal/domain"
)

// HyperliquidPricer reads mid prices from the Hyperliquid public Info API. Hyperliquid quotes
// every coin in USDC, so pair.To is ignored.
type HyperliquidPricer struct {
	info *hyperliquid.Info
}

func NewHyperliquidPricer(info *hyperliquid.Info) *HyperliquidPricer {
	return &HyperliquidPricer{info: info}
}

func (p *HyperliquidPricer) GetPrice(ctx context.Context, pair domain.Pair) (decimal.Decimal, error) {
	if p.info == nil {
		return decimal.Zero, errors.New("hyperliquid info client is nil")
	}

	mids, err := p.info.AllMids(ctx)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "hyperliquid mids")
	}

	// mids are keyed by base coin, e.g. "BTC"
	mid, ok := mids[pair.From]
	if !ok || mid == "" {
		return decimal.Zero, errors.Errorf("hyperliquid API returned empty mid price for %s", pair.From)
	}
	return decimal.NewFromString(mid)
}
