// Package history loads stored satoshi deltas of an address and prices them in every currency.
package history

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/satchart/internal/domain"
	"github.com/vadiminshakov/satchart/internal/services/pricer"
	"github.com/vadiminshakov/satchart/internal/services/series"
)

type deltaReader interface {
	History(address string) ([]domain.SatoshiDelta, error)
}

// Service builds balance histories from the delta store and the configured exchange rate.
type Service struct {
	store         deltaReader
	pricer        pricer.Pricer
	localCurrency string
	logger        *zap.Logger
}

// NewService creates a history service. rates may be nil, in which case local amounts are zero.
func NewService(store deltaReader, rates pricer.Pricer, localCurrency string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, pricer: rates, localCurrency: localCurrency, logger: logger}
}

// LocalCurrency returns the code local amounts are expressed in.
func (s *Service) LocalCurrency() string {
	return s.localCurrency
}

// Load returns the deltas of address, merged per timestamp and converted into every currency.
func (s *Service) Load(ctx context.Context, address string) (domain.BalanceHistory, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return domain.BalanceHistory{}, errors.Wrap(domain.ErrInvalidInput, "address is required")
	}

	rows, err := s.store.History(address)
	if err != nil {
		return domain.BalanceHistory{}, errors.Wrapf(err, "load history of %s", address)
	}

	rate := s.exchangeRate(ctx)
	return domain.BalanceHistory{
		Items: series.FromSatoshis(series.Aggregate(rows), rate),
		Meta: domain.HistoryMeta{
			ExchangeRate:  rate,
			LocalCurrency: s.localCurrency,
		},
	}, nil
}

// exchangeRate falls back to zero so balances can still be charted in BTC and satoshis.
func (s *Service) exchangeRate(ctx context.Context) decimal.Decimal {
	if s.pricer == nil {
		return decimal.Zero
	}

	pair := domain.NewRatePair(s.localCurrency)
	rate, err := s.pricer.GetPrice(ctx, pair)
	if err != nil {
		s.logger.Warn("exchange rate unavailable, local amounts are zero",
			zap.String("pair", pair.String()),
			zap.Error(err))
		return decimal.Zero
	}
	return rate
}
