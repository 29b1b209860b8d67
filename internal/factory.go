// Package internal wires configured collaborators for the satchart commands.
package internal

import (
	"fmt"
	"os"

	binance "github.com/adshao/go-binance/v2"
	bybit "github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	hyperliquid "github.com/sonirico/go-hyperliquid"

	"github.com/vadiminshakov/satchart/config"
	"github.com/vadiminshakov/satchart/internal/clients"
	"github.com/vadiminshakov/satchart/internal/services/pricer"
)

// Credentials exchange API settings read from the environment.
type Credentials struct {
	BinanceAPIKey         string
	BinanceAPISecret      string
	BybitAPIKey           string
	BybitAPISecret        string
	HyperliquidPrivateKey string
	HyperliquidBaseURL    string
}

// CredentialsFromEnv reads exchange credentials from environment variables.
func CredentialsFromEnv() Credentials {
	return Credentials{
		BinanceAPIKey:         os.Getenv("BINANCE_API_KEY"),
		BinanceAPISecret:      os.Getenv("BINANCE_API_SECRET"),
		BybitAPIKey:           os.Getenv("BYBIT_API_KEY"),
		BybitAPISecret:        os.Getenv("BYBIT_API_SECRET"),
		HyperliquidPrivateKey: os.Getenv("HYPERLIQUID_PRIVATE_KEY"),
		HyperliquidBaseURL:    os.Getenv("HYPERLIQUID_BASE_URL"),
	}
}

// NewRateClient builds the client of the configured rate source. The static source has none.
// Hyperliquid prices come from the public Info API; an account client is built only when a
// private key is configured.
func NewRateClient(cfg config.Config, creds Credentials) (any, error) {
	switch cfg.RateSource {
	case config.RateSourceStatic:
		return nil, nil
	case config.RateSourceBinance:
		return clients.NewBinanceClient(creds.BinanceAPIKey, creds.BinanceAPISecret), nil
	case config.RateSourceBybit:
		return clients.NewBybitClient(creds.BybitAPIKey, creds.BybitAPISecret), nil
	case config.RateSourceHyperliquid:
		if creds.HyperliquidPrivateKey == "" {
			return clients.NewHyperliquidInfo(creds.HyperliquidBaseURL), nil
		}
		client, err := clients.NewHyperliquidClient(creds.HyperliquidPrivateKey, creds.HyperliquidBaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "hyperliquid account")
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported rate source: %s", cfg.RateSource)
	}
}

// NewPricer dispatches on the client type. A nil client means the configured static rate.
func NewPricer(cfg config.Config, client any) (pricer.Pricer, error) {
	switch c := client.(type) {
	case nil:
		return pricer.NewStaticPricer(cfg.ExchangeRate)
	case *binance.Client:
		return pricer.NewBinancePricer(c), nil
	case *bybit.Client:
		return pricer.NewBybitPricer(c), nil
	case *hyperliquid.Info:
		return pricer.NewHyperliquidPricer(c), nil
	case *clients.HyperliquidClient:
		return pricer.NewHyperliquidPricer(c.Exchange().Info()), nil
	default:
		return nil, fmt.Errorf("unsupported client type: %T", client)
	}
}
