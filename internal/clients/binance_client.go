// Package clients builds exchange SDK clients and talks to remote balance-history APIs.
package clients

import (
	"github.com/adshao/go-binance/v2"
)

// NewBinanceClient creates a Binance client. Ticker prices are public, so apiKey and apiSecret
// may be empty when only rates are read.
func NewBinanceClient(apiKey, apiSecret string) *binance.Client {
	return binance.NewClient(apiKey, apiSecret)
}
