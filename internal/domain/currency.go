package domain

import (
	"strings"

	"github.com/pkg/errors"
)

// Currency is one of the three interchangeable units a balance is displayed in.
type Currency string

const (
	// CurrencyBTC whole bitcoins.
	CurrencyBTC Currency = "btc"
	// CurrencySatoshis 1e-8 BTC.
	CurrencySatoshis Currency = "sat"
	// CurrencyLocal BTC value converted with the exchange rate.
	CurrencyLocal Currency = "local"
)

// SatoshisPerBTC conversion factor between BTC and satoshis.
const SatoshisPerBTC = 100_000_000

// Currencies lists every unit in a stable order.
var Currencies = [...]Currency{CurrencyBTC, CurrencySatoshis, CurrencyLocal}

// String returns the string representation.
func (c Currency) String() string {
	return string(c)
}

// IsValid checks if the Currency value is one of the known units.
func (c Currency) IsValid() bool {
	return c == CurrencyBTC || c == CurrencySatoshis || c == CurrencyLocal
}

// Title returns the heading shown on the chart.
func (c Currency) Title() string {
	switch c {
	case CurrencyBTC:
		return "BTC"
	case CurrencySatoshis:
		return "Satoshis"
	case CurrencyLocal:
		return "Local currency"
	default:
		return "Unknown"
	}
}

// ParseCurrency accepts the short names and the long names used by older clients.
func ParseCurrency(s string) (Currency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "btc":
		return CurrencyBTC, nil
	case "sat", "sats", "satoshis":
		return CurrencySatoshis, nil
	case "local", "local-currency":
		return CurrencyLocal, nil
	}
	return "", errors.Wrapf(ErrInvalidInput, "unknown currency %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler so Currency works as a JSON map key.
func (c *Currency) UnmarshalText(text []byte) error {
	parsed, err := ParseCurrency(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Currency) MarshalText() ([]byte, error) {
	return []byte(c), nil
}

// Amounts maps each currency to a value. Missing currencies read as zero.
type Amounts map[Currency]float64

// Get returns the amount for c, zero when absent.
func (a Amounts) Get(c Currency) float64 {
	return a[c]
}

// Clone returns an independent copy holding all three currencies.
func (a Amounts) Clone() Amounts {
	out := make(Amounts, len(Currencies))
	for _, c := range Currencies {
		out[c] = a[c]
	}
	return out
}
