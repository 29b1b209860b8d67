// Package domain defines core data structures used throughout the balance chart.
package domain

import "fmt"

// Pair cryptocurrency trading pair used to look up the exchange rate.
type Pair struct {
	// From base currency symbol.
	From string
	// To quote currency symbol.
	To string
}

// NewRatePair returns the pair pricing one BTC in the given local currency.
func NewRatePair(localCurrency string) Pair {
	return Pair{From: "BTC", To: localCurrency}
}

// String returns the string representation.
func (p *Pair) String() string {
	return fmt.Sprintf("%s_%s", p.From, p.To)
}

// Symbol returns the concatenated symbol representation.
func (p *Pair) Symbol() string {
	return fmt.Sprintf("%s%s", p.From, p.To)
}
