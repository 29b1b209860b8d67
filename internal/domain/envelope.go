package domain

import "github.com/shopspring/decimal"

// Result codes carried in Envelope.Error.Code.
const (
	CodeOK             = 0
	CodeBadRequest     = 100
	CodeNotFound       = 104
	CodeSessionExpired = 105
	CodeInternal       = 500
)

// EnvelopeError outcome of an API call. Code is CodeOK on success.
type EnvelopeError struct {
	Code   int
	Status string
}

// Envelope wraps every API response.
type Envelope[T any] struct {
	Data     T
	Error    EnvelopeError
	Endpoint string
}

// HistoryMeta describes how the local currency amounts of a history were computed.
type HistoryMeta struct {
	ExchangeRate  decimal.Decimal `json:"exchange_rate"`
	LocalCurrency string          `json:"local_currency"`
}

// BalanceHistory balance deltas of one address in every currency.
type BalanceHistory struct {
	Items []BalanceDelta `json:"Items"`
	Meta  HistoryMeta    `json:"Meta"`
}
