package domain

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// BalanceDelta change of a balance at a point in time, in every currency.
type BalanceDelta struct {
	Timestamp int64
	Deltas    Amounts
}

// MarshalJSON encodes the delta as a [timestamp, {unit: value}] pair.
func (d BalanceDelta) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{d.Timestamp, d.Deltas})
}

// UnmarshalJSON decodes a [timestamp, {unit: value}] pair.
func (d *BalanceDelta) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return errors.Wrap(ErrInvalidInput, err.Error())
	}
	if len(raw) != 2 {
		return errors.Wrapf(ErrInvalidInput, "balance delta must be a [timestamp, amounts] pair, got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &d.Timestamp); err != nil {
		return errors.Wrap(ErrInvalidInput, fmt.Sprintf("timestamp: %v", err))
	}
	d.Deltas = Amounts{}
	if err := json.Unmarshal(raw[1], &d.Deltas); err != nil {
		return errors.Wrap(ErrInvalidInput, fmt.Sprintf("amounts: %v", err))
	}
	return nil
}

// BalancePoint cumulative balance at a point in time.
type BalancePoint struct {
	Timestamp int64
	Balances  Amounts
}

// SatoshiDelta balance change expressed in satoshis only, as produced by the history query.
type SatoshiDelta struct {
	Timestamp int64 `json:"ts"`
	Satoshis  int64 `json:"satoshis"`
}

// UnmarshalJSON accepts either {"ts":..,"satoshis":..} or the [timestamp, satoshis] pair.
func (d *SatoshiDelta) UnmarshalJSON(b []byte) error {
	var pair [2]int64
	if err := json.Unmarshal(b, &pair); err == nil {
		d.Timestamp, d.Satoshis = pair[0], pair[1]
		return nil
	}
	type plain SatoshiDelta
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return errors.Wrap(ErrInvalidInput, err.Error())
	}
	*d = SatoshiDelta(p)
	return nil
}

// AddressDelta satoshi delta recorded for one address.
type AddressDelta struct {
	Address   string `json:"address"`
	Timestamp int64  `json:"ts"`
	Satoshis  int64  `json:"satoshis"`
}

// SatoshiDelta drops the address.
func (d AddressDelta) SatoshiDelta() SatoshiDelta {
	return SatoshiDelta{Timestamp: d.Timestamp, Satoshis: d.Satoshis}
}

// DeltaRecord stored delta with its log position.
type DeltaRecord struct {
	Index uint64       `json:"index"`
	Delta AddressDelta `json:"delta"`
}
