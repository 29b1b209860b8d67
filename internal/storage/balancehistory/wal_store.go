// Package balancehistory persists satoshi balance deltas per address in a write-ahead log.
package balancehistory

import (
	"encoding/json"
	"slices"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/vadiminshakov/satchart/internal/domain"
)

const (
	defaultHistoryDir   = "./wal/balance"
	historySegmentLimit = 1000
	historyMaxSegments  = 10000
	deltaKeyPrefix      = "balance_delta_"
)

var errNotInitialized = errors.New("balance history store is not initialized")

// WALStore appends address deltas to a WAL and reads them back in log order.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore opens or creates the store under dir.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultHistoryDir
	}

	wal, err := gowal.NewWAL(gowal.Config{
		Dir:              dir,
		Prefix:           "delta_",
		SegmentThreshold: historySegmentLimit,
		MaxSegments:      historyMaxSegments,
		IsInSyncDiskMode: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "init balance history WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Save appends one delta and returns its index.
func (s *WALStore) Save(delta domain.AddressDelta) (uint64, error) {
	if s == nil || s.wal == nil {
		return 0, errNotInitialized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.append(delta)
}

// SaveAll appends deltas for address in the given order.
func (s *WALStore) SaveAll(address string, deltas []domain.SatoshiDelta) ([]domain.DeltaRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errNotInitialized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]domain.DeltaRecord, 0, len(deltas))
	for _, d := range deltas {
		delta := domain.AddressDelta{Address: address, Timestamp: d.Timestamp, Satoshis: d.Satoshis}
		idx, err := s.append(delta)
		if err != nil {
			return records, err
		}
		records = append(records, domain.DeltaRecord{Index: idx, Delta: delta})
	}
	return records, nil
}

func (s *WALStore) append(delta domain.AddressDelta) (uint64, error) {
	if delta.Address == "" {
		return 0, errors.Wrap(domain.ErrInvalidInput, "balance delta address is required")
	}

	payload, err := json.Marshal(delta)
	if err != nil {
		return 0, errors.Wrap(err, "marshal balance delta")
	}

	idx := s.wal.CurrentIndex() + 1
	if err := s.wal.Write(idx, deltaKeyPrefix+delta.Address, payload); err != nil {
		return 0, errors.Wrapf(err, "write balance delta %d", idx)
	}
	return idx, nil
}

// DeltasAfter returns deltas written after index. An empty address matches every address.
func (s *WALStore) DeltasAfter(index uint64, address string) ([]domain.DeltaRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errNotInitialized
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	var records []domain.DeltaRecord
	for idx := index + 1; idx <= current; idx++ {
		key, payload, ok := s.wal.Get(idx)
		if !ok || !strings.HasPrefix(key, deltaKeyPrefix) {
			continue
		}
		if address != "" && strings.TrimPrefix(key, deltaKeyPrefix) != address {
			continue
		}

		var delta domain.AddressDelta
		if err := json.Unmarshal(payload, &delta); err != nil {
			return nil, errors.Wrapf(err, "decode balance delta %d", idx)
		}
		records = append(records, domain.DeltaRecord{Index: idx, Delta: delta})
	}

	return records, nil
}

// History returns every delta of address ordered by timestamp. Deltas sharing a timestamp keep
// the order they were written in.
func (s *WALStore) History(address string) ([]domain.SatoshiDelta, error) {
	if address == "" {
		return nil, errors.Wrap(domain.ErrInvalidInput, "address is required")
	}

	records, err := s.DeltasAfter(0, address)
	if err != nil {
		return nil, err
	}

	out := make([]domain.SatoshiDelta, 0, len(records))
	for _, r := range records {
		out = append(out, r.Delta.SatoshiDelta())
	}
	slices.SortStableFunc(out, func(a, b domain.SatoshiDelta) int {
		switch {
		case a.Timestamp < b.Timestamp:
			return -1
		case a.Timestamp > b.Timestamp:
			return 1
		default:
			return 0
		}
	})
	return out, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errNotInitialized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
