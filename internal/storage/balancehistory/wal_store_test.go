package balancehistory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/satchart/internal/domain"
)

func newStore(t *testing.T, dir string) *WALStore {
	t.Helper()
	s, err := NewWALStore(dir)
	require.NoError(t, err)
	return s
}

func TestWALStore_SaveAndHistory(t *testing.T) {
	s := newStore(t, t.TempDir())
	defer s.Close()

	idx, err := s.Save(domain.AddressDelta{Address: "alice", Timestamp: 300, Satoshis: -10})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), idx)

	_, err = s.SaveAll("bob", []domain.SatoshiDelta{{Timestamp: 50, Satoshis: 7}})
	require.NoError(t, err)

	records, err := s.SaveAll("alice", []domain.SatoshiDelta{
		{Timestamp: 100, Satoshis: 1000},
		{Timestamp: 300, Satoshis: 5},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, uint64(3), records[0].Index)
	assert.Equal(t, uint64(4), records[1].Index)
	assert.Equal(t, uint64(4), s.CurrentIndex())

	history, err := s.History("alice")
	require.NoError(t, err)
	assert.Equal(t, []domain.SatoshiDelta{
		{Timestamp: 100, Satoshis: 1000},
		{Timestamp: 300, Satoshis: -10},
		{Timestamp: 300, Satoshis: 5},
	}, history)

	history, err = s.History("carol")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestWALStore_DeltasAfter(t *testing.T) {
	s := newStore(t, t.TempDir())
	defer s.Close()

	for i, addr := range []string{"alice", "bob", "alice"} {
		_, err := s.Save(domain.AddressDelta{Address: addr, Timestamp: int64(i), Satoshis: int64(i + 1)})
		require.NoError(t, err)
	}

	tests := []struct {
		name    string
		index   uint64
		address string
		want    []uint64
	}{
		{"all addresses", 0, "", []uint64{1, 2, 3}},
		{"one address", 0, "alice", []uint64{1, 3}},
		{"after index", 1, "alice", []uint64{3}},
		{"nothing newer", 3, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := s.DeltasAfter(tt.index, tt.address)
			require.NoError(t, err)

			var got []uint64
			for _, r := range records {
				got = append(got, r.Index)
				if tt.address != "" {
					assert.Equal(t, tt.address, r.Delta.Address)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWALStore_Reopen(t *testing.T) {
	dir := t.TempDir()

	s := newStore(t, dir)
	_, err := s.Save(domain.AddressDelta{Address: "alice", Timestamp: 10, Satoshis: 42})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s = newStore(t, dir)
	defer s.Close()

	assert.Equal(t, uint64(1), s.CurrentIndex())
	history, err := s.History("alice")
	require.NoError(t, err)
	assert.Equal(t, []domain.SatoshiDelta{{Timestamp: 10, Satoshis: 42}}, history)
}

func TestWALStore_InvalidInput(t *testing.T) {
	s := newStore(t, t.TempDir())
	defer s.Close()

	_, err := s.Save(domain.AddressDelta{Timestamp: 1, Satoshis: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = s.History("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var nilStore *WALStore
	_, err = nilStore.Save(domain.AddressDelta{Address: "alice"})
	assert.Error(t, err)
	assert.Zero(t, nilStore.CurrentIndex())
}
