package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/satchart/internal/domain"
)

func record(idx uint64, address string) domain.DeltaRecord {
	return domain.DeltaRecord{Index: idx, Delta: domain.AddressDelta{Address: address, Timestamp: int64(idx), Satoshis: 1}}
}

func TestDeltaBroadcaster_FiltersByAddress(t *testing.T) {
	b := NewDeltaBroadcaster(4)
	alice := b.Subscribe("alice")
	all := b.Subscribe("")
	assert.Equal(t, 2, b.Subscribers())

	b.Publish(record(1, "alice"))
	b.Publish(record(2, "bob"))

	require.Len(t, alice, 1)
	assert.Equal(t, uint64(1), (<-alice).Index)

	require.Len(t, all, 2)
	assert.Equal(t, uint64(1), (<-all).Index)
	assert.Equal(t, uint64(2), (<-all).Index)
}

func TestDeltaBroadcaster_ClosesOverflowedSubscriber(t *testing.T) {
	b := NewDeltaBroadcaster(4)
	slow := b.Subscribe("alice")
	other := b.Subscribe("alice")

	for i := uint64(1); i <= 6; i++ {
		b.Publish(record(i, "alice"))
		if i <= 4 {
			<-other
		}
	}

	var received []uint64
	for r := range slow {
		received = append(received, r.Index)
	}
	assert.Equal(t, []uint64{1, 2, 3, 4}, received, "buffered deltas stay readable, then the channel closes")

	assert.Equal(t, 1, b.Subscribers())
	require.Len(t, other, 2)
	assert.Equal(t, uint64(5), (<-other).Index)
	assert.Equal(t, uint64(6), (<-other).Index)

	// closed subscriptions are not published to again
	b.Publish(record(7, "alice"))
	b.Unsubscribe(slow)
	assert.Equal(t, 1, b.Subscribers())
}

func TestDeltaBroadcaster_Unsubscribe(t *testing.T) {
	b := NewDeltaBroadcaster(0)
	ch := b.Subscribe("alice")

	b.Unsubscribe(ch)
	_, ok := <-ch
	assert.False(t, ok, "channel is closed")
	assert.Zero(t, b.Subscribers())

	// second unsubscribe is a no-op
	b.Unsubscribe(ch)
	b.Publish(record(1, "alice"))
}
