// Package events fans newly stored balance deltas out to stream subscribers.
package events

import (
	"sync"

	"github.com/vadiminshakov/satchart/internal/domain"
)

const defaultBuffer = 64

type subscription struct {
	address string
	ch      chan domain.DeltaRecord
}

// DeltaBroadcaster fans out stored deltas to subscribers via buffered channels.
type DeltaBroadcaster struct {
	mu     sync.RWMutex
	subs   map[<-chan domain.DeltaRecord]subscription
	buffer int
}

// NewDeltaBroadcaster creates a broadcaster with the given per-subscriber buffer.
func NewDeltaBroadcaster(buffer int) *DeltaBroadcaster {
	if buffer < 1 {
		buffer = defaultBuffer
	}
	return &DeltaBroadcaster{
		subs:   make(map[<-chan domain.DeltaRecord]subscription),
		buffer: buffer,
	}
}

// Publish sends r to every subscriber of its address. A subscriber whose buffer is full is
// removed and its channel closed: it already holds every delta up to the one it missed, so the
// reader drains it and resumes from the store.
func (b *DeltaBroadcaster) Publish(r domain.DeltaRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for key, sub := range b.subs {
		if sub.address != "" && sub.address != r.Delta.Address {
			continue
		}
		select {
		case sub.ch <- r:
		default:
			delete(b.subs, key)
			close(sub.ch)
		}
	}
}

// Subscribe returns a channel receiving deltas of address until Unsubscribe is called. An empty
// address receives every delta.
func (b *DeltaBroadcaster) Subscribe(address string) <-chan domain.DeltaRecord {
	ch := make(chan domain.DeltaRecord, b.buffer)
	b.mu.Lock()
	b.subs[ch] = subscription{address: address, ch: ch}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the channel and closes it.
func (b *DeltaBroadcaster) Unsubscribe(ch <-chan domain.DeltaRecord) {
	b.mu.Lock()
	if sub, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(sub.ch)
	}
	b.mu.Unlock()
}

// Subscribers returns the number of open subscriptions.
func (b *DeltaBroadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
