// Package bus provides the in-process change broadcast emitted after every
// mirror write. Cross-process notification is handled separately by the
// mirror file version watcher; this bus only covers listeners inside the
// same process, which never see that signal for their own writes.
package bus

import (
	"sync"
)

// Bus fans a payload-less change signal out to any number of subscribers.
type Bus struct {
	mu     sync.Mutex
	nextId int
	subs   map[int]chan struct{}
}

func New() *Bus {
	return &Bus{
		subs: make(map[int]chan struct{}),
	}
}

// Subscribe registers a listener and returns its signal channel together
// with a cancel function. The channel has a buffer of one; signals arriving
// while one is already pending are coalesced, which is safe because every
// listener reacts with the same idempotent full reload.
func (b *Bus) Subscribe() (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextId
	b.nextId++

	ch := make(chan struct{}, 1)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}

	return ch, cancel
}

// Publish signals every current subscriber without blocking the writer
func (b *Bus) Publish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
