// Package fleet keeps a view's in-memory vessel list eventually consistent
// with the mirror. Three independent triggers all converge on the same
// idempotent full reload: the in-process change bus, a mirror file version
// watcher covering writes by other processes, and an unconditional
// periodic poll as the correctness backstop. Ordering between triggers is
// irrelevant; reloading identical data is a safe no-op.
package fleet

import (
	"sync"
	"time"

	"maritime-watch/internal/mirror"
	"maritime-watch/internal/models"
)

const (
	// PollInterval is the unconditional reload backstop
	PollInterval = 2 * time.Second
	// WatchInterval is how often the mirror file version is compared
	// to detect writes from other processes
	WatchInterval = 250 * time.Millisecond
)

// Fleet is one view's copy of the registered vessel list
type Fleet struct {
	store *mirror.Store

	mu      sync.RWMutex
	vessels []models.Vessel
	reloads int64
}

func New(store *mirror.Store) *Fleet {
	f := &Fleet{store: store}
	f.Reload()
	return f
}

// Reload replaces the in-memory list wholesale with the mirror's current
// contents. Every synchronization trigger funnels into this.
func (f *Fleet) Reload() {
	vessels := f.store.ReadAll()

	f.mu.Lock()
	f.vessels = vessels
	f.reloads++
	f.mu.Unlock()
}

// Vessels returns a copy of the current in-memory list
func (f *Fleet) Vessels() []models.Vessel {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]models.Vessel, len(f.vessels))
	copy(out, f.vessels)
	return out
}

// Find returns the in-memory record with the given Id, if present
func (f *Fleet) Find(id string) (models.Vessel, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, v := range f.vessels {
		if v.Id == id {
			return v, true
		}
	}
	return models.Vessel{}, false
}

// Reloads returns how many times the list has been reloaded
func (f *Fleet) Reloads() int64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.reloads
}

// runBusTrigger reloads on every in-process change signal
func runBusTrigger(f *Fleet, ch <-chan struct{}, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-ch:
			f.Reload()
		}
	}
}

// runVersionTrigger reloads when the mirror file version changes under us,
// which is how writes from other processes become visible
func runVersionTrigger(f *Fleet, store *mirror.Store, interval time.Duration, done <-chan struct{}) {
	last := store.Version()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			cur := store.Version()
			if !cur.Equal(last) {
				last = cur
				f.Reload()
			}
		}
	}
}

// runPollTrigger reloads unconditionally, covering any missed signal
func runPollTrigger(f *Fleet, interval time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			f.Reload()
		}
	}
}
