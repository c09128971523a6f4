// Package tracker drives location acquisition for a single record: one
// fast initial fix plus a continuous subscription on the shared source,
// with a per-tracker permission state machine.
package tracker

import (
	"context"
	"errors"
	"sync"

	"maritime-watch/internal/geoloc"
)

// State is the acquisition state of one tracker. The error states are
// terminal until an explicit Retry; passive polling never leaves them.
type State string

const (
	StateIdle        State = "idle"
	StateRequesting  State = "requesting"
	StateGranted     State = "granted"
	StateDenied      State = "denied"
	StateUnavailable State = "unavailable"
	StateTimeout     State = "timeout"
)

func classify(err error) State {
	switch {
	case errors.Is(err, geoloc.ErrPermissionDenied):
		return StateDenied
	case errors.Is(err, geoloc.ErrTimeout):
		return StateTimeout
	default:
		return StateUnavailable
	}
}

// Tracker folds samples from the shared source into one record via the
// apply callback. The callback runs once per delivered sample and is
// responsible for updating and persisting whatever record it tracks.
type Tracker struct {
	source *geoloc.Source
	apply  func(geoloc.Sample)

	mu      sync.Mutex
	state   State
	enabled bool
	unsub   func()
}

func New(source *geoloc.Source, apply func(geoloc.Sample)) *Tracker {
	return &Tracker{
		source: source,
		apply:  apply,
		state:  StateIdle,
	}
}

// Enable starts acquisition: one one-shot high-accuracy fix for fast
// initial feedback, and independently a subscription on the shared source
// for continuous updates. Enabling an enabled tracker is a no-op.
func (t *Tracker) Enable(ctx context.Context) {
	t.mu.Lock()
	if t.enabled {
		t.mu.Unlock()
		return
	}
	t.enabled = true
	t.state = StateRequesting
	t.mu.Unlock()

	go t.oneShot(ctx)

	consumer := &geoloc.Consumer{
		OnSample: t.onSample,
		OnError:  t.onError,
	}
	unsub := t.source.Subscribe(consumer)

	t.mu.Lock()
	if !t.enabled {
		// disabled while we were subscribing
		t.mu.Unlock()
		unsub()
		return
	}
	t.unsub = unsub
	t.mu.Unlock()
}

func (t *Tracker) oneShot(ctx context.Context) {
	sample, err := t.source.Current(ctx, geoloc.OneShotOptions())
	if err != nil {
		t.onError(err)
		return
	}
	t.onSample(sample)
}

// Disable stops the subscription; no further samples are folded until the
// tracker is enabled again
func (t *Tracker) Disable() {
	t.mu.Lock()
	if !t.enabled {
		t.mu.Unlock()
		return
	}
	t.enabled = false
	t.state = StateIdle
	unsub := t.unsub
	t.unsub = nil
	t.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// Retry is the explicit user-initiated escape from a terminal error state.
// It re-enters requesting and re-issues both the one-shot request and the
// continuous subscription. In any non-error state it does nothing.
func (t *Tracker) Retry(ctx context.Context) {
	t.mu.Lock()
	switch t.state {
	case StateDenied, StateUnavailable, StateTimeout:
	default:
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	t.Disable()
	t.Enable(ctx)
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Tracker) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

func (t *Tracker) onSample(s geoloc.Sample) {
	t.mu.Lock()
	if !t.enabled {
		t.mu.Unlock()
		return
	}
	t.state = StateGranted
	apply := t.apply
	t.mu.Unlock()

	if apply != nil {
		apply(s)
	}
}

func (t *Tracker) onError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.enabled {
		return
	}

	next := classify(err)
	// Permission denial always sticks; other failures only downgrade a
	// pending request, they do not revoke an already granted watch.
	if t.state == StateGranted && next != StateDenied {
		return
	}
	t.state = next
}
