package remote

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"maritime-watch/internal/models"
)

type fakeMirror struct {
	mu       sync.Mutex
	profiles []models.ProfileDoc
	states   []models.VesselStateDoc
	err      error
	closed   bool
}

func (m *fakeMirror) PutProfile(ctx context.Context, doc models.ProfileDoc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.profiles = append(m.profiles, doc)
	return nil
}

func (m *fakeMirror) PutVesselState(ctx context.Context, doc models.VesselStateDoc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.states = append(m.states, doc)
	return nil
}

func (m *fakeMirror) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *fakeMirror) counts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.profiles), len(m.states)
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestPusherDeliversBothCollections(t *testing.T) {
	m := &fakeMirror{}
	p := NewPusher(m, 0, 0)
	defer p.Close()

	p.Profile(models.ProfileDoc{VesselId: "AIS-1", OperatorName: "A. Fisher"})
	p.VesselState(models.VesselStateDoc{VesselId: "AIS-1", Lat: 60, Lon: 25})

	waitFor(t, func() bool {
		profiles, states := m.counts()
		return profiles == 1 && states == 1
	}, "pusher did not deliver queued documents")
}

func TestPusherSwallowsWriteFailures(t *testing.T) {
	m := &fakeMirror{err: errors.New("hosted store down")}
	p := NewPusher(m, 0, 0)

	// must not panic, block, or surface anything
	p.VesselState(models.VesselStateDoc{VesselId: "AIS-1"})
	time.Sleep(50 * time.Millisecond)
	p.Close()

	if _, states := m.counts(); states != 0 {
		t.Error("failed write recorded a document")
	}
}

func TestPusherCloseClosesMirror(t *testing.T) {
	m := &fakeMirror{}
	p := NewPusher(m, 0, 0)
	p.Close()

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		t.Error("Close did not close the underlying mirror")
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "mongodb"})
	if err == nil {
		t.Error("Open with unknown driver must fail")
	}
}

func TestOpenNoneDriverIsNoop(t *testing.T) {
	m, err := Open(Config{Driver: "none"})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.PutProfile(context.Background(), models.ProfileDoc{}); err != nil {
		t.Error("noop mirror must accept writes")
	}
	if err := m.Close(); err != nil {
		t.Error("noop mirror must close cleanly")
	}
}
