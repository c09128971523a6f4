package fleet

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"maritime-watch/internal/bus"
	"maritime-watch/internal/mirror"
)

// Session owns every timer, watcher, and subscription registered for one
// role session. Everything wired during the session is released together
// by Close, so switching roles or shutting down never leaks a
// subscription.
type Session struct {
	Id string

	mu       sync.Mutex
	done     chan struct{}
	closed   bool
	releases []func()
	wg       sync.WaitGroup
}

func NewSession() *Session {
	return &Session{
		Id:   uuid.NewString(),
		done: make(chan struct{}),
	}
}

// OnClose registers a release function to run when the session ends.
// Trackers and bus subscriptions opened for the session register their
// teardown here.
func (s *Session) OnClose(release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		release()
		return
	}
	s.releases = append(s.releases, release)
}

// StartSync wires the three synchronization triggers for f against store,
// all bound to the session lifetime.
func (s *Session) StartSync(f *Fleet, store *mirror.Store, b *bus.Bus) {
	s.StartSyncIntervals(f, store, b, PollInterval, WatchInterval)
}

// StartSyncIntervals is StartSync with explicit intervals, for tests
func (s *Session) StartSyncIntervals(f *Fleet, store *mirror.Store, b *bus.Bus, poll, watch time.Duration) {
	ch, cancel := b.Subscribe()
	s.OnClose(cancel)

	s.Go(func(done <-chan struct{}) {
		runBusTrigger(f, ch, done)
	})
	s.Go(func(done <-chan struct{}) {
		runVersionTrigger(f, store, watch, done)
	})
	s.Go(func(done <-chan struct{}) {
		runPollTrigger(f, poll, done)
	})
}

// Go runs fn on a session-scoped goroutine. fn must return promptly once
// done is closed.
func (s *Session) Go(fn func(done <-chan struct{})) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		fn(s.done)
	}()
}

// Close releases everything registered during the session and waits for
// session goroutines to exit. It is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	releases := s.releases
	s.releases = nil
	close(s.done)
	s.mu.Unlock()

	for i := len(releases) - 1; i >= 0; i-- {
		releases[i]()
	}
	s.wg.Wait()

	log.Printf("session %s: closed, all resources released", s.Id)
}
