package geoloc

import (
	"context"
	"sync"
)

// Consumer is one subscriber's pair of callbacks. The pointer identity of
// the Consumer is its subscription handle.
type Consumer struct {
	OnSample func(Sample)
	OnError  func(error)
}

// Source shares a single underlying continuous watch between any number of
// consumers. The watch is opened when the first consumer subscribes and
// torn down when the last one leaves; subscribing again later re-opens it.
// Construct one Source at startup and pass it to every tracker that needs
// positions so that they never open redundant hardware subscriptions.
type Source struct {
	provider Provider
	opts     WatchOptions

	mu        sync.Mutex
	consumers map[*Consumer]struct{}
	stop      func()
	opening   bool
	last      *Sample
}

func NewSource(p Provider, opts WatchOptions) *Source {
	return &Source{
		provider:  p,
		opts:      opts,
		consumers: make(map[*Consumer]struct{}),
	}
}

// Subscribe registers c and returns its unsubscribe function. If a sample
// has already been delivered, c receives it synchronously before Subscribe
// returns, so late subscribers start with known state. Subscribing an
// already-registered consumer is an idempotent no-op.
func (s *Source) Subscribe(c *Consumer) func() {
	s.mu.Lock()

	if _, ok := s.consumers[c]; ok {
		s.mu.Unlock()
		return func() {}
	}

	s.consumers[c] = struct{}{}
	needOpen := s.stop == nil && !s.opening
	if needOpen {
		s.opening = true
	}
	replay := s.last

	s.mu.Unlock()

	// The watch is opened outside the lock: providers may deliver their
	// first sample or error synchronously from Watch.
	if needOpen {
		stop := s.provider.Watch(s.opts, s.fanOutSample, s.fanOutError)

		s.mu.Lock()
		s.opening = false
		if len(s.consumers) == 0 {
			s.mu.Unlock()
			stop()
		} else {
			s.stop = stop
			s.mu.Unlock()
		}
	}

	if replay != nil && c.OnSample != nil {
		c.OnSample(*replay)
	}

	return func() {
		s.unsubscribe(c)
	}
}

func (s *Source) unsubscribe(c *Consumer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.consumers[c]; !ok {
		return
	}
	delete(s.consumers, c)

	if len(s.consumers) == 0 && s.stop != nil {
		s.stop()
		s.stop = nil
	}
}

func (s *Source) fanOutSample(sample Sample) {
	s.mu.Lock()
	s.last = &sample
	targets := s.snapshotLocked()
	s.mu.Unlock()

	for _, c := range targets {
		if c.OnSample != nil {
			c.OnSample(sample)
		}
	}
}

func (s *Source) fanOutError(err error) {
	s.mu.Lock()
	targets := s.snapshotLocked()
	s.mu.Unlock()

	for _, c := range targets {
		if c.OnError != nil {
			c.OnError(err)
		}
	}
}

func (s *Source) snapshotLocked() []*Consumer {
	targets := make([]*Consumer, 0, len(s.consumers))
	for c := range s.consumers {
		targets = append(targets, c)
	}
	return targets
}

// Current performs a one-shot fix on the provider, independent of the
// shared watch
func (s *Source) Current(ctx context.Context, opts WatchOptions) (Sample, error) {
	return s.provider.Current(ctx, opts)
}
