package bus

import (
	"testing"
	"time"
)

func drain(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	case <-time.After(100 * time.Millisecond):
		return false
	}
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := New()

	ch1, cancel1 := b.Subscribe()
	ch2, cancel2 := b.Subscribe()
	defer cancel1()
	defer cancel2()

	b.Publish()

	if !drain(ch1) {
		t.Error("first subscriber did not receive signal")
	}
	if !drain(ch2) {
		t.Error("second subscriber did not receive signal")
	}
}

func TestPublishCoalescesPendingSignals(t *testing.T) {
	b := New()

	ch, cancel := b.Subscribe()
	defer cancel()

	b.Publish()
	b.Publish()
	b.Publish()

	if !drain(ch) {
		t.Fatal("subscriber did not receive signal")
	}

	select {
	case <-ch:
		t.Error("burst of publishes left more than one pending signal")
	default:
	}
}

func TestCancelledSubscriberReceivesNothing(t *testing.T) {
	b := New()

	ch, cancel := b.Subscribe()
	cancel()

	b.Publish()

	select {
	case <-ch:
		t.Error("cancelled subscriber received signal")
	default:
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	b := New()
	b.Publish()
}
