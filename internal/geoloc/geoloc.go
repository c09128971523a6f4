// Package geoloc provides position acquisition for trackers: a Provider
// abstraction over the underlying location subsystem and a shared Source
// that fans one continuous watch out to any number of subscribers.
package geoloc

import (
	"context"
	"errors"
	"time"
)

// Speed conversion between the SI speeds providers report and the knots
// vessels are displayed in.
const MetersPerSecondToKnots = 1.94384

var (
	ErrPermissionDenied = errors.New("geoloc: permission denied")
	ErrUnavailable      = errors.New("geoloc: position unavailable")
	ErrTimeout          = errors.New("geoloc: request timed out")
)

// Sample is one position reading. Speeds are meters per second; HasSpeed
// and HasHeading are false when the underlying subsystem reported nothing
// for the field.
type Sample struct {
	Lat        float64
	Lon        float64
	SpeedMs    float64
	HasSpeed   bool
	Heading    float64
	HasHeading bool
	FixTime    time.Time
	AccuracyM  float64
}

// WatchOptions tune an acquisition request
type WatchOptions struct {
	HighAccuracy bool
	// MaxStale is how old a cached fix may be and still be delivered
	MaxStale time.Duration
	Timeout  time.Duration
}

// ContinuousOptions returns the options used for the shared watch: high
// accuracy, a generous staleness tolerance, and a timeout sized for
// outdoor GPS acquisition.
func ContinuousOptions() WatchOptions {
	return WatchOptions{
		HighAccuracy: true,
		MaxStale:     3 * time.Second,
		Timeout:      30 * time.Second,
	}
}

// OneShotOptions returns the options used for the initial fast fix: high
// accuracy, no cached fixes, short timeout.
func OneShotOptions() WatchOptions {
	return WatchOptions{
		HighAccuracy: true,
		MaxStale:     0,
		Timeout:      10 * time.Second,
	}
}

// Provider is the underlying location subsystem. Watch opens a continuous
// acquisition and delivers every sample and every error through the given
// callbacks until the returned stop function is called. Current performs
// one independent fix.
type Provider interface {
	Watch(opts WatchOptions, onSample func(Sample), onErr func(error)) (stop func())
	Current(ctx context.Context, opts WatchOptions) (Sample, error)
}
