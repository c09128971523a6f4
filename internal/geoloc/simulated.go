package geoloc

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"
)

// SimProvider generates a drifting track from a starting coordinate. It
// backs the fisherman simulator and any deployment without a live feed.
type SimProvider struct {
	StartLat float64
	StartLon float64
	// SpeedMs is the cruising speed of the simulated track
	SpeedMs  float64
	Interval time.Duration
	Seed     int64

	mu      sync.Mutex
	lat     float64
	lon     float64
	heading float64
	rng     *rand.Rand
	started bool
}

const earthRadiusM = 6371000.0

func (p *SimProvider) init() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return
	}
	p.started = true
	p.lat = p.StartLat
	p.lon = p.StartLon

	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	p.rng = rand.New(rand.NewSource(seed))
	p.heading = p.rng.Float64() * 360
}

// step advances the simulated position by dt at the configured speed,
// wandering the heading a few degrees per step
func (p *SimProvider) step(dt time.Duration) Sample {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.heading += (p.rng.Float64() - 0.5) * 10
	p.heading = math.Mod(p.heading+360, 360)

	dist := p.SpeedMs * dt.Seconds()
	dLat := dist * math.Cos(p.heading*math.Pi/180) / earthRadiusM * 180 / math.Pi
	dLon := dist * math.Sin(p.heading*math.Pi/180) / (earthRadiusM * math.Cos(p.lat*math.Pi/180)) * 180 / math.Pi
	p.lat += dLat
	p.lon += dLon

	return Sample{
		Lat:        p.lat,
		Lon:        p.lon,
		SpeedMs:    p.SpeedMs,
		HasSpeed:   true,
		Heading:    p.heading,
		HasHeading: true,
		FixTime:    time.Now().UTC(),
		AccuracyM:  5,
	}
}

func (p *SimProvider) Watch(opts WatchOptions, onSample func(Sample), onErr func(error)) (stop func()) {
	p.init()

	interval := p.Interval
	if interval <= 0 {
		interval = time.Second
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		onSample(p.step(interval))
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				onSample(p.step(interval))
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
		})
	}
}

func (p *SimProvider) Current(ctx context.Context, opts WatchOptions) (Sample, error) {
	p.init()
	return p.step(0), nil
}
