package remote

import (
	"context"
	"log"

	"golang.org/x/time/rate"

	"maritime-watch/internal/models"
)

type job struct {
	id   string
	push func(ctx context.Context) error
}

// Pusher decouples local mutations from hosted-store writes. Jobs go
// through a bounded queue and a token-bucket throttle; a full queue drops
// the job with a log line, and a failed write is logged and never retried.
type Pusher struct {
	mirror  Mirror
	limiter *rate.Limiter
	queue   chan job
	cancel  context.CancelFunc
	done    chan struct{}
}

const defaultQueueDepth = 256

// NewPusher starts the push loop. writesPerSec <= 0 means unthrottled.
func NewPusher(m Mirror, writesPerSec float64, burst int) *Pusher {
	limit := rate.Inf
	if writesPerSec > 0 {
		limit = rate.Limit(writesPerSec)
	}
	if burst < 1 {
		burst = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pusher{
		mirror:  m,
		limiter: rate.NewLimiter(limit, burst),
		queue:   make(chan job, defaultQueueDepth),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go p.run(ctx)
	return p
}

func (p *Pusher) run(ctx context.Context) {
	defer close(p.done)

	for {
		select {
		case <-ctx.Done():
			return
		case j := <-p.queue:
			err := p.limiter.Wait(ctx)
			if err != nil {
				return
			}

			err = j.push(ctx)
			if err != nil {
				log.Printf("remote: push %s failed, dropping (%v)", j.id, err)
			}
		}
	}
}

func (p *Pusher) enqueue(j job) {
	select {
	case p.queue <- j:
	default:
		log.Printf("remote: push queue full, dropping %s", j.id)
	}
}

// Profile schedules an operator profile push. Fire and forget.
func (p *Pusher) Profile(doc models.ProfileDoc) {
	p.enqueue(job{
		id:   "profile " + doc.VesselId,
		push: func(ctx context.Context) error {
			return p.mirror.PutProfile(ctx, doc)
		},
	})
}

// VesselState schedules a vessel state push. Fire and forget.
func (p *Pusher) VesselState(doc models.VesselStateDoc) {
	p.enqueue(job{
		id:   "vessel state " + doc.VesselId,
		push: func(ctx context.Context) error {
			return p.mirror.PutVesselState(ctx, doc)
		},
	})
}

// Close stops the push loop. Queued jobs that have not started are
// abandoned; the hosted store is a mirror, not a source of truth.
func (p *Pusher) Close() {
	p.cancel()
	<-p.done
	if err := p.mirror.Close(); err != nil {
		log.Printf("remote: close failed (%v)", err)
	}
}
