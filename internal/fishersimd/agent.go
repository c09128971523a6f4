package fishersimd

import (
	"context"
	"log"
	"sync"
	"time"

	"maritime-watch/internal/geoloc"
	"maritime-watch/internal/mirror"
	"maritime-watch/internal/models"
	"maritime-watch/internal/remote"
	"maritime-watch/internal/tracker"
)

// Agent keeps one vessel's mirror record current. All agents in the
// process share a single source subscription under the hood.
type Agent struct {
	Id       int
	VesselId string
	Store    *mirror.Store
	Source   *geoloc.Source
	Pusher   *remote.Pusher
	Debug    bool

	tracker *tracker.Tracker
	wg      *sync.WaitGroup
}

// applySample folds one sample into the vessel's current mirror record.
// The record is re-read on every sample so that status changes made by
// the guard view in the meantime are carried forward, not clobbered;
// the read-then-write itself remains last-write-wins.
func (a *Agent) applySample(s geoloc.Sample) {
	v, ok := a.Store.Find(a.VesselId)
	if !ok {
		log.Printf("agent#%d: vessel %s vanished from mirror, skipping sample", a.Id, a.VesselId)
		return
	}

	tracker.FoldVessel(&v, s, time.Now().UTC())

	err := a.Store.Upsert(v)
	if err != nil {
		log.Printf("agent#%d: failed to write mirror (%v)", a.Id, err)
		return
	}

	if a.Debug {
		log.Printf("agent#%d: %s at %.5f,%.5f %.1fkn hdg %.0f",
			a.Id, a.VesselId, v.Lat, v.Lon, v.SpeedKnots, v.Heading)
	}

	a.Pusher.VesselState(models.VesselStateDoc{
		VesselId:   v.Id,
		Lat:        v.Lat,
		Lon:        v.Lon,
		FixTime:    v.FixTime,
		SpeedKnots: v.SpeedKnots,
		Heading:    v.Heading,
		Status:     string(v.Status),
		UpdatedAt:  v.UpdatedAt,
	})
}

func (a *Agent) finish() {
	if a.tracker != nil {
		a.tracker.Disable()
	}

	if a.wg != nil {
		a.wg.Done()
	}

	log.Printf("agent#%d: finished process thread", a.Id)

	return
}

func (a *Agent) Run(wg *sync.WaitGroup, killSig chan struct{}) error {
	log.Printf("agent#%d: start vessel agent thread (vessel %s)", a.Id, a.VesselId)

	// init
	a.tracker = tracker.New(a.Source, a.applySample)
	a.wg = wg

	// start
	wg.Add(1)
	defer a.finish()

	a.tracker.Enable(context.Background())
	<-killSig

	return nil
}
