// Package fishersimd runs the fisherman role: it registers its vessels in
// the shared mirror and keeps their positions current from one shared
// location source. Run beside guardwatchd on the same mirror path, the
// two processes converge through the mirror's change signals and the
// periodic poll.
package fishersimd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"maritime-watch/internal/bus"
	"maritime-watch/internal/fleet"
	"maritime-watch/internal/geoloc"
	"maritime-watch/internal/mirror"
	"maritime-watch/internal/models"
	"maritime-watch/internal/remote"
)

type FisherSim struct {
	cfg Config

	bus     *bus.Bus
	store   *mirror.Store
	pusher  *remote.Pusher
	source  *geoloc.Source
	session *fleet.Session
	fleet   *fleet.Fleet
	agents  []*Agent
	wg      *sync.WaitGroup
}

func New(cfg Config) (*FisherSim, error) {
	// Base Initialization
	s := &FisherSim{
		cfg:    cfg,
		bus:    bus.New(),
		agents: make([]*Agent, 0),
		wg:     &sync.WaitGroup{},
	}

	if cfg.Mirror.Path == "" {
		return nil, fmt.Errorf("missing mirror path")
	}
	if len(cfg.Vessels) == 0 {
		return nil, fmt.Errorf("no vessels configured")
	}
	s.store = mirror.New(cfg.Mirror.Path, s.bus)

	// Hosted store mirror
	rm, err := remote.Open(cfg.Remote)
	if err != nil {
		return nil, err
	}
	s.pusher = remote.NewPusher(rm, cfg.Remote.WritesPerSec, cfg.Remote.Burst)

	// One shared source for every vessel agent in this process; agents
	// subscribe to it instead of opening their own watches
	interval := time.Duration(cfg.Location.IntervalMs) * time.Millisecond
	provider := &geoloc.SimProvider{
		StartLat: cfg.Location.Lat,
		StartLon: cfg.Location.Lon,
		SpeedMs:  cfg.Location.SpeedMs,
		Interval: interval,
	}
	s.source = geoloc.NewSource(provider, geoloc.ContinuousOptions())

	// This view runs the same synchronization loop as the guard view
	s.session = fleet.NewSession()
	s.fleet = fleet.New(s.store)

	// Vessel registration: upsert into the mirror, push profile remote
	for id, v := range cfg.Vessels {
		rec := models.Vessel{
			Id:             v.Id,
			RegistrationId: uuid.NewString(),
			Status:         models.StatusSafe,
			OperatorName:   v.OperatorName,
			Contact:        v.Contact,
			UpdatedAt:      time.Now().UTC(),
		}

		err = s.store.Upsert(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to register vessel %s: %w", v.Id, err)
		}

		s.pusher.Profile(models.ProfileDoc{
			VesselId:     rec.Id,
			OperatorName: rec.OperatorName,
			Contact:      rec.Contact,
			UpdatedAt:    rec.UpdatedAt,
		})

		agent := &Agent{
			Id:       id,
			VesselId: v.Id,
			Store:    s.store,
			Source:   s.source,
			Pusher:   s.pusher,
			Debug:    cfg.Location.Debug,
		}

		s.agents = append(s.agents, agent)
	}

	return s, nil
}

func (s *FisherSim) Run() error {
	s.session.StartSync(s.fleet, s.store, s.bus)
	log.Printf("fisher session %s started (mirror %s, %d vessels)",
		s.session.Id, s.store.Path(), len(s.agents))

	var shutdownSigs []chan struct{}
	// Launch
	for _, agent := range s.agents {
		agentShutdownSig := make(chan struct{}, 1)
		shutdownSigs = append(shutdownSigs, agentShutdownSig)
		go agent.Run(s.wg, agentShutdownSig)
	}

	// Main thread to wait until we get a kill signal or something go wrong
	killSig := make(chan os.Signal, 1)
	signal.Notify(killSig, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	<-killSig

	log.Printf("Caught kill signal, shutting down")
	for _, sig := range shutdownSigs {
		close(sig)
	}
	s.wg.Wait()

	s.session.Close()
	s.pusher.Close()

	log.Printf("All threads exited")

	return nil
}
