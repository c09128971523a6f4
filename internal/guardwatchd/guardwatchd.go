package guardwatchd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"maritime-watch/internal/bus"
	"maritime-watch/internal/fleet"
	"maritime-watch/internal/geoloc"
	"maritime-watch/internal/mirror"
	"maritime-watch/internal/models"
	"maritime-watch/internal/remote"
	"maritime-watch/internal/tracker"
	"maritime-watch/internal/zones"
)

// GuardWatchServer is the coast guard daemon: one session owning the
// fleet synchronization loop, the guard position tracker, and the
// chart-facing HTTP API.
type GuardWatchServer struct {
	cfg Config

	bus     *bus.Bus
	store   *mirror.Store
	zoneSet *zones.Set
	pusher  *remote.Pusher
	source  *geoloc.Source
	session *fleet.Session
	fleet   *fleet.Fleet

	guardMu      sync.Mutex
	guard        models.GuardVessel
	guardTracker *tracker.Tracker
}

func getProvider(cfg Config) (geoloc.Provider, error) {
	switch cfg.Location.Provider {
	case "nmea":
		if cfg.Location.Nmea.Addr == "" {
			return nil, fmt.Errorf("missing nmea feed address")
		}
		return &geoloc.NmeaProvider{
			Addr:  cfg.Location.Nmea.Addr,
			Debug: cfg.Location.Nmea.Debug,
		}, nil

	case "simulated", "":
		interval := time.Duration(cfg.Location.Sim.IntervalMs) * time.Millisecond
		return &geoloc.SimProvider{
			StartLat: cfg.Location.Sim.Lat,
			StartLon: cfg.Location.Sim.Lon,
			SpeedMs:  cfg.Location.Sim.SpeedMs,
			Interval: interval,
		}, nil

	default:
		return nil, fmt.Errorf("unknown location provider %s", cfg.Location.Provider)
	}
}

func New(cfg Config) (*GuardWatchServer, error) {
	// Base Initialization
	s := &GuardWatchServer{
		cfg: cfg,
		bus: bus.New(),
	}

	if cfg.Mirror.Path == "" {
		return nil, fmt.Errorf("missing mirror path")
	}
	s.store = mirror.New(cfg.Mirror.Path, s.bus)

	zoneDefs := make([]models.Zone, 0, len(cfg.Zones))
	for _, z := range cfg.Zones {
		zoneDefs = append(zoneDefs, models.Zone{
			Name:    z.Name,
			Lat:     z.Lat,
			Lon:     z.Lon,
			RadiusM: z.RadiusM,
			Color:   z.Color,
		})
	}
	s.zoneSet = zones.NewSet(zoneDefs)

	// Hosted store mirror
	rm, err := remote.Open(cfg.Remote)
	if err != nil {
		return nil, err
	}
	s.pusher = remote.NewPusher(rm, cfg.Remote.WritesPerSec, cfg.Remote.Burst)

	// Position source, shared by every tracker in this process
	provider, err := getProvider(cfg)
	if err != nil {
		return nil, err
	}
	s.source = geoloc.NewSource(provider, geoloc.ContinuousOptions())

	// Coast guard session: fresh identifier, nothing persisted
	s.session = fleet.NewSession()
	s.fleet = fleet.New(s.store)
	s.guard = models.GuardVessel{
		Id:        s.session.Id,
		UpdatedAt: time.Now().UTC(),
	}
	s.guardTracker = tracker.New(s.source, s.applyGuardSample)
	s.session.OnClose(s.guardTracker.Disable)

	return s, nil
}

// applyGuardSample folds one sample into the session's guard record. The
// guard record never touches the mirror.
func (s *GuardWatchServer) applyGuardSample(sample geoloc.Sample) {
	s.guardMu.Lock()
	defer s.guardMu.Unlock()

	tracker.FoldGuard(&s.guard, sample, time.Now().UTC())
}

func (s *GuardWatchServer) guardSnapshot() models.GuardVessel {
	s.guardMu.Lock()
	defer s.guardMu.Unlock()
	return s.guard
}

func (s *GuardWatchServer) setTracking(enabled bool) {
	s.guardMu.Lock()
	s.guard.TrackingEnabled = enabled
	s.guard.UpdatedAt = time.Now().UTC()
	s.guardMu.Unlock()

	if enabled {
		s.guardTracker.Enable(context.Background())
	} else {
		s.guardTracker.Disable()
	}
}

func (s *GuardWatchServer) router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	if s.cfg.Http.BasicAuth {
		userdb := make(map[string]string)
		for _, v := range s.cfg.Http.Users {
			userdb[v.User] = v.Password
		}
		r.Use(middleware.BasicAuth(s.cfg.Http.ServerName, userdb))
	}

	r.Route("/vessel", func(r chi.Router) {
		r.Mount("/", s.apiVesselRouter())
	})

	r.Route("/zone", func(r chi.Router) {
		r.Mount("/", s.apiZoneRouter())
	})

	r.Route("/guard", func(r chi.Router) {
		r.Mount("/", s.apiGuardRouter())
	})

	return r
}

func (s *GuardWatchServer) Run() error {
	s.session.StartSync(s.fleet, s.store, s.bus)
	log.Printf("guard session %s started (mirror %s)", s.session.Id, s.store.Path())

	srv := &http.Server{
		Addr:    s.cfg.Http.Listen,
		Handler: s.router(),
	}

	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait until we get a kill signal, then release the whole session
	killSig := make(chan os.Signal, 1)
	signal.Notify(killSig, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	<-killSig

	log.Printf("Caught kill signal, shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(ctx)
	if err != nil {
		log.Printf("HTTP shutdown failed (%v)", err)
	}

	s.session.Close()
	s.pusher.Close()

	log.Printf("All threads exited")
	return nil
}
