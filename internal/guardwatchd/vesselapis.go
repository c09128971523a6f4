package guardwatchd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"maritime-watch/internal/models"
	"maritime-watch/internal/tracker"
)

// VesselExtView represents the external view of a vessel for the chart
type VesselExtView struct {
	Id           string  `json:"id"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	FixTime      int64   `json:"fix_time"`
	SpeedKnots   float64 `json:"speed_knots"`
	Heading      float64 `json:"heading"`
	Status       string  `json:"status"`
	OperatorName string  `json:"operator_name"`
	ZoneName     string  `json:"zone_name"`
	UpdatedAt    int64   `json:"updated_at"`
}

func (e *VesselExtView) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (s *GuardWatchServer) vesselExtView(v models.Vessel) *VesselExtView {
	o := &VesselExtView{
		Id:           v.Id,
		SpeedKnots:   v.SpeedKnots,
		Heading:      v.Heading,
		Status:       string(v.Status),
		OperatorName: v.OperatorName,
		UpdatedAt:    v.UpdatedAt.Unix(),
	}

	if v.HasFix() {
		o.Lat = v.Lat
		o.Lon = v.Lon
		o.FixTime = v.FixTime.Unix()
		if z, ok := s.zoneSet.Locate(v.Lat, v.Lon); ok {
			o.ZoneName = z.Name
		}
	}

	return o
}

func (s *GuardWatchServer) apiVesselRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/", s.apiVesselGetAll)
	r.Post("/", s.apiVesselRegister)
	r.Route("/{vesselid}", func(r chi.Router) {
		r.Use(s.apiVesselIdCtx)
		r.Put("/status", s.apiVesselPutStatus)
	})

	return r
}

func (s *GuardWatchServer) apiVesselIdCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "vesselid")
		if key == "" {
			err := fmt.Errorf("missing vesselid param")
			render.Render(w, r, s.httpErrInvalidRequest(err))
			return
		}

		ctx := context.WithValue(r.Context(), "vesselid", key)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *GuardWatchServer) apiVesselGetAll(w http.ResponseWriter, r *http.Request) {
	outs := []render.Renderer{}
	for _, v := range s.fleet.Vessels() {
		outs = append(outs, s.vesselExtView(v))
	}

	render.RenderList(w, r, outs)
	return
}

// VesselRegisterRequest is the registration payload from the fisherman view
type VesselRegisterRequest struct {
	Id           string `json:"id"`
	OperatorName string `json:"operator_name"`
	Contact      string `json:"contact"`
	Status       string `json:"status"`
}

func (req *VesselRegisterRequest) Bind(r *http.Request) error {
	if req.Id == "" {
		return fmt.Errorf("missing vessel id")
	}
	if req.OperatorName == "" {
		return fmt.Errorf("missing operator name")
	}
	if req.Status == "" {
		req.Status = string(models.StatusSafe)
	}
	if !models.VesselStatus(req.Status).Valid() {
		return fmt.Errorf("unknown status %s", req.Status)
	}
	return nil
}

func (s *GuardWatchServer) apiVesselRegister(w http.ResponseWriter, r *http.Request) {
	req := &VesselRegisterRequest{}
	err := render.Bind(r, req)
	if err != nil {
		render.Render(w, r, s.httpErrInvalidRequest(err))
		return
	}

	v := models.Vessel{
		Id:             req.Id,
		RegistrationId: uuid.NewString(),
		Status:         models.VesselStatus(req.Status),
		OperatorName:   req.OperatorName,
		Contact:        req.Contact,
		UpdatedAt:      time.Now().UTC(),
	}

	err = s.store.Upsert(v)
	if err != nil {
		log.Printf("apiVesselRegister: failed to write mirror (%v)", err)
		render.Render(w, r, s.httpErrUnexpected(fmt.Errorf("failed to store registration")))
		return
	}

	s.pushRemote(v)

	render.Status(r, http.StatusCreated)
	render.Render(w, r, s.vesselExtView(v))
	return
}

// VesselStatusRequest sets the safety status of one vessel
type VesselStatusRequest struct {
	Status string `json:"status"`
}

func (req *VesselStatusRequest) Bind(r *http.Request) error {
	if !models.VesselStatus(req.Status).Valid() {
		return fmt.Errorf("unknown status %s", req.Status)
	}
	return nil
}

func (s *GuardWatchServer) apiVesselPutStatus(w http.ResponseWriter, r *http.Request) {
	vesselId := getCtxValueString(r.Context(), "vesselid")

	req := &VesselStatusRequest{}
	err := render.Bind(r, req)
	if err != nil {
		render.Render(w, r, s.httpErrInvalidRequest(err))
		return
	}

	v, ok := s.store.Find(vesselId)
	if !ok {
		render.Render(w, r, s.httpErrNotFound(fmt.Errorf("vessel %s not registered", vesselId)))
		return
	}

	v.Status = models.VesselStatus(req.Status)
	v.UpdatedAt = time.Now().UTC()

	err = s.store.Upsert(v)
	if err != nil {
		log.Printf("apiVesselPutStatus: failed to write mirror (%v)", err)
		render.Render(w, r, s.httpErrUnexpected(fmt.Errorf("failed to store status")))
		return
	}

	s.pushRemote(v)

	render.Render(w, r, s.vesselExtView(v))
	return
}

// pushRemote mirrors one vessel to the hosted store, best effort
func (s *GuardWatchServer) pushRemote(v models.Vessel) {
	s.pusher.Profile(models.ProfileDoc{
		VesselId:     v.Id,
		OperatorName: v.OperatorName,
		Contact:      v.Contact,
		UpdatedAt:    v.UpdatedAt,
	})
	s.pusher.VesselState(models.VesselStateDoc{
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

// ZoneExtView represents the external view of a zone for the chart
type ZoneExtView struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	RadiusM float64 `json:"radius_m"`
	Color   string  `json:"color"`
	Count   int64   `json:"count"`
}

func (e *ZoneExtView) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (s *GuardWatchServer) apiZoneRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/", s.apiZoneGetAll)

	return r
}

func (s *GuardWatchServer) apiZoneGetAll(w http.ResponseWriter, r *http.Request) {
	vessels := s.fleet.Vessels()

	outs := []render.Renderer{}
	for _, z := range s.zoneSet.All() {
		o := &ZoneExtView{
			Name:    z.Name,
			Lat:     z.Lat,
			Lon:     z.Lon,
			RadiusM: z.RadiusM,
			Color:   z.Color,
			Count:   s.zoneSet.Count(z.Name, vessels),
		}

		outs = append(outs, o)
	}

	render.RenderList(w, r, outs)
	return
}

// GuardExtView represents the coast guard unit and its tracker state
type GuardExtView struct {
	Id              string  `json:"id"`
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
	FixTime         int64   `json:"fix_time"`
	SpeedKnots      float64 `json:"speed_knots"`
	Heading         float64 `json:"heading"`
	TrackingEnabled bool    `json:"tracking_enabled"`
	TrackerState    string  `json:"tracker_state"`
	UpdatedAt       int64   `json:"updated_at"`
}

func (e *GuardExtView) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (s *GuardWatchServer) guardExtView() *GuardExtView {
	g := s.guardSnapshot()

	o := &GuardExtView{
		Id:              g.Id,
		SpeedKnots:      g.SpeedKnots,
		Heading:         g.Heading,
		TrackingEnabled: g.TrackingEnabled,
		TrackerState:    string(s.guardTracker.State()),
		UpdatedAt:       g.UpdatedAt.Unix(),
	}
	if !g.FixTime.IsZero() {
		o.Lat = g.Lat
		o.Lon = g.Lon
		o.FixTime = g.FixTime.Unix()
	}

	return o
}

func (s *GuardWatchServer) apiGuardRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/", s.apiGuardGet)
	r.Post("/tracking", s.apiGuardPostTracking)
	r.Post("/retry", s.apiGuardPostRetry)

	return r
}

func (s *GuardWatchServer) apiGuardGet(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, s.guardExtView())
	return
}

// GuardTrackingRequest toggles continuous tracking for the guard unit
type GuardTrackingRequest struct {
	Enabled *bool `json:"enabled"`
}

func (req *GuardTrackingRequest) Bind(r *http.Request) error {
	if req.Enabled == nil {
		return fmt.Errorf("missing enabled flag")
	}
	return nil
}

func (s *GuardWatchServer) apiGuardPostTracking(w http.ResponseWriter, r *http.Request) {
	req := &GuardTrackingRequest{}
	err := render.Bind(r, req)
	if err != nil {
		render.Render(w, r, s.httpErrInvalidRequest(err))
		return
	}

	s.setTracking(*req.Enabled)

	render.Render(w, r, s.guardExtView())
	return
}

// apiGuardPostRetry is the user-initiated retry out of a terminal tracker
// error state
func (s *GuardWatchServer) apiGuardPostRetry(w http.ResponseWriter, r *http.Request) {
	switch s.guardTracker.State() {
	case tracker.StateDenied, tracker.StateUnavailable, tracker.StateTimeout:
		s.guardTracker.Retry(context.Background())
	default:
		render.Render(w, r, s.httpErrInvalidRequest(fmt.Errorf("tracker is not in an error state")))
		return
	}

	render.Render(w, r, s.guardExtView())
	return
}
