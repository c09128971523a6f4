package guardwatchd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"maritime-watch/internal/models"
)

func testServer(t *testing.T) *GuardWatchServer {
	t.Helper()

	cfg := Config{}
	cfg.Mirror.Path = filepath.Join(t.TempDir(), "vessels.json")
	cfg.Location.Provider = "simulated"
	cfg.Remote.Driver = "none"
	cfg.Zones = []ZoneConfig{
		{Name: "harbor", Lat: 60.16, Lon: 24.95, RadiusM: 2000, Color: "#00aa00"},
	}

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(s.session.Close)
	t.Cleanup(s.pusher.Close)

	return s
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRegisterAndList(t *testing.T) {
	s := testServer(t)
	h := s.router()

	w := doJSON(t, h, http.MethodPost, "/vessel", map[string]string{
		"id":            "AIS-1",
		"operator_name": "A. Fisher",
		"contact":       "+358 40 123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want 201 (%s)", w.Code, w.Body.String())
	}

	// the same-tab write is visible after the view's next reload
	s.fleet.Reload()

	w = doJSON(t, h, http.MethodGet, "/vessel", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", w.Code)
	}

	var got []VesselExtView
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Id != "AIS-1" || got[0].Status != "safe" {
		t.Errorf("list = %+v, want one safe AIS-1", got)
	}
}

func TestRegisterRejectsBadStatus(t *testing.T) {
	s := testServer(t)
	h := s.router()

	w := doJSON(t, h, http.MethodPost, "/vessel", map[string]string{
		"id":            "AIS-1",
		"operator_name": "A. Fisher",
		"status":        "sinking",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("register with unknown status = %d, want 400", w.Code)
	}
}

func TestPutStatusUnknownVessel(t *testing.T) {
	s := testServer(t)
	h := s.router()

	w := doJSON(t, h, http.MethodPut, "/vessel/AIS-404/status", map[string]string{"status": "danger"})
	if w.Code != http.StatusNotFound {
		t.Errorf("status on unknown vessel = %d, want 404", w.Code)
	}
}

func TestPutStatusUpdatesMirror(t *testing.T) {
	s := testServer(t)
	h := s.router()

	doJSON(t, h, http.MethodPost, "/vessel", map[string]string{
		"id":            "AIS-1",
		"operator_name": "A. Fisher",
	})

	w := doJSON(t, h, http.MethodPut, "/vessel/AIS-1/status", map[string]string{"status": "danger"})
	if w.Code != http.StatusOK {
		t.Fatalf("put status = %d, want 200 (%s)", w.Code, w.Body.String())
	}

	v, ok := s.store.Find("AIS-1")
	if !ok || v.Status != models.StatusDanger {
		t.Errorf("mirror record = %+v, want status danger", v)
	}
}

func TestZoneCounts(t *testing.T) {
	s := testServer(t)
	h := s.router()

	w := doJSON(t, h, http.MethodGet, "/zone", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("zone list status = %d, want 200", w.Code)
	}

	var got []ZoneExtView
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "harbor" || got[0].Count != 0 {
		t.Errorf("zones = %+v, want empty harbor zone", got)
	}
}

func TestGuardTrackingToggle(t *testing.T) {
	s := testServer(t)
	h := s.router()

	w := doJSON(t, h, http.MethodGet, "/guard", nil)
	var g GuardExtView
	if err := json.Unmarshal(w.Body.Bytes(), &g); err != nil {
		t.Fatal(err)
	}
	if g.TrackingEnabled || g.Id == "" {
		t.Fatalf("fresh guard = %+v, want disabled with session id", g)
	}

	w = doJSON(t, h, http.MethodPost, "/guard/tracking", map[string]bool{"enabled": true})
	if w.Code != http.StatusOK {
		t.Fatalf("enable tracking = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &g); err != nil {
		t.Fatal(err)
	}
	if !g.TrackingEnabled {
		t.Error("tracking not enabled")
	}

	w = doJSON(t, h, http.MethodPost, "/guard/tracking", map[string]bool{"enabled": false})
	if err := json.Unmarshal(w.Body.Bytes(), &g); err != nil {
		t.Fatal(err)
	}
	if g.TrackingEnabled {
		t.Error("tracking not disabled")
	}
}

func TestGuardRetryOutsideErrorState(t *testing.T) {
	s := testServer(t)
	h := s.router()

	w := doJSON(t, h, http.MethodPost, "/guard/retry", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("retry in idle state = %d, want 400", w.Code)
	}
}
