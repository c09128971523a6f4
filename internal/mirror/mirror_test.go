package mirror

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"maritime-watch/internal/bus"
	"maritime-watch/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vessels.json")
	return New(path, bus.New())
}

func vessel(id string, status models.VesselStatus) models.Vessel {
	return models.Vessel{
		Id:           id,
		Status:       status,
		OperatorName: "op-" + id,
		UpdatedAt:    time.Now().UTC(),
	}
}

func TestReadAllMissingFile(t *testing.T) {
	s := testStore(t)

	got := s.ReadAll()
	if len(got) != 0 {
		t.Errorf("ReadAll() on missing file = %v, want empty", got)
	}
}

func TestReadAllCorruptFile(t *testing.T) {
	s := testStore(t)

	if err := os.WriteFile(s.Path(), []byte("not json at all{"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := s.ReadAll()
	if len(got) != 0 {
		t.Errorf("ReadAll() on corrupt file = %v, want empty", got)
	}
}

func TestUpsertLastWriteWins(t *testing.T) {
	s := testStore(t)

	seq := []models.Vessel{
		vessel("AIS-1", models.StatusSafe),
		vessel("AIS-2", models.StatusSafe),
		vessel("AIS-1", models.StatusWarning),
		vessel("AIS-3", models.StatusDanger),
		vessel("AIS-2", models.StatusDanger),
		vessel("AIS-1", models.StatusDanger),
	}
	for _, v := range seq {
		if err := s.Upsert(v); err != nil {
			t.Fatalf("Upsert(%s) failed: %v", v.Id, err)
		}
	}

	got := s.ReadAll()
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}

	want := map[string]models.VesselStatus{
		"AIS-1": models.StatusDanger,
		"AIS-2": models.StatusDanger,
		"AIS-3": models.StatusDanger,
	}
	seen := make(map[string]bool)
	for _, v := range got {
		if seen[v.Id] {
			t.Errorf("duplicate record for %s", v.Id)
		}
		seen[v.Id] = true
		if v.Status != want[v.Id] {
			t.Errorf("vessel %s status = %s, want %s", v.Id, v.Status, want[v.Id])
		}
	}
}

func TestWriteAllReadAllRoundTripIsNoop(t *testing.T) {
	s := testStore(t)

	for _, v := range []models.Vessel{vessel("AIS-1", models.StatusSafe), vessel("AIS-2", models.StatusWarning)} {
		if err := s.Upsert(v); err != nil {
			t.Fatal(err)
		}
	}

	before := s.ReadAll()
	if err := s.WriteAll(before); err != nil {
		t.Fatal(err)
	}
	after := s.ReadAll()

	if !reflect.DeepEqual(before, after) {
		t.Errorf("WriteAll(ReadAll()) changed contents:\nbefore %v\nafter  %v", before, after)
	}
}

func TestWritePublishesOnBus(t *testing.T) {
	b := bus.New()
	s := New(filepath.Join(t.TempDir(), "vessels.json"), b)

	ch, cancel := b.Subscribe()
	defer cancel()

	if err := s.Upsert(vessel("AIS-1", models.StatusSafe)); err != nil {
		t.Fatal(err)
	}

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Error("write did not publish a change signal")
	}
}

func TestStaleWriterFullListWins(t *testing.T) {
	// Two stores on the same path stand in for two processes. B takes
	// its snapshot before A's write lands, so B's later full-list write
	// erases A's change and both converge to B's state on reload.
	path := filepath.Join(t.TempDir(), "vessels.json")
	tabA := New(path, bus.New())
	tabB := New(path, bus.New())

	if err := tabA.Upsert(vessel("AIS-1", models.StatusSafe)); err != nil {
		t.Fatal(err)
	}

	snapshot := tabB.ReadAll()
	for i := range snapshot {
		if snapshot[i].Id == "AIS-1" {
			snapshot[i].Status = models.StatusDanger
		}
	}

	// A writes safe again, then B lands its stale snapshot with danger
	if err := tabA.Upsert(vessel("AIS-1", models.StatusSafe)); err != nil {
		t.Fatal(err)
	}
	if err := tabB.WriteAll(snapshot); err != nil {
		t.Fatal(err)
	}

	for name, s := range map[string]*Store{"tabA": tabA, "tabB": tabB} {
		v, ok := s.Find("AIS-1")
		if !ok {
			t.Fatalf("%s: AIS-1 missing after reload", name)
		}
		if v.Status != models.StatusDanger {
			t.Errorf("%s: status = %s, want danger (last full-list write wins)", name, v.Status)
		}
	}
}

func TestVersionChangesOnWrite(t *testing.T) {
	s := testStore(t)

	v0 := s.Version()
	if err := s.Upsert(vessel("AIS-1", models.StatusSafe)); err != nil {
		t.Fatal(err)
	}
	v1 := s.Version()

	if v0.Equal(v1) {
		t.Error("Version() unchanged after write")
	}
}
