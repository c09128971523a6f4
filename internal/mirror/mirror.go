// Package mirror implements the local durable vessel store: one JSON file
// holding the full list of registered vessels, read and written wholesale.
// The file is the source of truth for "who is registered" on this host and
// is shared by every process pointed at the same path. There is no locking
// across processes; the last full-list write wins.
package mirror

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"maritime-watch/internal/bus"
	"maritime-watch/internal/models"
)

// Version identifies one observed state of the mirror file. The cross-process
// watcher compares versions to detect writes made by other processes.
type Version struct {
	ModTime time.Time
	Size    int64
}

// Equal reports whether two observed versions match
func (v Version) Equal(o Version) bool {
	return v.ModTime.Equal(o.ModTime) && v.Size == o.Size
}

type Store struct {
	path string
	bus  *bus.Bus
	mu   sync.Mutex
}

// New creates a store over the given file path. The file itself is created
// lazily on first write. Every successful write is announced on b.
func New(path string, b *bus.Bus) *Store {
	return &Store{
		path: path,
		bus:  b,
	}
}

// ReadAll returns every registered vessel. A missing file yields an empty
// list; so does a corrupt one, which is logged and otherwise ignored so
// that a damaged mirror degrades a view instead of crashing it.
func (s *Store) ReadAll() []models.Vessel {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readLocked()
}

func (s *Store) readLocked() []models.Vessel {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("mirror: failed to read %s (%v)", s.path, err)
		}
		return []models.Vessel{}
	}

	vessels := make([]models.Vessel, 0)
	err = json.Unmarshal(data, &vessels)
	if err != nil {
		log.Printf("mirror: corrupt data in %s, treating as empty (%v)", s.path, err)
		return []models.Vessel{}
	}

	return vessels
}

// WriteAll overwrites the full vessel list unconditionally. The caller is
// responsible for having merged in-memory state first; there is no
// concurrency check. The write is temp-file-and-rename so that readers
// never observe a partially written list.
func (s *Store) WriteAll(vessels []models.Vessel) error {
	s.mu.Lock()
	err := s.writeLocked(vessels)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.bus.Publish()
	return nil
}

func (s *Store) writeLocked(vessels []models.Vessel) error {
	data, err := json.Marshal(vessels)
	if err != nil {
		return fmt.Errorf("failed to serialize vessel list: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".vessels-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	_, err = tmp.Write(data)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	err = tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	err = os.Rename(tmp.Name(), s.path)
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}

	return nil
}

// Upsert replaces the record whose Id matches v, or appends it if absent,
// then writes the full list back. Read-then-write without a transaction:
// two processes upserting in the same instant race, and the later full-list
// write wins. That is the accepted consistency model, not a bug.
func (s *Store) Upsert(v models.Vessel) error {
	s.mu.Lock()
	vessels := s.readLocked()

	replaced := false
	for i := range vessels {
		if vessels[i].Id == v.Id {
			vessels[i] = v
			replaced = true
			break
		}
	}
	if !replaced {
		vessels = append(vessels, v)
	}

	err := s.writeLocked(vessels)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.bus.Publish()
	return nil
}

// Find returns the record with the given Id, if present
func (s *Store) Find(id string) (models.Vessel, bool) {
	for _, v := range s.ReadAll() {
		if v.Id == id {
			return v, true
		}
	}
	return models.Vessel{}, false
}

// Version returns the current file version. A missing file reports the
// zero Version, which still compares unequal to any post-write version.
func (s *Store) Version() Version {
	fi, err := os.Stat(s.path)
	if err != nil {
		return Version{}
	}

	return Version{
		ModTime: fi.ModTime(),
		Size:    fi.Size(),
	}
}

// Path returns the mirror file path
func (s *Store) Path() string {
	return s.path
}
