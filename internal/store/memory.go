package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/weatherdeck/weatherdeck/internal/weather"
)

// ErrNotFound is returned when no fresh snapshot exists for a city.
var ErrNotFound = errors.New("no snapshot for city")

type entry struct {
	snapshot *weather.Snapshot
	storedAt time.Time
}

// MemoryStore is a concurrency-safe per-city snapshot cache. Snapshots are
// immutable, so readers can share the stored pointer.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]entry
	maxAge time.Duration
}

// NewMemoryStore creates a cache whose entries go stale after maxAge.
// maxAge <= 0 means entries never expire.
func NewMemoryStore(maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:   make(map[string]entry),
		maxAge: maxAge,
	}
}

// key normalizes a city name so "Bengaluru" and "bengaluru" share an entry.
func key(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// Save stores a snapshot under the city it was requested for. Keying by the
// requested city means a superseded fetch can never overwrite another
// city's entry.
func (s *MemoryStore) Save(city string, snap *weather.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key(city)] = entry{snapshot: snap, storedAt: time.Now()}
}

// GetFresh returns the cached snapshot for a city, or ErrNotFound when it is
// absent or stale.
func (s *MemoryStore) GetFresh(city string) (*weather.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key(city)]
	if !ok {
		return nil, ErrNotFound
	}
	if s.maxAge > 0 && time.Since(e.storedAt) > s.maxAge {
		return nil, ErrNotFound
	}
	return e.snapshot, nil
}
