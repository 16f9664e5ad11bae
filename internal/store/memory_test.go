package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/weatherdeck/weatherdeck/internal/weather"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	snap := &weather.Snapshot{CityName: "Bengaluru", DataOrigin: weather.OriginBackend}

	s.Save("Bengaluru", snap)

	got, err := s.GetFresh("bengaluru")
	require.NoError(t, err)
	require.Same(t, snap, got)
}

func TestMemoryStoreMiss(t *testing.T) {
	s := NewMemoryStore(time.Minute)

	_, err := s.GetFresh("Mysuru")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreStaleEntry(t *testing.T) {
	s := NewMemoryStore(time.Nanosecond)
	s.Save("Bengaluru", &weather.Snapshot{CityName: "Bengaluru"})

	time.Sleep(time.Millisecond)

	_, err := s.GetFresh("Bengaluru")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreKeysByRequestedCity(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	s.Save("Bengaluru", &weather.Snapshot{CityName: "Bengaluru"})
	s.Save("Mysuru", &weather.Snapshot{CityName: "Mysuru"})

	got, err := s.GetFresh("Bengaluru")
	require.NoError(t, err)
	require.Equal(t, "Bengaluru", got.CityName)
}
