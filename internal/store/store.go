// Package store keeps a bounded in-memory history of readings for the
// plots and history endpoints.
package store

import (
	"sync"

	"grovepi-hub/pkg/types"
)

// ReadingStore holds the most recent readings with thread safety.
type ReadingStore struct {
	mu       sync.RWMutex //N readers, 1 writer at a time
	readings []types.SensorReading
	limit    int //maximum number of readings to keep
}

// ReadingStoreFactory creates a store with the specified size limit.
func ReadingStoreFactory(limit int) *ReadingStore {
	return &ReadingStore{
		readings: make([]types.SensorReading, 0, limit),
		limit:    limit,
	}
}

// Add appends a reading, dropping the oldest once over the limit (FIFO).
func (s *ReadingStore) Add(reading types.SensorReading) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.readings = append(s.readings, reading)
	if len(s.readings) > s.limit {
		s.readings = s.readings[len(s.readings)-s.limit:]
	}
}

// Latest returns the most recent reading, or false when none exist yet.
func (s *ReadingStore) Latest() (types.SensorReading, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.readings) == 0 {
		return types.SensorReading{}, false
	}
	return s.readings[len(s.readings)-1], true
}

// Recent returns up to n of the newest readings, oldest first.
func (s *ReadingStore) Recent(n int) []types.SensorReading {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n > len(s.readings) {
		n = len(s.readings)
	}
	//copy to avoid races on the backing array
	out := make([]types.SensorReading, n)
	copy(out, s.readings[len(s.readings)-n:])
	return out
}

// Len returns the number of stored readings.
func (s *ReadingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.readings)
}
