package monitor

import (
	"sync"

	"vigil/internal/telemetry"
)

// Snapshot is an immutable copy of the latest value per channel, taken
// under a single lock acquisition. Channels never updated are absent.
type Snapshot map[telemetry.Channel]int64

// Store holds the latest sample per monitored channel. Last write wins;
// no history is retained. The lock covers only the single-field write
// or the copy-out, never evaluation.
type Store struct {
	mu     sync.Mutex
	values map[telemetry.Channel]int64
}

// NewStore creates an empty signal store
func NewStore() *Store {
	return &Store{
		values: make(map[telemetry.Channel]int64, len(telemetry.Channels())),
	}
}

// Update records the latest value for a channel. No range validation:
// out-of-range values are an evaluation concern, not a storage concern.
func (s *Store) Update(ch telemetry.Channel, value int64) {
	s.mu.Lock()
	s.values[ch] = value
	s.mu.Unlock()
}

// Snapshot copies the current value of every channel and returns the
// copy. Per-channel atomicity only; values of different channels may
// reflect different update instants.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	snap := make(Snapshot, len(s.values))
	for ch, v := range s.values {
		snap[ch] = v
	}
	s.mu.Unlock()
	return snap
}

// Value returns the latest value for a channel, if one was ever written
func (s *Store) Value(ch telemetry.Channel) (int64, bool) {
	s.mu.Lock()
	v, ok := s.values[ch]
	s.mu.Unlock()
	return v, ok
}
