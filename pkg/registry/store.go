package registry

import "sync/atomic"

// Store publishes registry snapshots. One writer publishes, any number of
// readers load; neither blocks the other.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore returns a store holding snap, or an empty snapshot if snap is nil.
func NewStore(snap *Snapshot) *Store {
	s := &Store{}
	if snap == nil {
		snap = Empty()
	}
	s.current.Store(snap)
	return s
}

// Load returns the current snapshot.
func (s *Store) Load() *Snapshot {
	if snap := s.current.Load(); snap != nil {
		return snap
	}
	return Empty()
}

// Publish replaces the current snapshot and returns the previous one.
// snap must be fully built.
func (s *Store) Publish(snap *Snapshot) *Snapshot {
	return s.current.Swap(snap)
}
