package leaderboard

import (
	"sync/atomic"
	"time"
)

// Snapshot is the complete leaderboard produced by one successful refresh.
type Snapshot struct {
	Entries   []Entry
	Window    DateWindow
	UpdatedAt time.Time
}

// IsEmpty reports whether no refresh has ever succeeded.
func (s Snapshot) IsEmpty() bool {
	return s.UpdatedAt.IsZero()
}

// Store holds the latest snapshot. A single writer replaces it wholesale,
// readers never block and never see a partially built snapshot.
type Store struct {
	current atomic.Pointer[Snapshot]
}

func NewStore() *Store {
	s := &Store{}
	s.current.Store(&Snapshot{Entries: []Entry{}})
	return s
}

func (s *Store) Get() Snapshot {
	return *s.current.Load()
}

// Set replaces the snapshot. Entries are copied so later changes to the
// caller's slice are not observed by readers.
func (s *Store) Set(snapshot Snapshot) {
	entries := make([]Entry, len(snapshot.Entries))
	copy(entries, snapshot.Entries)
	snapshot.Entries = entries
	s.current.Store(&snapshot)
}
