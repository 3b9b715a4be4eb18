// Package session keeps a process-local, time-bounded cache of recent
// conversation turns keyed by session identifier.
//
// Sessions live in memory only: they do not survive restarts and do not
// scale past one instance. Moving them to an external store is the known
// path for horizontal scaling.
package session

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/animora/vetassist/internal/domain"
)

type entry struct {
	turns       []domain.Turn
	lastTouched time.Time
}

// Store is an in-memory session cache. The chi server handles requests on
// multiple goroutines, so every read-modify-write holds the mutex.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	maxTurns int
	now      func() time.Time
	active   prometheus.Gauge
}

// New creates a session store. active may be nil.
func New(ttl time.Duration, maxTurns int, active prometheus.Gauge) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		maxTurns: maxTurns,
		now:      time.Now,
		active:   active,
	}
}

// WithClock overrides the time source. Test hook.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Get returns a copy of the session's turns, oldest first. Unknown session
// identifiers yield an empty history, never an error.
func (s *Store) Get(id string) []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil
	}
	turns := make([]domain.Turn, len(e.turns))
	copy(turns, e.turns)
	return turns
}

// Append records a completed exchange. The history is capped at maxTurns,
// oldest truncated first. A sweep of expired sessions runs opportunistically
// after each append. An identifier collision across restarts is treated as
// reuse of the session, not an error.
func (s *Store) Append(id string, userTurn, assistantTurn domain.Turn) []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		e = &entry{}
		s.sessions[id] = e
	}

	e.turns = append(e.turns, userTurn, assistantTurn)
	if over := len(e.turns) - s.maxTurns; over > 0 {
		e.turns = e.turns[over:]
	}
	e.lastTouched = s.now()

	s.sweepLocked()

	turns := make([]domain.Turn, len(e.turns))
	copy(turns, e.turns)
	return turns
}

// Sweep removes sessions whose last touch exceeds the TTL.
func (s *Store) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
}

// Len returns the number of retained sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) sweepLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, e := range s.sessions {
		if e.lastTouched.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
	if s.active != nil {
		s.active.Set(float64(len(s.sessions)))
	}
}
