package calculator

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for an unknown or expired session id.
var ErrSessionNotFound = errors.New("calculator session not found")

// Sessions keeps one keypad State per HTTP client. Every update goes through
// Apply, so each session still sees a strictly sequential action stream.
type Sessions struct {
	mu      sync.Mutex
	entries map[string]*session
	idleTTL time.Duration
	now     func() time.Time
}

type session struct {
	state   State
	touched time.Time
}

// NewSessions creates a store. Sessions idle for longer than idleTTL are
// dropped by Prune; idleTTL <= 0 keeps them forever.
func NewSessions(idleTTL time.Duration) *Sessions {
	return &Sessions{
		entries: make(map[string]*session),
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

// Create starts a session at the initial state.
func (s *Sessions) Create() (string, State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.entries[id] = &session{state: Initial(), touched: s.now()}
	return id, Initial()
}

// Get returns the current state of a session.
func (s *Sessions) Get(id string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.entries[id]
	if !ok {
		return State{}, ErrSessionNotFound
	}
	return sess.state, nil
}

// Apply runs one action against a session and stores the next state.
func (s *Sessions) Apply(id string, a Action) (State, *Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.entries[id]
	if !ok {
		return State{}, nil, ErrSessionNotFound
	}

	next, done := Apply(sess.state, a)
	sess.state = next
	sess.touched = s.now()
	return next, done, nil
}

// Recall loads a result into a session's display.
func (s *Sessions) Recall(id, result string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.entries[id]
	if !ok {
		return State{}, ErrSessionNotFound
	}

	sess.state = Recall(sess.state, result)
	sess.touched = s.now()
	return sess.state, nil
}

// Delete ends a session. Deleting an unknown id is not an error.
func (s *Sessions) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Prune drops sessions idle for longer than the configured TTL and returns
// how many were removed.
func (s *Sessions) Prune() int {
	if s.idleTTL <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.idleTTL)
	removed := 0
	for id, sess := range s.entries {
		if sess.touched.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}
