package wizard

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultHistoryLimit = 50

type session struct {
	state   State
	history []State
	touched time.Time
}

// Sessions keeps in-progress wizards in memory. Drafts are never persisted.
type Sessions struct {
	mu           sync.Mutex
	sessions     map[string]*session
	historyLimit int
	now          func() time.Time
}

// NewSessions creates an empty registry. historyLimit bounds the undo stack
// of each session; values <= 0 use the default.
func NewSessions(historyLimit int) *Sessions {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &Sessions{
		sessions:     make(map[string]*session),
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

// Create starts a new wizard and returns its id.
func (s *Sessions) Create() (string, State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	state := New()
	s.sessions[id] = &session{state: state, touched: s.now()}
	return id, state
}

func (s *Sessions) Get(id string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return State{}, ErrSessionNotFound
	}
	sess.touched = s.now()
	return sess.state.Clone(), nil
}

// Apply reduces the session with a and stores the result. A failed action
// leaves the session untouched.
func (s *Sessions) Apply(id string, a Action) (State, Effect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return State{}, EffectNone, ErrSessionNotFound
	}
	sess.touched = s.now()

	next, effect, err := Reduce(sess.state, a)
	if err != nil {
		return sess.state.Clone(), EffectNone, err
	}

	sess.history = append(sess.history, sess.state)
	if len(sess.history) > s.historyLimit {
		sess.history = sess.history[len(sess.history)-s.historyLimit:]
	}
	sess.state = next
	return next.Clone(), effect, nil
}

// Undo restores the state before the last applied action.
func (s *Sessions) Undo(id string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return State{}, ErrSessionNotFound
	}
	sess.touched = s.now()
	if len(sess.history) == 0 {
		return sess.state.Clone(), ErrNothingToUndo
	}

	last := len(sess.history) - 1
	sess.state = sess.history[last]
	sess.history = sess.history[:last]
	return sess.state.Clone(), nil
}

func (s *Sessions) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Sweep drops sessions idle for longer than idle and returns how many were removed.
func (s *Sessions) Sweep(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle)
	removed := 0
	for id, sess := range s.sessions {
		if sess.touched.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
