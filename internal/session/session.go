// Package session keeps wizard state for in-flight assessments. State
// lives in process memory only; a completed run leaves nothing behind
// once the client downloads its export.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/BobbyForshell/time-span-estimator/internal/catalog"
	"github.com/BobbyForshell/time-span-estimator/internal/models"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("session not found")
	ErrComplete    = errors.New("assessment already complete")
	ErrOptionIndex = errors.New("option index out of range")
)

// Store guards the in-flight sessions. Sessions idle longer than ttl
// are removed by Sweep.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	ttl      time.Duration
}

// NewStore creates an empty store with the given idle expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*models.Session),
		ttl:      ttl,
	}
}

// Create starts a new session for a purpose and language.
func (st *Store) Create(lang string, purpose models.Purpose) (models.Session, error) {
	if !purpose.Valid() {
		return models.Session{}, fmt.Errorf("unknown purpose %q", purpose)
	}
	now := time.Now()
	s := &models.Session{
		ID:        uuid.NewString(),
		Language:  lang,
		Purpose:   purpose,
		Answers:   make([]int, 0, catalog.Count()),
		CreatedAt: now,
		UpdatedAt: now,
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return snapshot(s), nil
}

// Get returns a snapshot of the session.
func (st *Store) Get(id string) (models.Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return models.Session{}, ErrNotFound
	}
	return snapshot(s), nil
}

// Answer records the chosen option for the current question and
// advances the cursor. The stored answer is the stratum level tagged
// on that option.
func (st *Store) Answer(id string, optionIndex int) (models.Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return models.Session{}, ErrNotFound
	}
	q, ok := catalog.Question(s.CurrentQuestion())
	if !ok {
		return models.Session{}, ErrComplete
	}
	if optionIndex < 0 || optionIndex >= len(q.Levels) {
		return models.Session{}, fmt.Errorf("%w: %d for question %d", ErrOptionIndex, optionIndex, q.Index)
	}
	s.Answers = append(s.Answers, q.Levels[optionIndex])
	s.UpdatedAt = time.Now()
	return snapshot(s), nil
}

// Restart clears the answers but keeps purpose and language.
func (st *Store) Restart(id string) (models.Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return models.Session{}, ErrNotFound
	}
	s.Answers = s.Answers[:0]
	s.UpdatedAt = time.Now()
	return snapshot(s), nil
}

// Delete removes a session. Missing ids are not an error.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops sessions idle past the store's ttl and returns how many
// were removed.
func (st *Store) Sweep(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, s := range st.sessions {
		if now.Sub(s.UpdatedAt) > st.ttl {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// snapshot copies the session so callers never share store-owned
// state.
func snapshot(s *models.Session) models.Session {
	out := *s
	out.Answers = append([]int(nil), s.Answers...)
	return out
}
