// Package memory provides in-process implementations of the interview
// storage ports, used by the practice command and by tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/types"
)

// Store keeps sessions in a map. Sessions are cloned on the way in and out.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*types.Session
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{sessions: make(map[uuid.UUID]*types.Session)}
}

// Create stores a new session.
func (s *Store) Create(_ context.Context, session *types.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; ok {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	s.sessions[session.ID] = session.Clone()
	return nil
}

// FindByID returns a copy of the session or interview.ErrNotFound.
func (s *Store) FindByID(_ context.Context, id uuid.UUID) (*types.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: session %s", interview.ErrNotFound, id)
	}
	return session.Clone(), nil
}

// Save replaces the session when its stored cursor and response count still
// match the expected values.
func (s *Store) Save(_ context.Context, next *types.Session, expectedIndex, expectedResponses int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.sessions[next.ID]
	if !ok {
		return fmt.Errorf("%w: session %s", interview.ErrNotFound, next.ID)
	}
	if current.CurrentQuestionIndex != expectedIndex || len(current.Responses) != expectedResponses {
		return fmt.Errorf("%w: session %s", interview.ErrConflict, next.ID)
	}
	s.sessions[next.ID] = next.Clone()
	return nil
}

// ListByUser returns up to limit of the user's sessions, newest first.
func (s *Store) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]*types.Session, error) {
	s.mu.RLock()
	var out []*types.Session
	for _, session := range s.sessions {
		if session.UserID == userID {
			out = append(out, session.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
