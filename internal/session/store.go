// Package session holds in-memory chat sessions and their conversation
// turns. Sessions live for the lifetime of the process; there is no
// durability across restarts.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reeltalk/reeltalk/internal/llm"
)

// ErrNotFound is returned for operations on unknown sessions.
var ErrNotFound = fmt.Errorf("session not found")

// Turn is one immutable conversation turn.
type Turn struct {
	ID        uuid.UUID
	Role      string
	Content   string
	CreatedAt time.Time
}

// Session is a chat session with its ordered turns.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Turns     []Turn
}

// Store is a concurrency-safe in-memory session store. A single store-wide
// lock serializes appends and reads; turn order within a session is append
// order.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[uuid.UUID]*Session)}
}

// Create registers a new session and returns it.
func (s *Store) Create() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
	}
	s.sessions[sess.ID] = sess
	return *sess
}

// Get returns a snapshot of the session, or ErrNotFound.
func (s *Store) Get(id uuid.UUID) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	out := *sess
	out.Turns = append([]Turn(nil), sess.Turns...)
	return out, nil
}

// Append adds a turn to the session and returns it.
func (s *Store) Append(id uuid.UUID, role, content string) (Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Turn{}, ErrNotFound
	}

	turn := Turn{
		ID:        uuid.New(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	sess.Turns = append(sess.Turns, turn)
	return turn, nil
}

// Recent returns the limit most recent turns in chronological order.
func (s *Store) Recent(id uuid.UUID, limit int) ([]Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	turns := sess.Turns
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return append([]Turn(nil), turns...), nil
}

// History reduces the session's turns to role/content pairs in original
// order, the shape the workflow consumes. Identifiers and timestamps are
// stripped.
func (s *Store) History(id uuid.UUID) ([]llm.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	history := make([]llm.Message, 0, len(sess.Turns))
	for _, turn := range sess.Turns {
		history = append(history, llm.Message{Role: turn.Role, Content: turn.Content})
	}
	return history, nil
}

// Len returns the number of sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
