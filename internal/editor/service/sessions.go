package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"plan-editor/internal/editor/models"
	"plan-editor/internal/editor/session"
)

// ============================================================
// Session Store
// ============================================================

var ErrSessionNotFound = errors.New("session not found")

// Entry is one open session plus the plan it was loaded from or saved to.
type Entry struct {
	Session  *session.Session
	PlanID   string
	PlanName string

	mu sync.Mutex
}

type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Entry // sessionID -> entry
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Entry),
	}
}

// Open создаёт новую сессию над сегментами плана и возвращает её id.
func (m *SessionStore) Open(plan models.Plan) string {
	id := uuid.NewString()
	entry := &Entry{
		Session:  session.New(id, plan.Scale, plan.Segments...),
		PlanID:   plan.ID,
		PlanName: plan.Name,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = entry
	return id
}

// With runs fn while holding the session's lock, so events for one session
// never interleave. Different sessions proceed in parallel.
func (m *SessionStore) With(id string, fn func(*Entry) error) error {
	m.mu.Lock()
	entry, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry)
}

func (m *SessionStore) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

func (m *SessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
