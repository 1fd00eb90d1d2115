package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/numerador-esportivo/numerador/internal/labeling"
	"github.com/numerador-esportivo/numerador/internal/ocr"
)

// Workspace is the state owned by one browser session.
// Callers must hold Lock while reading or mutating Manual or OCR.
type Workspace struct {
	ID        string
	CreatedAt time.Time

	Manual *labeling.Session
	OCR    *ocr.Result

	sync.Mutex
}

type SessionStore struct {
	sessions map[string]*Workspace
	mu       sync.RWMutex
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Workspace),
	}
}

// Create registers a new empty workspace under a fresh id.
func (s *SessionStore) Create() *Workspace {
	ws := &Workspace{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}
	s.Set(ws.ID, ws)
	return ws
}

// GetOrCreate returns the workspace for sessionID, creating one when the id is
// empty or unknown.
func (s *SessionStore) GetOrCreate(sessionID string) *Workspace {
	if sessionID != "" {
		if ws, ok := s.Get(sessionID); ok {
			return ws
		}
	}
	return s.Create()
}

func (s *SessionStore) Get(sessionID string) (*Workspace, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ws, exists := s.sessions[sessionID]
	return ws, exists
}

func (s *SessionStore) Set(sessionID string, ws *Workspace) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = ws
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
