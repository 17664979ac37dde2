package session

import (
	"sync"

	"github.com/meetkit/interviewd/internal/store"
)

// Registry tracks the active session for each open room. One session per
// room; created when the room opens, removed when it closes.
type Registry struct {
	store *store.Store

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry. st backs each session's question
// cache.
func NewRegistry(st *store.Store) *Registry {
	return &Registry{store: st, sessions: make(map[string]*Session)}
}

// Create registers a new session for roomID and returns it. An existing
// session for the room is returned unchanged.
func (r *Registry) Create(roomID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[roomID]; ok {
		return s
	}
	s := New(roomID)
	s.Questions = NewQuestionCache(r.store)
	r.sessions[roomID] = s
	return s
}

// Get returns the session for roomID, or nil.
func (r *Registry) Get(roomID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[roomID]
}

// Remove destroys the session for roomID.
func (r *Registry) Remove(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, roomID)
}

// Len returns the number of active sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
