package session

import (
	"sync"

	"foodtruck-pos/internal/order"
)

// Session is the order-taking state of one truck: the truck and its draft.
// All draft access goes through Do.
type Session struct {
	TruckID uint

	mu    sync.Mutex
	draft order.Draft
}

// Do runs fn with exclusive access to the draft.
func (s *Session) Do(fn func(*order.Draft) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.draft)
}

// Snapshot returns a copy of the draft.
func (s *Session) Snapshot() order.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Snapshot()
}

// Registry holds one Session per truck.
type Registry struct {
	mu       sync.Mutex
	sessions map[uint]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uint]*Session)}
}

// For returns the truck's session, creating an empty one on first use.
func (r *Registry) For(truckID uint) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[truckID]
	if !ok {
		s = &Session{TruckID: truckID}
		r.sessions[truckID] = s
	}
	return s
}

// Drop discards the truck's session and its draft.
func (r *Registry) Drop(truckID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, truckID)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
