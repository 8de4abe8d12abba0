package session

import "sync"

// Hub is an in-process session provider. The identity middleware (or a
// test) drives it with Acquire/Clear; the idea store subscribes and
// reacts to the transitions.
type Hub struct {
	mu      sync.RWMutex
	ownerID string
	active  bool
	subs    []func(ownerID string, active bool)
}

// NewHub creates a hub with no active session
func NewHub() *Hub {
	return &Hub{}
}

// Current returns the active owner ID, if any
func (h *Hub) Current() (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ownerID, h.active
}

// Subscribe registers a transition callback. Callbacks run
// synchronously on the goroutine calling Acquire or Clear.
func (h *Hub) Subscribe(fn func(ownerID string, active bool)) {
	h.mu.Lock()
	h.subs = append(h.subs, fn)
	h.mu.Unlock()
}

// Acquire activates a session for the given owner and notifies
// subscribers. Re-acquiring the same owner is a no-op.
func (h *Hub) Acquire(ownerID string) {
	h.mu.Lock()
	if h.active && h.ownerID == ownerID {
		h.mu.Unlock()
		return
	}
	h.ownerID = ownerID
	h.active = true
	subs := append([]func(string, bool){}, h.subs...)
	h.mu.Unlock()

	for _, fn := range subs {
		fn(ownerID, true)
	}
}

// Clear deactivates the session and notifies subscribers
func (h *Hub) Clear() {
	h.mu.Lock()
	if !h.active {
		h.mu.Unlock()
		return
	}
	ownerID := h.ownerID
	h.ownerID = ""
	h.active = false
	subs := append([]func(string, bool){}, h.subs...)
	h.mu.Unlock()

	for _, fn := range subs {
		fn(ownerID, false)
	}
}
