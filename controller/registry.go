package controller

import (
	"sort"
	"sync"
	"time"
)

// PanelConn is one connected panel.
type PanelConn interface {
	ID() string
	RemoteAddr() string
	ConnectedAt() time.Time
}

// Registry tracks connected panels by id.
type Registry struct {
	mu    sync.RWMutex
	store map[string]PanelConn
}

func NewRegistry() *Registry {
	return &Registry{store: make(map[string]PanelConn)}
}

func (r *Registry) Store(c PanelConn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store[c.ID()] = c
}

// TryStore adds c unless the registry already holds limit connections. The
// check and the insert happen under one lock.
func (r *Registry) TryStore(c PanelConn, limit int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.store) >= limit {
		return false
	}
	r.store[c.ID()] = c
	return true
}

func (r *Registry) Get(id string) (PanelConn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	val, ok := r.store[id]
	return val, ok
}

func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.store, id)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.store)
}

// List returns connections ordered by connect time.
func (r *Registry) List() []PanelConn {
	r.mu.RLock()
	out := make([]PanelConn, 0, len(r.store))
	for _, c := range r.store {
		out = append(out, c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].ConnectedAt().Before(out[j].ConnectedAt())
	})
	return out
}
