// Package presence tracks which recipients hold an open realtime connection to
// this process. The registry is process-local: a deployment with more than one
// instance needs a shared store behind the same methods.
package presence

import (
	"sync"

	"notifyd/internal/metrics"
)

type Registry struct {
	mu      sync.RWMutex
	conns   map[string]int
	metrics *metrics.Metrics
}

func NewRegistry(m *metrics.Metrics) *Registry {
	return &Registry{conns: make(map[string]int), metrics: m}
}

func (r *Registry) MarkConnected(recipientID string) {
	r.mu.Lock()
	r.conns[recipientID]++
	r.mu.Unlock()
	if r.metrics != nil {
		r.metrics.Connections.Inc()
	}
}

// MarkDisconnected drops one connection. Presence remains while other
// connections of the same recipient are open.
func (r *Registry) MarkDisconnected(recipientID string) {
	r.mu.Lock()
	n, ok := r.conns[recipientID]
	if !ok {
		r.mu.Unlock()
		return
	}
	if n <= 1 {
		delete(r.conns, recipientID)
	} else {
		r.conns[recipientID] = n - 1
	}
	r.mu.Unlock()
	if r.metrics != nil {
		r.metrics.Connections.Dec()
	}
}

func (r *Registry) IsConnected(recipientID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.conns[recipientID] > 0
}

// Count returns the number of open connections of a recipient.
func (r *Registry) Count(recipientID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.conns[recipientID]
}
