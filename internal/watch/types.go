// Package watch fans store change events out to live subscribers. Every node
// runs a manager: on the leader events come from local applies, on followers
// from replication ingest, so a watcher sees the node's own view converge.
package watch

import (
	"time"

	"github.com/neogan74/kvorum/internal/store"
)

// Watcher represents a single watch subscription
type Watcher struct {
	ID        string
	Pattern   string // key or prefix pattern, supports * and **
	Events    chan store.Event
	CreatedAt time.Time
}

// NewWatcher creates a new watcher with a buffered event channel
func NewWatcher(id, pattern string, bufferSize int) *Watcher {
	return &Watcher{
		ID:        id,
		Pattern:   pattern,
		Events:    make(chan store.Event, bufferSize),
		CreatedAt: time.Now(),
	}
}
