package watch

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/neogan74/kvorum/internal/logger"
	"github.com/neogan74/kvorum/internal/metrics"
	"github.com/neogan74/kvorum/internal/store"
)

// Manager manages all active watchers
type Manager struct {
	watchers   map[string]*Watcher // ID -> Watcher
	patterns   map[string][]string // Pattern -> []WatcherID
	mu         sync.RWMutex
	log        logger.Logger
	bufferSize int
}

// NewManager creates a new watch manager
func NewManager(bufferSize int, log logger.Logger) *Manager {
	return &Manager{
		watchers:   make(map[string]*Watcher),
		patterns:   make(map[string][]string),
		log:        log,
		bufferSize: bufferSize,
	}
}

// Attach subscribes the manager to a store's change events.
func (wm *Manager) Attach(kv *store.KVStore) {
	kv.Subscribe(wm.Notify)
}

// AddWatcher adds a new watcher for the given pattern
func (wm *Manager) AddWatcher(pattern string) (*Watcher, error) {
	if pattern == "" {
		return nil, ErrInvalidPattern
	}

	wm.mu.Lock()
	defer wm.mu.Unlock()

	watcher := NewWatcher(uuid.New().String(), pattern, wm.bufferSize)
	wm.watchers[watcher.ID] = watcher
	wm.patterns[pattern] = append(wm.patterns[pattern], watcher.ID)

	wm.log.Info("Watcher added",
		logger.String("id", watcher.ID),
		logger.String("pattern", pattern))
	metrics.WatchersActive.Set(float64(len(wm.watchers)))

	return watcher, nil
}

// RemoveWatcher removes a watcher by ID
func (wm *Manager) RemoveWatcher(id string) {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	watcher, exists := wm.watchers[id]
	if !exists {
		return
	}

	ids := wm.patterns[watcher.Pattern]
	for i, wid := range ids {
		if wid == id {
			wm.patterns[watcher.Pattern] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(wm.patterns[watcher.Pattern]) == 0 {
		delete(wm.patterns, watcher.Pattern)
	}

	close(watcher.Events)
	delete(wm.watchers, id)

	wm.log.Info("Watcher removed",
		logger.String("id", id),
		logger.String("pattern", watcher.Pattern))
	metrics.WatchersActive.Set(float64(len(wm.watchers)))
}

// Count returns the number of active watchers
func (wm *Manager) Count() int {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	return len(wm.watchers)
}

// Notify sends an event to all watchers whose pattern matches the key.
// Delivery is non-blocking; a watcher that cannot keep up loses events.
func (wm *Manager) Notify(event store.Event) {
	wm.mu.RLock()
	defer wm.mu.RUnlock()

	for pattern, watcherIDs := range wm.patterns {
		if !matchesPattern(event.Key, pattern) {
			continue
		}
		for _, id := range watcherIDs {
			watcher, exists := wm.watchers[id]
			if !exists {
				continue
			}

			select {
			case watcher.Events <- event:
				metrics.WatchEventsTotal.WithLabelValues("delivered").Inc()
			default:
				metrics.WatchEventsTotal.WithLabelValues("dropped").Inc()
				wm.log.Warn("Watcher channel full, dropping event",
					logger.String("watcher_id", id),
					logger.String("pattern", pattern),
					logger.String("key", event.Key))
			}
		}
	}
}

// matchesPattern checks if a key matches a watch pattern
func matchesPattern(key, pattern string) bool {
	if key == pattern {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return false
	}

	// ** matches any suffix, including across separators.
	if strings.HasSuffix(pattern, "**") {
		return strings.HasPrefix(key, strings.TrimSuffix(pattern, "**"))
	}

	// * matches a single path level.
	if strings.HasSuffix(pattern, "*") {
		prefix := strings.TrimSuffix(pattern, "*")
		if !strings.HasPrefix(key, prefix) {
			return false
		}
		return !strings.Contains(strings.TrimPrefix(key, prefix), "/")
	}

	return false
}
