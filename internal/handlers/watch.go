package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/neogan74/kvorum/internal/logger"
	"github.com/neogan74/kvorum/internal/watch"
)

// WatchHandler streams store change events to websocket subscribers.
type WatchHandler struct {
	manager *watch.Manager
	log     logger.Logger
}

// NewWatchHandler creates a new watch handler
func NewWatchHandler(manager *watch.Manager, log logger.Logger) *WatchHandler {
	return &WatchHandler{manager: manager, log: log}
}

// Upgrade admits only websocket upgrade requests to the watch route.
func (h *WatchHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Stream pushes matching change events until the client disconnects.
func (h *WatchHandler) Stream(c *websocket.Conn) {
	pattern := c.Params("key")
	if pattern == "" {
		pattern = c.Query("key", "**")
	}

	watcher, err := h.manager.AddWatcher(pattern)
	if err != nil {
		h.log.Warn("Watch subscription rejected",
			logger.String("pattern", pattern),
			logger.Error(err))
		c.WriteJSON(fiber.Map{"error": err.Error()})
		c.Close()
		return
	}
	defer h.manager.RemoveWatcher(watcher.ID)

	// Drain the read side so client close is noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if err := c.WriteJSON(event); err != nil {
				h.log.Debug("Watch write failed, closing",
					logger.String("watcher_id", watcher.ID),
					logger.Error(err))
				return
			}
		case <-done:
			return
		}
	}
}
