package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/neogan74/kvorum/internal/logger"
	"github.com/neogan74/kvorum/internal/metrics"
	"github.com/neogan74/kvorum/internal/middleware"
	"github.com/neogan74/kvorum/internal/replication"
	"github.com/neogan74/kvorum/internal/store"
)

// KVHandler serves client reads and, on the leader, coordinated writes.
type KVHandler struct {
	store       *store.KVStore
	coordinator *replication.Coordinator
}

// NewKVHandler creates a KV handler. The coordinator is nil on followers,
// whose write routes are gated off before reaching the handler.
func NewKVHandler(kvStore *store.KVStore, coordinator *replication.Coordinator) *KVHandler {
	return &KVHandler{store: kvStore, coordinator: coordinator}
}

type writeRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Write handles POST /write on the leader: apply locally, fan out, report
// the quorum outcome.
func (h *KVHandler) Write(c *fiber.Ctx) error {
	log := middleware.GetLogger(c)

	var body writeRequest
	if err := c.BodyParser(&body); err != nil {
		log.Error("Failed to parse write body", logger.Error(err))
		metrics.KVOperationsTotal.WithLabelValues("write", "bad_request").Inc()
		return middleware.BadRequest(c, "Invalid JSON body")
	}
	if body.Key == "" {
		metrics.KVOperationsTotal.WithLabelValues("write", "bad_request").Inc()
		return middleware.BadRequest(c, "key cannot be empty")
	}

	result := h.coordinator.Write(c.UserContext(), body.Key, body.Value)
	metrics.KVStoreSize.Set(float64(h.store.Len()))
	metrics.KVStoreVersion.Set(float64(h.store.Version()))

	if !result.QuorumReached() {
		metrics.KVOperationsTotal.WithLabelValues("write", "quorum_miss").Inc()
		log.Warn("Write quorum missed",
			logger.String("key", body.Key),
			logger.Uint64("version", result.Version),
			logger.Int("acks", result.Acks),
			logger.Int("quorum", result.Quorum))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"acks":    result.Acks,
			"quorum":  result.Quorum,
			"version": result.Version,
		})
	}

	metrics.KVOperationsTotal.WithLabelValues("write", "success").Inc()
	log.Info("Write replicated",
		logger.String("key", body.Key),
		logger.Uint64("version", result.Version),
		logger.Int("acks", result.Acks))
	return c.JSON(fiber.Map{
		"success":        true,
		"message":        "write replicated",
		"key":            body.Key,
		"version":        result.Version,
		"quorum_reached": result.Acks,
	})
}

// Read handles GET /read/:key on any node. Reads always succeed; an absent
// key answers found=false rather than an error.
func (h *KVHandler) Read(c *fiber.Ctx) error {
	key := c.Params("key")
	log := middleware.GetLogger(c)

	entry, ok := h.store.Get(key)
	if !ok {
		log.Debug("Key not found", logger.String("key", key))
		metrics.KVOperationsTotal.WithLabelValues("read", "not_found").Inc()
		return c.JSON(fiber.Map{
			"key":   key,
			"value": nil,
			"found": false,
		})
	}

	metrics.KVOperationsTotal.WithLabelValues("read", "success").Inc()
	return c.JSON(fiber.Map{
		"key":     key,
		"value":   entry.Value,
		"version": entry.Version,
		"found":   true,
	})
}

// Delete handles DELETE /delete/:key on the leader. The delete consumes a
// version and replicates under the same quorum rule as a write.
func (h *KVHandler) Delete(c *fiber.Ctx) error {
	key := c.Params("key")
	log := middleware.GetLogger(c)

	if key == "" {
		metrics.KVOperationsTotal.WithLabelValues("delete", "bad_request").Inc()
		return middleware.BadRequest(c, "key cannot be empty")
	}

	result := h.coordinator.Delete(c.UserContext(), key)
	metrics.KVStoreSize.Set(float64(h.store.Len()))
	metrics.KVStoreVersion.Set(float64(h.store.Version()))

	if !result.QuorumReached() {
		metrics.KVOperationsTotal.WithLabelValues("delete", "quorum_miss").Inc()
		log.Warn("Delete quorum missed",
			logger.String("key", key),
			logger.Uint64("version", result.Version),
			logger.Int("acks", result.Acks),
			logger.Int("quorum", result.Quorum))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"acks":    result.Acks,
			"quorum":  result.Quorum,
			"version": result.Version,
		})
	}

	metrics.KVOperationsTotal.WithLabelValues("delete", "success").Inc()
	log.Info("Delete replicated",
		logger.String("key", key),
		logger.Uint64("version", result.Version),
		logger.Int("acks", result.Acks))
	return c.JSON(fiber.Map{
		"success":        true,
		"message":        "delete replicated",
		"key":            key,
		"version":        result.Version,
		"quorum_reached": result.Acks,
	})
}
