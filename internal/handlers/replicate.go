package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/neogan74/kvorum/internal/logger"
	"github.com/neogan74/kvorum/internal/metrics"
	"github.com/neogan74/kvorum/internal/middleware"
	"github.com/neogan74/kvorum/internal/replication"
	"github.com/neogan74/kvorum/internal/store"
)

// ReplicateHandler is the follower's ingest endpoint for leader pushes.
type ReplicateHandler struct {
	store *store.KVStore
}

// NewReplicateHandler creates a replication ingest handler.
func NewReplicateHandler(kvStore *store.KVStore) *ReplicateHandler {
	return &ReplicateHandler{store: kvStore}
}

// Ingest handles POST /replicate. Stale and duplicate messages are
// acknowledged with 200 and dropped; answering non-200 for drops would make
// the leader miss a quorum it logically has.
func (h *ReplicateHandler) Ingest(c *fiber.Ctx) error {
	log := middleware.GetLogger(c)

	var msg replication.Message
	if err := c.BodyParser(&msg); err != nil {
		log.Error("Failed to parse replication message", logger.Error(err))
		return middleware.BadRequest(c, "Invalid JSON body")
	}
	if msg.Key == "" {
		return middleware.BadRequest(c, "key cannot be empty")
	}
	if msg.Version == 0 {
		return middleware.BadRequest(c, "version must be positive")
	}

	applied := h.store.ApplyRemote(msg.Key, msg.Value, msg.Version, msg.Delete)

	result := "applied"
	if !applied {
		result = "dropped"
	}
	metrics.ReplicationIngestTotal.WithLabelValues(result).Inc()
	metrics.KVStoreSize.Set(float64(h.store.Len()))
	metrics.KVStoreVersion.Set(float64(h.store.Version()))

	log.Debug("Replication message ingested",
		logger.String("message_id", msg.ID),
		logger.String("key", msg.Key),
		logger.Uint64("version", msg.Version),
		logger.Bool("delete", msg.Delete),
		logger.Bool("applied", applied))

	return c.JSON(replication.Ack{Status: replication.StatusReplicated, Applied: applied})
}
