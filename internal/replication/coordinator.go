package replication

import (
	"context"

	"github.com/google/uuid"
	"github.com/neogan74/kvorum/internal/logger"
	"github.com/neogan74/kvorum/internal/metrics"
	"github.com/neogan74/kvorum/internal/store"
)

// Result is the outcome of one coordinated write or delete.
type Result struct {
	Version uint64
	Acks    int
	Quorum  int
}

// QuorumReached reports whether enough followers acknowledged.
func (r Result) QuorumReached() bool {
	return r.Acks >= r.Quorum
}

// Coordinator orchestrates a client write on the leader: it applies the
// change locally, hands the replication message to the dispatcher, and
// translates the ack count into a quorum outcome. The leader's local apply
// never counts toward the quorum, and a quorum miss does not roll it back;
// the leader's higher version is pushed again only when a later write to the
// same key supersedes it.
type Coordinator struct {
	store      *store.KVStore
	dispatcher *Dispatcher
	quorum     int
	log        logger.Logger
}

// NewCoordinator creates a coordinator over the given store and dispatcher.
func NewCoordinator(kv *store.KVStore, dispatcher *Dispatcher, quorum int, log logger.Logger) *Coordinator {
	return &Coordinator{
		store:      kv,
		dispatcher: dispatcher,
		quorum:     quorum,
		log:        log,
	}
}

// Write applies a set locally and replicates it to the followers.
func (c *Coordinator) Write(ctx context.Context, key, value string) Result {
	version := c.store.ApplyLocal(key, value)
	msg := Message{
		ID:      uuid.NewString(),
		Key:     key,
		Value:   value,
		Version: version,
	}
	return c.dispatch(ctx, msg)
}

// Delete applies a delete locally and replicates the tombstone version.
func (c *Coordinator) Delete(ctx context.Context, key string) Result {
	version := c.store.ApplyLocalDelete(key)
	msg := Message{
		ID:      uuid.NewString(),
		Key:     key,
		Version: version,
		Delete:  true,
	}
	return c.dispatch(ctx, msg)
}

func (c *Coordinator) dispatch(ctx context.Context, msg Message) Result {
	c.log.Debug("dispatching replication",
		logger.String("message_id", msg.ID),
		logger.String("key", msg.Key),
		logger.Uint64("version", msg.Version))

	acks := c.dispatcher.Dispatch(ctx, msg)
	result := Result{Version: msg.Version, Acks: acks, Quorum: c.quorum}

	if !result.QuorumReached() {
		metrics.WriteQuorumMissesTotal.Inc()
		c.log.Warn("write quorum missed",
			logger.String("message_id", msg.ID),
			logger.String("key", msg.Key),
			logger.Uint64("version", msg.Version),
			logger.Int("acks", acks),
			logger.Int("quorum", c.quorum))
	}
	return result
}
