package replication

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/neogan74/kvorum/internal/config"
	"github.com/neogan74/kvorum/internal/logger"
	"github.com/neogan74/kvorum/internal/metrics"
)

// Dispatcher fans a replication message out to every follower concurrently
// and reports how many acknowledged. Safe for concurrent use; the HTTP client
// is shared across dispatches and pools connections.
type Dispatcher struct {
	followers []string
	quorum    int
	minDelay  time.Duration
	maxDelay  time.Duration
	client    *http.Client
	log       logger.Logger
}

// NewDispatcher creates a dispatcher for the given follower base URLs.
func NewDispatcher(followers []string, quorum int, repl config.ReplicationConfig, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		followers: followers,
		quorum:    quorum,
		minDelay:  repl.MinDelay,
		maxDelay:  repl.MaxDelay,
		client: &http.Client{
			Timeout: repl.RequestTimeout,
		},
		log: log,
	}
}

// Dispatch sends msg to every follower and returns the number of
// acknowledgements collected before the quorum was reached or all attempts
// resolved. It returns as soon as the quorum is met; attempts still in flight
// are cancelled and their results discarded.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) int {
	attemptCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered to the follower count so late finishers never block after
	// Dispatch has returned.
	results := make(chan bool, len(d.followers))
	for _, followerURL := range d.followers {
		go d.replicate(attemptCtx, followerURL, msg, results)
	}

	acks := 0
	for range d.followers {
		select {
		case ok := <-results:
			if ok {
				acks++
				if acks >= d.quorum {
					return acks
				}
			}
		case <-ctx.Done():
			d.log.Warn("dispatch cancelled",
				logger.String("message_id", msg.ID),
				logger.Int("acks", acks))
			return acks
		}
	}
	return acks
}

// replicate runs a single attempt and reports its outcome on results.
func (d *Dispatcher) replicate(ctx context.Context, followerURL string, msg Message, results chan<- bool) {
	start := time.Now()
	ok := d.attempt(ctx, followerURL, msg)

	status := "ok"
	if !ok {
		status = "failed"
	}
	metrics.ReplicationAttemptsTotal.WithLabelValues(followerURL, status).Inc()
	metrics.ReplicationAttemptDuration.WithLabelValues(followerURL, status).Observe(time.Since(start).Seconds())

	results <- ok
}

// attempt sleeps the simulated network delay, then posts the message to the
// follower's /replicate endpoint. Any transport error, timeout or non-200
// response counts as a failed acknowledgement.
func (d *Dispatcher) attempt(ctx context.Context, followerURL string, msg Message) bool {
	if delay := d.simulatedDelay(); delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return false
		}
	}

	body, err := json.Marshal(msg)
	if err != nil {
		d.log.Error("marshal replication message",
			logger.String("message_id", msg.ID),
			logger.Error(err))
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, followerURL+"/replicate", bytes.NewReader(body))
	if err != nil {
		d.log.Error("build replication request",
			logger.String("follower", followerURL),
			logger.Error(err))
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		d.log.Debug("replication attempt failed",
			logger.String("follower", followerURL),
			logger.String("message_id", msg.ID),
			logger.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		d.log.Debug("replication rejected",
			logger.String("follower", followerURL),
			logger.String("message_id", msg.ID),
			logger.Int("status", resp.StatusCode))
		return false
	}

	var ack Ack
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return false
	}
	return ack.Status == StatusReplicated
}

// simulatedDelay draws a uniform duration from [minDelay, maxDelay],
// inclusive on both ends and independent per attempt.
func (d *Dispatcher) simulatedDelay() time.Duration {
	span := d.maxDelay - d.minDelay
	if span <= 0 {
		return d.minDelay
	}
	return d.minDelay + rand.N(span+1)
}
