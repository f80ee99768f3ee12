package handlers

import (
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/neogan74/kvorum/internal/config"
	"github.com/neogan74/kvorum/internal/store"
)

// HealthStatus represents the health status of the node
type HealthStatus struct {
	Status    string       `json:"status"`
	NodeType  string       `json:"node_type"`
	Version   string       `json:"version"`
	Uptime    string       `json:"uptime"`
	Timestamp time.Time    `json:"timestamp"`
	KVStore   KVHealth     `json:"kv_store"`
	System    SystemHealth `json:"system"`
}

type KVHealth struct {
	TotalKeys      int    `json:"total_keys"`
	HighestVersion uint64 `json:"highest_version"`
}

type SystemHealth struct {
	Goroutines  int    `json:"goroutines"`
	MemoryAlloc uint64 `json:"memory_alloc_bytes"`
	MemorySys   uint64 `json:"memory_sys_bytes"`
	NumGC       uint32 `json:"num_gc"`
}

// HealthHandler handles the health and service-metadata endpoints
type HealthHandler struct {
	store     *store.KVStore
	cluster   config.ClusterConfig
	startTime time.Time
	version   string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(kvStore *store.KVStore, cluster config.ClusterConfig, version string) *HealthHandler {
	return &HealthHandler{
		store:     kvStore,
		cluster:   cluster,
		startTime: time.Now(),
		version:   version,
	}
}

// Check returns the health status of the node
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	status := HealthStatus{
		Status:    "healthy",
		NodeType:  string(h.cluster.Role),
		Version:   h.version,
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now(),
		KVStore: KVHealth{
			TotalKeys:      h.store.Len(),
			HighestVersion: h.store.Version(),
		},
		System: SystemHealth{
			Goroutines:  runtime.NumGoroutine(),
			MemoryAlloc: m.Alloc,
			MemorySys:   m.Sys,
			NumGC:       m.NumGC,
		},
	}

	return c.JSON(status)
}

// Meta serves the root endpoint with service metadata.
func (h *HealthHandler) Meta(c *fiber.Ctx) error {
	meta := fiber.Map{
		"service":   "kvorum",
		"version":   h.version,
		"node_type": string(h.cluster.Role),
		"endpoints": fiber.Map{
			"write":     "POST /write",
			"read":      "GET /read/{key}",
			"delete":    "DELETE /delete/{key}",
			"replicate": "POST /replicate",
			"watch":     "GET /watch/{key}",
			"health":    "GET /health",
			"metrics":   "GET /metrics",
		},
	}

	switch h.cluster.Role {
	case config.RoleLeader:
		meta["followers"] = len(h.cluster.FollowerURLs)
		meta["write_quorum"] = h.cluster.WriteQuorum
	case config.RoleFollower:
		if h.cluster.LeaderURL != "" {
			meta["leader_url"] = h.cluster.LeaderURL
		}
	}

	return c.JSON(meta)
}
