package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/neogan74/kvorum/internal/config"
	"github.com/neogan74/kvorum/internal/store"
)

func TestHealthHandler_Check(t *testing.T) {
	kv := store.NewKVStore()
	kv.ApplyLocal("a", "1")
	kv.ApplyLocal("b", "2")

	cluster := config.ClusterConfig{
		Role:         config.RoleLeader,
		FollowerURLs: []string{"http://f1:8888", "http://f2:8888"},
		WriteQuorum:  2,
	}
	handler := NewHealthHandler(kv, cluster, "1.0.0")

	app := fiber.New()
	app.Get("/health", handler.Check)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var status HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if status.Status != "healthy" {
		t.Errorf("expected status 'healthy', got %q", status.Status)
	}
	if status.NodeType != "leader" {
		t.Errorf("expected node_type 'leader', got %q", status.NodeType)
	}
	if status.KVStore.TotalKeys != 2 {
		t.Errorf("expected 2 keys, got %d", status.KVStore.TotalKeys)
	}
	if status.KVStore.HighestVersion != 2 {
		t.Errorf("expected highest version 2, got %d", status.KVStore.HighestVersion)
	}
	if status.System.Goroutines <= 0 {
		t.Error("expected goroutine count to be positive")
	}
}

func TestHealthHandler_MetaLeader(t *testing.T) {
	kv := store.NewKVStore()
	cluster := config.ClusterConfig{
		Role:         config.RoleLeader,
		FollowerURLs: []string{"http://f1:8888", "http://f2:8888", "http://f3:8888"},
		WriteQuorum:  2,
	}
	handler := NewHealthHandler(kv, cluster, "1.0.0")

	app := fiber.New()
	app.Get("/", handler.Meta)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	var meta map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if meta["service"] != "kvorum" {
		t.Errorf("expected service 'kvorum', got %v", meta["service"])
	}
	if meta["node_type"] != "leader" {
		t.Errorf("expected node_type 'leader', got %v", meta["node_type"])
	}
	if meta["followers"].(float64) != 3 {
		t.Errorf("expected 3 followers, got %v", meta["followers"])
	}
	if meta["write_quorum"].(float64) != 2 {
		t.Errorf("expected quorum 2, got %v", meta["write_quorum"])
	}
}

func TestHealthHandler_MetaFollower(t *testing.T) {
	kv := store.NewKVStore()
	cluster := config.ClusterConfig{
		Role:      config.RoleFollower,
		LeaderURL: "http://leader:8888",
	}
	handler := NewHealthHandler(kv, cluster, "1.0.0")

	app := fiber.New()
	app.Get("/", handler.Meta)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	var meta map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if meta["node_type"] != "follower" {
		t.Errorf("expected node_type 'follower', got %v", meta["node_type"])
	}
	if meta["leader_url"] != "http://leader:8888" {
		t.Errorf("expected leader_url to be set, got %v", meta["leader_url"])
	}
	if _, exists := meta["write_quorum"]; exists {
		t.Error("follower metadata must not advertise a write quorum")
	}
}
