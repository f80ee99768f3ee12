package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/neogan74/kvorum/internal/replication"
	"github.com/neogan74/kvorum/internal/store"
)

func setupReplicateApp() (*fiber.App, *store.KVStore) {
	kv := store.NewKVStore()
	handler := NewReplicateHandler(kv)
	app := fiber.New()
	app.Post("/replicate", handler.Ingest)
	return app, kv
}

func TestReplicateHandler_AppliesMessage(t *testing.T) {
	app, kv := setupReplicateApp()

	resp := postJSON(t, app, "/replicate", replication.Message{
		ID: "m1", Key: "k", Value: "v", Version: 3,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	result := decodeBody(t, resp)
	if result["status"] != "replicated" {
		t.Errorf("expected status 'replicated', got %v", result["status"])
	}
	if result["applied"] != true {
		t.Errorf("expected applied=true, got %v", result["applied"])
	}

	entry, ok := kv.Get("k")
	if !ok || entry.Value != "v" || entry.Version != 3 {
		t.Errorf("unexpected store state: %+v", entry)
	}
}

func TestReplicateHandler_StaleMessageAckedButDropped(t *testing.T) {
	app, kv := setupReplicateApp()
	kv.ApplyRemote("k", "current", 5, false)

	resp := postJSON(t, app, "/replicate", replication.Message{
		Key: "k", Value: "old", Version: 2,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stale drop must still answer 200, got %d", resp.StatusCode)
	}

	result := decodeBody(t, resp)
	if result["status"] != "replicated" {
		t.Errorf("expected status 'replicated', got %v", result["status"])
	}
	if result["applied"] != false {
		t.Errorf("expected applied=false for stale message, got %v", result["applied"])
	}

	entry, _ := kv.Get("k")
	if entry.Value != "current" || entry.Version != 5 {
		t.Errorf("stale message changed state: %+v", entry)
	}
}

func TestReplicateHandler_DuplicateDeliveryIdempotent(t *testing.T) {
	app, kv := setupReplicateApp()

	msg := replication.Message{ID: "m1", Key: "k", Value: "v", Version: 4}
	for i := 0; i < 2; i++ {
		resp := postJSON(t, app, "/replicate", msg)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("delivery %d failed with %d", i+1, resp.StatusCode)
		}
	}

	entry, ok := kv.Get("k")
	if !ok || entry.Value != "v" || entry.Version != 4 {
		t.Errorf("duplicate delivery corrupted state: %+v", entry)
	}
}

func TestReplicateHandler_Delete(t *testing.T) {
	app, kv := setupReplicateApp()
	kv.ApplyRemote("k", "v", 1, false)

	resp := postJSON(t, app, "/replicate", replication.Message{
		Key: "k", Version: 2, Delete: true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for delete, got %d", resp.StatusCode)
	}
	if _, ok := kv.Get("k"); ok {
		t.Error("expected key removed after replicated delete")
	}
}

func TestReplicateHandler_Validation(t *testing.T) {
	app, _ := setupReplicateApp()

	// Invalid JSON body
	req := httptest.NewRequest(http.MethodPost, "/replicate", bytes.NewReader([]byte(`{broken`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid JSON, got %d", resp.StatusCode)
	}

	// Missing key
	resp = postJSON(t, app, "/replicate", replication.Message{Value: "v", Version: 1})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for missing key, got %d", resp.StatusCode)
	}

	// Zero version
	resp = postJSON(t, app, "/replicate", replication.Message{Key: "k", Value: "v"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for zero version, got %d", resp.StatusCode)
	}
}
