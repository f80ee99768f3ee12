package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// NodeClient talks to a single kvorum node.
type NodeClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewNodeClient creates a client for the given node base URL.
func NewNodeClient(baseURL string) *NodeClient {
	return &NodeClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WriteResponse is the leader's answer to a write or delete.
type WriteResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	Key           string `json:"key"`
	Version       uint64 `json:"version"`
	QuorumReached int    `json:"quorum_reached"`
	Acks          int    `json:"acks"`
	Quorum        int    `json:"quorum"`
}

// ReadResponse is any node's answer to a read.
type ReadResponse struct {
	Key     string  `json:"key"`
	Value   *string `json:"value"`
	Version uint64  `json:"version"`
	Found   bool    `json:"found"`
}

// ErrorResponse is the structured error body of the node.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Write sends a key/value write through the leader.
func (c *NodeClient) Write(key, value string) (*WriteResponse, error) {
	payload, err := json.Marshal(map[string]string{"key": key, "value": value})
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Post(c.BaseURL+"/write", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("write request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusServiceUnavailable:
		var result WriteResponse
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, fmt.Errorf("decode write response: %w", err)
		}
		return &result, nil
	default:
		return nil, c.asError(resp)
	}
}

// Read fetches a key from the node.
func (c *NodeClient) Read(key string) (*ReadResponse, error) {
	resp, err := c.HTTPClient.Get(c.BaseURL + "/read/" + key)
	if err != nil {
		return nil, fmt.Errorf("read request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.asError(resp)
	}

	var result ReadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode read response: %w", err)
	}
	return &result, nil
}

// Delete removes a key through the leader.
func (c *NodeClient) Delete(key string) (*WriteResponse, error) {
	req, err := http.NewRequest(http.MethodDelete, c.BaseURL+"/delete/"+key, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("delete request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusServiceUnavailable:
		var result WriteResponse
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, fmt.Errorf("decode delete response: %w", err)
		}
		return &result, nil
	default:
		return nil, c.asError(resp)
	}
}

// Health fetches the node's health document.
func (c *NodeClient) Health() (map[string]interface{}, error) {
	return c.getJSON("/health")
}

// Meta fetches the node's service metadata.
func (c *NodeClient) Meta() (map[string]interface{}, error) {
	return c.getJSON("/")
}

func (c *NodeClient) getJSON(path string) (map[string]interface{}, error) {
	resp, err := c.HTTPClient.Get(c.BaseURL + path)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.asError(resp)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}

func (c *NodeClient) asError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		if errResp.Message != "" {
			return fmt.Errorf("%s: %s", errResp.Error, errResp.Message)
		}
		return fmt.Errorf("%s", errResp.Error)
	}
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
}
