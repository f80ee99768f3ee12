package config

import (
	"os"
	"testing"
	"time"
)

var configEnvVars = []string{
	"KVORUM_HOST", "KVORUM_PORT",
	"NODE_TYPE", "LEADER_URL", "FOLLOWER_URLS", "WRITE_QUORUM",
	"MIN_DELAY", "MAX_DELAY", "KVORUM_REQUEST_TIMEOUT",
	"KVORUM_LOG_LEVEL", "KVORUM_LOG_FORMAT",
	"KVORUM_TRACING_ENABLED", "KVORUM_TRACING_ENDPOINT", "KVORUM_TRACING_SAMPLING_RATIO",
}

func clearEnvVars() {
	for _, key := range configEnvVars {
		os.Unsetenv(key)
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Host != "" {
		t.Errorf("expected empty host, got %q", cfg.Server.Host)
	}
	if cfg.Server.Port != 8888 {
		t.Errorf("expected port 8888, got %d", cfg.Server.Port)
	}
	if cfg.Cluster.Role != RoleFollower {
		t.Errorf("expected default role follower, got %q", cfg.Cluster.Role)
	}
	if cfg.Replication.MinDelay != 0 {
		t.Errorf("expected MIN_DELAY 0, got %v", cfg.Replication.MinDelay)
	}
	if cfg.Replication.MaxDelay != time.Second {
		t.Errorf("expected MAX_DELAY 1s, got %v", cfg.Replication.MaxDelay)
	}
	if cfg.Replication.RequestTimeout != 5*time.Second {
		t.Errorf("expected request timeout 5s, got %v", cfg.Replication.RequestTimeout)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected log level 'info', got %q", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("expected log format 'text', got %q", cfg.Log.Format)
	}
	if cfg.Tracing.Enabled {
		t.Error("expected tracing disabled by default")
	}
}

func TestLoad_LeaderFromEnvironment(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	os.Setenv("NODE_TYPE", "leader")
	os.Setenv("FOLLOWER_URLS", "http://f1:8888, http://f2:8888,http://f3:8888")
	os.Setenv("WRITE_QUORUM", "2")
	os.Setenv("MIN_DELAY", "50")
	os.Setenv("MAX_DELAY", "800")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Cluster.Role != RoleLeader {
		t.Errorf("expected role leader, got %q", cfg.Cluster.Role)
	}
	if len(cfg.Cluster.FollowerURLs) != 3 {
		t.Fatalf("expected 3 follower URLs, got %d", len(cfg.Cluster.FollowerURLs))
	}
	if cfg.Cluster.FollowerURLs[1] != "http://f2:8888" {
		t.Errorf("expected whitespace-trimmed URL, got %q", cfg.Cluster.FollowerURLs[1])
	}
	if cfg.Cluster.WriteQuorum != 2 {
		t.Errorf("expected quorum 2, got %d", cfg.Cluster.WriteQuorum)
	}
	if cfg.Replication.MinDelay != 50*time.Millisecond {
		t.Errorf("expected MIN_DELAY 50ms, got %v", cfg.Replication.MinDelay)
	}
	if cfg.Replication.MaxDelay != 800*time.Millisecond {
		t.Errorf("expected MAX_DELAY 800ms, got %v", cfg.Replication.MaxDelay)
	}
	if !cfg.IsLeader() {
		t.Error("expected IsLeader() true")
	}
}

func TestLoad_LeaderDefaultsToMajorityQuorum(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	os.Setenv("NODE_TYPE", "leader")
	os.Setenv("FOLLOWER_URLS", "http://f1:8888,http://f2:8888,http://f3:8888,http://f4:8888,http://f5:8888")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Cluster.WriteQuorum != 3 {
		t.Errorf("expected majority quorum 3 over 5 followers, got %d", cfg.Cluster.WriteQuorum)
	}
}

func TestValidate_Rejections(t *testing.T) {
	followers := []string{"http://f1:8888", "http://f2:8888"}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero quorum", func(c *Config) { c.Cluster.WriteQuorum = 0 }},
		{"quorum above follower count", func(c *Config) { c.Cluster.WriteQuorum = 3 }},
		{"unknown role", func(c *Config) { c.Cluster.Role = "observer" }},
		{"leader without followers", func(c *Config) { c.Cluster.FollowerURLs = nil }},
		{"unparsable follower URL", func(c *Config) { c.Cluster.FollowerURLs = []string{"://bad"} }},
		{"follower URL without scheme", func(c *Config) { c.Cluster.FollowerURLs = []string{"f1:8888"} }},
		{"negative min delay", func(c *Config) { c.Replication.MinDelay = -time.Millisecond }},
		{"max delay below min", func(c *Config) {
			c.Replication.MinDelay = 500 * time.Millisecond
			c.Replication.MaxDelay = 100 * time.Millisecond
		}},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"invalid port", func(c *Config) { c.Server.Port = 0 }},
		{"tracing ratio out of range", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Endpoint = "otel-collector:4318"
			c.Tracing.SamplingRatio = 1.5
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Server: ServerConfig{Port: 8888},
				Cluster: ClusterConfig{
					Role:         RoleLeader,
					FollowerURLs: append([]string(nil), followers...),
					WriteQuorum:  2,
				},
				Replication: ReplicationConfig{
					MaxDelay:       time.Second,
					RequestTimeout: 5 * time.Second,
				},
				Log: LogConfig{Level: "info", Format: "text"},
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidate_FollowerWithLeaderURL(t *testing.T) {
	cfg := &Config{
		Server:      ServerConfig{Port: 8888},
		Cluster:     ClusterConfig{Role: RoleFollower, LeaderURL: "http://leader:8888"},
		Replication: ReplicationConfig{MaxDelay: time.Second, RequestTimeout: 5 * time.Second},
		Log:         LogConfig{Level: "info", Format: "text"},
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid follower config, got %v", err)
	}

	cfg.Cluster.LeaderURL = "not-a-url"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for malformed leader URL")
	}
}

func TestAddress(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Port: 9000}}
	if got := cfg.Address(); got != ":9000" {
		t.Errorf("expected ':9000', got %q", got)
	}

	cfg.Server.Host = "10.0.0.1"
	if got := cfg.Address(); got != "10.0.0.1:9000" {
		t.Errorf("expected '10.0.0.1:9000', got %q", got)
	}
}
