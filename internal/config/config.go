package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Role selects the behavior of a node.
type Role string

const (
	RoleLeader   Role = "leader"
	RoleFollower Role = "follower"
)

// Config represents the application configuration
type Config struct {
	Server      ServerConfig
	Cluster     ClusterConfig
	Replication ReplicationConfig
	Log         LogConfig
	Tracing     TracingConfig
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host string
	Port int
}

// ClusterConfig contains the static cluster topology
type ClusterConfig struct {
	Role         Role
	LeaderURL    string   // follower only; informational
	FollowerURLs []string // leader only
	WriteQuorum  int      // leader only; in [1, len(FollowerURLs)]
}

// ReplicationConfig contains replication tuning knobs
type ReplicationConfig struct {
	MinDelay       time.Duration // lower bound of the simulated per-attempt delay
	MaxDelay       time.Duration // upper bound, inclusive
	RequestTimeout time.Duration // per-attempt HTTP timeout
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// TracingConfig contains OpenTelemetry tracing configuration
type TracingConfig struct {
	Enabled        bool
	Endpoint       string
	ServiceName    string
	ServiceVersion string
	Environment    string
	SamplingRatio  float64
	InsecureConn   bool
}

// Load loads configuration from environment variables with defaults
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host: getEnvString("KVORUM_HOST", ""),
			Port: getEnvInt("KVORUM_PORT", 8888),
		},
		Cluster: ClusterConfig{
			Role:         Role(getEnvString("NODE_TYPE", string(RoleFollower))),
			LeaderURL:    getEnvString("LEADER_URL", ""),
			FollowerURLs: getEnvStringSlice("FOLLOWER_URLS", nil),
			WriteQuorum:  getEnvInt("WRITE_QUORUM", 0),
		},
		Replication: ReplicationConfig{
			MinDelay:       getEnvMillis("MIN_DELAY", 0),
			MaxDelay:       getEnvMillis("MAX_DELAY", 1000*time.Millisecond),
			RequestTimeout: getEnvDuration("KVORUM_REQUEST_TIMEOUT", 5*time.Second),
		},
		Log: LogConfig{
			Level:  getEnvString("KVORUM_LOG_LEVEL", "info"),
			Format: getEnvString("KVORUM_LOG_FORMAT", "text"),
		},
		Tracing: TracingConfig{
			Enabled:        getEnvBool("KVORUM_TRACING_ENABLED", false),
			Endpoint:       getEnvString("KVORUM_TRACING_ENDPOINT", "otel-collector:4318"),
			ServiceName:    getEnvString("KVORUM_TRACING_SERVICE_NAME", "kvorum"),
			ServiceVersion: getEnvString("KVORUM_TRACING_SERVICE_VERSION", "1.0.0"),
			Environment:    getEnvString("KVORUM_TRACING_ENVIRONMENT", "development"),
			SamplingRatio:  getEnvFloat("KVORUM_TRACING_SAMPLING_RATIO", 1.0),
			InsecureConn:   getEnvBool("KVORUM_TRACING_INSECURE", true),
		},
	}

	// The leader defaults to a majority quorum over its followers when
	// WRITE_QUORUM is not set.
	if config.Cluster.Role == RoleLeader && os.Getenv("WRITE_QUORUM") == "" {
		config.Cluster.WriteQuorum = len(config.Cluster.FollowerURLs)/2 + 1
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", c.Server.Port)
	}

	switch c.Cluster.Role {
	case RoleLeader:
		if len(c.Cluster.FollowerURLs) == 0 {
			return fmt.Errorf("FOLLOWER_URLS must be set for a leader")
		}
		for _, raw := range c.Cluster.FollowerURLs {
			if err := validateBaseURL(raw); err != nil {
				return fmt.Errorf("invalid follower URL %q: %w", raw, err)
			}
		}
		if c.Cluster.WriteQuorum < 1 || c.Cluster.WriteQuorum > len(c.Cluster.FollowerURLs) {
			return fmt.Errorf("write quorum %d out of range [1, %d]",
				c.Cluster.WriteQuorum, len(c.Cluster.FollowerURLs))
		}
	case RoleFollower:
		if c.Cluster.LeaderURL != "" {
			if err := validateBaseURL(c.Cluster.LeaderURL); err != nil {
				return fmt.Errorf("invalid leader URL %q: %w", c.Cluster.LeaderURL, err)
			}
		}
	default:
		return fmt.Errorf("invalid node type: %q (must be leader or follower)", c.Cluster.Role)
	}

	if c.Replication.MinDelay < 0 {
		return fmt.Errorf("MIN_DELAY must not be negative, got %v", c.Replication.MinDelay)
	}
	if c.Replication.MaxDelay < c.Replication.MinDelay {
		return fmt.Errorf("MAX_DELAY %v is below MIN_DELAY %v",
			c.Replication.MaxDelay, c.Replication.MinDelay)
	}
	if c.Replication.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %v", c.Replication.RequestTimeout)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.Log.Format] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Log.Format)
	}

	if c.Tracing.Enabled {
		if c.Tracing.Endpoint == "" {
			return fmt.Errorf("tracing endpoint must be specified when tracing is enabled")
		}
		if c.Tracing.SamplingRatio < 0 || c.Tracing.SamplingRatio > 1 {
			return fmt.Errorf("tracing sampling ratio must be in [0, 1], got %f", c.Tracing.SamplingRatio)
		}
	}

	return nil
}

// IsLeader reports whether this node accepts writes.
func (c *Config) IsLeader() bool {
	return c.Cluster.Role == RoleLeader
}

// Address returns the server address in host:port format
func (c *Config) Address() string {
	if c.Server.Host == "" {
		return fmt.Sprintf(":%d", c.Server.Port)
	}
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// validateBaseURL checks that a node base URL is absolute with a host.
func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

// getEnvString gets a string environment variable with a default value
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvMillis reads an integer number of milliseconds
func getEnvMillis(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if ms, err := strconv.Atoi(value); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvStringSlice gets a comma-separated string environment variable as a slice
func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		result := []string{}
		for _, v := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
