package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:feedsift.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Schedule struct {
		UpdateInterval int `yaml:"update_interval" json:"update_interval" jsonschema:"default=30,description=Feed refresh interval in minutes"`
		IngestInterval int `yaml:"ingest_interval" json:"ingest_interval" jsonschema:"default=5,description=Article ingestion interval in minutes"`
		MaxWorkers     int `yaml:"max_workers" json:"max_workers" jsonschema:"default=5,description=Maximum concurrent workers"`
	} `yaml:"schedule" json:"schedule" jsonschema:"description=Scheduler configuration"`

	Ingest IngestConfig `yaml:"ingest" json:"ingest" jsonschema:"description=URL resolution and extraction configuration"`

	Feeds []FeedConfig `yaml:"feeds" json:"feeds" jsonschema:"description=Topic feeds to ingest"`
}

// IngestConfig holds URL resolution, fetching and retry settings
type IngestConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Full request timeout per article fetch"`
	MaxRedirects int           `yaml:"max_redirects" json:"max_redirects" jsonschema:"default=8,description=Redirect hop limit per resolution"`
	MaxRetries   int           `yaml:"max_retries" json:"max_retries" jsonschema:"default=5,description=Maximum retry attempts for transient failures"`
	BaseDelay    time.Duration `yaml:"base_delay" json:"base_delay" jsonschema:"default=1m,description=Base delay for exponential retry backoff"`
	MaxDelay     time.Duration `yaml:"max_delay" json:"max_delay" jsonschema:"default=1h,description=Upper bound for a single retry delay"`
	MaxBodySize  int64         `yaml:"max_body_size" json:"max_body_size" jsonschema:"default=10485760,description=Response body cap in bytes"`
	MaxURLLength int           `yaml:"max_url_length" json:"max_url_length" jsonschema:"default=2048,description=Maximum accepted URL length"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=feedsift/1.0,description=User agent for HTTP requests"`
	ClaimTTL     time.Duration `yaml:"claim_ttl" json:"claim_ttl" jsonschema:"default=15m,description=How long a claimed article stays off-limits to other workers"`
}

// FeedConfig describes a topic feed seeded into the store at startup
type FeedConfig struct {
	Topic   string `yaml:"topic" json:"topic" jsonschema:"required,description=Topic label for articles from this feed"`
	URL     string `yaml:"url" json:"url" jsonschema:"required,description=Feed URL"`
	Limit   int    `yaml:"limit" json:"limit" jsonschema:"default=20,description=Max articles ingested per run"`
	Enabled *bool  `yaml:"enabled" json:"enabled" jsonschema:"default=true,description=Whether the feed is processed"`
}

// IsEnabled reports whether the feed is enabled, defaulting to true
func (f *FeedConfig) IsEnabled() bool {
	return f.Enabled == nil || *f.Enabled
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// set defaults for server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	// set defaults for database
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:feedsift.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	// set defaults for schedule
	if cfg.Schedule.UpdateInterval == 0 {
		cfg.Schedule.UpdateInterval = 30
	}
	if cfg.Schedule.IngestInterval == 0 {
		cfg.Schedule.IngestInterval = 5
	}
	if cfg.Schedule.MaxWorkers == 0 {
		cfg.Schedule.MaxWorkers = 5
	}

	// set defaults for ingest
	if cfg.Ingest.Timeout == 0 {
		cfg.Ingest.Timeout = 30 * time.Second
	}
	if cfg.Ingest.MaxRedirects == 0 {
		cfg.Ingest.MaxRedirects = 8
	}
	if cfg.Ingest.MaxRetries == 0 {
		cfg.Ingest.MaxRetries = 5
	}
	if cfg.Ingest.BaseDelay == 0 {
		cfg.Ingest.BaseDelay = time.Minute
	}
	if cfg.Ingest.MaxDelay == 0 {
		cfg.Ingest.MaxDelay = time.Hour
	}
	if cfg.Ingest.MaxBodySize == 0 {
		cfg.Ingest.MaxBodySize = 10 * 1024 * 1024
	}
	if cfg.Ingest.MaxURLLength == 0 {
		cfg.Ingest.MaxURLLength = 2048
	}
	if cfg.Ingest.UserAgent == "" {
		cfg.Ingest.UserAgent = "feedsift/1.0"
	}
	if cfg.Ingest.ClaimTTL == 0 {
		cfg.Ingest.ClaimTTL = 15 * time.Minute
	}

	// set defaults for feeds
	for i := range cfg.Feeds {
		if cfg.Feeds[i].Limit == 0 {
			cfg.Feeds[i].Limit = 20
		}
	}

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	// validate server config
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	// validate ingest config
	if cfg.Ingest.Timeout < time.Second {
		return fmt.Errorf("ingest timeout must be at least 1 second")
	}
	if cfg.Ingest.MaxRedirects < 1 {
		return fmt.Errorf("ingest max_redirects must be at least 1")
	}
	if cfg.Ingest.MaxRetries < 0 {
		return fmt.Errorf("ingest max_retries must be non-negative")
	}
	if cfg.Ingest.BaseDelay <= 0 {
		return fmt.Errorf("ingest base_delay must be positive")
	}
	if cfg.Ingest.MaxDelay < cfg.Ingest.BaseDelay {
		return fmt.Errorf("ingest max_delay must be at least base_delay")
	}
	if cfg.Ingest.MaxBodySize < 1024 {
		return fmt.Errorf("ingest max_body_size must be at least 1024 bytes")
	}

	// validate feeds
	for i, f := range cfg.Feeds {
		if f.Topic == "" {
			return fmt.Errorf("feeds[%d].topic is required", i)
		}
		if f.URL == "" {
			return fmt.Errorf("feeds[%d].url is required", i)
		}
		if f.Limit < 1 {
			return fmt.Errorf("feeds[%d].limit must be at least 1", i)
		}
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetIngestConfig returns URL resolution and extraction configuration
func (c *Config) GetIngestConfig() IngestConfig {
	return c.Ingest
}
