package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yml")
	err := os.WriteFile(configPath, []byte(content), 0o644)
	require.NoError(t, err)
	return configPath
}

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		configContent := `
server:
  listen: ":9090"
  timeout: 45s

ingest:
  timeout: 20s
  max_redirects: 5
  max_retries: 3
  base_delay: 30s
  max_delay: 2h

feeds:
  - topic: technology
    url: https://example.com/feeds/technology.xml
    limit: 10
  - topic: business
    url: https://example.com/feeds/business.xml
    enabled: false
`
		cfg, err := Load(writeConfig(t, configContent))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)

		assert.Equal(t, 20*time.Second, cfg.Ingest.Timeout)
		assert.Equal(t, 5, cfg.Ingest.MaxRedirects)
		assert.Equal(t, 3, cfg.Ingest.MaxRetries)
		assert.Equal(t, 30*time.Second, cfg.Ingest.BaseDelay)
		assert.Equal(t, 2*time.Hour, cfg.Ingest.MaxDelay)

		require.Len(t, cfg.Feeds, 2)
		assert.Equal(t, "technology", cfg.Feeds[0].Topic)
		assert.Equal(t, "https://example.com/feeds/technology.xml", cfg.Feeds[0].URL)
		assert.Equal(t, 10, cfg.Feeds[0].Limit)
		assert.True(t, cfg.Feeds[0].IsEnabled())

		assert.Equal(t, "business", cfg.Feeds[1].Topic)
		assert.Equal(t, 20, cfg.Feeds[1].Limit, "limit defaults when omitted")
		assert.False(t, cfg.Feeds[1].IsEnabled())
	})

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "feeds: []\n"))
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.Server.Listen)
		assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
		assert.Equal(t, 10, cfg.Database.MaxOpenConns)
		assert.Equal(t, 30, cfg.Schedule.UpdateInterval)
		assert.Equal(t, 5, cfg.Schedule.IngestInterval)
		assert.Equal(t, 5, cfg.Schedule.MaxWorkers)
		assert.Equal(t, 30*time.Second, cfg.Ingest.Timeout)
		assert.Equal(t, 8, cfg.Ingest.MaxRedirects)
		assert.Equal(t, 5, cfg.Ingest.MaxRetries)
		assert.Equal(t, time.Minute, cfg.Ingest.BaseDelay)
		assert.Equal(t, time.Hour, cfg.Ingest.MaxDelay)
		assert.Equal(t, int64(10*1024*1024), cfg.Ingest.MaxBodySize)
		assert.Equal(t, 2048, cfg.Ingest.MaxURLLength)
		assert.Equal(t, "feedsift/1.0", cfg.Ingest.UserAgent)
		assert.Equal(t, 15*time.Minute, cfg.Ingest.ClaimTTL)
	})

	t.Run("env expansion", func(t *testing.T) {
		t.Setenv("TEST_FEED_URL", "https://env.example.com/feed.xml")
		configContent := `
feeds:
  - topic: news
    url: ${TEST_FEED_URL}
`
		cfg, err := Load(writeConfig(t, configContent))
		require.NoError(t, err)
		require.Len(t, cfg.Feeds, 1)
		assert.Equal(t, "https://env.example.com/feed.xml", cfg.Feeds[0].URL)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load("/nonexistent/config.yml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "server: [broken"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "feed missing topic",
			content: "feeds:\n  - url: https://example.com/feed.xml\n",
			wantErr: "feeds[0].topic is required",
		},
		{
			name:    "feed missing url",
			content: "feeds:\n  - topic: news\n",
			wantErr: "feeds[0].url is required",
		},
		{
			name:    "server timeout too short",
			content: "server:\n  timeout: 1ms\n",
			wantErr: "server timeout must be at least 1 second",
		},
		{
			name:    "max_delay below base_delay",
			content: "ingest:\n  base_delay: 1h\n  max_delay: 1m\n",
			wantErr: "max_delay must be at least base_delay",
		},
		{
			name:    "body cap too small",
			content: "ingest:\n  max_body_size: 10\n",
			wantErr: "max_body_size must be at least 1024 bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerateSchema(t *testing.T) {
	schema, err := GenerateSchema()
	require.NoError(t, err)
	require.NotNil(t, schema)
}

func TestVerifyAgainstEmbeddedSchema(t *testing.T) {
	cfg, err := Load(writeConfig(t, "feeds: []\n"))
	require.NoError(t, err)
	assert.NoError(t, VerifyAgainstEmbeddedSchema(cfg))
}
