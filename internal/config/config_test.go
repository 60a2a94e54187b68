package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 6, cfg.Crawler.Workers)
	assert.Equal(t, 1, cfg.Crawler.MaxDepth)
	assert.Equal(t, 5, cfg.Crawler.LinkLimit)
	assert.Equal(t, 20, cfg.Crawler.NavTimeoutSeconds)
	assert.Equal(t, 64, cfg.Crawler.ResultsBuffer)
	assert.Equal(t, "harvester-bot/0.1", cfg.Crawler.UserAgent)
	assert.Zero(t, cfg.Crawler.DomainQPS)
	assert.False(t, cfg.Crawler.Headful)
	assert.Empty(t, cfg.DB.DSN)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 20*time.Second, cfg.NavTimeout())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9090
crawler:
  workers: 2
  max_depth: 3
  user_agent: "custom-bot/1.0"
db:
  dsn: "postgres://localhost/harvester"
logging:
  development: false
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2, cfg.Crawler.Workers)
	assert.Equal(t, 3, cfg.Crawler.MaxDepth)
	assert.Equal(t, "custom-bot/1.0", cfg.Crawler.UserAgent)
	// Defaults still apply for keys the file omits.
	assert.Equal(t, 5, cfg.Crawler.LinkLimit)
	assert.Equal(t, "postgres://localhost/harvester", cfg.DB.DSN)
	assert.False(t, cfg.Logging.Development)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := Config{
		Server:  ServerConfig{Port: 8080},
		Crawler: CrawlerConfig{Workers: 6, MaxDepth: 1, LinkLimit: 5, NavTimeoutSeconds: 20, UserAgent: "bot"},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"zero workers", func(c *Config) { c.Crawler.Workers = 0 }, "crawler.workers"},
		{"negative depth", func(c *Config) { c.Crawler.MaxDepth = -1 }, "crawler.max_depth"},
		{"zero link limit", func(c *Config) { c.Crawler.LinkLimit = 0 }, "crawler.link_limit"},
		{"zero nav timeout", func(c *Config) { c.Crawler.NavTimeoutSeconds = 0 }, "crawler.nav_timeout_seconds"},
		{"empty user agent", func(c *Config) { c.Crawler.UserAgent = "" }, "crawler.user_agent"},
		{"negative qps", func(c *Config) { c.Crawler.DomainQPS = -1 }, "crawler.domain_qps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
