// Package config loads daemon configuration from a TOML file.
//
// Configuration lives at ~/.mydata/config.toml. A missing file is not an
// error: every field has a working default so a fresh install runs with
// no setup beyond a local Ollama and Qdrant.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Defaults.
const (
	DefaultListenAddr = "127.0.0.1:8000"
	DefaultQdrantAddr = "localhost:6334"
)

// Config is the full daemon configuration.
type Config struct {
	// ListenAddr is the HTTP listen address.
	ListenAddr string `toml:"listen_addr"`

	// DataDir holds the metadata database and summaries. Defaults to
	// ~/.mydata.
	DataDir string `toml:"data_dir"`

	Embedding Embedding `toml:"embedding"`
	Qdrant    Qdrant    `toml:"qdrant"`
	Cache     Cache     `toml:"cache"`
	Watcher   Watcher   `toml:"watcher"`
	Reconcile Reconcile `toml:"reconcile"`
}

// Embedding configures the Ollama embedding backend.
type Embedding struct {
	BaseURL     string `toml:"base_url"`
	Model       string `toml:"model"`
	Dimensions  int    `toml:"dimensions"`
	TimeoutSecs int    `toml:"timeout_secs"`
	RequestRate int    `toml:"request_rate"`
}

// Qdrant configures the vector index connection.
type Qdrant struct {
	// Addr is the gRPC address of the Qdrant server.
	Addr string `toml:"addr"`
}

// Cache configures the response cache.
type Cache struct {
	// TTLSecs is how long cached responses stay fresh. Zero means the
	// default; negative disables caching.
	TTLSecs int `toml:"ttl_secs"`
}

// Watcher configures drop-directory ingestion.
type Watcher struct {
	// Dir is the directory watched for new files. Empty disables the
	// watcher.
	Dir string `toml:"dir"`
}

// Reconcile configures the background index reconciler.
type Reconcile struct {
	// IntervalSecs is the period between full passes. Zero means the
	// default.
	IntervalSecs int `toml:"interval_secs"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		ListenAddr: DefaultListenAddr,
		Qdrant:     Qdrant{Addr: DefaultQdrantAddr},
	}
}

// Load reads configuration from the given path. An empty path means
// ~/.mydata/config.toml. A missing file yields defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".mydata", "config.toml")
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills zero-valued fields after parsing.
func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.Qdrant.Addr == "" {
		c.Qdrant.Addr = DefaultQdrantAddr
	}
}

// ResolveDataDir returns the configured data directory, defaulting to
// ~/.mydata.
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".mydata"), nil
}

// SummariesDir returns the directory summary files live in.
func (c *Config) SummariesDir() (string, error) {
	dataDir, err := c.ResolveDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "summaries"), nil
}

// EmbeddingTimeout returns the configured embedding timeout as a
// duration, zero when unset.
func (c *Config) EmbeddingTimeout() time.Duration {
	return time.Duration(c.Embedding.TimeoutSecs) * time.Second
}

// CacheTTL returns the configured cache TTL, zero when unset and
// negative when caching is disabled.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSecs) * time.Second
}

// ReconcileInterval returns the configured reconcile interval, zero when
// unset.
func (c *Config) ReconcileInterval() time.Duration {
	return time.Duration(c.Reconcile.IntervalSecs) * time.Second
}
