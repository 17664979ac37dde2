// Package config handles interviewd configuration from a YAML file with
// defaults applied for anything unset. Environment variables override the
// file in main.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level interviewd configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Media    MediaConfig    `yaml:"media"`
	Upload   UploadConfig   `yaml:"upload"`
	LogLevel string         `yaml:"log_level"` // debug | info | warn | error
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// MediaConfig controls where saved recordings land.
type MediaConfig struct {
	Dir          string `yaml:"dir"`
	MaxChunkSize int64  `yaml:"max_chunk_size"` // bytes per uploaded recorder chunk
}

// UploadConfig points at the cloud sink for exported interviews.
type UploadConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// LoadFile reads a YAML configuration file. A missing path returns the
// defaults unchanged.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8086"
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Database.Path == "" {
		c.Database.Path = "db/interviewd.db"
	}
	if c.Media.Dir == "" {
		c.Media.Dir = "media"
	}
	if c.Media.MaxChunkSize <= 0 {
		c.Media.MaxChunkSize = 10 << 20
	}
	if c.Upload.Timeout <= 0 {
		c.Upload.Timeout = 30 * time.Second
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
