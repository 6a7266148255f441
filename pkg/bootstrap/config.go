// pkg/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// DefaultVersion is the install-time product version pin.
const DefaultVersion = "5.16.0"

// Config holds bootstrap configuration
type Config struct {
	// Version is the release version pin artifacts are fetched for.
	Version string `yaml:"version"`

	// ReleaseBase overrides the remote release root. Empty selects the
	// default.
	ReleaseBase string `yaml:"release_base"`

	// CacheRoot overrides the local cache root. Empty selects
	// ~/.brainflow.
	CacheRoot string `yaml:"cache_root"`

	// DownloadTimeoutSecs bounds each artifact transfer.
	DownloadTimeoutSecs int `yaml:"download_timeout_seconds"`

	// InstallTimeoutSecs bounds each prerequisite install subprocess.
	InstallTimeoutSecs int `yaml:"install_timeout_seconds"`

	// Debug enables debug logging
	Debug bool `yaml:"debug"`

	// Logger for custom logging
	Logger *log.Logger `yaml:"-"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version:             DefaultVersion,
		DownloadTimeoutSecs: 300,
		InstallTimeoutSecs:  1200,
	}
}

// DownloadTimeout returns the transfer bound as a duration.
func (c *Config) DownloadTimeout() time.Duration {
	if c.DownloadTimeoutSecs <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.DownloadTimeoutSecs) * time.Second
}

// InstallTimeout returns the prerequisite-install bound as a duration.
func (c *Config) InstallTimeout() time.Duration {
	if c.InstallTimeoutSecs <= 0 {
		return 20 * time.Minute
	}
	return time.Duration(c.InstallTimeoutSecs) * time.Second
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if _, err := semver.NewVersion(c.Version); err != nil {
		return fmt.Errorf("invalid version pin %q: %w", c.Version, err)
	}
	return nil
}

// LoadConfig loads configuration from file. A missing file yields the
// defaults; a malformed one is an error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = filepath.Join(home, ".config", "brainflow", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		path = filepath.Join(home, ".config", "brainflow", "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// logger resolves the effective logger: an explicit logger wins, debug
// mode logs to stdout, otherwise output is discarded.
func (c *Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	if c.Debug {
		return log.New(os.Stdout, "[BRAINFLOW] ", log.LstdFlags)
	}
	return newDiscardLogger()
}
