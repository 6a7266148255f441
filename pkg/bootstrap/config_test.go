// pkg/bootstrap/config_test.go
package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultVersion, cfg.Version)
	assert.Equal(t, 5*time.Minute, cfg.DownloadTimeout())
	assert.Equal(t, 20*time.Minute, cfg.InstallTimeout())
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		version string
		wantErr bool
	}{
		{"5.16.0", false},
		{"5.16.0-rc.1", false},
		{"not-a-version", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Version = tt.version
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTimeoutAccessorsRejectNonPositive(t *testing.T) {
	cfg := &Config{DownloadTimeoutSecs: -1, InstallTimeoutSecs: 0}
	assert.Equal(t, 5*time.Minute, cfg.DownloadTimeout())
	assert.Equal(t, 20*time.Minute, cfg.InstallTimeout())

	cfg = &Config{DownloadTimeoutSecs: 30, InstallTimeoutSecs: 60}
	assert.Equal(t, 30*time.Second, cfg.DownloadTimeout())
	assert.Equal(t, time.Minute, cfg.InstallTimeout())
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: [not closed"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Version = "5.17.0"
	cfg.CacheRoot = "/opt/brainflow-cache"
	cfg.DownloadTimeoutSecs = 60
	cfg.Debug = true

	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "5.17.0", loaded.Version)
	assert.Equal(t, "/opt/brainflow-cache", loaded.CacheRoot)
	assert.Equal(t, 60, loaded.DownloadTimeoutSecs)
	assert.True(t, loaded.Debug)
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 5.17.0\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "5.17.0", cfg.Version)
	assert.Equal(t, DefaultConfig().DownloadTimeoutSecs, cfg.DownloadTimeoutSecs)
}
