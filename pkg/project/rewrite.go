// pkg/project/rewrite.go
package project

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the project metadata file rewritten after a successful
// smoke test.
const DefaultFile = "brainflow.yml"

// Metadata records where the provisioned artifacts live so future runs can
// skip the network entirely.
type Metadata struct {
	Version    string    `yaml:"version"`
	Jar        string    `yaml:"jar"`
	NativesDir string    `yaml:"natives_dir"`
	UpdatedAt  time.Time `yaml:"updated_at"`
}

// Rewrite writes the metadata file, best effort: it is a one-time
// convenience side effect, never part of the initialization contract, so
// callers log failures instead of propagating them.
func Rewrite(path string, meta Metadata, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if path == "" {
		path = DefaultFile
	}

	data, err := yaml.Marshal(&meta)
	if err != nil {
		return fmt.Errorf("marshaling project metadata: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating project directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing project metadata: %w", err)
	}

	logger.Printf("✓ Project metadata written to %s", path)
	return nil
}

// Load reads a previously written metadata file.
func Load(path string) (*Metadata, error) {
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project metadata: %w", err)
	}

	var meta Metadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing project metadata: %w", err)
	}
	return &meta, nil
}
