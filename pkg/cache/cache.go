// pkg/cache/cache.go
package cache

import (
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
)

// DefaultDirName is the per-user cache directory under the home directory.
const DefaultDirName = ".brainflow"

// Cache is the versioned on-disk store for downloaded archives and the
// filtered native libraries that survive selection. Contents are created
// lazily and never removed except by an explicit Clear.
type Cache struct {
	root   string
	logger *log.Logger
}

// New creates a cache rooted at root. An empty root selects
// ~/.brainflow, falling back to the system temp directory when the home
// directory cannot be determined.
func New(root string, logger *log.Logger) *Cache {
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			root = filepath.Join(os.TempDir(), DefaultDirName)
		} else {
			root = filepath.Join(home, DefaultDirName)
		}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Cache{root: root, logger: logger}
}

// Root returns the cache root directory.
func (c *Cache) Root() string {
	return c.root
}

// Dir returns the directory for a version, creating the full path chain if
// absent. Idempotent.
func (c *Cache) Dir(version string) (string, error) {
	dir := filepath.Join(c.root, version)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}
	return dir, nil
}

// ArtifactPath returns the location a named artifact occupies inside a
// version's cache directory. It does not create anything.
func (c *Cache) ArtifactPath(version, name string) string {
	return filepath.Join(c.root, version, name)
}

// NativesDir returns the directory holding the selected native libraries
// for a version and platform triple. It does not create anything.
func (c *Cache) NativesDir(version, triple string) string {
	return filepath.Join(c.root, version, "natives", triple)
}

// IsValid reports whether path holds a plausible complete artifact: it
// exists, is a regular file, and is strictly larger than minBytes. This is
// a cheap corruption guard, not an integrity check.
func (c *Cache) IsValid(path string, minBytes int64) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if !info.Mode().IsRegular() {
		return false
	}
	return info.Size() > minBytes
}

// Clear removes everything cached for a version: files first, then the
// emptied directories, deepest first. Used for forced re-provisioning only,
// never automatically.
func (c *Cache) Clear(version string) error {
	dir := filepath.Join(c.root, version)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}

	var files, dirs []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		} else {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scanning cache: %w", err)
	}

	for _, f := range files {
		if err := os.Remove(f); err != nil {
			return fmt.Errorf("removing %s: %w", f, err)
		}
	}

	// Deepest directories first so each is empty by the time it is removed.
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })
	for _, d := range dirs {
		if err := os.Remove(d); err != nil {
			return fmt.Errorf("removing %s: %w", d, err)
		}
	}

	c.logger.Printf("Cleared cache for version %s (%d files)", version, len(files))
	return nil
}
