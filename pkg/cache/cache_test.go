// pkg/cache/cache_test.go
package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirIsIdempotent(t *testing.T) {
	c := New(t.TempDir(), nil)

	first, err := c.Dir("5.16.0")
	require.NoError(t, err)

	second, err := c.Dir("5.16.0")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	info, err := os.Stat(first)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestArtifactPath(t *testing.T) {
	root := t.TempDir()
	c := New(root, nil)

	got := c.ArtifactPath("5.16.0", "brainflow.jar")
	assert.Equal(t, filepath.Join(root, "5.16.0", "brainflow.jar"), got)

	// No side effects
	_, err := os.Stat(filepath.Join(root, "5.16.0"))
	assert.True(t, os.IsNotExist(err))
}

func TestNativesDir(t *testing.T) {
	root := t.TempDir()
	c := New(root, nil)

	got := c.NativesDir("5.16.0", "linux-x86-64")
	assert.Equal(t, filepath.Join(root, "5.16.0", "natives", "linux-x86-64"), got)
}

func TestIsValid(t *testing.T) {
	root := t.TempDir()
	c := New(root, nil)

	write := func(name string, size int) string {
		path := filepath.Join(root, name)
		require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
		return path
	}

	tests := []struct {
		name     string
		path     string
		minBytes int64
		want     bool
	}{
		{"missing file", filepath.Join(root, "nope"), 0, false},
		{"zero byte file", write("empty", 0), 0, false},
		{"exactly at threshold", write("exact", 100), 100, false},
		{"above threshold", write("good", 101), 100, true},
		{"directory", root, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsValid(tt.path, tt.minBytes))
		})
	}
}

func TestClear(t *testing.T) {
	root := t.TempDir()
	c := New(root, nil)

	dir, err := c.Dir("5.16.0")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "natives", "linux-x86-64"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "archive.tar.gz"), []byte("data"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "natives", "linux-x86-64", "lib.so"), []byte("data"), 0644))

	// Another version must survive
	other, err := c.Dir("5.15.0")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(other, "keep.jar"), []byte("data"), 0644))

	require.NoError(t, c.Clear("5.16.0"))

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(other, "keep.jar"))
	assert.NoError(t, err)
}

func TestClearMissingVersion(t *testing.T) {
	c := New(t.TempDir(), nil)
	assert.NoError(t, c.Clear("9.9.9"))
}

func TestNewDefaultsRoot(t *testing.T) {
	c := New("", nil)
	assert.NotEmpty(t, c.Root())
	assert.Equal(t, DefaultDirName, filepath.Base(c.Root()))
}
