// pkg/native/selector_test.go
package native

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheFakeLorLyons/brainflow-java/pkg/platform"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0755))
}

func names(cs []Candidate) []string {
	var out []string
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}

func TestSelect(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "lib", "libboard64.so"))
	touch(t, filepath.Join(root, "lib", "libboardx86.so"))
	touch(t, filepath.Join(root, "lib", "libgeneric.so"))
	touch(t, filepath.Join(root, "lib", "readme.txt"))

	roots := SearchRoots(root, "linux-x86-64")

	t.Run("64-bit target", func(t *testing.T) {
		r := Select(roots, []string{".so"}, platform.Bits64)
		assert.ElementsMatch(t, []string{"libboard64.so", "libgeneric.so"}, names(r.Selected))
		assert.ElementsMatch(t, []string{"libboardx86.so"}, names(r.Rejected))
	})

	t.Run("32-bit target", func(t *testing.T) {
		r := Select(roots, []string{".so"}, platform.Bits32)
		assert.ElementsMatch(t, []string{"libboardx86.so", "libgeneric.so"}, names(r.Selected))
		assert.ElementsMatch(t, []string{"libboard64.so"}, names(r.Rejected))
	})
}

func TestSelectDeduplicatesOverlappingRoots(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "lib", "libonce.so"))

	// root and root/lib both cover the same file
	r := Select([]string{root, filepath.Join(root, "lib")}, []string{".so"}, platform.Bits64)
	assert.Len(t, r.Selected, 1)
}

func TestSelectExtensionFilter(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "libboard.so"))
	touch(t, filepath.Join(root, "libboard.dylib"))
	touch(t, filepath.Join(root, "BoardController.dll"))

	r := Select([]string{root}, []string{".dylib"}, platform.Bits64)
	assert.ElementsMatch(t, []string{"libboard.dylib"}, names(r.Selected))
	assert.Empty(t, r.Rejected)
}

func TestSelectMissingRoots(t *testing.T) {
	r := Select(SearchRoots(filepath.Join(t.TempDir(), "nope"), "linux-x86-64"), []string{".so"}, platform.Bits64)
	assert.Empty(t, r.Selected)
	assert.Empty(t, r.Rejected)
}

func TestMatchesBits(t *testing.T) {
	tests := []struct {
		name   string
		bits   platform.Bits
		want   bool
	}{
		{"libBoardController64.so", platform.Bits64, true},
		{"libBoardController64.so", platform.Bits32, false},
		{"libBoardController_x64.dll", platform.Bits64, true},
		{"libBoardController32.so", platform.Bits32, true},
		{"libBoardController32.so", platform.Bits64, false},
		{"libBoardController_x86.dll", platform.Bits32, true},
		{"libBoardController.so", platform.Bits64, true},
		{"libBoardController.so", platform.Bits32, true},
		{"libGanglionLib_amd64.so", platform.Bits64, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesBits(tt.name, tt.bits))
		})
	}
}

func TestArchitectureMismatchErrorMessage(t *testing.T) {
	err := &ArchitectureMismatchError{
		Triple:   "linux-x86-64",
		Rejected: []Candidate{{Name: "libboard32.so"}},
	}
	assert.Contains(t, err.Error(), "linux-x86-64")
	assert.Contains(t, err.Error(), "libboard32.so")
	assert.Contains(t, err.Error(), "brainflow-setup clear")
}
