// pkg/native/selector.go
package native

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/TheFakeLorLyons/brainflow-java/pkg/platform"
)

// Candidate is a shared-library file found while scanning an expanded
// archive tree.
type Candidate struct {
	// Path is the absolute location of the file.
	Path string

	// Name is the base filename, kept for diagnostics.
	Name string
}

// Result is the outcome of a selection pass. Rejected holds the
// extension-matching files that failed the architecture filter; it exists
// purely for diagnostic reporting when Selected is empty.
type Result struct {
	Selected []Candidate
	Rejected []Candidate
}

// ArchitectureMismatchError indicates the native archive contained no
// library matching the live process architecture. It is fatal; the
// diagnostic lists every candidate that was considered and rejected.
type ArchitectureMismatchError struct {
	Triple   string
	Rejected []Candidate
}

func (e *ArchitectureMismatchError) Error() string {
	var names []string
	for _, c := range e.Rejected {
		names = append(names, c.Name)
	}
	return fmt.Sprintf("no native library matches platform %s; rejected candidates: [%s] (the cached archive may have been provisioned for a different machine; run 'brainflow-setup clear' and retry)",
		e.Triple, strings.Join(names, ", "))
}

// SearchRoots returns the plausible library locations beneath an expanded
// archive root: the root itself, the conventional lib/libs directories,
// and the triple-named directories some releases use.
func SearchRoots(root, triple string) []string {
	return []string{
		root,
		filepath.Join(root, "lib"),
		filepath.Join(root, "libs"),
		filepath.Join(root, triple),
		filepath.Join(root, "native-"+triple),
	}
}

// Select scans the search roots and returns the candidate libraries that
// match the target bitness. Candidacy is decided by filename extension,
// architecture by filename heuristics only: upstream artifacts embed arch
// tokens in their names, and a false negative here is safer than loading a
// wrong-arch binary. Matches are de-duplicated by path.
func Select(roots []string, extensions []string, bits platform.Bits) Result {
	seen := make(map[string]bool)
	var result Result

	for _, root := range roots {
		filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			if seen[path] {
				return nil
			}

			name := d.Name()
			if !hasExtension(name, extensions) {
				return nil
			}
			seen[path] = true

			c := Candidate{Path: path, Name: name}
			if matchesBits(name, bits) {
				result.Selected = append(result.Selected, c)
			} else {
				result.Rejected = append(result.Rejected, c)
			}
			return nil
		})
	}

	sort.Slice(result.Selected, func(i, j int) bool { return result.Selected[i].Path < result.Selected[j].Path })
	sort.Slice(result.Rejected, func(i, j int) bool { return result.Rejected[i].Path < result.Rejected[j].Path })
	return result
}

func hasExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// matchesBits applies the filename bitness heuristic. Names carrying no
// architecture token at all are treated as compatible with either target;
// the upstream naming scheme depends on that default.
func matchesBits(name string, bits platform.Bits) bool {
	lower := strings.ToLower(name)

	has32 := strings.Contains(lower, "32") || strings.Contains(lower, "x86")
	has64 := strings.Contains(lower, "64") || strings.Contains(lower, "x64") || strings.Contains(lower, "amd64")

	if bits == platform.Bits32 {
		return has32 || !has64
	}
	return has64 || !has32
}
