// pkg/native/searchpath.go
package native

import (
	"os"
	"strings"

	"github.com/TheFakeLorLyons/brainflow-java/pkg/platform"
)

// SearchPathVar returns the environment variable the OS consults when
// resolving shared-library dependencies.
func SearchPathVar(osf platform.OSFamily) string {
	switch osf {
	case platform.OSMacOS:
		return "DYLD_LIBRARY_PATH"
	case platform.OSWindows:
		return "PATH"
	default:
		return "LD_LIBRARY_PATH"
	}
}

// AppendSearchPath appends dir to the process-wide native library search
// path. The mutation is additive: existing entries are preserved and dir is
// never added twice, so repeated initialization attempts within one process
// cannot grow the variable. This is a fallback for libraries the managed
// code loads indirectly by bare name; directly selected libraries are
// loaded by absolute path.
func AppendSearchPath(osf platform.OSFamily, dir string) error {
	key := SearchPathVar(osf)
	sep := string(os.PathListSeparator)

	current := os.Getenv(key)
	for _, entry := range strings.Split(current, sep) {
		if entry == dir {
			return nil
		}
	}

	value := dir
	if current != "" {
		value = current + sep + dir
	}
	return os.Setenv(key, value)
}
