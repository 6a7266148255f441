// pkg/native/loader.go
package native

import "errors"

// Handle is an opaque reference to a loaded shared library.
type Handle uintptr

// ErrNoDefaultNamespace is returned by loaders whose platform has no
// process-wide symbol namespace to search (Windows).
var ErrNoDefaultNamespace = errors.New("no default symbol namespace on this platform")

// Loader is the dynamic-loading capability of the host platform. The real
// implementations live in the per-OS loader files; tests substitute fakes.
type Loader interface {
	// Open loads the shared library at path into the process, making its
	// exported symbols available process-wide where the platform allows.
	Open(path string) (Handle, error)

	// Lookup resolves a symbol through a previously opened handle.
	Lookup(h Handle, symbol string) (uintptr, error)

	// LookupDefault resolves a symbol through the process default
	// namespace, covering libraries that were loaded before this run.
	// Returns ErrNoDefaultNamespace where unsupported.
	LookupDefault(symbol string) (uintptr, error)
}

// SystemLoader returns the dynamic loader for the running OS.
func SystemLoader() Loader {
	return newSystemLoader()
}
