//go:build windows

// pkg/native/loader_windows.go
package native

import (
	"golang.org/x/sys/windows"
)

// dllLoader loads libraries through LoadLibraryEx with the altered search
// path so a DLL's siblings in the natives directory satisfy its imports.
type dllLoader struct{}

func newSystemLoader() Loader {
	return dllLoader{}
}

func (dllLoader) Open(path string) (Handle, error) {
	h, err := windows.LoadLibraryEx(path, 0, windows.LOAD_WITH_ALTERED_SEARCH_PATH)
	if err != nil {
		return 0, err
	}
	return Handle(h), nil
}

func (dllLoader) Lookup(h Handle, symbol string) (uintptr, error) {
	addr, err := windows.GetProcAddress(windows.Handle(h), symbol)
	if err != nil {
		return 0, err
	}
	return addr, nil
}

func (dllLoader) LookupDefault(symbol string) (uintptr, error) {
	// Windows has no dlopen-style default namespace; resolution goes
	// through explicit module handles only.
	return 0, ErrNoDefaultNamespace
}
