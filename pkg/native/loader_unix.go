//go:build darwin || linux

// pkg/native/loader_unix.go
package native

import (
	"github.com/ebitengine/purego"
)

// dlLoader loads shared libraries through dlopen. RTLD_GLOBAL makes each
// library's symbols visible to the ones loaded after it, which the
// inter-dependent upstream libraries rely on.
type dlLoader struct{}

func newSystemLoader() Loader {
	return dlLoader{}
}

func (dlLoader) Open(path string) (Handle, error) {
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, err
	}
	return Handle(h), nil
}

func (dlLoader) Lookup(h Handle, symbol string) (uintptr, error) {
	return purego.Dlsym(uintptr(h), symbol)
}

func (dlLoader) LookupDefault(symbol string) (uintptr, error) {
	return purego.Dlsym(purego.RTLD_DEFAULT, symbol)
}
