// pkg/native/verifier.go
package native

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// EntryPoints are the symbols whose resolution proves the injected
// libraries are load-bearing.
var EntryPoints = []string{
	"prepare_session",
	"get_board_data_count",
	"release_session",
}

// VerificationError indicates an expected entry point did not resolve even
// though injection reported success.
type VerificationError struct {
	EntryPoint string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("entry point %q did not resolve after injection; the cached artifacts are likely corrupted or partially downloaded (run 'brainflow-setup clear' and retry)", e.EntryPoint)
}

// Verifier proves injected libraries are usable by resolving known entry
// points. A successful resolution caches the handle that worked so later
// lookups in the same process skip the search.
type Verifier struct {
	loader Loader
	logger *log.Logger

	mu        sync.Mutex
	cached    Handle
	hasCached bool
}

// NewVerifier creates a verifier over the given loader.
func NewVerifier(loader Loader, logger *log.Logger) *Verifier {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Verifier{loader: loader, logger: logger}
}

// Verify resolves every entry point through, in order, the process default
// namespace, the freshly injected handles, and a handle cached by an
// earlier success. It fails fast on the first unresolved entry point: a
// verification failure is already terminal for the initialization attempt,
// so checking the rest would only add noise.
func (v *Verifier) Verify(handles []Handle, entryPoints []string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, ep := range entryPoints {
		h, ok := v.resolve(handles, ep)
		if !ok {
			return &VerificationError{EntryPoint: ep}
		}
		if h != 0 {
			v.cached = h
			v.hasCached = true
		}
		v.logger.Printf("✓ Entry point %s resolved", ep)
	}
	return nil
}

// Probe reports whether every entry point already resolves without any new
// injection. This is the no-download fast path for processes whose
// environment was configured out of band.
func (v *Verifier) Probe(entryPoints []string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, ep := range entryPoints {
		if _, ok := v.resolve(nil, ep); !ok {
			return false
		}
	}
	return true
}

// CachedHandle returns the handle that satisfied the last successful
// verification, if any. Safe to call without external locking once the
// initialization sequence has completed.
func (v *Verifier) CachedHandle() (Handle, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cached, v.hasCached
}

func (v *Verifier) resolve(handles []Handle, symbol string) (Handle, bool) {
	if _, err := v.loader.LookupDefault(symbol); err == nil {
		return 0, true
	}
	for _, h := range handles {
		if _, err := v.loader.Lookup(h, symbol); err == nil {
			return h, true
		}
	}
	if v.hasCached {
		if _, err := v.loader.Lookup(v.cached, symbol); err == nil {
			return v.cached, true
		}
	}
	return 0, false
}
