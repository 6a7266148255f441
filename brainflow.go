// brainflow.go
package brainflow

import (
	"context"
	"sync"

	"github.com/TheFakeLorLyons/brainflow-java/pkg/bootstrap"
	"github.com/TheFakeLorLyons/brainflow-java/pkg/native"
	"github.com/TheFakeLorLyons/brainflow-java/pkg/platform"
)

// Re-export the core types for convenience
type (
	Config    = bootstrap.Config
	Gate      = bootstrap.Gate
	State     = bootstrap.State
	Identity  = platform.Identity
	Candidate = native.Candidate
)

// Re-export lifecycle states
const (
	StateUninitialized = bootstrap.StateUninitialized
	StateInitializing  = bootstrap.StateInitializing
	StateReady         = bootstrap.StateReady
	StateFailed        = bootstrap.StateFailed
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return bootstrap.DefaultConfig()
}

// NewGate creates an independent initialization gate. Libraries embedding
// brainflow in a larger process construct their own gate; the package-level
// functions below share one process-wide gate.
func NewGate(cfg *Config, opts ...bootstrap.Option) *Gate {
	return bootstrap.NewGate(cfg, opts...)
}

var (
	defaultGate *bootstrap.Gate
	gateOnce    sync.Once
)

func sharedGate() *bootstrap.Gate {
	gateOnce.Do(func() {
		cfg, err := bootstrap.LoadConfig("")
		if err != nil {
			cfg = bootstrap.DefaultConfig()
		}
		defaultGate = bootstrap.NewGate(cfg)
	})
	return defaultGate
}

// Initialize provisions the brainflow artifacts for this process: platform
// resolution, download/cache, native selection, injection and
// verification. Safe to call from any number of goroutines; the work runs
// at most once and the outcome is memoized for the process lifetime.
func Initialize(ctx context.Context) error {
	return sharedGate().Initialize(ctx)
}

// Clear removes the cached artifacts for the pinned version and re-arms
// initialization after a permanent failure.
func Clear() error {
	return sharedGate().Clear()
}

// CurrentState reports the shared gate's lifecycle position.
func CurrentState() State {
	return sharedGate().State()
}

// JarPath returns the provisioned managed-archive path, empty until Ready.
func JarPath() string {
	return sharedGate().JarPath()
}

// NativesDir returns the provisioned native-library directory, empty until
// Ready.
func NativesDir() string {
	return sharedGate().NativesDir()
}
