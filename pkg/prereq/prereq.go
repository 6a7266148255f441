// pkg/prereq/prereq.go
package prereq

import (
	"context"
	"io"
	"log"
	"os/exec"
	"sort"
	"time"
)

// Mechanism is how a missing prerequisite gets installed.
type Mechanism string

const (
	// MechanismPackageManager installs through the host package manager
	MechanismPackageManager Mechanism = "package-manager"
	// MechanismDirectDownload downloads an installer and runs it elevated
	MechanismDirectDownload Mechanism = "direct-download"
	// MechanismCommand runs a raw command invocation
	MechanismCommand Mechanism = "command"
)

// Dependency describes one host OS-level prerequisite of the native
// libraries: USB access libraries, the C++ runtime, build tooling.
type Dependency struct {
	// Name identifies the prerequisite in diagnostics.
	Name string

	// Required prerequisites abort initialization when they cannot be
	// satisfied; optional ones are logged and skipped.
	Required bool

	// Priority orders installation attempts, lowest first.
	Priority int

	// Mechanism documents how Installers operate.
	Mechanism Mechanism

	// Detect reports whether the prerequisite is already satisfied.
	Detect func() bool

	// Installers are candidate install command lines in preference order;
	// the first whose binary is on PATH is used.
	Installers [][]string
}

// Config holds prerequisite-check configuration
type Config struct {
	// InstallTimeout bounds each install subprocess. Slow installers
	// (full toolchains, runtime redistributables) can run for a long
	// time, so the default is generous.
	InstallTimeout time.Duration

	// Logger for diagnostics
	Logger *log.Logger
}

// Checker verifies and, best effort, satisfies host prerequisites before
// any artifact download happens.
type Checker struct {
	deps    []Dependency
	timeout time.Duration
	logger  *log.Logger
}

// NewChecker creates a checker over a dependency set.
func NewChecker(deps []Dependency, cfg *Config) *Checker {
	if cfg == nil {
		cfg = &Config{}
	}
	timeout := cfg.InstallTimeout
	if timeout == 0 {
		timeout = 20 * time.Minute
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	sorted := make([]Dependency, len(deps))
	copy(sorted, deps)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })

	return &Checker{deps: sorted, timeout: timeout, logger: logger}
}

// Ensure checks every dependency in priority order, attempting installation
// for the missing ones. It returns false as soon as a required dependency
// cannot be satisfied, so the caller fails fast before any network
// transfer. Optional failures are logged and do not abort.
func (c *Checker) Ensure(ctx context.Context) bool {
	for _, dep := range c.deps {
		if dep.Detect != nil && dep.Detect() {
			c.logger.Printf("✓ Prerequisite %s present", dep.Name)
			continue
		}

		if c.install(ctx, dep) {
			continue
		}

		if dep.Required {
			c.logger.Printf("✗ Required prerequisite %s is missing and could not be installed", dep.Name)
			return false
		}
		c.logger.Printf("Optional prerequisite %s unavailable, continuing", dep.Name)
	}
	return true
}

func (c *Checker) install(ctx context.Context, dep Dependency) bool {
	for _, argv := range dep.Installers {
		if len(argv) == 0 {
			continue
		}
		if !commandExists(argv[0]) {
			continue
		}

		c.logger.Printf("Installing %s via %s (%v)", dep.Name, dep.Mechanism, argv)
		cmdCtx, cancel := context.WithTimeout(ctx, c.timeout)
		cmd := exec.CommandContext(cmdCtx, argv[0], argv[1:]...)
		err := cmd.Run()
		cancel()
		if err != nil {
			c.logger.Printf("Installer %s failed: %v", argv[0], err)
			continue
		}

		if dep.Detect == nil || dep.Detect() {
			c.logger.Printf("✓ Installed prerequisite %s", dep.Name)
			return true
		}
	}
	return false
}

// commandExists checks if a command is available in PATH
func commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}
