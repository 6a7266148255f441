// pkg/bootstrap/gate.go
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/TheFakeLorLyons/brainflow-java/pkg/archive"
	"github.com/TheFakeLorLyons/brainflow-java/pkg/artifact"
	"github.com/TheFakeLorLyons/brainflow-java/pkg/cache"
	"github.com/TheFakeLorLyons/brainflow-java/pkg/download"
	"github.com/TheFakeLorLyons/brainflow-java/pkg/native"
	"github.com/TheFakeLorLyons/brainflow-java/pkg/platform"
	"github.com/TheFakeLorLyons/brainflow-java/pkg/prereq"
)

// State is the initialization lifecycle position. Transitions are
// monotonic: Uninitialized -> Initializing -> Ready or Failed, and the
// terminal states stick for the process lifetime.
type State int

const (
	// StateUninitialized means no initialization attempt has started
	StateUninitialized State = iota
	// StateInitializing means the sequence is running under the lock
	StateInitializing
	// StateReady means initialization completed and is memoized
	StateReady
	// StateFailed means initialization failed and the cause is memoized
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "invalid"
	}
}

// RepeatedInitializationError wraps the memoized cause of an earlier failed
// attempt. Initialization is not retried automatically; the caller must
// clear cached state first.
type RepeatedInitializationError struct {
	Cause error
}

func (e *RepeatedInitializationError) Error() string {
	return fmt.Sprintf("initialization already failed in this process: %v (run Clear or 'brainflow-setup clear' before retrying)", e.Cause)
}

func (e *RepeatedInitializationError) Unwrap() error {
	return e.Cause
}

// ErrPrerequisites indicates required host packages could not be satisfied.
// The check runs before any download so a broken host fails fast without
// wasted transfer.
var ErrPrerequisites = fmt.Errorf("required host prerequisites are missing; install them manually and retry")

// Fetcher downloads a remote artifact to a local path. The production
// implementation is the streaming Downloader; tests substitute fakes to
// observe or suppress network work.
type Fetcher interface {
	Fetch(ctx context.Context, url, destPath string) error
}

// Expander expands an archive into a destination directory.
type Expander func(archivePath, destDir string, logger *log.Logger) error

// PrereqCheck verifies host OS prerequisites for an identified platform.
type PrereqCheck func(ctx context.Context, id platform.Identity) bool

// Gate sequences the full provisioning pipeline exactly once per process:
// probe, prerequisites, cache/download, expand, select, inject, verify.
// Any number of goroutines may call Initialize concurrently; one runs the
// sequence while the rest block on the lock and then observe the memoized
// terminal state.
type Gate struct {
	cfg    *Config
	logger *log.Logger

	probe    *platform.Probe
	cache    *cache.Cache
	fetcher  Fetcher
	expand   Expander
	loader   native.Loader
	verifier *native.Verifier
	injector *native.Injector
	ensure   PrereqCheck

	mu    sync.Mutex
	state State
	cause error

	identity   platform.Identity
	identified bool

	jarPath    string
	nativesDir string
}

// Option customizes gate construction, mainly for tests.
type Option func(*Gate)

// WithProbe substitutes the platform probe.
func WithProbe(p *platform.Probe) Option {
	return func(g *Gate) { g.probe = p }
}

// WithCache substitutes the artifact cache.
func WithCache(c *cache.Cache) Option {
	return func(g *Gate) { g.cache = c }
}

// WithFetcher substitutes the downloader.
func WithFetcher(f Fetcher) Option {
	return func(g *Gate) { g.fetcher = f }
}

// WithExpander substitutes the archive expander.
func WithExpander(e Expander) Option {
	return func(g *Gate) { g.expand = e }
}

// WithLoader substitutes the dynamic loader.
func WithLoader(l native.Loader) Option {
	return func(g *Gate) { g.loader = l }
}

// WithPrereqCheck substitutes the host prerequisite check.
func WithPrereqCheck(p PrereqCheck) Option {
	return func(g *Gate) { g.ensure = p }
}

// NewGate creates a gate over a configuration. A nil config selects the
// defaults.
func NewGate(cfg *Config, opts ...Option) *Gate {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	logger := cfg.logger()

	g := &Gate{
		cfg:    cfg,
		logger: logger,
		probe:  platform.NewProbe(logger),
		cache:  cache.New(cfg.CacheRoot, logger),
		fetcher: download.New(&download.Config{
			Timeout: cfg.DownloadTimeout(),
			Logger:  logger,
		}),
		expand: archive.Expand,
		loader: native.SystemLoader(),
	}
	g.ensure = func(ctx context.Context, id platform.Identity) bool {
		checker := prereq.NewChecker(prereq.ForFamily(id.OS), &prereq.Config{
			InstallTimeout: cfg.InstallTimeout(),
			Logger:         logger,
		})
		return checker.Ensure(ctx)
	}

	for _, opt := range opts {
		opt(g)
	}

	g.verifier = native.NewVerifier(g.loader, logger)
	return g
}

// Initialize runs the provisioning sequence, or returns the memoized
// outcome of an earlier run. Success is silent and immediate on repeat
// calls; a memoized failure is re-raised wrapped in
// RepeatedInitializationError without repeating any work.
func (g *Gate) Initialize(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case StateReady:
		return nil
	case StateFailed:
		return &RepeatedInitializationError{Cause: g.cause}
	}

	g.state = StateInitializing
	if err := g.run(ctx); err != nil {
		g.cause = err
		g.state = StateFailed
		return err
	}
	g.state = StateReady
	return nil
}

// Clear removes the cached artifacts for the pinned version and resets the
// gate to Uninitialized, re-arming a full initialization attempt. This is
// the only path out of a Failed state.
func (g *Gate) Clear() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.cache.Clear(g.cfg.Version); err != nil {
		return err
	}
	g.state = StateUninitialized
	g.cause = nil
	g.jarPath = ""
	g.nativesDir = ""
	return nil
}

// State returns the current lifecycle position.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Identity returns the resolved platform identity once the probe has run.
func (g *Gate) Identity() (platform.Identity, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.identity, g.identified
}

// JarPath returns the resolved managed-archive path for consumers like the
// project-metadata rewriter. Empty until Ready.
func (g *Gate) JarPath() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.jarPath
}

// NativesDir returns the installed native-library directory. Empty until
// Ready.
func (g *Gate) NativesDir() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nativesDir
}

// Verifier exposes the verifier so callers can reuse the cached successful
// handle, e.g. to drive a smoke-test session.
func (g *Gate) Verifier() *native.Verifier {
	return g.verifier
}

// run executes the pipeline. Called with the gate lock held.
func (g *Gate) run(ctx context.Context) error {
	if !g.identified {
		id, err := g.probe.Identify()
		if err != nil {
			return err
		}
		g.identity = id
		g.identified = true
	}
	id := g.identity

	if g.injector == nil {
		g.injector = native.NewInjector(g.loader, id.OS, g.logger)
	}

	if !g.ensure(ctx, id) {
		return ErrPrerequisites
	}

	// Fast path: environments configured out of band (library paths set
	// by hand or by an earlier project-file rewrite) need no downloads.
	if g.verifier.Probe(native.EntryPoints) {
		g.logger.Printf("Entry points already resolvable, skipping provisioning")
		jar := artifact.Jar(g.cfg.ReleaseBase, g.cfg.Version)
		if p := g.cache.ArtifactPath(g.cfg.Version, jar.LocalName); g.cache.IsValid(p, jar.MinValidSize) {
			g.jarPath = p
		}
		return nil
	}

	if _, err := g.cache.Dir(g.cfg.Version); err != nil {
		return err
	}

	jarPath, err := g.provisionJar(ctx, id)
	if err != nil {
		return err
	}
	g.jarPath = jarPath

	selection, nativesDir, err := g.provisionNatives(ctx, id)
	if err != nil {
		return err
	}

	report := g.injector.InjectNativeLibraries(nativesDir, selection)
	if report.Loaded == 0 {
		return &native.InjectionError{
			Reason:  fmt.Sprintf("none of the %d selected native libraries could be loaded", len(selection)),
			JarPath: jarPath,
			LibDir:  nativesDir,
		}
	}
	g.nativesDir = nativesDir

	return g.verifier.Verify(report.Handles, native.EntryPoints)
}

// provisionJar downloads the managed archive unless a valid copy is cached,
// then makes it reachable.
func (g *Gate) provisionJar(ctx context.Context, id platform.Identity) (string, error) {
	jar := artifact.Jar(g.cfg.ReleaseBase, g.cfg.Version)
	jarPath := g.cache.ArtifactPath(g.cfg.Version, jar.LocalName)

	if g.cache.IsValid(jarPath, jar.MinValidSize) {
		g.logger.Printf("Using cached managed archive: %s", jarPath)
	} else if err := g.fetcher.Fetch(ctx, jar.RemoteURL, jarPath); err != nil {
		return "", err
	}

	if !g.injector.InjectManagedArchive(jarPath) {
		return "", &native.InjectionError{
			Reason:  "managed archive could not be made reachable",
			JarPath: jarPath,
			LibDir:  g.cache.NativesDir(g.cfg.Version, id.Triple()),
		}
	}
	return jarPath, nil
}

// provisionNatives ensures the natives directory holds the selected,
// architecture-correct libraries, downloading and expanding the archive if
// needed. A selection that matches nothing fails without leaving a
// mismatched directory behind as valid.
func (g *Gate) provisionNatives(ctx context.Context, id platform.Identity) ([]native.Candidate, string, error) {
	version := g.cfg.Version
	triple := id.Triple()
	exts := []string{id.LibraryExtension()}
	nativesDir := g.cache.NativesDir(version, triple)

	sel := native.Select([]string{nativesDir}, exts, id.Bits)
	if len(sel.Selected) > 0 {
		g.logger.Printf("Using %d cached native libraries from %s", len(sel.Selected), nativesDir)
		return sel.Selected, nativesDir, nil
	}

	desc := artifact.Natives(g.cfg.ReleaseBase, version)
	archivePath := g.cache.ArtifactPath(version, desc.LocalName)
	if g.cache.IsValid(archivePath, desc.MinValidSize) {
		g.logger.Printf("Using cached native archive: %s", archivePath)
	} else if err := g.fetcher.Fetch(ctx, desc.RemoteURL, archivePath); err != nil {
		return nil, "", err
	}

	staging := filepath.Join(filepath.Dir(archivePath), ".natives-staging")
	if err := g.expand(archivePath, staging, g.logger); err != nil {
		return nil, "", err
	}
	defer os.RemoveAll(staging)

	sel = native.Select(native.SearchRoots(staging, triple), exts, id.Bits)
	if len(sel.Selected) == 0 {
		os.RemoveAll(nativesDir)
		return nil, "", &native.ArchitectureMismatchError{Triple: triple, Rejected: sel.Rejected}
	}

	installed, err := installSelection(nativesDir, sel.Selected)
	if err != nil {
		return nil, "", err
	}

	// The raw archive is large and fully superseded by the installed
	// subset; the jar stays because it is consumed in place.
	os.Remove(archivePath)

	g.logger.Printf("✓ Installed %d native libraries to %s", len(installed), nativesDir)
	return installed, nativesDir, nil
}

// installSelection copies the selected libraries into destDir through a
// staging directory renamed into place, so a concurrent process never
// observes a half-populated natives directory. Duplicate basenames keep
// the first occurrence.
func installSelection(destDir string, selection []native.Candidate) ([]native.Candidate, error) {
	parent := filepath.Dir(destDir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return nil, fmt.Errorf("creating natives parent: %w", err)
	}

	staging, err := os.MkdirTemp(parent, ".install-*")
	if err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	seen := make(map[string]bool)
	var installed []native.Candidate
	for _, c := range selection {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		if err := copyFile(c.Path, filepath.Join(staging, c.Name)); err != nil {
			return nil, fmt.Errorf("staging %s: %w", c.Name, err)
		}
		installed = append(installed, native.Candidate{
			Path: filepath.Join(destDir, c.Name),
			Name: c.Name,
		})
	}

	if err := os.RemoveAll(destDir); err != nil {
		return nil, fmt.Errorf("replacing natives directory: %w", err)
	}
	if err := os.Rename(staging, destDir); err != nil {
		return nil, fmt.Errorf("installing natives directory: %w", err)
	}
	return installed, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

func newDiscardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
