// pkg/native/injector.go
package native

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/TheFakeLorLyons/brainflow-java/pkg/platform"
)

// ClasspathEnv is the variable the managed archive is exported on so child
// JVM processes spawned from this one can reach the managed code.
const ClasspathEnv = "CLASSPATH"

// FailureKind classifies why an individual native load failed.
type FailureKind string

const (
	// FailureWrongArch means the binary targets a different architecture
	FailureWrongArch FailureKind = "wrong-architecture"
	// FailureMissingDependency means a transitive shared library is absent
	FailureMissingDependency FailureKind = "missing-dependency"
	// FailureGeneric covers everything else
	FailureGeneric FailureKind = "generic"
)

// LoadResult records the outcome of one direct load attempt.
type LoadResult struct {
	Path string
	Err  error
	Kind FailureKind
}

// Report summarizes a native injection pass.
type Report struct {
	Loaded  int
	Failed  int
	Results []LoadResult
	Handles []Handle
}

// InjectionError indicates neither injection strategy made the downloaded
// code reachable. The message carries the manual-configuration fallback
// because this failure is debugged by end users without source access.
type InjectionError struct {
	Reason  string
	JarPath string
	LibDir  string
}

func (e *InjectionError) Error() string {
	return fmt.Sprintf("injection failed: %s (as a manual fallback, add %s to your classpath and %s to your library search path)",
		e.Reason, e.JarPath, e.LibDir)
}

// Injector makes downloaded artifacts reachable from the running process:
// the managed archive through environment-level classpath export, native
// libraries through direct dynamic loads plus a search-path fallback.
type Injector struct {
	loader Loader
	os     platform.OSFamily
	logger *log.Logger

	// interactive marks a long-lived host process (attached terminal).
	// Batch runs additionally log the manual classpath invocation, since
	// the environment export dies with the short-lived process.
	interactive bool
}

// NewInjector creates an injector for the given OS family.
func NewInjector(loader Loader, osf platform.OSFamily, logger *log.Logger) *Injector {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Injector{
		loader:      loader,
		os:          osf,
		logger:      logger,
		interactive: stdinIsTerminal(),
	}
}

// InjectManagedArchive makes the managed-code archive reachable by
// exporting it on the classpath environment variable, additively and
// without duplication. It reports reachability only; whether the code is
// usable is the Verifier's concern.
func (in *Injector) InjectManagedArchive(jarPath string) bool {
	info, err := os.Stat(jarPath)
	if err != nil || info.IsDir() {
		in.logger.Printf("Managed archive missing or not a file: %s", jarPath)
		return false
	}

	sep := string(os.PathListSeparator)
	current := os.Getenv(ClasspathEnv)
	already := false
	for _, entry := range strings.Split(current, sep) {
		if entry == jarPath {
			already = true
			break
		}
	}
	if !already {
		value := jarPath
		if current != "" {
			value = current + sep + jarPath
		}
		if err := os.Setenv(ClasspathEnv, value); err != nil {
			in.logger.Printf("Exporting %s failed: %v", ClasspathEnv, err)
			return false
		}
	}

	if in.interactive {
		in.logger.Printf("Managed archive exported on %s for this session: %s", ClasspathEnv, jarPath)
	} else {
		in.logger.Printf("Managed archive exported on %s: %s (batch run: pass -cp %q to child JVMs explicitly)", ClasspathEnv, jarPath, jarPath)
	}
	return true
}

// InjectNativeLibraries attempts a direct load of every selected library
// and appends nativeDir to the process library search path. An individual
// failure is recorded and loading continues; only the caller decides
// whether a fully-empty loaded set is fatal.
func (in *Injector) InjectNativeLibraries(nativeDir string, selection []Candidate) Report {
	var report Report

	for _, c := range selection {
		h, err := in.loader.Open(c.Path)
		if err != nil {
			kind := classifyLoadError(err)
			report.Failed++
			report.Results = append(report.Results, LoadResult{Path: c.Path, Err: err, Kind: kind})
			in.logger.Printf("✗ %s: %v (%s)", c.Name, err, kind)
			continue
		}
		report.Loaded++
		report.Results = append(report.Results, LoadResult{Path: c.Path})
		report.Handles = append(report.Handles, h)
		in.logger.Printf("✓ Loaded %s", c.Name)
	}

	if err := AppendSearchPath(in.os, nativeDir); err != nil {
		in.logger.Printf("Appending %s to %s failed: %v", nativeDir, SearchPathVar(in.os), err)
	}

	in.logger.Printf("Native injection: %d loaded, %d failed", report.Loaded, report.Failed)
	return report
}

// classifyLoadError buckets a loader error by its message text, which is
// the only signal dlopen and LoadLibrary expose.
func classifyLoadError(err error) FailureKind {
	msg := strings.ToLower(err.Error())

	archPatterns := []string{
		"wrong elf class",
		"not a valid win32 application",
		"incompatible architecture",
		"mach-o, but wrong architecture",
	}
	for _, p := range archPatterns {
		if strings.Contains(msg, p) {
			return FailureWrongArch
		}
	}

	depPatterns := []string{
		"cannot open shared object",
		"image not found",
		"no such file",
		"module could not be found",
		"library not loaded",
	}
	for _, p := range depPatterns {
		if strings.Contains(msg, p) {
			return FailureMissingDependency
		}
	}

	return FailureGeneric
}

func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
