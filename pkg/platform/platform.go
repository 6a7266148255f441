// pkg/platform/platform.go
package platform

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"
	"unsafe"
)

// OSFamily identifies the broad operating system family.
type OSFamily string

const (
	// OSWindows covers all Windows variants
	OSWindows OSFamily = "windows"
	// OSMacOS covers macOS / Darwin
	OSMacOS OSFamily = "macos"
	// OSLinux covers Linux distributions
	OSLinux OSFamily = "linux"
	// OSUnknown is anything we cannot classify
	OSUnknown OSFamily = "unknown"
)

// CPUArch identifies the processor architecture class.
type CPUArch string

const (
	// ArchX86 is 32-bit x86
	ArchX86 CPUArch = "x86"
	// ArchX64 is 64-bit x86 (amd64)
	ArchX64 CPUArch = "x64"
	// ArchARM64 is 64-bit ARM (aarch64)
	ArchARM64 CPUArch = "arm64"
	// ArchUnknown is anything we cannot classify
	ArchUnknown CPUArch = "unknown"
)

// Bits is the word size of the running executable, not of the host OS.
// A 32-bit runtime on a 64-bit OS reports 32.
type Bits int

const (
	// Bits32 is a 32-bit runtime
	Bits32 Bits = 32
	// Bits64 is a 64-bit runtime
	Bits64 Bits = 64
)

// DataModelEnv is the environment property that, when set to "32" or "64",
// overrides all other bitness signals. It mirrors the JVM's
// sun.arch.data.model property that the upstream artifacts were built around.
const DataModelEnv = "BRAINFLOW_DATA_MODEL"

// Identity is the resolved platform of the running process. It is derived
// once per process and never recomputed mid-run.
type Identity struct {
	OS   OSFamily
	Arch CPUArch
	Bits Bits
}

// Triple returns the canonical platform identifier used to address release
// artifacts, e.g. "linux-x86-64", "darwin-aarch64", "win32-x86".
func (id Identity) Triple() string {
	prefix := ""
	switch id.OS {
	case OSLinux:
		prefix = "linux"
	case OSMacOS:
		prefix = "darwin"
	case OSWindows:
		prefix = "win32"
	default:
		prefix = string(OSUnknown)
	}

	if id.Arch == ArchARM64 {
		return prefix + "-aarch64"
	}
	if id.Bits == Bits64 {
		return prefix + "-x86-64"
	}
	return prefix + "-x86"
}

// LibraryExtension returns the shared-library filename suffix for the OS
// family: ".so", ".dylib" or ".dll".
func (id Identity) LibraryExtension() string {
	switch id.OS {
	case OSMacOS:
		return ".dylib"
	case OSWindows:
		return ".dll"
	default:
		return ".so"
	}
}

func (id Identity) String() string {
	return fmt.Sprintf("%s (%s, %d-bit)", id.Triple(), id.Arch, id.Bits)
}

// UnsupportedPlatformError indicates the host OS could not be classified.
// There is no retry path for this error.
type UnsupportedPlatformError struct {
	OSName   string
	ArchName string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported platform %q/%q: brainflow ships native binaries for Linux, macOS and Windows only", e.OSName, e.ArchName)
}

// Probe resolves the platform identity from its input signals. The zero
// value is not useful; construct one with NewProbe, or fill the fields
// directly in tests to model foreign platforms.
type Probe struct {
	// OSName is the OS report, normally runtime.GOOS.
	OSName string

	// ArchName is the architecture report, normally runtime.GOARCH.
	ArchName string

	// DataModel is the declared data-model property ("32", "64" or empty).
	DataModel string

	// PointerBits is the low-level pointer-width probe, 0 if unavailable.
	PointerBits int

	// Logger for diagnostics
	Logger *log.Logger
}

// NewProbe builds a probe from the live process environment.
func NewProbe(logger *log.Logger) *Probe {
	return &Probe{
		OSName:      runtime.GOOS,
		ArchName:    runtime.GOARCH,
		DataModel:   os.Getenv(DataModelEnv),
		PointerBits: int(unsafe.Sizeof(uintptr(0))) * 8,
		Logger:      logger,
	}
}

// Identify resolves the platform identity. It is deterministic for a fixed
// set of inputs and has no side effects beyond diagnostic logging.
func (p *Probe) Identify() (Identity, error) {
	logger := p.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	id := Identity{
		OS:   classifyOS(p.OSName),
		Arch: classifyArch(p.ArchName),
		Bits: p.resolveBits(),
	}

	if id.OS == OSUnknown {
		return Identity{}, &UnsupportedPlatformError{OSName: p.OSName, ArchName: p.ArchName}
	}

	logger.Printf("Platform identified: %s (os=%s arch=%s)", id.Triple(), p.OSName, p.ArchName)
	return id, nil
}

// resolveBits combines the bitness signals in order of authority: the
// declared data-model property wins, then the pointer-width probe, then a
// substring match on the architecture report.
func (p *Probe) resolveBits() Bits {
	switch strings.TrimSpace(p.DataModel) {
	case "32":
		return Bits32
	case "64":
		return Bits64
	}

	switch p.PointerBits {
	case 32:
		return Bits32
	case 64:
		return Bits64
	}

	arch := strings.ToLower(p.ArchName)
	if strings.Contains(arch, "64") || strings.Contains(arch, "amd64") {
		return Bits64
	}
	return Bits32
}

func classifyOS(name string) OSFamily {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "windows"), n == "win32":
		return OSWindows
	case strings.Contains(n, "darwin"), strings.Contains(n, "mac"):
		return OSMacOS
	case strings.Contains(n, "linux"):
		return OSLinux
	default:
		return OSUnknown
	}
}

func classifyArch(name string) CPUArch {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "aarch64"), strings.Contains(n, "arm64"):
		return ArchARM64
	case strings.Contains(n, "amd64"), strings.Contains(n, "x86_64"), strings.Contains(n, "x64"):
		return ArchX64
	case strings.Contains(n, "386"), strings.Contains(n, "x86"), strings.Contains(n, "i686"):
		return ArchX86
	default:
		return ArchUnknown
	}
}
