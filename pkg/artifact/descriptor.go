// pkg/artifact/descriptor.go
package artifact

import "fmt"

// Kind distinguishes the two artifact families published per release.
type Kind string

const (
	// KindManagedLibrary is the jar carrying the managed-code API
	KindManagedLibrary Kind = "managed-library"
	// KindNativeArchive is the tar archive of native shared libraries
	KindNativeArchive Kind = "native-archive"
)

const (
	// DefaultReleaseBase is the fixed release root artifacts are fetched from.
	DefaultReleaseBase = "https://github.com/TheFakeLorLyons/brainflow-java/releases/download"

	// JarFilename is the managed-library archive published per version.
	JarFilename = "brainflow-jar-with-dependencies.jar"

	// NativesFilename is the multi-platform native-library archive published
	// per version. One archive covers every supported platform; selection
	// happens after extraction.
	NativesFilename = "brainflow_native_libs.tar.gz"

	// MinJarSize is the smallest plausible size for a complete jar. This is
	// a partial-download guard, not a checksum.
	MinJarSize = 1 << 20

	// MinNativesSize is the smallest plausible size for the native archive.
	MinNativesSize = 256 << 10
)

// Descriptor identifies one downloadable artifact for a pinned version.
type Descriptor struct {
	Version      string
	Kind         Kind
	RemoteURL    string
	LocalName    string
	MinValidSize int64
}

// Jar returns the managed-library descriptor for a version. An empty base
// selects the default release root.
func Jar(base, version string) Descriptor {
	if base == "" {
		base = DefaultReleaseBase
	}
	return Descriptor{
		Version:      version,
		Kind:         KindManagedLibrary,
		RemoteURL:    fmt.Sprintf("%s/%s/%s", base, version, JarFilename),
		LocalName:    JarFilename,
		MinValidSize: MinJarSize,
	}
}

// Natives returns the native-archive descriptor for a version.
func Natives(base, version string) Descriptor {
	if base == "" {
		base = DefaultReleaseBase
	}
	return Descriptor{
		Version:      version,
		Kind:         KindNativeArchive,
		RemoteURL:    fmt.Sprintf("%s/%s/%s", base, version, NativesFilename),
		LocalName:    NativesFilename,
		MinValidSize: MinNativesSize,
	}
}
