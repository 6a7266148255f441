// errors.go
package brainflow

import (
	"github.com/TheFakeLorLyons/brainflow-java/pkg/archive"
	"github.com/TheFakeLorLyons/brainflow-java/pkg/bootstrap"
	"github.com/TheFakeLorLyons/brainflow-java/pkg/download"
	"github.com/TheFakeLorLyons/brainflow-java/pkg/native"
	"github.com/TheFakeLorLyons/brainflow-java/pkg/platform"
)

// Re-export the error taxonomy so callers can match initialization
// failures with errors.As against a single package.
type (
	// UnsupportedPlatformError: unrecognized OS or architecture; fatal,
	// no retry path.
	UnsupportedPlatformError = platform.UnsupportedPlatformError

	// DownloadError: network, HTTP or timeout failure; the partial file
	// has been cleaned up, retry after clearing the cache.
	DownloadError = download.DownloadError

	// ExtractionError: the native archive could not be expanded.
	ExtractionError = archive.ExtractionError

	// ArchitectureMismatchError: selection produced no library matching
	// the live process; the diagnostic lists rejected candidates.
	ArchitectureMismatchError = native.ArchitectureMismatchError

	// InjectionError: downloaded code could not be made reachable; the
	// message carries manual-configuration guidance.
	InjectionError = native.InjectionError

	// VerificationError: an entry point failed to resolve after
	// injection, suggesting a corrupted cache.
	VerificationError = native.VerificationError

	// RepeatedInitializationError: wraps a previously memoized failure;
	// clear cached state to retry.
	RepeatedInitializationError = bootstrap.RepeatedInitializationError
)

// ErrPrerequisites indicates required host packages could not be
// satisfied; initialization aborts before any download.
var ErrPrerequisites = bootstrap.ErrPrerequisites
