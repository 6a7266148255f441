// pkg/archive/expand.go
package archive

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// ExtractionError indicates an archive could not be expanded. The
// destination directory has not been created; callers must not proceed as
// if a partial tree existed.
type ExtractionError struct {
	Archive string
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.Archive, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Expand extracts a tar archive (optionally gzip- or xz-compressed, decided
// by filename suffix) into destDir. Extraction lands in a staging directory
// that is renamed to destDir only once every entry has been written, so
// destDir is either fully populated or absent.
func Expand(archivePath, destDir string, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	logger.Printf("Extracting %s -> %s", archivePath, destDir)

	f, err := os.Open(archivePath)
	if err != nil {
		return &ExtractionError{Archive: archivePath, Err: err}
	}
	defer f.Close()

	reader, closer, err := decompressor(archivePath, f)
	if err != nil {
		return &ExtractionError{Archive: archivePath, Err: err}
	}
	if closer != nil {
		defer closer.Close()
	}

	parent := filepath.Dir(destDir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return &ExtractionError{Archive: archivePath, Err: err}
	}

	staging, err := os.MkdirTemp(parent, ".extract-*")
	if err != nil {
		return &ExtractionError{Archive: archivePath, Err: err}
	}
	defer os.RemoveAll(staging)

	count, err := untar(reader, staging)
	if err != nil {
		return &ExtractionError{Archive: archivePath, Err: err}
	}

	if err := os.RemoveAll(destDir); err != nil {
		return &ExtractionError{Archive: archivePath, Err: err}
	}
	if err := os.Rename(staging, destDir); err != nil {
		return &ExtractionError{Archive: archivePath, Err: err}
	}

	logger.Printf("✓ Extraction complete (%d files)", count)
	return nil
}

// decompressor picks the decompression layer from the archive filename.
func decompressor(path string, f io.Reader) (io.Reader, io.Closer, error) {
	name := strings.ToLower(path)
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip reader: %w", err)
		}
		return gz, gz, nil
	case strings.HasSuffix(name, ".tar.xz"):
		xzr, err := xz.NewReader(f)
		if err != nil {
			return nil, nil, fmt.Errorf("xz reader: %w", err)
		}
		return xzr, nil, nil
	case strings.HasSuffix(name, ".tar"):
		return f, nil, nil
	default:
		return nil, nil, fmt.Errorf("unrecognized archive format: %s", filepath.Base(path))
	}
}

func untar(r io.Reader, destDir string) (int, error) {
	tr := tar.NewReader(r)
	count := 0

	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, fmt.Errorf("reading tar entry: %w", err)
		}

		target, err := secureJoin(destDir, hdr.Name)
		if err != nil {
			return count, err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return count, fmt.Errorf("creating directory: %w", err)
			}

		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return count, fmt.Errorf("creating parent directory: %w", err)
			}

			perm := os.FileMode(0644)
			if hdr.FileInfo().Mode()&0111 != 0 {
				perm = 0755
			}

			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
			if err != nil {
				return count, fmt.Errorf("creating file %s: %w", target, err)
			}
			written, err := io.Copy(out, tr)
			out.Close()
			if err != nil {
				return count, fmt.Errorf("writing file: %w", err)
			}
			if written != hdr.Size {
				return count, fmt.Errorf("size mismatch for %s", hdr.Name)
			}
			count++

		case tar.TypeSymlink:
			if filepath.IsAbs(hdr.Linkname) {
				return count, fmt.Errorf("absolute symlink rejected: %s", hdr.Linkname)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return count, fmt.Errorf("creating parent directory: %w", err)
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return count, fmt.Errorf("creating symlink: %w", err)
			}

		default:
			// Ignore other entry types
		}
	}

	return count, nil
}

// secureJoin joins an archive entry name onto base, rejecting entries that
// would escape it.
func secureJoin(base, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) {
		return "", fmt.Errorf("absolute path in archive: %q", name)
	}
	if clean == ".." || strings.HasPrefix(clean, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("path escapes destination: %q", name)
	}
	return filepath.Join(base, clean), nil
}
