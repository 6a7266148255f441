// pkg/download/download.go
package download

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// chunkSize is the fixed copy granularity for streaming transfers.
const chunkSize = 512 << 10

// DownloadError indicates a transfer failed. The partially-written
// destination file has already been removed; the caller may retry by
// re-invoking after clearing the cache.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("downloading %s: %v (check network connectivity; run the setup again after 'brainflow-setup clear' to retry)", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// Config holds downloader configuration
type Config struct {
	// Timeout bounds the total transfer time of a single fetch.
	Timeout time.Duration

	// Debug enables progress logging to stdout when no Logger is set.
	Debug bool

	// Logger for custom logging
	Logger *log.Logger
}

// Downloader fetches release artifacts, streaming them to disk.
type Downloader struct {
	client *Client
	logger *log.Logger
}

// New creates a downloader.
func New(cfg *Config) *Downloader {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Minute
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stdout, "[FETCH] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	return &Downloader{
		client: NewClientWithTimeout(cfg.Timeout),
		logger: logger,
	}
}

// Fetch streams the response body for url to destPath in fixed-size chunks,
// reporting progress at megabyte granularity. The transfer lands in a
// temporary sibling file and is renamed into place only on success, so a
// concurrent reader never observes a partial destPath. Any failure removes
// the temporary file and returns a DownloadError.
func (d *Downloader) Fetch(ctx context.Context, url, destPath string) error {
	d.logger.Printf("Downloading %s", url)

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return &DownloadError{URL: url, Err: fmt.Errorf("creating directory: %w", err)}
	}

	resp, err := d.client.Get(ctx, url)
	if err != nil {
		return &DownloadError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	partPath := destPath + ".part"
	f, err := os.Create(partPath)
	if err != nil {
		return &DownloadError{URL: url, Err: fmt.Errorf("creating file: %w", err)}
	}

	written, err := d.copyWithProgress(f, resp.Body, resp.ContentLength)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(partPath)
		return &DownloadError{URL: url, Err: err}
	}

	if err := os.Rename(partPath, destPath); err != nil {
		os.Remove(partPath)
		return &DownloadError{URL: url, Err: fmt.Errorf("moving into place: %w", err)}
	}

	d.logger.Printf("✓ Downloaded %d bytes to %s", written, destPath)
	return nil
}

// copyWithProgress copies r to w in chunkSize pieces, logging each time the
// running total crosses a whole-megabyte boundary.
func (d *Downloader) copyWithProgress(w io.Writer, r io.Reader, total int64) (int64, error) {
	var written int64
	lastMB := int64(-1)

	for {
		n, err := io.CopyN(w, r, chunkSize)
		written += n

		if mb := written >> 20; mb != lastMB && mb > 0 {
			lastMB = mb
			if total > 0 {
				d.logger.Printf("  %d / %d MB", mb, (total+(1<<20)-1)>>20)
			} else {
				d.logger.Printf("  %d MB", mb)
			}
		}

		if err == io.EOF {
			return written, nil
		}
		if err != nil {
			return written, fmt.Errorf("streaming body: %w", err)
		}
	}
}
