// Package fetch downloads the public dataset files a report run needs.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
)

// Downloader fetches dataset files over HTTP with retries.
type Downloader struct {
	client *resty.Client
	logger *slog.Logger
}

// New creates a downloader. Transient transport failures are retried a few
// times before giving up.
func New(logger *slog.Logger) *Downloader {
	client := resty.New().
		SetRetryCount(3).
		SetRetryWaitTime(2 * time.Second)
	return &Downloader{client: client, logger: logger}
}

// Fetch downloads url into dest, skipping the download when the file is
// already present unless force is set.
func (d *Downloader) Fetch(ctx context.Context, url, dest string, force bool) error {
	if !force {
		if _, err := os.Stat(dest); err == nil {
			d.logger.Info("dataset already present", "path", dest)
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	d.logger.Info("downloading", "url", url, "path", dest)
	resp, err := d.client.R().
		SetContext(ctx).
		SetOutput(dest).
		Get(url)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	if resp.StatusCode() != http.StatusOK {
		// resty wrote the error body to dest; don't leave it behind.
		os.Remove(dest)
		return fmt.Errorf("download %s: unexpected status %d", url, resp.StatusCode())
	}

	if info, err := os.Stat(dest); err == nil {
		d.logger.Info("downloaded", "path", dest, "bytes", info.Size())
	}
	return nil
}
