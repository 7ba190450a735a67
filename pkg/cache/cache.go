// Package cache provides content-addressed caching of remote files.
//
// Every distinct remote locator maps to one deterministic location under
// the cache root: <root>/<key>/<filename>, where key is a truncated
// fingerprint of the locator's host, path, and query. A fully written
// entry is immutable and satisfies every later request for the same
// locator without touching the network.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/inference-sh/go-appsdk/pkg/dirs"
	"github.com/inference-sh/go-appsdk/pkg/logging"
	"github.com/inference-sh/go-appsdk/pkg/metrics"
	"github.com/inference-sh/go-appsdk/pkg/transport"
)

// keyLength is the number of hex characters kept from the fingerprint.
const keyLength = 12

// fallbackFilename names entries whose locator has no path segment.
const fallbackFilename = "file"

// Key returns the cache key for a locator: a truncated SHA-256 fingerprint
// of its host, path, and query. The fragment is excluded, so locators that
// differ only in fragment share an entry.
func Key(locator string) (string, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return "", fmt.Errorf("parse locator: %w", err)
	}
	identity := u.Host + u.Path
	if u.RawQuery != "" {
		identity += "?" + u.RawQuery
	}
	sum := sha256.Sum256([]byte(identity))
	return hex.EncodeToString(sum[:])[:keyLength], nil
}

// Filename returns the on-disk name for a locator: the final segment of
// its path, or a fixed fallback when the path has none.
func Filename(locator string) (string, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return "", fmt.Errorf("parse locator: %w", err)
	}
	name := path.Base(strings.TrimSuffix(u.Path, "/"))
	if name == "." || name == "/" || name == "" {
		return fallbackFilename, nil
	}
	return name, nil
}

// Cache maps remote locators to local files under a root directory.
type Cache struct {
	root    string
	fetcher transport.Fetcher
	group   singleflight.Group
}

// New creates a cache rooted at root, fetching misses with f.
func New(root string, f transport.Fetcher) *Cache {
	return &Cache{root: root, fetcher: f}
}

// CacheDirEnv overrides the default cache root when set.
const CacheDirEnv = "INFSH_CACHE_DIR"

var defaultRoot = sync.OnceValue(func() string {
	if dir := os.Getenv(CacheDirEnv); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "inference-sh", "files")
	}
	return filepath.Join(home, ".cache", "inference-sh", "files")
})

var defaultCache = sync.OnceValue(func() *Cache {
	return New(defaultRoot(), transport.Default())
})

// Default returns the process-wide cache. The root is read once from
// INFSH_CACHE_DIR, falling back to <home>/.cache/inference-sh/files.
func Default() *Cache {
	return defaultCache()
}

// Root returns the cache root directory.
func (c *Cache) Root() string {
	return c.root
}

// EntryPath returns the deterministic cache location for a locator,
// without fetching anything.
func (c *Cache) EntryPath(locator string) (string, error) {
	key, err := Key(locator)
	if err != nil {
		return "", err
	}
	name, err := Filename(locator)
	if err != nil {
		return "", err
	}
	return filepath.Join(c.root, key, name), nil
}

// Ensure guarantees a fully written local copy of locator exists at its
// cache path and returns that path. An existing entry short-circuits the
// fetch; concurrent in-process calls for the same entry share one fetch.
func (c *Cache) Ensure(ctx context.Context, locator string) (string, error) {
	target, err := c.EntryPath(locator)
	if err != nil {
		return "", err
	}

	_, err, _ = c.group.Do(target, func() (interface{}, error) {
		if _, err := os.Stat(target); err == nil {
			metrics.CacheHit()
			logging.Debug("cache hit",
				zap.String("locator", locator),
				zap.String("path", target))
			return nil, nil
		}
		metrics.CacheMiss()
		return nil, c.download(ctx, locator, target)
	})
	if err != nil {
		return "", err
	}
	return target, nil
}

// DownloadTo fetches locator into dir instead of the cache root, at
// <dir>/<filename>. An existing file at the target is reused as a cache
// hit unless dir is ephemeral, in which case a fetch always happens.
func (c *Cache) DownloadTo(ctx context.Context, locator, dir string) (string, error) {
	return c.downloadTo(ctx, locator, dir, dirs.Ephemeral(dir))
}

func (c *Cache) downloadTo(ctx context.Context, locator, dir string, force bool) (string, error) {
	name, err := Filename(locator)
	if err != nil {
		return "", err
	}
	target := filepath.Join(dir, name)

	if !force {
		if _, err := os.Stat(target); err == nil {
			logging.Debug("download target exists, skipping fetch",
				zap.String("locator", locator),
				zap.String("path", target))
			return target, nil
		}
	}

	if err := c.download(ctx, locator, target); err != nil {
		return "", err
	}
	return target, nil
}

// download fetches locator to a temporary sibling of target and commits it
// with an atomic rename. A reader that sees target present always sees a
// complete file; failures leave at most an orphaned temp file, which is
// removed best-effort.
func (c *Cache) download(ctx context.Context, locator, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	logging.Info("downloading",
		zap.String("locator", locator),
		zap.String("path", target))
	start := time.Now()

	body, _, err := c.fetcher.Fetch(ctx, locator)
	if err != nil {
		metrics.DownloadFailed()
		return &transport.TransferError{Locator: locator, Err: err}
	}
	defer body.Close()

	tmpPath := target + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		metrics.DownloadFailed()
		return &transport.TransferError{Locator: locator, Err: err}
	}

	written, err := io.Copy(f, body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmpPath, target)
	}
	if err != nil {
		os.Remove(tmpPath)
		metrics.DownloadFailed()
		return &transport.TransferError{Locator: locator, Err: err}
	}

	metrics.DownloadOK(written, time.Since(start))
	logging.Debug("download complete",
		zap.String("path", target),
		zap.Int64("bytes", written))
	return nil
}
