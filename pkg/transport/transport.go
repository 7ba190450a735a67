// Package transport implements the byte-level fetch primitives for remote
// locators. The cache layer decides where bytes land on disk; fetchers only
// produce the byte stream.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
)

// Fetcher retrieves the full content of a remote locator.
type Fetcher interface {
	// Fetch opens the content at locator. The returned size is the total
	// content length, or -1 if unknown.
	Fetch(ctx context.Context, locator string) (io.ReadCloser, int64, error)
}

// remoteSchemes are the locator schemes handled by Default.
var remoteSchemes = []string{"http://", "https://", "s3://"}

// IsRemote reports whether s carries a recognized remote scheme. Anything
// else is treated as a local path by the resolution layer.
func IsRemote(s string) bool {
	lower := strings.ToLower(s)
	for _, scheme := range remoteSchemes {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}

// TransferError reports a failed fetch, carrying the locator and the
// underlying cause.
type TransferError struct {
	Locator string
	Err     error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer failed for %s: %v", e.Locator, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// dispatcher routes a fetch to the scheme-specific fetcher.
type dispatcher struct {
	http *HTTPFetcher
	s3   *S3Fetcher
}

func (d *dispatcher) Fetch(ctx context.Context, locator string) (io.ReadCloser, int64, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return nil, 0, fmt.Errorf("parse locator: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return d.http.Fetch(ctx, locator)
	case "s3":
		return d.s3.Fetch(ctx, locator)
	default:
		return nil, 0, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
}

var defaultFetcher = sync.OnceValue(func() Fetcher {
	return &dispatcher{
		http: NewHTTPFetcher(HTTPConfig{}),
		s3:   &S3Fetcher{},
	}
})

// Default returns the process-wide fetcher dispatching on locator scheme.
func Default() Fetcher {
	return defaultFetcher()
}
