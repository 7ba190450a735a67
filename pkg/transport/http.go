package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/inference-sh/go-appsdk/pkg/retry"
)

// HTTPConfig holds HTTP fetcher configuration.
type HTTPConfig struct {
	RetryConfig retry.Config
	Client      *http.Client // optional; a tuned default is built when nil
}

// HTTPFetcher fetches http and https locators. Redirects are followed
// transparently; non-2xx responses are failures. Network errors and 5xx
// responses are retried with backoff, everything else fails immediately.
type HTTPFetcher struct {
	client      *http.Client
	retryConfig retry.Config
}

// NewHTTPFetcher creates an HTTP fetcher.
func NewHTTPFetcher(cfg HTTPConfig) *HTTPFetcher {
	if cfg.RetryConfig.MaxAttempts == 0 {
		cfg.RetryConfig = retry.DefaultConfig()
	}
	if cfg.Client == nil {
		// No overall client timeout: downloads can be arbitrarily large.
		// Connection setup is still bounded.
		cfg.Client = &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}
	return &HTTPFetcher{
		client:      cfg.Client,
		retryConfig: cfg.RetryConfig,
	}
}

type fetchResult struct {
	body io.ReadCloser
	size int64
}

// Fetch opens the content at locator.
func (f *HTTPFetcher) Fetch(ctx context.Context, locator string) (io.ReadCloser, int64, error) {
	result, err := retry.Do(ctx, f.retryConfig, func() (fetchResult, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
		if err != nil {
			return fetchResult{}, err
		}

		resp, err := f.client.Do(req)
		if err != nil {
			return fetchResult{}, retry.Retryable(err)
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			if resp.StatusCode >= 500 {
				return fetchResult{}, retry.Retryable(fmt.Errorf("server returned %d", resp.StatusCode))
			}
			return fetchResult{}, fmt.Errorf("server returned %d", resp.StatusCode)
		}

		return fetchResult{body: resp.Body, size: resp.ContentLength}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return result.body, result.size, nil
}
