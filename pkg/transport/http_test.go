package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/inference-sh/go-appsdk/pkg/retry"
)

func fastRetry(attempts int) retry.Config {
	return retry.Config{
		MaxAttempts: attempts,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	content := []byte("remote file content")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPConfig{RetryConfig: fastRetry(3)})
	body, size, err := f.Fetch(context.Background(), srv.URL+"/file.txt")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != string(content) {
		t.Errorf("content = %q, want %q", data, content)
	}
	if size != int64(len(content)) {
		t.Errorf("size = %d, want %d", size, len(content))
	}
}

func TestHTTPFetcher_NotFoundIsNotRetried(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPConfig{RetryConfig: fastRetry(3)})
	_, _, err := f.Fetch(context.Background(), srv.URL+"/missing")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("requests = %d, want 1", n)
	}
}

func TestHTTPFetcher_ServerErrorIsRetried(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPConfig{RetryConfig: fastRetry(3)})
	_, _, err := f.Fetch(context.Background(), srv.URL+"/flaky")
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if n := requests.Load(); n != 3 {
		t.Errorf("requests = %d, want 3", n)
	}
}

func TestHTTPFetcher_FollowsRedirects(t *testing.T) {
	content := []byte("final content")
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/start" {
			http.Redirect(w, r, srv.URL+"/final", http.StatusFound)
			return
		}
		w.Write(content)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPConfig{RetryConfig: fastRetry(1)})
	body, _, err := f.Fetch(context.Background(), srv.URL+"/start")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	defer body.Close()

	data, _ := io.ReadAll(body)
	if string(data) != string(content) {
		t.Errorf("content = %q, want %q (redirect target bytes)", data, content)
	}
}

func TestIsRemote(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"https://example.com/file.png", true},
		{"http://example.com/file.png", true},
		{"HTTPS://EXAMPLE.COM/FILE", true},
		{"s3://bucket/key", true},
		{"/tmp/file.png", false},
		{"relative/path.txt", false},
		{"ftp://example.com/file", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsRemote(c.in); got != c.want {
			t.Errorf("IsRemote(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestTransferError_Unwrap(t *testing.T) {
	cause := io.ErrUnexpectedEOF
	err := &TransferError{Locator: "https://example.com/f", Err: cause}
	if got := err.Unwrap(); got != cause {
		t.Errorf("Unwrap = %v, want %v", got, cause)
	}
}
