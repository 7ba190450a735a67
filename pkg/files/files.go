// Package files provides file references: values that stand for a file by
// URL or local path and resolve lazily to bytes on local disk.
//
// Remote locators are materialized through the content-addressed cache, so
// resolving the same URL twice fetches at most once. A resolved File
// always has an absolute local path; it never represents pending remote
// data.
package files

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/inference-sh/go-appsdk/pkg/cache"
	"github.com/inference-sh/go-appsdk/pkg/transport"
)

// ErrInvalidInput is returned when neither a remote locator nor a local
// path can be determined from the given input.
var ErrInvalidInput = errors.New("no file path or uri provided")

// ErrResolutionFailed is returned when no local path could be established
// after all resolution steps. Unreachable given the input checks; kept as
// a guard against future refactors.
var ErrResolutionFailed = errors.New("file could not be resolved to a local path")

// File references a file that may have started out remote. After
// resolution, Path is an absolute local path and the descriptive fields
// are populated. Size is -1 while unknown.
type File struct {
	URI         string
	Path        string
	ContentType string
	Size        int64
	Filename    string
}

// Record is the serialized form of a File, consumed by the engine: it
// reads path to find bytes to upload and uri to recognize an already
// remote resource. Absent fields are omitted entirely.
type Record struct {
	Path        string `json:"path,omitempty"`
	URI         string `json:"uri,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Size        *int64 `json:"size,omitempty"`
	Filename    string `json:"filename,omitempty"`
}

// Record returns the serialized form of f.
func (f *File) Record() Record {
	r := Record{
		Path:        f.Path,
		URI:         f.URI,
		ContentType: f.ContentType,
		Filename:    f.Filename,
	}
	if f.Size >= 0 {
		size := f.Size
		r.Size = &size
	}
	return r
}

// Exists reports whether the file is present on disk right now. The
// filesystem is re-checked on every call.
func (f *File) Exists() bool {
	if f.Path == "" {
		return false
	}
	_, err := os.Stat(f.Path)
	return err == nil
}

// Refresh re-populates metadata from the current on-disk state. Size is
// always re-read; content type and filename are derived only if unset.
// Callers that mutate a file after creating its reference use this to pick
// up the new size.
func (f *File) Refresh() error {
	if f.Path == "" {
		return ErrResolutionFailed
	}
	f.Size = -1
	f.populate()
	return nil
}

// populate fills unset metadata from the path: content type from the
// extension table, size from the filesystem, filename from the final path
// segment. A missing file leaves size unset rather than failing, so a
// reference can outlive its bytes.
func (f *File) populate() {
	if f.ContentType == "" {
		f.ContentType = TypeByExtension(f.Path)
	}
	if f.Size < 0 {
		if info, err := os.Stat(f.Path); err == nil {
			f.Size = info.Size()
		}
	}
	if f.Filename == "" {
		f.Filename = filepath.Base(f.Path)
	}
}

// Resolve builds a File from input using the default cache. Input may be a
// string (remote locator or local path), a Descriptor, a map with
// descriptor keys, or an existing File (copied without re-fetching).
// Remote locators are downloaded through the cache before Resolve returns.
func Resolve(ctx context.Context, input any) (*File, error) {
	return ResolveWith(ctx, cache.Default(), input)
}

// ResolveWith is Resolve against an explicit cache.
func ResolveWith(ctx context.Context, c *cache.Cache, input any) (*File, error) {
	f, copied, err := classify(input)
	if err != nil {
		return nil, err
	}
	if copied {
		// Copy construction: the source already resolved, nothing to do.
		return f, nil
	}

	if f.Path == "" && f.URI != "" {
		if transport.IsRemote(f.URI) {
			local, err := c.Ensure(ctx, f.URI)
			if err != nil {
				return nil, err
			}
			f.Path = local
		} else {
			// A locator without a recognized remote scheme is a local path.
			f.Path = f.URI
			f.URI = ""
		}
	}

	if f.Path == "" {
		return nil, ErrResolutionFailed
	}

	abs, err := filepath.Abs(f.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve path %s: %w", f.Path, err)
	}
	f.Path = abs

	f.populate()
	return f, nil
}

// FromLocalPath builds a File for a path already on disk, without any
// network access. Used for files the caller materialized itself, such as
// generated output.
func FromLocalPath(path string) (*File, error) {
	if path == "" {
		return nil, ErrInvalidInput
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path %s: %w", path, err)
	}
	f := &File{Path: abs, Size: -1}
	f.populate()
	return f, nil
}
