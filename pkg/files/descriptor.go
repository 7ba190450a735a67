package files

import (
	"github.com/inference-sh/go-appsdk/pkg/transport"
)

// Descriptor is a structured alternative to passing a bare string: any
// combination of locator, path, and metadata overrides.
type Descriptor struct {
	URI         string
	Path        string
	ContentType string
	Size        int64 // <= 0 means unset
	Filename    string
}

// classify turns one of the accepted input shapes into an unresolved File.
// The second result is true when input was an existing File, whose fields
// are copied as-is with no further resolution.
func classify(input any) (*File, bool, error) {
	switch v := input.(type) {
	case *File:
		if v == nil || (v.URI == "" && v.Path == "") {
			return nil, false, ErrInvalidInput
		}
		clone := *v
		return &clone, true, nil
	case File:
		if v.URI == "" && v.Path == "" {
			return nil, false, ErrInvalidInput
		}
		clone := v
		return &clone, true, nil
	case string:
		if v == "" {
			return nil, false, ErrInvalidInput
		}
		if transport.IsRemote(v) {
			return &File{URI: v, Size: -1}, false, nil
		}
		return &File{Path: v, Size: -1}, false, nil
	case Descriptor:
		return fromDescriptor(v)
	case *Descriptor:
		if v == nil {
			return nil, false, ErrInvalidInput
		}
		return fromDescriptor(*v)
	case map[string]any:
		return fromDescriptor(normalizeMap(v))
	default:
		return nil, false, ErrInvalidInput
	}
}

func fromDescriptor(d Descriptor) (*File, bool, error) {
	if d.URI == "" && d.Path == "" {
		return nil, false, ErrInvalidInput
	}
	f := &File{
		URI:         d.URI,
		Path:        d.Path,
		ContentType: d.ContentType,
		Filename:    d.Filename,
		Size:        -1,
	}
	if d.Size > 0 {
		f.Size = d.Size
	}
	return f, false, nil
}

// normalizeMap maps loosely typed descriptor keys onto the canonical
// Descriptor fields. Both snake_case and camelCase spellings of the
// content-type key are recognized; this is the only place aliasing is
// handled.
func normalizeMap(m map[string]any) Descriptor {
	var d Descriptor
	if s, ok := m["uri"].(string); ok {
		d.URI = s
	}
	if s, ok := m["path"].(string); ok {
		d.Path = s
	}
	if s, ok := m["content_type"].(string); ok {
		d.ContentType = s
	} else if s, ok := m["contentType"].(string); ok {
		d.ContentType = s
	}
	if s, ok := m["filename"].(string); ok {
		d.Filename = s
	}
	switch n := m["size"].(type) {
	case int:
		d.Size = int64(n)
	case int64:
		d.Size = n
	case float64: // decoded JSON numbers
		d.Size = int64(n)
	}
	return d
}
