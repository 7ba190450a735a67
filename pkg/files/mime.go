package files

import (
	"path/filepath"
	"strings"
)

// mimeTypes is a closed static table from lowercase extension to MIME
// type. Deliberately not a sniffing engine: a wrong or missing extension
// leaves the content type unset, never errors.
var mimeTypes = map[string]string{
	// Images
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tiff": "image/tiff",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",

	// Video
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",

	// Audio
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",

	// Documents
	".pdf":  "application/pdf",
	".json": "application/json",
	".xml":  "application/xml",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".html": "text/html",

	// Archives
	".zip": "application/zip",
	".tar": "application/x-tar",
	".gz":  "application/gzip",
	".7z":  "application/x-7z-compressed",
	".rar": "application/vnd.rar",
}

// TypeByExtension returns the MIME type for a path's extension, or ""
// when the extension is unknown.
func TypeByExtension(path string) string {
	return mimeTypes[strings.ToLower(filepath.Ext(path))]
}
