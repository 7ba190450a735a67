// Package dirs defines the fixed working directories shared between apps
// and the engine.
package dirs

import "path/filepath"

const (
	// Input holds files staged for an app before it runs.
	Input = "/inf/input"

	// Output holds files an app produces for the engine to collect.
	Output = "/inf/output"

	// Temp holds scratch files. It is cleared between invocations by
	// convention, so downloads into it must never trust existing files.
	Temp = "/inf/tmp"
)

// Ephemeral reports whether dir is cleared between invocations. The
// download utility always re-fetches into ephemeral directories.
func Ephemeral(dir string) bool {
	return filepath.Clean(dir) == Temp
}
