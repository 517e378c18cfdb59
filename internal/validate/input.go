// Package validate decides whether an input tree has work to do and whether
// an output location may be written into.
package validate

import (
	"os"

	"github.com/arodd/go-cbzflat/internal/finder"
)

// EligibleInputTree reports whether path is a directory holding at least one
// archive matching exts, directly or, when recurse is set, in any
// subdirectory. The walk stops at the first match. Unreadable subdirectories
// are ignored. A nil exts means finder.DefaultExtensions.
func EligibleInputTree(path string, recurse bool, exts finder.Extensions) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}

	for entry, err := range finder.Walk(path, recurse, exts) {
		if err != nil {
			continue
		}
		if entry.Kind == finder.KindArchive {
			return true
		}
	}
	return false
}
