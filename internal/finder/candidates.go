package finder

import (
	"path/filepath"
	"strings"
)

// Extensions is a set of recognized archive suffixes, lower-case with the
// leading dot.
type Extensions []string

var (
	// DefaultExtensions are the ZIP-container comic suffixes.
	DefaultExtensions = Extensions{".cbz", ".zip"}
	// RarExtensions are accepted in addition when RAR input is enabled.
	RarExtensions = Extensions{".cbr", ".rar"}
)

// With returns a new set containing e followed by more.
func (e Extensions) With(more Extensions) Extensions {
	out := make(Extensions, 0, len(e)+len(more))
	out = append(out, e...)
	return append(out, more...)
}

// IsArchive reports whether name carries one of exts, ignoring case. A nil
// set means DefaultExtensions.
func IsArchive(name string, exts Extensions) bool {
	if exts == nil {
		exts = DefaultExtensions
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, candidate := range exts {
		if ext == candidate {
			return true
		}
	}
	return false
}

// IsRarName reports whether name has a RAR-family suffix.
func IsRarName(name string) bool {
	return IsArchive(name, RarExtensions)
}
