package fsutil

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"unicode"
)

// SanitizeEntryName checks that an archive entry name is a relative slash
// path that cannot escape an extraction root. The name is returned as
// written apart from redundant "." and "/" segments; a trailing "/" marking
// a directory entry is dropped. Backslashes stay part of the name but are
// treated as separators when looking for traversal.
func SanitizeEntryName(raw string) (string, error) {
	name := strings.TrimSuffix(raw, "/")
	if name == "" {
		return "", fmt.Errorf("empty entry name")
	}
	if strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("entry name %q contains NUL", raw)
	}

	guard := strings.ReplaceAll(name, "\\", "/")
	if strings.HasPrefix(guard, "/") {
		return "", fmt.Errorf("absolute entry name %q", raw)
	}
	if hasDrivePrefix(guard) {
		return "", fmt.Errorf("entry name %q has a drive prefix", raw)
	}
	for _, segment := range strings.Split(guard, "/") {
		if segment == ".." {
			return "", fmt.Errorf("entry name %q escapes the archive root", raw)
		}
	}

	cleaned := path.Clean(name)
	if cleaned == "." {
		return "", fmt.Errorf("unsafe entry name %q", raw)
	}
	return cleaned, nil
}

// JoinEntry resolves a sanitized slash entry name under root.
func JoinEntry(root, name string) string {
	return filepath.Join(root, filepath.FromSlash(name))
}

func hasDrivePrefix(pathValue string) bool {
	if len(pathValue) < 2 || pathValue[1] != ':' {
		return false
	}
	return unicode.IsLetter(rune(pathValue[0]))
}

// DuplicateEntryError reports two archive entries that resolve to the same
// extracted file.
type DuplicateEntryError struct {
	Name   string
	First  string
	Second string
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("entries %q and %q both extract to %q", e.First, e.Second, e.Name)
}

// EntrySet tracks the sanitized file names already extracted from one
// archive, keyed to the raw name that claimed them.
type EntrySet map[string]string

// Claim records that raw extracts to name. It fails instead of letting a
// later entry overwrite an earlier one.
func (s EntrySet) Claim(raw, name string) error {
	if first, ok := s[name]; ok {
		return &DuplicateEntryError{Name: name, First: first, Second: raw}
	}
	s[name] = raw
	return nil
}
