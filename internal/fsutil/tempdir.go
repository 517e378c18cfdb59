package fsutil

import (
	"fmt"
	"os"
	"strings"
)

const tempPrefix = ".cbzflat-"

// CreateTempDir creates a scratch extraction directory under parent.
func CreateTempDir(parent string) (string, error) {
	if strings.TrimSpace(parent) == "" {
		return "", fmt.Errorf("temp parent directory is required")
	}
	return os.MkdirTemp(parent, tempPrefix)
}

// CreateTempFile creates an empty file next to dst that can later be
// promoted over it with ReplaceFile.
func CreateTempFile(dst string) (*os.File, error) {
	dir, base := splitDest(dst)
	return os.CreateTemp(dir, tempPrefix+base+"-*.tmp")
}
