package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// ReplaceFile renames the regular file src over dst. Both must live on the
// same filesystem; CreateTempFile places src beside dst for that reason.
func ReplaceFile(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("replace %q: source is not a regular file", src)
	}
	if dstInfo, err := os.Lstat(dst); err == nil && dstInfo.IsDir() {
		return fmt.Errorf("replace %q: destination is a directory", dst)
	}
	return os.Rename(src, dst)
}

func splitDest(dst string) (string, string) {
	return filepath.Dir(dst), filepath.Base(dst)
}
