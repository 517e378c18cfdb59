package cbz

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arodd/go-cbzflat/internal/fsutil"
	"github.com/arodd/go-cbzflat/internal/rar"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

const copyBufferSize = 256 * 1024

// Container names the format an input was decoded from.
type Container string

const (
	ContainerZip Container = "zip"
	ContainerRar Container = "rar"
)

var (
	sniffRar   = rar.Sniff
	extractRar = rar.ExtractToDir
)

func init() {
	zip.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())
}

// extract fully unpacks inputPath into dir. ZIP is tried first; RAR is
// only attempted when allowed and the file carries a RAR marker block.
func extract(inputPath, dir string, opts Options) (Container, error) {
	zipErr := extractZip(inputPath, dir)
	if zipErr == nil {
		return ContainerZip, nil
	}
	if !opts.AllowRar {
		return "", zipErr
	}

	version, err := sniffRar(inputPath)
	if err != nil {
		return "", err
	}
	if version == rar.VersionNone {
		return "", zipErr
	}
	if _, err := extractRar(inputPath, dir, opts.Rar); err != nil {
		return "", err
	}
	return ContainerRar, nil
}

func extractZip(inputPath, dir string) error {
	reader, err := zip.OpenReader(inputPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	buf := make([]byte, copyBufferSize)
	claimed := make(fsutil.EntrySet)
	for _, file := range reader.File {
		name, err := fsutil.SanitizeEntryName(file.Name)
		if err != nil {
			return fmt.Errorf("unsafe path in archive: %w", err)
		}
		target := fsutil.JoinEntry(dir, name)

		mode := file.Mode()
		if mode.IsDir() || strings.HasSuffix(file.Name, "/") {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if !mode.IsRegular() {
			continue
		}
		if err := claimed.Claim(file.Name, name); err != nil {
			return err
		}

		if err := extractZipFile(file, target, buf); err != nil {
			return fmt.Errorf("extract %q: %w", file.Name, err)
		}
	}
	return nil
}

func extractZipFile(file *zip.File, target string, buf []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	_, copyErr := io.CopyBuffer(out, rc, buf)
	closeErr := out.Close()
	if copyErr != nil {
		_ = os.Remove(target)
		return copyErr
	}
	if closeErr != nil {
		_ = os.Remove(target)
		return closeErr
	}

	if modTime := file.Modified; !modTime.IsZero() {
		_ = os.Chtimes(target, time.Now(), modTime)
	}
	return nil
}
