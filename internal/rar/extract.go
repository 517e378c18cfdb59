package rar

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/arodd/go-cbzflat/internal/fsutil"
	"github.com/nwaples/rardecode/v2"
)

const extractCopyBufferSize = 256 * 1024

type archiveReader interface {
	Next() (*rardecode.FileHeader, error)
	io.Reader
}

// ExtractToDir streams every entry of a RAR archive into dir, keeping the
// archive's directory layout. Symlink entries are skipped. It returns the
// number of regular files written.
func ExtractToDir(archivePath, dir string, settings OpenSettings) (int, error) {
	return extractToDirWithOpener(openArchiveReader, archivePath, dir, settings.decodeOptions()...)
}

func extractToDirWithOpener(
	opener openReaderFunc,
	archivePath string,
	dir string,
	opts ...rardecode.Option,
) (int, error) {
	reader, err := opener(archivePath, opts...)
	if err != nil {
		return 0, classify(err)
	}
	defer reader.Close()

	written, err := extractFromArchiveReader(reader, dir)
	return written, classify(err)
}

func extractFromArchiveReader(reader archiveReader, dir string) (int, error) {
	buf := make([]byte, extractCopyBufferSize)
	written := 0
	claimed := make(fsutil.EntrySet)

	for {
		header, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return written, err
		}

		name, err := fsutil.SanitizeEntryName(header.Name)
		if err != nil {
			return written, fmt.Errorf("unsafe path in archive: %w", err)
		}
		if header.Mode()&os.ModeSymlink != 0 {
			continue
		}

		target := fsutil.JoinEntry(dir, name)

		if header.IsDir {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return written, err
			}
			continue
		}

		if err := claimed.Claim(header.Name, name); err != nil {
			return written, err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, err
		}

		out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return written, err
		}

		_, copyErr := io.CopyBuffer(out, reader, buf)
		closeErr := out.Close()
		if copyErr != nil {
			_ = os.Remove(target)
			return written, fmt.Errorf("extract %q: %w", header.Name, copyErr)
		}
		if closeErr != nil {
			_ = os.Remove(target)
			return written, closeErr
		}

		applyModTime(target, header.ModificationTime)
		written++
	}
	return written, nil
}

func applyModTime(path string, modTime time.Time) {
	if modTime.IsZero() {
		return
	}
	_ = os.Chtimes(path, time.Now(), modTime)
}
