package cbz

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arodd/go-cbzflat/internal/flatten"
	"github.com/arodd/go-cbzflat/internal/fsutil"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// Compression selects the method used for output entries.
type Compression string

const (
	CompressionDeflate Compression = "deflate"
	CompressionStore   Compression = "store"
)

// ParseCompression validates a compression name.
func ParseCompression(raw string) (Compression, error) {
	switch c := Compression(strings.ToLower(strings.TrimSpace(raw))); c {
	case CompressionDeflate, CompressionStore:
		return c, nil
	default:
		return "", fmt.Errorf("unknown compression %q (want deflate or store)", raw)
	}
}

func (c Compression) method() uint16 {
	if c == CompressionStore {
		return zip.Store
	}
	return zip.Deflate
}

// writeArchive writes every planned entry from root into out and closes it.
func writeArchive(out *os.File, root string, plan []flatten.Entry, opts Options) error {
	w := zip.NewWriter(out)
	if opts.Level != 0 {
		level := opts.Level
		w.RegisterCompressor(zip.Deflate, func(dst io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(dst, level)
		})
	}

	method := opts.Compression.method()
	buf := make([]byte, copyBufferSize)
	for i, entry := range plan {
		if err := addFile(w, fsutil.JoinEntry(root, entry.Source), entry.Target, method, buf); err != nil {
			_ = w.Close()
			_ = out.Close()
			return fmt.Errorf("add %q: %w", entry.Target, err)
		}
		if opts.OnEntry != nil {
			opts.OnEntry(i+1, len(plan))
		}
	}

	closeErr := w.Close()
	syncErr := out.Sync()
	fileErr := out.Close()
	switch {
	case closeErr != nil:
		return closeErr
	case syncErr != nil:
		return syncErr
	default:
		return fileErr
	}
}

func addFile(w *zip.Writer, src, name string, method uint16, buf []byte) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = method

	entry, err := w.CreateHeader(header)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	_, err = io.CopyBuffer(entry, in, buf)
	return err
}
