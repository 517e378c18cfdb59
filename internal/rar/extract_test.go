package rar

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arodd/go-cbzflat/internal/fsutil"
	"github.com/nwaples/rardecode/v2"
)

type fakeArchiveEntry struct {
	header rardecode.FileHeader
	data   []byte
}

type fakeArchiveReader struct {
	entries []fakeArchiveEntry
	index   int
	current *bytes.Reader
	closed  bool
}

func (r *fakeArchiveReader) Next() (*rardecode.FileHeader, error) {
	if r.index >= len(r.entries) {
		return nil, io.EOF
	}

	entry := r.entries[r.index]
	r.index++
	r.current = bytes.NewReader(entry.data)

	headerCopy := entry.header
	return &headerCopy, nil
}

func (r *fakeArchiveReader) Read(p []byte) (int, error) {
	if r.current == nil {
		return 0, io.EOF
	}
	return r.current.Read(p)
}

func (r *fakeArchiveReader) Close() error {
	r.closed = true
	return nil
}

func TestExtractFromArchiveReaderKeepsLayout(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	modTime := time.Now().Add(-time.Hour).Truncate(time.Second)

	reader := &fakeArchiveReader{
		entries: []fakeArchiveEntry{
			{header: rardecode.FileHeader{Name: "images", IsDir: true}},
			{header: rardecode.FileHeader{Name: "images\\chapter1\\page001.jpg", ModificationTime: modTime}, data: []byte("page")},
			{header: rardecode.FileHeader{Name: "cover.jpg"}, data: []byte("cover")},
		},
	}

	written, err := extractFromArchiveReader(reader, root)
	if err != nil {
		t.Fatalf("extractFromArchiveReader returned error: %v", err)
	}
	if written != 2 {
		t.Fatalf("written=%d, want 2", written)
	}

	page := filepath.Join(root, "images", "chapter1", "page001.jpg")
	data, err := os.ReadFile(page)
	if err != nil {
		t.Fatalf("read extracted page: %v", err)
	}
	if string(data) != "page" {
		t.Fatalf("extracted content=%q, want %q", string(data), "page")
	}

	info, err := os.Stat(page)
	if err != nil {
		t.Fatalf("stat extracted page: %v", err)
	}
	if got := info.ModTime().Truncate(time.Second); !got.Equal(modTime) {
		t.Fatalf("modtime=%v, want %v", got, modTime)
	}
	if _, err := os.Stat(filepath.Join(root, "cover.jpg")); err != nil {
		t.Fatalf("expected cover at root: %v", err)
	}
}

func TestExtractFromArchiveReaderRejectsUnsafePath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	reader := &fakeArchiveReader{
		entries: []fakeArchiveEntry{
			{header: rardecode.FileHeader{Name: "../escape.jpg"}, data: []byte("boom")},
		},
	}

	_, err := extractFromArchiveReader(reader, root)
	if err == nil {
		t.Fatal("expected unsafe path error")
	}
	if !strings.Contains(err.Error(), "unsafe path") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractFromArchiveReaderRejectsDuplicateTargets(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	reader := &fakeArchiveReader{
		entries: []fakeArchiveEntry{
			{header: rardecode.FileHeader{Name: "ch1/p1.jpg"}, data: []byte("first")},
			{header: rardecode.FileHeader{Name: "ch1//p1.jpg"}, data: []byte("second")},
		},
	}

	written, err := extractFromArchiveReader(reader, root)
	var dup *fsutil.DuplicateEntryError
	if !errors.As(err, &dup) {
		t.Fatalf("err=%v, want *fsutil.DuplicateEntryError", err)
	}
	if written != 1 {
		t.Fatalf("written=%d, want 1", written)
	}
	data, err := os.ReadFile(filepath.Join(root, "ch1", "p1.jpg"))
	if err != nil {
		t.Fatalf("read first entry: %v", err)
	}
	if string(data) != "first" {
		t.Fatalf("first entry overwritten: %q", data)
	}
}

func TestExtractFromArchiveReaderSkipsSymlinkEntries(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	reader := &fakeArchiveReader{
		entries: []fakeArchiveEntry{
			{
				header: rardecode.FileHeader{
					Name:       "link",
					HostOS:     rardecode.HostOSUnix,
					Attributes: 0xA000 | 0o777,
				},
				data: []byte("target"),
			},
			{header: rardecode.FileHeader{Name: "page.jpg"}, data: []byte("x")},
		},
	}

	written, err := extractFromArchiveReader(reader, root)
	if err != nil {
		t.Fatalf("extractFromArchiveReader returned error: %v", err)
	}
	if written != 1 {
		t.Fatalf("written=%d, want 1", written)
	}
	if _, err := os.Lstat(filepath.Join(root, "link")); !os.IsNotExist(err) {
		t.Fatalf("expected symlink entry to be skipped, lstat err=%v", err)
	}
}

func TestExtractToDirWithOpenerClosesReader(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	reader := &fakeArchiveReader{
		entries: []fakeArchiveEntry{
			{header: rardecode.FileHeader{Name: "a/b.jpg"}, data: []byte("payload")},
		},
	}

	openedArchive := ""
	opener := func(path string, opts ...rardecode.Option) (archiveReadCloser, error) {
		openedArchive = path
		return reader, nil
	}

	written, err := extractToDirWithOpener(opener, "book.cbr", root)
	if err != nil {
		t.Fatalf("extractToDirWithOpener returned error: %v", err)
	}
	if openedArchive != "book.cbr" {
		t.Fatalf("opened archive path=%q, want %q", openedArchive, "book.cbr")
	}
	if written != 1 {
		t.Fatalf("written=%d, want 1", written)
	}
	if !reader.closed {
		t.Fatal("expected reader to be closed")
	}
}

func TestExtractToDirWithOpenerPropagatesOpenError(t *testing.T) {
	t.Parallel()

	opener := func(path string, opts ...rardecode.Option) (archiveReadCloser, error) {
		return nil, rardecode.ErrBadPassword
	}

	_, err := extractToDirWithOpener(opener, "book.cbr", t.TempDir())
	if !errors.Is(err, rardecode.ErrBadPassword) {
		t.Fatalf("err=%v, want ErrBadPassword", err)
	}
	if !errors.Is(err, ErrEncrypted) {
		t.Fatal("expected ErrEncrypted classification")
	}
}
