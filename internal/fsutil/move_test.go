package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReplaceFileCreatesDestination(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "source.tmp")
	dst := filepath.Join(root, "book.cbz")

	if err := os.WriteFile(src, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}

	if err := ReplaceFile(src, dst); err != nil {
		t.Fatalf("ReplaceFile returned error: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("source still exists after replace: %v", err)
	}
	content, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(content) != "hello" {
		t.Fatalf("destination content=%q, want %q", string(content), "hello")
	}
}

func TestReplaceFileOverwritesExistingDestination(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "source.tmp")
	dst := filepath.Join(root, "book.cbz")
	if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}
	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatalf("write existing dest: %v", err)
	}

	if err := ReplaceFile(src, dst); err != nil {
		t.Fatalf("ReplaceFile returned error: %v", err)
	}
	content, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(content) != "new" {
		t.Fatalf("destination content=%q, want %q", string(content), "new")
	}
}

func TestReplaceFileRejectsDirectoryDestination(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "source.tmp")
	dst := filepath.Join(root, "book.cbz")
	if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}
	if err := os.Mkdir(dst, 0o755); err != nil {
		t.Fatalf("mkdir dst: %v", err)
	}

	if err := ReplaceFile(src, dst); err == nil {
		t.Fatal("expected error when destination is a directory")
	}
}

func TestReplaceFileRejectsNonRegularSource(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "source.d")
	dst := filepath.Join(root, "book.cbz")
	if err := os.Mkdir(src, 0o755); err != nil {
		t.Fatalf("mkdir src: %v", err)
	}

	if err := ReplaceFile(src, dst); err == nil {
		t.Fatal("expected error when source is a directory")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatalf("expected destination untouched, stat err=%v", err)
	}
}

func TestReplaceFileFromCreateTempFile(t *testing.T) {
	t.Parallel()

	dst := filepath.Join(t.TempDir(), "book.cbz")
	tmp, err := CreateTempFile(dst)
	if err != nil {
		t.Fatalf("CreateTempFile returned error: %v", err)
	}
	if _, err := tmp.WriteString("payload"); err != nil {
		t.Fatalf("write temp: %v", err)
	}
	if err := tmp.Close(); err != nil {
		t.Fatalf("close temp: %v", err)
	}

	if err := ReplaceFile(tmp.Name(), dst); err != nil {
		t.Fatalf("ReplaceFile returned error: %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(dst))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "book.cbz" {
		t.Fatalf("expected only book.cbz to remain, got %v", entries)
	}
}

func TestIsEmptyDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	empty, err := IsEmptyDir(root)
	if err != nil {
		t.Fatalf("IsEmptyDir returned error: %v", err)
	}
	if !empty {
		t.Fatal("expected fresh temp dir to be empty")
	}

	if err := os.WriteFile(filepath.Join(root, "x"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	empty, err = IsEmptyDir(root)
	if err != nil {
		t.Fatalf("IsEmptyDir returned error: %v", err)
	}
	if empty {
		t.Fatal("expected directory with a file to be non-empty")
	}

	if _, err := IsEmptyDir(filepath.Join(root, "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
