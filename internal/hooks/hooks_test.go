package hooks

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunOSXJunkRemovesMacArtifacts(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root,
		"__MACOSX/images/._page001.jpg",
		"images/.DS_Store",
		"images/._page001.jpg",
		"images/page001.jpg",
	)

	if err := Run([]string{"osx_junk"}, Context{Root: root}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	assertMissing(t, root, "__MACOSX", "images/.DS_Store", "images/._page001.jpg")
	assertPresent(t, root, "images/page001.jpg")
}

func TestRunWindowsJunkIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, "THUMBS.DB", "a/Desktop.ini", "a/page.jpg")

	if err := Run([]string{"windows_junk"}, Context{Root: root}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	assertMissing(t, root, "THUMBS.DB", "a/Desktop.ini")
	assertPresent(t, root, "a/page.jpg")
}

func TestRunAllRemovesReleaseSidecars(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, "release.nfo", "a/release.SFV", "a/page.jpg", "info.txt")

	if err := Run([]string{"all"}, Context{Root: root}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	assertMissing(t, root, "release.nfo", "a/release.SFV")
	assertPresent(t, root, "a/page.jpg", "info.txt")
}

func TestRunNoneLeavesTreeAlone(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, ".DS_Store", "release.nfo")

	if err := Run([]string{"none"}, Context{Root: root}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	assertPresent(t, root, ".DS_Store", "release.nfo")
}

func TestRunReportsUnknownHook(t *testing.T) {
	t.Parallel()

	if err := Run([]string{"bogus"}, Context{Root: t.TempDir()}); err == nil {
		t.Fatal("expected unknown hook error")
	}
}

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %q: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %q: %v", path, err)
		}
	}
}

func assertMissing(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := os.Lstat(filepath.Join(root, filepath.FromSlash(name))); !os.IsNotExist(err) {
			t.Fatalf("expected %q to be removed, stat err=%v", name, err)
		}
	}
}

func assertPresent(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(name))); err != nil {
			t.Fatalf("expected %q to remain, stat err=%v", name, err)
		}
	}
}
