package finder

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

// Kind classifies an entry met during a walk.
type Kind int

const (
	// KindArchive is a regular file with a recognized extension.
	KindArchive Kind = iota
	// KindOther is a regular file with any other extension.
	KindOther
	// KindDir is a directory.
	KindDir
	// KindSpecial is anything else: devices, sockets, directory symlinks.
	KindSpecial
)

func (k Kind) String() string {
	switch k {
	case KindArchive:
		return "archive"
	case KindOther:
		return "file"
	case KindDir:
		return "directory"
	default:
		return "special"
	}
}

// Entry is a single child visited by Walk.
type Entry struct {
	Path string
	Name string
	Kind Kind
}

// Walk lazily yields every child of root in name order. Directories are
// yielded before their contents, which follow immediately when recurse is
// set. A directory that cannot be read yields a single error and the walk
// moves on to its siblings. Symlinked directories are never followed.
func Walk(root string, recurse bool, exts Extensions) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		walkDir(root, recurse, exts, yield)
	}
}

func walkDir(dir string, recurse bool, exts Extensions, yield func(Entry, error) bool) bool {
	children, err := os.ReadDir(dir)
	if err != nil {
		return yield(Entry{Path: dir, Name: filepath.Base(dir), Kind: KindDir}, err)
	}

	for _, child := range children {
		entry := Entry{
			Path: filepath.Join(dir, child.Name()),
			Name: child.Name(),
		}
		entry.Kind = classify(entry.Path, child.Type(), exts)

		if !yield(entry, nil) {
			return false
		}
		if entry.Kind == KindDir && recurse {
			if !walkDir(entry.Path, recurse, exts, yield) {
				return false
			}
		}
	}
	return true
}

func classify(path string, mode fs.FileMode, exts Extensions) Kind {
	if mode&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return KindSpecial
		}
		mode = info.Mode().Type()
	}

	switch {
	case mode.IsDir():
		return KindDir
	case mode.IsRegular():
		if IsArchive(path, exts) {
			return KindArchive
		}
		return KindOther
	default:
		return KindSpecial
	}
}
