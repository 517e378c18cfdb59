package hooks

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arodd/go-cbzflat/internal/log"
)

// Context carries the extraction root a hook cleans.
type Context struct {
	Root string
	Log  *log.Logger
}

// Run executes cleanup hooks in deterministic order based on selection.
func Run(selection []string, ctx Context) error {
	names := resolveNames(selection)
	if len(names) == 0 {
		return nil
	}

	var errs []error
	for _, name := range names {
		def, ok := lookup(name)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown clean hook %q", name))
			continue
		}
		if ctx.Log != nil {
			ctx.Log.Verbosef("Running clean hook %q", name)
		}
		if err := def.Run(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	return errors.Join(errs...)
}

func runOSXJunk(ctx Context) error {
	return removeMatching(ctx, func(name string, isDir bool) bool {
		if isDir {
			return name == "__MACOSX"
		}
		return name == ".DS_Store" || strings.HasPrefix(name, "._")
	})
}

func runWindowsJunk(ctx Context) error {
	return removeMatching(ctx, func(name string, isDir bool) bool {
		return !isDir && (strings.EqualFold(name, "Thumbs.db") || strings.EqualFold(name, "desktop.ini"))
	})
}

func runNFO(ctx Context) error {
	return removeMatching(ctx, suffixMatcher(".nfo"))
}

func runSFV(ctx Context) error {
	return removeMatching(ctx, suffixMatcher(".sfv"))
}

func suffixMatcher(ext string) func(string, bool) bool {
	return func(name string, isDir bool) bool {
		return !isDir && strings.EqualFold(filepath.Ext(name), ext)
	}
}

// removeMatching deletes every entry below ctx.Root accepted by match.
// Matched directories are removed whole and not descended into.
func removeMatching(ctx Context, match func(name string, isDir bool) bool) error {
	matches := make([]string, 0, 8)

	err := filepath.WalkDir(ctx.Root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == ctx.Root {
			return nil
		}
		if !match(d.Name(), d.IsDir()) {
			return nil
		}
		matches = append(matches, path)
		if d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return err
	}

	sort.Strings(matches)
	for _, target := range matches {
		if ctx.Log != nil {
			ctx.Log.Verbosef("Removing %q", target)
		}
		if err := os.RemoveAll(target); err != nil {
			return err
		}
	}
	return nil
}
