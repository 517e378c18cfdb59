// Package cbz rebuilds comic archives with a flattened entry layout.
package cbz

import (
	"fmt"
	"os"
	"sort"

	"github.com/arodd/go-cbzflat/internal/flatten"
	"github.com/arodd/go-cbzflat/internal/fsutil"
	"github.com/arodd/go-cbzflat/internal/hooks"
	"github.com/arodd/go-cbzflat/internal/log"
	"github.com/arodd/go-cbzflat/internal/rar"
	"github.com/arodd/go-cbzflat/internal/verify"
)

var (
	createTempDir = fsutil.CreateTempDir
	removeTempDir = os.RemoveAll
)

// Options controls a single rebuild.
type Options struct {
	// TempParent is where scratch directories are created; empty means
	// os.TempDir().
	TempParent string

	AllowRar bool
	Rar      rar.OpenSettings

	CleanHooks  []string
	Collisions  flatten.Policy
	Compression Compression
	// Level is the deflate level, 1-9. Zero keeps the library default.
	Level  int
	Verify bool

	Log *log.Logger
	// OnEntry is called after each entry is written.
	OnEntry func(done, total int)
}

// Result summarizes a rebuild.
type Result struct {
	Container  Container
	Files      int
	Written    int
	Collisions int
}

// Rebuild extracts inputPath into a scratch directory, flattens its layout
// and writes the result to outputPath. The destination is only replaced once
// the new archive has been fully written (and verified, if requested).
func Rebuild(inputPath, outputPath string, opts Options) (result Result, err error) {
	logger := opts.Log
	if logger == nil {
		logger = log.NewWithWriters(true, false, nil, nil)
	}

	parent := opts.TempParent
	if parent == "" {
		parent = os.TempDir()
	}
	tmpDir, err := createTempDir(parent)
	if err != nil {
		return result, fmt.Errorf("%w: create under %q: %v", ErrTempDir, parent, err)
	}
	defer func() {
		if rmErr := removeTempDir(tmpDir); rmErr != nil && err == nil {
			err = fmt.Errorf("%w: remove %q: %v", ErrTempDir, tmpDir, rmErr)
		}
	}()

	container, err := extract(inputPath, tmpDir, opts)
	if err != nil {
		return result, &ReadError{Path: inputPath, Err: err}
	}
	result.Container = container
	logger.Verbosef("Extracted %q (%s) to %q", inputPath, container, tmpDir)

	if hooks.Enabled(opts.CleanHooks) {
		logger.Verbosef("Cleaning %q with hooks %v", inputPath, opts.CleanHooks)
		if err := hooks.Run(opts.CleanHooks, hooks.Context{Root: tmpDir, Log: logger}); err != nil {
			return result, fmt.Errorf("clean %q: %w", inputPath, err)
		}
	}

	mapping, err := flatten.ComputeMapping(tmpDir)
	if err != nil {
		return result, fmt.Errorf("map %q: %w", inputPath, err)
	}
	result.Files = len(mapping)

	collisions := mapping.Collisions()
	result.Collisions = len(collisions)
	logCollisions(logger, inputPath, collisions)

	plan, err := mapping.Plan(opts.Collisions)
	if err != nil {
		return result, fmt.Errorf("plan %q: %w", inputPath, err)
	}

	if err := commitArchive(tmpDir, plan, outputPath, opts); err != nil {
		return result, err
	}
	result.Written = len(plan)
	return result, nil
}

func commitArchive(root string, plan []flatten.Entry, outputPath string, opts Options) error {
	out, err := fsutil.CreateTempFile(outputPath)
	if err != nil {
		return &WriteError{Path: outputPath, Err: err}
	}
	tmpPath := out.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := out.Chmod(0o644); err != nil {
		_ = out.Close()
		return &WriteError{Path: outputPath, Err: err}
	}
	if err := writeArchive(out, root, plan, opts); err != nil {
		return &WriteError{Path: outputPath, Err: err}
	}

	if opts.Verify {
		expected, err := expectedChecksums(root, plan)
		if err != nil {
			return fmt.Errorf("checksum sources for %q: %w", outputPath, err)
		}
		if err := verify.Archive(tmpPath, expected); err != nil {
			return fmt.Errorf("verify %q: %w", outputPath, err)
		}
	}

	if err := fsutil.ReplaceFile(tmpPath, outputPath); err != nil {
		return &WriteError{Path: outputPath, Err: err}
	}
	committed = true
	return nil
}

func expectedChecksums(root string, plan []flatten.Entry) ([]verify.Expected, error) {
	out := make([]verify.Expected, 0, len(plan))
	for _, entry := range plan {
		crc, err := verify.FileCRC32(fsutil.JoinEntry(root, entry.Source))
		if err != nil {
			return nil, err
		}
		out = append(out, verify.Expected{Name: entry.Target, CRC: crc})
	}
	return out, nil
}

func logCollisions(logger *log.Logger, inputPath string, collisions map[string][]string) {
	targets := make([]string, 0, len(collisions))
	for target := range collisions {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	for _, target := range targets {
		logger.Warnf("%q: %d entries flatten to %q: %v", inputPath, len(collisions[target]), target, collisions[target])
	}
}
