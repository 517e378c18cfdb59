package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arodd/go-cbzflat/internal/cbz"
	"github.com/arodd/go-cbzflat/internal/cli"
	"github.com/arodd/go-cbzflat/internal/finder"
	"github.com/arodd/go-cbzflat/internal/log"
	"github.com/arodd/go-cbzflat/internal/rar"
	"github.com/arodd/go-cbzflat/internal/validate"
)

var (
	walkInput         = finder.Walk
	eligibleInput     = validate.EligibleInputTree
	writableOutput    = validate.WritableOutput
	inspectOutput     = validate.InspectOutput
	rebuildArchive    = cbz.Rebuild
	ensureOutputDir   = func(path string) error { return os.MkdirAll(path, 0o755) }
	newProgressReport = newProgress
)

// ErrNoArchives is returned when the input tree holds nothing to process.
var ErrNoArchives = errors.New("no eligible archives found")

// Stats tracks rebuild outcomes across a run.
type Stats struct {
	ArchivesFound   int
	ArchivesRebuilt int
	ArchivesSkipped int
	Failures        int
}

// ExitCode computes the process exit code for a completed run.
func ExitCode(stats Stats, allowFailures bool) int {
	if stats.Failures == 0 {
		return 0
	}
	if allowFailures && stats.ArchivesRebuilt > 0 {
		return 0
	}
	return 1
}

type runner struct {
	opts cli.Options
	exts finder.Extensions
	log  *log.Logger
}

// Run rebuilds every eligible archive under opts.InputDir into
// opts.OutputDir. All archives land directly in the output directory, even
// when they were found in nested input directories.
func Run(opts cli.Options, logger *log.Logger) (Stats, error) {
	r := &runner{
		opts: opts,
		exts: extensions(opts),
		log:  logger,
	}

	r.log.Infof("Using input path: %s", opts.InputDir)
	r.log.Infof("Using output path: %s", opts.OutputDir)
	r.log.Verbosef("force: %v", opts.Force)
	r.log.Verbosef("recurse: %v", opts.Recurse)

	if !eligibleInput(opts.InputDir, opts.Recurse, r.exts) {
		r.log.Verbosef("Rejecting input path %q: no file with a valid suffix %v", opts.InputDir, r.exts)
		return Stats{}, fmt.Errorf("%w in %q", ErrNoArchives, opts.InputDir)
	}
	r.log.Verbosef("Accepting input path %q", opts.InputDir)

	status, statusErr := inspectOutput(opts.OutputDir)
	switch {
	case status == validate.OutputUnreadable:
		r.log.Warnf("Cannot read output path %q: %v", opts.OutputDir, statusErr)
	case !writableOutput(opts.OutputDir, opts.Force):
		r.log.Infof("Output path %q is not empty; archives already present will be skipped (use -f to overwrite)", opts.OutputDir)
	case status == validate.OutputNonEmpty:
		r.log.Warnf("Output path %q exists and has files; accepting anyway because of --force", opts.OutputDir)
	default:
		r.log.Verbosef("Accepting output path %q", opts.OutputDir)
	}

	stats, err := r.walk()
	if err != nil {
		return stats, err
	}

	r.logSummary(stats)
	return stats, nil
}

func (r *runner) walk() (Stats, error) {
	var stats Stats

	for entry, walkErr := range walkInput(r.opts.InputDir, r.opts.Recurse, r.exts) {
		if walkErr != nil {
			r.log.Errorf("Cannot read directory %q: %v", entry.Path, walkErr)
			stats.Failures++
			continue
		}

		switch entry.Kind {
		case finder.KindDir:
			if r.opts.Recurse {
				r.log.Verbosef("Recursing into directory: %s", entry.Path)
			} else {
				r.log.Verbosef("Not processing path because it is not a file: %s", entry.Path)
			}
		case finder.KindSpecial:
			r.log.Verbosef("Not processing path because it is not a file: %s", entry.Path)
		case finder.KindOther:
			r.log.Verbosef("Not processing path because it does not have a valid extension: %s", entry.Path)
		case finder.KindArchive:
			stats.ArchivesFound++
			if err := r.processArchive(entry, &stats); err != nil {
				return stats, err
			}
		}
	}
	return stats, nil
}

// processArchive rebuilds one archive. Only errors that should stop the
// whole run are returned; per-archive failures are logged and counted.
func (r *runner) processArchive(entry finder.Entry, stats *Stats) error {
	dest := filepath.Join(r.opts.OutputDir, outputName(entry.Name))

	if info, err := os.Stat(dest); err == nil && !info.IsDir() && !r.opts.Force {
		r.log.Verbosef("Not processing file %q because the output file already exists: %s", entry.Path, dest)
		stats.ArchivesSkipped++
		return nil
	}

	if r.opts.DryRun {
		r.log.Infof("Dry-run: would rebuild %q to %q", entry.Path, dest)
		stats.ArchivesRebuilt++
		return nil
	}

	if err := ensureOutputDir(r.opts.OutputDir); err != nil {
		return fmt.Errorf("create output directory %q: %w", r.opts.OutputDir, err)
	}

	progress := newProgressReport(r.opts.Progress, r.log, entry.Name)
	result, err := rebuildArchive(entry.Path, dest, cbz.Options{
		TempParent:  r.opts.TempDir,
		AllowRar:    r.opts.Cbr,
		Rar:         rar.OpenSettings{MaxDictionaryBytes: r.opts.MaxDictBytes, Password: r.opts.Password},
		CleanHooks:  r.opts.CleanHooks,
		Collisions:  r.opts.Collisions,
		Compression: r.opts.Compression,
		Level:       r.opts.Level,
		Verify:      r.opts.Verify,
		Log:         r.log,
		OnEntry:     progress.update,
	})
	progress.finish()

	if err != nil {
		if errors.Is(err, cbz.ErrTempDir) {
			return err
		}
		r.log.Errorf("Rebuild failed for %q: %v", entry.Path, err)
		stats.Failures++
		return nil
	}

	r.log.Infof("Rebuilt %q -> %q (%d entries)", entry.Path, dest, result.Written)
	stats.ArchivesRebuilt++
	return nil
}

func (r *runner) logSummary(stats Stats) {
	switch {
	case r.opts.DryRun:
		r.log.Infof("Dry-run: %d archive(s) would be rebuilt.", stats.ArchivesRebuilt)
	case stats.ArchivesRebuilt > 0:
		r.log.Infof("%d archive(s) found and rebuilt.", stats.ArchivesRebuilt)
	default:
		r.log.Infof("no archives rebuilt")
	}
	if stats.ArchivesSkipped > 0 {
		r.log.Infof("%d archive(s) skipped because the output already exists.", stats.ArchivesSkipped)
	}

	if stats.Failures > 0 {
		r.log.Errorf("%d failure(s)", stats.Failures)
		if r.opts.AllowFailures && stats.ArchivesRebuilt > 0 {
			r.log.Infof("%d success(es)", stats.ArchivesRebuilt)
		}
	}
}

func extensions(opts cli.Options) finder.Extensions {
	if opts.Cbr {
		return finder.DefaultExtensions.With(finder.RarExtensions)
	}
	return finder.DefaultExtensions
}

// outputName keeps the input name, except that RAR-family inputs are
// renamed to their ZIP counterpart because the output is always a ZIP.
func outputName(name string) string {
	if !finder.IsRarName(name) {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	switch strings.ToLower(ext) {
	case ".cbr":
		return stem + ".cbz"
	case ".rar":
		return stem + ".zip"
	default:
		return name
	}
}
