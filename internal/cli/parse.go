package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/arodd/go-cbzflat/internal/cbz"
	"github.com/arodd/go-cbzflat/internal/flatten"
	"github.com/arodd/go-cbzflat/internal/hooks"
)

// Options contains parsed command-line options.
type Options struct {
	InputDir  string
	OutputDir string
	LogFile   string
	TempDir   string

	Force         bool
	Recurse       bool
	DryRun        bool
	Quiet         bool
	Verbose       bool
	NoColor       bool
	Progress      bool
	AllowFailures bool
	Verify        bool

	Cbr          bool
	Password     string
	MaxDictBytes int64

	Compression cbz.Compression
	Level       int
	Collisions  flatten.Policy
	CleanHooks  []string

	ShowHelp    bool
	ShowVersion bool
}

// ParseArgs parses and validates command-line arguments. Flags may appear
// before, between or after the positional arguments.
func ParseArgs(args []string) (Options, error) {
	opts := defaultOptions()
	fs := flag.NewFlagSet("cbzflat", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		cleanSpec   string
		compression string
		collisions  string
		logFile     requiredPathFlag
	)

	fs.BoolVar(&opts.Force, "force", false, "")
	fs.BoolVar(&opts.Force, "f", false, "")
	fs.BoolVar(&opts.Recurse, "recurse", false, "")
	fs.BoolVar(&opts.Recurse, "r", false, "")
	fs.BoolVar(&opts.DryRun, "dry", false, "")
	fs.BoolVar(&opts.DryRun, "d", false, "")
	fs.BoolVar(&opts.Verbose, "verbose", false, "")
	fs.BoolVar(&opts.Verbose, "v", false, "")
	fs.BoolVar(&opts.Quiet, "quiet", false, "")
	fs.BoolVar(&opts.Quiet, "q", false, "")
	fs.BoolVar(&opts.NoColor, "no-color", false, "")
	fs.BoolVar(&opts.Progress, "progress", false, "")
	fs.BoolVar(&opts.AllowFailures, "allow-failures", false, "")
	fs.BoolVar(&opts.Verify, "verify", false, "")
	fs.BoolVar(&opts.Cbr, "cbr", false, "")
	fs.StringVar(&opts.Password, "password", "", "")
	fs.Int64Var(&opts.MaxDictBytes, "max-dict", opts.MaxDictBytes, "")
	fs.StringVar(&compression, "compression", string(opts.Compression), "")
	fs.IntVar(&opts.Level, "level", 0, "")
	fs.StringVar(&collisions, "collisions", string(opts.Collisions), "")
	fs.StringVar(&cleanSpec, "clean", "none", "")
	fs.StringVar(&opts.TempDir, "temp-dir", "", "")
	fs.Var(&logFile, "log-file", "")
	fs.BoolVar(&opts.ShowVersion, "version", false, "")
	fs.BoolVar(&opts.ShowHelp, "help", false, "")
	fs.BoolVar(&opts.ShowHelp, "h", false, "")

	positional, err := parseInterspersed(fs, args[1:])
	if err != nil {
		return Options{}, err
	}

	if opts.Quiet {
		opts.Verbose = false
	}
	if opts.MaxDictBytes <= 0 {
		return Options{}, fmt.Errorf("--max-dict must be > 0")
	}
	if opts.Level < 0 || opts.Level > 9 {
		return Options{}, fmt.Errorf("--level must be between 0 and 9")
	}

	if opts.Compression, err = cbz.ParseCompression(compression); err != nil {
		return Options{}, err
	}
	if opts.Collisions, err = flatten.ParsePolicy(collisions); err != nil {
		return Options{}, err
	}
	if opts.CleanHooks, err = parseCleanHooks(cleanSpec); err != nil {
		return Options{}, err
	}

	if logFile.set {
		opts.LogFile = logFile.value
	}
	if opts.LogFile != "" {
		opts.LogFile, err = filepath.Abs(opts.LogFile)
		if err != nil {
			return Options{}, fmt.Errorf("failed to resolve log file path: %w", err)
		}
	}

	if opts.ShowHelp || opts.ShowVersion {
		return opts, nil
	}

	if len(positional) != 2 {
		return Options{}, fmt.Errorf("expected INPUT and OUTPUT directory arguments")
	}

	if opts.InputDir, err = filepath.Abs(positional[0]); err != nil {
		return Options{}, fmt.Errorf("failed to resolve input path: %w", err)
	}
	if opts.OutputDir, err = filepath.Abs(positional[1]); err != nil {
		return Options{}, fmt.Errorf("failed to resolve output path: %w", err)
	}
	if opts.TempDir != "" {
		if opts.TempDir, err = filepath.Abs(opts.TempDir); err != nil {
			return Options{}, fmt.Errorf("failed to resolve temp directory path: %w", err)
		}
	}

	if err := validatePaths(opts); err != nil {
		return Options{}, err
	}

	return opts, nil
}

func defaultOptions() Options {
	return Options{
		MaxDictBytes: 1 << 30,
		Compression:  cbz.CompressionDeflate,
		Collisions:   flatten.PolicyLast,
		CleanHooks:   []string{"none"},
	}
}

// parseInterspersed parses fs repeatedly so positional arguments may sit
// between flags. Everything after "--" is positional.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		if len(args) > len(rest) && args[len(args)-len(rest)-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func validatePaths(opts Options) error {
	info, err := os.Stat(opts.InputDir)
	if err != nil {
		return fmt.Errorf("input directory %q: %w", opts.InputDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", opts.InputDir)
	}

	if outInfo, err := os.Stat(opts.OutputDir); err == nil && !outInfo.IsDir() {
		return fmt.Errorf("output path %q is not a directory", opts.OutputDir)
	}

	if opts.TempDir != "" {
		tmpInfo, err := os.Stat(opts.TempDir)
		if err != nil {
			return fmt.Errorf("temp directory %q: %w", opts.TempDir, err)
		}
		if !tmpInfo.IsDir() {
			return fmt.Errorf("temp path %q is not a directory", opts.TempDir)
		}
	}
	return nil
}

func parseCleanHooks(spec string) ([]string, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("clean up hooks must be specified when using --clean=")
	}

	parts := strings.Split(spec, ",")
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))

	for _, part := range parts {
		hook := strings.ToLower(strings.TrimSpace(part))
		if hook == "" {
			return nil, fmt.Errorf("--clean contains an empty hook name")
		}
		if !hooks.IsKnown(hook) {
			return nil, fmt.Errorf("unknown clean hook %q", hook)
		}
		if _, ok := seen[hook]; ok {
			continue
		}
		seen[hook] = struct{}{}
		out = append(out, hook)
	}

	if len(out) > 1 && slices.Contains(out, "none") {
		return nil, fmt.Errorf("--clean=none cannot be combined with other hooks")
	}
	if len(out) > 1 && slices.Contains(out, "all") {
		return nil, fmt.Errorf("--clean=all cannot be combined with other hooks")
	}
	return out, nil
}

type requiredPathFlag struct {
	set   bool
	value string
}

func (f *requiredPathFlag) String() string {
	return f.value
}

func (f *requiredPathFlag) Set(value string) error {
	f.set = true
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("--log-file requires FILE")
	}
	f.value = value
	return nil
}
