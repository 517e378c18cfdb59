package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/arodd/go-cbzflat/internal/app"
	"github.com/arodd/go-cbzflat/internal/cli"
	"github.com/arodd/go-cbzflat/internal/log"
)

// version may be overridden at build time with:
// -ldflags "-X main.version=<version>"
var version = "0.3.0"

var runApp = app.Run

func main() {
	os.Exit(runWithIO(os.Args, os.Stdout, os.Stderr))
}

func runWithIO(args []string, stdout, stderr io.Writer) (exitCode int) {
	program := programName(args)

	opts, parseErr := cli.ParseArgs(args)
	logPath := opts.LogFile
	if parseErr != nil {
		// Parse errors still reach a log file named on the command line.
		logPath = findLogFilePath(args)
	}

	out, err := openSinks(stdout, stderr, logPath, opts.NoColor)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if parseErr == nil {
			return 1
		}
		out, _ = openSinks(stdout, stderr, "", true)
	}
	defer func() {
		if err := out.Close(); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			if exitCode == 0 {
				exitCode = 1
			}
		}
	}()

	switch {
	case parseErr != nil:
		fmt.Fprintf(out.stderr, "Error: %v\n\n%s", parseErr, cli.Usage(program))
		return 1
	case opts.ShowHelp:
		fmt.Fprint(out.stdout, cli.Usage(program))
		return 0
	case opts.ShowVersion:
		fmt.Fprintf(out.stdout, "%s %s\n", program, version)
		return 0
	}

	logger := log.NewWithWriters(opts.Quiet, opts.Verbose, out.stdout, out.stderr)
	logger.SetColor(out.color)

	stats, runErr := runApp(opts, logger)
	if runErr != nil {
		logger.Errorf("Run failed: %v", runErr)
		return 1
	}
	return app.ExitCode(stats, opts.AllowFailures)
}

// sinks are the writers a run logs to. With a log file, both console
// streams are teed into it in append mode.
type sinks struct {
	stdout io.Writer
	stderr io.Writer
	color  bool

	file *os.File
	path string
}

func openSinks(stdout, stderr io.Writer, logPath string, noColor bool) (*sinks, error) {
	s := &sinks{
		stdout: stdout,
		stderr: stderr,
		path:   logPath,
		// ANSI codes only go to a real terminal and never into a log file.
		color: !noColor && logPath == "" && !color.NoColor && stderr == io.Writer(os.Stderr),
	}
	if logPath == "" {
		return s, nil
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %q: %w", logPath, err)
	}
	s.file = file
	s.stdout = io.MultiWriter(stdout, file)
	s.stderr = io.MultiWriter(stderr, file)
	return s, nil
}

func (s *sinks) Close() error {
	if s.file == nil {
		return nil
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("close log file %q: %w", s.path, err)
	}
	return nil
}

// findLogFilePath scans raw args for the last non-empty --log-file value,
// for use when full parsing failed. It returns "" when there is none.
func findLogFilePath(args []string) string {
	var raw string
	for i := 1; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name, value, inline := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if name != "log-file" {
			continue
		}
		if !inline {
			if i+1 >= len(args) {
				break
			}
			i++
			value = args[i]
		}
		if strings.TrimSpace(value) != "" {
			raw = value
		}
	}

	if raw == "" {
		return ""
	}
	abs, err := filepath.Abs(raw)
	if err != nil {
		return ""
	}
	return abs
}

func programName(args []string) string {
	if len(args) == 0 || args[0] == "" {
		return "cbzflat"
	}
	return filepath.Base(args[0])
}
