package log

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Logger provides simple leveled logging controls.
type Logger struct {
	quiet       bool
	verbose     bool
	infoWriter  io.Writer
	errorWriter io.Writer
	warnColor   *color.Color
	errorColor  *color.Color
}

// NewWithWriters creates a logger that writes info/verbose and warning/error
// output to custom sinks. Colour is disabled until SetColor is called.
func NewWithWriters(quiet, verbose bool, infoWriter, errorWriter io.Writer) *Logger {
	if infoWriter == nil {
		infoWriter = io.Discard
	}
	if errorWriter == nil {
		errorWriter = io.Discard
	}

	l := &Logger{
		quiet:       quiet,
		verbose:     verbose,
		infoWriter:  infoWriter,
		errorWriter: errorWriter,
		warnColor:   color.New(color.FgYellow),
		errorColor:  color.New(color.FgRed, color.Bold),
	}
	l.SetColor(false)
	return l
}

// SetColor toggles ANSI colouring of warnings and errors.
func (l *Logger) SetColor(enabled bool) {
	for _, c := range []*color.Color{l.warnColor, l.errorColor} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// Infof logs a standard informational message.
func (l *Logger) Infof(format string, args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.infoWriter, format+"\n", args...)
}

// Verbosef logs details that should only appear in verbose mode.
func (l *Logger) Verbosef(format string, args ...any) {
	if l.quiet || !l.verbose {
		return
	}
	fmt.Fprintf(l.infoWriter, format+"\n", args...)
}

// Warnf logs a warning to the error sink.
func (l *Logger) Warnf(format string, args ...any) {
	if l.quiet {
		return
	}
	l.warnColor.Fprintf(l.errorWriter, format+"\n", args...)
}

// Errorf logs errors to stderr.
func (l *Logger) Errorf(format string, args ...any) {
	if l.quiet {
		return
	}
	l.errorColor.Fprintf(l.errorWriter, format+"\n", args...)
}

// ProgressWriter returns the sink progress indicators should render to.
func (l *Logger) ProgressWriter() io.Writer {
	if l.quiet {
		return io.Discard
	}
	return l.errorWriter
}
