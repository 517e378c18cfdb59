package cbz

import (
	"errors"
	"fmt"
)

// ErrTempDir marks failures to acquire or release the scratch directory.
// These point at the environment rather than the archive and should stop a
// run.
var ErrTempDir = errors.New("scratch directory failure")

// ReadError reports an input that could not be read as an archive.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read archive %q: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// WriteError reports a destination archive that could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write archive %q: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
