package validate

import (
	"os"

	"github.com/arodd/go-cbzflat/internal/fsutil"
)

// OutputStatus describes what currently sits at an output path.
type OutputStatus int

const (
	OutputMissing OutputStatus = iota
	OutputEmpty
	OutputNonEmpty
	OutputNotDir
	// OutputUnreadable means the path exists but could not be inspected.
	OutputUnreadable
)

// InspectOutput classifies path. The error is set only for
// OutputUnreadable.
func InspectOutput(path string) (OutputStatus, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return OutputMissing, nil
	}
	if err != nil {
		return OutputUnreadable, err
	}
	if !info.IsDir() {
		return OutputNotDir, nil
	}

	empty, err := fsutil.IsEmptyDir(path)
	if err != nil {
		return OutputUnreadable, err
	}
	if empty {
		return OutputEmpty, nil
	}
	return OutputNonEmpty, nil
}

// WritableOutput reports whether path may receive output: it does not exist,
// it is an empty directory, or it is a non-empty directory and force is set.
// A path that is not a directory, or cannot be read, is never writable.
func WritableOutput(path string, force bool) bool {
	status, _ := InspectOutput(path)
	switch status {
	case OutputMissing, OutputEmpty:
		return true
	case OutputNonEmpty:
		return force
	default:
		return false
	}
}
