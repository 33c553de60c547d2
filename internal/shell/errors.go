package shell

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// NotFoundMarker appears in the error text when the compose binary (or the
// docker binary behind it) is missing from PATH.
const NotFoundMarker = "not found"

// ProcessError reports an external command that could not be started or
// exited non-zero.
type ProcessError struct {
	Command  []string
	ExitCode int
	Stderr   string
	Err      error
}

func newProcessError(argv []string, stderr string, err error) *ProcessError {
	pe := &ProcessError{
		Command:  argv,
		ExitCode: -1,
		Stderr:   strings.TrimSpace(stderr),
		Err:      err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		pe.ExitCode = exitErr.ExitCode()
	}
	return pe
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("command %q failed: %v", strings.Join(e.Command, " "), e.Err)
	if e.Stderr != "" {
		msg += ". Stderr: " + e.Stderr
	}
	return msg
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// IsToolMissing reports whether err means the container tooling itself is
// unavailable rather than a command having failed.
func IsToolMissing(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	return strings.Contains(err.Error(), NotFoundMarker)
}
