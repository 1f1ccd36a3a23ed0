package pwsh

import (
	"errors"
	"fmt"

	"github.com/smnsjas/go-psscript/locator"
)

// Sentinel errors for script runs.
var (
	// ErrInterpreterNotFound indicates no PowerShell executable could be
	// resolved. It wraps locator.ErrNotFound.
	ErrInterpreterNotFound = fmt.Errorf("pwsh: %w", locator.ErrNotFound)

	// ErrStdinUnavailable indicates the child was started without an input pipe.
	ErrStdinUnavailable = errors.New("pwsh: failed to acquire a handle to stdin in the child process")
)

// ScriptError is returned when the interpreter ran but exited unsuccessfully.
// Output holds the same captures a successful run would.
type ScriptError struct {
	Output *Output
}

// Error renders the captured stdout followed by stderr.
func (e *ScriptError) Error() string {
	if s := e.Output.String(); s != "" {
		return s
	}
	return fmt.Sprintf("pwsh: script failed with exit code %d", e.Output.ExitCode())
}

// IOError wraps an operating system error from starting the interpreter or
// talking to it over its pipes.
type IOError struct {
	// Op is the failed step: "spawn", "echo", "write stdin", "close stdin",
	// "wait" or, for RunBatch, "queue".
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("pwsh: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Kind is the flat classification of a run outcome.
type Kind int

const (
	KindSuccess Kind = iota
	KindScriptFailure
	KindIO
	KindInterpreterNotFound
	KindStdinUnavailable
	// KindUnknown is any error not produced by this package.
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindScriptFailure:
		return "script failure"
	case KindIO:
		return "i/o failure"
	case KindInterpreterNotFound:
		return "interpreter not found"
	case KindStdinUnavailable:
		return "stdin unavailable"
	default:
		return "unknown"
	}
}

// Classify maps the error returned by Run to its Kind. A nil error is
// KindSuccess.
func Classify(err error) Kind {
	if err == nil {
		return KindSuccess
	}

	var scriptErr *ScriptError
	var ioErr *IOError
	switch {
	case errors.As(err, &scriptErr):
		return KindScriptFailure
	case errors.As(err, &ioErr):
		return KindIO
	case errors.Is(err, ErrInterpreterNotFound), errors.Is(err, locator.ErrNotFound):
		return KindInterpreterNotFound
	case errors.Is(err, ErrStdinUnavailable):
		return KindStdinUnavailable
	default:
		return KindUnknown
	}
}
