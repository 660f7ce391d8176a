package printer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExecutableNotFound = errors.New("print executable not found")
	ErrFileNotFound       = errors.New("file to print not found")
)

// NotFoundError carries every location searched for the print executable
type NotFoundError struct {
	Searched []string
}

func (e *NotFoundError) Error() string {
	if len(e.Searched) == 0 {
		return ErrExecutableNotFound.Error() + " (no candidates configured)"
	}
	return fmt.Sprintf("%s (searched: %s)", ErrExecutableNotFound, strings.Join(e.Searched, ", "))
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrExecutableNotFound
}

// ExitError reports a print executable that ran but exited non-zero.
// Output is its trimmed stderr, or its stdout when stderr was empty.
type ExitError struct {
	Code   int
	Output string
}

func (e *ExitError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("print executable exited with status %d", e.Code)
	}
	return fmt.Sprintf("print executable exited with status %d: %s", e.Code, e.Output)
}
