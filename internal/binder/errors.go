package binder

import (
	"errors"
	"fmt"
)

// ErrHelp is returned by Bind when -h or --help was given. The help text
// has already been written to Options.Stdout.
var ErrHelp = errors.New("help requested")

// UsageError reports a command line that does not fit the flag definitions.
type UsageError struct {
	Prog    string
	Usage   string
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// ExitCode is the conventional exit status for command-line usage errors.
func (e *UsageError) ExitCode() int {
	return 2
}

func usageErrorf(format string, args ...any) *UsageError {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}
