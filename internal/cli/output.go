package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/roach88/arbor/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Expected failure (missing script, declined prune, ...)
	ExitCommandError = 2 // Command error (no tree root, database failure, ...)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code
	Message string // Error message
	Err     error  // Underlying error (optional)

	// Silent suppresses the error line. Used when the exit code is the
	// whole message, e.g. propagating a script's own exit status.
	Silent bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// newExitStatus propagates a child process exit code without a message.
func newExitStatus(code int) *ExitError {
	return &ExitError{Code: code, Silent: true}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError, 0 for nil.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// IsSilent reports whether the error should suppress the error line.
func IsSilent(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Silent
}

// writeBindingList renders a binding listing in the `name - description`
// format, description omitted when empty.
func writeBindingList(w io.Writer, header string, bindings []store.BindingInfo) {
	fmt.Fprintf(w, "%s\n\n", header)
	for _, b := range bindings {
		if b.Description == "" {
			fmt.Fprintf(w, "%s\n", b.Name)
		} else {
			fmt.Fprintf(w, "%s - %s\n", b.Name, b.Description)
		}
	}
}

// writeTreeList renders the registered roots, or a hint when there are none.
func writeTreeList(w io.Writer, trees []store.TreeInfo) {
	if len(trees) == 0 {
		fmt.Fprintln(w, "Looks like no trees have been established yet.")
		fmt.Fprintln(w, "Find a tree you'd like to keep scripts for and run `arbor establish`.")
		return
	}
	for _, t := range trees {
		fmt.Fprintln(w, t.Root)
	}
}
