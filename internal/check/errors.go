package check

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrUnknownBackend signals a target-backend name that is not in the
	// registry.
	ErrUnknownBackend = errors.New("unknown backend")

	// ErrNoMatchingBackend signals a selection pattern that matched none of
	// the instantiated backends.
	ErrNoMatchingBackend = errors.New("no backend matches pattern")

	// ErrMissingExport signals a function name that at least one backend
	// module does not export.
	ErrMissingExport = errors.New("missing export")
)

// CompilationError wraps a failure from the compile collaborator with the
// module and backend it was compiling for. The underlying error is carried
// verbatim.
type CompilationError struct {
	Module  string
	Backend string
	Err     error
}

// Error implements the error interface.
func (e *CompilationError) Error() string {
	return fmt.Sprintf("compiling module %q for backend %q: %v", e.Module, e.Backend, e.Err)
}

// Unwrap returns the compiler's original error.
func (e *CompilationError) Unwrap() error { return e.Err }

// DisagreementError is the expected test-failure outcome: one or more
// backend pairs produced differing results. It carries the full report and
// the results themselves so the discrepancy can be localized without a
// rerun.
type DisagreementError struct {
	Report  *Report
	Results *MultiResult
	Diff    string // rendered diff of the first differing pair
}

// Error implements the error interface.
func (e *DisagreementError) Error() string {
	msg := fmt.Sprintf("backends disagree (%s):\n%s", e.Report, e.Results)
	if e.Diff != "" {
		msg += "\nfirst differing pair (-reference +candidate):\n" + e.Diff
	}
	return msg
}
