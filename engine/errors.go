// Package engine wires the compilation cache, relationship tracker,
// symbol index, workspace metadata, and request providers behind the
// single external interface spec.md §6 describes, mirroring the
// teacher's MCP server: a small set of request handlers over shared,
// injected state, returning structured errors rather than raw Go errors
// across the boundary.
package engine

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error codes for CoreError, one per spec.md §7 taxonomy entry. The
// numeric values are this module's own — they are not wire-compatible
// with any other protocol's error-code space, just stable identifiers a
// caller can branch on or log.
const (
	CodeParseError       = 1001 // compile failure; reported as a diagnostic, never returned here
	CodeUnresolvedSymbol = 1002 // a position query could not be resolved
	CodeInvalidRequest   = 1003 // out-of-range position, unknown URI, invalid new name, rename into a dependency
	CodeCancelled        = 1004 // request was cancelled before completion
	CodeInternal         = 1005 // unexpected failure; affected document's cache entry is invalidated
)

// CoreError is the structured error every engine operation returns
// instead of a bare error, mirroring the teacher's MCPError: a stable
// numeric code plus a human-readable message and optional cause, so a
// caller across a process boundary can branch on Code without parsing
// Message text (spec.md §7).
type CoreError struct {
	Code    int
	Message string
	Cause   error
}

func (e *CoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (code %d): %v", e.Message, e.Code, e.Cause)
	}
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

func (e *CoreError) Unwrap() error { return e.Cause }

func newCoreError(code int, message string, cause error) *CoreError {
	return &CoreError{Code: code, Message: message, Cause: cause}
}

// cancelledError is the dedicated sentinel spec.md §7 requires for the
// Cancelled category, distinct from an InvalidRequest or Internal error
// so a caller can special-case "the request simply never finished"
// without inspecting Message text.
func cancelledError() *CoreError {
	return newCoreError(CodeCancelled, "request cancelled", nil)
}

func invalidRequestError(message string, cause error) *CoreError {
	return newCoreError(CodeInvalidRequest, message, cause)
}

// internalError wraps cause with a stack trace (github.com/pkg/errors)
// before attaching it, so a logged Internal-class error (spec.md §7)
// carries the call site it actually failed at rather than just the
// provider-call boundary that noticed.
func internalError(message string, cause error) *CoreError {
	if cause != nil {
		cause = errors.WithStack(cause)
	}
	return newCoreError(CodeInternal, message, cause)
}
