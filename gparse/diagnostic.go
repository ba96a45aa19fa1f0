package gparse

import "github.com/groovylang/lsp-core/position"

// Severity mirrors the LSP DiagnosticSeverity levels spec.md §4.6.8's
// diagnostics-merge layer operates over.
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
	SeverityInformation
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "information"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Diagnostic is a single parse- or compile-time finding, already converted
// to editor coordinates so providers never touch compiler coordinates
// directly (spec.md §4.1).
type Diagnostic struct {
	Range    position.Range
	Severity Severity
	Message  string
	Source   string
	Code     string
}
