package ogex

// DiagKind classifies which parse stage produced a diagnostic.
type DiagKind string

const (
	// DiagLexical indicates a malformed token.
	DiagLexical DiagKind = "lexical"
	// DiagSyntax indicates a grammar violation.
	DiagSyntax DiagKind = "syntax"
	// DiagSemantic indicates a metaschema or property type violation.
	DiagSemantic DiagKind = "semantic"
	// DiagName indicates a duplicate or unresolved name.
	DiagName DiagKind = "name"
)

// IssueLevel represents severity of a diagnostic.
type IssueLevel string

const (
	// IssueError indicates an error.
	IssueError IssueLevel = "error"
	// IssueWarning indicates a warning.
	IssueWarning IssueLevel = "warning"
)

// Diagnostic represents one problem found while parsing, validating, or
// resolving a document. Diagnostics are ordered by discovery; a non-empty
// list does not make the returned tree unusable.
type Diagnostic struct {
	Kind    DiagKind   `json:"kind" yaml:"kind"`                     // Stage that produced the diagnostic
	Level   IssueLevel `json:"level" yaml:"level"`                   // Severity level
	Code    string     `json:"code,omitempty" yaml:"code,omitempty"` // Machine-readable code
	Message string     `json:"message" yaml:"message"`               // Diagnostic message
	Path    string     `json:"path,omitempty" yaml:"path,omitempty"` // Structure path from the root
	Line    int        `json:"line,omitempty" yaml:"line,omitempty"` // Source line
	Col     int        `json:"col,omitempty" yaml:"col,omitempty"`   // Source column
}

// HasErrors reports whether any diagnostic in the list is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Level == IssueError {
			return true
		}
	}

	return false
}
