package validation

import "fmt"

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one validation finding.
type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	NodeType string   `json:"node_type,omitempty"`
	Path     string   `json:"path,omitempty"`
}

// Report aggregates findings for one document. Errors block promotion to the
// live slot; warnings are stored alongside it.
type Report struct {
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

func (r *Report) Valid() bool { return len(r.Errors) == 0 }

func (r *Report) Summary() string {
	return fmt.Sprintf("%d errors, %d warnings", len(r.Errors), len(r.Warnings))
}

func (r *Report) add(sev Severity, code, nodeType, path, format string, args ...any) {
	issue := Issue{
		Severity: sev,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		NodeType: nodeType,
		Path:     path,
	}
	if sev == SeverityError {
		r.Errors = append(r.Errors, issue)
	} else {
		r.Warnings = append(r.Warnings, issue)
	}
}
