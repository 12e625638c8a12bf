package model

import "fmt"

type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "ERROR"
	}
	return "WARNING"
}

type CheckResult struct {
	Severity Severity
	Ref      string
	Message  string
}

func Error(ref fmt.Stringer, format string, args ...interface{}) CheckResult {
	return CheckResult{Severity: SeverityError, Ref: ref.String(), Message: fmt.Sprintf(format, args...)}
}

func Warning(ref fmt.Stringer, format string, args ...interface{}) CheckResult {
	return CheckResult{Severity: SeverityWarning, Ref: ref.String(), Message: fmt.Sprintf(format, args...)}
}

// IsBlocker is true for errors, which fail the check.
func (r CheckResult) IsBlocker() bool {
	return r.Severity == SeverityError
}

func (r CheckResult) String() string {
	return fmt.Sprintf("%s %s: %s", r.Severity, r.Ref, r.Message)
}
