// SPDX-License-Identifier: MPL-2.0

package diag

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// MissingField reports a required field that is absent, null or non-concrete.
	MissingField Code = "MissingField"
	// TypeMismatch reports a field whose value has the wrong kind.
	TypeMismatch Code = "TypeMismatch"
	// InvalidFormat reports a value of the right kind that fails its format rule.
	InvalidFormat Code = "InvalidFormat"
	// EmptyViewSet reports a configuration that declares no views.
	EmptyViewSet Code = "EmptyViewSet"
	// DuplicateKey reports a key declared more than once in the same mapping.
	DuplicateKey Code = "DuplicateKey"
	// PathEscape reports a relative path that leaves its root via "..".
	PathEscape Code = "PathEscape"
	// DestinationConflict reports two copy sources writing the same destination.
	DestinationConflict Code = "DestinationConflict"
	// OutputConflict reports a copy destination that overwrites a view build output.
	OutputConflict Code = "OutputConflict"
	// UnsupportedPlatform reports a platform name outside the supported set.
	UnsupportedPlatform Code = "UnsupportedPlatform"
	// NotFound reports a referenced file missing from the project tree.
	NotFound Code = "NotFound"
	// UnknownField reports a key the schema does not recognize.
	UnknownField Code = "UnknownField"
)

const (
	// SeverityError marks a diagnostic that rejects the configuration.
	SeverityError Severity = iota
	// SeverityWarning marks a diagnostic that is reported but does not reject.
	SeverityWarning
)

var (
	// ErrInvalidConfig matches any Report via errors.Is.
	ErrInvalidConfig = errors.New("invalid build configuration")
	// ErrInvalidCode is the sentinel wrapped by InvalidCodeError.
	ErrInvalidCode = errors.New("invalid diagnostic code")
)

type (
	// Code identifies a class of configuration problem.
	Code string

	// InvalidCodeError is returned when a Code is not part of the taxonomy.
	InvalidCodeError struct {
		Value Code
	}

	// Severity indicates whether a diagnostic rejects the configuration.
	Severity int

	// Diagnostic is a single problem found while validating or resolving a configuration.
	Diagnostic struct {
		// Code classifies the problem.
		Code Code `json:"code" yaml:"code"`
		// Field is the dotted path of the offending value (e.g. "app.identifier").
		// Empty means the document root.
		Field string `json:"field" yaml:"field"`
		// Message is the human-readable explanation.
		Message string `json:"message" yaml:"message"`
		// Severity is error or warning.
		Severity Severity `json:"severity" yaml:"severity"`
		// Related lists other keys involved, such as both sources of a destination conflict.
		Related []string `json:"related,omitempty" yaml:"related,omitempty"`
	}

	// Report is an ordered collection of diagnostics. A Report is an error so that
	// validation can hand back every problem through a single error return.
	Report []Diagnostic
)

// AllCodes returns every diagnostic code in documentation order.
func AllCodes() []Code {
	return []Code{
		MissingField, TypeMismatch, InvalidFormat, EmptyViewSet, DuplicateKey,
		PathEscape, DestinationConflict, OutputConflict, UnsupportedPlatform,
		NotFound, UnknownField,
	}
}

// String returns the string representation of the Code.
func (c Code) String() string { return string(c) }

// IsValid returns whether the Code is part of the taxonomy.
func (c Code) IsValid() (bool, []error) {
	for _, known := range AllCodes() {
		if strings.EqualFold(string(known), string(c)) {
			return true, nil
		}
	}
	return false, []error{&InvalidCodeError{Value: c}}
}

// ParseCode matches s case-insensitively against the taxonomy.
func ParseCode(s string) (Code, error) {
	for _, known := range AllCodes() {
		if strings.EqualFold(string(known), strings.TrimSpace(s)) {
			return known, nil
		}
	}
	return "", &InvalidCodeError{Value: Code(s)}
}

// Error implements the error interface for InvalidCodeError.
func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("unknown diagnostic code %q", e.Value)
}

// Unwrap returns ErrInvalidCode for errors.Is() compatibility.
func (e *InvalidCodeError) Unwrap() error { return ErrInvalidCode }

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalText renders the severity by name in JSON, YAML and TOML output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Error implements the error interface for Diagnostic.
func (d Diagnostic) Error() string {
	field := d.Field
	if field == "" {
		field = RootField
	}
	return fmt.Sprintf("%s: %s: %s", field, d.Code, d.Message)
}

// IsError returns true if the diagnostic rejects the configuration.
func (d Diagnostic) IsError() bool { return d.Severity == SeverityError }

// IsWarning returns true if the diagnostic is informational.
func (d Diagnostic) IsWarning() bool { return d.Severity == SeverityWarning }

// Errorf appends an error-level diagnostic.
func (r *Report) Errorf(code Code, field, format string, args ...any) {
	*r = append(*r, Diagnostic{
		Code:     code,
		Field:    field,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityError,
	})
}

// Warnf appends a warning-level diagnostic.
func (r *Report) Warnf(code Code, field, format string, args ...any) {
	*r = append(*r, Diagnostic{
		Code:     code,
		Field:    field,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityWarning,
	})
}

// Add appends diagnostics as-is.
func (r *Report) Add(ds ...Diagnostic) {
	*r = append(*r, ds...)
}

// Error implements the error interface by joining all diagnostic messages.
func (r Report) Error() string {
	if len(r) == 0 {
		return ""
	}
	if len(r) == 1 {
		return r[0].Error()
	}

	var b strings.Builder
	b.WriteString("configuration invalid: ")
	b.WriteString(countPhrase(r.ErrorCount(), "error"))
	if w := r.WarningCount(); w > 0 {
		b.WriteString(" and ")
		b.WriteString(countPhrase(w, "warning"))
	}
	b.WriteString(":")
	for _, d := range r {
		b.WriteString("\n  - ")
		b.WriteString(d.Error())
	}
	return b.String()
}

// Is reports whether target is ErrInvalidConfig.
func (r Report) Is(target error) bool {
	return target == ErrInvalidConfig
}

// HasErrors returns true if any diagnostic is error-level.
func (r Report) HasErrors() bool {
	return r.ErrorCount() > 0
}

// Errors returns only the error-level diagnostics.
func (r Report) Errors() Report {
	return r.filter(Diagnostic.IsError)
}

// Warnings returns only the warning-level diagnostics.
func (r Report) Warnings() Report {
	return r.filter(Diagnostic.IsWarning)
}

// ErrorCount returns the number of error-level diagnostics.
func (r Report) ErrorCount() int {
	return len(r.Errors())
}

// WarningCount returns the number of warning-level diagnostics.
func (r Report) WarningCount() int {
	return len(r.Warnings())
}

// Has reports whether any diagnostic carries the given code.
func (r Report) Has(code Code) bool {
	return len(r.Find(code)) > 0
}

// Find returns the diagnostics with the given code, in report order.
func (r Report) Find(code Code) Report {
	return r.filter(func(d Diagnostic) bool { return d.Code == code })
}

// Strict returns a copy of the report with every warning promoted to an error.
func (r Report) Strict() Report {
	out := make(Report, len(r))
	for i, d := range r {
		d.Severity = SeverityError
		out[i] = d
	}
	return out
}

func (r Report) filter(keep func(Diagnostic) bool) Report {
	var out Report
	for _, d := range r {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

func countPhrase(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
