// Package ncerr defines the typed error kinds shared by the material format
// parser and the configuration parser: BadInput, FileNotFound, MissingInfo,
// CalcError and LogicError. Callers classify an error with KindOf rather than
// comparing sentinel values.
package ncerr

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation failed.
type Kind int

const (
	// BadInput indicates a grammar, range, or consistency violation in
	// input text or a configuration string.
	BadInput Kind = iota
	// FileNotFound indicates source-name resolution exhausted all search paths.
	FileNotFound
	// MissingInfo indicates a typed getter was asked for a parameter that
	// isn't set and has no code-level default, or a derived value is absent.
	MissingInfo
	// CalcError indicates a numerical derivation failed.
	CalcError
	// LogicError indicates a contract violation by the caller.
	LogicError
)

func (k Kind) String() string {
	switch k {
	case BadInput:
		return "bad_input"
	case FileNotFound:
		return "file_not_found"
	case MissingInfo:
		return "missing_info"
	case CalcError:
		return "calc_error"
	case LogicError:
		return "logic_error"
	default:
		return "unknown"
	}
}

// MatError wraps an underlying error with a Kind and, for BadInput errors
// arising while scanning textual input, source/line context.
type MatError struct {
	Kind   Kind
	Source string // description of the input source, if applicable
	Line   int    // 1-based line number, 0 if not applicable
	Err    error
}

func (e *MatError) Error() string {
	if e.Source != "" && e.Line > 0 {
		return fmt.Sprintf("%s (%s, line %d): %v", e.Kind, e.Source, e.Line, e.Err)
	}
	if e.Source != "" {
		return fmt.Sprintf("%s (%s): %v", e.Kind, e.Source, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *MatError) Unwrap() error { return e.Err }

func newf(kind Kind, format string, args ...any) error {
	return &MatError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// NewBadInput builds a BadInput error with no source/line context.
func NewBadInput(format string, args ...any) error {
	return newf(BadInput, format, args...)
}

// NewBadInputAt builds a BadInput error carrying a source description and
// 1-based line number, as required by the parser's failure policy.
func NewBadInputAt(source string, line int, format string, args ...any) error {
	return &MatError{Kind: BadInput, Source: source, Line: line, Err: fmt.Errorf(format, args...)}
}

// NewFileNotFound builds a FileNotFound error.
func NewFileNotFound(format string, args ...any) error {
	return newf(FileNotFound, format, args...)
}

// NewMissingInfo builds a MissingInfo error.
func NewMissingInfo(format string, args ...any) error {
	return newf(MissingInfo, format, args...)
}

// NewCalcError builds a CalcError error.
func NewCalcError(format string, args ...any) error {
	return newf(CalcError, format, args...)
}

// NewLogicError builds a LogicError error.
func NewLogicError(format string, args ...any) error {
	return newf(LogicError, format, args...)
}

// KindOf extracts the Kind of a wrapped error. Unclassified errors report
// BadInput, the most common failure mode for this package's callers.
func KindOf(err error) Kind {
	var me *MatError
	if errors.As(err, &me) {
		return me.Kind
	}
	return BadInput
}

// Is reports whether err is a MatError of the given kind.
func Is(err error, kind Kind) bool {
	var me *MatError
	if errors.As(err, &me) {
		return me.Kind == kind
	}
	return false
}
