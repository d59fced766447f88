package diag

import (
	"errors"
	"fmt"
	"strings"

	"paxy/internal/source"
)

// Error is the fatal result of compiling one unit.
type Error struct {
	Code     Code
	Span     source.Span
	Line     int // 1-based; 0 when the error has no line
	Mnemonic string
	Token    string
	Message  string
	Notes    []Note
}

// Errorf builds an Error with a formatted message.
func Errorf(code Code, span source.Span, line int, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Span:    span,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&sb, "line %d: ", e.Line)
	}
	sb.WriteString(e.Kind().String())
	if e.Mnemonic != "" {
		sb.WriteString(" in ")
		sb.WriteString(e.Mnemonic)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Token != "" {
		fmt.Fprintf(&sb, " (at %q)", e.Token)
	}
	return sb.String()
}

// Kind reports the category of the error.
func (e *Error) Kind() Kind { return e.Code.Kind() }

// WithNote attaches a secondary location.
func (e *Error) WithNote(sp source.Span, msg string) *Error {
	e.Notes = append(e.Notes, Note{Span: sp, Msg: msg})
	return e
}

// At records the command mnemonic and offending token text.
func (e *Error) At(mnemonic, token string) *Error {
	if e.Mnemonic == "" {
		e.Mnemonic = mnemonic
	}
	if e.Token == "" {
		e.Token = token
	}
	return e
}

// Diagnostic converts the error into a reportable record.
func (e *Error) Diagnostic() Diagnostic {
	return Diagnostic{
		Severity: SevError,
		Code:     e.Code,
		Message:  e.Message,
		Primary:  e.Span,
		Notes:    e.Notes,
	}
}

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	if de, ok := AsError(err); ok {
		return de.Kind()
	}
	return KindUnknown
}
