// Package diagnostics holds the coded compiler diagnostics produced by every
// stage of the AIDL frontend.
//
// Stages never stop at the first problem. They accumulate Diagnostic values in
// a List and hand the List back as an error, so a single run reports every
// independent problem it can find.
package diagnostics

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifies the kind of a diagnostic.
type Code string

const (
	// RedefinitionConflict indicates a name was declared twice with different
	// kinds, or a built-in name was redeclared.
	RedefinitionConflict Code = "redefinition-conflict"
	// UnknownType indicates a type name did not resolve in the registry.
	UnknownType Code = "unknown-type"
	// UnmarshallableType indicates a type that cannot be written to a parcel.
	UnmarshallableType Code = "unmarshallable-type"
	// InvalidArrayUsage indicates an array of a non-array type, or an array
	// with more than one dimension.
	InvalidArrayUsage Code = "invalid-array-usage"
	// AmbiguousDirection indicates a missing in/out/inout on an argument that
	// requires one.
	AmbiguousDirection Code = "ambiguous-direction"
	// InvalidDirectionForType indicates out or inout on an in-only type.
	InvalidDirectionForType Code = "invalid-direction-for-type"
	// ReservedKeywordCollision indicates an argument named after a keyword of
	// the target language.
	ReservedKeywordCollision Code = "reserved-keyword-collision"
	// DuplicateMethodName indicates two methods with the same name.
	DuplicateMethodName Code = "duplicate-method-name"
	// DuplicateOrOutOfRangeMethodID indicates a repeated user id or one
	// outside the transaction id range.
	DuplicateOrOutOfRangeMethodID Code = "duplicate-or-out-of-range-method-id"
	// MixedMethodIDAssignment indicates some, but not all, methods carry ids.
	MixedMethodIDAssignment Code = "mixed-method-id-assignment"
	// ImportNotFound indicates no search path holds the imported class.
	ImportNotFound Code = "import-not-found"
	// ImportParseFailure indicates an imported file could not be parsed.
	ImportParseFailure Code = "import-parse-failure"
	// FilenamePackageMismatch indicates a declaration lives in a file whose
	// path does not match its package and name.
	FilenamePackageMismatch Code = "filename-package-mismatch"
	// MalformedPreprocessedEntry indicates a bad line in a preprocessed file.
	MalformedPreprocessedEntry Code = "malformed-preprocessed-entry"
	// PreprocessedFileUnreadable indicates a preprocessed file could not be
	// opened or read.
	PreprocessedFileUnreadable Code = "preprocessed-file-unreadable"
	// InvalidDocument indicates the main input is not exactly one interface.
	InvalidDocument Code = "invalid-document"
)

// Note is a secondary location attached to a diagnostic, such as the site of
// a previous definition.
type Note struct {
	File    string
	Line    int
	Message string
}

func (n Note) String() string {
	return strings.TrimRight(location(n.File, n.Line), " ") + "    " + n.Message
}

// Diagnostic is a single compiler error tied to a source location.
type Diagnostic struct {
	Code    Code
	File    string
	Line    int
	Message string
	Notes   []Note
}

// Newf builds a Diagnostic with a formatted message.
func Newf(code Code, file string, line int, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, File: file, Line: line, Message: fmt.Sprintf(format, args...)}
}

// WithNote returns a copy of d with an extra note.
func (d Diagnostic) WithNote(file string, line int, format string, args ...any) Diagnostic {
	d.Notes = append(append([]Note(nil), d.Notes...), Note{File: file, Line: line, Message: fmt.Sprintf(format, args...)})
	return d
}

// Error renders the diagnostic in the classic "file:line message" form, one
// line per note.
func (d Diagnostic) Error() string {
	var b strings.Builder
	b.WriteString(location(d.File, d.Line))
	b.WriteString(d.Message)
	for _, n := range d.Notes {
		b.WriteString("\n")
		b.WriteString(n.String())
	}
	return b.String()
}

func location(file string, line int) string {
	switch {
	case file == "":
		return ""
	case line > 0:
		return fmt.Sprintf("%s:%d ", file, line)
	default:
		return file + ": "
	}
}

// List accumulates diagnostics. A non-empty List is an error.
type List []Diagnostic

// Add appends d.
func (l *List) Add(d Diagnostic) {
	*l = append(*l, d)
}

// Addf builds and appends a diagnostic.
func (l *List) Addf(code Code, file string, line int, format string, args ...any) {
	l.Add(Newf(code, file, line, format, args...))
}

// Merge appends every diagnostic carried by err. Errors that are not
// diagnostics are kept as uncoded entries so nothing is lost.
func (l *List) Merge(err error) {
	if err == nil {
		return
	}
	if ds, ok := As(err); ok {
		*l = append(*l, ds...)
		return
	}
	l.Add(Diagnostic{Message: err.Error()})
}

// Err returns l as an error, or nil when l is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Error joins every diagnostic, one per line.
func (l List) Error() string {
	if len(l) == 0 {
		return "no diagnostics"
	}
	lines := make([]string, len(l))
	for i, d := range l {
		lines[i] = d.Error()
	}
	return strings.Join(lines, "\n")
}

// Codes returns the code of every diagnostic, in order.
func (l List) Codes() []Code {
	codes := make([]Code, len(l))
	for i, d := range l {
		codes[i] = d.Code
	}
	return codes
}

// As extracts diagnostics from err. It understands a List, a single
// Diagnostic, and trees built with errors.Join.
func As(err error) ([]Diagnostic, bool) {
	if err == nil {
		return nil, false
	}
	var out []Diagnostic
	collect(err, &out)
	return out, len(out) > 0
}

func collect(err error, out *[]Diagnostic) {
	switch e := err.(type) {
	case List:
		*out = append(*out, e...)
		return
	case *List:
		if e != nil {
			*out = append(*out, (*e)...)
		}
		return
	case Diagnostic:
		*out = append(*out, e)
		return
	case *Diagnostic:
		if e != nil {
			*out = append(*out, *e)
		}
		return
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			collect(inner, out)
		}
		return
	}
	var l List
	if errors.As(err, &l) {
		*out = append(*out, l...)
		return
	}
	var d Diagnostic
	if errors.As(err, &d) {
		*out = append(*out, d)
	}
}

// Count returns how many diagnostics err carries. Errors that are not
// diagnostics count as one.
func Count(err error) int {
	if err == nil {
		return 0
	}
	if ds, ok := As(err); ok {
		return len(ds)
	}
	return 1
}

// Has reports whether err carries at least one diagnostic with code.
func Has(err error, code Code) bool {
	ds, _ := As(err)
	for _, d := range ds {
		if d.Code == code {
			return true
		}
	}
	return false
}
