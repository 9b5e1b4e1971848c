package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in decoding the error occurred
type Phase string

const (
	PhaseRoot     Phase = "root"     // BSJB header and stream directory
	PhaseHeap     Phase = "heap"     // #Strings, #US, #GUID, #Blob lookups
	PhaseTables   Phase = "tables"   // #~ header and layout resolution
	PhaseRows     Phase = "rows"     // row decoding
	PhaseQuery    Phase = "query"    // high-level projections
	PhaseValidate Phase = "validate" // structural validation
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidSignature  Kind = "invalid_signature"
	KindTruncatedInput    Kind = "truncated_input"
	KindMalformedHeap     Kind = "malformed_heap"
	KindUnsupportedTable  Kind = "unsupported_table"
	KindMalformedMetadata Kind = "malformed_metadata"
)

// Sentinels for errors.Is. They match any phase.
var (
	ErrInvalidSignature  = &Error{Kind: KindInvalidSignature, Offset: -1}
	ErrTruncatedInput    = &Error{Kind: KindTruncatedInput, Offset: -1}
	ErrMalformedHeap     = &Error{Kind: KindMalformedHeap, Offset: -1}
	ErrUnsupportedTable  = &Error{Kind: KindUnsupportedTable, Offset: -1}
	ErrMalformedMetadata = &Error{Kind: KindMalformedMetadata, Offset: -1}
)

// Error is the structured error type used throughout the decoder.
// Offset is the byte position the failing read started at, or -1 when
// no single position applies.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
	Offset int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Offset >= 0 {
		fmt.Fprintf(&b, " (offset %d)", e.Offset)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. An empty Phase on the
// target matches every phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// Is reports whether any error in err's chain has the given kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: -1,
		},
	}
}

// Path sets the location path, e.g. table and column name
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Offset sets the byte offset the failure refers to
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidSignature creates a bad-magic error
func InvalidSignature(got, want uint32) *Error {
	return &Error{
		Phase:  PhaseRoot,
		Kind:   KindInvalidSignature,
		Detail: fmt.Sprintf("expected 0x%08X, got 0x%08X", want, got),
		Value:  got,
		Offset: 0,
	}
}

// Truncated creates an error for a read of need bytes at offset when only
// have bytes remain
func Truncated(phase Phase, offset, need, have int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTruncatedInput,
		Offset: offset,
		Detail: fmt.Sprintf("need %d bytes, %d available", need, have),
	}
}

// MalformedHeap creates a heap decoding error for the given heap and index
func MalformedHeap(heap string, index uint32, detail string) *Error {
	return &Error{
		Phase:  PhaseHeap,
		Kind:   KindMalformedHeap,
		Path:   []string{heap},
		Offset: int(index),
		Value:  index,
		Detail: detail,
	}
}

// Unsupported creates an error for a table bit with no known schema
func Unsupported(id uint8) *Error {
	return &Error{
		Phase:  PhaseTables,
		Kind:   KindUnsupportedTable,
		Offset: -1,
		Value:  id,
		Detail: fmt.Sprintf("table 0x%02X has no known schema", id),
	}
}

// Malformed creates a structural metadata error
func Malformed(phase Phase, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  phase,
		Kind:   KindMalformedMetadata,
		Offset: -1,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Offset: -1,
		Detail: detail,
		Cause:  cause,
	}
}
