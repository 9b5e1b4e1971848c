// Package errors provides structured error types for the clrmeta decoder.
//
// Errors are categorized by Phase (where decoding failed) and Kind (what went
// wrong). The Error type carries the byte offset, a table/column path and the
// cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRows, errors.KindMalformedMetadata).
//		Path("TypeDef", "Extends").
//		Value(raw).
//		Detail("coded index tag %d out of range", tag).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Truncated(errors.PhaseRoot, off, 4, 1)
//	err := errors.MalformedHeap("#Strings", idx, "missing NUL terminator")
//
// Match by kind with the exported sentinels, regardless of phase:
//
//	if stderrors.Is(err, errors.ErrTruncatedInput) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
