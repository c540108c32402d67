// Package sortmernaerr defines the error kinds used across the filter core,
// matching the taxonomy in spec.md §7: CorruptIndex is fatal to the current
// index part, the rest are recoverable locally by the caller.
package sortmernaerr

import (
	"github.com/pkg/errors"
)

// Kind classifies the origin of an error raised by the core.
type Kind int

const (
	// CorruptIndex means bit-table sizes, trie offsets, or LevTable
	// dimensions are inconsistent with their headers. Fatal at index-part
	// load; the whole part is rejected.
	CorruptIndex Kind = iota
	// ReadTooShort means the read's length is below the configured
	// minimum read length (L by default). Counted, not an error surfaced
	// to the user.
	ReadTooShort
	// AmbiguousWindow means a window contains N. The window is skipped
	// silently.
	AmbiguousWindow
	// Cancelled means the cooperative cancel flag was observed between
	// windows. The read yields empty hits and is not counted as processed.
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case CorruptIndex:
		return "CorruptIndex"
	case ReadTooShort:
		return "ReadTooShort"
	case AmbiguousWindow:
		return "AmbiguousWindow"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Error pairs a Kind with the underlying cause.
type Error struct {
	Kind Kind
	err  error
}

func (e *Error) Error() string {
	if e.err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.err.Error()
}

// Unwrap lets the standard library's errors.Is/errors.As see through to
// the underlying cause. pkg/errors.Cause does not use it and stops at an
// *Error, which is where Is below inspects the Kind.
func (e *Error) Unwrap() error { return e.err }

// New creates an Error of the given kind with the given message.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, err: errors.New(msg)}
}

// Newf creates an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, err: errors.Errorf(format, args...)}
}

// Wrap attaches a Kind to an existing error, preserving it as the cause.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, err: errors.Wrap(err, msg)}
}

// Is reports whether err (or something it wraps) is a *Error of the given
// Kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		if se, ok := err.(*Error); ok {
			return se.Kind == kind
		}
		cause := errors.Cause(err)
		if cause == err {
			return false
		}
		err = cause
	}
	return false
}
