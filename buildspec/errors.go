package buildspec

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies the failures produced while assembling and
// building a package. Every kind is fatal to the run.
type ErrorKind string

const (
	// MalformedEntry reports a file or directory argument that does
	// not split into exactly two segments.
	MalformedEntry ErrorKind = "malformed entry"

	// MalformedChangelogEntry reports a changelog argument that does
	// not split into exactly three segments.
	MalformedChangelogEntry ErrorKind = "malformed changelog entry"

	// InvalidDependencyExpression reports a dependency string that
	// does not match the dependency grammar.
	InvalidDependencyExpression ErrorKind = "invalid dependency expression"

	// InvalidDate reports a changelog date that is not YYYY-MM-DD.
	InvalidDate ErrorKind = "invalid date"

	// PathHasNoFilename reports a directory walk entry that resolves
	// to a path without a base name, such as "/".
	PathHasNoFilename ErrorKind = "path has no filename"

	// IoFailure wraps any filesystem read or write failure.
	IoFailure ErrorKind = "io failure"

	// BuilderFailure wraps a rejection reported by the package
	// builder.
	BuilderFailure ErrorKind = "builder failure"

	// SigningFailure reports an unreadable or unusable signing key.
	SigningFailure ErrorKind = "signing failure"

	// InvalidOption reports option values that cannot be used, such
	// as an unknown compression name or a missing package name.
	InvalidOption ErrorKind = "invalid option"
)

// Error is the concrete error type for all ErrorKinds. Input holds the
// offending argument or path so that users can locate the bad value.
type Error struct {
	Kind  ErrorKind
	Input string
	Msg   string
	Err   error
}

// NewError constructs an *Error without an underlying cause.
func NewError(kind ErrorKind, input, msg string) *Error {
	return &Error{Kind: kind, Input: input, Msg: msg}
}

// WrapError attaches a kind and an input to an underlying error. The
// result is nil when err is nil.
func WrapError(err error, kind ErrorKind, input string) error {
	if err == nil {
		return nil
	}

	return &Error{Kind: kind, Input: input, Err: err}
}

func (e *Error) Error() string {
	out := fmt.Sprintf("%s '%s'", e.Kind, e.Input)
	if e.Msg != "" {
		out = fmt.Sprintf("%s: %s", out, e.Msg)
	}
	if e.Err != nil {
		out = fmt.Sprintf("%s: %s", out, e.Err.Error())
	}

	return out
}

// Cause returns the underlying error, for use with errors.Cause.
func (e *Error) Cause() error { return e.Err }

// Unwrap returns the underlying error, for use with errors.Is and
// errors.As.
func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the first *Error found in err's chain,
// or the empty string when the chain holds none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return ""
}
