// Package errors defines the error taxonomy used across the pipeline.
//
// The pivotal type is Error, a position-carrying error. Three sentinel
// kinds classify failures the driver needs to treat differently: a
// ParseError or UnsupportedConstruct aborts only the current iteration,
// while an InvariantViolation is fatal to the process (the in-memory tree
// can no longer be trusted). IsFatal tells a caller which is which without
// switching on error strings.
package errors

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"ctclang.dev/go/ctc/token"
)

// Sentinel kinds for errors.Is. Each concrete error returned by ParseErrorf,
// UnsupportedConstructf and InvariantViolationf wraps exactly one of these.
var (
	ErrParse       = errors.New("parse error")
	ErrUnsupported = errors.New("unsupported construct")
	ErrInvariant   = errors.New("tree invariant violation")
)

// Error is the common error type produced by this module's packages.
type Error interface {
	error
	// Position returns where the error occurred, or token.NoPos if unknown.
	Position() token.Pos
	// Unwrap returns the sentinel kind (one of the Err* values above).
	Unwrap() error
}

type posError struct {
	kind error
	pos  token.Pos
	msg  string
}

func (e *posError) Error() string       { return e.msg }
func (e *posError) Position() token.Pos { return e.pos }
func (e *posError) Unwrap() error       { return e.kind }

func newf(kind error, pos token.Pos, format string, args ...interface{}) Error {
	return &posError{kind: kind, pos: pos, msg: fmt.Sprintf(format, args...)}
}

// ParseErrorf reports that the parser collaborator could not produce a tree.
func ParseErrorf(pos token.Pos, format string, args ...interface{}) Error {
	return newf(ErrParse, pos, format, args...)
}

// UnsupportedConstructf reports a node kind outside the supported grammar.
func UnsupportedConstructf(pos token.Pos, format string, args ...interface{}) Error {
	return newf(ErrUnsupported, pos, format, args...)
}

// InvariantViolationf reports that a tree invariant has been broken. This
// kind is fatal: callers should terminate the process rather than continue
// operating on untrusted state.
func InvariantViolationf(pos token.Pos, format string, args ...interface{}) Error {
	return newf(ErrInvariant, pos, format, args...)
}

// IsFatal reports whether err represents an InvariantViolation, i.e. the
// process should terminate rather than log and continue to the next
// iteration.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInvariant)
}

// Wrapf wraps err with additional context, preserving its sentinel kind and
// position when err is an Error produced by this package.
func Wrapf(err error, format string, args ...interface{}) Error {
	msg := fmt.Sprintf(format, args...)
	var e Error
	if errors.As(err, &e) {
		return &posError{kind: e.Unwrap(), pos: e.Position(), msg: msg + ": " + e.Error()}
	}
	return &posError{kind: err, pos: token.NoPos, msg: msg + ": " + err.Error()}
}

// Print writes err to w, one line per wrapped position-carrying error.
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	var e Error
	if errors.As(err, &e) && e.Position().IsValid() {
		fmt.Fprintf(w, "%s: %s\n", e.Position(), e.Error())
		return
	}
	fmt.Fprintf(w, "%s\n", err.Error())
}

// Details renders err the way Print would, as a string.
func Details(err error) string {
	var b strings.Builder
	Print(&b, err)
	return b.String()
}
