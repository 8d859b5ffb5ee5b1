package errors_test

import (
	"strings"
	"testing"

	stderrors "errors"

	"github.com/go-quicktest/qt"

	"ctclang.dev/go/ctc/errors"
	"ctclang.dev/go/ctc/token"
)

func TestIsFatalOnlyForInvariantViolation(t *testing.T) {
	qt.Assert(t, qt.IsFalse(errors.IsFatal(errors.ParseErrorf(token.NoPos, "bad token"))))
	qt.Assert(t, qt.IsFalse(errors.IsFatal(errors.UnsupportedConstructf(token.NoPos, "nope"))))
	qt.Assert(t, qt.IsTrue(errors.IsFatal(errors.InvariantViolationf(token.NoPos, "dangling id"))))
}

func TestWrapfPreservesKindAndPosition(t *testing.T) {
	pos := token.New(token.Position{Filename: "a.c", Line: 1, Column: 1})
	base := errors.ParseErrorf(pos, "unexpected token")
	wrapped := errors.Wrapf(base, "while parsing function")

	qt.Assert(t, qt.IsTrue(stderrors.Is(wrapped, errors.ErrParse)))
	qt.Assert(t, qt.Equals(wrapped.Position(), pos))
	qt.Assert(t, qt.IsTrue(strings.Contains(wrapped.Error(), "unexpected token")))
}

func TestDetailsIncludesPosition(t *testing.T) {
	pos := token.New(token.Position{Filename: "a.c", Line: 2, Column: 5})
	err := errors.ParseErrorf(pos, "boom")
	qt.Assert(t, qt.Equals(errors.Details(err), "a.c:2:5: boom\n"))
}
