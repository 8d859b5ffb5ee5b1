package cparser_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"ctclang.dev/go/ctc/baseline"
	"ctclang.dev/go/ctc/cparser"
	"ctclang.dev/go/ctc/relation"
)

func TestParseSimpleFunctionTypeChecks(t *testing.T) {
	src := `int main() {
		int x = 1 + 2;
		return x;
	}`
	tr, err := cparser.Parse("test.c", []byte(src))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsNil(tr.CheckInvariants()))

	root, err := tr.GetRelation(tr.RootId())
	qt.Assert(t, qt.IsNil(err))
	unit := root.(relation.TransUnit)
	qt.Assert(t, qt.Equals(len(unit.BodyIds), 1))

	ok, err := baseline.CheckProgram(tr)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(ok))
}

func TestParseIfElseWhileAndCalls(t *testing.T) {
	src := `
	int helper(int a) {
		return a;
	}

	int main() {
		int x = 0;
		if (x < 10 && x >= 0) {
			int y = helper(x);
		} else {
			return 1;
		}
		while (x < 10) {
			int z = x + 1;
		}
		return x;
	}`
	tr, err := cparser.Parse("test.c", []byte(src))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsNil(tr.CheckInvariants()))

	ok, err := baseline.CheckProgram(tr)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(ok))
}

func TestParseRejectsMalformedInput(t *testing.T) {
	_, err := cparser.Parse("test.c", []byte("int main( { return 0; }"))
	qt.Assert(t, qt.IsNotNil(err))
}

func TestParseRejectsTypeMismatch(t *testing.T) {
	src := `int main() {
		float x = 1;
		return x;
	}`
	tr, err := cparser.Parse("test.c", []byte(src))
	qt.Assert(t, qt.IsNil(err))

	ok, err := baseline.CheckProgram(tr)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsFalse(ok))
}
