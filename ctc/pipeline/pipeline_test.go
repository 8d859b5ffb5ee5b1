package pipeline_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"ctclang.dev/go/ctc/baseline"
	"ctclang.dev/go/ctc/pipeline"
)

func TestStepTracksEditsAcrossIterations(t *testing.T) {
	p := pipeline.New()

	ok, err := p.Step("a.c", []byte(`int f(int a) { return a; }`))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(ok))

	ok, err = p.Step("a.c", []byte(`int f(int b) { return b; }`))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(ok))

	baselineOk, err := baseline.CheckProgram(p.Tree())
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ok, baselineOk))
}

func TestStepReportsTypeErrorButKeepsTrackingTree(t *testing.T) {
	p := pipeline.New()

	ok, err := p.Step("a.c", []byte(`int f() { int x = 1; return x; }`))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(ok))

	ok, err = p.Step("a.c", []byte(`int f() { float x = 1; return x; }`))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsFalse(ok))
	qt.Assert(t, qt.IsTrue(p.Tree() != nil))
}

func TestStepAbortsIterationOnParseErrorWithoutLosingState(t *testing.T) {
	p := pipeline.New()

	ok, err := p.Step("a.c", []byte(`int f() { return 0; }`))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(ok))
	committed := p.Tree()

	_, err = p.Step("a.c", []byte(`int f( { return 0; }`))
	qt.Assert(t, qt.IsNotNil(err))
	qt.Assert(t, qt.Equals(p.Tree(), committed))
}
