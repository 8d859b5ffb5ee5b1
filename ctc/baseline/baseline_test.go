package baseline_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"ctclang.dev/go/ctc/baseline"
	"ctclang.dev/go/ctc/relation"
	"ctclang.dev/go/ctc/tree"
)

func TestCheckProgramAcceptsWellTypedFunction(t *testing.T) {
	tr := tree.New()
	qt.Assert(t, qt.IsNil(tr.AddNode(1, relation.Int{Id: 1})))
	qt.Assert(t, qt.IsNil(tr.AddNode(2, relation.Return{Id: 2, ExprId: 1})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(2, []relation.Id{1})))
	qt.Assert(t, qt.IsNil(tr.AddNode(3, relation.EndItem{Id: 3, StmtId: 2})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(3, []relation.Id{2})))
	qt.Assert(t, qt.IsNil(tr.AddNode(4, relation.Compound{Id: 4, StartId: 3})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(4, []relation.Id{3})))
	qt.Assert(t, qt.IsNil(tr.AddNode(5, relation.Int{Id: 5})))
	qt.Assert(t, qt.IsNil(tr.AddNode(6, relation.FunDef{Id: 6, FunName: "f", ReturnTypeId: 5, BodyId: 4})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(6, []relation.Id{5, 4})))
	qt.Assert(t, qt.IsNil(tr.AddRootNode(7, relation.TransUnit{Id: 7, BodyIds: []relation.Id{6}})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(7, []relation.Id{6})))

	ok, err := baseline.CheckProgram(tr)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(ok))
}

func TestCheckProgramRejectsUnboundVariable(t *testing.T) {
	tr := tree.New()
	qt.Assert(t, qt.IsNil(tr.AddNode(1, relation.Var{Id: 1, VarName: "missing"})))
	qt.Assert(t, qt.IsNil(tr.AddNode(2, relation.Return{Id: 2, ExprId: 1})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(2, []relation.Id{1})))
	qt.Assert(t, qt.IsNil(tr.AddNode(3, relation.EndItem{Id: 3, StmtId: 2})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(3, []relation.Id{2})))
	qt.Assert(t, qt.IsNil(tr.AddNode(4, relation.Compound{Id: 4, StartId: 3})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(4, []relation.Id{3})))
	qt.Assert(t, qt.IsNil(tr.AddNode(5, relation.Int{Id: 5})))
	qt.Assert(t, qt.IsNil(tr.AddNode(6, relation.FunDef{Id: 6, FunName: "f", ReturnTypeId: 5, BodyId: 4})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(6, []relation.Id{5, 4})))
	qt.Assert(t, qt.IsNil(tr.AddRootNode(7, relation.TransUnit{Id: 7, BodyIds: []relation.Id{6}})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(7, []relation.Id{6})))

	ok, err := baseline.CheckProgram(tr)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsFalse(ok))
}
