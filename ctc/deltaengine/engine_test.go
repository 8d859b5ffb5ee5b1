package deltaengine_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"ctclang.dev/go/ctc/deltaengine"
	"ctclang.dev/go/ctc/differ"
	"ctclang.dev/go/ctc/relation"
	"ctclang.dev/go/ctc/tree"
)

// buildReturnLiteral builds: int f() { int x = 0; return x; }
func buildReturnLiteral(t *testing.T) *tree.Tree {
	t.Helper()
	tr := tree.New()
	qt.Assert(t, qt.IsNil(tr.AddNode(1, relation.Int{Id: 1})))                                    // decl type
	qt.Assert(t, qt.IsNil(tr.AddNode(2, relation.Int{Id: 2})))                                    // literal 0
	qt.Assert(t, qt.IsNil(tr.AddNode(3, relation.Assign{Id: 3, VarName: "x", TypeId: 1, ExprId: 2})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(3, []relation.Id{1, 2})))
	qt.Assert(t, qt.IsNil(tr.AddNode(4, relation.Item{Id: 4, StmtId: 3, NextStmtId: 5})))
	qt.Assert(t, qt.IsNil(tr.AddNode(6, relation.Var{Id: 6, VarName: "x"})))
	qt.Assert(t, qt.IsNil(tr.AddNode(7, relation.Return{Id: 7, ExprId: 6})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(7, []relation.Id{6})))
	qt.Assert(t, qt.IsNil(tr.AddNode(5, relation.EndItem{Id: 5, StmtId: 7})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(5, []relation.Id{7})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(4, []relation.Id{3, 5})))
	qt.Assert(t, qt.IsNil(tr.AddNode(8, relation.Compound{Id: 8, StartId: 4})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(8, []relation.Id{4})))
	qt.Assert(t, qt.IsNil(tr.AddNode(9, relation.Int{Id: 9})))                                    // return type
	qt.Assert(t, qt.IsNil(tr.AddNode(10, relation.FunDef{Id: 10, FunName: "f", ReturnTypeId: 9, BodyId: 8})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(10, []relation.Id{9, 8})))
	qt.Assert(t, qt.IsNil(tr.AddRootNode(11, relation.TransUnit{Id: 11, BodyIds: []relation.Id{10}})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(11, []relation.Id{10})))
	return tr
}

func TestStepAcceptsWellTypedProgram(t *testing.T) {
	tr := buildReturnLiteral(t)
	inserts := tree.InitialRelationSet(tr)

	e := deltaengine.New()
	ok, err := e.Step(tr, inserts, relation.NewSet())
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsTrue(e.OkProgram()))

	k, known := e.TypeOf(6) // the Var "x" read in the return statement
	qt.Assert(t, qt.IsTrue(known))
	qt.Assert(t, qt.Equals(k, relation.KindInt))
}

func TestStepRejectsReturnTypeMismatch(t *testing.T) {
	tr := tree.New()
	qt.Assert(t, qt.IsNil(tr.AddNode(1, relation.Float{Id: 1})))
	qt.Assert(t, qt.IsNil(tr.AddNode(2, relation.Return{Id: 2, ExprId: 1})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(2, []relation.Id{1})))
	qt.Assert(t, qt.IsNil(tr.AddNode(3, relation.EndItem{Id: 3, StmtId: 2})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(3, []relation.Id{2})))
	qt.Assert(t, qt.IsNil(tr.AddNode(4, relation.Compound{Id: 4, StartId: 3})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(4, []relation.Id{3})))
	qt.Assert(t, qt.IsNil(tr.AddNode(5, relation.Int{Id: 5}))) // declared return type: int
	qt.Assert(t, qt.IsNil(tr.AddNode(6, relation.FunDef{Id: 6, FunName: "f", ReturnTypeId: 5, BodyId: 4})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(6, []relation.Id{5, 4})))
	qt.Assert(t, qt.IsNil(tr.AddRootNode(7, relation.TransUnit{Id: 7, BodyIds: []relation.Id{6}})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(7, []relation.Id{6})))

	e := deltaengine.New()
	ok, err := e.Step(tr, tree.InitialRelationSet(tr), relation.NewSet())
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsFalse(ok))
}

func TestStepIncrementallyMatchesFromScratchAfterDiff(t *testing.T) {
	prev := buildReturnLiteral(t)

	// new: rename x to y throughout, still well typed.
	newT := tree.New()
	qt.Assert(t, qt.IsNil(newT.AddNode(1, relation.Int{Id: 1})))
	qt.Assert(t, qt.IsNil(newT.AddNode(2, relation.Int{Id: 2})))
	qt.Assert(t, qt.IsNil(newT.AddNode(3, relation.Assign{Id: 3, VarName: "y", TypeId: 1, ExprId: 2})))
	qt.Assert(t, qt.IsNil(newT.ReplaceChildren(3, []relation.Id{1, 2})))
	qt.Assert(t, qt.IsNil(newT.AddNode(4, relation.Item{Id: 4, StmtId: 3, NextStmtId: 5})))
	qt.Assert(t, qt.IsNil(newT.AddNode(6, relation.Var{Id: 6, VarName: "y"})))
	qt.Assert(t, qt.IsNil(newT.AddNode(7, relation.Return{Id: 7, ExprId: 6})))
	qt.Assert(t, qt.IsNil(newT.ReplaceChildren(7, []relation.Id{6})))
	qt.Assert(t, qt.IsNil(newT.AddNode(5, relation.EndItem{Id: 5, StmtId: 7})))
	qt.Assert(t, qt.IsNil(newT.ReplaceChildren(5, []relation.Id{7})))
	qt.Assert(t, qt.IsNil(newT.ReplaceChildren(4, []relation.Id{3, 5})))
	qt.Assert(t, qt.IsNil(newT.AddNode(8, relation.Compound{Id: 8, StartId: 4})))
	qt.Assert(t, qt.IsNil(newT.ReplaceChildren(8, []relation.Id{4})))
	qt.Assert(t, qt.IsNil(newT.AddNode(9, relation.Int{Id: 9})))
	qt.Assert(t, qt.IsNil(newT.AddNode(10, relation.FunDef{Id: 10, FunName: "f", ReturnTypeId: 9, BodyId: 8})))
	qt.Assert(t, qt.IsNil(newT.ReplaceChildren(10, []relation.Id{9, 8})))
	qt.Assert(t, qt.IsNil(newT.AddRootNode(11, relation.TransUnit{Id: 11, BodyIds: []relation.Id{10}})))
	qt.Assert(t, qt.IsNil(newT.ReplaceChildren(11, []relation.Id{10})))

	e := deltaengine.New()
	ok, err := e.Step(prev, tree.InitialRelationSet(prev), relation.NewSet())
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(ok))

	insert, delete_, updated, err := differ.Diff(prev, newT)
	qt.Assert(t, qt.IsNil(err))

	ok2, err := e.Step(updated, insert, delete_)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(ok2))

	fromScratch := deltaengine.New()
	okScratch, err := fromScratch.Step(updated, tree.InitialRelationSet(updated), relation.NewSet())
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ok2, okScratch))
}
