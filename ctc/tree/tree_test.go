package tree_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"ctclang.dev/go/ctc/relation"
	"ctclang.dev/go/ctc/tree"
)

func smallTree(t *testing.T) *tree.Tree {
	t.Helper()
	tr := tree.New()
	qt.Assert(t, qt.IsNil(tr.AddNode(1, relation.Int{Id: 1})))
	qt.Assert(t, qt.IsNil(tr.AddNode(2, relation.Var{Id: 2, VarName: "x"})))
	qt.Assert(t, qt.IsNil(tr.AddNode(3, relation.Assign{Id: 3, VarName: "x", TypeId: 1, ExprId: 2})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(3, []relation.Id{1, 2})))
	qt.Assert(t, qt.IsNil(tr.AddNode(4, relation.EndItem{Id: 4, StmtId: 3})))
	qt.Assert(t, qt.IsNil(tr.LinkChild(4, 3)))
	qt.Assert(t, qt.IsNil(tr.AddNode(5, relation.Compound{Id: 5, StartId: 4})))
	qt.Assert(t, qt.IsNil(tr.LinkChild(5, 4)))
	qt.Assert(t, qt.IsNil(tr.AddNode(6, relation.Void{Id: 6})))
	qt.Assert(t, qt.IsNil(tr.AddNode(7, relation.FunDef{Id: 7, FunName: "main", ReturnTypeId: 6, BodyId: 5})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(7, []relation.Id{6, 5})))
	qt.Assert(t, qt.IsNil(tr.AddRootNode(8, relation.TransUnit{Id: 8, BodyIds: []relation.Id{7}})))
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(8, []relation.Id{7})))
	return tr
}

func TestAddNodeRejectsDuplicateId(t *testing.T) {
	tr := smallTree(t)
	err := tr.AddNode(1, relation.Int{Id: 1})
	qt.Assert(t, qt.IsNotNil(err))
}

func TestMaxIdTracksInsertionsAndDeletions(t *testing.T) {
	tr := smallTree(t)
	qt.Assert(t, qt.Equals(tr.MaxId(), relation.Id(8)))

	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(7, []relation.Id{6})))
	qt.Assert(t, qt.IsNil(tr.DeleteNode(8)))
	qt.Assert(t, qt.Equals(tr.MaxId(), relation.Id(7)))
}

func TestGetRelationMissingId(t *testing.T) {
	tr := smallTree(t)
	_, err := tr.GetRelation(999)
	qt.Assert(t, qt.IsNotNil(err))
}

func TestCheckInvariantsOnWellFormedTree(t *testing.T) {
	tr := smallTree(t)
	qt.Assert(t, qt.IsNil(tr.CheckInvariants()))
}

func TestCheckInvariantsCatchesDanglingId(t *testing.T) {
	tr := smallTree(t)
	qt.Assert(t, qt.IsNil(tr.UpdateRelation(3, relation.Assign{Id: 3, VarName: "x", TypeId: 1, ExprId: 999})))
	err := tr.CheckInvariants()
	qt.Assert(t, qt.IsNotNil(err))
}

func TestCheckInvariantsCatchesChildListMismatch(t *testing.T) {
	tr := smallTree(t)
	qt.Assert(t, qt.IsNil(tr.ReplaceChildren(3, []relation.Id{1})))
	err := tr.CheckInvariants()
	qt.Assert(t, qt.IsNotNil(err))
}

func TestInitialRelationSetHasEveryNodeOnce(t *testing.T) {
	tr := smallTree(t)
	s := tree.InitialRelationSet(tr)
	qt.Assert(t, qt.Equals(s.Len(), 8))
}

func TestCloneIsIndependent(t *testing.T) {
	tr := smallTree(t)
	clone := tr.Clone()
	qt.Assert(t, qt.IsNil(tr.DeleteNode(4))) // would violate invariants on tr, but clone is untouched
	_, err := clone.GetRelation(4)
	qt.Assert(t, qt.IsNil(err))
}
