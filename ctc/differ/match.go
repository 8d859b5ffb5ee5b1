// Package differ computes a structural diff between two successive versions
// of a tree.Tree, producing the disjoint insert/delete relation sets the
// delta engine consumes plus an identity-preserving updated tree. It is
// grounded on the EditScript/Kind (Identity/UniqueX/UniqueY/Modified) shape
// of internal/diff/diff.go from the teacher, generalized from a byte-level
// list diff to a typed, Id-addressed tree diff.
package differ

import (
	"fmt"

	"ctclang.dev/go/ctc/relation"
	"ctclang.dev/go/ctc/tree"
)

// shapeMatch reports whether the relation at aId in aTree and the relation
// at bId in bTree match shape: same Kind, equal non-Id scalar fields, and
// every Id-valued field recursively dereferences to a shape-matching pair.
// It must never be called on TransUnit or FunDef nodes — those are matched
// by name at the top level, not by recursive shape.
func shapeMatch(aTree *tree.Tree, aId relation.Id, bTree *tree.Tree, bId relation.Id) (bool, error) {
	a, err := aTree.GetRelation(aId)
	if err != nil {
		return false, err
	}
	b, err := bTree.GetRelation(bId)
	if err != nil {
		return false, err
	}
	if a.Kind() != b.Kind() {
		return false, nil
	}
	switch a.Kind() {
	case relation.KindTransUnit, relation.KindFunDef:
		return false, fmt.Errorf("differ: shapeMatch called on %s, which is matched by name, not shape", a.Kind())
	}
	if !scalarFieldsEqual(a, b) {
		return false, nil
	}
	aIds, bIds := a.ChildIds(), b.ChildIds()
	if len(aIds) != len(bIds) {
		return false, nil
	}
	for i := range aIds {
		ok, err := shapeMatch(aTree, aIds[i], bTree, bIds[i])
		if err != nil || !ok {
			return ok, err
		}
	}
	return true, nil
}

// scalarFieldsEqual compares every field of a relation variant that is not
// an Id, a position, or its own Id field. Both relations are assumed to
// share a Kind (checked by the caller).
func scalarFieldsEqual(a, b relation.Relation) bool {
	switch av := a.(type) {
	case relation.FunDef:
		bv := b.(relation.FunDef)
		return av.FunName == bv.FunName
	case relation.Arg:
		bv := b.(relation.Arg)
		return av.VarName == bv.VarName
	case relation.Assign:
		bv := b.(relation.Assign)
		return av.VarName == bv.VarName
	case relation.FunCall:
		bv := b.(relation.FunCall)
		return av.FunName == bv.FunName
	case relation.Var:
		bv := b.(relation.Var)
		return av.VarName == bv.VarName
	case relation.Void, relation.Int, relation.Float, relation.Char,
		relation.Return, relation.If, relation.IfElse, relation.While,
		relation.Compound, relation.Item, relation.EndItem, relation.BinaryOp,
		relation.TransUnit:
		return true
	default:
		panic(fmt.Sprintf("differ: scalarFieldsEqual: unhandled variant %T", a))
	}
}

func idSliceEqual(a, b []relation.Id) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
