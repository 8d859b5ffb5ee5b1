package differ

import (
	"fmt"

	"ctclang.dev/go/ctc/relation"
	"ctclang.dev/go/ctc/tree"
)

// Diff reconciles prev against new, producing the disjoint insert/delete
// relation sets the delta engine applies and an updated tree that is prev
// with exactly those edits made in place: every relation whose shape
// (transitively) is unchanged keeps the Id it had in prev. prev and new are
// read-only; the returned *tree.Tree is a fresh value, never prev itself.
func Diff(prev, newT *tree.Tree) (insert, delete_ *relation.Set, updated *tree.Tree, err error) {
	updated = prev.Clone()
	insert = relation.NewSet()
	delete_ = relation.NewSet()

	prevRoot, err := prev.GetRelation(prev.RootId())
	if err != nil {
		return nil, nil, nil, err
	}
	newRoot, err := newT.GetRelation(newT.RootId())
	if err != nil {
		return nil, nil, nil, err
	}
	prevUnit := prevRoot.(relation.TransUnit)
	newUnit := newRoot.(relation.TransUnit)

	newFunsByName := make(map[string]relation.Id, len(newUnit.BodyIds))
	for _, id := range newUnit.BodyIds {
		rel, err := newT.GetRelation(id)
		if err != nil {
			return nil, nil, nil, err
		}
		fd := rel.(relation.FunDef)
		if _, dup := newFunsByName[fd.FunName]; !dup {
			newFunsByName[fd.FunName] = id
		}
	}

	consumed := make(map[string]bool, len(newFunsByName))
	finalBodyIds := make([]relation.Id, 0, len(prevUnit.BodyIds))

	for _, prevFunId := range prevUnit.BodyIds {
		prevRel, err := prev.GetRelation(prevFunId)
		if err != nil {
			return nil, nil, nil, err
		}
		prevFun := prevRel.(relation.FunDef)
		newFunId, ok := newFunsByName[prevFun.FunName]
		if !ok {
			if err := deleteOnwards(prevFunId, updated, delete_); err != nil {
				return nil, nil, nil, err
			}
			continue
		}
		consumed[prevFun.FunName] = true
		if err := reconcileFunDef(prevFunId, updated, newFunId, newT, insert, delete_); err != nil {
			return nil, nil, nil, err
		}
		finalBodyIds = append(finalBodyIds, prevFunId)
	}

	for _, newFunId := range newUnit.BodyIds {
		rel, err := newT.GetRelation(newFunId)
		if err != nil {
			return nil, nil, nil, err
		}
		fd := rel.(relation.FunDef)
		if consumed[fd.FunName] {
			continue
		}
		targetId, err := insertOnwards(newFunId, updated, newT, insert)
		if err != nil {
			return nil, nil, nil, err
		}
		finalBodyIds = append(finalBodyIds, targetId)
	}

	if !idSliceEqual(prevUnit.BodyIds, finalBodyIds) {
		replacement := relation.TransUnit{Id: prevUnit.Id, BodyIds: finalBodyIds}
		if err := replaceRelation(updated, prevUnit.Id, prevUnit, replacement, insert, delete_); err != nil {
			return nil, nil, nil, err
		}
	}

	return insert, delete_, updated, nil
}

// reconcileFunDef reconciles the matched function pair (prevFunId, newFunId)
// in place: return type and arguments are reconciled positionally, the body
// via compare_items over its Compound's Item/EndItem chain, and the FunDef
// relation itself is only replaced if the resulting argument Id list
// differs in length or content from the original.
func reconcileFunDef(prevFunId relation.Id, updated *tree.Tree, newFunId relation.Id, newT *tree.Tree, insert, delete_ *relation.Set) error {
	prevRel, err := updated.GetRelation(prevFunId)
	if err != nil {
		return err
	}
	newRel, err := newT.GetRelation(newFunId)
	if err != nil {
		return err
	}
	prevFun := prevRel.(relation.FunDef)
	newFun := newRel.(relation.FunDef)

	if err := reconcileLeafType(prevFun.ReturnTypeId, updated, newFun.ReturnTypeId, newT, insert, delete_); err != nil {
		return err
	}

	finalArgIds, err := reconcileArgs(prevFun.ArgIds, updated, newFun.ArgIds, newT, insert, delete_)
	if err != nil {
		return err
	}

	if err := reconcileBody(prevFun.BodyId, updated, newFun.BodyId, newT, insert, delete_); err != nil {
		return err
	}

	if !idSliceEqual(prevFun.ArgIds, finalArgIds) {
		replacement := relation.FunDef{
			Id:           prevFun.Id,
			FunName:      prevFun.FunName,
			ReturnTypeId: prevFun.ReturnTypeId,
			ArgIds:       finalArgIds,
			BodyId:       prevFun.BodyId,
		}
		if err := replaceRelation(updated, prevFun.Id, prevFun, replacement, insert, delete_); err != nil {
			return err
		}
	}
	return nil
}

// reconcileLeafType reconciles a type-position relation (always a leaf:
// Void/Int/Float/Char) by value rather than by recursive shape, since
// there is nothing beneath it to recurse into.
func reconcileLeafType(prevId relation.Id, updated *tree.Tree, newId relation.Id, newT *tree.Tree, insert, delete_ *relation.Set) error {
	ok, err := shapeMatchLeaf(updated, prevId, newT, newId)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	oldRel, err := updated.GetRelation(prevId)
	if err != nil {
		return err
	}
	newRel, err := newT.GetRelation(newId)
	if err != nil {
		return err
	}
	replacement := relation.Rebuild(newRel, prevId, nil)
	return replaceRelation(updated, prevId, oldRel, replacement, insert, delete_)
}

func shapeMatchLeaf(aTree *tree.Tree, aId relation.Id, bTree *tree.Tree, bId relation.Id) (bool, error) {
	a, err := aTree.GetRelation(aId)
	if err != nil {
		return false, err
	}
	b, err := bTree.GetRelation(bId)
	if err != nil {
		return false, err
	}
	return a.Kind() == b.Kind(), nil
}

// reconcileArgs reconciles the positional argument list, reusing each
// position's prev Id where one exists, deleting excess prev args, and
// inserting excess new args. It returns the final, positionally ordered
// argument Id list.
func reconcileArgs(prevArgIds []relation.Id, updated *tree.Tree, newArgIds []relation.Id, newT *tree.Tree, insert, delete_ *relation.Set) ([]relation.Id, error) {
	n := len(prevArgIds)
	if len(newArgIds) < n {
		n = len(newArgIds)
	}
	final := make([]relation.Id, 0, len(newArgIds))

	for i := 0; i < n; i++ {
		prevArgId := prevArgIds[i]
		newArgId := newArgIds[i]

		prevRel, err := updated.GetRelation(prevArgId)
		if err != nil {
			return nil, err
		}
		newRel, err := newT.GetRelation(newArgId)
		if err != nil {
			return nil, err
		}
		prevArg := prevRel.(relation.Arg)
		newArg := newRel.(relation.Arg)

		if err := reconcileLeafType(prevArg.TypeId, updated, newArg.TypeId, newT, insert, delete_); err != nil {
			return nil, err
		}
		if prevArg.VarName != newArg.VarName {
			replacement := relation.Arg{Id: prevArg.Id, VarName: newArg.VarName, TypeId: prevArg.TypeId}
			if err := replaceRelation(updated, prevArg.Id, prevArg, replacement, insert, delete_); err != nil {
				return nil, err
			}
		}
		final = append(final, prevArgId)
	}

	for i := n; i < len(prevArgIds); i++ {
		if err := deleteOnwards(prevArgIds[i], updated, delete_); err != nil {
			return nil, err
		}
	}
	for i := n; i < len(newArgIds); i++ {
		targetId, err := insertOnwards(newArgIds[i], updated, newT, insert)
		if err != nil {
			return nil, err
		}
		final = append(final, targetId)
	}
	return final, nil
}

// reconcileBody reconciles a function body: the Compound relation itself
// keeps its Id, and compare_items walks the Item/EndItem chain hanging off
// StartId. A mid-chain edit never needs to touch StartId, but an edit at
// the very front of the body (a statement prepended before the first one)
// splices in a new head cell, so Compound.StartId is rewritten when the
// chain's reconciled head differs from the original.
func reconcileBody(prevBodyId relation.Id, updated *tree.Tree, newBodyId relation.Id, newT *tree.Tree, insert, delete_ *relation.Set) error {
	prevRel, err := updated.GetRelation(prevBodyId)
	if err != nil {
		return err
	}
	newRel, err := newT.GetRelation(newBodyId)
	if err != nil {
		return err
	}
	prevBody, ok := prevRel.(relation.Compound)
	if !ok {
		return fmt.Errorf("differ: reconcileBody: prev body %d is %s, not Compound", prevBodyId, prevRel.Kind())
	}
	newBody, ok := newRel.(relation.Compound)
	if !ok {
		return fmt.Errorf("differ: reconcileBody: new body %d is %s, not Compound", newBodyId, newRel.Kind())
	}
	newStartId, err := compareItems(prevBody.StartId, updated, newBody.StartId, newT, insert, delete_)
	if err != nil {
		return err
	}
	if newStartId != prevBody.StartId {
		replacement := relation.Compound{Id: prevBody.Id, StartId: newStartId}
		if err := replaceRelation(updated, prevBody.Id, prevBody, replacement, insert, delete_); err != nil {
			return err
		}
	}
	return nil
}
