package differ

import "ctclang.dev/go/ctc/relation"
import "ctclang.dev/go/ctc/tree"

// deleteOnwards removes id and everything reachable from it in updated,
// recording every removed relation (post-order: children before the node
// itself) in deleteSet. It never touches updated's parent-side child
// lists — ReplaceChildren calls at the ancestor that no longer points at
// id are the caller's responsibility.
func deleteOnwards(id relation.Id, updated *tree.Tree, deleteSet *relation.Set) error {
	rel, err := updated.GetRelation(id)
	if err != nil {
		return err
	}
	for _, childId := range rel.ChildIds() {
		if err := deleteOnwards(childId, updated, deleteSet); err != nil {
			return err
		}
	}
	deleteSet.Add(rel)
	return updated.DeleteNode(id)
}

// insertOnwards copies the subtree rooted at newId (read from newT) into
// updated, allocating a fresh identity for every node. Ids are allocated
// bottom-up: a node's children are materialized (and updated.MaxId bumped)
// before the node's own Id is drawn, so identity allocation always reflects
// the then-current max_id rather than one reserved ahead of time.
func insertOnwards(newId relation.Id, updated *tree.Tree, newT *tree.Tree, insertSet *relation.Set) (relation.Id, error) {
	rel, err := newT.GetRelation(newId)
	if err != nil {
		return relation.NoId, err
	}
	childIds := rel.ChildIds()
	targetChildIds := make([]relation.Id, len(childIds))
	for i, childId := range childIds {
		targetId, err := insertOnwards(childId, updated, newT, insertSet)
		if err != nil {
			return relation.NoId, err
		}
		targetChildIds[i] = targetId
	}
	ownId := updated.NextId()
	newRel := relation.Rebuild(rel, ownId, targetChildIds)
	if err := updated.AddNode(ownId, newRel); err != nil {
		return relation.NoId, err
	}
	if len(targetChildIds) > 0 {
		if err := updated.ReplaceChildren(ownId, targetChildIds); err != nil {
			return relation.NoId, err
		}
	}
	insertSet.Add(newRel)
	return ownId, nil
}

// reconcileStmt reconciles the statement/expression at prevId (in updated)
// against its counterpart at newId (in newT). If the two match shape the
// prev identity is kept untouched and prevId is returned; otherwise the
// whole prev subtree is deleted and the whole new subtree is inserted fresh,
// and the freshly allocated root Id is returned.
func reconcileStmt(prevId relation.Id, updated *tree.Tree, newId relation.Id, newT *tree.Tree, insertSet, deleteSet *relation.Set) (relation.Id, error) {
	ok, err := shapeMatch(updated, prevId, newT, newId)
	if err != nil {
		return relation.NoId, err
	}
	if ok {
		return prevId, nil
	}
	if err := deleteOnwards(prevId, updated, deleteSet); err != nil {
		return relation.NoId, err
	}
	return insertOnwards(newId, updated, newT, insertSet)
}
