package differ

import (
	"fmt"

	"ctclang.dev/go/ctc/relation"
	"ctclang.dev/go/ctc/tree"
)

// replaceRelation swaps the relation stored at id for newRel: oldRel is
// recorded in deleteSet, newRel in insertSet, and updated's arena slot and
// child list are brought in line with newRel. id itself never changes.
func replaceRelation(updated *tree.Tree, id relation.Id, oldRel, newRel relation.Relation, insertSet, deleteSet *relation.Set) error {
	deleteSet.Add(oldRel)
	insertSet.Add(newRel)
	if err := updated.UpdateRelation(id, newRel); err != nil {
		return err
	}
	return updated.ReplaceChildren(id, newRel.ChildIds())
}

// compareItems reconciles the Item/EndItem chain starting at prevCellId (in
// updated) against its counterpart starting at newCellId (in newT), and
// returns the Id of the cell that is now the head of the reconciled chain
// from this position onward.
//
// On a stmt-shape match the head is prevCellId itself: no cell is deleted
// or inserted just to realign a position. On a mismatch, prevCellId is
// *held fixed* and compared again against new's next cell rather than
// consumed immediately — new's current stmt is spliced in as a fresh Item
// cell ahead of whatever that held comparison eventually resolves to. This
// is what lets a single mid-chain insertion or deletion cost one fresh
// cell instead of reslating every following statement's Id.
func compareItems(prevCellId relation.Id, updated *tree.Tree, newCellId relation.Id, newT *tree.Tree, insertSet, deleteSet *relation.Set) (relation.Id, error) {
	prevRel, err := updated.GetRelation(prevCellId)
	if err != nil {
		return relation.NoId, err
	}
	newRel, err := newT.GetRelation(newCellId)
	if err != nil {
		return relation.NoId, err
	}

	switch prevV := prevRel.(type) {
	case relation.Item:
		switch newV := newRel.(type) {
		case relation.Item:
			match, err := shapeMatch(updated, prevV.StmtId, newT, newV.StmtId)
			if err != nil {
				return relation.NoId, err
			}
			if match {
				nextHeadId, err := compareItems(prevV.NextStmtId, updated, newV.NextStmtId, newT, insertSet, deleteSet)
				if err != nil {
					return relation.NoId, err
				}
				if nextHeadId != prevV.NextStmtId {
					replacement := relation.Item{Id: prevCellId, StmtId: prevV.StmtId, NextStmtId: nextHeadId}
					if err := replaceRelation(updated, prevCellId, prevV, replacement, insertSet, deleteSet); err != nil {
						return relation.NoId, err
					}
				}
				return prevCellId, nil
			}
			return prependInserted(prevCellId, updated, newV.StmtId, newV.NextStmtId, newT, insertSet, deleteSet)

		case relation.EndItem:
			match, err := shapeMatch(updated, prevV.StmtId, newT, newV.StmtId)
			if err != nil {
				return relation.NoId, err
			}
			if match {
				if err := deleteOnwards(prevV.NextStmtId, updated, deleteSet); err != nil {
					return relation.NoId, err
				}
				replacement := relation.EndItem{Id: prevCellId, StmtId: prevV.StmtId}
				if err := replaceRelation(updated, prevCellId, prevV, replacement, insertSet, deleteSet); err != nil {
					return relation.NoId, err
				}
				return prevCellId, nil
			}
			if err := deleteOnwards(prevV.NextStmtId, updated, deleteSet); err != nil {
				return relation.NoId, err
			}
			newStmtId, err := reconcileStmt(prevV.StmtId, updated, newV.StmtId, newT, insertSet, deleteSet)
			if err != nil {
				return relation.NoId, err
			}
			replacement := relation.EndItem{Id: prevCellId, StmtId: newStmtId}
			if err := replaceRelation(updated, prevCellId, prevV, replacement, insertSet, deleteSet); err != nil {
				return relation.NoId, err
			}
			return prevCellId, nil

		default:
			return relation.NoId, fmt.Errorf("differ: compareItems: unexpected new cell kind %s", newRel.Kind())
		}

	case relation.EndItem:
		switch newV := newRel.(type) {
		case relation.Item:
			match, err := shapeMatch(updated, prevV.StmtId, newT, newV.StmtId)
			if err != nil {
				return relation.NoId, err
			}
			if match {
				newTailId, err := insertOnwards(newV.NextStmtId, updated, newT, insertSet)
				if err != nil {
					return relation.NoId, err
				}
				replacement := relation.Item{Id: prevCellId, StmtId: prevV.StmtId, NextStmtId: newTailId}
				if err := replaceRelation(updated, prevCellId, prevV, replacement, insertSet, deleteSet); err != nil {
					return relation.NoId, err
				}
				return prevCellId, nil
			}
			return prependInserted(prevCellId, updated, newV.StmtId, newV.NextStmtId, newT, insertSet, deleteSet)

		case relation.EndItem:
			match, err := shapeMatch(updated, prevV.StmtId, newT, newV.StmtId)
			if err != nil {
				return relation.NoId, err
			}
			if match {
				return prevCellId, nil
			}
			newStmtId, err := reconcileStmt(prevV.StmtId, updated, newV.StmtId, newT, insertSet, deleteSet)
			if err != nil {
				return relation.NoId, err
			}
			replacement := relation.EndItem{Id: prevCellId, StmtId: newStmtId}
			if err := replaceRelation(updated, prevCellId, prevV, replacement, insertSet, deleteSet); err != nil {
				return relation.NoId, err
			}
			return prevCellId, nil

		default:
			return relation.NoId, fmt.Errorf("differ: compareItems: unexpected new cell kind %s", newRel.Kind())
		}

	default:
		return relation.NoId, fmt.Errorf("differ: compareItems: unexpected prev cell kind %s", prevRel.Kind())
	}
}

// prependInserted handles the mismatch branch shared by Item/Item and
// EndItem/Item: prevCellId is held fixed and compared again against new's
// next cell, and new's current stmt is materialized as a fresh Item cell
// pointing at whatever that held comparison resolves to.
func prependInserted(prevCellId relation.Id, updated *tree.Tree, newStmtId, newNextCellId relation.Id, newT *tree.Tree, insertSet, deleteSet *relation.Set) (relation.Id, error) {
	tailHeadId, err := compareItems(prevCellId, updated, newNextCellId, newT, insertSet, deleteSet)
	if err != nil {
		return relation.NoId, err
	}
	insertedStmtId, err := insertOnwards(newStmtId, updated, newT, insertSet)
	if err != nil {
		return relation.NoId, err
	}
	freshId := updated.NextId()
	freshItem := relation.Item{Id: freshId, StmtId: insertedStmtId, NextStmtId: tailHeadId}
	if err := updated.AddNode(freshId, freshItem); err != nil {
		return relation.NoId, err
	}
	if err := updated.ReplaceChildren(freshId, freshItem.ChildIds()); err != nil {
		return relation.NoId, err
	}
	insertSet.Add(freshItem)
	return freshId, nil
}
