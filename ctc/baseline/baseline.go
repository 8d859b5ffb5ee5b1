// Package baseline implements a non-incremental, full re-walk type checker:
// the equivalence oracle the delta engine is checked against. It shares no
// code with ctc/deltaengine by design — an oracle that reused the engine's
// own logic could reproduce the engine's bugs rather than catch them —
// and is grounded on the from-scratch recursive walk of
// standard_type_checker.rs.
package baseline

import (
	"ctclang.dev/go/ctc/errors"
	"ctclang.dev/go/ctc/relation"
	"ctclang.dev/go/ctc/tree"
)

type env map[string]relation.Kind

// CheckProgram re-derives the type-check verdict for tr from nothing,
// checking the root's functions in order and stopping at the first one
// that does not type-check.
func CheckProgram(tr *tree.Tree) (bool, error) {
	rootRel, err := tr.GetRelation(tr.RootId())
	if err != nil {
		return false, err
	}
	unit, ok := rootRel.(relation.TransUnit)
	if !ok {
		return false, errors.InvariantViolationf(rootRel.Pos(), "baseline: root %d is not a TransUnit", tr.RootId())
	}
	for _, funId := range unit.BodyIds {
		ok, err := checkFunction(tr, funId)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func checkFunction(tr *tree.Tree, funId relation.Id) (bool, error) {
	rel, err := tr.GetRelation(funId)
	if err != nil {
		return false, err
	}
	fd, ok := rel.(relation.FunDef)
	if !ok {
		return false, errors.InvariantViolationf(rel.Pos(), "baseline: %d is not a FunDef", funId)
	}

	e := env{}
	for _, argId := range fd.ArgIds {
		argRel, err := tr.GetRelation(argId)
		if err != nil {
			return false, err
		}
		arg := argRel.(relation.Arg)
		typeKind, err := kindOf(tr, arg.TypeId)
		if err != nil {
			return false, err
		}
		e[arg.VarName] = typeKind
	}
	if err := collectDecls(tr, fd.BodyId, e); err != nil {
		return false, err
	}

	returnKind, err := kindOf(tr, fd.ReturnTypeId)
	if err != nil {
		return false, err
	}
	return checkStmt(tr, e, returnKind, fd.BodyId)
}

func kindOf(tr *tree.Tree, id relation.Id) (relation.Kind, error) {
	rel, err := tr.GetRelation(id)
	if err != nil {
		return 0, err
	}
	return rel.Kind(), nil
}

func collectDecls(tr *tree.Tree, stmtId relation.Id, e env) error {
	rel, err := tr.GetRelation(stmtId)
	if err != nil {
		return err
	}
	switch v := rel.(type) {
	case relation.Assign:
		k, err := kindOf(tr, v.TypeId)
		if err != nil {
			return err
		}
		e[v.VarName] = k
	case relation.If:
		return collectDecls(tr, v.ThenId, e)
	case relation.IfElse:
		if err := collectDecls(tr, v.ThenId, e); err != nil {
			return err
		}
		return collectDecls(tr, v.ElseId, e)
	case relation.While:
		return collectDecls(tr, v.BodyId, e)
	case relation.Compound:
		return walkChain(tr, v.StartId, func(id relation.Id) error { return collectDecls(tr, id, e) })
	case relation.Return:
	default:
		return errors.UnsupportedConstructf(rel.Pos(), "baseline: %s is not a statement", rel.Kind())
	}
	return nil
}

func walkChain(tr *tree.Tree, startId relation.Id, visit func(relation.Id) error) error {
	id := startId
	for {
		rel, err := tr.GetRelation(id)
		if err != nil {
			return err
		}
		switch v := rel.(type) {
		case relation.Item:
			if err := visit(v.StmtId); err != nil {
				return err
			}
			id = v.NextStmtId
		case relation.EndItem:
			return visit(v.StmtId)
		default:
			return errors.InvariantViolationf(rel.Pos(), "baseline: %d is neither Item nor EndItem", id)
		}
	}
}

func checkStmt(tr *tree.Tree, e env, returnKind relation.Kind, stmtId relation.Id) (bool, error) {
	rel, err := tr.GetRelation(stmtId)
	if err != nil {
		return false, err
	}
	switch v := rel.(type) {
	case relation.Assign:
		declKind, err := kindOf(tr, v.TypeId)
		if err != nil {
			return false, err
		}
		exprKind, ok, err := typeOf(tr, e, v.ExprId)
		if err != nil {
			return false, err
		}
		return ok && exprKind == declKind, nil

	case relation.Return:
		exprKind, ok, err := typeOf(tr, e, v.ExprId)
		if err != nil {
			return false, err
		}
		return ok && exprKind == returnKind, nil

	case relation.If:
		condKind, condOk, err := typeOf(tr, e, v.CondId)
		if err != nil {
			return false, err
		}
		thenOk, err := checkStmt(tr, e, returnKind, v.ThenId)
		if err != nil {
			return false, err
		}
		return condOk && condKind == relation.KindInt && thenOk, nil

	case relation.IfElse:
		condKind, condOk, err := typeOf(tr, e, v.CondId)
		if err != nil {
			return false, err
		}
		thenOk, err := checkStmt(tr, e, returnKind, v.ThenId)
		if err != nil {
			return false, err
		}
		elseOk, err := checkStmt(tr, e, returnKind, v.ElseId)
		if err != nil {
			return false, err
		}
		return condOk && condKind == relation.KindInt && thenOk && elseOk, nil

	case relation.While:
		condKind, condOk, err := typeOf(tr, e, v.CondId)
		if err != nil {
			return false, err
		}
		bodyOk, err := checkStmt(tr, e, returnKind, v.BodyId)
		if err != nil {
			return false, err
		}
		return condOk && condKind == relation.KindInt && bodyOk, nil

	case relation.Compound:
		ok := true
		err := walkChain(tr, v.StartId, func(id relation.Id) error {
			innerOk, err := checkStmt(tr, e, returnKind, id)
			if err != nil {
				return err
			}
			if !innerOk {
				ok = false
			}
			return nil
		})
		return ok, err

	default:
		return false, errors.UnsupportedConstructf(rel.Pos(), "baseline: %s is not a statement", rel.Kind())
	}
}

func typeOf(tr *tree.Tree, e env, exprId relation.Id) (relation.Kind, bool, error) {
	rel, err := tr.GetRelation(exprId)
	if err != nil {
		return 0, false, err
	}
	switch v := rel.(type) {
	case relation.Int, relation.Float, relation.Char, relation.Void:
		return rel.Kind(), true, nil

	case relation.Var:
		k, ok := e[v.VarName]
		return k, ok, nil

	case relation.BinaryOp:
		k1, ok1, err := typeOf(tr, e, v.Arg1Id)
		if err != nil {
			return 0, false, err
		}
		k2, ok2, err := typeOf(tr, e, v.Arg2Id)
		if err != nil {
			return 0, false, err
		}
		if !ok1 || !ok2 || k1 != k2 {
			return 0, false, nil
		}
		if k1 != relation.KindInt && k1 != relation.KindFloat {
			return 0, false, nil
		}
		return k1, true, nil

	case relation.FunCall:
		fd, found, err := findFunDef(tr, v.FunName)
		if err != nil {
			return 0, false, err
		}
		if !found || len(fd.ArgIds) != len(v.ArgIds) {
			return 0, false, nil
		}
		for i, callArgId := range v.ArgIds {
			paramRel, err := tr.GetRelation(fd.ArgIds[i])
			if err != nil {
				return 0, false, err
			}
			paramKind, err := kindOf(tr, paramRel.(relation.Arg).TypeId)
			if err != nil {
				return 0, false, err
			}
			argKind, argOk, err := typeOf(tr, e, callArgId)
			if err != nil {
				return 0, false, err
			}
			if !argOk || argKind != paramKind {
				return 0, false, nil
			}
		}
		returnKind, err := kindOf(tr, fd.ReturnTypeId)
		return returnKind, err == nil, err

	default:
		return 0, false, errors.UnsupportedConstructf(rel.Pos(), "baseline: %s is not an expression", rel.Kind())
	}
}

func findFunDef(tr *tree.Tree, name string) (relation.FunDef, bool, error) {
	rootRel, err := tr.GetRelation(tr.RootId())
	if err != nil {
		return relation.FunDef{}, false, err
	}
	unit := rootRel.(relation.TransUnit)
	for _, funId := range unit.BodyIds {
		rel, err := tr.GetRelation(funId)
		if err != nil {
			return relation.FunDef{}, false, err
		}
		if fd, ok := rel.(relation.FunDef); ok && fd.FunName == name {
			return fd, true, nil
		}
	}
	return relation.FunDef{}, false, nil
}
