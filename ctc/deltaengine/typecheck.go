package deltaengine

import (
	"ctclang.dev/go/ctc/errors"
	"ctclang.dev/go/ctc/relation"
	"ctclang.dev/go/ctc/tree"
)

// recomputeFunction rebuilds every fact owned by funId: its flat
// environment, the type of every expression and the ok-ness of every
// statement reachable from its body, and funOk itself.
func (e *Engine) recomputeFunction(tr *tree.Tree, funId relation.Id) error {
	rel, err := tr.GetRelation(funId)
	if err != nil {
		return err
	}
	fd, ok := rel.(relation.FunDef)
	if !ok {
		return errors.InvariantViolationf(rel.Pos(), "delta engine: %d is not a FunDef", funId)
	}

	env := EnvBinding{}
	for _, argId := range fd.ArgIds {
		argRel, err := tr.GetRelation(argId)
		if err != nil {
			return err
		}
		arg, ok := argRel.(relation.Arg)
		if !ok {
			return errors.InvariantViolationf(argRel.Pos(), "delta engine: %d is not an Arg", argId)
		}
		typeKind, err := leafKind(tr, arg.TypeId)
		if err != nil {
			return err
		}
		env[arg.VarName] = typeKind
	}
	if err := e.collectDecls(tr, fd.BodyId, env); err != nil {
		return err
	}
	e.f.env[funId] = env

	returnKind, err := leafKind(tr, fd.ReturnTypeId)
	if err != nil {
		return err
	}

	bodyOk, err := e.checkStmt(tr, env, returnKind, fd.BodyId)
	if err != nil {
		return err
	}
	e.f.funOk[funId] = bodyOk
	return nil
}

func leafKind(tr *tree.Tree, id relation.Id) (relation.Kind, error) {
	rel, err := tr.GetRelation(id)
	if err != nil {
		return 0, err
	}
	return rel.Kind(), nil
}

// collectDecls walks every statement reachable from stmtId — including
// inside if/while bodies and nested compounds — and binds every
// declaration ("int x = ...;") it finds into env. Bindings are visible
// throughout the whole function regardless of where collectDecls
// encounters them, so a forward reference to a later declaration resolves.
func (e *Engine) collectDecls(tr *tree.Tree, stmtId relation.Id, env EnvBinding) error {
	rel, err := tr.GetRelation(stmtId)
	if err != nil {
		return err
	}
	switch v := rel.(type) {
	case relation.Assign:
		typeKind, err := leafKind(tr, v.TypeId)
		if err != nil {
			return err
		}
		env[v.VarName] = typeKind
	case relation.If:
		return e.collectDecls(tr, v.ThenId, env)
	case relation.IfElse:
		if err := e.collectDecls(tr, v.ThenId, env); err != nil {
			return err
		}
		return e.collectDecls(tr, v.ElseId, env)
	case relation.While:
		return e.collectDecls(tr, v.BodyId, env)
	case relation.Compound:
		return e.walkChain(tr, v.StartId, func(inner relation.Id) error {
			return e.collectDecls(tr, inner, env)
		})
	case relation.Return:
		// no declarations
	default:
		return errors.UnsupportedConstructf(rel.Pos(), "delta engine: %s is not a statement", rel.Kind())
	}
	return nil
}

// walkChain calls visit with the StmtId of every cell in the Item/EndItem
// chain starting at startId, in order.
func (e *Engine) walkChain(tr *tree.Tree, startId relation.Id, visit func(relation.Id) error) error {
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
			return errors.InvariantViolationf(rel.Pos(), "delta engine: %d is neither Item nor EndItem", id)
		}
	}
}

// checkStmt derives StmtOk for stmtId (and TypeOf for every expression it
// contains) given the function's flat env and declared return type,
// recursing into nested bodies and the statement-list chain.
func (e *Engine) checkStmt(tr *tree.Tree, env EnvBinding, returnKind relation.Kind, stmtId relation.Id) (bool, error) {
	rel, err := tr.GetRelation(stmtId)
	if err != nil {
		return false, err
	}
	var ok bool
	switch v := rel.(type) {
	case relation.Assign:
		declKind, err := leafKind(tr, v.TypeId)
		if err != nil {
			return false, err
		}
		exprKind, exprOk, err := e.typeOfExpr(tr, env, v.ExprId)
		if err != nil {
			return false, err
		}
		ok = exprOk && exprKind == declKind

	case relation.Return:
		exprKind, exprOk, err := e.typeOfExpr(tr, env, v.ExprId)
		if err != nil {
			return false, err
		}
		ok = exprOk && exprKind == returnKind

	case relation.If:
		condKind, condOk, err := e.typeOfExpr(tr, env, v.CondId)
		if err != nil {
			return false, err
		}
		thenOk, err := e.checkStmt(tr, env, returnKind, v.ThenId)
		if err != nil {
			return false, err
		}
		ok = condOk && condKind == relation.KindInt && thenOk

	case relation.IfElse:
		condKind, condOk, err := e.typeOfExpr(tr, env, v.CondId)
		if err != nil {
			return false, err
		}
		thenOk, err := e.checkStmt(tr, env, returnKind, v.ThenId)
		if err != nil {
			return false, err
		}
		elseOk, err := e.checkStmt(tr, env, returnKind, v.ElseId)
		if err != nil {
			return false, err
		}
		ok = condOk && condKind == relation.KindInt && thenOk && elseOk

	case relation.While:
		condKind, condOk, err := e.typeOfExpr(tr, env, v.CondId)
		if err != nil {
			return false, err
		}
		bodyOk, err := e.checkStmt(tr, env, returnKind, v.BodyId)
		if err != nil {
			return false, err
		}
		ok = condOk && condKind == relation.KindInt && bodyOk

	case relation.Compound:
		ok = true
		err := e.walkChain(tr, v.StartId, func(inner relation.Id) error {
			innerOk, err := e.checkStmt(tr, env, returnKind, inner)
			if err != nil {
				return err
			}
			if !innerOk {
				ok = false
			}
			return nil
		})
		if err != nil {
			return false, err
		}

	default:
		return false, errors.UnsupportedConstructf(rel.Pos(), "delta engine: %s is not a statement", rel.Kind())
	}

	e.f.stmtOk[stmtId] = ok
	return ok, nil
}

// typeOfExpr derives the type of the expression at exprId, recording it in
// the fact store when determinable. The second return value is false when
// the expression's type could not be determined — an unbound variable or a
// binary-operator/argument mismatch — in which case no TypeOf fact is
// recorded for exprId.
func (e *Engine) typeOfExpr(tr *tree.Tree, env EnvBinding, exprId relation.Id) (relation.Kind, bool, error) {
	rel, err := tr.GetRelation(exprId)
	if err != nil {
		return 0, false, err
	}
	switch v := rel.(type) {
	case relation.Int, relation.Float, relation.Char, relation.Void:
		e.f.typeOf[exprId] = rel.Kind()
		return rel.Kind(), true, nil

	case relation.Var:
		k, bound := env[v.VarName]
		if !bound {
			return 0, false, nil
		}
		e.f.typeOf[exprId] = k
		return k, true, nil

	case relation.BinaryOp:
		k1, ok1, err := e.typeOfExpr(tr, env, v.Arg1Id)
		if err != nil {
			return 0, false, err
		}
		k2, ok2, err := e.typeOfExpr(tr, env, v.Arg2Id)
		if err != nil {
			return 0, false, err
		}
		if !ok1 || !ok2 || k1 != k2 {
			return 0, false, nil
		}
		if k1 != relation.KindInt && k1 != relation.KindFloat {
			return 0, false, nil
		}
		e.f.typeOf[exprId] = k1
		return k1, true, nil

	case relation.FunCall:
		fd, found, err := findFunDef(tr, v.FunName)
		if err != nil {
			return 0, false, err
		}
		if !found {
			return 0, false, nil
		}
		if len(fd.ArgIds) != len(v.ArgIds) {
			return 0, false, nil
		}
		for i, callArgId := range v.ArgIds {
			paramRel, err := tr.GetRelation(fd.ArgIds[i])
			if err != nil {
				return 0, false, err
			}
			paramKind, err := leafKind(tr, paramRel.(relation.Arg).TypeId)
			if err != nil {
				return 0, false, err
			}
			argKind, argOk, err := e.typeOfExpr(tr, env, callArgId)
			if err != nil {
				return 0, false, err
			}
			if !argOk || argKind != paramKind {
				return 0, false, nil
			}
		}
		returnKind, err := leafKind(tr, fd.ReturnTypeId)
		if err != nil {
			return 0, false, err
		}
		e.f.typeOf[exprId] = returnKind
		return returnKind, true, nil

	default:
		return 0, false, errors.UnsupportedConstructf(rel.Pos(), "delta engine: %s is not an expression", rel.Kind())
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
