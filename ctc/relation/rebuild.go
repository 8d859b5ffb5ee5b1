package relation

// Rebuild returns a copy of r with its own Id set to id and its Id-valued
// fields set to childIds, positionally matching the order r.ChildIds()
// documents. It is the one place that knows how to reconstruct every
// variant from a (kind, scalar fields, child ids) triple; the differ's
// insertOnwards and its leaf-type Id rewriting (spec §4.3.2, §4.3.5) build
// their relations through this function so that field order can't drift
// out of sync between ChildIds and Rebuild.
func Rebuild(r Relation, id Id, childIds []Id) Relation {
	switch v := r.(type) {
	case TransUnit:
		v.Id = id
		v.BodyIds = append([]Id(nil), childIds...)
		return v
	case FunDef:
		v.Id = id
		v.ReturnTypeId = childIds[0]
		n := len(childIds)
		v.ArgIds = append([]Id(nil), childIds[1:n-1]...)
		v.BodyId = childIds[n-1]
		return v
	case Arg:
		v.Id = id
		v.TypeId = childIds[0]
		return v
	case Void:
		v.Id = id
		return v
	case Int:
		v.Id = id
		return v
	case Float:
		v.Id = id
		return v
	case Char:
		v.Id = id
		return v
	case Assign:
		v.Id = id
		v.TypeId = childIds[0]
		v.ExprId = childIds[1]
		return v
	case Return:
		v.Id = id
		v.ExprId = childIds[0]
		return v
	case If:
		v.Id = id
		v.CondId = childIds[0]
		v.ThenId = childIds[1]
		return v
	case IfElse:
		v.Id = id
		v.CondId = childIds[0]
		v.ThenId = childIds[1]
		v.ElseId = childIds[2]
		return v
	case While:
		v.Id = id
		v.CondId = childIds[0]
		v.BodyId = childIds[1]
		return v
	case Compound:
		v.Id = id
		v.StartId = childIds[0]
		return v
	case Item:
		v.Id = id
		v.StmtId = childIds[0]
		v.NextStmtId = childIds[1]
		return v
	case EndItem:
		v.Id = id
		v.StmtId = childIds[0]
		return v
	case BinaryOp:
		v.Id = id
		v.Arg1Id = childIds[0]
		v.Arg2Id = childIds[1]
		return v
	case FunCall:
		v.Id = id
		v.ArgIds = append([]Id(nil), childIds...)
		return v
	case Var:
		v.Id = id
		return v
	default:
		panic("relation: Rebuild: unknown variant")
	}
}
