// Package relation defines the flat, value-like AST node records ("relations")
// shared by the tree store, the differ, and the delta engine. Two relations
// are equal iff their Kind and all fields — including child Ids — are equal;
// Key returns a canonical string encoding exactly that equality, which is
// what lets relation.Set use them as hash-set members despite most variants
// holding slices (and therefore not being Go-comparable themselves).
package relation

import (
	"fmt"
	"strconv"
	"strings"

	"ctclang.dev/go/ctc/token"
)

// Id is a node identity, unique within a single tree. Id(0) is reserved as
// "unset" and is never assigned to a real node.
type Id int32

// NoId is the reserved "unset" identity.
const NoId Id = 0

// Kind tags which relation variant a Relation value holds.
type Kind uint8

const (
	KindTransUnit Kind = iota
	KindFunDef
	KindArg
	KindVoid
	KindInt
	KindFloat
	KindChar
	KindAssign
	KindReturn
	KindIf
	KindIfElse
	KindWhile
	KindCompound
	KindItem
	KindEndItem
	KindBinaryOp
	KindFunCall
	KindVar
)

func (k Kind) String() string {
	switch k {
	case KindTransUnit:
		return "TransUnit"
	case KindFunDef:
		return "FunDef"
	case KindArg:
		return "Arg"
	case KindVoid:
		return "Void"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindChar:
		return "Char"
	case KindAssign:
		return "Assign"
	case KindReturn:
		return "Return"
	case KindIf:
		return "If"
	case KindIfElse:
		return "IfElse"
	case KindWhile:
		return "While"
	case KindCompound:
		return "Compound"
	case KindItem:
		return "Item"
	case KindEndItem:
		return "EndItem"
	case KindBinaryOp:
		return "BinaryOp"
	case KindFunCall:
		return "FunCall"
	case KindVar:
		return "Var"
	default:
		return "Unknown"
	}
}

// IsType reports whether k is one of the four leaf type kinds.
func (k Kind) IsType() bool {
	switch k {
	case KindVoid, KindInt, KindFloat, KindChar:
		return true
	default:
		return false
	}
}

// IsExpr reports whether k is a node kind the delta engine's type-of fact
// can apply to (§4.4).
func (k Kind) IsExpr() bool {
	switch k {
	case KindVar, KindInt, KindFloat, KindChar, KindVoid, KindBinaryOp, KindFunCall:
		return true
	default:
		return false
	}
}

// Relation is the sealed interface implemented by every node variant.
type Relation interface {
	// ID returns the node's own identity.
	ID() Id
	// Kind reports which variant this value is.
	Kind() Kind
	// ChildIds returns the Id-valued fields in the relation's declared field
	// order — the same order the tree store's child list must hold per
	// invariant 2.
	ChildIds() []Id
	// WithID returns a copy of the relation with its own Id replaced,
	// leaving every other field, including child Ids, untouched.
	WithID(Id) Relation
	// Key returns a canonical string encoding every field (Kind, Id, and
	// all scalar/Id fields) such that two relations are equal iff their
	// Keys are equal.
	Key() string
	// Pos returns the placeholder source location; never consulted by a
	// verdict (§3 Lifecycle, Non-goals).
	Pos() token.Pos
}

func idsKey(ids []Id) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(id)))
	}
	b.WriteByte(']')
	return b.String()
}

// ---- TransUnit ----

type TransUnit struct {
	Id      Id
	BodyIds []Id
	At      token.Pos
}

func (r TransUnit) ID() Id          { return r.Id }
func (r TransUnit) Kind() Kind      { return KindTransUnit }
func (r TransUnit) ChildIds() []Id  { return r.BodyIds }
func (r TransUnit) Pos() token.Pos  { return r.At }
func (r TransUnit) WithID(id Id) Relation {
	r.Id = id
	return r
}
func (r TransUnit) Key() string {
	return fmt.Sprintf("TransUnit:%d:%s", r.Id, idsKey(r.BodyIds))
}

// ---- FunDef ----

type FunDef struct {
	Id           Id
	FunName      string
	ReturnTypeId Id
	ArgIds       []Id
	BodyId       Id
	At           token.Pos
}

func (r FunDef) ID() Id         { return r.Id }
func (r FunDef) Kind() Kind     { return KindFunDef }
func (r FunDef) Pos() token.Pos { return r.At }
func (r FunDef) ChildIds() []Id {
	ids := make([]Id, 0, len(r.ArgIds)+2)
	ids = append(ids, r.ReturnTypeId)
	ids = append(ids, r.ArgIds...)
	ids = append(ids, r.BodyId)
	return ids
}
func (r FunDef) WithID(id Id) Relation {
	r.Id = id
	return r
}
func (r FunDef) Key() string {
	return fmt.Sprintf("FunDef:%d:%s:%d:%s:%d", r.Id, r.FunName, r.ReturnTypeId, idsKey(r.ArgIds), r.BodyId)
}

// ---- Arg ----

type Arg struct {
	Id      Id
	VarName string
	TypeId  Id
	At      token.Pos
}

func (r Arg) ID() Id             { return r.Id }
func (r Arg) Kind() Kind         { return KindArg }
func (r Arg) Pos() token.Pos     { return r.At }
func (r Arg) ChildIds() []Id     { return []Id{r.TypeId} }
func (r Arg) WithID(id Id) Relation {
	r.Id = id
	return r
}
func (r Arg) Key() string {
	return fmt.Sprintf("Arg:%d:%s:%d", r.Id, r.VarName, r.TypeId)
}

// ---- leaf types ----

type Void struct {
	Id Id
	At token.Pos
}

func (r Void) ID() Id             { return r.Id }
func (r Void) Kind() Kind         { return KindVoid }
func (r Void) Pos() token.Pos     { return r.At }
func (r Void) ChildIds() []Id     { return nil }
func (r Void) WithID(id Id) Relation {
	r.Id = id
	return r
}
func (r Void) Key() string { return fmt.Sprintf("Void:%d", r.Id) }

type Int struct {
	Id Id
	At token.Pos
}

func (r Int) ID() Id             { return r.Id }
func (r Int) Kind() Kind         { return KindInt }
func (r Int) Pos() token.Pos     { return r.At }
func (r Int) ChildIds() []Id     { return nil }
func (r Int) WithID(id Id) Relation {
	r.Id = id
	return r
}
func (r Int) Key() string { return fmt.Sprintf("Int:%d", r.Id) }

type Float struct {
	Id Id
	At token.Pos
}

func (r Float) ID() Id             { return r.Id }
func (r Float) Kind() Kind         { return KindFloat }
func (r Float) Pos() token.Pos     { return r.At }
func (r Float) ChildIds() []Id     { return nil }
func (r Float) WithID(id Id) Relation {
	r.Id = id
	return r
}
func (r Float) Key() string { return fmt.Sprintf("Float:%d", r.Id) }

type Char struct {
	Id Id
	At token.Pos
}

func (r Char) ID() Id             { return r.Id }
func (r Char) Kind() Kind         { return KindChar }
func (r Char) Pos() token.Pos     { return r.At }
func (r Char) ChildIds() []Id     { return nil }
func (r Char) WithID(id Id) Relation {
	r.Id = id
	return r
}
func (r Char) Key() string { return fmt.Sprintf("Char:%d", r.Id) }

// ---- statements ----

type Assign struct {
	Id      Id
	VarName string
	TypeId  Id
	ExprId  Id
	At      token.Pos
}

func (r Assign) ID() Id             { return r.Id }
func (r Assign) Kind() Kind         { return KindAssign }
func (r Assign) Pos() token.Pos     { return r.At }
func (r Assign) ChildIds() []Id     { return []Id{r.TypeId, r.ExprId} }
func (r Assign) WithID(id Id) Relation {
	r.Id = id
	return r
}
func (r Assign) Key() string {
	return fmt.Sprintf("Assign:%d:%s:%d:%d", r.Id, r.VarName, r.TypeId, r.ExprId)
}

type Return struct {
	Id     Id
	ExprId Id
	At     token.Pos
}

func (r Return) ID() Id             { return r.Id }
func (r Return) Kind() Kind         { return KindReturn }
func (r Return) Pos() token.Pos     { return r.At }
func (r Return) ChildIds() []Id     { return []Id{r.ExprId} }
func (r Return) WithID(id Id) Relation {
	r.Id = id
	return r
}
func (r Return) Key() string { return fmt.Sprintf("Return:%d:%d", r.Id, r.ExprId) }

type If struct {
	Id     Id
	CondId Id
	ThenId Id
	At     token.Pos
}

func (r If) ID() Id             { return r.Id }
func (r If) Kind() Kind         { return KindIf }
func (r If) Pos() token.Pos     { return r.At }
func (r If) ChildIds() []Id     { return []Id{r.CondId, r.ThenId} }
func (r If) WithID(id Id) Relation {
	r.Id = id
	return r
}
func (r If) Key() string { return fmt.Sprintf("If:%d:%d:%d", r.Id, r.CondId, r.ThenId) }

type IfElse struct {
	Id     Id
	CondId Id
	ThenId Id
	ElseId Id
	At     token.Pos
}

func (r IfElse) ID() Id             { return r.Id }
func (r IfElse) Kind() Kind         { return KindIfElse }
func (r IfElse) Pos() token.Pos     { return r.At }
func (r IfElse) ChildIds() []Id     { return []Id{r.CondId, r.ThenId, r.ElseId} }
func (r IfElse) WithID(id Id) Relation {
	r.Id = id
	return r
}
func (r IfElse) Key() string {
	return fmt.Sprintf("IfElse:%d:%d:%d:%d", r.Id, r.CondId, r.ThenId, r.ElseId)
}

type While struct {
	Id     Id
	CondId Id
	BodyId Id
	At     token.Pos
}

func (r While) ID() Id             { return r.Id }
func (r While) Kind() Kind         { return KindWhile }
func (r While) Pos() token.Pos     { return r.At }
func (r While) ChildIds() []Id     { return []Id{r.CondId, r.BodyId} }
func (r While) WithID(id Id) Relation {
	r.Id = id
	return r
}
func (r While) Key() string { return fmt.Sprintf("While:%d:%d:%d", r.Id, r.CondId, r.BodyId) }

// ---- statement-list chain ----

type Compound struct {
	Id      Id
	StartId Id
	At      token.Pos
}

func (r Compound) ID() Id             { return r.Id }
func (r Compound) Kind() Kind         { return KindCompound }
func (r Compound) Pos() token.Pos     { return r.At }
func (r Compound) ChildIds() []Id     { return []Id{r.StartId} }
func (r Compound) WithID(id Id) Relation {
	r.Id = id
	return r
}
func (r Compound) Key() string { return fmt.Sprintf("Compound:%d:%d", r.Id, r.StartId) }

type Item struct {
	Id         Id
	StmtId     Id
	NextStmtId Id
	At         token.Pos
}

func (r Item) ID() Id             { return r.Id }
func (r Item) Kind() Kind         { return KindItem }
func (r Item) Pos() token.Pos     { return r.At }
func (r Item) ChildIds() []Id     { return []Id{r.StmtId, r.NextStmtId} }
func (r Item) WithID(id Id) Relation {
	r.Id = id
	return r
}
func (r Item) Key() string {
	return fmt.Sprintf("Item:%d:%d:%d", r.Id, r.StmtId, r.NextStmtId)
}

type EndItem struct {
	Id     Id
	StmtId Id
	At     token.Pos
}

func (r EndItem) ID() Id             { return r.Id }
func (r EndItem) Kind() Kind         { return KindEndItem }
func (r EndItem) Pos() token.Pos     { return r.At }
func (r EndItem) ChildIds() []Id     { return []Id{r.StmtId} }
func (r EndItem) WithID(id Id) Relation {
	r.Id = id
	return r
}
func (r EndItem) Key() string { return fmt.Sprintf("EndItem:%d:%d", r.Id, r.StmtId) }

// ---- expressions ----

type BinaryOp struct {
	Id      Id
	Arg1Id  Id
	Arg2Id  Id
	At      token.Pos
}

func (r BinaryOp) ID() Id             { return r.Id }
func (r BinaryOp) Kind() Kind         { return KindBinaryOp }
func (r BinaryOp) Pos() token.Pos     { return r.At }
func (r BinaryOp) ChildIds() []Id     { return []Id{r.Arg1Id, r.Arg2Id} }
func (r BinaryOp) WithID(id Id) Relation {
	r.Id = id
	return r
}
func (r BinaryOp) Key() string {
	return fmt.Sprintf("BinaryOp:%d:%d:%d", r.Id, r.Arg1Id, r.Arg2Id)
}

type FunCall struct {
	Id      Id
	FunName string
	ArgIds  []Id
	At      token.Pos
}

func (r FunCall) ID() Id         { return r.Id }
func (r FunCall) Kind() Kind     { return KindFunCall }
func (r FunCall) Pos() token.Pos { return r.At }
func (r FunCall) ChildIds() []Id { return r.ArgIds }
func (r FunCall) WithID(id Id) Relation {
	r.Id = id
	return r
}
func (r FunCall) Key() string {
	return fmt.Sprintf("FunCall:%d:%s:%s", r.Id, r.FunName, idsKey(r.ArgIds))
}

type Var struct {
	Id      Id
	VarName string
	At      token.Pos
}

func (r Var) ID() Id             { return r.Id }
func (r Var) Kind() Kind         { return KindVar }
func (r Var) Pos() token.Pos     { return r.At }
func (r Var) ChildIds() []Id     { return nil }
func (r Var) WithID(id Id) Relation {
	r.Id = id
	return r
}
func (r Var) Key() string { return fmt.Sprintf("Var:%d:%s", r.Id, r.VarName) }
