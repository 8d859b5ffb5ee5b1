package cparser

import (
	"ctclang.dev/go/ctc/errors"
	"ctclang.dev/go/ctc/relation"
	"ctclang.dev/go/ctc/tree"
)

type parser struct {
	sc     *scanner
	cur    tok
	tr     *tree.Tree
	nextId relation.Id
}

// Parse scans and parses src (from the named file, used only for
// diagnostic positions) into a fresh tree.Tree whose root is the
// program's TransUnit.
func Parse(filename string, src []byte) (*tree.Tree, error) {
	p := &parser{sc: newScanner(filename, src), tr: tree.New(), nextId: 1}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.parseTransUnit(); err != nil {
		return nil, err
	}
	return p.tr, nil
}

func (p *parser) advance() error {
	t, err := p.sc.next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

func (p *parser) allocId() relation.Id {
	id := p.nextId
	p.nextId++
	return id
}

func (p *parser) expect(k tokKind) (tok, error) {
	if p.cur.kind != k {
		return tok{}, errors.ParseErrorf(p.cur.pos, "expected %s, found %s", k, p.cur.kind)
	}
	t := p.cur
	if err := p.advance(); err != nil {
		return tok{}, err
	}
	return t, nil
}

func (p *parser) parseTransUnit() error {
	var funIds []relation.Id
	for p.cur.kind != tokEOF {
		funId, err := p.parseFunDef()
		if err != nil {
			return err
		}
		funIds = append(funIds, funId)
	}
	rootId := p.allocId()
	if err := p.tr.AddRootNode(rootId, relation.TransUnit{Id: rootId, BodyIds: funIds}); err != nil {
		return err
	}
	if len(funIds) > 0 {
		if err := p.tr.ReplaceChildren(rootId, funIds); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) parseType() (relation.Id, error) {
	pos := p.cur.pos
	var rel relation.Relation
	id := p.allocId()
	switch p.cur.kind {
	case tokKwInt:
		rel = relation.Int{Id: id, At: pos}
	case tokKwFloat:
		rel = relation.Float{Id: id, At: pos}
	case tokKwChar:
		rel = relation.Char{Id: id, At: pos}
	case tokKwVoid:
		rel = relation.Void{Id: id, At: pos}
	default:
		return 0, errors.ParseErrorf(pos, "expected a type, found %s", p.cur.kind)
	}
	if err := p.advance(); err != nil {
		return 0, err
	}
	if err := p.tr.AddNode(id, rel); err != nil {
		return 0, err
	}
	return id, nil
}

func (p *parser) parseFunDef() (relation.Id, error) {
	returnTypeId, err := p.parseType()
	if err != nil {
		return 0, err
	}
	nameTok, err := p.expect(tokIdent)
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(tokLParen); err != nil {
		return 0, err
	}
	var argIds []relation.Id
	for p.cur.kind != tokRParen {
		if len(argIds) > 0 {
			if _, err := p.expect(tokComma); err != nil {
				return 0, err
			}
		}
		argId, err := p.parseArg()
		if err != nil {
			return 0, err
		}
		argIds = append(argIds, argId)
	}
	if _, err := p.expect(tokRParen); err != nil {
		return 0, err
	}
	bodyId, err := p.parseCompound()
	if err != nil {
		return 0, err
	}

	funId := p.allocId()
	fd := relation.FunDef{Id: funId, FunName: nameTok.lit, ReturnTypeId: returnTypeId, ArgIds: argIds, BodyId: bodyId, At: nameTok.pos}
	if err := p.tr.AddNode(funId, fd); err != nil {
		return 0, err
	}
	if err := p.tr.ReplaceChildren(funId, fd.ChildIds()); err != nil {
		return 0, err
	}
	return funId, nil
}

func (p *parser) parseArg() (relation.Id, error) {
	typeId, err := p.parseType()
	if err != nil {
		return 0, err
	}
	nameTok, err := p.expect(tokIdent)
	if err != nil {
		return 0, err
	}
	argId := p.allocId()
	arg := relation.Arg{Id: argId, VarName: nameTok.lit, TypeId: typeId, At: nameTok.pos}
	if err := p.tr.AddNode(argId, arg); err != nil {
		return 0, err
	}
	if err := p.tr.ReplaceChildren(argId, arg.ChildIds()); err != nil {
		return 0, err
	}
	return argId, nil
}

// parseCompound parses a brace-delimited statement list into an
// Item/EndItem chain and returns the Id of the Compound that owns it. At
// least one statement is required: the grammar this parser implements has
// no representation for an empty block.
func (p *parser) parseCompound() (relation.Id, error) {
	pos := p.cur.pos
	if _, err := p.expect(tokLBrace); err != nil {
		return 0, err
	}
	var stmtIds []relation.Id
	for p.cur.kind != tokRBrace {
		stmtId, err := p.parseStmt()
		if err != nil {
			return 0, err
		}
		stmtIds = append(stmtIds, stmtId)
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return 0, err
	}
	if len(stmtIds) == 0 {
		return 0, errors.ParseErrorf(pos, "empty compound statement is not supported")
	}

	next := relation.NoId
	for i := len(stmtIds) - 1; i >= 0; i-- {
		cellId := p.allocId()
		if i == len(stmtIds)-1 {
			end := relation.EndItem{Id: cellId, StmtId: stmtIds[i]}
			if err := p.tr.AddNode(cellId, end); err != nil {
				return 0, err
			}
			if err := p.tr.ReplaceChildren(cellId, end.ChildIds()); err != nil {
				return 0, err
			}
		} else {
			item := relation.Item{Id: cellId, StmtId: stmtIds[i], NextStmtId: next}
			if err := p.tr.AddNode(cellId, item); err != nil {
				return 0, err
			}
			if err := p.tr.ReplaceChildren(cellId, item.ChildIds()); err != nil {
				return 0, err
			}
		}
		next = cellId
	}

	compoundId := p.allocId()
	compound := relation.Compound{Id: compoundId, StartId: next, At: pos}
	if err := p.tr.AddNode(compoundId, compound); err != nil {
		return 0, err
	}
	if err := p.tr.ReplaceChildren(compoundId, compound.ChildIds()); err != nil {
		return 0, err
	}
	return compoundId, nil
}

// parseStmtOrBlock parses either a brace-delimited block or a single
// statement, for use as the body of if/else/while.
func (p *parser) parseStmtOrBlock() (relation.Id, error) {
	if p.cur.kind == tokLBrace {
		return p.parseCompound()
	}
	return p.parseStmt()
}

func (p *parser) parseStmt() (relation.Id, error) {
	switch p.cur.kind {
	case tokKwInt, tokKwFloat, tokKwChar, tokKwVoid:
		return p.parseDecl()
	case tokKwReturn:
		return p.parseReturn()
	case tokKwIf:
		return p.parseIf()
	case tokKwWhile:
		return p.parseWhile()
	default:
		return 0, errors.ParseErrorf(p.cur.pos, "expected a statement, found %s", p.cur.kind)
	}
}

func (p *parser) parseDecl() (relation.Id, error) {
	typeId, err := p.parseType()
	if err != nil {
		return 0, err
	}
	nameTok, err := p.expect(tokIdent)
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(tokAssign); err != nil {
		return 0, err
	}
	exprId, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(tokSemi); err != nil {
		return 0, err
	}
	id := p.allocId()
	assign := relation.Assign{Id: id, VarName: nameTok.lit, TypeId: typeId, ExprId: exprId, At: nameTok.pos}
	if err := p.tr.AddNode(id, assign); err != nil {
		return 0, err
	}
	if err := p.tr.ReplaceChildren(id, assign.ChildIds()); err != nil {
		return 0, err
	}
	return id, nil
}

func (p *parser) parseReturn() (relation.Id, error) {
	pos := p.cur.pos
	if err := p.advance(); err != nil {
		return 0, err
	}
	exprId, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(tokSemi); err != nil {
		return 0, err
	}
	id := p.allocId()
	ret := relation.Return{Id: id, ExprId: exprId, At: pos}
	if err := p.tr.AddNode(id, ret); err != nil {
		return 0, err
	}
	if err := p.tr.ReplaceChildren(id, ret.ChildIds()); err != nil {
		return 0, err
	}
	return id, nil
}

func (p *parser) parseIf() (relation.Id, error) {
	pos := p.cur.pos
	if err := p.advance(); err != nil {
		return 0, err
	}
	if _, err := p.expect(tokLParen); err != nil {
		return 0, err
	}
	condId, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return 0, err
	}
	thenId, err := p.parseStmtOrBlock()
	if err != nil {
		return 0, err
	}
	if p.cur.kind != tokKwElse {
		id := p.allocId()
		iff := relation.If{Id: id, CondId: condId, ThenId: thenId, At: pos}
		if err := p.tr.AddNode(id, iff); err != nil {
			return 0, err
		}
		if err := p.tr.ReplaceChildren(id, iff.ChildIds()); err != nil {
			return 0, err
		}
		return id, nil
	}
	if err := p.advance(); err != nil {
		return 0, err
	}
	elseId, err := p.parseStmtOrBlock()
	if err != nil {
		return 0, err
	}
	id := p.allocId()
	ifElse := relation.IfElse{Id: id, CondId: condId, ThenId: thenId, ElseId: elseId, At: pos}
	if err := p.tr.AddNode(id, ifElse); err != nil {
		return 0, err
	}
	if err := p.tr.ReplaceChildren(id, ifElse.ChildIds()); err != nil {
		return 0, err
	}
	return id, nil
}

func (p *parser) parseWhile() (relation.Id, error) {
	pos := p.cur.pos
	if err := p.advance(); err != nil {
		return 0, err
	}
	if _, err := p.expect(tokLParen); err != nil {
		return 0, err
	}
	condId, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return 0, err
	}
	bodyId, err := p.parseStmtOrBlock()
	if err != nil {
		return 0, err
	}
	id := p.allocId()
	w := relation.While{Id: id, CondId: condId, BodyId: bodyId, At: pos}
	if err := p.tr.AddNode(id, w); err != nil {
		return 0, err
	}
	if err := p.tr.ReplaceChildren(id, w.ChildIds()); err != nil {
		return 0, err
	}
	return id, nil
}

// binaryLevel returns the precedence level of k (higher binds tighter), or
// -1 if k is not a binary operator.
func binaryLevel(k tokKind) int {
	switch k {
	case tokOrOr:
		return 0
	case tokAndAnd:
		return 1
	case tokEqEq:
		return 2
	case tokGt, tokGe, tokLt, tokLe:
		return 3
	case tokPlus, tokMinus:
		return 4
	case tokStar, tokSlash:
		return 5
	default:
		return -1
	}
}

func (p *parser) parseExpr() (relation.Id, error) {
	return p.parseBinary(0)
}

func (p *parser) parseBinary(minLevel int) (relation.Id, error) {
	lhs, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}
	for {
		level := binaryLevel(p.cur.kind)
		if level < minLevel {
			return lhs, nil
		}
		pos := p.cur.pos
		if err := p.advance(); err != nil {
			return 0, err
		}
		rhs, err := p.parseBinary(level + 1)
		if err != nil {
			return 0, err
		}
		id := p.allocId()
		op := relation.BinaryOp{Id: id, Arg1Id: lhs, Arg2Id: rhs, At: pos}
		if err := p.tr.AddNode(id, op); err != nil {
			return 0, err
		}
		if err := p.tr.ReplaceChildren(id, op.ChildIds()); err != nil {
			return 0, err
		}
		lhs = id
	}
}

func (p *parser) parsePrimary() (relation.Id, error) {
	pos := p.cur.pos
	switch p.cur.kind {
	case tokIntLit:
		id := p.allocId()
		if err := p.advance(); err != nil {
			return 0, err
		}
		return id, p.tr.AddNode(id, relation.Int{Id: id, At: pos})

	case tokFloatLit:
		id := p.allocId()
		if err := p.advance(); err != nil {
			return 0, err
		}
		return id, p.tr.AddNode(id, relation.Float{Id: id, At: pos})

	case tokCharLit:
		id := p.allocId()
		if err := p.advance(); err != nil {
			return 0, err
		}
		return id, p.tr.AddNode(id, relation.Char{Id: id, At: pos})

	case tokLParen:
		if err := p.advance(); err != nil {
			return 0, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		_, err = p.expect(tokRParen)
		return inner, err

	case tokIdent:
		name := p.cur.lit
		if err := p.advance(); err != nil {
			return 0, err
		}
		if p.cur.kind != tokLParen {
			id := p.allocId()
			return id, p.tr.AddNode(id, relation.Var{Id: id, VarName: name, At: pos})
		}
		if err := p.advance(); err != nil {
			return 0, err
		}
		var argIds []relation.Id
		for p.cur.kind != tokRParen {
			if len(argIds) > 0 {
				if _, err := p.expect(tokComma); err != nil {
					return 0, err
				}
			}
			argId, err := p.parseExpr()
			if err != nil {
				return 0, err
			}
			argIds = append(argIds, argId)
		}
		if _, err := p.expect(tokRParen); err != nil {
			return 0, err
		}
		id := p.allocId()
		call := relation.FunCall{Id: id, FunName: name, ArgIds: argIds, At: pos}
		if err := p.tr.AddNode(id, call); err != nil {
			return 0, err
		}
		if len(call.ArgIds) > 0 {
			if err := p.tr.ReplaceChildren(id, call.ChildIds()); err != nil {
				return 0, err
			}
		}
		return id, nil

	default:
		return 0, errors.ParseErrorf(pos, "expected an expression, found %s", p.cur.kind)
	}
}
