// Package deltaengine derives the type-check verdict from a tree
// incrementally: it holds a fact store (TypeOf, EnvBinding, StmtOk, FunOk,
// OkProgram) and re-derives only the facts whose owning function was
// touched by the latest insert/delete edit, or which contains a call,
// rather than re-walking the whole program on every iteration.
package deltaengine

import "ctclang.dev/go/ctc/relation"

// EnvBinding is the flat, per-function variable environment: every
// parameter and every declaration ("int x = ...;") anywhere in a
// function's body binds in the same single scope, visible throughout the
// function regardless of lexical position. if/while bodies do not open a
// nested scope.
type EnvBinding map[string]relation.Kind

// facts is the engine's persistent derived state, keyed by relation.Id for
// everything except OkProgram, which is a single program-wide bit.
type facts struct {
	typeOf    map[relation.Id]relation.Kind
	env       map[relation.Id]EnvBinding // keyed by FunDef Id
	stmtOk    map[relation.Id]bool
	funOk     map[relation.Id]bool
	okProgram bool
}

func newFacts() *facts {
	return &facts{
		typeOf: make(map[relation.Id]relation.Kind),
		env:    make(map[relation.Id]EnvBinding),
		stmtOk: make(map[relation.Id]bool),
		funOk:  make(map[relation.Id]bool),
	}
}

func (f *facts) dropFunction(funId relation.Id, idsInFun []relation.Id) {
	delete(f.env, funId)
	delete(f.funOk, funId)
	for _, id := range idsInFun {
		delete(f.typeOf, id)
		delete(f.stmtOk, id)
	}
}
