package deltaengine

import (
	"ctclang.dev/go/ctc/errors"
	"ctclang.dev/go/ctc/relation"
	"ctclang.dev/go/ctc/tree"
	"ctclang.dev/go/internal/idset"
)

// Engine holds the fact store across pipeline iterations. Callers drive it
// with Step once per iteration, after the differ has produced the
// iteration's insert/delete sets and the identity-preserving updated tree.
type Engine struct {
	f *facts
}

// New returns an Engine with an empty fact store, as if run against an
// empty program.
func New() *Engine {
	return &Engine{f: newFacts()}
}

// Step re-derives every fact whose owning function was touched by inserts
// or deletes (including functions added or removed outright), plus, when
// the delta is non-empty, the facts of every function that contains a call;
// it then recomputes OkProgram over every function currently in tr. It
// returns the fresh OkProgram verdict.
func (e *Engine) Step(tr *tree.Tree, inserts, deletes *relation.Set) (bool, error) {
	touchedIds := touchedSet(inserts, deletes)

	rootRel, err := tr.GetRelation(tr.RootId())
	if err != nil {
		return false, err
	}
	unit, ok := rootRel.(relation.TransUnit)
	if !ok {
		return false, errors.InvariantViolationf(rootRel.Pos(), "delta engine: root %d is not a TransUnit", tr.RootId())
	}
	liveFuns := make(map[relation.Id]bool, len(unit.BodyIds))
	for _, funId := range unit.BodyIds {
		liveFuns[funId] = true
	}

	// Drop facts for functions no longer present at all.
	for funId := range e.f.funOk {
		if !liveFuns[funId] {
			e.f.dropFunction(funId, subtreeIds(tr, funId))
		}
	}

	for _, funId := range unit.BodyIds {
		ids, err := subtreeIdsErr(tr, funId)
		if err != nil {
			return false, err
		}
		touched := touchedIds.Has(int32(funId))
		if !touched {
			for _, id := range ids {
				if touchedIds.Has(int32(id)) {
					touched = true
					break
				}
			}
		}
		// A call's type depends on the callee's signature, which may have
		// changed elsewhere, so any non-empty delta re-derives every caller.
		if !touched && touchedIds.Len() > 0 {
			for _, id := range ids {
				if rel, err := tr.GetRelation(id); err == nil && rel.Kind() == relation.KindFunCall {
					touched = true
					break
				}
			}
		}
		if !touched {
			if _, known := e.f.funOk[funId]; known {
				continue
			}
		}
		if err := e.recomputeFunction(tr, funId); err != nil {
			return false, err
		}
	}

	ok = true
	for _, funId := range unit.BodyIds {
		if !e.f.funOk[funId] {
			ok = false
			break
		}
	}
	e.f.okProgram = ok
	return ok, nil
}

// OkProgram returns the most recent program-wide verdict.
func (e *Engine) OkProgram() bool { return e.f.okProgram }

// TypeOf returns the derived type of an expression-position relation.
func (e *Engine) TypeOf(id relation.Id) (relation.Kind, bool) {
	k, ok := e.f.typeOf[id]
	return k, ok
}

// FunOk returns whether funId's body type-checks.
func (e *Engine) FunOk(id relation.Id) (bool, bool) {
	v, ok := e.f.funOk[id]
	return v, ok
}

func touchedSet(sets ...*relation.Set) *idset.Set {
	n := 0
	for _, s := range sets {
		n += s.Len()
	}
	out := idset.New(n)
	for _, s := range sets {
		for _, r := range s.Slice() {
			out.Add(int32(r.ID()))
		}
	}
	return out
}

func subtreeIds(tr *tree.Tree, id relation.Id) []relation.Id {
	ids, _ := subtreeIdsErr(tr, id)
	return ids
}

func subtreeIdsErr(tr *tree.Tree, id relation.Id) ([]relation.Id, error) {
	var out []relation.Id
	var walk func(relation.Id) error
	walk = func(id relation.Id) error {
		out = append(out, id)
		children, err := tr.GetChildren(id)
		if err != nil {
			return err
		}
		for _, c := range children {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(id); err != nil {
		return nil, err
	}
	return out, nil
}
