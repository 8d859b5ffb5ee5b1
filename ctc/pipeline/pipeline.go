// Package pipeline drives one parse-diff-typecheck iteration at a time: it
// owns the last successfully committed tree and delta-engine fact store,
// and only replaces them once an iteration's parse and diff both succeed —
// a parse error or unsupported construct aborts just that iteration, an
// invariant violation is fatal and the caller should stop driving the
// pipeline.
package pipeline

import (
	"ctclang.dev/go/ctc/deltaengine"
	"ctclang.dev/go/ctc/differ"
	"ctclang.dev/go/ctc/errors"
	"ctclang.dev/go/ctc/cparser"
	"ctclang.dev/go/ctc/relation"
	"ctclang.dev/go/ctc/tree"
)

// Pipeline holds the private working state a sequence of Step calls
// reconciles against: the last committed tree, if any, and the delta
// engine's accumulated fact store.
type Pipeline struct {
	tr     *tree.Tree
	engine *deltaengine.Engine
}

// New returns a Pipeline with no committed tree, as if starting from an
// empty program.
func New() *Pipeline {
	return &Pipeline{engine: deltaengine.New()}
}

// Tree returns the last successfully committed tree, or nil before the
// first successful Step.
func (p *Pipeline) Tree() *tree.Tree { return p.tr }

// Engine returns the pipeline's delta engine, for inspecting individual
// facts (TypeOf, FunOk) after a Step.
func (p *Pipeline) Engine() *deltaengine.Engine { return p.engine }

// Step parses src as the program's latest version and reconciles it
// against the last committed tree. It returns the fresh OkProgram verdict.
//
// A parse error (errors.ErrParse) or an unsupported construct
// (errors.ErrUnsupported) aborts only this iteration: Step returns
// (false, err) and the pipeline's committed state is untouched, so the
// caller can fix the input and retry. Other errors come from the differ or
// from the invariant check; errors.IsFatal reports the invariant
// violations, on which callers should stop driving the pipeline rather than
// retry.
func (p *Pipeline) Step(filename string, src []byte) (bool, error) {
	newTree, err := cparser.Parse(filename, src)
	if err != nil {
		return false, err
	}

	if p.tr == nil {
		if err := newTree.CheckInvariants(); err != nil {
			return false, errors.Wrapf(err, "pipeline: initial parse produced an invalid tree")
		}
		ok, err := p.engine.Step(newTree, tree.InitialRelationSet(newTree), relation.NewSet())
		if err != nil {
			return false, err
		}
		p.tr = newTree
		return ok, nil
	}

	insert, delete_, updated, err := differ.Diff(p.tr, newTree)
	if err != nil {
		return false, err
	}
	if err := updated.CheckInvariants(); err != nil {
		return false, errors.Wrapf(err, "pipeline: updated tree violates invariants after diff")
	}

	ok, err := p.engine.Step(updated, insert, delete_)
	if err != nil {
		return false, err
	}
	p.tr = updated
	return ok, nil
}
