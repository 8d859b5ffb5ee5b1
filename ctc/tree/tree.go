// Package tree implements the arena-backed tree store described in spec §4.1:
// nodes are keyed by a stable relation.Id, parent→child structure is tracked
// separately from (but kept consistent with) each node's relation value, and
// a root pointer plus a running maximum Id round out the store.
package tree

import (
	"fmt"
	"sort"

	"ctclang.dev/go/ctc/errors"
	"ctclang.dev/go/ctc/relation"
	"ctclang.dev/go/ctc/token"
)

// Node is one arena slot: an identity, its relation value, and the ordered
// child list the differ walks. The child list is intentionally a separate
// field from the relation's own ChildIds(), per the design note in spec §9 —
// callers that mutate a relation's Id-valued fields must keep both in sync,
// normally via ReplaceChildren.
type Node struct {
	Id       relation.Id
	Relation relation.Relation
	Children []relation.Id
}

// Tree is the arena described in spec §3: arena, root_id, max_id.
type Tree struct {
	arena  map[relation.Id]*Node
	rootId relation.Id
	maxId  relation.Id
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{arena: make(map[relation.Id]*Node)}
}

// RootId returns the identity of the TransUnit node, or relation.NoId if the
// tree has not been given a root yet.
func (t *Tree) RootId() relation.Id { return t.rootId }

// MaxId returns the tree's running maximum identity (invariant 3).
func (t *Tree) MaxId() relation.Id { return t.maxId }

// NextId returns an identity not yet used in this tree, without reserving
// it; callers allocate by calling AddNode with MaxId()+1 (spec §4.3.2).
func (t *Tree) NextId() relation.Id { return t.maxId + 1 }

// Len reports how many nodes the arena holds.
func (t *Tree) Len() int { return len(t.arena) }

func (t *Tree) bumpMax(id relation.Id) {
	if id > t.maxId {
		t.maxId = id
	}
}

// AddNode inserts a new node with no children yet. It fails if id is already
// present or is the reserved NoId.
func (t *Tree) AddNode(id relation.Id, rel relation.Relation) error {
	if id == relation.NoId {
		return errors.InvariantViolationf(token.NoPos, "cannot add node with reserved Id 0")
	}
	if _, ok := t.arena[id]; ok {
		return errors.InvariantViolationf(token.NoPos, "node with Id %d already present", id)
	}
	t.arena[id] = &Node{Id: id, Relation: rel}
	t.bumpMax(id)
	return nil
}

// AddRootNode is AddNode plus setting the root pointer. rel must be a
// relation.TransUnit (invariant 4); callers are expected to have validated
// this already, but AddRootNode double-checks it.
func (t *Tree) AddRootNode(id relation.Id, rel relation.Relation) error {
	if rel.Kind() != relation.KindTransUnit {
		return errors.InvariantViolationf(token.NoPos, "root node must be TransUnit, got %s", rel.Kind())
	}
	if err := t.AddNode(id, rel); err != nil {
		return err
	}
	t.rootId = id
	return nil
}

// LinkChild appends childId to id's child list. Both nodes must already
// exist.
func (t *Tree) LinkChild(id, childId relation.Id) error {
	n, ok := t.arena[id]
	if !ok {
		return errors.InvariantViolationf(token.NoPos, "no node with Id %d", id)
	}
	if _, ok := t.arena[childId]; !ok {
		return errors.InvariantViolationf(token.NoPos, "no node with Id %d", childId)
	}
	n.Children = append(n.Children, childId)
	return nil
}

// ReplaceChildren atomically replaces id's child list. Every id in
// childIds must already be present in the arena.
func (t *Tree) ReplaceChildren(id relation.Id, childIds []relation.Id) error {
	n, ok := t.arena[id]
	if !ok {
		return errors.InvariantViolationf(token.NoPos, "no node with Id %d", id)
	}
	for _, c := range childIds {
		if _, ok := t.arena[c]; !ok {
			return errors.InvariantViolationf(token.NoPos, "no node with Id %d", c)
		}
	}
	n.Children = append([]relation.Id(nil), childIds...)
	return nil
}

// GetRelation returns the relation stored at id.
func (t *Tree) GetRelation(id relation.Id) (relation.Relation, error) {
	n, ok := t.arena[id]
	if !ok {
		return nil, errors.InvariantViolationf(token.NoPos, "no node with this Id: %d", id)
	}
	return n.Relation, nil
}

// GetChildren returns id's child list.
func (t *Tree) GetChildren(id relation.Id) ([]relation.Id, error) {
	n, ok := t.arena[id]
	if !ok {
		return nil, errors.InvariantViolationf(token.NoPos, "no node with this Id: %d", id)
	}
	return n.Children, nil
}

// UpdateRelation replaces the relation stored at id in place. Per spec
// §4.1, it does not re-derive the child list: callers whose new relation
// has different Id-valued fields than the old one must follow up with
// ReplaceChildren.
func (t *Tree) UpdateRelation(id relation.Id, rel relation.Relation) error {
	n, ok := t.arena[id]
	if !ok {
		return errors.InvariantViolationf(token.NoPos, "no node with this Id: %d", id)
	}
	n.Relation = rel
	return nil
}

// DeleteNode removes id from the arena and re-seats MaxId if id was the
// maximum. It does not touch any parent's child list — per spec §4.1 that is
// the caller's responsibility before deleting a non-root node.
func (t *Tree) DeleteNode(id relation.Id) error {
	if _, ok := t.arena[id]; !ok {
		return errors.InvariantViolationf(token.NoPos, "no node with this Id: %d", id)
	}
	delete(t.arena, id)
	if id == t.maxId {
		var newMax relation.Id
		for k := range t.arena {
			if k > newMax {
				newMax = k
			}
		}
		t.maxId = newMax
	}
	if id == t.rootId {
		t.rootId = relation.NoId
	}
	return nil
}

// Clone returns a deep copy of t. The driver uses this to run a pipeline
// iteration on a private working copy and commit it atomically on success
// (spec §5).
func (t *Tree) Clone() *Tree {
	out := &Tree{
		arena:  make(map[relation.Id]*Node, len(t.arena)),
		rootId: t.rootId,
		maxId:  t.maxId,
	}
	for id, n := range t.arena {
		out.arena[id] = &Node{
			Id:       n.Id,
			Relation: n.Relation,
			Children: append([]relation.Id(nil), n.Children...),
		}
	}
	return out
}

// InitialRelationSet is the initial flattener (spec §4.2): it returns every
// relation currently in the arena. Duplicates are impossible by invariant 1,
// and the result is order-insensitive.
func InitialRelationSet(t *Tree) *relation.Set {
	s := relation.NewSet()
	for _, n := range t.arena {
		s.Add(n.Relation)
	}
	return s
}

// CheckInvariants validates the tree invariants from spec §3. It is used by
// tests and by the pipeline driver on every tree it is about to commit.
func (t *Tree) CheckInvariants() error {
	for id, n := range t.arena {
		if n.Id != id {
			return errors.InvariantViolationf(token.NoPos, "node stored at key %d has Id %d", id, n.Id)
		}
		for _, ref := range n.Relation.ChildIds() {
			if ref == relation.NoId {
				continue
			}
			if _, ok := t.arena[ref]; !ok {
				return errors.InvariantViolationf(token.NoPos, "node %d (%s) references missing Id %d", id, n.Relation.Kind(), ref)
			}
		}
		want := append([]relation.Id(nil), n.Relation.ChildIds()...)
		got := append([]relation.Id(nil), n.Children...)
		sortIds(want)
		sortIds(got)
		if !equalIds(want, got) {
			return errors.InvariantViolationf(token.NoPos, "node %d (%s) child list %v does not match relation fields %v", id, n.Relation.Kind(), got, want)
		}
		t.bumpMax(id) // no-op safety net; does not mutate correctness
	}
	if len(t.arena) > 0 {
		maxSeen := relation.NoId
		for id := range t.arena {
			if id > maxSeen {
				maxSeen = id
			}
		}
		if t.maxId < maxSeen {
			return errors.InvariantViolationf(token.NoPos, "max_id %d is less than largest arena key %d", t.maxId, maxSeen)
		}
	}
	if t.rootId != relation.NoId {
		root, ok := t.arena[t.rootId]
		if !ok {
			return errors.InvariantViolationf(token.NoPos, "root_id %d is not present in arena", t.rootId)
		}
		if root.Relation.Kind() != relation.KindTransUnit {
			return errors.InvariantViolationf(token.NoPos, "root node %d is a %s, not TransUnit", t.rootId, root.Relation.Kind())
		}
	}
	return nil
}

func sortIds(ids []relation.Id) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func equalIds(a, b []relation.Id) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Dump renders the tree root-down, indented by depth, for developer
// debugging (CTC_DEBUG=dumptree). It is the Go analog of the original
// ast.rs pretty_print method, extended to walk the whole tree rather than a
// single relation.
func (t *Tree) Dump() string {
	if t.rootId == relation.NoId {
		return "<empty tree>\n"
	}
	var b stringBuilder
	t.dumpNode(t.rootId, 0, &b, make(map[relation.Id]bool))
	return b.String()
}

type stringBuilder struct {
	parts []string
}

func (b *stringBuilder) writef(format string, args ...interface{}) {
	b.parts = append(b.parts, fmt.Sprintf(format, args...))
}

func (b *stringBuilder) String() string {
	s := ""
	for _, p := range b.parts {
		s += p
	}
	return s
}

func (t *Tree) dumpNode(id relation.Id, depth int, b *stringBuilder, seen map[relation.Id]bool) {
	n, ok := t.arena[id]
	if !ok {
		b.writef("%*s<missing %d>\n", depth*2, "", id)
		return
	}
	if seen[id] {
		b.writef("%*s<cycle %d>\n", depth*2, "", id)
		return
	}
	seen[id] = true
	b.writef("%*s%s\n", depth*2, "", prettyRelation(n.Relation))
	for _, c := range n.Children {
		t.dumpNode(c, depth+1, b, seen)
	}
}
