package relation_test

import (
	"sort"
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"ctclang.dev/go/ctc/relation"
)

func sortedKeys(s *relation.Set) []string {
	var keys []string
	for _, r := range s.Slice() {
		keys = append(keys, r.Key())
	}
	sort.Strings(keys)
	return keys
}

func TestSetApplyIsUnionThenDifference(t *testing.T) {
	base := relation.NewSet(relation.Int{Id: 1}, relation.Var{Id: 2, VarName: "x"})
	inserts := relation.NewSet(relation.Float{Id: 3})
	deletes := relation.NewSet(relation.Var{Id: 2, VarName: "x"})

	got := base.Apply(inserts, deletes)
	want := relation.NewSet(relation.Int{Id: 1}, relation.Float{Id: 3})

	if diff := cmp.Diff(sortedKeys(want), sortedKeys(got), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("Apply result mismatch (-want +got):\n%s", diff)
	}
}

func TestSetDisjoint(t *testing.T) {
	a := relation.NewSet(relation.Int{Id: 1})
	b := relation.NewSet(relation.Float{Id: 2})
	qt.Assert(t, qt.IsTrue(a.Disjoint(b)))

	c := relation.NewSet(relation.Int{Id: 1})
	qt.Assert(t, qt.IsFalse(a.Disjoint(c)))
}

func TestSetEqualIgnoresInsertionOrder(t *testing.T) {
	a := relation.NewSet(relation.Int{Id: 1}, relation.Float{Id: 2})
	b := relation.NewSet(relation.Float{Id: 2}, relation.Int{Id: 1})
	qt.Assert(t, qt.IsTrue(a.Equal(b)))
}
