package idset_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"ctclang.dev/go/internal/idset"
)

func TestAddHasClear(t *testing.T) {
	s := idset.New(0)
	qt.Assert(t, qt.IsTrue(s.Add(3)))
	qt.Assert(t, qt.IsFalse(s.Add(3)))
	qt.Assert(t, qt.IsTrue(s.Has(3)))
	qt.Assert(t, qt.IsFalse(s.Has(4)))
	qt.Assert(t, qt.Equals(s.Len(), 1))

	s.Clear()
	qt.Assert(t, qt.IsFalse(s.Has(3)))
	qt.Assert(t, qt.Equals(s.Len(), 0))
}

func TestGrowsBeyondInitialCapacity(t *testing.T) {
	s := idset.New(4)
	for i := int32(0); i < 500; i++ {
		s.Add(i)
	}
	qt.Assert(t, qt.Equals(s.Len(), 500))
	for i := int32(0); i < 500; i++ {
		qt.Assert(t, qt.IsTrue(s.Has(i)))
	}
}
