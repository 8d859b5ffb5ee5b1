package envflag_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"ctclang.dev/go/internal/envflag"
)

type testConfig struct {
	Trace    bool   `envflag:"trace"`
	Strict   bool   `envflag:"strict"`
	DumpTree bool   `envflag:"dumptree"`
	Label    string `envflag:"label"`
}

func TestParseSetsBareBoolAndKeyValue(t *testing.T) {
	var c testConfig
	qt.Assert(t, qt.IsNil(envflag.Parse("trace,label=x", &c)))
	qt.Assert(t, qt.IsTrue(c.Trace))
	qt.Assert(t, qt.IsFalse(c.Strict))
	qt.Assert(t, qt.Equals(c.Label, "x"))
}

func TestParseRejectsUnknownKey(t *testing.T) {
	var c testConfig
	err := envflag.Parse("nonsense=1", &c)
	qt.Assert(t, qt.IsNotNil(err))
}

func TestParseEmptyStringIsNoop(t *testing.T) {
	var c testConfig
	qt.Assert(t, qt.IsNil(envflag.Parse("", &c)))
	qt.Assert(t, qt.IsFalse(c.Trace))
}
