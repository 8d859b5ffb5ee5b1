// Package ctcdebug holds the debug/config flags read once from the
// CTC_DEBUG environment variable, the way the teacher's internal/cuedebug
// holds CUE_DEBUG's parsed flags for the rest of the module to consult.
package ctcdebug

import (
	"os"
	"sync"

	"ctclang.dev/go/internal/envflag"
)

// Config holds the flags CTC_DEBUG can set.
type Config struct {
	// Trace makes the CLI log each committed Step's verdict to stderr.
	Trace bool `envflag:"trace"`
	// Strict makes the watch loop exit on an unsupported construct instead
	// of aborting just the offending iteration.
	Strict bool `envflag:"strict"`
	// DumpTree makes the CLI print tree.Tree.Dump() after every committed
	// Step.
	DumpTree bool `envflag:"dumptree"`
}

var (
	once  sync.Once
	flags Config
)

// Flags returns the Config parsed from CTC_DEBUG, reading the environment
// exactly once per process.
func Flags() Config {
	once.Do(func() {
		if err := envflag.Parse(os.Getenv("CTC_DEBUG"), &flags); err != nil {
			panic("ctcdebug: invalid CTC_DEBUG: " + err.Error())
		}
	})
	return flags
}
