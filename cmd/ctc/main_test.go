package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain lets the test binary re-exec itself as the ctc command, the
// standard rogpeppe/go-internal/testscript pattern: `exec ctc ...` lines in
// testdata/script/*.txt run this same binary with os.Args rewritten, rather
// than needing a separately built executable on PATH.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"ctc": run,
	}))
}

func run() int {
	if err := Execute(); err != nil {
		return 1
	}
	return 0
}
