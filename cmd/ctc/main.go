// Command ctc type-checks a single file of the minimal C subset, either
// once (-s) or continuously as the file is edited, reporting whether the
// program currently type-checks.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
