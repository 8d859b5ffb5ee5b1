package main

import (
	"github.com/spf13/cobra"
)

var standalone bool

var rootCmd = &cobra.Command{
	Use:   "ctc <path>",
	Short: "Type-check a minimal C subset program",
	Long: `ctc type-checks a single source file.

By default it watches the file and re-checks incrementally after every
edit, printing a fresh verdict each time. With -s it runs the
non-incremental baseline checker once and exits.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if standalone {
			return runStandalone(path)
		}
		return runWatch(path)
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&standalone, "baseline", "s", false, "run the non-incremental baseline checker once and exit")
}

// Execute runs the command-line program.
func Execute() error {
	return rootCmd.Execute()
}
