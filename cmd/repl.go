package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aripiprazole/soft/repl"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Run: func(cmd *cobra.Command, args []string) {
		if err := repl.RunRepl("soft> "); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
