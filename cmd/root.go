// Package cmd implements the command line interface of the interpreter.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aripiprazole/soft/lisp"
	"github.com/aripiprazole/soft/repl"
)

// rootCmd represents the base command when called without any subcommands.
// Source paths given directly to the binary are evaluated in order, the
// same as the run subcommand.
var rootCmd = &cobra.Command{
	Use:   "soft [files...]",
	Short: "An interpreter for the soft language",
	Long: `soft is a tree-walking interpreter for a small homoiconic lisp
dialect with runtime macro expansion and a C foreign function bridge.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Help()
			return
		}
		runFiles(args)
	},
}

// runFiles evaluates each file in a shared root environment in
// command-line order, exiting non-zero on an uncaught runtime error.
func runFiles(paths []string) {
	env, err := repl.NewEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for _, path := range paths {
		ret := env.LoadFile(path)
		if ret.Type == lisp.LError {
			fmt.Fprintln(os.Stderr, lisp.GoError(ret))
			if ret.Stack != nil && ret.Stack.Height() > 0 {
				ret.Stack.DebugPrint(os.Stderr)
			}
			os.Exit(1)
		}
	}
}

// Execute adds all child commands to the root command and sets flags
// appropriately.  This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
