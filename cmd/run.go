package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aripiprazole/soft/lisp"
	"github.com/aripiprazole/soft/repl"
)

var (
	runExpression bool
	runPrint      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [files...]",
	Short: "Run soft source files",
	Long: `Run evaluates each source file in a shared root environment in
command-line order.  The process exits non-zero on an uncaught runtime
error.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !runExpression && !runPrint {
			runFiles(args)
			return
		}
		env, err := repl.NewEnv()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		for _, arg := range args {
			var ret *lisp.LVal
			if runExpression {
				ret = env.LoadString("command-line", arg)
			} else {
				ret = env.LoadFile(arg)
			}
			if ret.Type == lisp.LError {
				fmt.Fprintln(os.Stderr, lisp.GoError(ret))
				if ret.Stack != nil && ret.Stack.Height() > 0 {
					ret.Stack.DebugPrint(os.Stderr)
				}
				os.Exit(1)
			}
			if runPrint {
				fmt.Println(ret)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as expressions instead of file paths")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print the value of each evaluated argument to stdout")
}
