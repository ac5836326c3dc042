// Package commands implements the callcenter CLI, grounded on the
// teacher's cmd/dittofs/commands package: a cobra root command plus
// persistent flags, with the positional argument contract spec.md §6
// requires (`<binary> <host> <port> [reloadIntervalSeconds]`) layered
// on top via cobra.Command.Args rather than flags.
package commands

import (
	"github.com/spf13/cobra"
)

var cfgFile string

// exitCode classifies a command failure the way spec.md §6 requires:
// 1 for argument errors, 2 for listen failures. ExitCodeOf inspects it
// to choose os.Exit's code; errors with no exitCode attached exit 1.
type exitCode struct {
	error
	code int
}

func (e *exitCode) Unwrap() error { return e.error }

func argError(err error) error    { return &exitCode{error: err, code: 1} }
func listenError(err error) error { return &exitCode{error: err, code: 2} }

// ExitCodeOf extracts the process exit code intended for err, defaulting
// to 1 for any error that did not originate from a classified command.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	if ec, ok := err.(*exitCode); ok {
		return ec.code
	}
	return 1
}

var rootCmd = &cobra.Command{
	Use:   "callcenter <host> <port> [reloadIntervalSeconds]",
	Short: "Call-center dispatch engine",
	Long: `callcenter runs the HTTP-fronted call dispatch engine: a deduplicating
admission queue, a pool of operators, and a scheduler that assigns calls
to operators within a configurable response-time window.`,
	Args:          cobra.RangeArgs(2, 3),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to the call-center JSON configuration file")
	rootCmd.AddCommand(validateConfigCmd)
}

// Execute runs the root command. Called once from main.main.
func Execute() error {
	return rootCmd.Execute()
}
