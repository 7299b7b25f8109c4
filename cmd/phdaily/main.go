// Command phdaily bootstraps and runs the Product Hunt daily analysis.
//
// With no subcommand it runs the bootstrap gates: validate, install, prepare,
// test, analyze and advise.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "dev"

type rootFlags struct {
	configPath string
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var rf rootFlags
	cmd := newBootstrapCmd(&rf)
	cmd.Version = version
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cmd.PersistentFlags().StringVarP(&rf.configPath, "config", "c", "", "config file (default $CONFIG_PATH or config.yaml)")
	cmd.PersistentFlags().BoolVarP(&rf.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(
		newAnalyzeCmd(&rf),
		newReportsCmd(&rf),
	)
	return cmd
}
