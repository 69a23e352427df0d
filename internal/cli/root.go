// Package cli implements doccheckctl, the operator command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "doccheckctl",
		Short:         "Operate the DocCheck marketplace",
		Long:          "doccheckctl applies database migrations and prices proofreading jobs from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newQuoteCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
	}
	return err
}
