package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/doccheck/marketplace/internal/migrations"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.PersistentFlags().StringVarP(&databaseURL, "database", "d", os.Getenv("DATABASE_URI"), "database connection string")

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return errors.New("database connection string is required")
			}
			if err := migrations.Up(databaseURL); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("migrations applied"))
			return nil
		},
	}

	down := &cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations, one step by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("steps must be a positive number, got %q", args[0])
				}
				steps = n
			}
			if databaseURL == "" {
				return errors.New("database connection string is required")
			}
			if err := migrations.Down(databaseURL, steps); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("rolled back %d migration(s)", steps)))
			return nil
		},
	}

	cmd.AddCommand(up, down)
	return cmd
}
