package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert the account store schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbURL, err := opts.resolveDBURL()
			if err != nil {
				return err
			}
			if err := opts.migrateUp(dbURL); err != nil {
				return err
			}
			return NewOutput(cmd.OutOrStdout(), opts.output).Print(migrateResult{Direction: "up"})
		},
	})

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Revert the last applied migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps <= 0 {
				return errors.New("--steps must be positive")
			}
			dbURL, err := opts.resolveDBURL()
			if err != nil {
				return err
			}
			if err := opts.migrateDown(dbURL, steps); err != nil {
				return err
			}
			return NewOutput(cmd.OutOrStdout(), opts.output).Print(migrateResult{Direction: "down", Steps: steps})
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to revert")
	cmd.AddCommand(downCmd)

	return cmd
}
