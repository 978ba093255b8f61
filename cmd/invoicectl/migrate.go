package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invoice-manager/invoice-manager/internal/platform/db"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.requireDSN(); err != nil {
				return err
			}
			if err := db.Migrate(opts.dsn); err != nil {
				return err
			}
			return printVersion(cmd, opts.dsn)
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.requireDSN(); err != nil {
				return err
			}
			if err := db.Rollback(opts.dsn, steps); err != nil {
				return err
			}
			return printVersion(cmd, opts.dsn)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	cmd.AddCommand(down)
	return cmd
}

func printVersion(cmd *cobra.Command, dsn string) error {
	version, dirty, err := db.MigrationVersion(dsn)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty=%t)\n", version, dirty)
	return nil
}
