package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/invoice-manager/invoice-manager/internal/platform/db"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

type rootOptions struct {
	dsn string
}

func newRootCmd() *cobra.Command {
	_ = godotenv.Load()
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "invoicectl",
		Short:         "Operator tasks for the invoice manager",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVar(&opts.dsn, "dsn", os.Getenv("PG_DSN"), "PostgreSQL connection string (defaults to $PG_DSN)")

	cmd.AddCommand(
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newNextNumberCmd(opts),
		newDashboardCmd(opts),
		newSubscriptionCmd(opts),
	)
	return cmd
}

func (o *rootOptions) requireDSN() error {
	if o.dsn == "" {
		return fmt.Errorf("--dsn or PG_DSN is required")
	}
	return nil
}

func (o *rootOptions) pool(ctx context.Context) (*pgxpool.Pool, error) {
	if err := o.requireDSN(); err != nil {
		return nil, err
	}
	return db.New(ctx, o.dsn, db.PoolOptions{MaxConns: 4})
}

func ownerFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "owner", "", "owner (user) id")
	_ = cmd.MarkFlagRequired("owner")
}

func parseOwner(id string) (shared.Owner, error) {
	owner, err := shared.NewOwner(id)
	if err != nil {
		return shared.Owner{}, fmt.Errorf("--owner: %w", err)
	}
	return owner, nil
}
