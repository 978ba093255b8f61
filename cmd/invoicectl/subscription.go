package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invoice-manager/invoice-manager/internal/billing"
)

func newSubscriptionCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscription",
		Short: "Grant or revoke an owner's subscription",
	}

	var activateOwner, plan, customer string
	activate := &cobra.Command{
		Use:   "activate",
		Short: "Mark an owner's subscription active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			owner, err := parseOwner(activateOwner)
			if err != nil {
				return err
			}
			pool, err := opts.pool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := billing.NewSubscriptions(pool).Activate(cmd.Context(), owner.ID(), plan, customer); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "subscription active for owner %s\n", owner)
			return nil
		},
	}
	ownerFlag(activate, &activateOwner)
	activate.Flags().StringVar(&plan, "plan", "pro", "plan code")
	activate.Flags().StringVar(&customer, "customer", "", "payment provider customer reference")

	var deactivateOwner string
	deactivate := &cobra.Command{
		Use:   "deactivate",
		Short: "Mark an owner's subscription inactive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			owner, err := parseOwner(deactivateOwner)
			if err != nil {
				return err
			}
			pool, err := opts.pool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := billing.NewSubscriptions(pool).Deactivate(cmd.Context(), owner.ID()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "subscription inactive for owner %s\n", owner)
			return nil
		},
	}
	ownerFlag(deactivate, &deactivateOwner)

	cmd.AddCommand(activate, deactivate)
	return cmd
}
