package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invoice-manager/invoice-manager/internal/seed"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var ownerID string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo data set for an owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			owner, err := parseOwner(ownerID)
			if err != nil {
				return err
			}
			pool, err := opts.pool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			seeded, err := seed.Run(cmd.Context(), pool, owner)
			if err != nil {
				return err
			}
			if !seeded {
				fmt.Fprintf(cmd.OutOrStdout(), "owner %s already has data, nothing seeded\n", owner)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded demo data for owner %s\n", owner)
			return nil
		},
	}
	ownerFlag(cmd, &ownerID)
	return cmd
}
