package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/invoice-manager/invoice-manager/internal/invoices"
)

type numberSource interface {
	NumbersWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

func newNextNumberCmd(opts *rootOptions) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "next-number",
		Short: "Print the next free invoice number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := opts.pool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()
			return printNextNumber(cmd.Context(), cmd.OutOrStdout(), invoices.NewRepository(pool), year, time.Now())
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "calendar year (defaults to the current year)")
	return cmd
}

func printNextNumber(ctx context.Context, w io.Writer, src numberSource, year int, now time.Time) error {
	at := now
	if year > 0 {
		at = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	existing, err := src.NumbersWithPrefix(ctx, invoices.NumberPrefix(at.Year()))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, invoices.NextNumber(at, existing))
	return err
}
