package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/invoice-manager/invoice-manager/internal/dashboard"
	"github.com/invoice-manager/invoice-manager/internal/money"
)

func newDashboardCmd(opts *rootOptions) *cobra.Command {
	var ownerID, currency string
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print an owner's dashboard",
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

			d, err := dashboard.NewService(dashboard.NewRepository(pool), nil, nil).Dashboard(cmd.Context(), owner)
			if err != nil {
				return err
			}
			return printDashboard(cmd.OutOrStdout(), d, currency)
		},
	}
	ownerFlag(cmd, &ownerID)
	cmd.Flags().StringVar(&currency, "currency", money.DefaultCurrency, "currency used to format amounts")
	return cmd
}

func printDashboard(out io.Writer, d dashboard.Dashboard, currency string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"As of", d.AsOf.String()},
		{"Invoiced this month", money.Format(d.TotalInvoicedMonth, currency)},
		{"Paid this month", money.Format(d.TotalPaidMonth, currency)},
		{"Outstanding", money.Format(d.TotalOutstanding, currency)},
		{"Invoices this month", fmt.Sprint(d.InvoiceCountMonth)},
		{"Clients", fmt.Sprint(d.TotalClients)},
		{"Revenue YTD", money.Format(d.RevenueYTD, currency)},
		{"Expenses YTD", money.Format(d.ExpensesYTD, currency)},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}

	if len(d.OverdueInvoices) > 0 {
		fmt.Fprintln(w, "\nOverdue\tClient\tTotal\tDays")
		for _, inv := range d.OverdueInvoices {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", inv.Number, inv.ClientName, money.Format(inv.Total, inv.Currency), inv.DaysOverdue)
		}
	}

	fmt.Fprintln(w, "\nMonth\tRevenue\tExpenses")
	for _, p := range d.ChartData {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Month, money.Format(p.Revenue, currency), money.Format(p.Expenses, currency))
	}
	return w.Flush()
}
