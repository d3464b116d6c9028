package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/backdesk/internal/workspace"
)

type dashboardResource struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	State   string `json:"state"`
	Message string `json:"message,omitempty"`
	Stale   bool   `json:"stale,omitempty"`
}

type dashboardOutput struct {
	Currency         string              `json:"currency"`
	Resources        []dashboardResource `json:"resources"`
	InventoryValue   float64             `json:"inventory_value"`
	LowStock         int                 `json:"low_stock"`
	QuotesTotal      float64             `json:"quotes_total"`
	InvoicesTotal    float64             `json:"invoices_total"`
	InvoicesOpen     float64             `json:"invoices_open"`
	PurchasesTotal   float64             `json:"purchases_total"`
	InvoicesByStatus map[string]int      `json:"invoices_by_status"`
	QuotesByStatus   map[string]int      `json:"quotes_by_status"`
}

func (a *app) newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Refresh every resource and print counts and totals",
		Args:  cobra.NoArgs,
		RunE: a.withRuntime(func(ctx context.Context, cmd *cobra.Command, args []string, rt *runtime) error {
			rt.ws.Restore(ctx)
			if _, err := rt.ws.RefreshAll(ctx); err != nil {
				return sysError(err)
			}
			sum := rt.ws.Summary()

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return writeJSON(out, newDashboardOutput(rt.cfg.Currency, sum))
			}

			f := formatter{currency: rt.cfg.Currency, locale: rt.cfg.Locale}
			tw := newTabWriter(out)
			fmt.Fprintln(tw, "RESOURCE\tRECORDS\tSTATUS")
			for _, r := range sum.Resources {
				status := r.Status.String()
				if r.Stale {
					status += " (cached)"
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\n", r.Name, r.Count, status)
			}
			fmt.Fprintln(tw)
			fmt.Fprintf(tw, "inventory value\t%s\n", f.money(sum.InventoryValue))
			fmt.Fprintf(tw, "low stock products\t%d\n", sum.LowStock)
			fmt.Fprintf(tw, "quotes\t%s\n", f.money(sum.QuotesTotal))
			fmt.Fprintf(tw, "invoiced\t%s\n", f.money(sum.InvoicesTotal))
			fmt.Fprintf(tw, "outstanding\t%s\n", f.money(sum.InvoicesOpen))
			fmt.Fprintf(tw, "purchases\t%s\n", f.money(sum.PurchasesTotal))
			if err := tw.Flush(); err != nil {
				return sysError(err)
			}
			return nil
		}),
	}
}

func newDashboardOutput(currency string, sum workspace.Summary) dashboardOutput {
	out := dashboardOutput{
		Currency:         currency,
		InventoryValue:   sum.InventoryValue,
		LowStock:         sum.LowStock,
		QuotesTotal:      sum.QuotesTotal,
		InvoicesTotal:    sum.InvoicesTotal,
		InvoicesOpen:     sum.InvoicesOpen,
		PurchasesTotal:   sum.PurchasesTotal,
		InvoicesByStatus: sum.InvoicesByStatus,
		QuotesByStatus:   sum.QuotesByStatus,
	}
	for _, r := range sum.Resources {
		out.Resources = append(out.Resources, dashboardResource{
			Name:    r.Name,
			Count:   r.Count,
			State:   r.Status.State,
			Message: r.Status.Message,
			Stale:   r.Stale,
		})
	}
	return out
}
