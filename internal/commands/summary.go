package commands

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"salesboard/internal/analytics"
	"salesboard/internal/dataset"
)

// filterFlags are the filter options shared by summary and export
type filterFlags struct {
	file       string
	from       string
	to         string
	regions    []string
	categories []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "file", "data/sales_dashboard.csv", "dataset file (.csv or .xlsx)")
	cmd.Flags().StringVar(&f.from, "from", "", "start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&f.to, "to", "", "end date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringSliceVar(&f.regions, "region", nil, "restrict to regions (repeatable)")
	cmd.Flags().StringSliceVar(&f.categories, "category", nil, "restrict to categories (repeatable)")
}

func (f *filterFlags) build() (analytics.Filter, error) {
	filter := analytics.Filter{
		Regions:    f.regions,
		Categories: f.categories,
	}

	if f.from != "" {
		t, err := time.Parse(dataset.DateFormat, f.from)
		if err != nil {
			return analytics.Filter{}, fmt.Errorf("invalid --from date %q: expected YYYY-MM-DD", f.from)
		}
		filter.From = t
	}
	if f.to != "" {
		t, err := time.Parse(dataset.DateFormat, f.to)
		if err != nil {
			return analytics.Filter{}, fmt.Errorf("invalid --to date %q: expected YYYY-MM-DD", f.to)
		}
		filter.To = t
	}

	return filter, nil
}

// loadSales reads and parses the dataset file with a quiet logger
func (f *filterFlags) loadSales(cmd *cobra.Command) ([]dataset.Sale, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	result, err := dataset.NewLoader(logger).Load(cmd.Context(), f.file)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", f.file, err)
	}

	if result.Skipped > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipped %d unparseable rows\n", result.Skipped)
	}

	return result.Sales, nil
}

func newSummaryCommand() *cobra.Command {
	flags := &filterFlags{}

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print sales KPIs for a dataset file",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := flags.build()
			if err != nil {
				return err
			}

			sales, err := flags.loadSales(cmd)
			if err != nil {
				return err
			}

			summary := analytics.Summarize(sales, filter)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Total Revenue: %s\n", summary.TotalRevenue.StringFixed(2))
			fmt.Fprintf(out, "Orders:        %d\n", summary.OrderCount)
			fmt.Fprintf(out, "Average Sale:  %s\n", summary.AverageSale.StringFixed(2))
			if summary.TopProduct != "" {
				fmt.Fprintf(out, "Top Product:   %s\n", summary.TopProduct)
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Revenue by region:")
			for _, b := range analytics.RevenueByRegion(sales, filter) {
				fmt.Fprintf(out, "  %-20s %s\n", b.Label, b.Revenue.StringFixed(2))
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Revenue by month:")
			for _, p := range analytics.RevenueByMonth(sales, filter) {
				fmt.Fprintf(out, "  %s  %s\n", p.Month, p.Revenue.StringFixed(2))
			}

			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
