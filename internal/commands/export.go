package commands

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"salesboard/internal/analytics"
	"salesboard/internal/exporter"
)

func newExportCommand() *cobra.Command {
	flags := &filterFlags{}
	var output string
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export filtered sales records to an Excel or CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "xlsx" && format != "csv" {
				return fmt.Errorf("unsupported format %q: use xlsx or csv", format)
			}

			filter, err := flags.build()
			if err != nil {
				return err
			}

			sales, err := flags.loadSales(cmd)
			if err != nil {
				return err
			}

			records := analytics.FilterRecords(sales, filter)

			if output == "" {
				output = exporter.ExportFilename(format)
			}
			if err := ensureExt(output, format); err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			switch format {
			case "xlsx":
				err = exporter.NewExcelWriter(logger).WriteFile(output, records)
			case "csv":
				err = exporter.NewCSVWriter(logger).WriteFile(output, records)
			}
			if err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "exported %d records to %s\n", len(records), output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default Sales_Export_YYYYMMDD.<format>)")
	cmd.Flags().StringVar(&format, "format", "xlsx", "export format: xlsx or csv")

	return cmd
}

func ensureExt(path, format string) error {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if !strings.EqualFold(ext, format) {
		return fmt.Errorf("output file %s does not match format %s", path, format)
	}
	return nil
}
