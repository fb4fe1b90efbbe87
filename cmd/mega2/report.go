package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/frnkmapendo/mega2-sub000/internal/export"
	"github.com/frnkmapendo/mega2-sub000/internal/report"
	"github.com/frnkmapendo/mega2-sub000/odk"
)

func newReportCmd() *cobra.Command {
	var title string
	var maxRows int

	cmd := &cobra.Command{
		Use:   "report <input.csv|input.json> [output.pdf]",
		Short: "Generate a PDF summary report from a downloaded data file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}

			input := args[0]
			output := strings.TrimSuffix(input, filepath.Ext(input)) + ".pdf"
			if len(args) == 2 {
				output = args[1]
			}

			table, err := readDataFile(input)
			if err != nil {
				return err
			}

			opts := report.Options{Title: cfg.Report.Title, MaxTableRows: cfg.Report.MaxTableRows}
			if title != "" {
				opts.Title = title
			}
			if maxRows > 0 {
				opts.MaxTableRows = maxRows
			}

			if err := report.Generate(table, output, opts); err != nil {
				return err
			}
			log.Debug().Str("input", input).Str("output", output).Msg("report generated")
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Report title (overrides the configured default)")
	cmd.Flags().IntVar(&maxRows, "max-rows", 0, "Maximum preview rows in the data table")

	return cmd
}

// readDataFile loads a previously downloaded file, dispatching on extension.
func readDataFile(path string) (*odk.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return export.ReadCSV(path)
	case ".json":
		return export.ReadJSON(path)
	default:
		return nil, fmt.Errorf("unsupported input file %s: expected .csv or .json", path)
	}
}
