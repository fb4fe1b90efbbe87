package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/frnkmapendo/mega2-sub000/internal/export"
	"github.com/frnkmapendo/mega2-sub000/timesheet"
)

func newTimesheetCmd() *cobra.Command {
	var projects []string
	var year, month int
	var output, format string
	var randomizeSmall bool

	cmd := &cobra.Command{
		Use:   "timesheet",
		Short: "Build a monthly timesheet from percentage allocations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if month < 1 || month > 12 {
				return fmt.Errorf("invalid month %d: expected 1-12", month)
			}
			if len(projects) == 0 {
				return fmt.Errorf("at least one --project NAME:PERCENT is required")
			}

			alloc := timesheet.New()
			for _, spec := range projects {
				name, pct, err := parseProjectSpec(spec)
				if err != nil {
					return err
				}
				if !alloc.AddProject(name, pct) {
					return fmt.Errorf("cannot add %q at %.1f%%: allocations are limited to 100%% total (currently %.1f%%)",
						name, pct, alloc.TotalPercentage())
				}
			}

			var data []byte
			var err error
			switch format {
			case export.FormatCSV:
				data, err = alloc.ExportCSV(year, time.Month(month), randomizeSmall)
			case export.FormatExcel, "xlsx":
				data, err = alloc.ExportExcel(year, time.Month(month), randomizeSmall)
			default:
				return fmt.Errorf("unsupported timesheet format: %s", format)
			}
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("timesheet_%d_%02d%s", year, month, formatExtension(format))
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write timesheet: %w", err)
			}

			m := alloc.DailyHours(year, time.Month(month), randomizeSmall)
			log.Debug().
				Int("year", year).
				Int("month", month).
				Int("working_days", len(m.Days)).
				Float64("total_hours", m.GrandTotal()).
				Msg("timesheet generated")
			fmt.Fprintf(cmd.OutOrStdout(), "Timesheet for %d-%02d: %d working days, %.1f hours allocated, written to %s\n",
				year, month, len(m.Days), m.GrandTotal(), output)
			return nil
		},
	}

	now := time.Now()
	cmd.Flags().StringArrayVar(&projects, "project", nil, "Project as NAME:PERCENT, repeatable (e.g. --project 'Survey:40')")
	cmd.Flags().IntVar(&year, "year", now.Year(), "Timesheet year")
	cmd.Flags().IntVar(&month, "month", int(now.Month()), "Timesheet month (1-12)")
	cmd.Flags().StringVar(&output, "output", "", "Output file (default timesheet_<year>_<month>.<ext>)")
	cmd.Flags().StringVar(&format, "format", export.FormatExcel, "Output format: excel or csv")
	cmd.Flags().BoolVar(&randomizeSmall, "randomize-small", false, "Concentrate allocations under 20% on a few days")

	return cmd
}

// parseProjectSpec splits "NAME:PERCENT". The name may itself contain
// colons, so the split happens at the last one.
func parseProjectSpec(spec string) (string, float64, error) {
	i := strings.LastIndex(spec, ":")
	if i <= 0 || i == len(spec)-1 {
		return "", 0, fmt.Errorf("invalid project %q: expected NAME:PERCENT", spec)
	}
	name := strings.TrimSpace(spec[:i])
	pct, err := strconv.ParseFloat(strings.TrimSpace(spec[i+1:]), 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid percentage in %q: %w", spec, err)
	}
	return name, pct, nil
}
