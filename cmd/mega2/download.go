package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/frnkmapendo/mega2-sub000/internal/config"
	"github.com/frnkmapendo/mega2-sub000/internal/export"
	"github.com/frnkmapendo/mega2-sub000/odk"
)

const downloadRetries = 2

func newDownloadCmd() *cobra.Command {
	var url, email, password, projectID, formID, output, format string
	var forceRefresh bool

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download form submissions to a CSV, Excel or JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			overrideODK(&cfg.ODK, url, email, password, projectID, formID)

			c, err := connect(cmd.Context(), cfg.ODK)
			if err != nil {
				return err
			}

			pid, fid, err := resolveTarget(cmd, c, cfg.ODK)
			if err != nil {
				return err
			}

			log.Debug().
				Str("project_id", pid).
				Str("form_id", fid).
				Str("format", format).
				Bool("force_refresh", forceRefresh).
				Msg("downloading submissions")

			start := time.Now()
			table, err := fetchWithRetry(cmd.Context(), c, pid, fid, forceRefresh)
			if err != nil {
				return err
			}
			if table.Empty() {
				return fmt.Errorf("form %s in project %s returned no submissions", fid, pid)
			}

			if output == "" {
				output = fmt.Sprintf("odk_data_%s_%s%s", pid, fid, formatExtension(format))
			}
			if err := export.Write(table, output, format); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d submissions (%d columns) to %s\n",
				len(table.Rows), len(table.Columns), output)
			log.Debug().Dur("elapsed", time.Since(start)).Str("output", output).Msg("download completed")
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "ODK Central base URL")
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().StringVar(&projectID, "project-id", "", "Project ID")
	cmd.Flags().StringVar(&formID, "form-id", "", "Form ID")
	cmd.Flags().StringVar(&output, "output", "", "Output file (default odk_data_<project>_<form>.<ext>)")
	cmd.Flags().StringVar(&format, "format", export.FormatCSV, "Output format: csv, excel or json")
	cmd.Flags().BoolVar(&forceRefresh, "force-refresh", false, "Bypass the submissions cache")

	return cmd
}

// overrideODK applies non-empty flag values on top of the file settings.
func overrideODK(o *config.ODK, url, email, password, projectID, formID string) {
	if url != "" {
		o.BaseURL = url
	}
	if email != "" {
		o.Email = email
	}
	if password != "" {
		o.Password = password
	}
	if projectID != "" {
		o.ProjectID = projectID
	}
	if formID != "" {
		o.FormID = formID
	}
}

// resolveTarget returns the project and form to download. When either ID is
// missing it prints what the server offers so the user can pick one.
func resolveTarget(cmd *cobra.Command, c *odk.Client, o config.ODK) (string, string, error) {
	if o.ProjectID == "" {
		printProjects(cmd, c.FetchProjects(cmd.Context()))
		return "", "", fmt.Errorf("no project selected; pass --project-id")
	}
	if o.FormID == "" {
		printForms(cmd, c.FetchForms(cmd.Context(), o.ProjectID))
		return "", "", fmt.Errorf("no form selected; pass --form-id")
	}
	return o.ProjectID, o.FormID, nil
}

// fetchWithRetry retries timeout and connection failures with exponential
// backoff. Server-side failures surface immediately.
func fetchWithRetry(ctx context.Context, c *odk.Client, projectID, formID string, forceRefresh bool) (*odk.Table, error) {
	var table *odk.Table
	attempt := 0

	op := func() error {
		attempt++
		table = c.FetchSubmissions(ctx, projectID, formID, forceRefresh)
		if !table.IsError() {
			return nil
		}
		err := errors.New(table.ErrorMessage())
		if !table.TransientError() {
			return backoff.Permanent(err)
		}
		log.Warn().Int("attempt", attempt).Str("reason", table.ErrorMessage()).Msg("retrying download")
		return err
	}

	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), downloadRetries)
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return nil, fmt.Errorf("download failed after %d attempt(s): %w", attempt, err)
	}
	return table, nil
}

func formatExtension(format string) string {
	switch format {
	case export.FormatExcel, "xlsx":
		return ".xlsx"
	case export.FormatJSON:
		return ".json"
	default:
		return ".csv"
	}
}
