package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(newConfigSetupCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSampleCmd())
	return cmd
}

func newConfigSetupCmd() *cobra.Command {
	var savePassword bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Interactively write the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, mgr, err := loadConfig()
			if err != nil {
				return err
			}

			in := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			cfg.ODK.BaseURL = prompt(in, out, "ODK Central URL", cfg.ODK.BaseURL)
			cfg.ODK.Email = prompt(in, out, "Email", cfg.ODK.Email)
			cfg.ODK.Password = prompt(in, out, "Password", "")
			cfg.ODK.ProjectID = prompt(in, out, "Default project ID", cfg.ODK.ProjectID)
			cfg.ODK.FormID = prompt(in, out, "Default form ID", cfg.ODK.FormID)

			if err := mgr.Save(cfg, savePassword); err != nil {
				return err
			}
			fmt.Fprintf(out, "Configuration written to %s\n", mgr.Path())
			if !savePassword {
				fmt.Fprintln(out, "Password not stored; set MEGA2_PASSWORD or pass --password at runtime")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&savePassword, "save-password", false, "Store the password in the file (discouraged)")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with the password masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, mgr, err := loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config file: %s\n", mgr.Path())
			fmt.Fprintf(out, "  odk.base_url:   %s\n", cfg.ODK.BaseURL)
			fmt.Fprintf(out, "  odk.email:      %s\n", cfg.ODK.Email)
			fmt.Fprintf(out, "  odk.password:   %s\n", maskSecret(cfg.ODK.Password))
			fmt.Fprintf(out, "  odk.project_id: %s\n", cfg.ODK.ProjectID)
			fmt.Fprintf(out, "  odk.form_id:    %s\n", cfg.ODK.FormID)
			fmt.Fprintf(out, "  report.title:   %s\n", cfg.Report.Title)
			fmt.Fprintf(out, "  report.max_table_rows: %d\n", cfg.Report.MaxTableRows)
			return nil
		},
	}
}

func newConfigSampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Write an annotated sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, mgr, err := loadConfig()
			if err != nil {
				return err
			}
			path, err := mgr.WriteSample()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sample configuration written to %s\n", path)
			return nil
		},
	}
}

// prompt reads one line, keeping the current value on empty input.
func prompt(in *bufio.Reader, out io.Writer, label, current string) string {
	if current != "" {
		fmt.Fprintf(out, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(out, "%s: ", label)
	}
	line, _ := in.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return current
	}
	return line
}

func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	return "********"
}
