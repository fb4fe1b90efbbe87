package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frnkmapendo/mega2-sub000/odk"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects and forms on the server",
	}
	cmd.AddCommand(newListProjectsCmd())
	cmd.AddCommand(newListFormsCmd())
	return cmd
}

func newListProjectsCmd() *cobra.Command {
	var url, email, password string

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects the account can access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			overrideODK(&cfg.ODK, url, email, password, "", "")

			c, err := connect(cmd.Context(), cfg.ODK)
			if err != nil {
				return err
			}

			projects := c.FetchProjects(cmd.Context())
			if len(projects) == 0 {
				return fmt.Errorf("no projects returned from %s", cfg.ODK.BaseURL)
			}
			printProjects(cmd, projects)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "ODK Central base URL")
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")

	return cmd
}

func newListFormsCmd() *cobra.Command {
	var url, email, password, projectID string

	cmd := &cobra.Command{
		Use:   "forms",
		Short: "List forms within a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			overrideODK(&cfg.ODK, url, email, password, projectID, "")
			if cfg.ODK.ProjectID == "" {
				return fmt.Errorf("--project-id is required when the config has no default project")
			}

			c, err := connect(cmd.Context(), cfg.ODK)
			if err != nil {
				return err
			}

			forms := c.FetchForms(cmd.Context(), cfg.ODK.ProjectID)
			if len(forms) == 0 {
				return fmt.Errorf("no forms returned for project %s", cfg.ODK.ProjectID)
			}
			printForms(cmd, forms)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "ODK Central base URL")
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().StringVar(&projectID, "project-id", "", "Project ID")

	return cmd
}

func printProjects(cmd *cobra.Command, projects []odk.Project) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Available projects:")
	for _, p := range projects {
		marker := ""
		if p.Archived {
			marker = "\t(archived)"
		}
		fmt.Fprintf(out, "  %d\t%s\t%d form(s)%s\n", p.ID, p.Name, p.Forms, marker)
	}
	fmt.Fprintf(out, "Total: %d\n", len(projects))
}

func printForms(cmd *cobra.Command, forms []odk.Form) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Available forms:")
	for _, f := range forms {
		fmt.Fprintf(out, "  %s\t%s\t%s\n", f.XMLFormID, f.Name, f.State)
	}
	fmt.Fprintf(out, "Total: %d\n", len(forms))
}
