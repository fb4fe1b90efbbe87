package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/frnkmapendo/mega2-sub000/internal/config"
	"github.com/frnkmapendo/mega2-sub000/odk"
)

var configDir string
var debug bool

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "mega2",
		Short:        "Download ODK Central submissions and build reports and timesheets",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
			log.Logger = log.Output(zerolog.ConsoleWriter{
				Out:        os.Stderr,
				TimeFormat: "2006-01-02 15:04:05",
				NoColor:    true,
			})

			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				_ = os.Setenv("MEGA2_DEBUG", "true")
				log.Debug().Msg("debug logging enabled")
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (defaults to the user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	rootCmd.AddCommand(newDownloadCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newTimesheetCmd())

	return rootCmd
}

// loadConfig reads the YAML configuration, creating the config directory
// on first use.
func loadConfig() (*config.Config, *config.Manager, error) {
	mgr, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := mgr.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, mgr, nil
}

// connect builds an authenticated client from the connection settings.
func connect(ctx context.Context, o config.ODK) (*odk.Client, error) {
	if o.BaseURL == "" {
		return nil, fmt.Errorf("ODK Central URL not set; pass --url or run 'mega2 config setup'")
	}
	if o.Email == "" || o.Password == "" {
		return nil, fmt.Errorf("credentials not set; pass --email/--password or run 'mega2 config setup'")
	}

	c := odk.New(o.BaseURL)
	c.SetCredentials(o.Email, o.Password)
	if !c.Authenticate(ctx) {
		return nil, fmt.Errorf("authentication with %s failed; check email and password", o.BaseURL)
	}
	return c, nil
}
