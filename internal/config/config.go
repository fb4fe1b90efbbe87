// Package config manages the CLI's YAML configuration file and its
// environment overrides. The file holds non-secret connection defaults;
// persisting the password is opt-in and discouraged.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	appDirName     = "mega2"
	configFileName = "config.yaml"
	sampleFileName = "config_sample.yaml"
	envPrefix      = "mega2"
)

// ODK holds the connection defaults for one ODK Central server.
type ODK struct {
	BaseURL   string `mapstructure:"base_url"`
	Email     string `mapstructure:"email"`
	Password  string `mapstructure:"password"`
	ProjectID string `mapstructure:"project_id"`
	FormID    string `mapstructure:"form_id"`
}

// Valid reports whether the required connection fields are present.
func (o ODK) Valid() bool {
	return o.BaseURL != "" && o.Email != "" && o.Password != ""
}

// Report holds PDF report defaults.
type Report struct {
	Title        string `mapstructure:"title"`
	MaxTableRows int    `mapstructure:"max_table_rows"`
}

// Config is the full persisted configuration.
type Config struct {
	ODK    ODK    `mapstructure:"odk"`
	Report Report `mapstructure:"report"`
}

// envOverrides are applied on top of the file; MEGA2_PASSWORD in particular
// lets the secret stay out of the file entirely.
type envOverrides struct {
	URL       string `envconfig:"URL"`
	Email     string `envconfig:"EMAIL"`
	Password  string `envconfig:"PASSWORD"`
	ProjectID string `envconfig:"PROJECT_ID"`
	FormID    string `envconfig:"FORM_ID"`
}

// Manager reads and writes configuration under one directory.
type Manager struct {
	dir string
}

// NewManager returns a manager rooted at dir, defaulting to
// <user-config-dir>/mega2. The directory is created if missing.
func NewManager(dir string) (*Manager, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve user config dir: %w", err)
		}
		dir = filepath.Join(base, appDirName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Dir returns the configuration directory.
func (m *Manager) Dir() string { return m.dir }

// Path returns the configuration file path.
func (m *Manager) Path() string { return filepath.Join(m.dir, configFileName) }

// Load reads the YAML file (a missing file yields defaults) and overlays
// MEGA2_* environment variables.
func (m *Manager) Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(m.Path())
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return nil, fmt.Errorf("process env overrides: %w", err)
	}
	if env.URL != "" {
		cfg.ODK.BaseURL = env.URL
	}
	if env.Email != "" {
		cfg.ODK.Email = env.Email
	}
	if env.Password != "" {
		cfg.ODK.Password = env.Password
	}
	if env.ProjectID != "" {
		cfg.ODK.ProjectID = env.ProjectID
	}
	if env.FormID != "" {
		cfg.ODK.FormID = env.FormID
	}
	return cfg, nil
}

// Save writes the configuration back to the YAML file. The password is
// dropped unless savePassword is set.
func (m *Manager) Save(cfg *Config, savePassword bool) error {
	odk := map[string]string{
		"base_url":   cfg.ODK.BaseURL,
		"email":      cfg.ODK.Email,
		"project_id": cfg.ODK.ProjectID,
		"form_id":    cfg.ODK.FormID,
	}
	if savePassword {
		odk["password"] = cfg.ODK.Password
	}

	v := viper.New()
	v.SetConfigFile(m.Path())
	v.SetConfigType("yaml")
	v.Set("odk", odk)
	v.Set("report", map[string]any{
		"title":          cfg.Report.Title,
		"max_table_rows": cfg.Report.MaxTableRows,
	})

	if err := v.WriteConfigAs(m.Path()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	log.Info().Str("path", m.Path()).Msg("configuration saved")
	return nil
}

// WriteSample creates config_sample.yaml next to the real file and returns
// its path.
func (m *Manager) WriteSample() (string, error) {
	path := filepath.Join(m.dir, sampleFileName)

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("odk", map[string]string{
		"base_url":   "https://your-odk-central-server.com",
		"email":      "your-email@example.com",
		"project_id": "1",
		"form_id":    "your-form-id",
	})
	v.Set("report", map[string]any{
		"title":          "ODK Central Data Report",
		"max_table_rows": 20,
	})
	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("write sample config: %w", err)
	}
	return path, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("report.title", "ODK Central Data Report")
	v.SetDefault("report.max_table_rows", 20)
}
