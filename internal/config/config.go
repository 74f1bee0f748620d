// Package config loads and persists pgcall.yaml, the per-project file
// holding connection defaults and saved operation settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pgcall/pgcall/pkg/pgcall"
)

// ConnectionConfig holds connection defaults persisted in pgcall.yaml.
// Flags and PG* environment variables take precedence over these values.
type ConnectionConfig struct {
	Host           string `yaml:"host,omitempty"`
	Port           int    `yaml:"port,omitempty"`
	Username       string `yaml:"username,omitempty"`
	Database       string `yaml:"database,omitempty"`
	SSLMode        string `yaml:"sslmode,omitempty"`
	SSLCert        string `yaml:"sslcert,omitempty"`
	SSLKey         string `yaml:"sslkey,omitempty"`
	SSLRootCert    string `yaml:"sslrootcert,omitempty"`
	AuthMethod     string `yaml:"auth_method,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

// ProjectConfig is the root document of pgcall.yaml.
//
// Settings carries named operation settings (for example "repeat") so a
// value set in one invocation is visible to the next. Range validation is
// owned by the settings store, not by this package; values persisted here
// are re-validated on load.
type ProjectConfig struct {
	Connection ConnectionConfig `yaml:"connection,omitempty"`
	Settings   map[string]int   `yaml:"settings,omitempty"`
	Timeout    string           `yaml:"timeout,omitempty"`
}

// ConfigFileName is the well-known file name searched for in the
// project directory.
const ConfigFileName = "pgcall.yaml"

// Path returns the config file path for the given project directory.
func Path(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}

// Load reads pgcall.yaml from dir. Returns pgcall.ErrConfigNotFound if
// the file does not exist; callers treat that as "no saved defaults".
func Load(dir string) (*ProjectConfig, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pgcall.ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFileName, err)
	}
	return &cfg, nil
}

// Save writes cfg to pgcall.yaml in dir, replacing any existing file.
func Save(dir string, cfg *ProjectConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(Path(dir), data, 0644)
}
