package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pgcall/pgcall/internal/config"
	"github.com/pgcall/pgcall/internal/db"
	"github.com/pgcall/pgcall/internal/params"
	"github.com/pgcall/pgcall/pkg/pgcall"
)

// connectionFlags groups the connection-related flags shared by every
// connection-aware command.
type connectionFlags struct {
	connection string
	host       string
	port       int
	username   string
	database   string
	sslMode    string

	sslCert     string
	sslKey      string
	sslRootCert string

	azure         bool
	azureTenantID string
	azureClientID string
	aws           bool
	awsRegion     string
	google        bool
	googleInst    string
}

func (f *connectionFlags) isEmpty() bool {
	return f.connection == "" &&
		f.host == "" && f.port == 0 && f.username == "" &&
		f.database == "" && f.sslMode == "" &&
		f.sslCert == "" && f.sslKey == "" && f.sslRootCert == "" &&
		!f.azure && f.azureTenantID == "" && f.azureClientID == "" &&
		!f.aws && f.awsRegion == "" &&
		!f.google && f.googleInst == ""
}

// registerConnectionFlags attaches the shared connection flag set to cmd.
// The -h shorthand belongs to --host here, which is why the root command
// registers --help without one.
func registerConnectionFlags(cmd *cobra.Command, f *connectionFlags) {
	cmd.Flags().StringVar(&f.connection, "connection", "",
		"Full connection string (URI, ADO.NET or keyword=value form)")
	cmd.Flags().StringVarP(&f.host, "host", "h", "", "Database server host")
	cmd.Flags().IntVarP(&f.port, "port", "p", 0, "Database server port")
	cmd.Flags().StringVarP(&f.username, "username", "U", "", "Database user name")
	cmd.Flags().StringVarP(&f.database, "database", "d", "", "Database name")
	cmd.Flags().StringVar(&f.sslMode, "sslmode", "", "SSL mode (disable, allow, prefer, require, verify-ca, verify-full)")

	cmd.Flags().StringVar(&f.sslCert, "sslcert", "", "Client certificate file for mutual TLS")
	cmd.Flags().StringVar(&f.sslKey, "sslkey", "", "Client private key file for mutual TLS")
	cmd.Flags().StringVar(&f.sslRootCert, "sslrootcert", "", "Root certificate file for server verification")

	cmd.Flags().BoolVar(&f.azure, "azure", false, "Authenticate with Azure Entra ID")
	cmd.Flags().StringVar(&f.azureTenantID, "azure-tenant-id", "", "Azure tenant ID (overrides AZURE_TENANT_ID)")
	cmd.Flags().StringVar(&f.azureClientID, "azure-client-id", "", "Azure client ID (overrides AZURE_CLIENT_ID)")
	cmd.Flags().BoolVar(&f.aws, "aws", false, "Authenticate with AWS RDS IAM")
	cmd.Flags().StringVar(&f.awsRegion, "aws-region", "", "AWS region for RDS IAM tokens (overrides AWS_REGION)")
	cmd.Flags().BoolVar(&f.google, "google", false, "Authenticate with Google Cloud SQL IAM")
	cmd.Flags().StringVar(&f.googleInst, "google-instance", "", "Cloud SQL instance connection name (project:region:instance)")

	_ = cmd.RegisterFlagCompletionFunc("sslmode", completeSSLModes)
}

// resolvedConnection pairs the resolved parameters with the URI handed to
// the database layer.
type resolvedConnection struct {
	ConnConfig *pgcall.ConnectionConfig
	ConnStr    string
}

// resolveConnectionFromFlags turns the shared flag set plus environment and
// project configuration into final connection parameters.
func resolveConnectionFromFlags(flags connectionFlags, projectCfg *config.ProjectConfig, verbose bool) (*resolvedConnection, error) {
	granular := &db.GranularConnFlags{
		Host:     flags.host,
		Port:     flags.port,
		Username: flags.username,
		Database: flags.database,
		SSLMode:  flags.sslMode,
	}
	azure := &db.AzureFlags{
		Enabled:  flags.azure,
		TenantID: flags.azureTenantID,
		ClientID: flags.azureClientID,
	}
	aws := &db.AWSFlags{
		Enabled: flags.aws,
		Region:  flags.awsRegion,
	}
	google := &db.GoogleFlags{
		Enabled:  flags.google,
		Instance: flags.googleInst,
	}
	certs := &db.CertFlags{
		SSLCert:     flags.sslCert,
		SSLKey:      flags.sslKey,
		SSLRootCert: flags.sslRootCert,
	}

	connConfig, err := resolveConnection(flags.connection, granular, azure, aws, google, certs, projectCfg)
	if err != nil {
		return nil, err
	}

	if verbose {
		logConnectionVerbose(connConfig)
	}

	return &resolvedConnection{
		ConnConfig: connConfig,
		ConnStr:    db.BuildConnectionString(connConfig),
	}, nil
}

// loadMergedSettings merges setting values from ascending precedence:
// pgcall.yaml, then --settings-file in given order, then --set pairs.
// Range validation happens later in the runner so every source is treated
// the same.
func loadMergedSettings(projectCfg *config.ProjectConfig, settingsFiles []string, setPairs []string, verbose bool) (map[string]int, error) {
	merged := make(map[string]int)

	if projectCfg != nil {
		for name, value := range projectCfg.Settings {
			merged[name] = value
		}
	}

	for _, path := range settingsFiles {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
		}
		fileSettings, err := params.ParseSettingsFile(content)
		if err != nil {
			return nil, fmt.Errorf("invalid settings file %s: %w", path, err)
		}
		for name, value := range fileSettings {
			merged[name] = value
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "[VERBOSE] Loaded %d setting(s) from %s\n", len(fileSettings), path)
		}
	}

	overrides, err := params.ParseSettingOverrides(setPairs)
	if err != nil {
		return nil, err
	}
	for name, value := range overrides {
		merged[name] = value
	}

	return merged, nil
}

// resolveEffectiveTimeout picks the call timeout: an explicitly set --timeout
// flag wins, otherwise a timeout from pgcall.yaml, otherwise the flag default.
func resolveEffectiveTimeout(cmd *cobra.Command, flagTimeout time.Duration, projectCfg *config.ProjectConfig) (time.Duration, error) {
	if cmd.Flags().Changed("timeout") {
		return flagTimeout, nil
	}
	if projectCfg != nil && projectCfg.Timeout != "" {
		d, err := time.ParseDuration(projectCfg.Timeout)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid timeout %q in %s: %v",
				pgcall.ErrInvalidConfig, projectCfg.Timeout, config.ConfigFileName, err)
		}
		return d, nil
	}
	return flagTimeout, nil
}

// loadProjectConfig loads pgcall.yaml from dir after sourcing a local .env
// file, if present. A missing config file is not an error; every value it
// would provide has a flag or environment fallback.
func loadProjectConfig(dir string) (*config.ProjectConfig, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(dir)
	if err != nil {
		if errors.Is(err, pgcall.ErrConfigNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return cfg, nil
}

func logConnectionVerbose(connConfig *pgcall.ConnectionConfig) {
	fmt.Fprintf(os.Stderr, "[VERBOSE] Connection target:\n")
	fmt.Fprintf(os.Stderr, "[VERBOSE]   host:     %s\n", connConfig.Host)
	fmt.Fprintf(os.Stderr, "[VERBOSE]   port:     %d\n", connConfig.Port)
	fmt.Fprintf(os.Stderr, "[VERBOSE]   database: %s\n", connConfig.Database)
	fmt.Fprintf(os.Stderr, "[VERBOSE]   username: %s\n", connConfig.Username)
	fmt.Fprintf(os.Stderr, "[VERBOSE]   sslmode:  %s\n", connConfig.SSLMode)
	fmt.Fprintf(os.Stderr, "[VERBOSE]   auth:     %s\n", db.AuthMethodKey(connConfig.AuthMethod))
}

// saveConnectionToConfig persists connection parameters into pgcall.yaml,
// preserving any settings or timeout already stored there. The password is
// never written; .pgpass is the place for that.
func saveConnectionToConfig(dir string, connConfig *pgcall.ConnectionConfig) error {
	cfg, err := config.Load(dir)
	if err != nil {
		if !errors.Is(err, pgcall.ErrConfigNotFound) {
			return err
		}
		cfg = &config.ProjectConfig{}
	}

	cfg.Connection = config.ConnectionConfig{
		Host:           connConfig.Host,
		Port:           connConfig.Port,
		Username:       connConfig.Username,
		Database:       connConfig.Database,
		SSLMode:        connConfig.SSLMode,
		SSLCert:        connConfig.SSLCert,
		SSLKey:         connConfig.SSLKey,
		SSLRootCert:    connConfig.SSLRootCert,
		AzureTenantID:  connConfig.AzureTenantID,
		AzureClientID:  connConfig.AzureClientID,
		AWSRegion:      connConfig.AWSRegion,
		GoogleInstance: connConfig.GoogleInstance,
	}
	if connConfig.AuthMethod != pgcall.AuthMethodStandard {
		cfg.Connection.AuthMethod = db.AuthMethodKey(connConfig.AuthMethod)
	}

	return config.Save(dir, cfg)
}
