package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pgcall/pgcall/internal/config"
	"github.com/pgcall/pgcall/pkg/pgcall"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-h, -p, -U, -d).
//
// Note: Password is NOT included as a CLI flag for security reasons.
// Use one of these methods instead:
//  1. $PGPASSWORD environment variable
//  2. .pgpass file (PostgreSQL standard)
//  3. Connection string with embedded password
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty returns true if no connection-related granular flags were provided.
// The database flag is excluded because it may override the database named in
// a connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// AzureFlags represents Azure Entra ID CLI flags.
// These override the corresponding AZURE_* environment variables.
// The client secret is NOT a CLI flag for security reasons; use the
// AZURE_CLIENT_SECRET environment variable instead.
type AzureFlags struct {
	Enabled  bool   // --azure
	TenantID string // Overrides AZURE_TENANT_ID
	ClientID string // Overrides AZURE_CLIENT_ID
}

// IsEmpty returns true if no Azure flags were provided.
func (a *AzureFlags) IsEmpty() bool {
	return a == nil || (!a.Enabled && a.TenantID == "" && a.ClientID == "")
}

// AWSFlags represents AWS RDS IAM CLI flags.
type AWSFlags struct {
	Enabled bool   // --aws
	Region  string // Overrides $AWS_REGION
}

// IsEmpty returns true if no AWS flags were provided.
func (a *AWSFlags) IsEmpty() bool {
	return a == nil || (!a.Enabled && a.Region == "")
}

// GoogleFlags represents Google Cloud SQL IAM CLI flags.
type GoogleFlags struct {
	Enabled  bool   // --google
	Instance string // Instance connection name: project:region:instance
}

// IsEmpty returns true if no Google flags were provided.
func (g *GoogleFlags) IsEmpty() bool {
	return g == nil || (!g.Enabled && g.Instance == "")
}

// CertFlags represents client certificate CLI flags for mutual TLS.
type CertFlags struct {
	SSLCert     string
	SSLKey      string
	SSLRootCert string
}

// IsEmpty returns true if no certificate flags were provided.
func (c *CertFlags) IsEmpty() bool {
	return c == nil || (c.SSLCert == "" && c.SSLKey == "" && c.SSLRootCert == "")
}

// EnvVars represents PostgreSQL standard environment variables plus the
// cloud provider variables pgcall recognizes.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHOST       string // PostgreSQL server host
	PGPORT       string // PostgreSQL server port
	PGUSER       string // PostgreSQL username
	PGPASSWORD   string // PostgreSQL password (discouraged, use .pgpass instead)
	PGDATABASE   string // Default database name
	PGSSLMODE    string // SSL mode
	DATABASE_URL string // Full connection string (Heroku/Rails convention)

	// AWS environment variables (AWS SDK standard names)
	AWS_REGION string

	// Azure Entra ID environment variables (Azure SDK standard names)
	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string
}

// LoadFromEnvironment loads PostgreSQL and cloud provider environment variables.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:              os.Getenv("PGHOST"),
		PGPORT:              os.Getenv("PGPORT"),
		PGUSER:              os.Getenv("PGUSER"),
		PGPASSWORD:          os.Getenv("PGPASSWORD"),
		PGDATABASE:          os.Getenv("PGDATABASE"),
		PGSSLMODE:           os.Getenv("PGSSLMODE"),
		DATABASE_URL:        os.Getenv("DATABASE_URL"),
		AWS_REGION:          os.Getenv("AWS_REGION"),
		AZURE_TENANT_ID:     os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:     os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET: os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

// HasAzureCredentials returns true if Azure Entra ID environment variables are set.
func (e *EnvVars) HasAzureCredentials() bool {
	return e.AZURE_TENANT_ID != "" || e.AZURE_CLIENT_ID != ""
}

// ResolveConnectionParams resolves connection parameters using
// PostgreSQL-standard precedence:
//
//  1. Connection string flag (--connection) - if provided, parse and use directly
//  2. Granular flags (-h, -p, -U, -d) - if any provided, build config from flags
//  3. Environment variables (PGHOST, PGPORT, ...) - fallback if no flags
//  4. DATABASE_URL environment variable - fallback if no granular params
//  5. pgcall.yaml connection section - saved project defaults
//  6. Defaults (localhost:5432, prefer SSL)
//
// Cloud authentication: the --aws, --google and --azure flag groups each
// select their provider explicitly and are mutually exclusive. With no
// cloud flags, AZURE_* environment variables select Azure Entra ID
// (matching the Azure SDK convention), and failing that the auth_method
// key in pgcall.yaml decides.
//
// Returns an error if BOTH --connection and granular flags are provided;
// the ambiguity is rejected rather than silently merged.
func ResolveConnectionParams(
	connStringFlag string,
	granularFlags *GranularConnFlags,
	azureFlags *AzureFlags,
	awsFlags *AWSFlags,
	googleFlags *GoogleFlags,
	certFlags *CertFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*pgcall.ConnectionConfig, error) {
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if azureFlags == nil {
		azureFlags = &AzureFlags{}
	}
	if awsFlags == nil {
		awsFlags = &AWSFlags{}
	}
	if googleFlags == nil {
		googleFlags = &GoogleFlags{}
	}
	if certFlags == nil {
		certFlags = &CertFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}

	var yamlConn config.ConnectionConfig
	if projectConfig != nil {
		yamlConn = projectConfig.Connection
	}

	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, fmt.Errorf(
			"cannot specify both --connection and granular flags (-h, -p, -U)\n" +
				"Choose one approach:\n" +
				"  1. Connection string: --connection \"postgresql://user@localhost:5432/postgres\"\n" +
				"  2. Granular flags: -h localhost -p 5432 -U myuser -d mydb\n" +
				"  3. Environment variables: export PGHOST=localhost PGPORT=5432 PGUSER=myuser",
		)
	}

	var cfg *pgcall.ConnectionConfig
	var err error

	switch {
	case connStringFlag != "":
		cfg, err = resolveFromConnectionString(connStringFlag, granularFlags.Database, envVars)
	case granularFlags.IsEmpty() && envVars.DATABASE_URL != "":
		cfg, err = resolveFromConnectionString(envVars.DATABASE_URL, granularFlags.Database, envVars)
	default:
		cfg, err = resolveFromGranularParams(granularFlags, envVars, yamlConn)
	}
	if err != nil {
		return nil, err
	}

	applyCertFlags(cfg, certFlags, yamlConn)

	if err := applyCloudAuth(cfg, azureFlags, awsFlags, googleFlags, envVars, yamlConn); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveFromConnectionString parses a connection string, applying the
// database flag override and PGSSLMODE fallback on top.
func resolveFromConnectionString(connStr, databaseFlag string, envVars *EnvVars) (*pgcall.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}

	// -d overrides the database component of the connection string
	if databaseFlag != "" {
		cfg.Database = databaseFlag
	}

	// Environment variables serve as fallbacks for parameters the
	// connection string leaves unset, following libpq behavior.
	if cfg.SSLMode == "" && envVars.PGSSLMODE != "" {
		cfg.SSLMode = envVars.PGSSLMODE
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "prefer"
	}

	return cfg, nil
}

// resolveFromGranularParams builds a ConnectionConfig from granular flags,
// environment variables and pgcall.yaml.
//
// Precedence for each parameter (following PostgreSQL standards):
//  1. CLI flag (highest priority)
//  2. Environment variable
//  3. pgcall.yaml connection section
//  4. Default value (lowest priority)
func resolveFromGranularParams(
	flags *GranularConnFlags,
	envVars *EnvVars,
	yamlConn config.ConnectionConfig,
) (*pgcall.ConnectionConfig, error) {
	cfg := &pgcall.ConnectionConfig{
		AuthMethod:       pgcall.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	cfg.Host = firstNonEmpty(flags.Host, envVars.PGHOST, yamlConn.Host, "localhost")

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case envVars.PGPORT != "":
		port, err := strconv.Atoi(envVars.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value '%s': must be an integer", envVars.PGPORT)
		}
		cfg.Port = port
	case yamlConn.Port != 0:
		cfg.Port = yamlConn.Port
	default:
		cfg.Port = 5432
	}

	cfg.Username = firstNonEmpty(flags.Username, envVars.PGUSER, yamlConn.Username)
	if cfg.Username == "" {
		// Fall back to the current OS user, matching psql
		cfg.Username = firstNonEmpty(os.Getenv("USER"), os.Getenv("USERNAME"))
	}

	cfg.Password = envVars.PGPASSWORD

	cfg.Database = firstNonEmpty(flags.Database, envVars.PGDATABASE, yamlConn.Database)

	cfg.SSLMode = firstNonEmpty(flags.SSLMode, envVars.PGSSLMODE, yamlConn.SSLMode, "prefer")

	return cfg, nil
}

// applyCertFlags merges client certificate paths into the config.
// Flags take precedence over values already present from the connection
// string or pgcall.yaml. When a full client certificate pair is
// configured and no cloud method is active, the auth method becomes
// Certificate; pgx reads the paths from the connection string.
func applyCertFlags(cfg *pgcall.ConnectionConfig, flags *CertFlags, yamlConn config.ConnectionConfig) {
	cfg.SSLCert = firstNonEmpty(flags.SSLCert, cfg.SSLCert, yamlConn.SSLCert)
	cfg.SSLKey = firstNonEmpty(flags.SSLKey, cfg.SSLKey, yamlConn.SSLKey)
	cfg.SSLRootCert = firstNonEmpty(flags.SSLRootCert, cfg.SSLRootCert, yamlConn.SSLRootCert)

	if cfg.SSLCert != "" && cfg.SSLKey != "" && cfg.AuthMethod == pgcall.AuthMethodStandard {
		cfg.AuthMethod = pgcall.AuthMethodCertificate
	}
}

// applyCloudAuth selects and configures the cloud authentication method.
func applyCloudAuth(
	cfg *pgcall.ConnectionConfig,
	azure *AzureFlags,
	aws *AWSFlags,
	google *GoogleFlags,
	env *EnvVars,
	yamlConn config.ConnectionConfig,
) error {
	selected := 0
	for _, on := range []bool{!aws.IsEmpty(), !google.IsEmpty(), !azure.IsEmpty()} {
		if on {
			selected++
		}
	}
	if selected > 1 {
		return fmt.Errorf("cannot combine --aws, --google and --azure: pick one authentication method")
	}

	switch {
	case !aws.IsEmpty():
		cfg.AuthMethod = pgcall.AuthMethodAWSIAM
		cfg.AWSRegion = firstNonEmpty(aws.Region, env.AWS_REGION, yamlConn.AWSRegion)
	case !google.IsEmpty():
		cfg.AuthMethod = pgcall.AuthMethodGoogleIAM
		cfg.GoogleInstance = firstNonEmpty(google.Instance, yamlConn.GoogleInstance)
	case !azure.IsEmpty() || env.HasAzureCredentials():
		cfg.AuthMethod = pgcall.AuthMethodAzureEntraID
		cfg.AzureTenantID = firstNonEmpty(azure.TenantID, env.AZURE_TENANT_ID, yamlConn.AzureTenantID)
		cfg.AzureClientID = firstNonEmpty(azure.ClientID, env.AZURE_CLIENT_ID, yamlConn.AzureClientID)
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	case yamlConn.AuthMethod != "":
		return applyConfiguredAuth(cfg, env, yamlConn)
	}

	return nil
}

// applyConfiguredAuth applies the auth_method key from pgcall.yaml when no
// flag or environment variable selected a method.
func applyConfiguredAuth(cfg *pgcall.ConnectionConfig, env *EnvVars, yamlConn config.ConnectionConfig) error {
	method, err := AuthMethodFromKey(yamlConn.AuthMethod)
	if err != nil {
		return fmt.Errorf("pgcall.yaml: %w", err)
	}

	switch method {
	case pgcall.AuthMethodStandard:
		// Leave whatever applyCertFlags decided
	case pgcall.AuthMethodCertificate:
		cfg.AuthMethod = pgcall.AuthMethodCertificate
	case pgcall.AuthMethodAWSIAM:
		cfg.AuthMethod = pgcall.AuthMethodAWSIAM
		cfg.AWSRegion = firstNonEmpty(yamlConn.AWSRegion, env.AWS_REGION)
	case pgcall.AuthMethodGoogleIAM:
		cfg.AuthMethod = pgcall.AuthMethodGoogleIAM
		cfg.GoogleInstance = yamlConn.GoogleInstance
	case pgcall.AuthMethodAzureEntraID:
		cfg.AuthMethod = pgcall.AuthMethodAzureEntraID
		cfg.AzureTenantID = yamlConn.AzureTenantID
		cfg.AzureClientID = yamlConn.AzureClientID
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	}

	return nil
}

// AuthMethodKey returns the stable, lowercase identifier used for an auth
// method in pgcall.yaml and CLI output.
func AuthMethodKey(m pgcall.AuthMethod) string {
	switch m {
	case pgcall.AuthMethodCertificate:
		return "certificate"
	case pgcall.AuthMethodAWSIAM:
		return "aws"
	case pgcall.AuthMethodGoogleIAM:
		return "google"
	case pgcall.AuthMethodAzureEntraID:
		return "azure"
	default:
		return "standard"
	}
}

// AuthMethodFromKey parses the pgcall.yaml auth_method identifier.
func AuthMethodFromKey(key string) (pgcall.AuthMethod, error) {
	switch key {
	case "", "standard":
		return pgcall.AuthMethodStandard, nil
	case "certificate":
		return pgcall.AuthMethodCertificate, nil
	case "aws":
		return pgcall.AuthMethodAWSIAM, nil
	case "google":
		return pgcall.AuthMethodGoogleIAM, nil
	case "azure":
		return pgcall.AuthMethodAzureEntraID, nil
	default:
		return pgcall.AuthMethodStandard, fmt.Errorf("unknown auth_method %q: %w", key, pgcall.ErrUnsupportedAuthMethod)
	}
}

// firstNonEmpty returns the first non-empty string in order.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
