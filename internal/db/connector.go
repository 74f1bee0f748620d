package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgcall/pgcall/internal/retry"
	"github.com/pgcall/pgcall/pkg/pgcall"
)

// Connection pool configuration constants
const (
	// DefaultMaxConns limits concurrent connections; a call uses a single
	// connection, so the pool stays small.
	DefaultMaxConns = 5

	// DefaultMinConns maintains at least one connection in the pool.
	DefaultMinConns = 1

	// DefaultMaxConnIdleTime keeps connections alive between calls within
	// one invocation to avoid reconnection overhead.
	DefaultMaxConnIdleTime = 30 * time.Minute
)

// configurePool applies the pool defaults and routes server notices
// (RAISE NOTICE and friends from proxied statements) to the logger.
func configurePool(poolConfig *pgxpool.Config, logger pgcall.Logger) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Info("%s", notice.Message)
	}
}

// newRetryExecutor builds the retry executor for connection establishment.
// ConnectAttempts counts total attempts: 0 or 1 means a single fail-fast
// attempt, higher values retry transient failures with exponential backoff.
func newRetryExecutor(attempts int, logger pgcall.Logger) *retry.Executor {
	if attempts < 1 {
		attempts = pgcall.DefaultConnectAttempts
	}

	classifier := retry.NewPostgreSQLErrorClassifier()
	strategy := retry.NewExponentialBackoff(attempts-1,
		retry.WithInitialDelay(pgcall.DefaultRetryInitialDelay),
		retry.WithMaxDelay(pgcall.DefaultRetryMaxDelay),
	)

	return retry.NewExecutor(classifier, strategy).WithOnRetry(
		func(attempt int, err error, delay time.Duration) {
			logger.Verbose("connection attempt %d failed, retrying in %v: %v", attempt+1, delay, err)
		})
}

// StandardConnector implements the Connector interface for standard
// username/password authentication (including client certificates, which
// pgx picks up from the sslcert/sslkey parameters).
type StandardConnector struct {
	config        *pgcall.ConnectionConfig
	logger        pgcall.Logger
	retryExecutor *retry.Executor
}

// NewStandardConnector creates a new StandardConnector with the given
// configuration. Panics if config or logger is nil.
func NewStandardConnector(config *pgcall.ConnectionConfig, logger pgcall.Logger) *StandardConnector {
	if config == nil {
		panic("config cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &StandardConnector{
		config:        config,
		logger:        logger,
		retryExecutor: newRetryExecutor(config.ConnectAttempts, logger),
	}
}

// Connect establishes a connection pool using standard authentication.
// A single attempt is made unless the config enables retry.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	connStr := BuildConnectionString(c.config)

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		poolConfig, err := pgxpool.ParseConfig(connStr)
		if err != nil {
			return fmt.Errorf("failed to parse connection config: %w", err)
		}

		configurePool(poolConfig, c.logger)

		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return wrapConnectionError(err, c.config.Host, c.config.Port, c.config.Database)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return wrapConnectionError(err, c.config.Host, c.config.Port, c.config.Database)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return pool, nil
}

var _ pgcall.Connector = (*StandardConnector)(nil)

// NewConnector is a factory function that creates the appropriate
// Connector for the ConnectionConfig's AuthMethod.
func NewConnector(config *pgcall.ConnectionConfig, logger pgcall.Logger) (pgcall.Connector, error) {
	switch config.AuthMethod {
	case pgcall.AuthMethodStandard, pgcall.AuthMethodCertificate:
		return NewStandardConnector(config, logger), nil
	case pgcall.AuthMethodAWSIAM:
		return newAWSConnector(config, logger)
	case pgcall.AuthMethodGoogleIAM:
		return newGoogleConnector(config, logger)
	case pgcall.AuthMethodAzureEntraID:
		return newAzureConnector(config, logger)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, pgcall.ErrUnsupportedAuthMethod)
	}
}

// wrapConnectionError wraps raw pgx connection errors with actionable
// guidance. Every wrapped error chains pgcall.ErrConnectFailed and the
// original error.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`%w: connection refused to %s

Possible causes:
  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong host or port
  - Firewall blocking the connection

Original error: %w`, pgcall.ErrConnectFailed, addr, host, port, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return fmt.Errorf(`%w: cannot resolve host "%s"

Possible causes:
  - Hostname is misspelled
  - DNS is not configured or reachable
  - Network connection issue

Original error: %w`, pgcall.ErrConnectFailed, host, err)

	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf(`%w: password authentication failed for database "%s"

Possible causes:
  - Wrong password (check $PGPASSWORD or ~/.pgpass)
  - Wrong username
  - User does not have access to the database

Original error: %w`, pgcall.ErrConnectFailed, database, err)

	case strings.Contains(errStr, "does not exist"):
		return fmt.Errorf(`%w: database "%s" does not exist

To create it:
  createdb %s

Original error: %w`, pgcall.ErrConnectFailed, database, database, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`%w: connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Network latency or packet loss
  - Firewall silently dropping packets
  - Wrong host/port (server not listening)

Original error: %w`, pgcall.ErrConnectFailed, addr, err)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		return fmt.Errorf(`%w: SSL/TLS connection error

Possible causes:
  - Server requires SSL but --sslmode is wrong
  - Certificate verification failed (try --sslmode=require)
  - Client certificates missing (check --sslcert, --sslkey)

Original error: %w`, pgcall.ErrConnectFailed, err)

	case strings.Contains(errStr, "too many connections"):
		return fmt.Errorf(`%w: too many connections to database "%s"

Possible causes:
  - Connection pool exhausted on server
  - max_connections limit reached in postgresql.conf
  - Stale connections from other clients

Try: SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = '%s';

Original error: %w`, pgcall.ErrConnectFailed, database, database, err)

	default:
		return fmt.Errorf("%w: %w", pgcall.ErrConnectFailed, err)
	}
}

// newAWSConnector creates a token-based connector with the AWS IAM token provider.
func newAWSConnector(config *pgcall.ConnectionConfig, logger pgcall.Logger) (pgcall.Connector, error) {
	endpoint := fmt.Sprintf("%s:%d", config.Host, config.Port)

	tokenProvider, err := NewAWSIAMTokenProvider(endpoint, config.AWSRegion, config.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS IAM token provider: %w", err)
	}

	return NewTokenBasedConnector(config, tokenProvider, "AWS IAM", logger), nil
}

// newGoogleConnector creates a GoogleCloudSQLConnector for Google Cloud SQL
// IAM authentication.
func newGoogleConnector(config *pgcall.ConnectionConfig, logger pgcall.Logger) (pgcall.Connector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires --google-instance (project:region:instance)")
	}
	if config.Username == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires username (-U)")
	}

	return NewGoogleCloudSQLConnector(config, config.GoogleInstance, logger), nil
}

// newAzureConnector creates a token-based connector with the Azure Entra ID
// token provider. With a full Service Principal triple the explicit
// credential is used, otherwise the DefaultAzureCredential chain.
func newAzureConnector(config *pgcall.ConnectionConfig, logger pgcall.Logger) (pgcall.Connector, error) {
	var tokenProvider TokenProvider
	var err error

	if config.AzureTenantID != "" && config.AzureClientID != "" && config.AzureClientSecret != "" {
		tokenProvider, err = NewAzureServicePrincipalProvider(
			config.AzureTenantID,
			config.AzureClientID,
			config.AzureClientSecret,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Service Principal provider: %w", err)
		}
	} else {
		tokenProvider, err = NewAzureDefaultCredentialProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Default Credential provider: %w", err)
		}
	}

	return NewTokenBasedConnector(config, tokenProvider, "Azure", logger), nil
}
