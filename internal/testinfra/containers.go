package testinfra

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	PostgresImage    = "docker.io/postgres:17-alpine"
	PostgresUser     = "postgres"
	PostgresPassword = "postgres"
	PostgresDB       = "postgres"

	// SSLPostgresImage is Debian-based: the SSL entrypoint wrapper that
	// the postgres module installs is run with bash, and alpine ships
	// only busybox sh.
	SSLPostgresImage = "docker.io/postgres:17"

	// containerCertDir is where postgres.WithSSLCert places the server
	// certificates inside the container.
	containerCertDir  = "/tmp/testcontainers-go/postgres"
	sslEntrypointPath = "/usr/local/bin/docker-entrypoint-ssl.bash"
)

type PostgresContainer struct {
	*postgres.PostgresContainer
	ConnString string
}

// StartPostgres starts a throwaway PostgreSQL container and returns it
// with a ready-to-use connection string. The wait strategy matches the
// image's double startup log: the server restarts once after initdb.
func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	ctr, err := postgres.Run(ctx,
		PostgresImage,
		postgres.WithUsername(PostgresUser),
		postgres.WithPassword(PostgresPassword),
		postgres.WithDatabase(PostgresDB),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get connection string: %w", err)
	}

	return &PostgresContainer{PostgresContainer: ctr, ConnString: connStr}, nil
}

// StartSSLPostgres starts a container with SSL enabled using the server
// certificate from certPaths. Password auth still applies, so every
// sslmode from disable to verify-full can connect.
func StartSSLPostgres(ctx context.Context, certPaths *CertPaths) (*PostgresContainer, error) {
	confPath, err := writeSSLConfig(filepath.Dir(certPaths.CACert))
	if err != nil {
		return nil, err
	}

	ctr, err := postgres.Run(ctx,
		SSLPostgresImage,
		postgres.WithUsername(PostgresUser),
		postgres.WithPassword(PostgresPassword),
		postgres.WithDatabase(PostgresDB),
		postgres.WithSSLCert(certPaths.CACert, certPaths.ServerCert, certPaths.ServerKey),
		postgres.WithConfigFile(confPath),
		// WithSSLCert sets the entrypoint to "sh", which fails on Debian
		// (dash does not support pipefail).
		testcontainers.WithEntrypoint("bash", sslEntrypointPath),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start SSL postgres: %w", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get connection string: %w", err)
	}

	return &PostgresContainer{PostgresContainer: ctr, ConnString: connStr}, nil
}

// StartMTLSPostgres starts a container that requires a client
// certificate signed by the bundle's CA: pg_hba only admits hostssl
// connections with clientcert=verify-full.
func StartMTLSPostgres(ctx context.Context, certPaths *CertPaths) (*PostgresContainer, error) {
	dir := filepath.Dir(certPaths.CACert)

	confPath, err := writeSSLConfig(dir)
	if err != nil {
		return nil, err
	}

	initScript, err := writeMTLSInitScript(dir)
	if err != nil {
		return nil, err
	}

	ctr, err := postgres.Run(ctx,
		SSLPostgresImage,
		postgres.WithUsername(PostgresUser),
		postgres.WithPassword(PostgresPassword),
		postgres.WithDatabase(PostgresDB),
		postgres.WithSSLCert(certPaths.CACert, certPaths.ServerCert, certPaths.ServerKey),
		postgres.WithConfigFile(confPath),
		postgres.WithInitScripts(initScript),
		testcontainers.WithEntrypoint("bash", sslEntrypointPath),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start mTLS postgres: %w", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=verify-ca")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get connection string: %w", err)
	}

	return &PostgresContainer{PostgresContainer: ctr, ConnString: connStr}, nil
}

// writeSSLConfig writes a postgresql.conf pointing at the certificate
// paths WithSSLCert uses inside the container.
func writeSSLConfig(dir string) (string, error) {
	conf := fmt.Sprintf(`listen_addresses = '*'
ssl = on
ssl_cert_file = '%s/server.cert'
ssl_key_file = '%s/server.key'
ssl_ca_file = '%s/ca_cert.pem'
`, containerCertDir, containerCertDir, containerCertDir)

	path := filepath.Join(dir, "postgresql.conf")
	if err := os.WriteFile(path, []byte(conf), 0644); err != nil {
		return "", fmt.Errorf("write postgresql.conf: %w", err)
	}
	return path, nil
}

// writeMTLSInitScript writes an init script that replaces pg_hba.conf so
// TCP connections must present a verified client certificate.
func writeMTLSInitScript(dir string) (string, error) {
	script := `#!/bin/bash
cat > "$PGDATA/pg_hba.conf" << 'PGEOF'
local   all all                trust
hostssl all all 0.0.0.0/0      cert clientcert=verify-full
hostssl all all ::/0            cert clientcert=verify-full
PGEOF
`
	path := filepath.Join(dir, "init-mtls.sh")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		return "", fmt.Errorf("write init script: %w", err)
	}
	return path, nil
}
