package db

import (
	"context"
	"time"
)

// TokenProvider abstracts cloud token acquisition for database
// authentication. AWS IAM and Azure Entra ID both authenticate by using a
// short-lived token as the PostgreSQL password; mock providers implement
// the same interface in tests.
type TokenProvider interface {
	// GetToken acquires a token for database authentication.
	// Returns the token string and its expiry time.
	GetToken(ctx context.Context) (token string, expiresOn time.Time, err error)

	// String returns a human-readable description for logging.
	// Must NOT include secrets.
	String() string
}

// AzurePostgreSQLScope is the OAuth scope for Azure Database for PostgreSQL.
// Azure AD issues tokens against this resource identifier for PostgreSQL access.
const AzurePostgreSQLScope = "https://ossrdbms-aad.database.windows.net/.default"
