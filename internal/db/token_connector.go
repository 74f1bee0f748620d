package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgcall/pgcall/internal/retry"
	"github.com/pgcall/pgcall/pkg/pgcall"
)

// TokenBasedConnector implements the Connector interface for cloud
// providers that authenticate via short-lived tokens (AWS IAM, Azure
// Entra ID). The token is acquired from a TokenProvider and used as the
// PostgreSQL password. A fresh token is acquired on every attempt.
type TokenBasedConnector struct {
	config        *pgcall.ConnectionConfig
	tokenProvider TokenProvider
	logger        pgcall.Logger
	retryExecutor *retry.Executor
	providerName  string
}

// NewTokenBasedConnector creates a connector that uses a TokenProvider for
// authentication. providerName appears in error and warning messages
// (e.g. "AWS IAM", "Azure"). Panics if config, tokenProvider or logger is nil.
func NewTokenBasedConnector(config *pgcall.ConnectionConfig, tokenProvider TokenProvider, providerName string, logger pgcall.Logger) *TokenBasedConnector {
	if config == nil {
		panic("config cannot be nil")
	}
	if tokenProvider == nil {
		panic("tokenProvider cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		logger:        logger,
		retryExecutor: newRetryExecutor(config.ConnectAttempts, logger),
		providerName:  providerName,
	}
}

func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		token, expiresOn, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to acquire %s token: %w", c.providerName, err)
		}

		if time.Until(expiresOn) < 5*time.Minute {
			c.logger.Info("warning: %s token expires in %v", c.providerName, time.Until(expiresOn).Round(time.Second))
		}

		configWithToken := *c.config
		configWithToken.Password = token

		connStr := BuildConnectionString(&configWithToken)

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

var _ pgcall.Connector = (*TokenBasedConnector)(nil)
