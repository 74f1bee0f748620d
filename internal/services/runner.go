// Package services wires the call pipeline together: settings store,
// operation registry, relational client, and dispatcher are assembled
// per invocation and torn down when the call returns.
package services

import (
	"context"
	"fmt"

	"github.com/pgcall/pgcall/internal/db"
	"github.com/pgcall/pgcall/internal/dispatch"
	"github.com/pgcall/pgcall/internal/ops"
	"github.com/pgcall/pgcall/internal/registry"
	"github.com/pgcall/pgcall/internal/settings"
	"github.com/pgcall/pgcall/pkg/pgcall"
)

// ClientFactory builds the relational client for one call. Returning a nil
// client with a nil error means no connection is configured; store-backed
// operations then fail on use with connection guidance instead of at
// registration time.
type ClientFactory func(config *pgcall.CallConfig) (pgcall.RelationalClient, error)

// RunnerOption configures a CallRunner.
type RunnerOption func(*CallRunner)

// WithClientFactory replaces the connection-string-based client
// construction. The CLI uses this to hand over a client built from fully
// resolved connection parameters, including cloud credentials that a
// connection string cannot carry.
func WithClientFactory(f ClientFactory) RunnerOption {
	return func(r *CallRunner) {
		if f != nil {
			r.clientFactory = f
		}
	}
}

// CallRunner implements the Runner interface.
// Thread-Safety: safe for concurrent Run() calls; every call assembles
// its own store, registry, and dispatcher.
type CallRunner struct {
	logger        pgcall.Logger
	clientFactory ClientFactory
}

// NewCallRunner creates a CallRunner. Panics on a nil logger: missing
// dependencies are programmer errors that should fail at startup, not
// surface as nil dereferences mid-call.
func NewCallRunner(logger pgcall.Logger, opts ...RunnerOption) *CallRunner {
	if logger == nil {
		panic("logger cannot be nil")
	}

	r := &CallRunner{logger: logger}
	r.clientFactory = r.defaultClientFactory
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one call using the provided configuration.
// This method orchestrates the call workflow by calling smaller, focused
// methods: validate, apply setting overrides, build the client, register
// operations, dispatch.
func (r *CallRunner) Run(ctx context.Context, config pgcall.CallConfig, req pgcall.CallRequest) (pgcall.CallResult, error) {
	if err := config.Validate(); err != nil {
		return pgcall.CallResult{}, fmt.Errorf("invalid configuration: %w", err)
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	store, err := r.prepareStore(config.Settings)
	if err != nil {
		return pgcall.CallResult{}, err
	}

	client, err := r.clientFactory(&config)
	if err != nil {
		return pgcall.CallResult{}, err
	}

	reg := registry.New()
	if err := ops.RegisterBuiltins(reg, store, client); err != nil {
		return pgcall.CallResult{}, fmt.Errorf("registering operations: %w", err)
	}

	dispatcher := dispatch.NewDispatcher(reg, r.logger)
	return dispatcher.Dispatch(ctx, req), nil
}

// prepareStore builds the settings store and applies per-invocation
// overrides. A rejected override aborts the call before anything runs.
func (r *CallRunner) prepareStore(overrides map[string]int) (*settings.Store, error) {
	store := settings.NewDefaultStore()

	if len(overrides) > 0 {
		r.logger.Verbose("applying %d setting override(s)", len(overrides))
		if err := store.Apply(overrides); err != nil {
			return nil, fmt.Errorf("applying setting overrides: %w", err)
		}
	}

	return store, nil
}

// defaultClientFactory builds the client from the configuration's
// connection string. Connection establishment stays lazy: the connector
// dials on first use inside the call, so a misconfigured target surfaces
// as a ConnectFailed result rather than a setup error.
func (r *CallRunner) defaultClientFactory(config *pgcall.CallConfig) (pgcall.RelationalClient, error) {
	if config.ConnectionString == "" {
		return nil, nil
	}

	connConfig, err := db.ParseConnectionString(config.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	if connConfig.AppName == "" {
		connConfig.AppName = "pgcall"
	}

	connConfig.AuthMethod = config.AuthMethod
	connConfig.AzureTenantID = config.AzureTenantID
	connConfig.AzureClientID = config.AzureClientID
	connConfig.AzureClientSecret = config.AzureClientSecret
	connConfig.ConnectAttempts = config.ConnectAttempts

	connector, err := db.NewConnector(connConfig, r.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}

	return db.NewClient(db.NewPoolOpener(connector), r.logger), nil
}

var _ pgcall.Runner = (*CallRunner)(nil)
