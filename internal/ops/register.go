// Package ops implements the built-in operations: greeting, now_ms,
// query_proxy and server_version. Handlers are small structs wired through
// constructor injection; dependencies that reach the relational store take
// the RelationalClient contract so tests can run against fakes.
package ops

import (
	"context"
	"fmt"

	"github.com/pgcall/pgcall/internal/settings"
	"github.com/pgcall/pgcall/pkg/pgcall"
)

// RegisterBuiltins registers every built-in operation.
//
// client may be nil when no connection is configured; the store-backed
// operations are then registered with a client that fails on use, keeping
// the operation catalog complete either way.
func RegisterBuiltins(reg pgcall.Registry, store *settings.Store, client pgcall.RelationalClient) error {
	if client == nil {
		client = noStoreClient{}
	}

	builtins := []pgcall.Operation{
		NewGreeting(store),
		NewNowMs(),
		NewQueryProxy(client),
		NewServerVersion(client),
	}

	for _, op := range builtins {
		if err := reg.Register(op); err != nil {
			return fmt.Errorf("registering %s: %w", op.Name(), err)
		}
	}
	return nil
}

// noStoreClient stands in when no connection is configured.
type noStoreClient struct{}

func (noStoreClient) Execute(ctx context.Context, query string) (pgcall.RowSet, error) {
	return pgcall.RowSet{}, errNoConnection()
}

func (noStoreClient) ExecuteScalar(ctx context.Context, query string) (pgcall.Cell, error) {
	return pgcall.Cell{}, errNoConnection()
}

func errNoConnection() error {
	return fmt.Errorf("%w: no connection configured (use --connection, -h/-p/-U flags, DATABASE_URL or pgcall.yaml)", pgcall.ErrConnectFailed)
}

var _ pgcall.RelationalClient = noStoreClient{}
