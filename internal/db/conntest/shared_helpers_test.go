//go:build conntest || azure

package conntest

import (
	"context"
	"testing"

	"github.com/pgcall/pgcall/internal/logging"
	"github.com/pgcall/pgcall/internal/services"
	"github.com/pgcall/pgcall/pkg/pgcall"
)

// newTestRunner builds the same call pipeline the CLI assembles, with
// logging suppressed.
func newTestRunner(t *testing.T) *services.CallRunner {
	t.Helper()
	return services.NewCallRunner(logging.NewNullLogger())
}

// callServerVersion dispatches the server_version operation over the
// given connection and returns the reported version string.
func callServerVersion(t *testing.T, connStr string) string {
	t.Helper()

	runner := newTestRunner(t)
	result, err := runner.Run(context.Background(),
		pgcall.CallConfig{ConnectionString: connStr},
		pgcall.CallRequest{Operation: "server_version"},
	)
	if err != nil {
		t.Fatalf("run server_version: %v", err)
	}
	if result.Err != nil {
		t.Fatalf("server_version failed: %v", result.Err)
	}
	return result.Value.Str
}
