package pgcall

import "context"

// Runner is the main interface for executing calls end to end.
// Implementations assemble the settings store, operation registry,
// relational client, and dispatcher for one invocation, then dispatch
// the request.
type Runner interface {
	// Run executes one call using the provided configuration.
	// A non-nil error means setup failed before the operation was
	// dispatched (invalid configuration, rejected setting override,
	// connector construction failure); the CallResult is meaningful
	// only when the error is nil.
	Run(ctx context.Context, config CallConfig, req CallRequest) (CallResult, error)
}
