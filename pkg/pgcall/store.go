package pgcall

import "context"

// StoreOpener opens a scoped handle to the external relational store.
// Exactly one handle is opened per call and released before the call
// returns, on every exit path.
//
// This interface decouples the relational client from pgx-specific types,
// so release discipline can be verified with in-memory fakes.
type StoreOpener interface {
	// Open establishes a scoped handle. Implementations make a single
	// attempt; retry policy, if any, belongs to the caller that built
	// the opener.
	Open(ctx context.Context) (StoreHandle, error)
}

// StoreHandle is a scoped connection to the external store, owned
// exclusively by the call that opened it.
type StoreHandle interface {
	// Query submits the statement text verbatim and materializes the
	// complete result. The store's own engine parses and plans the text;
	// the handle never interprets it.
	Query(ctx context.Context, sql string) (RowSet, error)

	// Close releases the handle. Idempotent and safe to call on every
	// exit path.
	Close()
}

// RelationalClient executes statements against the external store through
// scoped, per-call handles. Implementations never share a handle across
// calls and never retry.
type RelationalClient interface {
	// Execute runs one statement and returns the full row set.
	// Connection failures are ErrConnectFailed; store failures are
	// ErrExecFailed. The handle is released before return in both cases.
	Execute(ctx context.Context, query string) (RowSet, error)

	// ExecuteScalar runs one statement that must produce exactly one row
	// with exactly one column and returns that cell. Any other shape is
	// an ErrUnexpectedRowCount error, with the handle still released.
	ExecuteScalar(ctx context.Context, query string) (Cell, error)
}
