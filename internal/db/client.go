package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/pgcall/pgcall/pkg/pgcall"
)

// Client implements pgcall.RelationalClient over a StoreOpener.
//
// Every call opens exactly one handle and releases it before returning,
// on success and on every failure path. The client never retries and
// never shares a handle across calls.
type Client struct {
	opener pgcall.StoreOpener
	logger pgcall.Logger
}

// NewClient creates a relational client over the given opener.
// Panics if opener or logger is nil.
func NewClient(opener pgcall.StoreOpener, logger pgcall.Logger) *Client {
	if opener == nil {
		panic("opener cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Client{opener: opener, logger: logger}
}

// Execute runs one statement through a scoped handle and returns the
// materialized result.
func (c *Client) Execute(ctx context.Context, query string) (pgcall.RowSet, error) {
	handle, err := c.opener.Open(ctx)
	if err != nil {
		return pgcall.RowSet{}, connectFailed(err)
	}
	defer handle.Close()

	c.logger.Verbose("executing statement: %s", queryPreview(query))

	result, err := handle.Query(ctx, query)
	if err != nil {
		return pgcall.RowSet{}, fmt.Errorf("%w: %w", pgcall.ErrExecFailed, err)
	}

	return result, nil
}

// ExecuteScalar runs one statement that must produce exactly one row with
// exactly one column. Any other shape is rejected after the handle has
// been released.
func (c *Client) ExecuteScalar(ctx context.Context, query string) (pgcall.Cell, error) {
	result, err := c.Execute(ctx, query)
	if err != nil {
		return pgcall.Cell{}, err
	}

	if len(result.Rows) != 1 {
		return pgcall.Cell{}, fmt.Errorf("%w: query returned %d rows, want exactly 1", pgcall.ErrUnexpectedRowCount, len(result.Rows))
	}
	if len(result.Rows[0]) != 1 {
		return pgcall.Cell{}, fmt.Errorf("%w: query returned %d columns, want exactly 1", pgcall.ErrUnexpectedRowCount, len(result.Rows[0]))
	}

	return result.Rows[0][0], nil
}

var _ pgcall.RelationalClient = (*Client)(nil)

// connectFailed chains pgcall.ErrConnectFailed onto err exactly once.
// Connector errors arrive already classified by wrapConnectionError;
// everything else (token acquisition, pool acquire) is chained here.
func connectFailed(err error) error {
	if errors.Is(err, pgcall.ErrConnectFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", pgcall.ErrConnectFailed, err)
}

// queryPreview truncates statement text for log lines.
func queryPreview(query string) string {
	if len(query) <= pgcall.MaxQueryPreviewLength {
		return query
	}
	return query[:pgcall.MaxQueryPreviewLength] + "..."
}
