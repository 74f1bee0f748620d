package ops

import (
	"context"

	"github.com/pgcall/pgcall/pkg/pgcall"
)

// QueryProxy forwards caller-supplied query text to the relational store
// and returns the single scalar result as text.
type QueryProxy struct {
	client pgcall.RelationalClient
}

// NewQueryProxy creates the query_proxy operation over the given client.
// Panics if client is nil.
func NewQueryProxy(client pgcall.RelationalClient) *QueryProxy {
	if client == nil {
		panic("client cannot be nil")
	}
	return &QueryProxy{client: client}
}

func (q *QueryProxy) Name() string {
	return "query_proxy"
}

func (q *QueryProxy) Args() []pgcall.ArgSpec {
	return []pgcall.ArgSpec{
		{Name: "query", Kind: pgcall.ValueString},
	}
}

// Invoke executes the query through the scalar path. The store's own text
// rendering of the cell is returned unchanged; a NULL cell becomes the
// NULL literal so it cannot alias an empty string.
func (q *QueryProxy) Invoke(ctx context.Context, args []pgcall.Value) (pgcall.Value, error) {
	cell, err := q.client.ExecuteScalar(ctx, args[0].Str)
	if err != nil {
		return pgcall.Value{}, err
	}

	if !cell.Valid {
		return pgcall.StringValue(pgcall.NullLiteral), nil
	}
	return pgcall.StringValue(cell.Text), nil
}

var _ pgcall.Operation = (*QueryProxy)(nil)
