package services

import (
	"context"

	"github.com/pgcall/pgcall/pkg/pgcall"
)

type mockClient struct {
	rows    pgcall.RowSet
	cell    pgcall.Cell
	err     error
	queries []string
}

func (m *mockClient) Execute(_ context.Context, query string) (pgcall.RowSet, error) {
	m.queries = append(m.queries, query)
	return m.rows, m.err
}

func (m *mockClient) ExecuteScalar(_ context.Context, query string) (pgcall.Cell, error) {
	m.queries = append(m.queries, query)
	return m.cell, m.err
}

// blockingClient waits for context cancellation before returning, so tests
// can prove the configured timeout reaches the operation's context.
type blockingClient struct{}

func (b *blockingClient) Execute(ctx context.Context, _ string) (pgcall.RowSet, error) {
	<-ctx.Done()
	return pgcall.RowSet{}, ctx.Err()
}

func (b *blockingClient) ExecuteScalar(ctx context.Context, _ string) (pgcall.Cell, error) {
	<-ctx.Done()
	return pgcall.Cell{}, ctx.Err()
}

type mockLogger struct{}

func (m *mockLogger) Verbose(_ string, _ ...interface{}) {}
func (m *mockLogger) Info(_ string, _ ...interface{})    {}
func (m *mockLogger) Error(_ string, _ ...interface{})   {}

func clientFactoryFor(client pgcall.RelationalClient) ClientFactory {
	return func(_ *pgcall.CallConfig) (pgcall.RelationalClient, error) {
		return client, nil
	}
}
