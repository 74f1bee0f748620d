package ops

import (
	"context"

	"github.com/pgcall/pgcall/pkg/pgcall"
)

// ServerVersion reports the relational store's version string.
type ServerVersion struct {
	client pgcall.RelationalClient
}

// NewServerVersion creates the server_version operation over the given
// client. Panics if client is nil.
func NewServerVersion(client pgcall.RelationalClient) *ServerVersion {
	if client == nil {
		panic("client cannot be nil")
	}
	return &ServerVersion{client: client}
}

func (s *ServerVersion) Name() string {
	return "server_version"
}

func (s *ServerVersion) Args() []pgcall.ArgSpec {
	return nil
}

func (s *ServerVersion) Invoke(ctx context.Context, args []pgcall.Value) (pgcall.Value, error) {
	cell, err := s.client.ExecuteScalar(ctx, "SELECT version()")
	if err != nil {
		return pgcall.Value{}, err
	}
	return pgcall.StringValue(cell.Text), nil
}

var _ pgcall.Operation = (*ServerVersion)(nil)
