package db

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/pgcall/pgcall/pkg/pgcall"
)

// PoolOpener adapts a Connector to the pgcall.StoreOpener interface.
// Each Open establishes a fresh pool and acquires a single connection
// from it; the returned handle owns both and releases them on Close.
//
// This decouples the call client from pgx-specific types, so release
// discipline can be verified with in-memory fakes.
type PoolOpener struct {
	connector pgcall.Connector
}

// NewPoolOpener creates a PoolOpener over the given connector.
// Panics if connector is nil.
func NewPoolOpener(connector pgcall.Connector) *PoolOpener {
	if connector == nil {
		panic("connector cannot be nil")
	}
	return &PoolOpener{connector: connector}
}

// Open establishes the pool and acquires the call's connection.
// On acquire failure the pool is closed before returning.
func (o *PoolOpener) Open(ctx context.Context) (pgcall.StoreHandle, error) {
	pool, err := o.connector.Connect(ctx)
	if err != nil {
		return nil, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &poolHandle{session: pgcall.NewSession(pool, conn)}, nil
}

// poolHandle is the pgx-backed store handle for one call.
type poolHandle struct {
	session *pgcall.Session
}

// Query sends the statement text verbatim over the simple protocol and
// materializes the complete result. Simple protocol execution keeps the
// server's own text rendering for every cell and avoids polluting the
// prepared statement cache with arbitrary proxied SQL.
func (h *poolHandle) Query(ctx context.Context, sql string) (pgcall.RowSet, error) {
	rows, err := h.session.Conn().Query(ctx, sql, pgx.QueryExecModeSimpleProtocol)
	if err != nil {
		return pgcall.RowSet{}, err
	}
	defer rows.Close()

	var result pgcall.RowSet
	for _, fd := range rows.FieldDescriptions() {
		result.Columns = append(result.Columns, fd.Name)
	}

	for rows.Next() {
		raw := rows.RawValues()
		row := make(pgcall.Row, len(raw))
		for i, v := range raw {
			if v == nil {
				row[i] = pgcall.Cell{}
			} else {
				// Copy: raw buffers are invalidated by the next Next call
				row[i] = pgcall.Cell{Valid: true, Text: string(v)}
			}
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return pgcall.RowSet{}, err
	}

	return result, nil
}

// Close releases the connection and the pool. Idempotent.
func (h *poolHandle) Close() {
	h.session.Close()
}

var (
	_ pgcall.StoreOpener = (*PoolOpener)(nil)
	_ pgcall.StoreHandle = (*poolHandle)(nil)
)
