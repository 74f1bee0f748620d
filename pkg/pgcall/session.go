package pgcall

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Session encapsulates the database resources backing one scoped store
// handle: the connection pool and a single acquired connection.
//
// Session manages the lifecycle of both resources and ensures proper
// cleanup through a single Close() method.
//
// Thread-Safety: NOT safe for concurrent use. Each call owns its own
// Session instance; a Session never outlives the call that opened it.
//
// Lifecycle:
//  1. Created by the store opener when a call needs the relational store
//  2. Used for exactly one statement execution
//  3. Cleaned up via Close() (idempotent), on every exit path
//
// Example usage:
//
//	session, err := opener.openSession(ctx)
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	// Use session.Conn() to run the statement
type Session struct {
	pool *pgxpool.Pool
	conn *pgxpool.Conn
}

// NewSession creates a new Session instance.
// This is intended to be called by store openers, not by external code.
//
// Panics if pool or conn is nil (programmer error - an opener should
// never create a Session with nil resources).
func NewSession(pool *pgxpool.Pool, conn *pgxpool.Conn) *Session {
	if pool == nil {
		panic("pool cannot be nil")
	}
	if conn == nil {
		panic("conn cannot be nil")
	}

	return &Session{
		pool: pool,
		conn: conn,
	}
}

// Pool returns the connection pool for the session.
// The pool is valid until Close() is called.
func (s *Session) Pool() *pgxpool.Pool {
	return s.pool
}

// Conn returns the acquired pooled connection for the session.
// The connection is valid until Close() is called.
func (s *Session) Conn() *pgxpool.Conn {
	return s.conn
}

// Close releases all resources associated with the session.
// This method is idempotent and safe to call multiple times.
//
// Resource cleanup order:
//  1. Release the acquired connection back to the pool
//  2. Close the connection pool
//
// After calling Close(), the Session should not be used.
func (s *Session) Close() error {
	// Release connection first (if not nil)
	if s.conn != nil {
		s.conn.Release()
		s.conn = nil
	}

	// Close pool second (if not nil)
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}

	return nil
}
