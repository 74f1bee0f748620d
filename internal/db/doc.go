// Package db establishes PostgreSQL connections and executes proxied
// statements over scoped, per-call handles.
//
// Connection parameters are resolved from CLI flags, environment
// variables and pgcall.yaml (resolver.go, parser.go). Connectors turn a
// resolved configuration into a pgxpool pool for the configured
// authentication method (connector.go, token_connector.go). PoolOpener
// adapts a connector into the store handles consumed by Client, which
// guarantees that every call acquires exactly one handle and releases
// it on every exit path (opener.go, client.go).
package db
