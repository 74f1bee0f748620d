package pgcall

import (
	"errors"
	"fmt"
	"time"
)

// ValueKind identifies the concrete type carried by a Value.
type ValueKind int

const (
	ValueString ValueKind = iota // Textual value
	ValueInt                     // 64-bit integer value
	ValueRows                    // Materialized row set
)

// String returns a human-readable name for the value kind.
func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueInt:
		return "int"
	case ValueRows:
		return "rows"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// IsValid returns true if the ValueKind is a defined value.
func (k ValueKind) IsValid() bool {
	return k >= ValueString && k <= ValueRows
}

// Value is a typed call argument or result. Exactly one of the payload
// fields is meaningful, selected by Kind. The zero Value is an empty string.
type Value struct {
	Kind ValueKind
	Str  string
	Int  int64
	Rows RowSet
}

// StringValue builds a string-kinded Value.
func StringValue(s string) Value {
	return Value{Kind: ValueString, Str: s}
}

// IntValue builds an integer-kinded Value.
func IntValue(n int64) Value {
	return Value{Kind: ValueInt, Int: n}
}

// RowsValue builds a row-set-kinded Value.
func RowsValue(rs RowSet) Value {
	return Value{Kind: ValueRows, Rows: rs}
}

// Cell is a single nullable result cell. Valid is false for SQL NULL,
// following pgtype's convention, so NULL can never alias an empty string.
type Cell struct {
	Valid bool
	Text  string
}

// Row is an ordered sequence of cells.
type Row []Cell

// RowSet is the materialized result of a single query execution.
// It is produced once, consumed by the caller, then discarded; it holds no
// reference to the connection that produced it.
type RowSet struct {
	// Columns are the result column names, in order.
	Columns []string

	// Rows are the result rows, in order.
	Rows []Row
}

// ArgSpec declares one expected argument of an operation.
type ArgSpec struct {
	// Name is the argument's display name, used in signatures and
	// validation messages.
	Name string

	// Kind is the required value kind.
	Kind ValueKind
}

// CallRequest names an operation and carries its ordered arguments.
type CallRequest struct {
	Operation string
	Args      []Value
}

// CallResult is the outcome of one dispatched call: either a value or a
// structured error, never both and never neither.
type CallResult struct {
	Value Value
	Err   *CallError
}

// Ok reports whether the call succeeded.
func (r CallResult) Ok() bool {
	return r.Err == nil
}

// OkResult wraps a success value.
func OkResult(v Value) CallResult {
	return CallResult{Value: v}
}

// ErrResult classifies err into a structured failure result.
func ErrResult(err error) CallResult {
	return CallResult{Err: NewCallError(err)}
}

// CallConfig contains all parameters needed to execute one call.
type CallConfig struct {
	// ConnectionString is the PostgreSQL connection string (URI or ADO.NET
	// format). Required only by operations that reach the relational store;
	// calls that never touch the store may leave it empty.
	ConnectionString string

	// Settings are per-invocation overrides applied to the settings store
	// before the call runs. An out-of-range value aborts before dispatch.
	Settings map[string]int

	// Timeout is the global timeout for the call (0 = none).
	Timeout time.Duration

	// ConnectAttempts is the number of connection attempts per call.
	// 1 (the default) fails fast; values above 1 enable retry with backoff
	// during connection establishment only.
	ConnectAttempts int

	// Verbose enables detailed logging.
	Verbose bool

	// AuthMethod indicates the authentication mechanism to use.
	AuthMethod AuthMethod

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// Validate checks if the CallConfig has valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *CallConfig) Validate() error {
	var errs []error

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	if c.ConnectAttempts < 0 {
		errs = append(errs, fmt.Errorf("connect attempts cannot be negative: %w", ErrInvalidConfig))
	}

	if !c.AuthMethod.IsValid() {
		errs = append(errs, fmt.Errorf("unknown auth method %d: %w", int(c.AuthMethod), ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// Client certificate paths for mutual TLS (sslcert, sslkey, sslrootcert)
	SSLCert     string
	SSLKey      string
	SSLRootCert string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// ConnectAttempts is the number of connection attempts; 0 or 1 means a
	// single fail-fast attempt, values above 1 enable retry with backoff.
	ConnectAttempts int

	// AWSRegion is the AWS region for RDS IAM token generation (used when
	// AuthMethod is AuthMethodAWSIAM).
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name in
	// project:region:instance form (used when AuthMethod is AuthMethodGoogleIAM).
	GoogleInstance string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	// If all three are provided, Service Principal authentication is used.
	// If none are provided, DefaultAzureCredential chain is used (env vars, managed identity, CLI, etc.)
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodCertificate                    // mTLS
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodCertificate:
		return "Certificate"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}
