package pgcall

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the call failure taxonomy.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	result := dispatcher.Dispatch(ctx, req)
//	if errors.Is(result.Err, pgcall.ErrUnknownOperation) {
//	    // Handle a call to an unregistered operation
//	}
var (
	// ErrUnknownOperation indicates the call named an operation that is not registered.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrInvalidArgument indicates call arguments did not match the
	// operation's declared signature.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfRange indicates a setting value outside its declared bounds.
	// The stored value is unchanged after this error.
	ErrOutOfRange = errors.New("value out of range")

	// ErrDuplicateName indicates an operation name was registered twice.
	ErrDuplicateName = errors.New("duplicate operation name")

	// ErrUnknownSetting indicates a setting name that was never defined.
	ErrUnknownSetting = errors.New("unknown setting")

	// ErrConnectFailed indicates the relational store could not be reached.
	ErrConnectFailed = errors.New("connection failed")

	// ErrExecFailed indicates the relational store rejected or failed the
	// submitted query.
	ErrExecFailed = errors.New("query execution failed")

	// ErrUnexpectedRowCount indicates a query produced a result shape other
	// than the required one.
	ErrUnexpectedRowCount = errors.New("unexpected row count")

	// ErrExecutionFailed indicates an operation handler failed. Store-layer
	// failures keep their own sentinel; everything else a handler raises,
	// including a panic, surfaces as this.
	ErrExecutionFailed = errors.New("operation execution failed")

	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConfigNotFound indicates no project configuration file was found.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")
)

// ErrorKind classifies a call failure for structured results.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindUnknownOperation
	KindInvalidArgument
	KindOutOfRange
	KindDuplicateName
	KindConnectFailed
	KindExecFailed
	KindUnexpectedRowCount
	KindExecutionFailed
)

// String returns a stable, human-readable name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindUnknownOperation:
		return "UnknownOperation"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindOutOfRange:
		return "OutOfRange"
	case KindDuplicateName:
		return "DuplicateName"
	case KindConnectFailed:
		return "ConnectFailed"
	case KindExecFailed:
		return "ExecFailed"
	case KindUnexpectedRowCount:
		return "UnexpectedRowCount"
	case KindExecutionFailed:
		return "ExecutionFailed"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// sentinel returns the sentinel error corresponding to the kind.
func (k ErrorKind) sentinel() error {
	switch k {
	case KindUnknownOperation:
		return ErrUnknownOperation
	case KindInvalidArgument:
		return ErrInvalidArgument
	case KindOutOfRange:
		return ErrOutOfRange
	case KindDuplicateName:
		return ErrDuplicateName
	case KindConnectFailed:
		return ErrConnectFailed
	case KindExecFailed:
		return ErrExecFailed
	case KindUnexpectedRowCount:
		return ErrUnexpectedRowCount
	case KindExecutionFailed:
		return ErrExecutionFailed
	default:
		return nil
	}
}

// KindForError classifies an error by walking its chain with errors.Is.
// A nil error is KindNone; any non-nil error that matches no store or
// validation sentinel is KindExecutionFailed.
func KindForError(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	switch {
	case errors.Is(err, ErrUnknownOperation):
		return KindUnknownOperation
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrOutOfRange):
		return KindOutOfRange
	case errors.Is(err, ErrDuplicateName):
		return KindDuplicateName
	case errors.Is(err, ErrConnectFailed):
		return KindConnectFailed
	case errors.Is(err, ErrExecFailed):
		return KindExecFailed
	case errors.Is(err, ErrUnexpectedRowCount):
		return KindUnexpectedRowCount
	}

	return KindExecutionFailed
}

// CallError is the structured failure carried by a CallResult.
// It unwraps to the sentinel for its Kind, so errors.Is works on results:
//
//	if errors.Is(result.Err, pgcall.ErrUnexpectedRowCount) { ... }
type CallError struct {
	Kind    ErrorKind
	Message string
}

// NewCallError classifies err and captures its message.
// Returns nil for a nil error.
func NewCallError(err error) *CallError {
	if err == nil {
		return nil
	}
	return &CallError{
		Kind:    KindForError(err),
		Message: err.Error(),
	}
}

// Error implements the error interface.
func (e *CallError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the sentinel error for the kind so that errors.Is can
// match a CallError against the taxonomy.
func (e *CallError) Unwrap() error {
	return e.Kind.sentinel()
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Check for sentinel errors
	switch {
	case errors.Is(err, ErrUnknownOperation):
		return ExitUnknownOperation
	case errors.Is(err, ErrInvalidArgument):
		return ExitInvalidArgument
	case errors.Is(err, ErrOutOfRange):
		return ExitConfigError
	case errors.Is(err, ErrUnknownSetting):
		return ExitConfigError
	case errors.Is(err, ErrConnectFailed):
		return ExitConnectionError
	case errors.Is(err, ErrExecFailed):
		return ExitExecFailed
	case errors.Is(err, ErrUnexpectedRowCount):
		return ExitUnexpectedRowCount
	case errors.Is(err, ErrExecutionFailed):
		return ExitExecutionFailed
	case errors.Is(err, ErrDuplicateName):
		return ExitConfigError
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrConfigNotFound):
		return ExitConfigError
	case errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	}

	errStr := err.Error()

	// Check for cobra usage error patterns
	if strings.Contains(errStr, "unknown flag") ||
		strings.Contains(errStr, "unknown shorthand flag") ||
		strings.Contains(errStr, "unknown command") ||
		strings.Contains(errStr, "accepts ") ||
		strings.Contains(errStr, "required flag") ||
		strings.Contains(errStr, "invalid argument \"") {
		return ExitUsageError
	}

	// Check for common connection error patterns
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
