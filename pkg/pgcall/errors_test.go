package pgcall_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pgcall/pgcall/pkg/pgcall"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, pgcall.ExitSuccess},
		{"general error", errors.New("something went wrong"), pgcall.ExitGeneralError},
		{"unknown operation", pgcall.ErrUnknownOperation, pgcall.ExitUnknownOperation},
		{"invalid argument", pgcall.ErrInvalidArgument, pgcall.ExitInvalidArgument},
		{"out of range", pgcall.ErrOutOfRange, pgcall.ExitConfigError},
		{"unknown setting", pgcall.ErrUnknownSetting, pgcall.ExitConfigError},
		{"connect failed", pgcall.ErrConnectFailed, pgcall.ExitConnectionError},
		{"exec failed", pgcall.ErrExecFailed, pgcall.ExitExecFailed},
		{"unexpected row count", pgcall.ErrUnexpectedRowCount, pgcall.ExitUnexpectedRowCount},
		{"execution failed", pgcall.ErrExecutionFailed, pgcall.ExitExecutionFailed},
		{"duplicate name", pgcall.ErrDuplicateName, pgcall.ExitConfigError},
		{"invalid config", pgcall.ErrInvalidConfig, pgcall.ExitConfigError},
		{"config not found", pgcall.ErrConfigNotFound, pgcall.ExitConfigError},
		{"unsupported auth", pgcall.ErrUnsupportedAuthMethod, pgcall.ExitConfigError},
		{"wrapped connect failed", fmt.Errorf("opening store: %w", pgcall.ErrConnectFailed), pgcall.ExitConnectionError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pgcall.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeForError_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown flag", errors.New("unknown flag --foo"), pgcall.ExitUsageError},
		{"unknown shorthand flag", errors.New("unknown shorthand flag: 'x'"), pgcall.ExitUsageError},
		{"unknown command", errors.New("unknown command \"dispatch\" for \"pgcall\""), pgcall.ExitUsageError},
		{"accepts args", errors.New("accepts 1 arg(s), received 0"), pgcall.ExitUsageError},
		{"required flag", errors.New("required flag \"connection\" not set"), pgcall.ExitUsageError},
		{"invalid flag value", errors.New("invalid argument \"abc\" for \"--port\""), pgcall.ExitUsageError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pgcall.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeForError_ConnectionPatterns(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"failed to connect", errors.New("failed to connect to `host=localhost`")},
		{"connection refused", errors.New("dial tcp 127.0.0.1:5432: connection refused")},
		{"no such host", errors.New("dial tcp: lookup nowhere.invalid: no such host")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pgcall.ExitCodeForError(tt.err); got != pgcall.ExitConnectionError {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, pgcall.ExitConnectionError)
			}
		})
	}
}

func TestKindForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want pgcall.ErrorKind
	}{
		{"nil", nil, pgcall.KindNone},
		{"unknown operation", pgcall.ErrUnknownOperation, pgcall.KindUnknownOperation},
		{"invalid argument", pgcall.ErrInvalidArgument, pgcall.KindInvalidArgument},
		{"out of range", pgcall.ErrOutOfRange, pgcall.KindOutOfRange},
		{"duplicate name", pgcall.ErrDuplicateName, pgcall.KindDuplicateName},
		{"connect failed", pgcall.ErrConnectFailed, pgcall.KindConnectFailed},
		{"exec failed", pgcall.ErrExecFailed, pgcall.KindExecFailed},
		{"unexpected row count", pgcall.ErrUnexpectedRowCount, pgcall.KindUnexpectedRowCount},
		{"execution failed", pgcall.ErrExecutionFailed, pgcall.KindExecutionFailed},
		{"wrapped exec failed", fmt.Errorf("running query: %w", pgcall.ErrExecFailed), pgcall.KindExecFailed},
		{"arbitrary handler error", errors.New("boom"), pgcall.KindExecutionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pgcall.KindForError(tt.err); got != tt.want {
				t.Errorf("KindForError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestCallError_Unwrap(t *testing.T) {
	callErr := pgcall.NewCallError(fmt.Errorf("result had 3 rows: %w", pgcall.ErrUnexpectedRowCount))

	if callErr == nil {
		t.Fatal("NewCallError returned nil for a non-nil error")
	}
	if callErr.Kind != pgcall.KindUnexpectedRowCount {
		t.Errorf("Kind = %v, want %v", callErr.Kind, pgcall.KindUnexpectedRowCount)
	}
	if !errors.Is(callErr, pgcall.ErrUnexpectedRowCount) {
		t.Error("errors.Is(callErr, ErrUnexpectedRowCount) = false, want true")
	}
	if errors.Is(callErr, pgcall.ErrConnectFailed) {
		t.Error("errors.Is(callErr, ErrConnectFailed) = true, want false")
	}
}

func TestNewCallError_Nil(t *testing.T) {
	if got := pgcall.NewCallError(nil); got != nil {
		t.Errorf("NewCallError(nil) = %v, want nil", got)
	}
}

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind pgcall.ErrorKind
		want string
	}{
		{pgcall.KindNone, "None"},
		{pgcall.KindUnknownOperation, "UnknownOperation"},
		{pgcall.KindInvalidArgument, "InvalidArgument"},
		{pgcall.KindOutOfRange, "OutOfRange"},
		{pgcall.KindDuplicateName, "DuplicateName"},
		{pgcall.KindConnectFailed, "ConnectFailed"},
		{pgcall.KindExecFailed, "ExecFailed"},
		{pgcall.KindUnexpectedRowCount, "UnexpectedRowCount"},
		{pgcall.KindExecutionFailed, "ExecutionFailed"},
		{pgcall.ErrorKind(99), "Unknown(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
