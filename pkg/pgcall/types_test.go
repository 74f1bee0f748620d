package pgcall_test

import (
	"errors"
	"testing"
	"time"

	"github.com/pgcall/pgcall/pkg/pgcall"
)

func TestCallConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		config    pgcall.CallConfig
		wantError bool
		errorType error
	}{
		{
			name: "valid config",
			config: pgcall.CallConfig{
				ConnectionString: "postgresql://localhost:5432/postgres",
				ConnectAttempts:  1,
			},
			wantError: false,
		},
		{
			name:      "empty config is valid",
			config:    pgcall.CallConfig{},
			wantError: false,
		},
		{
			name: "valid config with settings overrides",
			config: pgcall.CallConfig{
				Settings: map[string]int{pgcall.SettingRepeat: 3},
				Timeout:  30 * time.Second,
			},
			wantError: false,
		},
		{
			name: "negative timeout",
			config: pgcall.CallConfig{
				Timeout: -1 * time.Second,
			},
			wantError: true,
			errorType: pgcall.ErrInvalidConfig,
		},
		{
			name: "negative connect attempts",
			config: pgcall.CallConfig{
				ConnectAttempts: -1,
			},
			wantError: true,
			errorType: pgcall.ErrInvalidConfig,
		},
		{
			name: "unknown auth method",
			config: pgcall.CallConfig{
				AuthMethod: pgcall.AuthMethod(42),
			},
			wantError: true,
			errorType: pgcall.ErrInvalidConfig,
		},
		{
			name: "multiple validation errors",
			config: pgcall.CallConfig{
				Timeout:         -1 * time.Second,
				ConnectAttempts: -2,
			},
			wantError: true,
			errorType: pgcall.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()

			if tt.wantError {
				if err == nil {
					t.Errorf("Validate() expected error, got nil")
					return
				}

				if tt.errorType != nil && !errors.Is(err, tt.errorType) {
					t.Errorf("Validate() error type = %v, want %v", err, tt.errorType)
				}
			} else {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			}
		})
	}
}

func TestAuthMethod_String(t *testing.T) {
	tests := []struct {
		method pgcall.AuthMethod
		want   string
	}{
		{pgcall.AuthMethodStandard, "Standard"},
		{pgcall.AuthMethodCertificate, "Certificate"},
		{pgcall.AuthMethodAWSIAM, "AWS IAM"},
		{pgcall.AuthMethodGoogleIAM, "Google IAM"},
		{pgcall.AuthMethodAzureEntraID, "Azure Entra ID"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.method.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAuthMethod_IsValid(t *testing.T) {
	for m := pgcall.AuthMethodStandard; m <= pgcall.AuthMethodAzureEntraID; m++ {
		if !m.IsValid() {
			t.Errorf("IsValid() = false for defined method %v", m)
		}
	}

	if pgcall.AuthMethod(-1).IsValid() {
		t.Error("IsValid() = true for AuthMethod(-1)")
	}
	if pgcall.AuthMethod(99).IsValid() {
		t.Error("IsValid() = true for AuthMethod(99)")
	}
}

func TestValueKind_String(t *testing.T) {
	tests := []struct {
		kind pgcall.ValueKind
		want string
	}{
		{pgcall.ValueString, "string"},
		{pgcall.ValueInt, "int"},
		{pgcall.ValueRows, "rows"},
		{pgcall.ValueKind(7), "Unknown(7)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueConstructors(t *testing.T) {
	s := pgcall.StringValue("hello")
	if s.Kind != pgcall.ValueString || s.Str != "hello" {
		t.Errorf("StringValue = %+v, want string kind with Str %q", s, "hello")
	}

	n := pgcall.IntValue(42)
	if n.Kind != pgcall.ValueInt || n.Int != 42 {
		t.Errorf("IntValue = %+v, want int kind with Int 42", n)
	}

	rs := pgcall.RowSet{
		Columns: []string{"version"},
		Rows:    []pgcall.Row{{pgcall.Cell{Valid: true, Text: "16.1"}}},
	}
	r := pgcall.RowsValue(rs)
	if r.Kind != pgcall.ValueRows || len(r.Rows.Rows) != 1 {
		t.Errorf("RowsValue = %+v, want rows kind with one row", r)
	}
}

func TestCallResult_Ok(t *testing.T) {
	ok := pgcall.OkResult(pgcall.StringValue("done"))
	if !ok.Ok() {
		t.Error("OkResult(...).Ok() = false, want true")
	}

	failed := pgcall.ErrResult(pgcall.ErrUnknownOperation)
	if failed.Ok() {
		t.Error("ErrResult(...).Ok() = true, want false")
	}
	if failed.Err == nil || failed.Err.Kind != pgcall.KindUnknownOperation {
		t.Errorf("ErrResult(...).Err = %+v, want UnknownOperation kind", failed.Err)
	}
}
