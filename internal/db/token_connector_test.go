package db

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pgcall/pgcall/internal/logging"
	"github.com/pgcall/pgcall/pkg/pgcall"
)

// MockTokenProvider is a test implementation of TokenProvider.
type MockTokenProvider struct {
	Token     string
	ExpiresOn time.Time
	Err       error
}

func (m *MockTokenProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	if m.Err != nil {
		return "", time.Time{}, m.Err
	}
	return m.Token, m.ExpiresOn, nil
}

func (m *MockTokenProvider) String() string {
	return "MockTokenProvider"
}

func TestNewTokenBasedConnector(t *testing.T) {
	config := &pgcall.ConnectionConfig{
		Host:       "testserver.postgres.database.azure.com",
		Port:       5432,
		Database:   "testdb",
		Username:   "testuser",
		AuthMethod: pgcall.AuthMethodAzureEntraID,
	}

	mockProvider := &MockTokenProvider{
		Token:     "test-token",
		ExpiresOn: time.Now().Add(1 * time.Hour),
	}

	connector := NewTokenBasedConnector(config, mockProvider, "Azure", logging.NewNullLogger())

	if connector.config != config {
		t.Error("config not set correctly")
	}
	if connector.tokenProvider != mockProvider {
		t.Error("tokenProvider not set correctly")
	}
	if connector.providerName != "Azure" {
		t.Errorf("providerName = %q, want Azure", connector.providerName)
	}
}

func TestNewTokenBasedConnector_PanicsOnNilProvider(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil token provider")
		}
	}()
	NewTokenBasedConnector(&pgcall.ConnectionConfig{}, nil, "Azure", logging.NewNullLogger())
}

func TestTokenBasedConnector_TokenAcquisitionFailure(t *testing.T) {
	config := &pgcall.ConnectionConfig{
		Host:     "testserver.postgres.database.azure.com",
		Port:     5432,
		Database: "testdb",
		Username: "testuser",
	}

	tokenErr := errors.New("credential expired")
	connector := NewTokenBasedConnector(config, &MockTokenProvider{Err: tokenErr}, "Azure", logging.NewNullLogger())

	_, err := connector.Connect(context.Background())
	if err == nil {
		t.Fatal("expected error when token acquisition fails")
	}
	if !strings.Contains(err.Error(), "failed to acquire Azure token") {
		t.Errorf("error = %q, want it to name the provider", err.Error())
	}
	if !errors.Is(err, tokenErr) {
		t.Error("error does not unwrap to the provider error")
	}
}

func TestNewAzureServicePrincipalProvider_RequiresAllParams(t *testing.T) {
	tests := []struct {
		name         string
		tenantID     string
		clientID     string
		clientSecret string
		wantErr      bool
	}{
		{
			name:         "all params provided",
			tenantID:     "tenant-id",
			clientID:     "client-id",
			clientSecret: "client-secret",
			wantErr:      false,
		},
		{
			name:         "missing tenant ID",
			tenantID:     "",
			clientID:     "client-id",
			clientSecret: "client-secret",
			wantErr:      true,
		},
		{
			name:         "missing client ID",
			tenantID:     "tenant-id",
			clientID:     "",
			clientSecret: "client-secret",
			wantErr:      true,
		},
		{
			name:         "missing client secret",
			tenantID:     "tenant-id",
			clientID:     "client-id",
			clientSecret: "",
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAzureServicePrincipalProvider(tt.tenantID, tt.clientID, tt.clientSecret)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewAzureServicePrincipalProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewAWSIAMTokenProvider_Validation(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		region   string
		username string
		wantErr  string
	}{
		{
			name:     "all params provided",
			endpoint: "mydb.rds.amazonaws.com:5432",
			region:   "us-west-2",
			username: "iamuser",
		},
		{
			name:     "missing endpoint",
			region:   "us-west-2",
			username: "iamuser",
			wantErr:  "endpoint",
		},
		{
			name:     "missing region",
			endpoint: "mydb.rds.amazonaws.com:5432",
			username: "iamuser",
			wantErr:  "--aws-region or $AWS_REGION",
		},
		{
			name:     "missing username",
			endpoint: "mydb.rds.amazonaws.com:5432",
			region:   "us-west-2",
			wantErr:  "username",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewAWSIAMTokenProvider(tt.endpoint, tt.region, tt.username)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("NewAWSIAMTokenProvider() error = %v", err)
				}
				if provider == nil {
					t.Fatal("expected non-nil provider")
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestAWSIAMTokenProvider_String(t *testing.T) {
	provider, err := NewAWSIAMTokenProvider("mydb.rds.amazonaws.com:5432", "us-west-2", "iamuser")
	if err != nil {
		t.Fatalf("NewAWSIAMTokenProvider() error = %v", err)
	}

	s := provider.String()
	for _, want := range []string{"mydb.rds.amazonaws.com:5432", "us-west-2", "iamuser"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, want it to contain %q", s, want)
		}
	}
}
