package cli

import (
	"testing"

	"github.com/pgcall/pgcall/internal/config"
	"github.com/pgcall/pgcall/internal/db"
)

func TestConnectionStringFromEnv_Precedence(t *testing.T) {
	clearConnectionEnv(t)

	t.Run("empty when nothing set", func(t *testing.T) {
		if got := connectionStringFromEnv(); got != "" {
			t.Errorf("connectionStringFromEnv() = %q, want empty", got)
		}
	})

	t.Run("DATABASE_URL fallback", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgresql://localhost/fallback")
		if got := connectionStringFromEnv(); got != "postgresql://localhost/fallback" {
			t.Errorf("connectionStringFromEnv() = %q, want DATABASE_URL value", got)
		}
	})

	t.Run("PGCALL_CONNECTION_STRING wins", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgresql://localhost/fallback")
		t.Setenv("PGCALL_CONNECTION_STRING", "postgresql://localhost/primary")
		if got := connectionStringFromEnv(); got != "postgresql://localhost/primary" {
			t.Errorf("connectionStringFromEnv() = %q, want PGCALL_CONNECTION_STRING value", got)
		}
	})
}

func TestHasEnvConnectionSource(t *testing.T) {
	clearConnectionEnv(t)

	t.Run("false when nothing set", func(t *testing.T) {
		if hasEnvConnectionSource() {
			t.Error("expected false with empty environment")
		}
	})

	t.Run("true with connection string", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgresql://localhost/db")
		if !hasEnvConnectionSource() {
			t.Error("expected true with DATABASE_URL")
		}
	})

	t.Run("PGHOST alone is not enough", func(t *testing.T) {
		t.Setenv("PGHOST", "localhost")
		if hasEnvConnectionSource() {
			t.Error("expected false with only PGHOST")
		}
	})

	t.Run("true with PGHOST and PGDATABASE", func(t *testing.T) {
		t.Setenv("PGHOST", "localhost")
		t.Setenv("PGDATABASE", "mydb")
		if !hasEnvConnectionSource() {
			t.Error("expected true with PGHOST and PGDATABASE")
		}
	})
}

func TestResolveConnection_EnvConnectionString(t *testing.T) {
	clearConnectionEnv(t)
	t.Setenv("PGCALL_CONNECTION_STRING", "postgresql://envuser@envhost:5433/envdb")

	cfg, err := resolveConnection("", &db.GranularConnFlags{}, nil, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("resolveConnection() error = %v", err)
	}
	if cfg.Host != "envhost" || cfg.Port != 5433 || cfg.Database != "envdb" {
		t.Errorf("resolved %s:%d/%s, want envhost:5433/envdb", cfg.Host, cfg.Port, cfg.Database)
	}
}

func TestResolveConnection_FlagsWinOverEnvString(t *testing.T) {
	clearConnectionEnv(t)
	t.Setenv("DATABASE_URL", "postgresql://envuser@envhost:5433/envdb")

	// Granular flags suppress the environment connection string entirely
	// instead of conflicting with it.
	granular := &db.GranularConnFlags{Host: "flaghost", Port: 5432, Username: "flaguser"}
	cfg, err := resolveConnection("", granular, nil, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("resolveConnection() error = %v", err)
	}
	if cfg.Host != "flaghost" {
		t.Errorf("Host = %q, want %q", cfg.Host, "flaghost")
	}
	if cfg.Username != "flaguser" {
		t.Errorf("Username = %q, want %q", cfg.Username, "flaguser")
	}
}

func TestResolveConnection_ExplicitStringConflictsWithFlags(t *testing.T) {
	clearConnectionEnv(t)

	granular := &db.GranularConnFlags{Host: "flaghost"}
	_, err := resolveConnection("postgresql://localhost/db", granular, nil, nil, nil, nil, nil)
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if !contains(err.Error(), "cannot specify both --connection and granular flags") {
		t.Errorf("error = %v, want conflict message", err)
	}
}

func TestResolveConnection_ProjectConfigFallback(t *testing.T) {
	clearConnectionEnv(t)

	projectCfg := &config.ProjectConfig{
		Connection: config.ConnectionConfig{
			Host:     "confighost",
			Port:     5435,
			Username: "configuser",
			Database: "configdb",
			SSLMode:  "require",
		},
	}

	cfg, err := resolveConnection("", &db.GranularConnFlags{}, nil, nil, nil, nil, projectCfg)
	if err != nil {
		t.Fatalf("resolveConnection() error = %v", err)
	}
	if cfg.Host != "confighost" || cfg.Port != 5435 {
		t.Errorf("resolved %s:%d, want confighost:5435", cfg.Host, cfg.Port)
	}
	if cfg.SSLMode != "require" {
		t.Errorf("SSLMode = %q, want %q", cfg.SSLMode, "require")
	}
}

func TestResolveConnection_FlagOverridesProjectConfig(t *testing.T) {
	clearConnectionEnv(t)

	projectCfg := &config.ProjectConfig{
		Connection: config.ConnectionConfig{Host: "confighost", Database: "configdb"},
	}

	granular := &db.GranularConnFlags{Host: "flaghost"}
	cfg, err := resolveConnection("", granular, nil, nil, nil, nil, projectCfg)
	if err != nil {
		t.Fatalf("resolveConnection() error = %v", err)
	}
	if cfg.Host != "flaghost" {
		t.Errorf("Host = %q, want flag value %q", cfg.Host, "flaghost")
	}
	if cfg.Database != "configdb" {
		t.Errorf("Database = %q, want config value %q", cfg.Database, "configdb")
	}
}

func TestShouldRunConnectionWizard_NonInteractive(t *testing.T) {
	clearConnectionEnv(t)
	t.Setenv("PGCALL_NON_INTERACTIVE", "1")

	if shouldRunConnectionWizard(connectionFlags{}, nil) {
		t.Error("wizard must not run outside an interactive terminal")
	}
}

func TestConnectionFlags_IsEmpty(t *testing.T) {
	if !(&connectionFlags{}).isEmpty() {
		t.Error("zero flags should be empty")
	}
	if (&connectionFlags{aws: true}).isEmpty() {
		t.Error("cloud auth flag should make flags non-empty")
	}
	if (&connectionFlags{database: "mydb"}).isEmpty() {
		t.Error("database flag should make flags non-empty")
	}
}

// Helper function to check if string contains substring
func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 ||
		(len(s) > 0 && len(substr) > 0 && findSubstring(s, substr)))
}

func findSubstring(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
