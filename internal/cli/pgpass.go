package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pgcall/pgcall/internal/tui"
	"github.com/pgcall/pgcall/pkg/pgcall"
)

// pgpassPath returns the platform-appropriate password file path,
// following libpq rules: PGPASSFILE wins, then the OS default location.
func pgpassPath() string {
	if custom := os.Getenv("PGPASSFILE"); custom != "" {
		return custom
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "postgresql", "pgpass.conf")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pgpass")
}

// offerSavePgpass prompts the user to save the password to .pgpass after a
// successful wizard. The connection layer reads the file natively on later
// invocations; the password itself never goes into pgcall.yaml.
// Does nothing if password is empty, terminal is non-interactive, or user declines.
func offerSavePgpass(cfg *pgcall.ConnectionConfig) {
	if cfg.Password == "" || !tui.IsInteractive() {
		return
	}

	fmt.Fprintln(os.Stderr, "")
	if !tui.PromptContinue("Save password to .pgpass for future sessions?") {
		fmt.Fprintln(os.Stderr, "Tip: provide password via $PGPASSWORD, .pgpass, or connection string.")
		return
	}

	if err := writePgpassEntry(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save .pgpass: %v\n", err)
		fmt.Fprintln(os.Stderr, "Tip: provide password via $PGPASSWORD or connection string.")
		return
	}

	fmt.Fprintf(os.Stderr, "Saved to %s\n", pgpassPath())
}

// writePgpassEntry adds or updates the host:port:database:username entry.
// Other entries are preserved untouched.
func writePgpassEntry(cfg *pgcall.ConnectionConfig) error {
	path := pgpassPath()
	if path == "" {
		return fmt.Errorf("cannot determine home directory")
	}

	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	host := escapePgpass(cfg.Host)
	port := fmt.Sprintf("%d", cfg.Port)
	db := escapePgpass(cfg.Database)
	user := escapePgpass(cfg.Username)
	password := escapePgpass(cfg.Password)

	newEntry := fmt.Sprintf("%s:%s:%s:%s:%s", host, port, db, user, password)
	matchPrefix := fmt.Sprintf("%s:%s:%s:%s:", host, port, db, user)

	var lines []string
	if data, err := os.ReadFile(path); err == nil {
		if trimmed := strings.TrimRight(string(data), "\n"); trimmed != "" {
			lines = strings.Split(trimmed, "\n")
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read existing .pgpass: %w", err)
	}

	// Replace existing entry or append
	found := false
	for i, line := range lines {
		if strings.HasPrefix(line, matchPrefix) {
			lines[i] = newEntry
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, newEntry)
	}

	content := strings.Join(lines, "\n") + "\n"

	// Write with restricted permissions (0600 required by PostgreSQL on Unix)
	return os.WriteFile(path, []byte(content), 0600)
}

// escapePgpass escapes colons and backslashes in a .pgpass field value.
func escapePgpass(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `:`, `\:`)
	return s
}
