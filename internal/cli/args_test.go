package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestRequireSettingName(t *testing.T) {
	cmd := &cobra.Command{
		Use: "get <name>",
	}

	t.Run("returns error when no args", func(t *testing.T) {
		err := RequireSettingName(cmd, []string{})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "missing required argument: setting name") {
			t.Errorf("expected error to contain 'missing required argument: setting name', got: %s", err.Error())
		}
		if !strings.Contains(err.Error(), "Example:") {
			t.Errorf("expected error to contain 'Example:', got: %s", err.Error())
		}
	})

	t.Run("returns nil when arg provided", func(t *testing.T) {
		err := RequireSettingName(cmd, []string{"repeat"})
		if err != nil {
			t.Errorf("expected nil, got: %v", err)
		}
	})

	t.Run("returns error when too many args", func(t *testing.T) {
		err := RequireSettingName(cmd, []string{"a", "b"})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "accepts 1 arg") {
			t.Errorf("expected error to contain 'accepts 1 arg', got: %s", err.Error())
		}
	})
}

func TestRequireSettingNameAndValue(t *testing.T) {
	cmd := &cobra.Command{
		Use: "set <name> <value>",
	}

	t.Run("returns error when no args", func(t *testing.T) {
		err := RequireSettingNameAndValue(cmd, []string{})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "missing required arguments: setting name and value") {
			t.Errorf("expected error to contain 'missing required arguments: setting name and value', got: %s", err.Error())
		}
	})

	t.Run("returns error when only name provided", func(t *testing.T) {
		err := RequireSettingNameAndValue(cmd, []string{"repeat"})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("returns nil when both provided", func(t *testing.T) {
		err := RequireSettingNameAndValue(cmd, []string{"repeat", "3"})
		if err != nil {
			t.Errorf("expected nil, got: %v", err)
		}
	})

	t.Run("returns error when too many args", func(t *testing.T) {
		err := RequireSettingNameAndValue(cmd, []string{"a", "b", "c"})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "accepts 2 arg") {
			t.Errorf("expected error to contain 'accepts 2 arg', got: %s", err.Error())
		}
	})
}
