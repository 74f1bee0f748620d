package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RequireSettingName validates arguments for commands that take exactly one
// setting name, with a friendlier message than cobra's default.
func RequireSettingName(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: setting name

Usage:   pgcall config get <name>
Example: pgcall config get repeat`)
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	return nil
}

// RequireSettingNameAndValue validates arguments for commands that take a
// setting name followed by an integer value.
func RequireSettingNameAndValue(cmd *cobra.Command, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf(`missing required arguments: setting name and value

Usage:   pgcall config set <name> <value>
Example: pgcall config set repeat 3`)
	}
	if len(args) > 2 {
		return fmt.Errorf("accepts 2 arg(s), received %d", len(args))
	}
	return nil
}
