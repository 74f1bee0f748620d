package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/pgcall/pgcall/internal/scaffold"
)

// sslModes contains valid PostgreSQL SSL modes for shell completion.
var sslModes = []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}

// completeTemplateNames provides shell completion for template names.
func completeTemplateNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	templates, err := scaffold.ListTemplates()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var matches []string
	for _, t := range templates {
		if strings.HasPrefix(t, toComplete) {
			matches = append(matches, t)
		}
	}

	return matches, cobra.ShellCompDirectiveNoFileComp
}

// completeOperationNames provides shell completion for operation names.
func completeOperationNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		// Only the first positional is an operation name.
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	ops, err := operationCatalog()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var matches []string
	for _, op := range ops {
		if strings.HasPrefix(op.Name(), toComplete) {
			matches = append(matches, op.Name())
		}
	}

	return matches, cobra.ShellCompDirectiveNoFileComp
}

// completeSSLModes provides shell completion for SSL mode flag values.
func completeSSLModes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var matches []string
	for _, mode := range sslModes {
		if strings.HasPrefix(mode, toComplete) {
			matches = append(matches, mode)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

// completeDirectories provides shell completion for directory paths.
func completeDirectories(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	// Let the shell handle directory completion
	return nil, cobra.ShellCompDirectiveFilterDirs
}
