package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pgcall/pgcall/internal/config"
	"github.com/pgcall/pgcall/internal/settings"
	"github.com/pgcall/pgcall/internal/tui"
	"github.com/pgcall/pgcall/internal/tui/wizards"
)

var configCmd = &cobra.Command{
	Use:   "config [path]",
	Short: "Create or inspect pgcall.yaml",
	Long: `Walks through connection and setting configuration interactively and
writes the result to pgcall.yaml in the given directory (default: current).

Subcommands read and write individual settings without the wizard:

  pgcall config get repeat
  pgcall config set repeat 3
  pgcall config list`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeDirectories,
	RunE:              runConfig,
}

var configGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Print a setting's effective value",
	Args:  RequireSettingName,
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Validate and persist a setting value",
	Args:  RequireSettingNameAndValue,
	RunE:  runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List settings with ranges and the stored connection",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	if !tui.IsInteractive() {
		return fmt.Errorf("the configuration wizard needs an interactive terminal; edit %s directly or use 'pgcall config set'",
			config.ConfigFileName)
	}

	if _, err := config.Load(targetDir); err == nil {
		fmt.Printf("Found existing %s\n", config.ConfigFileName)
		if !tui.PromptContinue("Overwrite existing configuration?") {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	connResult, err := wizards.RunConnectionWizard()
	if err != nil {
		return fmt.Errorf("connection wizard failed: %w", err)
	}
	if connResult.Cancelled {
		fmt.Println("Cancelled.")
		return nil
	}

	cfgResult, err := wizards.RunConfigWizard(connResult.Config)
	if err != nil {
		return fmt.Errorf("configuration wizard failed: %w", err)
	}
	if cfgResult.Cancelled {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := config.Save(targetDir, &cfgResult.Config); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	fmt.Printf("%s Configuration saved to %s\n", tui.SymbolCheck, config.Path(targetDir))

	offerSavePgpass(&connResult.Config)
	return nil
}

// effectiveStore builds the settings store with pgcall.yaml values applied.
// Persisted values are re-validated here, so a hand-edited out-of-range
// value surfaces instead of being silently clamped.
func effectiveStore(projectCfg *config.ProjectConfig) (*settings.Store, error) {
	store := settings.NewDefaultStore()
	if projectCfg != nil && len(projectCfg.Settings) > 0 {
		if err := store.Apply(projectCfg.Settings); err != nil {
			return nil, fmt.Errorf("invalid settings in %s: %w", config.ConfigFileName, err)
		}
	}
	return store, nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	projectCfg, err := loadProjectConfig(".")
	if err != nil {
		return err
	}

	store, err := effectiveStore(projectCfg)
	if err != nil {
		return err
	}

	value, err := store.Get(args[0])
	if err != nil {
		return err
	}

	fmt.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	name := args[0]
	value, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("value must be an integer, got %q", args[1])
	}

	// Validate against the store bounds before touching the file, so a
	// rejected value leaves pgcall.yaml unchanged.
	store := settings.NewDefaultStore()
	if err := store.Set(name, value); err != nil {
		return err
	}

	projectCfg, err := loadProjectConfig(".")
	if err != nil {
		return err
	}
	if projectCfg == nil {
		projectCfg = &config.ProjectConfig{}
	}
	if projectCfg.Settings == nil {
		projectCfg.Settings = make(map[string]int)
	}
	projectCfg.Settings[name] = value

	if err := config.Save(".", projectCfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Printf("%s = %d\n", name, value)
	return nil
}

func runConfigList(cmd *cobra.Command, args []string) error {
	projectCfg, err := loadProjectConfig(".")
	if err != nil {
		return err
	}

	store, err := effectiveStore(projectCfg)
	if err != nil {
		return err
	}

	fmt.Println("Settings:")
	for _, s := range store.List() {
		fmt.Printf("  %s = %d  (range %d-%d, default %d)\n",
			s.Name, s.Value, s.Min, s.Max, s.Default)
	}

	if projectCfg == nil {
		fmt.Printf("\nNo %s found; defaults shown.\n", config.ConfigFileName)
		return nil
	}

	if projectCfg.Timeout != "" {
		fmt.Printf("\nTimeout: %s\n", projectCfg.Timeout)
	}

	conn := projectCfg.Connection
	if conn != (config.ConnectionConfig{}) {
		fmt.Printf("\nConnection: %s:%d/%s", conn.Host, conn.Port, conn.Database)
		if conn.Username != "" {
			fmt.Printf(" (%s)", conn.Username)
		}
		fmt.Println()
		if conn.AuthMethod != "" {
			fmt.Printf("Auth method: %s\n", conn.AuthMethod)
		}
	}

	return nil
}
