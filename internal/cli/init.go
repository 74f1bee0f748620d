package cli

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pgcall/pgcall/internal/config"
	"github.com/pgcall/pgcall/internal/logging"
	"github.com/pgcall/pgcall/internal/scaffold"
	"github.com/pgcall/pgcall/internal/tui"
	"github.com/pgcall/pgcall/internal/tui/wizards"
)

var initCmd = &cobra.Command{
	Use:   "init [target_path]",
	Short: "Initialize a new pgcall project",
	Long: `Creates a project directory with pgcall.yaml and supporting files from a
template. The target directory must be empty or nonexistent.

In an interactive terminal the init wizard walks through template choice
and, optionally, connection setup. With --template or outside a terminal
the files are created directly.

Examples:
  pgcall init
  pgcall init my-project
  pgcall init my-project --template minimal
  pgcall init --list`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeDirectories,
	RunE:              runInit,
}

var initFlagValues struct {
	template string
	list     bool
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initFlagValues.template, "template", "t",
		scaffold.DefaultTemplate, "Project template")
	initCmd.Flags().BoolVar(&initFlagValues.list, "list", false,
		"List available templates")
	_ = initCmd.RegisterFlagCompletionFunc("template", completeTemplateNames)
}

func runInit(cmd *cobra.Command, args []string) error {
	if initFlagValues.list {
		fmt.Println("Available templates:")
		for _, t := range wizards.DefaultTemplates() {
			fmt.Printf("  %-10s %s\n", t.Name, t.Description)
		}
		return nil
	}

	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	verbose := getVerboseFlag(cmd)

	if tui.IsInteractive() && !cmd.Flags().Changed("template") {
		return runInitWizardFlow(targetDir, verbose)
	}
	return runInitDirect(targetDir, initFlagValues.template, verbose)
}

func runInitWizardFlow(targetDir string, verbose bool) error {
	result, err := wizards.RunInitWizard(targetDir)
	if err != nil {
		return fmt.Errorf("init wizard failed: %w", err)
	}
	if result.Cancelled {
		fmt.Println("Cancelled.")
		return nil
	}

	targetDir = result.TargetDir
	scaffolder := scaffold.NewScaffolder(logging.NewConsoleLogger(verbose))
	if err := scaffolder.CreateProject(projectNameFor(targetDir), result.Template, targetDir); err != nil {
		return err
	}

	// The wizard collects configuration but never writes files; the
	// scaffolded pgcall.yaml is replaced with the collected one here.
	if result.SetupConfig && !result.ConfigResult.Cancelled {
		if err := config.Save(targetDir, &result.ConfigResult.Config); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
		if !result.ConnResult.Cancelled {
			offerSavePgpass(&result.ConnResult.Config)
		}
	}

	tree, err := scaffold.BuildFileTree(targetDir)
	if err != nil {
		tree = ""
	}
	wizards.ShowInitComplete(targetDir, result.Template, tree)
	return nil
}

func runInitDirect(targetDir, templateName string, verbose bool) error {
	templates, err := scaffold.ListTemplates()
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}
	if !slices.Contains(templates, templateName) {
		return fmt.Errorf("unknown template %q (available: %s)",
			templateName, strings.Join(templates, ", "))
	}

	scaffolder := scaffold.NewScaffolder(logging.NewConsoleLogger(verbose))
	if err := scaffolder.CreateProject(projectNameFor(targetDir), templateName, targetDir); err != nil {
		return err
	}

	tree, err := scaffold.BuildFileTree(targetDir)
	if err == nil && tree != "" {
		fmt.Println(tree)
	}

	fmt.Printf("%s Project initialized successfully\n", tui.SymbolCheck)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  1. Edit %s with your connection details\n", config.ConfigFileName)
	fmt.Println("  2. Run 'pgcall connection' to verify connectivity")
	fmt.Println("  3. Run 'pgcall call greeting \"World\"'")
	return nil
}

// projectNameFor derives a project name from the target path, used for
// template substitution.
func projectNameFor(targetDir string) string {
	abs, err := filepath.Abs(targetDir)
	if err != nil {
		return "pgcall-project"
	}
	name := filepath.Base(abs)
	if name == "/" || name == "." {
		return "pgcall-project"
	}
	return name
}
