package wizards

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pgcall/pgcall/internal/tui"
	"github.com/pgcall/pgcall/internal/tui/components"
)

// TemplateInfo holds template metadata for display.
type TemplateInfo struct {
	Name        string
	Description string
}

// DefaultTemplates returns the available template information, matching
// the templates embedded in the scaffold package.
func DefaultTemplates() []TemplateInfo {
	return []TemplateInfo{
		{Name: "default", Description: "Connection settings plus a .env template for secrets"},
		{Name: "minimal", Description: "Bare pgcall.yaml with defaults only"},
	}
}

// InitResult holds the result of the init wizard.
type InitResult struct {
	Cancelled    bool
	TargetDir    string
	Template     string
	SetupConfig  bool
	ConfigResult ConfigResult
	ConnResult   ConnectionResult
}

// InitWizard guides users through project initialization: template choice
// and whether to configure the database connection afterwards. Creating
// the files is the cli's job, after the wizard returns.
type InitWizard struct {
	step initStep

	templateSel components.Selector
	templates   []TemplateInfo

	choiceSel components.Selector

	targetDir string

	result InitResult

	width  int
	height int
}

type initStep int

const (
	initStepTemplate initStep = iota
	initStepSetupChoice
	initStepComplete
)

// NewInitWizard creates a new init wizard.
func NewInitWizard(targetDir string, templates []TemplateInfo) InitWizard {
	if targetDir == "" {
		targetDir = "."
	}

	templateOpts := make([]components.Option, len(templates))
	for i, t := range templates {
		templateOpts[i] = components.Option{Label: t.Name, Description: t.Description, Value: t.Name}
	}

	choiceOpts := []components.Option{
		{Label: "No, I'll configure later", Description: "Creates the project with a placeholder pgcall.yaml", Value: "no"},
		{Label: "Yes, set up connection (recommended)", Description: "Configure pgcall.yaml with your database settings", Value: "yes"},
	}

	return InitWizard{
		step:        initStepTemplate,
		targetDir:   targetDir,
		templates:   templates,
		templateSel: components.NewSelector("Select a template", templateOpts),
		choiceSel:   components.NewSelector("Configure database connection now?", choiceOpts),
		width:       80,
		height:      24,
	}
}

// Init implements tea.Model.
func (w InitWizard) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (w InitWizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
		return w, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			w.result.Cancelled = true
			return w, tea.Quit
		}

		switch w.step {
		case initStepTemplate:
			return w.updateTemplate(msg)
		case initStepSetupChoice:
			return w.updateSetupChoice(msg)
		case initStepComplete:
			if msg.String() == "enter" {
				return w, tea.Quit
			}
		}
	}

	return w, nil
}

func (w InitWizard) updateTemplate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	w.templateSel, cmd = w.templateSel.Update(msg)

	if w.templateSel.Cancelled() {
		w.result.Cancelled = true
		return w, tea.Quit
	}
	if w.templateSel.Submitted() {
		w.result.Template = w.templateSel.Value()
		w.step = initStepSetupChoice
	}
	return w, cmd
}

func (w InitWizard) updateSetupChoice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	w.choiceSel, cmd = w.choiceSel.Update(msg)

	if w.choiceSel.Cancelled() {
		w.choiceSel.Reset()
		w.templateSel.Reset()
		w.step = initStepTemplate
		return w, nil
	}
	if w.choiceSel.Submitted() {
		w.result.SetupConfig = w.choiceSel.Value() == "yes"
		w.result.TargetDir = w.targetDir
		w.step = initStepComplete
		return w, tea.Quit
	}
	return w, cmd
}

// View implements tea.Model.
func (w InitWizard) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("pgcall init - Project Setup"))
	b.WriteString("\n")

	switch w.step {
	case initStepTemplate:
		b.WriteString(w.templateSel.View())
	case initStepSetupChoice:
		b.WriteString(w.choiceSel.View())
	case initStepComplete:
		b.WriteString(w.viewComplete())
	}

	return b.String()
}

func (w InitWizard) viewComplete() string {
	var b strings.Builder

	b.WriteString(tui.SuccessStyle.Render(tui.SymbolCheck + " Ready to create project"))
	b.WriteString("\n\n")

	absPath, _ := filepath.Abs(w.targetDir)
	b.WriteString(fmt.Sprintf("Directory: %s\n", absPath))
	b.WriteString(fmt.Sprintf("Template:  %s\n", w.result.Template))

	if w.result.SetupConfig {
		b.WriteString("\nAfter creation, you'll configure the database connection.\n")
	}

	return b.String()
}

// Result returns the wizard result.
func (w InitWizard) Result() InitResult {
	return w.result
}

// RunInitWizard executes the init wizard, chaining into the connection and
// config wizards when the user opted into setup.
func RunInitWizard(targetDir string) (InitResult, error) {
	templates := DefaultTemplates()

	wizard := NewInitWizard(targetDir, templates)
	p := tea.NewProgram(wizard, tea.WithAltScreen())

	model, err := p.Run()
	if err != nil {
		return InitResult{Cancelled: true}, err
	}

	result := model.(InitWizard).Result()

	if result.SetupConfig && !result.Cancelled {
		connResult, err := RunConnectionWizard()
		if err != nil {
			return result, err
		}
		result.ConnResult = connResult

		if !connResult.Cancelled {
			cfgResult, err := RunConfigWizard(connResult.Config)
			if err != nil {
				return result, err
			}
			result.ConfigResult = cfgResult
		}
	}

	return result, nil
}

// ShowInitComplete displays the completion message after project creation.
// The tree argument is the rendered file listing of the created project.
func ShowInitComplete(targetDir string, template string, tree string) {
	absPath, _ := filepath.Abs(targetDir)

	fmt.Println()
	fmt.Printf("%s Project created successfully!\n", tui.SymbolCheck)
	fmt.Println()
	fmt.Printf("%s/  (%s template)\n", absPath, template)
	if tree != "" {
		fmt.Println(tree)
	}

	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  1. cd %s\n", targetDir)
	fmt.Println("  2. Review pgcall.yaml and .env settings")
	fmt.Println("  3. Run: pgcall call greeting \"World\"")
	fmt.Println()
}
