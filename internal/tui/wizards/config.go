package wizards

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"

	"github.com/pgcall/pgcall/internal/config"
	"github.com/pgcall/pgcall/internal/db"
	"github.com/pgcall/pgcall/internal/settings"
	"github.com/pgcall/pgcall/internal/tui"
	"github.com/pgcall/pgcall/internal/tui/components"
	"github.com/pgcall/pgcall/pkg/pgcall"
)

// ConfigResult holds the result of the config wizard.
type ConfigResult struct {
	Cancelled bool
	Config    config.ProjectConfig
	SavePath  string
}

// ConfigWizard guides users through creating pgcall.yaml: per-project
// setting values, the call timeout, and a review of the file before it is
// written. Connection details come in from the connection wizard.
type ConfigWizard struct {
	step configStep

	// Connection info (from connection wizard or existing)
	connConfig pgcall.ConnectionConfig
	hasConn    bool

	// Settings with their working values. Every entry is a defined,
	// bounded setting; free-form keys do not exist.
	settings   []settings.Setting
	settingIdx int
	editing    bool
	editField  components.TextField

	// Timeout
	timeoutSel components.Selector
	timeout    string

	// Result
	result ConfigResult

	// Dimensions
	width  int
	height int

	keys tui.KeyMap
}

type configStep int

const (
	configStepSettings configStep = iota
	configStepTimeout
	configStepReview
	configStepDone
)

var timeoutPresets = []components.Option{
	{Label: "30s", Description: "Snappy default for interactive calls", Value: "30s"},
	{Label: "1m", Description: "Room for slower queries", Value: "1m"},
	{Label: "3m", Description: "Long-running reporting queries", Value: "3m"},
	{Label: "10m", Description: "Batch workloads", Value: "10m"},
}

// NewConfigWizard creates a new config wizard seeded with the default
// setting values.
func NewConfigWizard() ConfigWizard {
	return ConfigWizard{
		step:       configStepSettings,
		settings:   settings.NewDefaultStore().List(),
		timeoutSel: components.NewSelector("Call timeout", timeoutPresets),
		timeout:    "30s",
		width:      80,
		height:     24,
		keys:       tui.DefaultKeyMap(),
	}
}

// WithConnection sets the connection config (from the connection wizard).
func (w ConfigWizard) WithConnection(cfg pgcall.ConnectionConfig) ConfigWizard {
	w.connConfig = cfg
	w.hasConn = true
	return w
}

// Init implements tea.Model.
func (w ConfigWizard) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (w ConfigWizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		case configStepSettings:
			return w.updateSettings(msg)
		case configStepTimeout:
			return w.updateTimeout(msg)
		case configStepReview:
			return w.updateReview(msg)
		}

	default:
		if w.step == configStepSettings && w.editing {
			var cmd tea.Cmd
			w.editField, cmd = w.editField.Update(msg)
			return w, cmd
		}
	}

	return w, nil
}

func (w ConfigWizard) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if w.editing {
		return w.updateSettingEdit(msg)
	}

	switch {
	case key.Matches(msg, w.keys.Up):
		if w.settingIdx > 0 {
			w.settingIdx--
		}
	case key.Matches(msg, w.keys.Down):
		if w.settingIdx < len(w.settings)-1 {
			w.settingIdx++
		}
	case key.Matches(msg, w.keys.Select):
		s := w.settings[w.settingIdx]
		w.editing = true
		w.editField = components.NewTextField(s.Name+":", "").
			WithValue(strconv.Itoa(s.Value)).
			WithValidator(boundsValidator(s.Spec)).
			WithCharLimit(12).
			WithWidth(12)
		return w, w.editField.Focus()
	case msg.String() == "d":
		// Reset to default
		w.settings[w.settingIdx].Value = w.settings[w.settingIdx].Default
	case msg.String() == "n":
		w.step = configStepTimeout
	case key.Matches(msg, w.keys.Back):
		w.result.Cancelled = true
		return w, tea.Quit
	}
	return w, nil
}

func boundsValidator(spec settings.Spec) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s must be an integer", spec.Name)
		}
		if n < spec.Min || n > spec.Max {
			return fmt.Errorf("%s must be between %d and %d", spec.Name, spec.Min, spec.Max)
		}
		return nil
	}
}

func (w ConfigWizard) updateSettingEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Select):
		if err := w.editField.Validate(); err != nil {
			return w, nil
		}
		n, _ := strconv.Atoi(strings.TrimSpace(w.editField.Value()))
		w.settings[w.settingIdx].Value = n
		w.editing = false
		return w, nil
	case key.Matches(msg, w.keys.Back):
		w.editing = false
		return w, nil
	default:
		var cmd tea.Cmd
		w.editField, cmd = w.editField.Update(msg)
		return w, cmd
	}
}

func (w ConfigWizard) updateTimeout(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	w.timeoutSel, cmd = w.timeoutSel.Update(msg)

	if w.timeoutSel.Cancelled() {
		w.timeoutSel.Reset()
		w.step = configStepSettings
		return w, nil
	}
	if w.timeoutSel.Submitted() {
		w.timeout = w.timeoutSel.Value()
		w.timeoutSel.Reset()
		w.step = configStepReview
	}
	return w, cmd
}

func (w ConfigWizard) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Select):
		w.result.Config = w.buildProjectConfig()
		w.result.SavePath = "pgcall.yaml"
		w.step = configStepDone
		return w, tea.Quit
	case key.Matches(msg, w.keys.Back):
		w.step = configStepTimeout
	}
	return w, nil
}

// buildProjectConfig assembles the file content. Passwords and client
// secrets are deliberately absent: they belong in the environment, not in
// a committed YAML file.
func (w ConfigWizard) buildProjectConfig() config.ProjectConfig {
	cfg := config.ProjectConfig{
		Connection: config.ConnectionConfig{
			Host:           w.connConfig.Host,
			Port:           w.connConfig.Port,
			Username:       w.connConfig.Username,
			Database:       w.connConfig.Database,
			SSLMode:        w.connConfig.SSLMode,
			AWSRegion:      w.connConfig.AWSRegion,
			GoogleInstance: w.connConfig.GoogleInstance,
			AzureTenantID:  w.connConfig.AzureTenantID,
			AzureClientID:  w.connConfig.AzureClientID,
		},
		Settings: make(map[string]int, len(w.settings)),
		Timeout:  w.timeout,
	}

	if w.connConfig.AuthMethod != pgcall.AuthMethodStandard {
		cfg.Connection.AuthMethod = db.AuthMethodKey(w.connConfig.AuthMethod)
	}

	for _, s := range w.settings {
		cfg.Settings[s.Name] = s.Value
	}

	return cfg
}

// View implements tea.Model.
func (w ConfigWizard) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("pgcall - Configuration Builder"))
	b.WriteString("\n")

	switch w.step {
	case configStepSettings:
		b.WriteString(w.viewSettings())
	case configStepTimeout:
		b.WriteString(w.timeoutSel.View())
	case configStepReview:
		b.WriteString(w.viewReview())
	}

	return b.String()
}

func (w ConfigWizard) viewSettings() string {
	var b strings.Builder

	if w.hasConn {
		b.WriteString(tui.SuccessStyle.Render(tui.SymbolCheck + " Connection: "))
		b.WriteString(fmt.Sprintf("%s:%d/%s", w.connConfig.Host, w.connConfig.Port, w.connConfig.Database))
		b.WriteString("\n\n")
	}

	b.WriteString(tui.SubtitleStyle.Render("Settings"))
	b.WriteString("\n")
	b.WriteString(tui.DescriptionStyle.Render("Per-project values, applied before every call"))
	b.WriteString("\n\n")

	if w.editing {
		b.WriteString(w.editField.View())
		b.WriteString("\n\n")
		b.WriteString(tui.HelpStyle.Render("enter save • esc cancel"))
		return b.String()
	}

	for i, s := range w.settings {
		cursor := "  "
		style := tui.UnselectedStyle
		if i == w.settingIdx {
			cursor = ""
			style = tui.SelectedStyle
		}
		b.WriteString(cursor)
		b.WriteString(style.Render(fmt.Sprintf("%s = %d", s.Name, s.Value)))
		b.WriteString("\n")
		b.WriteString(tui.DescriptionStyle.Render(fmt.Sprintf("range %d-%d, default %d", s.Min, s.Max, s.Default)))
		b.WriteString("\n")
	}

	b.WriteString(tui.HelpStyle.Render("\n↑/↓ navigate • enter edit • d reset • n next step"))

	return b.String()
}

func (w ConfigWizard) viewReview() string {
	var b strings.Builder

	b.WriteString(tui.SubtitleStyle.Render("Review Configuration"))
	b.WriteString("\n\n")

	yamlBytes, _ := yaml.Marshal(w.buildProjectConfig())
	for _, line := range strings.Split(string(yamlBytes), "\n") {
		b.WriteString(tui.DescriptionStyle.Render("  " + line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(tui.HelpStyle.Render("enter save to pgcall.yaml • esc go back"))

	return b.String()
}

// Result returns the wizard result.
func (w ConfigWizard) Result() ConfigResult {
	return w.result
}

// SaveConfig writes the configuration to pgcall.yaml in dir.
func (w ConfigWizard) SaveConfig(dir string) error {
	path := filepath.Join(dir, "pgcall.yaml")

	data, err := yaml.Marshal(w.result.Config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// RunConfigWizard executes the config wizard with an existing connection.
func RunConfigWizard(connConfig pgcall.ConnectionConfig) (ConfigResult, error) {
	wizard := NewConfigWizard().WithConnection(connConfig)
	p := tea.NewProgram(wizard, tea.WithAltScreen())

	model, err := p.Run()
	if err != nil {
		return ConfigResult{Cancelled: true}, err
	}

	return model.(ConfigWizard).Result(), nil
}
