package wizards

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pgcall/pgcall/internal/tui"
	"github.com/pgcall/pgcall/internal/tui/components"
	"github.com/pgcall/pgcall/pkg/pgcall"
)

// CallWizardResult holds the result of the call wizard: a ready-to-dispatch
// request, or a cancellation.
type CallWizardResult struct {
	Cancelled bool
	Request   pgcall.CallRequest
}

// CallWizard lets the user pick a registered operation and fill in its
// arguments. It only composes the request; dispatching stays with the
// caller so exit codes and output formatting work the same as a scripted
// invocation.
type CallWizard struct {
	step callStep

	ops   []pgcall.Operation
	opSel components.Selector
	op    pgcall.Operation

	form components.Form

	result CallWizardResult

	width  int
	height int
}

type callStep int

const (
	callStepSelectOp callStep = iota
	callStepArgs
	callStepDone
)

// NewCallWizard creates a call wizard over the given operations. The slice
// order is preserved, so passing Registry.Operations() yields a list sorted
// by name.
func NewCallWizard(ops []pgcall.Operation) CallWizard {
	options := make([]components.Option, len(ops))
	for i, op := range ops {
		options[i] = components.Option{
			Label:       op.Name(),
			Description: signature(op),
			Value:       op.Name(),
		}
	}

	return CallWizard{
		step:   callStepSelectOp,
		ops:    ops,
		opSel:  components.NewSelector("Which operation do you want to call?", options),
		width:  80,
		height: 24,
	}
}

// signature renders an operation's argument list, for example
// "greeting(name string, repeat int)".
func signature(op pgcall.Operation) string {
	var b strings.Builder
	b.WriteString(op.Name())
	b.WriteString("(")
	for i, arg := range op.Args() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.Name)
		b.WriteString(" ")
		b.WriteString(arg.Kind.String())
	}
	b.WriteString(")")
	return b.String()
}

// Init implements tea.Model.
func (w CallWizard) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (w CallWizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		case callStepSelectOp:
			return w.updateSelectOp(msg)
		case callStepArgs:
			return w.updateArgs(msg)
		}

	default:
		if w.step == callStepArgs {
			var cmd tea.Cmd
			w.form, cmd = w.form.Update(msg)
			return w, cmd
		}
	}

	return w, nil
}

func (w CallWizard) updateSelectOp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	w.opSel, cmd = w.opSel.Update(msg)

	if w.opSel.Cancelled() {
		w.result.Cancelled = true
		return w, tea.Quit
	}
	if w.opSel.Submitted() {
		w.op = w.ops[w.opSel.Selected()]
		w.opSel.Reset()

		if len(w.op.Args()) == 0 {
			w.result.Request = pgcall.CallRequest{Operation: w.op.Name()}
			w.step = callStepDone
			return w, tea.Quit
		}

		w.form = newArgForm(w.op)
		w.step = callStepArgs
		return w, w.form.Focus()
	}
	return w, cmd
}

// newArgForm builds one text field per declared argument. Integer arguments
// get a parse validator; text arguments accept anything, including the
// empty string, which is a legitimate value.
func newArgForm(op pgcall.Operation) components.Form {
	args := op.Args()
	fields := make([]components.TextField, len(args))
	for i, arg := range args {
		switch arg.Kind {
		case pgcall.ValueInt:
			fields[i] = components.NewTextField(arg.Name+":", "integer").
				WithRequired(true).
				WithValidator(intArgValidator(arg.Name)).
				WithCharLimit(20).
				WithWidth(20)
		default:
			fields[i] = components.NewTextField(arg.Name+":", "text")
		}
	}
	return components.NewForm(signature(op), fields...)
}

func intArgValidator(name string) func(string) error {
	return func(v string) error {
		if _, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err != nil {
			return &argParseError{name: name}
		}
		return nil
	}
}

type argParseError struct {
	name string
}

func (e *argParseError) Error() string {
	return "argument " + e.name + " must be an integer"
}

func (w CallWizard) updateArgs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	w.form, cmd = w.form.Update(msg)

	if w.form.Cancelled() {
		w.step = callStepSelectOp
		return w, nil
	}
	if w.form.Submitted() {
		w.result.Request = w.buildRequest()
		w.step = callStepDone
		return w, tea.Quit
	}
	return w, cmd
}

func (w *CallWizard) buildRequest() pgcall.CallRequest {
	args := w.op.Args()
	values := make([]pgcall.Value, len(args))
	for i, arg := range args {
		raw := w.form.FieldValue(i)
		switch arg.Kind {
		case pgcall.ValueInt:
			n, _ := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			values[i] = pgcall.IntValue(n)
		default:
			values[i] = pgcall.StringValue(raw)
		}
	}
	return pgcall.CallRequest{Operation: w.op.Name(), Args: values}
}

// View implements tea.Model.
func (w CallWizard) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("pgcall - Compose Call"))
	b.WriteString("\n")

	switch w.step {
	case callStepSelectOp:
		b.WriteString(w.opSel.View())
	case callStepArgs:
		b.WriteString(w.form.View())
		b.WriteString("\n\n")
		b.WriteString(tui.DescriptionStyle.Render(w.previewCommand()))
	}

	return b.String()
}

// previewCommand shows the equivalent scripted invocation, updated live as
// the user types, so the wizard doubles as documentation for the CLI form.
func (w CallWizard) previewCommand() string {
	var b strings.Builder
	b.WriteString(tui.SymbolArrowRight)
	b.WriteString(" pgcall call ")
	b.WriteString(w.op.Name())
	for i := range w.op.Args() {
		b.WriteString(" ")
		b.WriteString(shellWord(w.form.FieldValue(i)))
	}
	return b.String()
}

func shellWord(v string) string {
	if v == "" || strings.ContainsAny(v, " \t\"'") {
		return strconv.Quote(v)
	}
	return v
}

// Result returns the wizard result.
func (w CallWizard) Result() CallWizardResult {
	return w.result
}

// RunCallWizard executes the call wizard over the given operations.
func RunCallWizard(ops []pgcall.Operation) (CallWizardResult, error) {
	wizard := NewCallWizard(ops)
	p := tea.NewProgram(wizard, tea.WithAltScreen())

	model, err := p.Run()
	if err != nil {
		return CallWizardResult{Cancelled: true}, err
	}

	return model.(CallWizard).Result(), nil
}
