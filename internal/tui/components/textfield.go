package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pgcall/pgcall/internal/tui"
)

// TextField is a labeled text input with optional validation.
type TextField struct {
	label     string
	input     textinput.Model
	focused   bool
	required  bool
	validator func(string) error
	hint      string
	err       error
}

// NewTextField creates a new text field.
func NewTextField(label, placeholder string) TextField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 40

	return TextField{
		label: label,
		input: ti,
	}
}

// WithWidth sets the width of the input area.
func (t TextField) WithWidth(width int) TextField {
	t.input.Width = width
	return t
}

// WithCharLimit sets the maximum input length.
func (t TextField) WithCharLimit(limit int) TextField {
	t.input.CharLimit = limit
	return t
}

// WithRequired marks the field as required.
func (t TextField) WithRequired(required bool) TextField {
	t.required = required
	return t
}

// WithValidator sets a validation function. The validator runs on Validate,
// not on every keystroke, so partial input is never flagged mid-typing.
func (t TextField) WithValidator(fn func(string) error) TextField {
	t.validator = fn
	return t
}

// WithValue sets the initial value.
func (t TextField) WithValue(value string) TextField {
	t.input.SetValue(value)
	return t
}

// WithHint sets a short description rendered under the field.
func (t TextField) WithHint(hint string) TextField {
	t.hint = hint
	return t
}

// WithPassword configures the field to mask its input.
func (t TextField) WithPassword() TextField {
	t.input.EchoMode = textinput.EchoPassword
	t.input.EchoCharacter = '•'
	return t
}

// Label returns the field label.
func (t TextField) Label() string {
	return t.label
}

// Focus focuses the text field.
func (t *TextField) Focus() tea.Cmd {
	t.focused = true
	return t.input.Focus()
}

// Blur removes focus from the text field.
func (t *TextField) Blur() {
	t.focused = false
	t.input.Blur()
}

// IsFocused returns true if the field is focused.
func (t TextField) IsFocused() bool {
	return t.focused
}

// Init implements tea.Model.
func (t TextField) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles a message and returns the updated field. Typing clears a
// previous validation error so the user is not shouting at a stale message.
func (t TextField) Update(msg tea.Msg) (TextField, tea.Cmd) {
	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)

	if _, isKey := msg.(tea.KeyMsg); isKey {
		t.err = nil
	}

	return t, cmd
}

// View implements tea.Model.
func (t TextField) View() string {
	var b strings.Builder

	labelText := t.label
	if t.required {
		labelText += tui.ErrorStyle.Render(" *")
	}
	b.WriteString(tui.LabelStyle.Render(labelText))
	b.WriteString("\n")

	box := tui.BoxStyle
	if t.focused {
		box = tui.FocusedBoxStyle
	}
	b.WriteString(box.Render(t.input.View()))

	if t.hint != "" {
		b.WriteString("\n")
		b.WriteString(tui.DescriptionStyle.Render(t.hint))
	}

	if t.err != nil {
		b.WriteString("\n")
		b.WriteString(tui.ErrorStyle.Render(t.err.Error()))
	}

	return b.String()
}

// Value returns the current value.
func (t TextField) Value() string {
	return t.input.Value()
}

// SetValue sets the value.
func (t *TextField) SetValue(v string) {
	t.input.SetValue(v)
}

// Error returns the current validation error.
func (t TextField) Error() error {
	return t.err
}

// Validate checks the current value. A custom validator takes precedence
// over the generic required check so its message names the actual field.
func (t *TextField) Validate() error {
	if t.validator != nil {
		t.err = t.validator(t.input.Value())
		return t.err
	}
	if t.required && strings.TrimSpace(t.input.Value()) == "" {
		t.err = ErrFieldRequired
		return t.err
	}
	t.err = nil
	return nil
}

// ErrFieldRequired is returned when a required field is empty.
var ErrFieldRequired = fieldError("this field is required")

type fieldError string

func (e fieldError) Error() string { return string(e) }
