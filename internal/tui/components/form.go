package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pgcall/pgcall/internal/tui"
)

// Form collects a fixed sequence of text fields. Fields are filled in any
// order; validation runs once, on submit, and a failed submit focuses the
// first offending field.
type Form struct {
	title     string
	fields    []TextField
	focusIdx  int
	submitted bool
	cancelled bool
	keys      tui.KeyMap
}

// NewForm creates a new form with the given title and fields.
func NewForm(title string, fields ...TextField) Form {
	return Form{
		title:  title,
		fields: fields,
		keys:   tui.DefaultKeyMap(),
	}
}

// Focus focuses the current field and returns its cursor blink command.
// Call it when the form becomes the active step.
func (f *Form) Focus() tea.Cmd {
	if f.focusIdx >= 0 && f.focusIdx < len(f.fields) {
		return f.fields[f.focusIdx].Focus()
	}
	return nil
}

// Update handles a message and returns the updated form. Submission and
// cancellation are reported through Submitted and Cancelled.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return f.updateFocused(msg)
	}

	switch {
	case key.Matches(keyMsg, f.keys.Tab), keyMsg.String() == "down":
		return f.nextField()
	case key.Matches(keyMsg, f.keys.ShiftTab), keyMsg.String() == "up":
		return f.prevField()
	case key.Matches(keyMsg, f.keys.Select):
		// Enter advances until the last field, then submits.
		if f.focusIdx < len(f.fields)-1 {
			return f.nextField()
		}
		if f.validate() {
			f.submitted = true
			return f, nil
		}
		return f.focusFirstInvalid()
	case key.Matches(keyMsg, f.keys.Back):
		f.cancelled = true
		return f, nil
	}

	return f.updateFocused(msg)
}

func (f Form) updateFocused(msg tea.Msg) (Form, tea.Cmd) {
	if f.focusIdx < 0 || f.focusIdx >= len(f.fields) {
		return f, nil
	}
	var cmd tea.Cmd
	f.fields[f.focusIdx], cmd = f.fields[f.focusIdx].Update(msg)
	return f, cmd
}

func (f Form) nextField() (Form, tea.Cmd) {
	if f.focusIdx < len(f.fields)-1 {
		f.fields[f.focusIdx].Blur()
		f.focusIdx++
		return f, f.fields[f.focusIdx].Focus()
	}
	return f, nil
}

func (f Form) prevField() (Form, tea.Cmd) {
	if f.focusIdx > 0 {
		f.fields[f.focusIdx].Blur()
		f.focusIdx--
		return f, f.fields[f.focusIdx].Focus()
	}
	return f, nil
}

func (f *Form) validate() bool {
	valid := true
	for i := range f.fields {
		if err := f.fields[i].Validate(); err != nil {
			valid = false
		}
	}
	return valid
}

func (f Form) focusFirstInvalid() (Form, tea.Cmd) {
	for i := range f.fields {
		if f.fields[i].Error() != nil {
			f.fields[f.focusIdx].Blur()
			f.focusIdx = i
			return f, f.fields[i].Focus()
		}
	}
	return f, nil
}

// View implements tea.Model.
func (f Form) View() string {
	var b strings.Builder

	if f.title != "" {
		b.WriteString(tui.SubtitleStyle.Render(f.title))
		b.WriteString("\n\n")
	}

	for i := range f.fields {
		b.WriteString(f.fields[i].View())
		b.WriteString("\n\n")
	}

	b.WriteString(tui.HelpStyle.Render(f.keys.InputHelpText()))

	return b.String()
}

// Reset clears the submitted and cancelled flags and rewinds focus to the
// first field, keeping entered values intact.
func (f *Form) Reset() {
	f.submitted = false
	f.cancelled = false
	for i := range f.fields {
		f.fields[i].Blur()
	}
	f.focusIdx = 0
}

// Submitted returns true if the form passed validation on submit.
func (f Form) Submitted() bool {
	return f.submitted
}

// Cancelled returns true if the user backed out of the form.
func (f Form) Cancelled() bool {
	return f.cancelled
}

// FocusIndex returns the index of the focused field.
func (f Form) FocusIndex() int {
	return f.focusIdx
}

// FirstError returns the first field validation error, or nil.
func (f Form) FirstError() error {
	for i := range f.fields {
		if err := f.fields[i].Error(); err != nil {
			return err
		}
	}
	return nil
}

// Values returns a map of field labels to values.
func (f Form) Values() map[string]string {
	result := make(map[string]string, len(f.fields))
	for _, field := range f.fields {
		result[field.Label()] = field.Value()
	}
	return result
}

// Field returns a field by index, or nil when out of range.
func (f *Form) Field(idx int) *TextField {
	if idx >= 0 && idx < len(f.fields) {
		return &f.fields[idx]
	}
	return nil
}

// FieldValue returns the value of a field by index.
func (f Form) FieldValue(idx int) string {
	if idx >= 0 && idx < len(f.fields) {
		return f.fields[idx].Value()
	}
	return ""
}

// Len returns the number of fields.
func (f Form) Len() int {
	return len(f.fields)
}
