// Package components provides the building blocks the pgcall wizards are
// assembled from: list selection, labeled text fields, multi-field forms,
// and a progress spinner. Components never quit the bubbletea program
// themselves; the embedding wizard reads their state and decides.
package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pgcall/pgcall/internal/tui"
)

// Option represents a selectable option in the selector.
type Option struct {
	Label       string
	Description string
	Value       string
}

// Selector is a component for selecting one of a list of options.
type Selector struct {
	title     string
	options   []Option
	cursor    int
	selected  int
	showHelp  bool
	keys      tui.KeyMap
	submitted bool
	cancelled bool
}

// NewSelector creates a new selector component.
func NewSelector(title string, options []Option) Selector {
	return Selector{
		title:    title,
		options:  options,
		selected: -1,
		showHelp: true,
		keys:     tui.DefaultKeyMap(),
	}
}

// WithShowHelp enables or disables the help text.
func (s Selector) WithShowHelp(show bool) Selector {
	s.showHelp = show
	return s
}

// Init implements tea.Model.
func (s Selector) Init() tea.Cmd {
	return nil
}

// Update handles a message and returns the updated selector. Selection and
// cancellation are reported through Submitted and Cancelled, never by
// quitting the program.
func (s Selector) Update(msg tea.Msg) (Selector, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch {
	case key.Matches(keyMsg, s.keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(keyMsg, s.keys.Down):
		if s.cursor < len(s.options)-1 {
			s.cursor++
		}
	case key.Matches(keyMsg, s.keys.Select):
		s.selected = s.cursor
		s.submitted = true
	case key.Matches(keyMsg, s.keys.Back), key.Matches(keyMsg, s.keys.Quit):
		s.cancelled = true
	}
	return s, nil
}

// View implements tea.Model.
func (s Selector) View() string {
	var b strings.Builder

	if s.title != "" {
		b.WriteString(tui.SubtitleStyle.Render(s.title))
		b.WriteString("\n\n")
	}

	for i, opt := range s.options {
		cursor := "  "
		style := tui.UnselectedStyle
		symbol := tui.SymbolUnselected

		if i == s.cursor {
			cursor = ""
			style = tui.SelectedStyle
			symbol = tui.SymbolSelected
		}

		b.WriteString(cursor)
		b.WriteString(style.Render(symbol + " " + opt.Label))
		b.WriteString("\n")

		if opt.Description != "" {
			b.WriteString(tui.DescriptionStyle.Render(opt.Description))
			b.WriteString("\n")
		}
	}

	if s.showHelp {
		b.WriteString(tui.HelpStyle.Render("\n" + s.keys.HelpText()))
	}

	return b.String()
}

// Reset clears the submitted and cancelled flags so the selector can be
// shown again, keeping the cursor position.
func (s *Selector) Reset() {
	s.submitted = false
	s.cancelled = false
	s.selected = -1
}

// Cursor returns the index the cursor is on.
func (s Selector) Cursor() int {
	return s.cursor
}

// Selected returns the selected option index, or -1 if none selected.
func (s Selector) Selected() int {
	return s.selected
}

// SelectedOption returns the selected option, or nil if none selected.
func (s Selector) SelectedOption() *Option {
	if s.selected >= 0 && s.selected < len(s.options) {
		return &s.options[s.selected]
	}
	return nil
}

// Cancelled returns true if the user backed out of the selection.
func (s Selector) Cancelled() bool {
	return s.cancelled
}

// Submitted returns true if the user made a selection.
func (s Selector) Submitted() bool {
	return s.submitted
}

// Value returns the value of the selected option.
func (s Selector) Value() string {
	if opt := s.SelectedOption(); opt != nil {
		return opt.Value
	}
	return ""
}
