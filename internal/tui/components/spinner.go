package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pgcall/pgcall/internal/tui"
)

// Spinner is a loading indicator that resolves into a success or failure
// line once the awaited operation reports back.
type Spinner struct {
	spinner spinner.Model
	message string
	done    bool
	success bool
	result  string
	err     error
}

// NewSpinner creates a new spinner with the given in-progress message.
func NewSpinner(message string) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = tui.SpinnerStyle

	return Spinner{
		spinner: s,
		message: message,
	}
}

// Init implements tea.Model.
func (s Spinner) Init() tea.Cmd {
	return s.spinner.Tick
}

// Update handles tick and completion messages.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	switch msg := msg.(type) {
	case SpinnerDoneMsg:
		s.done = true
		s.success = msg.Success
		s.result = msg.Result
		s.err = msg.Err
		return s, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

// View implements tea.Model.
func (s Spinner) View() string {
	if s.done {
		if s.success {
			return tui.SuccessStyle.Render(tui.SymbolCheck + " " + s.result)
		}
		msg := "unknown error"
		if s.err != nil {
			msg = s.err.Error()
		}
		return tui.ErrorStyle.Render(tui.SymbolCross + " " + msg)
	}
	return s.spinner.View() + " " + s.message
}

// SpinnerDoneMsg signals that the awaited operation is complete.
type SpinnerDoneMsg struct {
	Success bool
	Result  string
	Err     error
}

// SpinnerDone creates a success completion message.
func SpinnerDone(result string) SpinnerDoneMsg {
	return SpinnerDoneMsg{Success: true, Result: result}
}

// SpinnerFailed creates a failure completion message.
func SpinnerFailed(err error) SpinnerDoneMsg {
	return SpinnerDoneMsg{Success: false, Err: err}
}

// Reset returns the spinner to its in-progress state with a new message.
func (s *Spinner) Reset(message string) {
	s.message = message
	s.done = false
	s.success = false
	s.result = ""
	s.err = nil
}

// IsDone returns true once a completion message has arrived.
func (s Spinner) IsDone() bool {
	return s.done
}

// IsSuccess returns true if the operation completed successfully.
func (s Spinner) IsSuccess() bool {
	return s.success
}

// Result returns the success payload, if any.
func (s Spinner) Result() string {
	return s.result
}

// Error returns the failure, if any.
func (s Spinner) Error() error {
	return s.err
}
