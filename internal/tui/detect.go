package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode represents the interaction mode for pgcall.
type Mode int

const (
	// ModeNonInteractive is used for CI/CD pipelines, scripts, and piped input.
	ModeNonInteractive Mode = iota
	// ModeInteractive is used when a human is at the terminal.
	ModeInteractive
)

// DetectMode determines whether pgcall should run in interactive or
// non-interactive mode.
//
// Returns ModeNonInteractive if:
//   - stdin or stdout is not a terminal (piped input or output, CI/CD)
//   - PGCALL_NON_INTERACTIVE=1 is set
//   - CI is set to any non-empty value (common CI/CD convention)
//   - NO_COLOR is set (accessibility/automation indicator)
//
// Returns ModeInteractive otherwise.
func DetectMode() Mode {
	// Check environment overrides first
	if os.Getenv("PGCALL_NON_INTERACTIVE") == "1" {
		return ModeNonInteractive
	}
	if os.Getenv("CI") != "" {
		return ModeNonInteractive
	}
	if os.Getenv("NO_COLOR") != "" {
		return ModeNonInteractive
	}

	// Both ends must be terminals: a piped stdin cannot answer prompts, and
	// a piped stdout cannot render the TUI.
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ModeNonInteractive
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ModeNonInteractive
	}

	return ModeInteractive
}

// IsInteractive is a convenience function that returns true if running in
// interactive mode.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}
