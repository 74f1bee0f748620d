// Package ui implements plain line-based prompting for interactive
// sessions where the full-screen TUI is suppressed (NO_COLOR, dumb
// terminals, CI with a TTY attached).
package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter reads values from an interactive input stream, one line per
// question. Reads honor context cancellation so a SIGINT during a prompt
// aborts the command instead of hanging on stdin.
//
// Thread-Safety: NOT safe for concurrent prompts; one question is asked
// at a time.
type Prompter struct {
	input  io.Reader
	output io.Writer
	reader *bufio.Reader
}

// NewPrompter creates a Prompter on stdin/stderr. Prompts go to stderr so
// command output on stdout stays clean for pipelines.
func NewPrompter() *Prompter {
	return newPrompter(os.Stdin, os.Stderr)
}

func newPrompter(input io.Reader, output io.Writer) *Prompter {
	return &Prompter{
		input:  input,
		output: output,
		reader: bufio.NewReader(input),
	}
}

// Ask prompts for a value. An empty answer returns defaultValue; the
// default is shown in brackets when non-empty.
func (p *Prompter) Ask(ctx context.Context, label, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Fprintf(p.output, "%s [%s]: ", label, defaultValue)
	} else {
		fmt.Fprintf(p.output, "%s: ", label)
	}

	input, err := p.readLine(ctx)
	if err != nil {
		return "", err
	}
	if input == "" {
		return defaultValue, nil
	}
	return input, nil
}

// AskRequired prompts until the user gives a non-empty answer.
func (p *Prompter) AskRequired(ctx context.Context, label string) (string, error) {
	for {
		input, err := p.Ask(ctx, label, "")
		if err != nil {
			return "", err
		}
		if input != "" {
			return input, nil
		}
		fmt.Fprintf(p.output, "A value is required.\n")
	}
}

// AskSecret prompts for a value without echoing it when the input is a
// terminal. On non-terminal input it falls back to a plain line read.
func (p *Prompter) AskSecret(ctx context.Context, label string) (string, error) {
	fmt.Fprintf(p.output, "%s: ", label)

	if f, ok := p.input.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := p.readSecret(ctx, int(f.Fd()))
		fmt.Fprintln(p.output)
		if err != nil {
			return "", err
		}
		return secret, nil
	}

	return p.readLine(ctx)
}

// Confirm asks a yes/no question. Empty input takes the default;
// anything starting with y or Y is an acceptance.
func (p *Prompter) Confirm(ctx context.Context, question string, defaultYes bool) (bool, error) {
	hint := "y/N"
	if defaultYes {
		hint = "Y/n"
	}
	fmt.Fprintf(p.output, "%s [%s]: ", question, hint)

	input, err := p.readLine(ctx)
	if err != nil {
		return false, err
	}
	if input == "" {
		return defaultYes, nil
	}
	return strings.HasPrefix(strings.ToLower(input), "y"), nil
}

// readLine reads one trimmed line with context cancellation support.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		line, err := p.reader.ReadString('\n')
		if err != nil && line == "" {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(line)
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case err := <-errChan:
		return "", fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		return input, nil
	}
}

// readSecret reads a line in no-echo mode with context cancellation support.
func (p *Prompter) readSecret(ctx context.Context, fd int) (string, error) {
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		secret, err := term.ReadPassword(fd)
		if err != nil {
			errChan <- err
			return
		}
		inputChan <- string(secret)
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case err := <-errChan:
		return "", fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		return input, nil
	}
}
