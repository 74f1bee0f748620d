package tui

import "fmt"

// PromptContinue asks a yes/no question on the terminal. In non-interactive
// mode it answers yes without prompting, so scripted runs never block.
func PromptContinue(message string) bool {
	if !IsInteractive() {
		return true
	}

	fmt.Printf("%s [Y/n]: ", message)

	var response string
	fmt.Scanln(&response)

	return response == "" || response == "y" || response == "Y"
}

// ProgressDisplay prints coarse step progress for commands that do one
// slow thing, such as probing a connection. It degrades to plain lines
// when no terminal is attached.
type ProgressDisplay struct{}

func NewProgressDisplay() *ProgressDisplay {
	return &ProgressDisplay{}
}

func (p *ProgressDisplay) Start(message string) {
	if !IsInteractive() {
		fmt.Println(message)
		return
	}
	fmt.Printf("%s %s\n", SpinnerStyle.Render(SymbolSpinner), message)
}

func (p *ProgressDisplay) Success(message string) {
	fmt.Printf("%s %s\n", SuccessStyle.Render(SymbolCheck), message)
}

func (p *ProgressDisplay) Error(message string) {
	fmt.Printf("%s %s\n", ErrorStyle.Render(SymbolCross), message)
}
