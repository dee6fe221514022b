package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/brianquiz/brianquiz/internal/ui/theme"
)

// Answer is the outcome of a key press on a Confirm prompt.
type Answer int

const (
	Undecided Answer = iota
	Yes
	No
)

// Confirm is a yes/no prompt. Esc counts as no.
type Confirm struct {
	Prompt string
}

// Handle interprets msg.
func (c Confirm) Handle(msg tea.Msg) Answer {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return Undecided
	}
	switch kmsg.String() {
	case "y", "Y":
		return Yes
	case "n", "N", "esc":
		return No
	}
	return Undecided
}

// View renders the prompt.
func (c Confirm) View() string {
	return theme.Card.Render(theme.Notice.Render(c.Prompt) + "\n\n" + theme.Hint.Render("y = yes   n = no"))
}
