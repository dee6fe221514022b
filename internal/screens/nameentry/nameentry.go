// Package nameentry asks the participant for a display name before a quiz.
package nameentry

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/brianquiz/brianquiz/internal/appstate"
	"github.com/brianquiz/brianquiz/internal/quiz"
	"github.com/brianquiz/brianquiz/internal/screen"
	"github.com/brianquiz/brianquiz/internal/ui/components"
	"github.com/brianquiz/brianquiz/internal/ui/layout"
	"github.com/brianquiz/brianquiz/internal/ui/theme"
)

// NameEntryScreen collects the participant name.
type NameEntryScreen struct {
	quiz  *quiz.Session
	input components.TextInput
}

var _ screen.Screen = (*NameEntryScreen)(nil)
var _ screen.KeyHintProvider = (*NameEntryScreen)(nil)

// New creates the screen for q.
func New(q *quiz.Session) *NameEntryScreen {
	return &NameEntryScreen{
		quiz:  q,
		input: components.NewTextInput(quiz.AnonymousName, 40),
	}
}

func (n *NameEntryScreen) Init() tea.Cmd { return n.input.Focus() }

func (n *NameEntryScreen) Title() string { return "Ready?" }

func (n *NameEntryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (n *NameEntryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter":
			name := strings.TrimSpace(n.input.Value())
			if name == "" {
				name = quiz.AnonymousName
			}
			return n, screen.Nav(screen.NavMsg{Event: appstate.EnterRoom, Name: name})
		case "esc":
			return n, screen.Go(appstate.Back)
		}
	}
	var cmd tea.Cmd
	n.input, cmd = n.input.Update(msg)
	return n, cmd
}

func (n *NameEntryScreen) View(width, height int) string {
	limit := int(n.quiz.EffectiveTimeLimit().Minutes())
	body := theme.Title.Render(n.quiz.Title) + "\n" +
		theme.Subtitle.Render(fmt.Sprintf("%d questions · %d minutes · one pass, no going back",
			len(n.quiz.Questions), limit)) +
		"\n\n" + theme.Body.Render("Your name") + "\n" + n.input.View() +
		"\n\n" + theme.Hint.Render("Leave blank to play as "+quiz.AnonymousName+".")
	return layout.Center(theme.Card.Width(min(max(width-4, 20), 60)).Render(body), width, height)
}
