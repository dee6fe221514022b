package take

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/brianquiz/brianquiz/internal/ui/components"
	"github.com/brianquiz/brianquiz/internal/ui/layout"
	"github.com/brianquiz/brianquiz/internal/ui/theme"
)

func (t *TakeScreen) View(width, height int) string {
	if t.confirmExit {
		return layout.Center(components.Confirm{
			Prompt: "Leave the quiz? Your answers will not be recorded.",
		}.View(), width, height)
	}

	cw := min(max(width-4, 20), 80)
	a := t.attempt

	clock := "⏱ " + formatClock(a.TimeLeft())
	if a.Urgent() {
		clock = theme.Urgent.Render(clock + " hurry!")
	} else {
		clock = theme.Subtitle.Render(clock)
	}
	bar := components.NewProgressBar("", a.Index()+1, a.Total(), max(cw-lipgloss.Width(clock)-2, 10)).View()
	top := lipgloss.JoinHorizontal(lipgloss.Top, bar, "  ", clock)

	q := a.Current()
	var sections []string
	sections = append(sections, top)
	sections = append(sections, theme.Subtitle.Render(fmt.Sprintf("%s · question %d of %d", t.participant, a.Index()+1, a.Total())))
	sections = append(sections, lipgloss.NewStyle().Width(cw).Bold(true).Foreground(theme.Text).Render(q.Text))
	sections = append(sections, t.options.View())

	if t.options.Revealed() {
		sections = append(sections, feedback(t.correct, q.CorrectAnswer, q.Explanation, cw))
	}
	return layout.Center(strings.Join(sections, "\n\n"), width, height)
}

func feedback(correct bool, answer, explanation string, width int) string {
	var head string
	if correct {
		head = theme.Correct.Render("✓ Correct!")
	} else {
		head = theme.Incorrect.Render("✗ Not quite. The answer is " + answer + ".")
	}
	if explanation == "" {
		return head
	}
	return head + "\n" + lipgloss.NewStyle().Width(width).Foreground(theme.TextDim).Render(explanation)
}

