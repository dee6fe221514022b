// Package result shows a finished attempt's score.
package result

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/brianquiz/brianquiz/internal/appstate"
	"github.com/brianquiz/brianquiz/internal/quiz"
	"github.com/brianquiz/brianquiz/internal/scoring"
	"github.com/brianquiz/brianquiz/internal/screen"
	"github.com/brianquiz/brianquiz/internal/ui/components"
	"github.com/brianquiz/brianquiz/internal/ui/layout"
	"github.com/brianquiz/brianquiz/internal/ui/theme"
)

// Params describes what to show.
type Params struct {
	QuizTitle   string
	Participant string
	Result      scoring.Result

	// Slot is the slot the quiz was taken from, nil when it was taken
	// straight from the editor. Its leaderboard is shown.
	Slot *quiz.Slot
	// RecordID highlights the participant's own leaderboard row.
	RecordID string
}

// ResultScreen presents the score, band and leaderboard.
type ResultScreen struct {
	p Params
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)

func New(p Params) *ResultScreen { return &ResultScreen{p: p} }

func (r *ResultScreen) Init() tea.Cmd { return nil }

func (r *ResultScreen) Title() string { return "Result" }

func (r *ResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Enter", Description: "Back to library"}}
}

func (r *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return r, screen.Go(appstate.BackHome)
		}
	}
	return r, nil
}

func message(res scoring.Result, name string) string {
	if scoring.Passed(res.ScoreTen) {
		return fmt.Sprintf("Well done, %s! You passed.", name)
	}
	return fmt.Sprintf("Sorry, %s, not this time. Keep practicing!", name)
}

func (r *ResultScreen) View(width, height int) string {
	res := r.p.Result
	cw := min(max(width-4, 20), 72)

	bandStyle := theme.Correct
	if !scoring.Passed(res.ScoreTen) {
		bandStyle = theme.Incorrect
	}

	score := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Render(res.String() + " / 10")
	sections := []string{
		theme.Subtitle.Render(r.p.QuizTitle),
		score,
		bandStyle.Render(res.Band.Marker + " " + res.Band.Label),
		theme.Body.Render(fmt.Sprintf("%d of %d correct", res.Score, res.Total)),
		theme.Notice.Render(message(res, r.p.Participant)),
	}
	head := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(strings.Join(sections, "\n"))

	out := head
	if r.p.Slot != nil {
		board := components.Leaderboard{
			Entries:   scoring.Leaderboard(r.p.Slot.Participants),
			Limit:     max(height-14, 3),
			Highlight: r.p.RecordID,
		}
		out += "\n\n" + theme.Card.Width(cw).Render(theme.Subtitle.Render("Leaderboard · "+r.p.Slot.Name)+"\n"+board.View())
	}
	return layout.Center(out, width, height)
}
