package components

import (
	"fmt"
	"strings"

	"github.com/brianquiz/brianquiz/internal/scoring"
	"github.com/brianquiz/brianquiz/internal/ui/theme"
)

// Leaderboard renders ranked participants. Limit caps the rows shown;
// zero shows all. Highlight names a participant ID to emphasize.
type Leaderboard struct {
	Entries   []scoring.Entry
	Limit     int
	Highlight string
}

// View renders the table.
func (l Leaderboard) View() string {
	if len(l.Entries) == 0 {
		return theme.Hint.Render("No one has taken this quiz yet.")
	}
	rows := l.Entries
	if l.Limit > 0 && len(rows) > l.Limit {
		rows = rows[:l.Limit]
	}
	var b strings.Builder
	for _, e := range rows {
		name := e.Participant.Name
		if len([]rune(name)) > 18 {
			name = string([]rune(name)[:17]) + "…"
		}
		line := fmt.Sprintf("%3d. %-18s %5s  %s %-9s %s",
			e.Rank, name, e.Result.String(), e.Result.Band.Marker, e.Result.Band.Label,
			e.Participant.CompletedAt.Local().Format("Jan 2 15:04"))
		style := theme.Body
		switch {
		case l.Highlight != "" && e.Participant.ID == l.Highlight:
			style = theme.Selected
		case !scoring.Passed(e.Result.ScoreTen):
			style = theme.Subtitle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	if len(rows) < len(l.Entries) {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("     … and %d more", len(l.Entries)-len(rows))))
	}
	return strings.TrimRight(b.String(), "\n")
}
