package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/brianquiz/brianquiz/internal/quiz"
	"github.com/brianquiz/brianquiz/internal/scoring"
	"github.com/brianquiz/brianquiz/internal/ui/components"
	"github.com/brianquiz/brianquiz/internal/ui/layout"
	"github.com/brianquiz/brianquiz/internal/ui/theme"
)

const bannerFull = `╔╗ ┬─┐┬┌─┐┌┐┌╔═╗ ┬ ┬┬┌─┐
╠╩╗├┬┘│├─┤│││║═╬╗│ ││┌─┘
╚═╝┴└─┴┴ ┴┘└┘╚═╝╚└─┘┴└─┘`

const bannerCompact = "B R I A N Q U I Z"

// contentWidth returns the inner width shared by every section.
func contentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 72)
}

func renderBanner(cw int, compact bool) string {
	art := bannerFull
	if compact {
		art = bannerCompact
	}
	return lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Width(cw).
		Align(lipgloss.Center).
		Render(art)
}

func renderSlotList(slots []quiz.Slot, cursor, cw int) string {
	var lines []string
	for i, sl := range slots {
		detail := "empty"
		if !sl.Empty() {
			detail = fmt.Sprintf("%s · %d questions · %d taken",
				sl.Quiz.Title, len(sl.Quiz.Questions), len(sl.Participants))
			if sl.UpdatedAt != nil {
				detail += " · " + sl.UpdatedAt.Local().Format("Jan 2 15:04")
			}
		}
		prefix, style := "   ", theme.Unselected
		if i == cursor {
			prefix, style = " ▸ ", theme.Selected
		}
		line := style.Render(fmt.Sprintf("%s%d. %s", prefix, sl.ID, sl.Name))
		line += "  " + theme.Subtitle.Render(detail)
		lines = append(lines, lipgloss.NewStyle().MaxWidth(cw).Render(line))
	}
	return strings.Join(lines, "\n")
}

func renderLeaderboard(sl quiz.Slot, cw, rows int) string {
	title := theme.Subtitle.Render("Leaderboard · " + sl.Name)
	board := components.Leaderboard{Entries: scoring.Leaderboard(sl.Participants), Limit: rows}
	return theme.Card.Width(cw).Render(title + "\n" + board.View())
}

func renderAIBanner(provider string, cw int) string {
	text := "AI question generation: off (set an API key, see brianquiz --help)"
	if provider != "" {
		text = "AI question generation: " + provider
	}
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(cw).
		Align(lipgloss.Center).
		Render(text)
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < 24 || layout.IsCompactWidth(width)
	cw := contentWidth(width)

	sections := []string{renderBanner(cw, compact)}
	sections = append(sections, renderSlotList(h.slots, h.cursor, cw))

	switch h.mode {
	case modeRename:
		sections = append(sections, theme.Card.Width(cw).Render("Rename slot\n"+h.input.View()))
	case modeLink:
		body := "Open a shared quiz\n" + h.input.View()
		if h.errMsg != "" {
			body += "\n" + theme.ErrorText.Render(h.errMsg)
		}
		sections = append(sections, theme.Card.Width(cw).Render(body))
	case modeConfirmClear:
		sl, _ := h.selected()
		sections = append(sections, components.Confirm{
			Prompt: fmt.Sprintf("Clear %s? Its quiz and leaderboard will be deleted.", sl.Name),
		}.View())
	default:
		if sl, ok := h.selected(); ok && !sl.Empty() {
			rows := 5
			if compact {
				rows = 3
			}
			sections = append(sections, renderLeaderboard(sl, cw, rows))
		}
	}

	if !compact {
		sections = append(sections, renderAIBanner(h.opts.AIProvider, cw))
	}
	return layout.Center(strings.Join(sections, "\n\n"), width, height)
}
