package editor

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/brianquiz/brianquiz/internal/questiongen"
	"github.com/brianquiz/brianquiz/internal/quiz"
	"github.com/brianquiz/brianquiz/internal/ui/components"
	"github.com/brianquiz/brianquiz/internal/ui/layout"
	"github.com/brianquiz/brianquiz/internal/ui/theme"
)

func typeName(t quiz.QuestionType) string {
	if t == quiz.TrueFalse {
		return "True / False"
	}
	return "Multiple choice"
}

func orPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return theme.Hint.Render(placeholder)
	}
	return s
}

func (e *EditorScreen) renderRow(i int, r row) string {
	q := e.draft.Quiz()
	var label, value string
	switch r.kind {
	case rowTitle:
		label, value = "Title", orPlaceholder(q.Title, "untitled")
	case rowTimeLimit:
		limit := q.TimeLimit
		if limit == 0 {
			limit = quiz.DefaultTimeLimit
		}
		label, value = "Time limit", fmt.Sprintf("◂ %d min ▸", limit)
	case rowText:
		qu := q.Questions[r.qi]
		label = fmt.Sprintf("Q%d", r.qi+1)
		value = orPlaceholder(qu.Text, "question text") + "  " + theme.Subtitle.Render("["+typeName(qu.Type)+"]")
	case rowOption:
		label = "   " + quiz.OptionLabels[r.option]
		value = orPlaceholder(q.Questions[r.qi].Options[r.option], "empty option")
	case rowAnswer:
		label, value = "   Answer", theme.Correct.Render("◂ "+q.Questions[r.qi].CorrectAnswer+" ▸")
	case rowExplanation:
		label, value = "   Why", orPlaceholder(q.Questions[r.qi].Explanation, "optional explanation")
	}

	if i == e.cursor && e.mode == modeEditing {
		value = e.input.View()
	}
	prefix, style := "  ", theme.Unselected
	if i == e.cursor {
		prefix, style = "▸ ", theme.Selected
	}
	return style.Render(fmt.Sprintf("%s%-11s", prefix, label)) + " " + value
}

// window returns the row range to draw so the cursor stays visible.
func window(n, cursor, height int) (int, int) {
	if n <= height {
		return 0, n
	}
	start := min(max(cursor-height/2, 0), n-height)
	return start, start + height
}

func (e *EditorScreen) View(width, height int) string {
	var overlay string
	switch e.mode {
	case modeConfirmDelete:
		overlay = components.Confirm{Prompt: "Delete this question?"}.View()
	case modeTopic:
		overlay = theme.Card.Render(
			theme.Title.Render("Generate questions") + "\n\n" +
				theme.Subtitle.Render("Topic") + "\n" + e.input.View() + "\n\n" +
				theme.Subtitle.Render(fmt.Sprintf("How many (1-%d)", e.deps.MaxCount)) + "\n" + e.count.View())
	case modeExtract:
		overlay = theme.Card.Render(
			theme.Title.Render("Extract a quiz") + "\n\n" +
				theme.Subtitle.Render("Text file or image") + "\n" + e.input.View())
	case modeGenerating:
		what := "Generating questions"
		if e.aiMode == questiongen.ModeExtract {
			what = "Extracting quiz"
		}
		overlay = theme.Card.Render(theme.Notice.Render(what+"...") + "\n" + theme.Hint.Render("esc to cancel"))
	case modePickSlot:
		overlay = theme.Card.Render(theme.Title.Render("Save to slot") + "\n\n" + e.slotMenu.View())
	case modeConfirmOverwrite:
		overlay = components.Confirm{Prompt: "That slot holds another quiz. Replace it?"}.View()
	}
	if overlay != "" {
		if e.errMsg != "" {
			overlay += "\n" + theme.ErrorText.Render(e.errMsg)
		}
		return layout.Center(overlay, width, height)
	}

	status := fmt.Sprintf("%d questions", len(e.draft.Quiz().Questions))
	if e.draft.Dirty() {
		status += " · unsaved"
	}
	header := theme.Subtitle.Render(status)

	avail := max(height-4, 3)
	start, end := window(len(e.rows), e.cursor, avail)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, lipgloss.NewStyle().MaxWidth(width-2).Render(e.renderRow(i, e.rows[i])))
	}

	out := header + "\n\n" + strings.Join(lines, "\n")
	if e.errMsg != "" {
		out += "\n\n" + theme.ErrorText.Render(e.errMsg)
	}
	return out
}
