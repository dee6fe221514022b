package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/brianquiz/brianquiz/internal/ui/theme"
)

// OptionList presents the answers of one question. After Reveal it shows
// the correct option in green and a wrong pick in red.
type OptionList struct {
	Labels  []string
	Texts   []string
	Cursor  int
	Correct string
	Chosen  string
}

// NewOptionList builds the list for labels (A-D or True/False). texts may
// be nil when the label is the whole answer.
func NewOptionList(labels, texts []string, correct string) OptionList {
	return OptionList{Labels: labels, Texts: texts, Correct: correct}
}

// Revealed reports whether an answer has been chosen.
func (o OptionList) Revealed() bool { return o.Chosen != "" }

// Current returns the label under the cursor.
func (o OptionList) Current() string { return o.Labels[o.Cursor] }

// Reveal records label as the chosen answer.
func (o *OptionList) Reveal(label string) { o.Chosen = label }

// LabelForKey maps a typed key to a label: a-d/1-4 for options, t/f for
// true/false. ok is false for anything else.
func (o OptionList) LabelForKey(key string) (string, bool) {
	k := strings.ToLower(key)
	for i, l := range o.Labels {
		if strings.ToLower(l) == k || strings.ToLower(l[:1]) == k || fmt.Sprint(i+1) == k {
			return l, true
		}
	}
	return "", false
}

// Update moves the cursor. Selection is left to the owner.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	if o.Revealed() {
		return o, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return o, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
	case "down", "j":
		if o.Cursor < len(o.Labels)-1 {
			o.Cursor++
		}
	}
	return o, nil
}

// View renders the options.
func (o OptionList) View() string {
	var b strings.Builder
	for i, label := range o.Labels {
		prefix := "  "
		if i == o.Cursor && !o.Revealed() {
			prefix = "▸ "
		}
		line := prefix + label
		if i < len(o.Texts) {
			line = fmt.Sprintf("%s%s)  %s", prefix, label, o.Texts[i])
		}

		style := theme.Unselected
		switch {
		case o.Revealed() && label == o.Correct:
			style = theme.Correct
			line += "  ✓"
		case o.Revealed() && label == o.Chosen:
			style = theme.Incorrect
			line += "  ✗"
		case o.Revealed():
			style = theme.Subtitle
		case i == o.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
