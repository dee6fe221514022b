// Package take runs a timed quiz attempt.
package take

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/brianquiz/brianquiz/internal/appstate"
	"github.com/brianquiz/brianquiz/internal/attempt"
	"github.com/brianquiz/brianquiz/internal/quiz"
	"github.com/brianquiz/brianquiz/internal/screen"
	"github.com/brianquiz/brianquiz/internal/ui/components"
	"github.com/brianquiz/brianquiz/internal/ui/layout"
)

// TakeScreen presents one question at a time under a countdown.
type TakeScreen struct {
	attempt     *attempt.Attempt
	timer       *attempt.Timer
	participant string
	options     components.OptionList
	correct     bool
	confirmExit bool
	done        bool
}

var _ screen.Screen = (*TakeScreen)(nil)
var _ screen.KeyHintProvider = (*TakeScreen)(nil)
var _ screen.Closer = (*TakeScreen)(nil)

// New starts an attempt at q for participant. It fails when q cannot be
// taken.
func New(q *quiz.Session, participant string) (*TakeScreen, error) {
	a, err := attempt.Start(q)
	if err != nil {
		return nil, err
	}
	t := &TakeScreen{
		attempt:     a,
		timer:       attempt.NewTimer(time.Second),
		participant: participant,
	}
	t.loadQuestion()
	return t, nil
}

func (t *TakeScreen) loadQuestion() {
	q := t.attempt.Current()
	var texts []string
	if q.Type == quiz.MultipleChoice {
		texts = q.Options
	}
	t.options = components.NewOptionList(q.Labels(), texts, q.CorrectAnswer)
	t.correct = false
}

func (t *TakeScreen) Init() tea.Cmd { return t.timer.Start() }

func (t *TakeScreen) Title() string { return t.attempt.Quiz().Title }

// Close stops the countdown.
func (t *TakeScreen) Close() { t.timer.Stop() }

func (t *TakeScreen) KeyHints() []layout.KeyHint {
	if t.confirmExit {
		return []layout.KeyHint{{Key: "Y", Description: "Leave quiz"}, {Key: "N", Description: "Keep going"}}
	}
	if t.options.Revealed() {
		next := "Next question"
		if t.attempt.IsLast() {
			next = "Finish"
		}
		return []layout.KeyHint{{Key: "Enter", Description: next}, {Key: "Esc", Description: "Exit"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Answer"},
		{Key: "A-D / T-F", Description: "Answer directly"},
		{Key: "Esc", Description: "Exit"},
	}
}

func (t *TakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if t.done {
		return t, nil
	}
	switch msg := msg.(type) {
	case attempt.TickMsg:
		if !t.timer.Accept(msg) {
			return t, nil
		}
		if t.attempt.Tick() {
			return t, t.finish()
		}
		return t, t.timer.Next()

	case tea.KeyPressMsg:
		if t.confirmExit {
			return t, t.handleConfirmExit(msg)
		}
		return t, t.handleKey(msg)
	}
	return t, nil
}

func (t *TakeScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	if key == "esc" {
		t.confirmExit = true
		return nil
	}

	if t.options.Revealed() {
		if key == "enter" || key == "space" || key == " " {
			return t.advance()
		}
		return nil
	}

	if key == "enter" {
		return t.answer(t.options.Current())
	}
	if label, ok := t.options.LabelForKey(key); ok && len(key) == 1 {
		return t.answer(label)
	}
	t.options, _ = t.options.Update(msg)
	return nil
}

func (t *TakeScreen) answer(label string) tea.Cmd {
	correct, err := t.attempt.SelectAnswer(label)
	if err != nil {
		return nil
	}
	t.correct = correct
	t.options.Reveal(label)
	return nil
}

func (t *TakeScreen) advance() tea.Cmd {
	submitted, err := t.attempt.Advance()
	if err != nil {
		return nil
	}
	if submitted {
		return t.finish()
	}
	t.loadQuestion()
	return nil
}

func (t *TakeScreen) handleConfirmExit(msg tea.KeyPressMsg) tea.Cmd {
	switch (components.Confirm{}).Handle(msg) {
	case components.Yes:
		t.timer.Stop()
		_ = t.attempt.Exit()
		t.done = true
		return screen.Go(appstate.ExitTake)
	case components.No:
		t.confirmExit = false
	}
	return nil
}

func (t *TakeScreen) finish() tea.Cmd {
	t.timer.Stop()
	t.done = true
	score, total, _ := t.attempt.Result()
	return screen.Nav(screen.NavMsg{Event: appstate.Finish, Score: score, Total: total, Name: t.participant})
}

func formatClock(d time.Duration) string {
	s := int(d / time.Second)
	if s >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", s/3600, s/60%60, s%60)
	}
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
