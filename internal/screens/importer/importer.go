// Package importer confirms where a shared quiz should be saved.
package importer

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/brianquiz/brianquiz/internal/appstate"
	"github.com/brianquiz/brianquiz/internal/quiz"
	"github.com/brianquiz/brianquiz/internal/router"
	"github.com/brianquiz/brianquiz/internal/screen"
	"github.com/brianquiz/brianquiz/internal/ui/components"
	"github.com/brianquiz/brianquiz/internal/ui/layout"
	"github.com/brianquiz/brianquiz/internal/ui/theme"
)

// SlotSaver is the slot store as seen by the importer.
type SlotSaver interface {
	Slots() []quiz.Slot
	SaveToSlot(ctx context.Context, id int, q *quiz.Session) (quiz.Slot, error)
}

// ImportScreen shows a decoded quiz and lets the user pick a slot for it.
type ImportScreen struct {
	quiz    *quiz.Session
	store   SlotSaver
	slots   []quiz.Slot
	menu    components.Menu
	confirm bool
}

var _ screen.Screen = (*ImportScreen)(nil)
var _ screen.KeyHintProvider = (*ImportScreen)(nil)

// New creates the screen for q.
func New(q *quiz.Session, store SlotSaver) *ImportScreen {
	s := &ImportScreen{quiz: q, store: store, slots: store.Slots()}
	items := make([]components.MenuItem, len(s.slots))
	for i, sl := range s.slots {
		detail := "empty"
		if !sl.Empty() {
			detail = fmt.Sprintf("holds %q", sl.Quiz.Title)
		}
		items[i] = components.MenuItem{Label: fmt.Sprintf("%d. %s", sl.ID, sl.Name), Detail: detail}
	}
	s.menu = components.NewMenu(items)
	for i, sl := range s.slots {
		if sl.Empty() {
			s.menu.Selected = i
			break
		}
	}
	return s
}

func (s *ImportScreen) Init() tea.Cmd { return nil }

func (s *ImportScreen) Title() string { return "Import quiz" }

func (s *ImportScreen) KeyHints() []layout.KeyHint {
	if s.confirm {
		return []layout.KeyHint{{Key: "Y", Description: "Replace"}, {Key: "N", Description: "Pick another"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Slot"},
		{Key: "Enter", Description: "Save here"},
		{Key: "T", Description: "Take without saving"},
		{Key: "Esc", Description: "Cancel"},
	}
}

func (s *ImportScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	if s.confirm {
		switch (components.Confirm{}).Handle(kmsg) {
		case components.Yes:
			return s, s.save()
		case components.No:
			s.confirm = false
		}
		return s, nil
	}

	switch kmsg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "t":
		return s, screen.Nav(screen.NavMsg{Event: appstate.TakeSlot, Quiz: s.quiz.Clone()})
	case "enter":
		if !s.slots[s.menu.Selected].Empty() {
			s.confirm = true
			return s, nil
		}
		return s, s.save()
	}
	s.menu, _ = s.menu.Update(kmsg)
	return s, nil
}

func (s *ImportScreen) save() tea.Cmd {
	s.confirm = false
	target := s.slots[s.menu.Selected]
	saved, err := s.store.SaveToSlot(context.Background(), target.ID, s.quiz)
	if err != nil {
		return screen.Fail("Import failed: " + err.Error())
	}
	return tea.Batch(
		screen.Go(appstate.ImportShared),
		screen.Notify(fmt.Sprintf("Imported %q into %s.", s.quiz.Title, saved.Name)),
	)
}

func (s *ImportScreen) View(width, height int) string {
	body := theme.Title.Render(s.quiz.Title) + "\n" +
		theme.Subtitle.Render(fmt.Sprintf("%d questions · %d minutes",
			len(s.quiz.Questions), int(s.quiz.EffectiveTimeLimit().Minutes()))) +
		"\n\n" + theme.Body.Render("Save it to:") + "\n" + s.menu.View()

	if s.confirm {
		sl := s.slots[s.menu.Selected]
		body += "\n\n" + components.Confirm{
			Prompt: fmt.Sprintf("%s already holds %q. Replace it? Its leaderboard is kept.", sl.Name, sl.Quiz.Title),
		}.View()
	}
	return layout.Center(theme.Card.Width(min(max(width-4, 20), 72)).Render(body), width, height)
}
