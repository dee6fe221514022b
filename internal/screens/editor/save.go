package editor

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/brianquiz/brianquiz/internal/quiz"
	"github.com/brianquiz/brianquiz/internal/screen"
	"github.com/brianquiz/brianquiz/internal/ui/components"
)

func slotItems(slots []quiz.Slot) []components.MenuItem {
	items := make([]components.MenuItem, len(slots))
	for i, sl := range slots {
		detail := "empty"
		if !sl.Empty() {
			detail = fmt.Sprintf("%s · %d questions", sl.Quiz.Title, len(sl.Quiz.Questions))
		}
		items[i] = components.MenuItem{Label: fmt.Sprintf("%d. %s", sl.ID, sl.Name), Detail: detail}
	}
	return items
}

func (e *EditorScreen) beginSave() tea.Cmd {
	e.errMsg = ""
	slots := e.deps.Slots.Slots()
	e.slotMenu = components.NewMenu(slotItems(slots))
	for i, sl := range slots {
		if sl.ID == e.draft.SlotID {
			e.slotMenu.Selected = i
		}
	}
	e.mode = modePickSlot
	return nil
}

func (e *EditorScreen) handlePickSlot(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		e.mode = modeNavigate
		return nil
	case "enter":
		slots := e.deps.Slots.Slots()
		if e.slotMenu.Selected >= len(slots) {
			return nil
		}
		target := slots[e.slotMenu.Selected]
		e.target = target.ID
		if overwrites(target, e.draft.Quiz()) {
			e.mode = modeConfirmOverwrite
			return nil
		}
		return e.save()
	}
	e.slotMenu, _ = e.slotMenu.Update(msg)
	return nil
}

// overwrites reports whether saving q into sl would replace a different quiz.
func overwrites(sl quiz.Slot, q *quiz.Session) bool {
	return !sl.Empty() && sl.Quiz.ID != q.ID
}

func (e *EditorScreen) handleConfirmOverwrite(msg tea.KeyPressMsg) tea.Cmd {
	switch (components.Confirm{}).Handle(msg) {
	case components.Yes:
		return e.save()
	case components.No:
		e.mode = modePickSlot
	}
	return nil
}

func (e *EditorScreen) save() tea.Cmd {
	e.mode = modeNavigate
	sl, err := e.deps.Slots.SaveToSlot(context.Background(), e.target, e.draft.Quiz())
	if err != nil {
		return screen.Fail("Save failed: " + err.Error())
	}
	e.draft.MarkSaved(sl.ID)
	return screen.Notify(fmt.Sprintf("Saved to %s.", sl.Name))
}
