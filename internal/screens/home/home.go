// Package home is the slot library: every saved quiz with its leaderboard.
package home

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/brianquiz/brianquiz/internal/appstate"
	"github.com/brianquiz/brianquiz/internal/quiz"
	"github.com/brianquiz/brianquiz/internal/screen"
	"github.com/brianquiz/brianquiz/internal/share"
	"github.com/brianquiz/brianquiz/internal/ui/components"
	"github.com/brianquiz/brianquiz/internal/ui/layout"
)

// Slots is the slot store as seen by the home screen.
type Slots interface {
	Slots() []quiz.Slot
	RenameSlot(ctx context.Context, id int, name string) error
	ClearSlot(ctx context.Context, id int) error
}

// Options configures the home screen.
type Options struct {
	// BaseURL is the root of generated share links.
	BaseURL string
	// AIProvider names the configured AI provider, empty when AI is off.
	AIProvider string
}

type mode int

const (
	modeBrowse mode = iota
	modeRename
	modeConfirmClear
	modeLink
)

// HomeScreen lists the user's slots.
type HomeScreen struct {
	store  Slots
	opts   Options
	slots  []quiz.Slot
	cursor int
	mode   mode
	input  components.TextInput
	errMsg string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates the home screen over store.
func New(store Slots, opts Options) *HomeScreen {
	return &HomeScreen{store: store, opts: opts, slots: store.Slots()}
}

func (h *HomeScreen) Init() tea.Cmd { return nil }

func (h *HomeScreen) Title() string { return "Library" }

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	switch h.mode {
	case modeRename, modeLink:
		return []layout.KeyHint{{Key: "Enter", Description: "Confirm"}, {Key: "Esc", Description: "Cancel"}}
	case modeConfirmClear:
		return []layout.KeyHint{{Key: "Y", Description: "Clear slot"}, {Key: "N", Description: "Keep"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Select"},
		{Key: "Enter", Description: "Edit"},
		{Key: "T", Description: "Take"},
		{Key: "N", Description: "New"},
		{Key: "S", Description: "Share"},
		{Key: "R", Description: "Rename"},
		{Key: "X", Description: "Clear"},
		{Key: "I", Description: "Open link"},
		{Key: "L", Description: "Log out"},
	}
}

func (h *HomeScreen) selected() (quiz.Slot, bool) {
	if h.cursor < 0 || h.cursor >= len(h.slots) {
		return quiz.Slot{}, false
	}
	return h.slots[h.cursor], true
}

func (h *HomeScreen) reload() {
	h.slots = h.store.Slots()
	if h.cursor >= len(h.slots) {
		h.cursor = max(len(h.slots)-1, 0)
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		if h.mode == modeRename || h.mode == modeLink {
			var cmd tea.Cmd
			h.input, cmd = h.input.Update(msg)
			return h, cmd
		}
		return h, nil
	}

	switch h.mode {
	case modeRename:
		return h, h.handleRename(kmsg)
	case modeLink:
		return h, h.handleLink(kmsg)
	case modeConfirmClear:
		return h, h.handleClear(kmsg)
	}
	return h, h.handleBrowse(kmsg)
}

func (h *HomeScreen) handleBrowse(msg tea.KeyPressMsg) tea.Cmd {
	h.errMsg = ""
	sl, ok := h.selected()

	switch msg.String() {
	case "up", "k":
		if h.cursor > 0 {
			h.cursor--
		}
	case "down", "j":
		if h.cursor < len(h.slots)-1 {
			h.cursor++
		}
	case "n":
		return screen.Go(appstate.NewQuiz)
	case "enter", "e":
		if !ok {
			return nil
		}
		if sl.Empty() {
			return screen.Nav(screen.NavMsg{Event: appstate.NewQuiz, SlotID: sl.ID})
		}
		return screen.Nav(screen.NavMsg{Event: appstate.OpenSlot, Quiz: sl.Quiz.Clone(), SlotID: sl.ID})
	case "t":
		if !ok || sl.Empty() {
			return screen.Fail("This slot is empty.")
		}
		return screen.Nav(screen.NavMsg{Event: appstate.TakeSlot, Quiz: sl.Quiz.Clone(), SlotID: sl.ID})
	case "s":
		if !ok || sl.Empty() {
			return screen.Fail("Nothing to share in an empty slot.")
		}
		return h.shareQuiz(sl)
	case "S":
		if !ok || sl.Empty() {
			return screen.Fail("Nothing to share in an empty slot.")
		}
		return h.shareSlot(sl)
	case "r":
		if !ok {
			return nil
		}
		h.mode = modeRename
		h.input = components.NewTextInput("slot name", 40)
		h.input.SetValue(sl.Name)
		return h.input.Focus()
	case "x":
		if ok && !sl.Empty() {
			h.mode = modeConfirmClear
		}
	case "i":
		h.mode = modeLink
		h.input = components.NewTextInput("paste a share link or token", 0)
		return h.input.Focus()
	case "l":
		return screen.Go(appstate.SignedOut)
	}
	return nil
}

func (h *HomeScreen) handleRename(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		h.mode = modeBrowse
		return nil
	case "enter":
		h.mode = modeBrowse
		sl, ok := h.selected()
		if !ok {
			return nil
		}
		if err := h.store.RenameSlot(context.Background(), sl.ID, h.input.Value()); err != nil {
			return screen.Fail("Rename failed: " + err.Error())
		}
		h.reload()
		return nil
	}
	var cmd tea.Cmd
	h.input, cmd = h.input.Update(msg)
	return cmd
}

func (h *HomeScreen) handleClear(msg tea.KeyPressMsg) tea.Cmd {
	switch (components.Confirm{}).Handle(msg) {
	case components.Yes:
		h.mode = modeBrowse
		sl, _ := h.selected()
		if err := h.store.ClearSlot(context.Background(), sl.ID); err != nil {
			return screen.Fail("Clear failed: " + err.Error())
		}
		h.reload()
		return screen.Notify(fmt.Sprintf("%s cleared.", sl.Name))
	case components.No:
		h.mode = modeBrowse
	}
	return nil
}

func (h *HomeScreen) handleLink(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		h.mode = modeBrowse
		h.errMsg = ""
		return nil
	case "enter":
		ref, err := share.ParseLink(h.input.Value())
		if err != nil {
			h.errMsg = "That is not a BrianQuiz link."
			return nil
		}
		h.mode = modeBrowse
		h.errMsg = ""
		return func() tea.Msg { return screen.OpenLinkMsg{Ref: ref} }
	}
	var cmd tea.Cmd
	h.input, cmd = h.input.Update(msg)
	return cmd
}

func (h *HomeScreen) shareQuiz(sl quiz.Slot) tea.Cmd {
	token, err := share.Encode(sl.Quiz)
	if err != nil {
		return screen.Fail("Cannot share: " + err.Error())
	}
	link, err := share.Link(h.opts.BaseURL, token)
	if err != nil {
		return screen.Fail("Cannot share: " + err.Error())
	}
	return tea.Batch(tea.SetClipboard(link), screen.Notify("Share link copied to clipboard."))
}

func (h *HomeScreen) shareSlot(sl quiz.Slot) tea.Cmd {
	link, err := share.SlotLink(h.opts.BaseURL, sl.ShareID)
	if err != nil {
		return screen.Fail("Cannot share: " + err.Error())
	}
	return tea.Batch(tea.SetClipboard(link), screen.Notify("Slot link copied to clipboard."))
}
