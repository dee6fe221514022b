package home

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/brianquiz/brianquiz/internal/appstate"
	"github.com/brianquiz/brianquiz/internal/kv"
	"github.com/brianquiz/brianquiz/internal/quiz"
	"github.com/brianquiz/brianquiz/internal/screen"
	"github.com/brianquiz/brianquiz/internal/share"
	"github.com/brianquiz/brianquiz/internal/slots"
)

func sampleQuiz() *quiz.Session {
	q := quiz.NewSession("Capitals")
	q.Questions = []quiz.Question{{
		ID: "q1", Type: quiz.MultipleChoice, Text: "Capital of France?",
		Options: []string{"Paris", "Rome", "Oslo", "Bern"}, CorrectAnswer: "A",
	}}
	return q
}

func newHome(t *testing.T) (*HomeScreen, *slots.Store) {
	t.Helper()
	ctx := context.Background()
	st := slots.Load(ctx, kv.NewMemory(), "u1", slots.Options{})
	if _, err := st.SaveToSlot(ctx, 1, sampleQuiz()); err != nil {
		t.Fatal(err)
	}
	return New(st, Options{BaseURL: "https://brianquiz.app/"}), st
}

func press(h *HomeScreen, key string) tea.Cmd {
	var msg tea.KeyPressMsg
	switch key {
	case "enter":
		msg = tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		msg = tea.KeyPressMsg{Code: tea.KeyEscape}
	case "down":
		msg = tea.KeyPressMsg{Code: tea.KeyDown}
	default:
		r := []rune(key)[0]
		msg = tea.KeyPressMsg{Code: r, Text: key}
	}
	_, cmd := h.Update(msg)
	return cmd
}

func navOf(t *testing.T, cmd tea.Cmd) screen.NavMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	nav, ok := cmd().(screen.NavMsg)
	if !ok {
		t.Fatalf("expected NavMsg, got %T", cmd())
	}
	return nav
}

func TestOpenAndTakeFilledSlot(t *testing.T) {
	h, _ := newHome(t)

	nav := navOf(t, press(h, "enter"))
	if nav.Event != appstate.OpenSlot || nav.SlotID != 1 || nav.Quiz == nil {
		t.Fatalf("enter: got %+v", nav)
	}

	nav = navOf(t, press(h, "t"))
	if nav.Event != appstate.TakeSlot || nav.Quiz.Title != "Capitals" {
		t.Fatalf("t: got %+v", nav)
	}
}

func TestEmptySlot(t *testing.T) {
	h, _ := newHome(t)
	press(h, "down")

	nav := navOf(t, press(h, "enter"))
	if nav.Event != appstate.NewQuiz || nav.SlotID != 2 {
		t.Fatalf("enter on empty slot: got %+v", nav)
	}

	msg := press(h, "t")()
	if n, ok := msg.(screen.NoticeMsg); !ok || !n.Err {
		t.Fatalf("taking an empty slot should fail, got %#v", msg)
	}
}

func TestRenameSlot(t *testing.T) {
	h, st := newHome(t)
	press(h, "r")
	h.input.SetValue("Geograph")
	press(h, "y")
	press(h, "enter")

	sl, _ := st.Slot(1)
	if sl.Name != "Geography" {
		t.Fatalf("name = %q", sl.Name)
	}
	if !strings.Contains(h.View(100, 40), "Geography") {
		t.Error("view should show the new name")
	}
}

func TestClearSlotNeedsConfirmation(t *testing.T) {
	h, st := newHome(t)
	press(h, "x")
	press(h, "n")
	if sl, _ := st.Slot(1); sl.Empty() {
		t.Fatal("declining must keep the quiz")
	}

	press(h, "x")
	press(h, "y")
	if sl, _ := st.Slot(1); !sl.Empty() {
		t.Fatal("confirming must clear the slot")
	}
}

func TestOpenLink(t *testing.T) {
	h, _ := newHome(t)
	token, err := share.Encode(sampleQuiz())
	if err != nil {
		t.Fatal(err)
	}
	press(h, "i")
	h.input.SetValue("https://brianquiz.app/?share=" + token)
	msg := press(h, "enter")()
	open, ok := msg.(screen.OpenLinkMsg)
	if !ok || open.Ref.Token != token {
		t.Fatalf("expected OpenLinkMsg with token, got %#v", msg)
	}
}

func TestOpenBadLinkStaysOpen(t *testing.T) {
	h, _ := newHome(t)
	press(h, "i")
	h.input.SetValue("https://example.com/")
	if cmd := press(h, "enter"); cmd != nil {
		t.Fatal("bad link must not emit")
	}
	if h.mode != modeLink || !strings.Contains(h.View(100, 40), "not a BrianQuiz link") {
		t.Error("error should be shown in the link prompt")
	}
	press(h, "esc")
	if h.mode != modeBrowse {
		t.Error("esc should close the prompt")
	}
}

func TestLeaderboardShown(t *testing.T) {
	h, st := newHome(t)
	ctx := context.Background()
	if err := st.RecordParticipant(ctx, 1, quiz.NewParticipant("Ada", "", 1, 1, time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := st.RecordParticipant(ctx, 1, quiz.NewParticipant("", "", 0, 1, time.Now())); err != nil {
		t.Fatal(err)
	}
	h.reload()

	v := h.View(100, 40)
	for _, want := range []string{"Leaderboard", "Ada", "10.0", "Excellent", quiz.AnonymousName} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
