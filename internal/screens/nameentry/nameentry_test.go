package nameentry

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/brianquiz/brianquiz/internal/appstate"
	"github.com/brianquiz/brianquiz/internal/quiz"
	"github.com/brianquiz/brianquiz/internal/screen"
)

func sample() *quiz.Session {
	q := quiz.NewSession("Birds")
	q.Questions = []quiz.Question{quiz.NewQuestion(quiz.TrueFalse)}
	q.Questions[0].Text = "Penguins fly"
	return q
}

func TestEnterWithName(t *testing.T) {
	n := New(sample())
	for _, r := range "  Ada " {
		n.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	_, cmd := n.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	nav := cmd().(screen.NavMsg)
	if nav.Event != appstate.EnterRoom || nav.Name != "Ada" {
		t.Fatalf("got %+v", nav)
	}
}

func TestBlankNameIsAnonymous(t *testing.T) {
	n := New(sample())
	_, cmd := n.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if nav := cmd().(screen.NavMsg); nav.Name != quiz.AnonymousName {
		t.Fatalf("got %q", nav.Name)
	}
}

func TestEscGoesBack(t *testing.T) {
	n := New(sample())
	_, cmd := n.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if nav := cmd().(screen.NavMsg); nav.Event != appstate.Back {
		t.Fatalf("got %v", nav.Event)
	}
}

func TestViewSummarizesQuiz(t *testing.T) {
	v := New(sample()).View(80, 24)
	for _, want := range []string{"Birds", "1 questions", "45 minutes"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
