package auth

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/brianquiz/brianquiz/internal/appstate"
	"github.com/brianquiz/brianquiz/internal/auth"
	"github.com/brianquiz/brianquiz/internal/quiz"
	"github.com/brianquiz/brianquiz/internal/screen"
)

type fakeService struct {
	registered []string
	loginErr   error
}

func (f *fakeService) Register(_ context.Context, username, password string) (quiz.User, error) {
	if st := auth.CheckStrength(password); !st.Valid() {
		return quiz.User{}, &auth.PolicyError{Unmet: st.Unmet()}
	}
	f.registered = append(f.registered, username)
	return quiz.User{ID: "u1", Username: username}, nil
}

func (f *fakeService) Login(_ context.Context, username, _ string) (quiz.User, error) {
	if f.loginErr != nil {
		return quiz.User{}, f.loginErr
	}
	return quiz.User{ID: "u1", Username: username}, nil
}

func typeText(s screen.Screen, text string) screen.Screen {
	for _, r := range text {
		s, _ = s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return s
}

func enter(s screen.Screen) (screen.Screen, tea.Cmd) {
	return s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
}

// roundTrip runs cmd, feeds the result back and returns whatever the
// screen emits next.
func roundTrip(t *testing.T, s screen.Screen, cmd tea.Cmd) (screen.Screen, tea.Msg) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	s, next := s.Update(cmd())
	if next == nil {
		return s, nil
	}
	return s, next()
}

func TestLoginEmitsSignedIn(t *testing.T) {
	var s screen.Screen = New(&fakeService{})
	s = typeText(s, "ada")
	s, _ = enter(s)
	s = typeText(s, "secret")
	s, cmd := enter(s)

	_, out := roundTrip(t, s, cmd)
	nav, ok := out.(screen.NavMsg)
	if !ok || nav.Event != appstate.SignedIn {
		t.Fatalf("expected SignedIn nav, got %#v", out)
	}
	if nav.User == nil || nav.User.Username != "ada" {
		t.Fatalf("unexpected user %+v", nav.User)
	}
}

func TestLoginFailureShowsError(t *testing.T) {
	var s screen.Screen = New(&fakeService{loginErr: auth.ErrInvalidCredentials})
	s = typeText(s, "ada")
	s, _ = enter(s)
	s = typeText(s, "nope")
	s, cmd := enter(s)
	s, out := roundTrip(t, s, cmd)
	if out != nil {
		t.Fatalf("failure must not navigate, got %#v", out)
	}
	if !strings.Contains(s.View(80, 24), "Wrong username or password") {
		t.Error("error should be shown inline")
	}
}

func TestRegisterShowsStrengthAndRejectsWeak(t *testing.T) {
	svc := &fakeService{}
	var s screen.Screen = New(svc)
	s, _ = s.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	if s.Title() != "Create account" {
		t.Fatalf("ctrl+r should switch to register, title %q", s.Title())
	}
	s = typeText(s, "ada")
	s, _ = enter(s)
	s = typeText(s, "weak")

	if v := s.View(80, 30); !strings.Contains(v, "Strength") || !strings.Contains(v, "At least 8 characters") {
		t.Errorf("strength checklist missing:\n%s", v)
	}

	s, cmd := enter(s)
	s, out := roundTrip(t, s, cmd)
	if out != nil || len(svc.registered) != 0 {
		t.Fatal("weak password must not register")
	}
	if !strings.Contains(s.View(80, 30), "too weak") {
		t.Error("policy error should be shown")
	}
}

func TestRegisterStrongPassword(t *testing.T) {
	svc := &fakeService{}
	var s screen.Screen = New(svc)
	s, _ = s.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	s = typeText(s, "grace")
	s, _ = s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	s = typeText(s, "Str0ng!pw")
	s, cmd := enter(s)
	_, out := roundTrip(t, s, cmd)
	if nav, ok := out.(screen.NavMsg); !ok || nav.Event != appstate.SignedIn {
		t.Fatalf("expected SignedIn, got %#v", out)
	}
	if len(svc.registered) != 1 || svc.registered[0] != "grace" {
		t.Errorf("registered %v", svc.registered)
	}
}

func TestEmptySubmitIsRejectedLocally(t *testing.T) {
	var s screen.Screen = New(&fakeService{})
	s, _ = enter(s)
	_, cmd := enter(s)
	if cmd != nil {
		t.Fatal("empty form must not call the service")
	}
}

func TestStaleResultIgnored(t *testing.T) {
	as := New(&fakeService{})
	as.gen = 2
	_, cmd := as.Update(resultMsg{gen: 1, user: quiz.User{Username: "old"}})
	if cmd != nil {
		t.Fatal("stale result must be dropped")
	}
}
