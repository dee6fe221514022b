// Package auth is the sign-in and registration screen.
package auth

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/brianquiz/brianquiz/internal/appstate"
	"github.com/brianquiz/brianquiz/internal/auth"
	"github.com/brianquiz/brianquiz/internal/quiz"
	"github.com/brianquiz/brianquiz/internal/screen"
	"github.com/brianquiz/brianquiz/internal/ui/components"
	"github.com/brianquiz/brianquiz/internal/ui/layout"
	"github.com/brianquiz/brianquiz/internal/ui/theme"
)

// Service is the part of auth.Service the screen needs.
type Service interface {
	Register(ctx context.Context, username, password string) (quiz.User, error)
	Login(ctx context.Context, username, password string) (quiz.User, error)
}

type mode int

const (
	modeLogin mode = iota
	modeRegister
)

type resultMsg struct {
	gen  int
	user quiz.User
	err  error
}

// AuthScreen lets a user sign in or register.
type AuthScreen struct {
	svc      Service
	mode     mode
	onPass   bool
	username components.TextInput
	password components.TextInput
	errMsg   string
	busy     bool
	gen      int
}

var _ screen.Screen = (*AuthScreen)(nil)
var _ screen.KeyHintProvider = (*AuthScreen)(nil)

// New creates the screen.
func New(svc Service) *AuthScreen {
	s := &AuthScreen{
		svc:      svc,
		username: components.NewTextInput("username", 32),
		password: components.NewPasswordInput("password"),
	}
	s.password.Blur()
	return s
}

func (s *AuthScreen) Init() tea.Cmd { return s.username.Focus() }

func (s *AuthScreen) Title() string {
	if s.mode == modeRegister {
		return "Create account"
	}
	return "Sign in"
}

func (s *AuthScreen) KeyHints() []layout.KeyHint {
	other := "Register"
	if s.mode == modeRegister {
		other = "Sign in"
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+R", Description: other},
		{Key: "F2", Description: "Settings"},
	}
}

func (s *AuthScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		if msg.gen != s.gen {
			return s, nil
		}
		s.busy = false
		if msg.err != nil {
			s.errMsg = describe(msg.err)
			return s, nil
		}
		u := msg.user
		return s, screen.Nav(screen.NavMsg{Event: appstate.SignedIn, User: &u})

	case tea.KeyPressMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "ctrl+r":
			if s.mode == modeLogin {
				s.mode = modeRegister
			} else {
				s.mode = modeLogin
			}
			s.errMsg = ""
			return s, nil
		case "tab", "shift+tab", "up", "down":
			return s, s.toggleFocus()
		case "enter":
			if !s.onPass {
				return s, s.toggleFocus()
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	if s.onPass {
		s.password, cmd = s.password.Update(msg)
	} else {
		s.username, cmd = s.username.Update(msg)
	}
	return s, cmd
}

func (s *AuthScreen) toggleFocus() tea.Cmd {
	s.onPass = !s.onPass
	if s.onPass {
		s.username.Blur()
		return s.password.Focus()
	}
	s.password.Blur()
	return s.username.Focus()
}

func (s *AuthScreen) submit() tea.Cmd {
	username, password := strings.TrimSpace(s.username.Value()), s.password.Value()
	if username == "" || password == "" {
		s.errMsg = "Enter a username and password."
		return nil
	}
	s.busy = true
	s.errMsg = ""
	s.gen++
	gen, m, svc := s.gen, s.mode, s.svc
	return func() tea.Msg {
		ctx := context.Background()
		var u quiz.User
		var err error
		if m == modeRegister {
			u, err = svc.Register(ctx, username, password)
		} else {
			u, err = svc.Login(ctx, username, password)
		}
		return resultMsg{gen: gen, user: u, err: err}
	}
}

func describe(err error) string {
	var policy *auth.PolicyError
	switch {
	case errors.As(err, &policy):
		return "Password is too weak."
	case errors.Is(err, auth.ErrUsernameTaken):
		return "That username is taken."
	case errors.Is(err, auth.ErrInvalidUsername):
		return "Usernames are 3-32 characters with no spaces."
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Wrong username or password."
	default:
		return "Something went wrong: " + err.Error()
	}
}

func (s *AuthScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(s.Title()))
	b.WriteString("\n\n")
	b.WriteString(theme.Subtitle.Render("Username") + "\n")
	b.WriteString(s.username.View())
	b.WriteString("\n\n")
	b.WriteString(theme.Subtitle.Render("Password") + "\n")
	b.WriteString(s.password.View())

	if s.mode == modeRegister {
		b.WriteString("\n\n")
		b.WriteString(strengthView(auth.CheckStrength(s.password.Value())))
	}

	switch {
	case s.busy:
		b.WriteString("\n\n" + theme.Hint.Render("Checking..."))
	case s.errMsg != "":
		b.WriteString("\n\n" + theme.ErrorText.Render(s.errMsg))
	}

	card := theme.Card.Width(min(max(width-4, 20), 52)).Render(b.String())
	return layout.Center(card, width, height)
}

func strengthView(st auth.Strength) string {
	style := theme.Incorrect
	switch st.Label() {
	case "optimal":
		style = theme.Correct
	case "strong", "medium":
		style = theme.Notice
	}
	lines := []string{theme.Subtitle.Render("Strength: ") + style.Render(st.Label())}
	for _, r := range st.Rules {
		mark, ms := "✗", theme.Incorrect
		if r.Met {
			mark, ms = "✓", theme.Correct
		}
		lines = append(lines, ms.Render(mark)+" "+theme.Subtitle.Render(r.Label))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
