// Package settings edits the profile and display preferences.
package settings

import (
	"context"
	"errors"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/brianquiz/brianquiz/internal/appstate"
	"github.com/brianquiz/brianquiz/internal/auth"
	"github.com/brianquiz/brianquiz/internal/kv"
	"github.com/brianquiz/brianquiz/internal/prefs"
	"github.com/brianquiz/brianquiz/internal/quiz"
	"github.com/brianquiz/brianquiz/internal/screen"
	"github.com/brianquiz/brianquiz/internal/ui/components"
	"github.com/brianquiz/brianquiz/internal/ui/layout"
	"github.com/brianquiz/brianquiz/internal/ui/theme"
)

// Profiles updates a user's profile.
type Profiles interface {
	UpdateProfile(ctx context.Context, u quiz.User) (quiz.User, error)
}

type field int

const (
	fieldUsername field = iota
	fieldAvatar
	fieldTheme
)

// SettingsScreen is shown over whatever screen opened it. Without a user
// only the theme can be changed.
type SettingsScreen struct {
	profiles Profiles
	prefs    kv.Store
	user     *quiz.User

	fields   []field
	cursor   int
	username components.TextInput
	avatar   components.TextInput
	theme    prefs.Theme
	saved    prefs.Theme
	errMsg   string
}

var _ screen.Screen = (*SettingsScreen)(nil)
var _ screen.KeyHintProvider = (*SettingsScreen)(nil)
var _ screen.Dirtier = (*SettingsScreen)(nil)

// New creates the screen. user may be nil before sign-in.
func New(profiles Profiles, store kv.Store, user *quiz.User, current prefs.Theme) *SettingsScreen {
	s := &SettingsScreen{
		profiles: profiles,
		prefs:    store,
		user:     user,
		theme:    current,
		saved:    current,
		username: components.NewTextInput("username", 32),
		avatar:   components.NewTextInput("path to an image (optional)", 0),
	}
	if user != nil {
		s.fields = []field{fieldUsername, fieldAvatar, fieldTheme}
		s.username.SetValue(user.Username)
		s.avatar.SetValue(user.Avatar)
	} else {
		s.fields = []field{fieldTheme}
	}
	s.syncFocus()
	return s
}

func (s *SettingsScreen) Init() tea.Cmd { return nil }

func (s *SettingsScreen) Title() string { return "Settings" }

func (s *SettingsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Field"},
		{Key: "←→", Description: "Theme"},
		{Key: "Ctrl+S", Description: "Save"},
		{Key: "Esc", Description: "Close"},
	}
}

// Dirty reports whether any field differs from what is stored.
func (s *SettingsScreen) Dirty() bool {
	if s.theme != s.saved {
		return true
	}
	if s.user == nil {
		return false
	}
	return strings.TrimSpace(s.username.Value()) != s.user.Username ||
		strings.TrimSpace(s.avatar.Value()) != s.user.Avatar
}

func (s *SettingsScreen) focused() field { return s.fields[s.cursor] }

func (s *SettingsScreen) syncFocus() tea.Cmd {
	s.username.Blur()
	s.avatar.Blur()
	switch s.focused() {
	case fieldUsername:
		return s.username.Focus()
	case fieldAvatar:
		return s.avatar.Focus()
	}
	return nil
}

func (s *SettingsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if ok {
		switch kmsg.String() {
		case "esc":
			return s, screen.Go(appstate.CloseSettings)
		case "ctrl+s":
			return s, s.save()
		case "up", "shift+tab":
			if s.cursor > 0 {
				s.cursor--
			}
			return s, s.syncFocus()
		case "down", "tab", "enter":
			if s.cursor < len(s.fields)-1 {
				s.cursor++
			}
			return s, s.syncFocus()
		}
		if s.focused() == fieldTheme {
			switch kmsg.String() {
			case "left", "right", "space", " ", "h", "l":
				s.theme = s.theme.Toggle()
			}
			return s, nil
		}
	}

	var cmd tea.Cmd
	switch s.focused() {
	case fieldUsername:
		s.username, cmd = s.username.Update(msg)
	case fieldAvatar:
		s.avatar, cmd = s.avatar.Update(msg)
	}
	return s, cmd
}

func (s *SettingsScreen) save() tea.Cmd {
	s.errMsg = ""
	ctx := context.Background()
	var cmds []tea.Cmd

	if s.user != nil {
		avatar := strings.TrimSpace(s.avatar.Value())
		if avatar != "" {
			if _, err := os.Stat(avatar); err != nil {
				s.errMsg = "Avatar file not found."
				return nil
			}
		}
		u := *s.user
		u.Username = s.username.Value()
		u.Avatar = avatar
		updated, err := s.profiles.UpdateProfile(ctx, u)
		if err != nil {
			s.errMsg = describe(err)
			return nil
		}
		s.user = &updated
		s.username.SetValue(updated.Username)
		s.avatar.SetValue(updated.Avatar)
		cmds = append(cmds, func() tea.Msg { return screen.ProfileChangedMsg{User: updated} })
	}

	if s.theme != s.saved {
		if err := prefs.SaveTheme(ctx, s.prefs, s.theme); err != nil {
			s.errMsg = "Could not save the theme: " + err.Error()
			return tea.Batch(cmds...)
		}
		s.saved = s.theme
		theme.Use(theme.ByName(string(s.theme)))
	}
	cmds = append(cmds, screen.Notify("Settings saved."))
	return tea.Batch(cmds...)
}

func describe(err error) string {
	switch {
	case errors.Is(err, auth.ErrUsernameTaken):
		return "That username is taken."
	case errors.Is(err, auth.ErrInvalidUsername):
		return "Usernames are 3-32 characters with no spaces."
	default:
		return "Could not save: " + err.Error()
	}
}

func (s *SettingsScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Settings") + "\n")

	for i, f := range s.fields {
		marker := "  "
		if i == s.cursor {
			marker = theme.Selected.Render("▸ ")
		}
		b.WriteString("\n")
		switch f {
		case fieldUsername:
			b.WriteString(marker + theme.Subtitle.Render("Username") + "\n  " + s.username.View() + "\n")
		case fieldAvatar:
			b.WriteString(marker + theme.Subtitle.Render("Avatar") + "\n  " + s.avatar.View() + "\n")
		case fieldTheme:
			name := "Dark"
			if s.theme == prefs.Light {
				name = "Light"
			}
			b.WriteString(marker + theme.Subtitle.Render("Theme") + "\n  " + theme.Body.Render("◂ "+name+" ▸") + "\n")
		}
	}
	if s.Dirty() {
		b.WriteString("\n" + theme.Hint.Render("Unsaved changes"))
	}
	if s.errMsg != "" {
		b.WriteString("\n" + theme.ErrorText.Render(s.errMsg))
	}
	return layout.Center(theme.Card.Width(min(max(width-4, 20), 60)).Render(b.String()), width, height)
}
