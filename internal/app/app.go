// Package app is the root Bubble Tea model. It owns the view-state
// controller and rebuilds the screen stack on every transition.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/brianquiz/brianquiz/internal/appstate"
	"github.com/brianquiz/brianquiz/internal/config"
	edit "github.com/brianquiz/brianquiz/internal/editor"
	"github.com/brianquiz/brianquiz/internal/kv"
	"github.com/brianquiz/brianquiz/internal/prefs"
	"github.com/brianquiz/brianquiz/internal/questiongen"
	"github.com/brianquiz/brianquiz/internal/quiz"
	"github.com/brianquiz/brianquiz/internal/router"
	"github.com/brianquiz/brianquiz/internal/screen"
	authscreen "github.com/brianquiz/brianquiz/internal/screens/auth"
	"github.com/brianquiz/brianquiz/internal/screens/calculating"
	editorscreen "github.com/brianquiz/brianquiz/internal/screens/editor"
	"github.com/brianquiz/brianquiz/internal/screens/home"
	"github.com/brianquiz/brianquiz/internal/screens/importer"
	"github.com/brianquiz/brianquiz/internal/screens/nameentry"
	"github.com/brianquiz/brianquiz/internal/screens/result"
	"github.com/brianquiz/brianquiz/internal/screens/settings"
	"github.com/brianquiz/brianquiz/internal/screens/take"
	"github.com/brianquiz/brianquiz/internal/scoring"
	"github.com/brianquiz/brianquiz/internal/share"
	"github.com/brianquiz/brianquiz/internal/slots"
	"github.com/brianquiz/brianquiz/internal/ui/components"
	"github.com/brianquiz/brianquiz/internal/ui/layout"
	"github.com/brianquiz/brianquiz/internal/ui/theme"
)

const noticeTTL = 4 * time.Second

// Accounts is the account service as seen by the app.
type Accounts interface {
	authscreen.Service
	settings.Profiles
	Current(ctx context.Context) (*quiz.User, error)
	Logout(ctx context.Context) error
}

// Deps are the app's collaborators.
type Deps struct {
	Accounts Accounts
	KV       kv.Store
	Config   *config.Config
	// Generator is nil when no AI provider is configured.
	Generator  questiongen.Generator
	AIProvider string
	Logger     zerolog.Logger
	// Import is a share link to open once a user is signed in.
	Import string
	Now    func() time.Time
}

type clearNoticeMsg struct{ seq int }

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps   Deps
	log    zerolog.Logger
	router *router.Router
	snap   appstate.Snapshot

	user  *quiz.User
	slots *slots.Store

	// active is the quiz being taken. slotID and fromSlot say where it came
	// from; participants are recorded only for slot quizzes.
	active      *quiz.Session
	slotID      int
	fromSlot    bool
	draft       *edit.Draft
	participant string
	outcome     scoring.Result
	recordID    string

	pendingLink *share.Ref
	discard     *screen.NavMsg

	notice    screen.NoticeMsg
	noticeSeq int

	width  int
	height int
}

// New creates the root model. The initial state depends on whether a
// session is stored.
func New(deps Deps) *AppModel {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Config == nil {
		deps.Config = &config.Config{}
	}
	m := &AppModel{
		deps: deps,
		log:  deps.Logger.With().Str("component", "app").Logger(),
	}

	if deps.Import != "" {
		if ref, err := share.ParseLink(deps.Import); err != nil {
			m.log.Warn().Err(err).Msg("ignoring import link")
			m.notice = screen.NoticeMsg{Text: "The link to open is not a BrianQuiz link.", Err: true}
		} else {
			m.pendingLink = &ref
		}
	}

	user, err := deps.Accounts.Current(context.Background())
	if err != nil {
		m.log.Warn().Err(err).Msg("read session")
	}
	m.snap = appstate.Initial(user != nil)
	if user != nil {
		m.signIn(*user)
	}
	m.router = router.New(m.build(m.snap.State))
	return m
}

func (m *AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.router.Active().Init()}
	if m.user != nil && m.pendingLink != nil {
		cmds = append(cmds, m.takePendingLink())
	}
	return tea.Batch(cmds...)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.discard != nil {
			return m, m.handleDiscard(msg)
		}
		if msg.String() == "f2" && m.snap.State != appstate.Auth {
			return m, m.navigate(screen.NavMsg{Event: appstate.OpenSettings})
		}

	case screen.NavMsg:
		return m, m.navigate(msg)

	case screen.OpenLinkMsg:
		return m, m.openLink(msg.Ref)

	case screen.ProfileChangedMsg:
		u := msg.User
		m.user = &u
		return m, nil

	case screen.NoticeMsg:
		return m, m.setNotice(msg)

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = screen.NoticeMsg{}
		}
		return m, nil
	}

	return m, m.router.Update(msg)
}

func (m *AppModel) setNotice(n screen.NoticeMsg) tea.Cmd {
	m.noticeSeq++
	m.notice = n
	seq := m.noticeSeq
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg { return clearNoticeMsg{seq: seq} })
}

func (m *AppModel) handleDiscard(msg tea.KeyPressMsg) tea.Cmd {
	switch (components.Confirm{}).Handle(msg) {
	case components.Yes:
		nav := *m.discard
		m.discard = nil
		nav.Discard = true
		return m.navigate(nav)
	case components.No:
		m.discard = nil
	}
	return nil
}

// guard gathers the facts appstate.Next needs for nav.
func (m *AppModel) guard(nav screen.NavMsg) appstate.Guard {
	q := m.active
	if nav.Quiz != nil {
		q = nav.Quiz
	}
	g := appstate.Guard{
		HasQuiz:  q != nil,
		Discard:  nav.Discard,
		FromSlot: m.fromSlot,
	}
	if q != nil {
		g.QuizValid = quiz.Validate(q) == nil
	}
	if d, ok := m.router.Active().(screen.Dirtier); ok {
		g.Dirty = d.Dirty()
	}
	return g
}

// navigate applies a view-state event and rebuilds the screens.
func (m *AppModel) navigate(nav screen.NavMsg) tea.Cmd {
	// A countdown can finish while Settings covers it. The overlay is
	// dropped so the attempt can move on.
	if m.snap.State == appstate.Settings && !settingsEvent(nav.Event) {
		m.log.Debug().Stringer("event", nav.Event).Msg("closing settings for background event")
		m.router.Pop()
		m.snap = appstate.Snapshot{State: m.snap.Return}
		m.discard = nil
	}

	from := m.snap
	next, err := appstate.Next(from, nav.Event, m.guard(nav))
	if err != nil {
		return m.rejected(nav, err)
	}
	m.log.Info().Stringer("from", from.State).Stringer("event", nav.Event).Stringer("to", next.State).Msg("transition")

	if cmd, done := m.apply(nav, next); done {
		return cmd
	}

	m.snap = next
	if next.State == appstate.Settings {
		return m.router.Push(m.build(appstate.Settings))
	}
	if from.State == appstate.Settings && next.State == from.Return {
		return m.router.Pop()
	}
	return m.router.Replace(m.build(next.State))
}

func settingsEvent(e appstate.Event) bool {
	switch e {
	case appstate.CloseSettings, appstate.Back, appstate.SignedOut:
		return true
	}
	return false
}

func (m *AppModel) rejected(nav screen.NavMsg, err error) tea.Cmd {
	switch {
	case errors.Is(err, appstate.ErrUnsavedChanges):
		m.discard = &nav
		return nil
	case errors.Is(err, appstate.ErrQuizNotReady):
		if q := m.quizFor(nav); q != nil {
			if verr := quiz.Validate(q); verr != nil {
				return screen.Fail("Quiz is not ready: " + verr.Error())
			}
		}
		return screen.Fail("There is no quiz to take.")
	}
	m.log.Debug().Err(err).Msg("transition rejected")
	return nil
}

func (m *AppModel) quizFor(nav screen.NavMsg) *quiz.Session {
	if nav.Quiz != nil {
		return nav.Quiz
	}
	return m.active
}

// apply performs the side effects of an accepted transition. It returns
// done when it has already taken care of the screen stack.
func (m *AppModel) apply(nav screen.NavMsg, next appstate.Snapshot) (tea.Cmd, bool) {
	ctx := context.Background()

	switch nav.Event {
	case appstate.SignedIn:
		if nav.User == nil {
			return nil, false
		}
		m.signIn(*nav.User)
		if m.pendingLink != nil {
			m.snap = next
			replace := m.router.Replace(m.build(next.State))
			return tea.Batch(replace, m.takePendingLink()), true
		}

	case appstate.SignedOut:
		if err := m.deps.Accounts.Logout(ctx); err != nil {
			m.log.Warn().Err(err).Msg("logout")
		}
		m.user, m.slots, m.draft = nil, nil, nil
		m.clearActive()

	case appstate.NewQuiz:
		m.draft = edit.New(quiz.DefaultTitle)
		if limit := m.deps.Config.Quiz.DefaultTimeLimit; limit > 0 {
			_ = m.draft.SetTimeLimit(limit)
			m.draft.MarkSaved(0)
		}
		m.draft.SlotID = nav.SlotID
		m.clearActive()

	case appstate.OpenSlot:
		m.draft = edit.Open(nav.Quiz, nav.SlotID)
		m.clearActive()

	case appstate.TakeSlot:
		m.active = nav.Quiz
		m.slotID = nav.SlotID
		m.fromSlot = true
		m.draft = nil

	case appstate.StartQuiz:
		m.active = nav.Quiz
		m.slotID = 0
		m.fromSlot = false

	case appstate.EnterRoom:
		m.participant = strings.TrimSpace(nav.Name)
		if m.participant == "" {
			m.participant = quiz.AnonymousName
		}

	case appstate.Finish:
		m.outcome = scoring.Compute(nav.Score, nav.Total)
		m.recordID = ""
		m.record(ctx, nav)

	case appstate.ExitTake, appstate.Back, appstate.BackHome:
		if next.State == appstate.Home {
			m.draft = nil
			m.clearActive()
		}
	}
	return nil, false
}

func (m *AppModel) clearActive() {
	m.active = nil
	m.slotID = 0
	m.fromSlot = false
	m.participant = ""
}

// record adds the finished attempt to the slot's history. Only quizzes
// taken from a slot are recorded.
func (m *AppModel) record(ctx context.Context, nav screen.NavMsg) {
	if !m.fromSlot || m.slotID <= 0 || m.slots == nil {
		return
	}
	name := nav.Name
	if name == "" {
		name = m.participant
	}
	avatar := ""
	if m.user != nil && strings.EqualFold(strings.TrimSpace(name), m.user.Username) {
		avatar = m.user.Avatar
	}
	p := quiz.NewParticipant(name, avatar, nav.Score, nav.Total, m.deps.Now())
	if err := m.slots.RecordParticipant(ctx, m.slotID, p); err != nil {
		m.log.Error().Err(err).Int("slot", m.slotID).Msg("record participant")
		return
	}
	m.recordID = p.ID
}

func (m *AppModel) signIn(u quiz.User) {
	m.user = &u
	q := m.deps.Config.Quiz
	m.slots = slots.Load(context.Background(), m.deps.KV, u.ID, slots.Options{
		Count:           q.SlotCount,
		MaxParticipants: q.MaxParticipants,
		Now:             m.deps.Now,
		Logger:          m.deps.Logger,
	})
}

func (m *AppModel) takePendingLink() tea.Cmd {
	ref := *m.pendingLink
	m.pendingLink = nil
	return func() tea.Msg { return screen.OpenLinkMsg{Ref: ref} }
}

// openLink resolves a share link. Tokens open the import overlay; slot
// links start taking the matching local slot.
func (m *AppModel) openLink(ref share.Ref) tea.Cmd {
	if m.user == nil {
		m.pendingLink = &ref
		return screen.Notify("Sign in to open the shared quiz.")
	}
	if m.snap.State != appstate.Home {
		return screen.Fail("Shared quizzes open from the library.")
	}

	if ref.ShareID != "" {
		sl, ok := m.slots.ByShareID(ref.ShareID)
		if !ok {
			return screen.Fail("No slot of yours matches that link.")
		}
		if sl.Empty() {
			return screen.Fail(fmt.Sprintf("%s is empty.", sl.Name))
		}
		return m.navigate(screen.NavMsg{Event: appstate.TakeSlot, Quiz: sl.Quiz.Clone(), SlotID: sl.ID})
	}

	q, err := share.Decode(ref.Token)
	if err != nil {
		m.log.Warn().Err(err).Msg("decode share token")
		return screen.Fail("That share link is damaged or incomplete.")
	}
	return m.router.Push(importer.New(q, m.slots))
}

// build creates the screen for state.
func (m *AppModel) build(state appstate.State) screen.Screen {
	cfg := m.deps.Config
	switch state {
	case appstate.Home:
		return home.New(m.slots, home.Options{BaseURL: cfg.Share.BaseURL, AIProvider: m.deps.AIProvider})

	case appstate.Edit:
		if m.draft == nil {
			m.draft = edit.New(quiz.DefaultTitle)
		}
		return editorscreen.New(m.draft, editorscreen.Deps{
			Slots:     m.slots,
			Generator: m.deps.Generator,
		})

	case appstate.NameEntry:
		return nameentry.New(m.active)

	case appstate.Take:
		s, err := take.New(m.active, m.participant)
		if err != nil {
			m.log.Error().Err(err).Msg("start attempt")
			m.snap = appstate.Snapshot{State: appstate.Home}
			m.clearActive()
			return m.build(appstate.Home)
		}
		return s

	case appstate.Calculating:
		return calculating.New(cfg.Quiz.CalculatingDelay)

	case appstate.Result:
		p := result.Params{
			QuizTitle:   m.active.Title,
			Participant: m.participant,
			Result:      m.outcome,
			RecordID:    m.recordID,
		}
		if m.fromSlot && m.slotID > 0 && m.slots != nil {
			if sl, ok := m.slots.Slot(m.slotID); ok {
				p.Slot = &sl
			}
		}
		return result.New(p)

	case appstate.Settings:
		current, ok := prefs.ParseTheme(theme.Current().Name)
		if !ok {
			current = prefs.Dark
		}
		return settings.New(m.deps.Accounts, m.deps.KV, m.user, current)
	}
	return authscreen.New(m.deps.Accounts)
}

func (m *AppModel) hints() []layout.KeyHint {
	var hints []layout.KeyHint
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		hints = append(hints, p.KeyHints()...)
	}
	if m.snap.State != appstate.Auth && m.snap.State != appstate.Settings {
		hints = append(hints, layout.KeyHint{Key: "F2", Description: "Settings"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

func (m *AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current window size.
func (m *AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	username := ""
	if m.user != nil {
		username = m.user.Username
	}
	header := layout.RenderHeader(m.router.Active().Title(), username, m.width)

	status := ""
	if m.notice.Text != "" {
		if m.notice.Err {
			status = theme.ErrorText.Render(m.notice.Text)
		} else {
			status = theme.Notice.Render(m.notice.Text)
		}
	}
	footer := layout.RenderFooter(m.hints(), status, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	var content string
	if m.discard != nil {
		prompt := components.Confirm{Prompt: "Discard unsaved changes?"}
		content = layout.Center(prompt.View(), m.width, contentHeight)
	} else {
		content = m.router.View(m.width, contentHeight)
	}
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(deps Deps) error {
	p := tea.NewProgram(New(deps))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
