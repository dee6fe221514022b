package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/brianquiz/brianquiz/internal/appstate"
	"github.com/brianquiz/brianquiz/internal/quiz"
	"github.com/brianquiz/brianquiz/internal/share"
)

// NavMsg asks the app to apply a view-state event. The payload fields that
// matter depend on the event.
type NavMsg struct {
	Event   appstate.Event
	Discard bool

	// Quiz and SlotID name the quiz to edit or take. SlotID 0 means the
	// quiz is not bound to a slot.
	Quiz   *quiz.Session
	SlotID int

	// Name is the participant name for EnterRoom.
	Name string

	// Score and Total carry the attempt result for Finish.
	Score int
	Total int

	// User is set for SignedIn.
	User *quiz.User
}

// Nav returns a command that emits msg.
func Nav(msg NavMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// Go returns a command that emits a NavMsg carrying only e.
func Go(e appstate.Event) tea.Cmd {
	return Nav(NavMsg{Event: e})
}

// NoticeMsg shows a transient status line in the footer.
type NoticeMsg struct {
	Text string
	Err  bool
}

// Notify returns a command that emits a notice.
func Notify(text string) tea.Cmd {
	return func() tea.Msg { return NoticeMsg{Text: text} }
}

// Fail returns a command that emits an error notice.
func Fail(text string) tea.Cmd {
	return func() tea.Msg { return NoticeMsg{Text: text, Err: true} }
}

// ProfileChangedMsg reports that the signed-in user's profile was saved.
type ProfileChangedMsg struct {
	User quiz.User
}

// OpenLinkMsg asks the app to resolve a pasted share link.
type OpenLinkMsg struct {
	Ref share.Ref
}
