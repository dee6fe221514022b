// Package editor is the quiz authoring screen.
package editor

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/brianquiz/brianquiz/internal/appstate"
	edit "github.com/brianquiz/brianquiz/internal/editor"
	"github.com/brianquiz/brianquiz/internal/questiongen"
	"github.com/brianquiz/brianquiz/internal/quiz"
	"github.com/brianquiz/brianquiz/internal/screen"
	"github.com/brianquiz/brianquiz/internal/ui/components"
	"github.com/brianquiz/brianquiz/internal/ui/layout"
)

// SlotSaver is the slot store as seen by the editor.
type SlotSaver interface {
	Slots() []quiz.Slot
	SaveToSlot(ctx context.Context, id int, q *quiz.Session) (quiz.Slot, error)
}

// Deps are the editor's collaborators. A nil Generator disables the AI
// actions.
type Deps struct {
	Slots        SlotSaver
	Generator    questiongen.Generator
	DefaultCount int
	MaxCount     int
}

type mode int

const (
	modeNavigate mode = iota
	modeEditing
	modeConfirmDelete
	modeTopic
	modeExtract
	modeGenerating
	modePickSlot
	modeConfirmOverwrite
)

// EditorScreen edits a Draft in place.
type EditorScreen struct {
	id    int64
	draft *edit.Draft
	deps  Deps

	rows   []row
	cursor int
	mode   mode
	errMsg string

	input components.TextInput
	count components.TextInput
	onCnt bool

	tracker questiongen.Tracker
	aiMode  questiongen.Mode

	slotMenu components.Menu
	target   int
}

var _ screen.Screen = (*EditorScreen)(nil)
var _ screen.KeyHintProvider = (*EditorScreen)(nil)
var _ screen.Closer = (*EditorScreen)(nil)
var _ screen.Dirtier = (*EditorScreen)(nil)

// New creates an editor over draft. The draft is shared with the caller so
// edits survive leaving and re-entering the screen.
func New(draft *edit.Draft, deps Deps) *EditorScreen {
	if deps.DefaultCount <= 0 {
		deps.DefaultCount = 5
	}
	if deps.MaxCount <= 0 {
		deps.MaxCount = 30
	}
	e := &EditorScreen{id: lastEditorID.Add(1), draft: draft, deps: deps}
	e.refresh()
	return e
}

func (e *EditorScreen) Init() tea.Cmd { return nil }

func (e *EditorScreen) Title() string {
	if e.draft.SlotID > 0 {
		return fmt.Sprintf("Edit quiz · slot %d", e.draft.SlotID)
	}
	return "New quiz"
}

// Dirty reports unsaved changes.
func (e *EditorScreen) Dirty() bool { return e.draft.Dirty() }

// Close drops any AI request still in flight.
func (e *EditorScreen) Close() { e.tracker.Abandon() }

func (e *EditorScreen) KeyHints() []layout.KeyHint {
	switch e.mode {
	case modeEditing:
		return []layout.KeyHint{{Key: "Enter", Description: "Done"}, {Key: "Esc", Description: "Cancel"}}
	case modeTopic:
		return []layout.KeyHint{{Key: "Tab", Description: "Topic/count"}, {Key: "Enter", Description: "Generate"}, {Key: "Esc", Description: "Cancel"}}
	case modeExtract:
		return []layout.KeyHint{{Key: "Enter", Description: "Extract"}, {Key: "Esc", Description: "Cancel"}}
	case modeGenerating:
		return []layout.KeyHint{{Key: "Esc", Description: "Cancel request"}}
	case modePickSlot:
		return []layout.KeyHint{{Key: "↑↓", Description: "Slot"}, {Key: "Enter", Description: "Save here"}, {Key: "Esc", Description: "Cancel"}}
	case modeConfirmDelete, modeConfirmOverwrite:
		return []layout.KeyHint{{Key: "Y", Description: "Yes"}, {Key: "N", Description: "No"}}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Edit"},
		{Key: "A/B", Description: "Add MC/TF"},
		{Key: "D", Description: "Delete"},
		{Key: "Y", Description: "Type"},
		{Key: "J/K", Description: "Reorder"},
	}
	if e.deps.Generator != nil {
		hints = append(hints, layout.KeyHint{Key: "G/X", Description: "AI"})
	}
	return append(hints,
		layout.KeyHint{Key: "Ctrl+S", Description: "Save"},
		layout.KeyHint{Key: "P", Description: "Start"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}

func (e *EditorScreen) refresh() {
	e.rows = buildRows(e.draft.Quiz())
	e.cursor = min(max(e.cursor, 0), len(e.rows)-1)
}

func (e *EditorScreen) current() row { return e.rows[e.cursor] }

func (e *EditorScreen) focusQuestion(qid string) {
	e.refresh()
	if i := rowOf(e.rows, qid); i >= 0 {
		e.cursor = i
	}
}

func (e *EditorScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if res, ok := msg.(aiResultMsg); ok {
		return e, e.handleAIResult(res)
	}

	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return e, e.forwardToInput(msg)
	}

	switch e.mode {
	case modeEditing:
		return e, e.handleEditing(kmsg)
	case modeConfirmDelete:
		return e, e.handleConfirmDelete(kmsg)
	case modeTopic, modeExtract:
		return e, e.handlePrompt(kmsg)
	case modeGenerating:
		if kmsg.String() == "esc" {
			e.tracker.Abandon()
			e.mode = modeNavigate
			return e, screen.Notify("AI request cancelled.")
		}
		return e, nil
	case modePickSlot:
		return e, e.handlePickSlot(kmsg)
	case modeConfirmOverwrite:
		return e, e.handleConfirmOverwrite(kmsg)
	}
	return e, e.handleNavigate(kmsg)
}

func (e *EditorScreen) forwardToInput(msg tea.Msg) tea.Cmd {
	switch e.mode {
	case modeEditing, modeTopic, modeExtract:
		var cmd tea.Cmd
		if e.onCnt {
			e.count, cmd = e.count.Update(msg)
		} else {
			e.input, cmd = e.input.Update(msg)
		}
		return cmd
	}
	return nil
}

func (e *EditorScreen) handleNavigate(msg tea.KeyPressMsg) tea.Cmd {
	e.errMsg = ""
	r := e.current()

	switch msg.String() {
	case "up", "k":
		if e.cursor > 0 {
			e.cursor--
		}
	case "down", "j":
		if e.cursor < len(e.rows)-1 {
			e.cursor++
		}
	case "enter":
		if r.textual() {
			return e.beginEdit(r)
		}
		e.cycleValue(r, 1)
	case "right", "l", " ", "space":
		e.cycleValue(r, 1)
	case "left", "h":
		e.cycleValue(r, -1)
	case "a":
		e.focusQuestion(e.draft.AddQuestion(quiz.MultipleChoice))
	case "b":
		e.focusQuestion(e.draft.AddQuestion(quiz.TrueFalse))
	case "d":
		if r.qid != "" {
			e.mode = modeConfirmDelete
		}
	case "y":
		if r.qid != "" {
			q := e.draft.Quiz().Questions[r.qi]
			next := quiz.TrueFalse
			if q.Type == quiz.TrueFalse {
				next = quiz.MultipleChoice
			}
			_ = e.draft.ChangeType(r.qid, next)
			e.focusQuestion(r.qid)
		}
	case "K", "shift+up":
		if r.qid != "" {
			_ = e.draft.MoveQuestion(r.qid, -1)
			e.focusQuestion(r.qid)
		}
	case "J", "shift+down":
		if r.qid != "" {
			_ = e.draft.MoveQuestion(r.qid, 1)
			e.focusQuestion(r.qid)
		}
	case "g":
		return e.beginPrompt(questiongen.ModeTopic)
	case "x":
		return e.beginPrompt(questiongen.ModeExtract)
	case "ctrl+s":
		return e.beginSave()
	case "p":
		return e.start()
	case "esc":
		return screen.Go(appstate.Back)
	}
	return nil
}

// cycleValue steps the time limit or the correct answer.
func (e *EditorScreen) cycleValue(r row, delta int) {
	switch r.kind {
	case rowTimeLimit:
		cur := e.draft.Quiz().TimeLimit
		if cur == 0 {
			cur = quiz.DefaultTimeLimit
		}
		_ = e.draft.SetTimeLimit(cycle(quiz.TimeLimitPresets, cur, delta))
	case rowAnswer:
		q := e.draft.Quiz().Questions[r.qi]
		_ = e.draft.SetCorrect(q.ID, cycle(q.Labels(), q.CorrectAnswer, delta))
	}
}

func (e *EditorScreen) beginEdit(r row) tea.Cmd {
	q := e.draft.Quiz()
	var value, placeholder string
	switch r.kind {
	case rowTitle:
		value, placeholder = q.Title, "quiz title"
	case rowText:
		value, placeholder = q.Questions[r.qi].Text, "question text"
	case rowOption:
		value, placeholder = q.Questions[r.qi].Options[r.option], "option "+quiz.OptionLabels[r.option]
	case rowExplanation:
		value, placeholder = q.Questions[r.qi].Explanation, "explanation shown after answering"
	}
	e.input = components.NewTextInput(placeholder, 500)
	e.input.SetValue(value)
	e.onCnt = false
	e.mode = modeEditing
	return e.input.Focus()
}

func (e *EditorScreen) handleEditing(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		e.mode = modeNavigate
		return nil
	case "enter":
		e.commitEdit(e.current(), e.input.Value())
		e.mode = modeNavigate
		return nil
	}
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return cmd
}

func (e *EditorScreen) commitEdit(r row, value string) {
	switch r.kind {
	case rowTitle:
		e.draft.SetTitle(value)
	case rowText:
		_ = e.draft.SetText(r.qid, value)
	case rowOption:
		_ = e.draft.SetOption(r.qid, r.option, value)
	case rowExplanation:
		_ = e.draft.SetExplanation(r.qid, value)
	}
}

func (e *EditorScreen) handleConfirmDelete(msg tea.KeyPressMsg) tea.Cmd {
	switch (components.Confirm{}).Handle(msg) {
	case components.Yes:
		r := e.current()
		_ = e.draft.RemoveQuestion(r.qid)
		e.mode = modeNavigate
		e.refresh()
	case components.No:
		e.mode = modeNavigate
	}
	return nil
}

// start validates the draft and asks to take it. On failure the cursor
// moves to the offending question.
func (e *EditorScreen) start() tea.Cmd {
	if err := e.draft.Validation(); err != nil {
		var verr *quiz.ValidationError
		if errors.As(err, &verr) && verr.QuestionID != "" {
			e.focusQuestion(verr.QuestionID)
		}
		e.errMsg = describeValidation(err)
		return nil
	}
	return screen.Nav(screen.NavMsg{Event: appstate.StartQuiz, Quiz: e.draft.Snapshot(), SlotID: e.draft.SlotID})
}

func describeValidation(err error) string {
	var verr *quiz.ValidationError
	if !errors.As(err, &verr) {
		return err.Error()
	}
	switch {
	case errors.Is(err, quiz.ErrNoQuestions):
		return "Add at least one question first."
	case errors.Is(err, quiz.ErrEmptyQuestionText):
		return fmt.Sprintf("Question %d has no text.", verr.Index+1)
	case errors.Is(err, quiz.ErrEmptyOption):
		return fmt.Sprintf("Question %d has an empty option.", verr.Index+1)
	}
	return err.Error()
}
