package editor

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/brianquiz/brianquiz/internal/llm"
	"github.com/brianquiz/brianquiz/internal/questiongen"
	"github.com/brianquiz/brianquiz/internal/quiz"
	"github.com/brianquiz/brianquiz/internal/screen"
	"github.com/brianquiz/brianquiz/internal/ui/components"
)

// requestTimeout bounds one AI call including retries.
const requestTimeout = 2 * time.Minute

// maxSourceBytes caps files read for extraction.
const maxSourceBytes = 4 << 20

var lastEditorID atomic.Int64

// aiResultMsg carries a finished AI request back to the editor that sent it.
// It is broadcast so an editor covered by Settings still receives it.
type aiResultMsg struct {
	editor int64
	gen    uint64
	mode   questiongen.Mode
	batch  *questiongen.Batch
	err    error
}

func (aiResultMsg) Background() {}

func (e *EditorScreen) beginPrompt(m questiongen.Mode) tea.Cmd {
	if e.deps.Generator == nil {
		return screen.Fail("AI is not configured. Set an API key to enable it.")
	}
	e.aiMode = m
	e.onCnt = false
	if m == questiongen.ModeTopic {
		e.mode = modeTopic
		e.input = components.NewTextInput("topic, e.g. the solar system", 200)
		e.count = components.NewTextInput(strconv.Itoa(e.deps.DefaultCount), 2)
		e.count.Blur()
	} else {
		e.mode = modeExtract
		e.input = components.NewTextInput("path to a text file or image", 0)
	}
	return e.input.Focus()
}

func (e *EditorScreen) handlePrompt(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		e.mode = modeNavigate
		e.errMsg = ""
		return nil
	case "tab", "shift+tab":
		if e.mode != modeTopic {
			return nil
		}
		e.onCnt = !e.onCnt
		if e.onCnt {
			e.input.Blur()
			return e.count.Focus()
		}
		e.count.Blur()
		return e.input.Focus()
	case "enter":
		in, err := e.buildInput()
		if err != nil {
			e.errMsg = err.Error()
			return nil
		}
		return e.generate(in)
	}
	return e.forwardToInput(msg)
}

func (e *EditorScreen) buildInput() (questiongen.Input, error) {
	if e.mode == modeTopic {
		topic := strings.TrimSpace(e.input.Value())
		if topic == "" {
			return questiongen.Input{}, fmt.Errorf("enter a topic")
		}
		count := e.deps.DefaultCount
		if s := strings.TrimSpace(e.count.Value()); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > e.deps.MaxCount {
				return questiongen.Input{}, fmt.Errorf("count must be between 1 and %d", e.deps.MaxCount)
			}
			count = n
		}
		return questiongen.Input{Mode: questiongen.ModeTopic, Topic: topic, Count: count}, nil
	}
	return readSource(strings.TrimSpace(e.input.Value()))
}

// readSource loads a file for extraction. Images are sent as images,
// anything else as text.
func readSource(path string) (questiongen.Input, error) {
	if path == "" {
		return questiongen.Input{}, fmt.Errorf("enter a file path")
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	info, err := os.Stat(path)
	if err != nil {
		return questiongen.Input{}, fmt.Errorf("cannot open %s", path)
	}
	if info.Size() > maxSourceBytes {
		return questiongen.Input{}, fmt.Errorf("%s is larger than %d MB", filepath.Base(path), maxSourceBytes>>20)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return questiongen.Input{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	in := questiongen.Input{Mode: questiongen.ModeExtract}
	if mime := http.DetectContentType(data); strings.HasPrefix(mime, "image/") {
		in.Image = &llm.Image{MIMEType: mime, Data: data}
		return in, nil
	}
	in.SourceText = strings.TrimSpace(string(data))
	if in.SourceText == "" {
		return questiongen.Input{}, fmt.Errorf("%s is empty", filepath.Base(path))
	}
	return in, nil
}

func (e *EditorScreen) generate(in questiongen.Input) tea.Cmd {
	e.mode = modeGenerating
	e.errMsg = ""
	id, gen := e.id, e.tracker.Begin()
	g := e.deps.Generator
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		batch, err := g.Generate(ctx, in)
		return aiResultMsg{editor: id, gen: gen, mode: in.Mode, batch: batch, err: err}
	}
}

func (e *EditorScreen) handleAIResult(res aiResultMsg) tea.Cmd {
	if res.editor != e.id || !e.tracker.Finish(res.gen) {
		return nil
	}
	e.mode = modeNavigate
	if res.err != nil {
		return screen.Fail("AI request failed: " + llm.Describe(res.err))
	}

	q := e.draft.Quiz()
	if res.mode == questiongen.ModeExtract && res.batch.Title != "" &&
		(strings.TrimSpace(q.Title) == "" || q.Title == quiz.DefaultTitle) {
		e.draft.SetTitle(res.batch.Title)
	}
	before := len(q.Questions)
	e.draft.Append(res.batch.Questions)
	e.refresh()
	if len(e.draft.Quiz().Questions) > before {
		e.focusQuestion(e.draft.Quiz().Questions[before].ID)
	}
	return screen.Notify(fmt.Sprintf("Added %d questions.", len(res.batch.Questions)))
}
