package questiongen

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/brianquiz/brianquiz/internal/llm"
	"github.com/brianquiz/brianquiz/internal/quiz"
)

// ErrNoQuestions is returned when a response normalizes to zero questions.
var ErrNoQuestions = errors.New("AI returned no usable questions")

// Mode selects what the generator is asked to produce.
type Mode int

const (
	// ModeTopic writes new questions about a topic.
	ModeTopic Mode = iota
	// ModeExtract pulls a titled question set out of source text or an image.
	ModeExtract
)

func (m Mode) String() string {
	if m == ModeExtract {
		return "extract"
	}
	return "topic"
}

// Purpose labels recorded with each request in the event log.
const (
	PurposeTopic   = "question-gen"
	PurposeExtract = "quiz-extract"
)

// Input describes one generation request.
type Input struct {
	Mode       Mode
	Topic      string
	Count      int
	SourceText string
	Image      *llm.Image
}

// Check reports whether the input carries what its mode needs.
func (in Input) Check() error {
	switch in.Mode {
	case ModeTopic:
		if in.Topic == "" {
			return errors.New("topic is required")
		}
	case ModeExtract:
		if in.SourceText == "" && in.Image == nil {
			return errors.New("source text or image is required")
		}
	default:
		return fmt.Errorf("unknown mode %d", in.Mode)
	}
	return nil
}

// Batch is a normalized generation result. Title is empty in topic mode.
type Batch struct {
	Title     string
	Questions []quiz.Question
}

// Generator produces quiz questions.
type Generator interface {
	Generate(ctx context.Context, in Input) (*Batch, error)
}

// Tracker hands out generation numbers so that a response arriving after
// its request was superseded or abandoned can be recognized and dropped.
// The zero value is ready to use.
type Tracker struct {
	mu      sync.Mutex
	current uint64
	pending bool
}

// Begin starts a new request and returns its generation.
func (t *Tracker) Begin() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current++
	t.pending = true
	return t.current
}

// Abandon invalidates the request in flight, if any.
func (t *Tracker) Abandon() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current++
	t.pending = false
}

// Pending reports whether a request is in flight.
func (t *Tracker) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Finish reports whether gen is the request in flight and, if so, marks it
// done. A false result means the response is stale.
func (t *Tracker) Finish(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.pending || gen != t.current {
		return false
	}
	t.pending = false
	return true
}
