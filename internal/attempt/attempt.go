package attempt

import (
	"errors"
	"fmt"
	"time"

	"github.com/brianquiz/brianquiz/internal/quiz"
)

// Phase is the state of an attempt.
type Phase int

const (
	PhaseAnswering Phase = iota // AnsweringQuestion(Index)
	PhaseSubmitted              // terminal, result available
	PhaseAbandoned              // terminal, no result
)

func (p Phase) String() string {
	switch p {
	case PhaseAnswering:
		return "answering"
	case PhaseSubmitted:
		return "submitted"
	case PhaseAbandoned:
		return "abandoned"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// UrgentThreshold is the remaining time below which the countdown is shown
// as urgent.
const UrgentThreshold = 5 * time.Minute

var (
	ErrAlreadyAnswered = errors.New("current question already answered")
	ErrNotAnswered     = errors.New("current question not answered")
	ErrInvalidLabel    = errors.New("answer label not valid for this question")
	ErrFinished        = errors.New("attempt is no longer in progress")
)

// SubmitReason records why an attempt was submitted.
type SubmitReason string

const (
	SubmitCompleted SubmitReason = "completed"
	SubmitTimeout   SubmitReason = "timeout"
)

// Attempt drives one pass through a quiz: questions are presented once, in
// order, with no going back. It is not safe for concurrent use; the host
// event loop serializes every call.
type Attempt struct {
	quiz     *quiz.Session
	index    int
	answers  map[string]string
	timeLeft int // seconds
	phase    Phase
	reason   SubmitReason
	score    int
}

// Start validates session and begins an attempt against a snapshot of it.
// Later edits to session do not affect the attempt.
func Start(session *quiz.Session) (*Attempt, error) {
	if err := quiz.Validate(session); err != nil {
		return nil, err
	}
	snap := session.Clone()
	return &Attempt{
		quiz:     snap,
		answers:  make(map[string]string, len(snap.Questions)),
		timeLeft: int(snap.EffectiveTimeLimit() / time.Second),
		phase:    PhaseAnswering,
	}, nil
}

// Quiz returns the snapshot being taken.
func (a *Attempt) Quiz() *quiz.Session { return a.quiz }

// Phase returns the current phase.
func (a *Attempt) Phase() Phase { return a.phase }

// Index returns the position of the current question.
func (a *Attempt) Index() int { return a.index }

// Total returns the number of questions.
func (a *Attempt) Total() int { return len(a.quiz.Questions) }

// Current returns the question being answered.
func (a *Attempt) Current() quiz.Question { return a.quiz.Questions[a.index] }

// IsLast reports whether the current question is the final one.
func (a *Attempt) IsLast() bool { return a.index == len(a.quiz.Questions)-1 }

// TimeLeft returns the remaining time.
func (a *Attempt) TimeLeft() time.Duration { return time.Duration(a.timeLeft) * time.Second }

// Urgent reports whether the countdown has entered its final minutes.
func (a *Attempt) Urgent() bool {
	return a.phase == PhaseAnswering && a.TimeLeft() <= UrgentThreshold
}

// Answer returns the recorded answer for the current question.
func (a *Attempt) Answer() (string, bool) {
	label, ok := a.answers[a.Current().ID]
	return label, ok
}

// Answered returns how many questions have an answer.
func (a *Attempt) Answered() int { return len(a.answers) }

// SelectAnswer records label for the current question and reports whether it
// is correct. The index does not move.
func (a *Attempt) SelectAnswer(label string) (bool, error) {
	if a.phase != PhaseAnswering {
		return false, ErrFinished
	}
	q := a.Current()
	if _, ok := a.answers[q.ID]; ok {
		return false, ErrAlreadyAnswered
	}
	if !q.IsValidLabel(label) {
		return false, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	a.answers[q.ID] = label
	return label == q.CorrectAnswer, nil
}

// Advance moves to the next question, or submits after the last one.
func (a *Attempt) Advance() (submitted bool, err error) {
	if a.phase != PhaseAnswering {
		return false, ErrFinished
	}
	if _, ok := a.answers[a.Current().ID]; !ok {
		return false, ErrNotAnswered
	}
	if a.IsLast() {
		a.submit(SubmitCompleted)
		return true, nil
	}
	a.index++
	return false, nil
}

// Tick consumes one second. When the countdown reaches zero the attempt is
// submitted with whatever answers are recorded.
func (a *Attempt) Tick() (submitted bool) {
	if a.phase != PhaseAnswering {
		return false
	}
	if a.timeLeft > 0 {
		a.timeLeft--
	}
	if a.timeLeft == 0 {
		a.submit(SubmitTimeout)
		return true
	}
	return false
}

// Exit abandons the attempt without a result.
func (a *Attempt) Exit() error {
	if a.phase != PhaseAnswering {
		return ErrFinished
	}
	a.phase = PhaseAbandoned
	return nil
}

// Result returns the score once submitted.
func (a *Attempt) Result() (score, total int, ok bool) {
	if a.phase != PhaseSubmitted {
		return 0, 0, false
	}
	return a.score, len(a.quiz.Questions), true
}

// Reason returns why the attempt was submitted.
func (a *Attempt) Reason() SubmitReason { return a.reason }

func (a *Attempt) submit(reason SubmitReason) {
	a.score = Score(a.quiz, a.answers)
	a.reason = reason
	a.phase = PhaseSubmitted
}

// Score counts the questions whose recorded answer equals the correct one.
// Unanswered questions count as incorrect.
func Score(s *quiz.Session, answers map[string]string) int {
	n := 0
	for _, q := range s.Questions {
		if label, ok := answers[q.ID]; ok && label == q.CorrectAnswer {
			n++
		}
	}
	return n
}
