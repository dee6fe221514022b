package quiz

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoQuestions       = errors.New("no questions present")
	ErrEmptyQuestionText = errors.New("question text is empty")
	ErrEmptyOption       = errors.New("multiple-choice option is empty")
)

// ValidationError reports why a session cannot be taken. QuestionID names
// the first offending question and is empty for ErrNoQuestions.
type ValidationError struct {
	QuestionID string
	Index      int
	Err        error
}

func (e *ValidationError) Error() string {
	if e.QuestionID == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("question %d: %v", e.Index+1, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate is the gate in front of quiz taking. It rejects a session with no
// questions, then the first question with blank text or a blank
// multiple-choice option.
func Validate(s *Session) error {
	if s == nil || len(s.Questions) == 0 {
		return &ValidationError{Index: -1, Err: ErrNoQuestions}
	}
	for i, q := range s.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return &ValidationError{QuestionID: q.ID, Index: i, Err: ErrEmptyQuestionText}
		}
		if q.Type == MultipleChoice {
			for _, opt := range q.Options {
				if strings.TrimSpace(opt) == "" {
					return &ValidationError{QuestionID: q.ID, Index: i, Err: ErrEmptyOption}
				}
			}
		}
	}
	return nil
}

// CheckQuestion verifies the structural invariants of a question: a known
// type, the option count that type requires, and an answer label valid for
// it. It does not look at text content.
func CheckQuestion(q Question) error {
	if q.ID == "" {
		return errors.New("question id is empty")
	}
	switch q.Type {
	case MultipleChoice:
		if len(q.Options) != OptionCount {
			return fmt.Errorf("multiple-choice question %s has %d options, want %d", q.ID, len(q.Options), OptionCount)
		}
	case TrueFalse:
		if len(q.Options) != 0 {
			return fmt.Errorf("true/false question %s has options", q.ID)
		}
	default:
		return fmt.Errorf("question %s has unknown type %q", q.ID, q.Type)
	}
	if !q.IsValidLabel(q.CorrectAnswer) {
		return fmt.Errorf("question %s has invalid answer %q", q.ID, q.CorrectAnswer)
	}
	return nil
}

// CheckSession runs CheckQuestion over every question and rejects duplicate
// question IDs.
func CheckSession(s *Session) error {
	if s == nil {
		return errors.New("session is nil")
	}
	seen := make(map[string]bool, len(s.Questions))
	for _, q := range s.Questions {
		if err := CheckQuestion(q); err != nil {
			return err
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %s", q.ID)
		}
		seen[q.ID] = true
	}
	return nil
}
