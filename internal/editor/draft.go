// Package editor holds the in-progress quiz being authored, independent of
// how it is rendered.
package editor

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/google/uuid"

	"github.com/brianquiz/brianquiz/internal/quiz"
)

var (
	ErrNoSuchQuestion = errors.New("no such question")
	ErrBadOption      = errors.New("option index out of range")
	ErrBadTimeLimit   = errors.New("time limit is not a preset")
)

// Draft is a quiz under edit. SlotID is the slot it was opened from, or 0
// for a new quiz.
type Draft struct {
	quiz   *quiz.Session
	saved  *quiz.Session
	SlotID int
}

// New starts a draft for a fresh quiz.
func New(title string) *Draft {
	q := quiz.NewSession(title)
	return &Draft{quiz: q, saved: q.Clone()}
}

// Open starts a draft from an existing quiz, which is treated as saved.
func Open(q *quiz.Session, slotID int) *Draft {
	c := q.Clone()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Questions == nil {
		c.Questions = []quiz.Question{}
	}
	return &Draft{quiz: c, saved: c.Clone(), SlotID: slotID}
}

// Quiz returns the live quiz. Callers must not mutate it.
func (d *Draft) Quiz() *quiz.Session { return d.quiz }

// Snapshot returns a deep copy of the quiz.
func (d *Draft) Snapshot() *quiz.Session { return d.quiz.Clone() }

// Dirty reports whether the draft differs from what was last saved.
func (d *Draft) Dirty() bool {
	return !reflect.DeepEqual(normalized(d.quiz), normalized(d.saved))
}

// MarkSaved records the current content as saved, optionally moving the
// draft to the slot it was saved in.
func (d *Draft) MarkSaved(slotID int) {
	d.saved = d.quiz.Clone()
	if slotID > 0 {
		d.SlotID = slotID
	}
}

// Validation runs entry validation on the draft.
func (d *Draft) Validation() error {
	return quiz.Validate(d.quiz)
}

func (d *Draft) SetTitle(title string) {
	d.quiz.Title = title
}

// SetTimeLimit accepts only the editor presets.
func (d *Draft) SetTimeLimit(minutes int) error {
	if !slices.Contains(quiz.TimeLimitPresets, minutes) {
		return fmt.Errorf("%w: %d", ErrBadTimeLimit, minutes)
	}
	d.quiz.TimeLimit = minutes
	return nil
}

// AddQuestion appends a blank question and returns its ID.
func (d *Draft) AddQuestion(t quiz.QuestionType) string {
	q := quiz.NewQuestion(t)
	d.quiz.Questions = append(d.quiz.Questions, q)
	return q.ID
}

func (d *Draft) RemoveQuestion(id string) error {
	i, err := d.find(id)
	if err != nil {
		return err
	}
	d.quiz.Questions = slices.Delete(d.quiz.Questions, i, i+1)
	return nil
}

func (d *Draft) SetText(id, text string) error {
	return d.update(id, func(q *quiz.Question) error {
		q.Text = text
		return nil
	})
}

func (d *Draft) SetOption(id string, index int, text string) error {
	return d.update(id, func(q *quiz.Question) error {
		if q.Type != quiz.MultipleChoice || index < 0 || index >= len(q.Options) {
			return fmt.Errorf("%w: %d", ErrBadOption, index)
		}
		q.Options[index] = text
		return nil
	})
}

func (d *Draft) SetCorrect(id, label string) error {
	return d.update(id, func(q *quiz.Question) error {
		if !q.IsValidLabel(label) {
			return fmt.Errorf("invalid answer %q for %s question", label, q.Type)
		}
		q.CorrectAnswer = label
		return nil
	})
}

func (d *Draft) SetExplanation(id, text string) error {
	return d.update(id, func(q *quiz.Question) error {
		q.Explanation = text
		return nil
	})
}

// ChangeType switches a question between multiple choice and true/false,
// resetting its options and answer to the new type's defaults. Text and
// explanation are kept.
func (d *Draft) ChangeType(id string, t quiz.QuestionType) error {
	return d.update(id, func(q *quiz.Question) error {
		if q.Type == t {
			return nil
		}
		fresh := quiz.NewQuestion(t)
		q.Type = t
		q.Options = fresh.Options
		q.CorrectAnswer = fresh.CorrectAnswer
		return nil
	})
}

// MoveQuestion shifts a question by delta positions, clamped to the list.
func (d *Draft) MoveQuestion(id string, delta int) error {
	i, err := d.find(id)
	if err != nil {
		return err
	}
	j := min(max(i+delta, 0), len(d.quiz.Questions)-1)
	q := d.quiz.Questions[i]
	d.quiz.Questions = slices.Delete(d.quiz.Questions, i, i+1)
	d.quiz.Questions = slices.Insert(d.quiz.Questions, j, q)
	return nil
}

// Append merges generated questions after the existing ones. Questions
// whose ID collides with an existing one get a fresh ID.
func (d *Draft) Append(qs []quiz.Question) {
	seen := make(map[string]bool, len(d.quiz.Questions))
	for _, q := range d.quiz.Questions {
		seen[q.ID] = true
	}
	for _, q := range qs {
		c := q.Clone()
		if c.ID == "" || seen[c.ID] {
			c.ID = uuid.NewString()
		}
		seen[c.ID] = true
		d.quiz.Questions = append(d.quiz.Questions, c)
	}
}

func (d *Draft) find(id string) (int, error) {
	for i, q := range d.quiz.Questions {
		if q.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrNoSuchQuestion, id)
}

func (d *Draft) update(id string, fn func(*quiz.Question) error) error {
	i, err := d.find(id)
	if err != nil {
		return err
	}
	return fn(&d.quiz.Questions[i])
}

// normalized maps nil and empty slices together so that Dirty ignores the
// difference.
func normalized(s *quiz.Session) *quiz.Session {
	c := s.Clone()
	if len(c.Questions) == 0 {
		c.Questions = nil
	}
	for i := range c.Questions {
		if len(c.Questions[i].Options) == 0 {
			c.Questions[i].Options = nil
		}
	}
	return c
}
