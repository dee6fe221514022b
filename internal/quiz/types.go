package quiz

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// QuestionType identifies how a question is answered.
type QuestionType string

const (
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
	TrueFalse      QuestionType = "TRUE_FALSE"
)

// Answer labels.
const (
	LabelTrue  = "True"
	LabelFalse = "False"
)

// OptionCount is the number of options every multiple-choice question has.
const OptionCount = 4

// DefaultTimeLimit is the time limit in minutes used when a session has none.
const DefaultTimeLimit = 45

// DefaultTitle names a quiz the author has not titled yet.
const DefaultTitle = "Untitled quiz"

// AnonymousName is shown for participants who did not enter a name.
const AnonymousName = "Anonymous"

// OptionLabels are the answer labels for multiple-choice options, in order.
var OptionLabels = [OptionCount]string{"A", "B", "C", "D"}

// TimeLimitPresets are the time limits offered by the editor, in minutes.
var TimeLimitPresets = []int{5, 15, 45, 90, 120}

// Question is a single quiz question.
type Question struct {
	ID   string       `json:"id" yaml:"id"`
	Type QuestionType `json:"type" yaml:"type"`
	Text string       `json:"questionText" yaml:"text"`

	// Options is present only for multiple choice and always has
	// OptionCount entries.
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`

	// CorrectAnswer is "A".."D" for multiple choice, "True"/"False" otherwise.
	CorrectAnswer string `json:"correctAnswer" yaml:"correct_answer"`

	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// NewQuestion returns a blank question of the given type with a fresh ID.
func NewQuestion(t QuestionType) Question {
	q := Question{
		ID:   uuid.NewString(),
		Type: t,
	}
	if t == MultipleChoice {
		q.Options = make([]string, OptionCount)
		q.CorrectAnswer = OptionLabels[0]
	} else {
		q.CorrectAnswer = LabelTrue
	}
	return q
}

// Labels returns the answer labels valid for this question.
func (q Question) Labels() []string {
	if q.Type == MultipleChoice {
		return OptionLabels[:]
	}
	return []string{LabelTrue, LabelFalse}
}

// IsValidLabel reports whether label is an acceptable answer for q.
func (q Question) IsValidLabel(label string) bool {
	for _, l := range q.Labels() {
		if l == label {
			return true
		}
	}
	return false
}

// OptionIndex returns the option index for a multiple-choice label, or -1.
func OptionIndex(label string) int {
	for i, l := range OptionLabels {
		if l == label {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of q.
func (q Question) Clone() Question {
	c := q
	if q.Options != nil {
		c.Options = append([]string(nil), q.Options...)
	}
	return c
}

// Session is an authored quiz. Question order is presentation order.
type Session struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`

	// TimeLimit is in minutes; zero means unset.
	TimeLimit int `json:"timeLimit,omitempty" yaml:"time_limit,omitempty"`
}

// NewSession returns an empty session with a fresh ID and the default
// time limit.
func NewSession(title string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Title:     title,
		Questions: []Question{},
		TimeLimit: DefaultTimeLimit,
	}
}

// EffectiveTimeLimit returns the time limit, falling back to the default.
func (s *Session) EffectiveTimeLimit() time.Duration {
	m := s.TimeLimit
	if m <= 0 {
		m = DefaultTimeLimit
	}
	return time.Duration(m) * time.Minute
}

// Clone returns a deep copy of s. A nil session clones to nil.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.Questions != nil {
		c.Questions = make([]Question, len(s.Questions))
		for i, q := range s.Questions {
			c.Questions[i] = q.Clone()
		}
	}
	return &c
}

// QuestionByID returns the question with the given ID.
func (s *Session) QuestionByID(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Participant is one completed attempt recorded against a slot.
type Participant struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Avatar      string    `json:"avatar,omitempty"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	CompletedAt time.Time `json:"completedAt"`
}

// NewParticipant builds a participant record, substituting the anonymous
// placeholder for a blank name.
func NewParticipant(name, avatar string, score, total int, at time.Time) Participant {
	name = strings.TrimSpace(name)
	if name == "" {
		name = AnonymousName
	}
	return Participant{
		ID:          uuid.NewString(),
		Name:        name,
		Avatar:      avatar,
		Score:       score,
		Total:       total,
		CompletedAt: at,
	}
}

// Slot is a named container for at most one quiz and its participant history.
type Slot struct {
	ID           int           `json:"id"`
	ShareID      string        `json:"shareId"`
	Name         string        `json:"name"`
	Quiz         *Session      `json:"quiz"`
	UpdatedAt    *time.Time    `json:"updatedAt"`
	Participants []Participant `json:"participants"`
}

// Empty reports whether the slot holds no quiz.
func (s Slot) Empty() bool {
	return s.Quiz == nil
}

// Clone returns a deep copy of s.
func (s Slot) Clone() Slot {
	c := s
	c.Quiz = s.Quiz.Clone()
	if s.UpdatedAt != nil {
		t := *s.UpdatedAt
		c.UpdatedAt = &t
	}
	c.Participants = append([]Participant{}, s.Participants...)
	return c
}

// User is an authenticated account. The quiz core only uses ID to
// namespace slot storage.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash,omitempty"`
	Avatar       string `json:"avatar,omitempty"`
}

// Public returns a copy of u without credential material.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}
