package questiongen

import (
	"strings"

	"github.com/google/uuid"

	"github.com/brianquiz/brianquiz/internal/quiz"
)

// rawQuestion is a question as the model returned it.
type rawQuestion struct {
	Type          string   `json:"type"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

type rawBatch struct {
	Title     string        `json:"title"`
	Questions []rawQuestion `json:"questions"`
}

// normalize converts model output into questions that satisfy
// quiz.CheckQuestion. Questions with blank text are dropped.
func normalize(raw rawBatch) *Batch {
	b := &Batch{Title: strings.TrimSpace(raw.Title)}
	for _, rq := range raw.Questions {
		q, ok := normalizeQuestion(rq)
		if !ok {
			continue
		}
		b.Questions = append(b.Questions, q)
	}
	return b
}

func normalizeQuestion(rq rawQuestion) (quiz.Question, bool) {
	text := strings.TrimSpace(rq.QuestionText)
	if text == "" {
		return quiz.Question{}, false
	}

	q := quiz.Question{
		ID:          uuid.NewString(),
		Type:        normalizeType(rq),
		Text:        text,
		Explanation: strings.TrimSpace(rq.Explanation),
	}

	if q.Type == quiz.TrueFalse {
		q.CorrectAnswer = normalizeTrueFalse(rq.CorrectAnswer)
		return q, true
	}

	q.Options = make([]string, quiz.OptionCount)
	for i := 0; i < quiz.OptionCount && i < len(rq.Options); i++ {
		q.Options[i] = strings.TrimSpace(rq.Options[i])
	}
	q.CorrectAnswer = normalizeChoice(rq.CorrectAnswer, q.Options)
	return q, true
}

func normalizeType(rq rawQuestion) quiz.QuestionType {
	t := strings.ToUpper(strings.TrimSpace(rq.Type))
	switch {
	case strings.Contains(t, "TRUE"), strings.Contains(t, "BOOL"):
		return quiz.TrueFalse
	case t == "" && len(rq.Options) == 0:
		return quiz.TrueFalse
	default:
		return quiz.MultipleChoice
	}
}

func normalizeTrueFalse(answer string) string {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "true", "t", "yes":
		return quiz.LabelTrue
	default:
		return quiz.LabelFalse
	}
}

// normalizeChoice maps an answer given as a letter (any case), a letter
// followed by punctuation, or the option text to a label. Anything
// unrecognized falls back to A.
func normalizeChoice(answer string, options []string) string {
	a := strings.TrimSpace(answer)

	for i, opt := range options {
		if opt != "" && strings.EqualFold(a, opt) {
			return quiz.OptionLabels[i]
		}
	}

	letter := strings.ToUpper(strings.TrimRight(a, ".):"))
	if i := quiz.OptionIndex(letter); i >= 0 {
		return quiz.OptionLabels[i]
	}
	return quiz.OptionLabels[0]
}
