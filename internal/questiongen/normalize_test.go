package questiongen

import (
	"testing"

	"github.com/brianquiz/brianquiz/internal/quiz"
)

func TestNormalizeChoice(t *testing.T) {
	opts := []string{"Red", "Green", "Blue", "Yellow"}
	tests := []struct {
		answer string
		want   string
	}{
		{"C", "C"},
		{"c", "C"},
		{" d ", "D"},
		{"B.", "B"},
		{"b)", "B"},
		{"green", "B"},
		{"Yellow", "D"},
		{"Purple", "A"},
		{"", "A"},
	}
	for _, tt := range tests {
		if got := normalizeChoice(tt.answer, opts); got != tt.want {
			t.Errorf("normalizeChoice(%q) = %q, want %q", tt.answer, got, tt.want)
		}
	}
}

func TestNormalizeTrueFalse(t *testing.T) {
	for in, want := range map[string]string{
		"True": quiz.LabelTrue, "true": quiz.LabelTrue, " TRUE ": quiz.LabelTrue, "t": quiz.LabelTrue,
		"False": quiz.LabelFalse, "no": quiz.LabelFalse, "": quiz.LabelFalse,
	} {
		if got := normalizeTrueFalse(in); got != want {
			t.Errorf("normalizeTrueFalse(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeTruncatesOptions(t *testing.T) {
	q, ok := normalizeQuestion(rawQuestion{
		Type: "MULTIPLE_CHOICE", QuestionText: "Pick",
		Options:       []string{"1", "2", "3", "4", "5", "6"},
		CorrectAnswer: "4",
	})
	if !ok {
		t.Fatal("question should be kept")
	}
	if len(q.Options) != 4 || q.Options[3] != "4" {
		t.Fatalf("options = %q", q.Options)
	}
	if q.CorrectAnswer != "D" {
		t.Errorf("answer = %q", q.CorrectAnswer)
	}
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		raw  rawQuestion
		want quiz.QuestionType
	}{
		{rawQuestion{Type: "TRUE_FALSE"}, quiz.TrueFalse},
		{rawQuestion{Type: "true/false"}, quiz.TrueFalse},
		{rawQuestion{Type: "boolean"}, quiz.TrueFalse},
		{rawQuestion{Type: "multiple_choice"}, quiz.MultipleChoice},
		{rawQuestion{Type: "", Options: []string{"a"}}, quiz.MultipleChoice},
		{rawQuestion{Type: ""}, quiz.TrueFalse},
	}
	for _, tt := range tests {
		if got := normalizeType(tt.raw); got != tt.want {
			t.Errorf("normalizeType(%+v) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeDropsBlankText(t *testing.T) {
	b := normalize(rawBatch{Questions: []rawQuestion{
		{Type: "TRUE_FALSE", QuestionText: "\t"},
		{Type: "TRUE_FALSE", QuestionText: "Kept", CorrectAnswer: "False"},
	}})
	if len(b.Questions) != 1 || b.Questions[0].Text != "Kept" {
		t.Fatalf("unexpected questions %+v", b.Questions)
	}
	if b.Questions[0].Options != nil {
		t.Error("true/false question must have no options")
	}
}
