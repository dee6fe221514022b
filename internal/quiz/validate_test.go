package quiz

import (
	"errors"
	"testing"
)

func mcQuestion(id, text string, opts ...string) Question {
	return Question{
		ID:            id,
		Type:          MultipleChoice,
		Text:          text,
		Options:       opts,
		CorrectAnswer: "A",
	}
}

func tfQuestion(id, text string) Question {
	return Question{ID: id, Type: TrueFalse, Text: text, CorrectAnswer: LabelTrue}
}

func TestValidate_NoQuestions(t *testing.T) {
	for _, s := range []*Session{nil, {ID: "s"}, {ID: "s", Questions: []Question{}}} {
		err := Validate(s)
		if !errors.Is(err, ErrNoQuestions) {
			t.Fatalf("expected ErrNoQuestions, got %v", err)
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected *ValidationError, got %T", err)
		}
		if ve.QuestionID != "" {
			t.Errorf("expected no question id, got %q", ve.QuestionID)
		}
	}
}

func TestValidate_EmptyTextReportsFirstOffender(t *testing.T) {
	s := &Session{Questions: []Question{
		tfQuestion("q1", "Sky is blue"),
		tfQuestion("q2", "   "),
		tfQuestion("q3", ""),
	}}
	err := Validate(s)
	if !errors.Is(err, ErrEmptyQuestionText) {
		t.Fatalf("expected ErrEmptyQuestionText, got %v", err)
	}
	var ve *ValidationError
	errors.As(err, &ve)
	if ve.QuestionID != "q2" {
		t.Errorf("expected q2, got %q", ve.QuestionID)
	}
	if ve.Index != 1 {
		t.Errorf("expected index 1, got %d", ve.Index)
	}
}

func TestValidate_EmptyOption(t *testing.T) {
	s := &Session{Questions: []Question{
		mcQuestion("q1", "Pick one", "a", "b", "", "d"),
	}}
	err := Validate(s)
	if !errors.Is(err, ErrEmptyOption) {
		t.Fatalf("expected ErrEmptyOption, got %v", err)
	}
}

func TestValidate_TextCheckedBeforeOptions(t *testing.T) {
	s := &Session{Questions: []Question{
		mcQuestion("q1", "", "", "", "", ""),
	}}
	if err := Validate(s); !errors.Is(err, ErrEmptyQuestionText) {
		t.Fatalf("expected ErrEmptyQuestionText, got %v", err)
	}
}

func TestValidate_ValidSession(t *testing.T) {
	s := &Session{Questions: []Question{
		mcQuestion("q1", "Capital of France?", "Paris", "Rome", "Berlin", "Madrid"),
		tfQuestion("q2", "Water boils at 100C at sea level"),
	}}
	if err := Validate(s); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestCheckQuestion(t *testing.T) {
	tests := []struct {
		name    string
		q       Question
		wantErr bool
	}{
		{"valid mc", mcQuestion("q", "x", "a", "b", "c", "d"), false},
		{"mc three options", mcQuestion("q", "x", "a", "b", "c"), true},
		{"mc bad label", Question{ID: "q", Type: MultipleChoice, Options: make([]string, 4), CorrectAnswer: "E"}, true},
		{"valid tf", tfQuestion("q", "x"), false},
		{"tf with options", Question{ID: "q", Type: TrueFalse, Options: []string{"x"}, CorrectAnswer: LabelFalse}, true},
		{"tf lower case", Question{ID: "q", Type: TrueFalse, CorrectAnswer: "true"}, true},
		{"unknown type", Question{ID: "q", Type: "ESSAY", CorrectAnswer: "A"}, true},
		{"missing id", Question{Type: TrueFalse, CorrectAnswer: LabelTrue}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckQuestion(tt.q)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckQuestion() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckSession_DuplicateIDs(t *testing.T) {
	s := &Session{Questions: []Question{tfQuestion("q", "a"), tfQuestion("q", "b")}}
	if err := CheckSession(s); err == nil {
		t.Fatal("expected duplicate id error")
	}
}
