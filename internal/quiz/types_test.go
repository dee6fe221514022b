package quiz

import (
	"testing"
	"time"
)

func TestNewQuestionDefaults(t *testing.T) {
	mc := NewQuestion(MultipleChoice)
	if len(mc.Options) != OptionCount {
		t.Errorf("expected %d options, got %d", OptionCount, len(mc.Options))
	}
	if mc.CorrectAnswer != "A" {
		t.Errorf("expected default answer A, got %q", mc.CorrectAnswer)
	}
	if err := CheckQuestion(mc); err != nil {
		t.Errorf("blank MC question should be structurally valid: %v", err)
	}

	tf := NewQuestion(TrueFalse)
	if tf.Options != nil {
		t.Error("true/false question should have no options")
	}
	if tf.CorrectAnswer != LabelTrue {
		t.Errorf("expected default answer True, got %q", tf.CorrectAnswer)
	}
	if mc.ID == tf.ID {
		t.Error("expected distinct ids")
	}
}

func TestEffectiveTimeLimit(t *testing.T) {
	s := &Session{}
	if got := s.EffectiveTimeLimit(); got != 45*time.Minute {
		t.Errorf("unset limit: got %v, want 45m", got)
	}
	s.TimeLimit = 5
	if got := s.EffectiveTimeLimit(); got != 5*time.Minute {
		t.Errorf("got %v, want 5m", got)
	}
}

func TestSessionCloneIsDeep(t *testing.T) {
	s := &Session{ID: "s", Questions: []Question{
		{ID: "q", Type: MultipleChoice, Text: "t", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "A"},
	}}
	c := s.Clone()
	c.Questions[0].Text = "changed"
	c.Questions[0].Options[0] = "changed"
	if s.Questions[0].Text != "t" || s.Questions[0].Options[0] != "a" {
		t.Fatal("mutating the clone changed the original")
	}
	var nilSession *Session
	if nilSession.Clone() != nil {
		t.Error("nil clone should be nil")
	}
}

func TestNewParticipantAnonymous(t *testing.T) {
	p := NewParticipant("   ", "", 3, 4, time.Now())
	if p.Name != AnonymousName {
		t.Errorf("expected %q, got %q", AnonymousName, p.Name)
	}
	p = NewParticipant(" Linh ", "", 3, 4, time.Now())
	if p.Name != "Linh" {
		t.Errorf("expected trimmed name, got %q", p.Name)
	}
}
