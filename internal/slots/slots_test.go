package slots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianquiz/brianquiz/internal/kv"
	"github.com/brianquiz/brianquiz/internal/quiz"
)

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func testOpts() Options {
	return Options{Now: func() time.Time { return fixedNow }}
}

func sampleQuiz() *quiz.Session {
	return &quiz.Session{
		ID:    "quiz-1",
		Title: "Capitals",
		Questions: []quiz.Question{
			{ID: "q1", Type: quiz.MultipleChoice, Text: "Capital of France?", Options: []string{"Paris", "Rome", "Oslo", "Bern"}, CorrectAnswer: "A"},
			{ID: "q2", Type: quiz.TrueFalse, Text: "Oslo is in Norway", CorrectAnswer: quiz.LabelTrue},
		},
		TimeLimit: 15,
	}
}

func TestLoadDefaults(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	s := Load(ctx, mem, "u1", testOpts())

	all := s.Slots()
	require.Len(t, all, DefaultCount)
	shareIDs := map[string]bool{}
	for i, sl := range all {
		assert.Equal(t, i+1, sl.ID)
		assert.True(t, sl.Empty())
		assert.Empty(t, sl.Participants)
		assert.NotEmpty(t, sl.ShareID)
		shareIDs[sl.ShareID] = true
	}
	assert.Len(t, shareIDs, DefaultCount, "share ids must be distinct")

	_, ok, _ := mem.Load(ctx, Key("u1"))
	assert.True(t, ok, "defaults should be persisted")
}

func TestShareIDsStableAcrossLoads(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	first := Load(ctx, mem, "u1", testOpts()).Slots()
	second := Load(ctx, mem, "u1", testOpts()).Slots()
	for i := range first {
		assert.Equal(t, first[i].ShareID, second[i].ShareID)
	}
}

func TestLoadCorruptBlobFallsBack(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	require.NoError(t, mem.Save(ctx, Key("u1"), []byte("{not json")))

	s := Load(ctx, mem, "u1", testOpts())
	assert.Len(t, s.Slots(), DefaultCount)
}

func TestLoadReconcilesIDs(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	stored := []quiz.Slot{
		{ID: 2, ShareID: "keep-me", Name: "Mine", Quiz: sampleQuiz()},
		{ID: 7, ShareID: "unknown"},
		{ID: 2, ShareID: "duplicate"},
	}
	blob, _ := json.Marshal(stored)
	require.NoError(t, mem.Save(ctx, Key("u1"), blob))

	s := Load(ctx, mem, "u1", testOpts())
	all := s.Slots()
	require.Len(t, all, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, "keep-me", all[1].ShareID)
	assert.Equal(t, "Mine", all[1].Name)
	assert.Equal(t, "Capitals", all[1].Quiz.Title)
	_, found := s.ByShareID("unknown")
	assert.False(t, found)
}

func TestLoadDropsStructurallyBrokenQuiz(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	bad := sampleQuiz()
	bad.Questions[0].Options = bad.Questions[0].Options[:2]
	blob, _ := json.Marshal([]quiz.Slot{{ID: 1, ShareID: "x", Quiz: bad}})
	require.NoError(t, mem.Save(ctx, Key("u1"), blob))

	sl, _ := Load(ctx, mem, "u1", testOpts()).Slot(1)
	assert.True(t, sl.Empty())
}

func TestSlotsArePerUser(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	a := Load(ctx, mem, "alice", testOpts())
	_, err := a.SaveToSlot(ctx, 1, sampleQuiz())
	require.NoError(t, err)

	b := Load(ctx, mem, "bob", testOpts())
	sl, _ := b.Slot(1)
	assert.True(t, sl.Empty())
}

func TestSaveToSlot(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	s := Load(ctx, mem, "u1", testOpts())

	q := sampleQuiz()
	q.ID = ""
	saved, err := s.SaveToSlot(ctx, 2, q)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.Quiz.ID, "quiz should be stamped with an id")
	require.NotNil(t, saved.UpdatedAt)
	assert.Equal(t, fixedNow, *saved.UpdatedAt)

	q.Title = "edited later"
	sl, _ := s.Slot(2)
	assert.Equal(t, "Capitals", sl.Quiz.Title, "slot must hold a copy")

	reloaded, _ := Load(ctx, mem, "u1", testOpts()).Slot(2)
	assert.Equal(t, saved.Quiz.ID, reloaded.Quiz.ID)
	assert.Equal(t, saved.Quiz.Questions, reloaded.Quiz.Questions)
}

func TestSaveToSlotKeepsUnfinishedQuiz(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, kv.NewMemory(), "u1", testOpts())

	_, err := s.SaveToSlot(ctx, 1, &quiz.Session{Title: "empty"})
	require.NoError(t, err)

	draft := sampleQuiz()
	draft.Questions[0].Text = ""
	_, err = s.SaveToSlot(ctx, 2, draft)
	require.NoError(t, err)

	sl, _ := s.Slot(2)
	require.NotNil(t, sl.Quiz)
	assert.Empty(t, sl.Quiz.Questions[0].Text)
	sl, _ = s.Slot(1)
	assert.False(t, sl.Empty())
}

func TestSaveToSlotRejectsMalformed(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, kv.NewMemory(), "u1", testOpts())
	bad := sampleQuiz()
	bad.Questions[0].CorrectAnswer = "Z"

	_, err := s.SaveToSlot(ctx, 1, bad)
	assert.Error(t, err)
	_, err = s.SaveToSlot(ctx, 1, nil)
	assert.Error(t, err)
	sl, _ := s.Slot(1)
	assert.True(t, sl.Empty())
}

func TestSaveKeepsParticipants(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, kv.NewMemory(), "u1", testOpts())
	_, err := s.SaveToSlot(ctx, 1, sampleQuiz())
	require.NoError(t, err)
	require.NoError(t, s.RecordParticipant(ctx, 1, quiz.NewParticipant("Ann", "", 2, 2, fixedNow)))

	_, err = s.SaveToSlot(ctx, 1, sampleQuiz())
	require.NoError(t, err)
	sl, _ := s.Slot(1)
	assert.Len(t, sl.Participants, 1)
}

func TestClearSlot(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, kv.NewMemory(), "u1", testOpts())
	_, err := s.SaveToSlot(ctx, 1, sampleQuiz())
	require.NoError(t, err)
	require.NoError(t, s.RecordParticipant(ctx, 1, quiz.NewParticipant("Ann", "", 1, 2, fixedNow)))
	before, _ := s.Slot(1)

	require.NoError(t, s.ClearSlot(ctx, 1))
	sl, _ := s.Slot(1)
	assert.Nil(t, sl.Quiz)
	assert.Nil(t, sl.UpdatedAt)
	assert.Empty(t, sl.Participants)
	assert.Equal(t, before.ShareID, sl.ShareID, "share id survives clearing")
}

func TestRecordParticipantOrderAndCap(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, kv.NewMemory(), "u1", Options{MaxParticipants: 100, Now: testOpts().Now})

	for i := 0; i < 105; i++ {
		p := quiz.NewParticipant(fmt.Sprintf("p%d", i), "", i%3, 2, fixedNow.Add(time.Duration(i)*time.Minute))
		require.NoError(t, s.RecordParticipant(ctx, 3, p))
	}
	sl, _ := s.Slot(3)
	require.Len(t, sl.Participants, 100)
	assert.Equal(t, "p104", sl.Participants[0].Name, "newest first")
	assert.Equal(t, "p5", sl.Participants[99].Name, "oldest dropped")
}

func TestRenameSlot(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, kv.NewMemory(), "u1", testOpts())
	require.NoError(t, s.RenameSlot(ctx, 1, "  History  "))
	sl, _ := s.Slot(1)
	assert.Equal(t, "History", sl.Name)

	require.NoError(t, s.RenameSlot(ctx, 1, " "))
	sl, _ = s.Slot(1)
	assert.Equal(t, "Slot 1", sl.Name)
}

func TestUnknownSlot(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, kv.NewMemory(), "u1", testOpts())
	_, err := s.SaveToSlot(ctx, 4, sampleQuiz())
	assert.ErrorIs(t, err, ErrUnknownSlot)
	assert.ErrorIs(t, s.ClearSlot(ctx, 0), ErrUnknownSlot)
	_, ok := s.Slot(4)
	assert.False(t, ok)
}

func TestPersistFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	s := Load(ctx, mem, "u1", testOpts())

	boom := errors.New("quota exceeded")
	mem.FailSaves = boom

	_, err := s.SaveToSlot(ctx, 1, sampleQuiz())
	assert.ErrorIs(t, err, boom)
	sl, _ := s.Slot(1)
	assert.True(t, sl.Empty(), "failed save must not change memory state")

	assert.ErrorIs(t, s.RenameSlot(ctx, 2, "x"), boom)
	sl, _ = s.Slot(2)
	assert.Equal(t, "Slot 2", sl.Name)
}

func TestByShareID(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, kv.NewMemory(), "u1", testOpts())
	target := s.Slots()[1]

	sl, ok := s.ByShareID(target.ShareID)
	require.True(t, ok)
	assert.Equal(t, 2, sl.ID)
}

func TestConfigurableCount(t *testing.T) {
	s := Load(context.Background(), kv.NewMemory(), "u1", Options{Count: 5})
	assert.Len(t, s.Slots(), 5)
}
