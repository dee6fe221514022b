// Package slots keeps a user's fixed set of quiz slots and their
// participant history, persisted through the kv port.
package slots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/brianquiz/brianquiz/internal/kv"
	"github.com/brianquiz/brianquiz/internal/quiz"
)

const (
	DefaultCount           = 3
	DefaultMaxParticipants = 100
)

var ErrUnknownSlot = errors.New("unknown slot")

// Key returns the storage key holding userID's slots.
func Key(userID string) string {
	return "slots/" + userID
}

// Options configures a Store. Zero values select the defaults.
type Options struct {
	Count           int
	MaxParticipants int
	Now             func() time.Time
	Logger          zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.Count <= 0 {
		o.Count = DefaultCount
	}
	if o.MaxParticipants <= 0 {
		o.MaxParticipants = DefaultMaxParticipants
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Store is one user's slot collection. Every mutation is persisted before
// it returns; on a persistence failure the in-memory state is restored.
// Not safe for concurrent use.
type Store struct {
	kv     kv.Store
	userID string
	opts   Options
	log    zerolog.Logger
	slots  []quiz.Slot
}

// Load reads userID's slots. A missing, unreadable or corrupt blob yields
// the default slot set; the problem is logged, never returned.
func Load(ctx context.Context, store kv.Store, userID string, opts Options) *Store {
	opts = opts.withDefaults()
	s := &Store{
		kv:     store,
		userID: userID,
		opts:   opts,
		log:    opts.Logger.With().Str("component", "slots").Str("user", userID).Logger(),
	}

	var stored []quiz.Slot
	blob, ok, err := store.Load(ctx, Key(userID))
	switch {
	case err != nil:
		s.log.Warn().Err(err).Msg("load slots failed, using defaults")
	case !ok:
		s.log.Debug().Msg("no stored slots, using defaults")
	default:
		if err := json.Unmarshal(blob, &stored); err != nil {
			s.log.Warn().Err(err).Msg("corrupt slot data, using defaults")
			stored = nil
		}
	}

	s.slots = reconcile(stored, opts.Count)
	if !ok || err != nil {
		if perr := s.persist(ctx); perr != nil {
			s.log.Warn().Err(perr).Msg("persist default slots")
		}
	}
	return s
}

// reconcile maps stored onto the fixed ID set 1..count: missing slots are
// created, unknown IDs dropped, corrupt entries repaired.
func reconcile(stored []quiz.Slot, count int) []quiz.Slot {
	byID := make(map[int]quiz.Slot, len(stored))
	for _, sl := range stored {
		if sl.ID < 1 || sl.ID > count {
			continue
		}
		if _, dup := byID[sl.ID]; dup {
			continue
		}
		byID[sl.ID] = sl
	}

	out := make([]quiz.Slot, count)
	seenShare := make(map[string]bool, count)
	for i := range out {
		id := i + 1
		sl, ok := byID[id]
		if !ok {
			sl = newSlot(id)
		}
		if sl.ShareID == "" || seenShare[sl.ShareID] {
			sl.ShareID = newShareID()
		}
		seenShare[sl.ShareID] = true
		if strings.TrimSpace(sl.Name) == "" {
			sl.Name = defaultName(id)
		}
		if sl.Quiz != nil && quiz.CheckSession(sl.Quiz) != nil {
			sl.Quiz = nil
			sl.UpdatedAt = nil
		}
		if sl.Participants == nil {
			sl.Participants = []quiz.Participant{}
		}
		out[i] = sl
	}
	return out
}

func newSlot(id int) quiz.Slot {
	return quiz.Slot{
		ID:           id,
		ShareID:      newShareID(),
		Name:         defaultName(id),
		Participants: []quiz.Participant{},
	}
}

func defaultName(id int) string {
	return fmt.Sprintf("Slot %d", id)
}

func newShareID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// UserID returns the owner of the slots.
func (s *Store) UserID() string { return s.userID }

// Slots returns copies of every slot in ID order.
func (s *Store) Slots() []quiz.Slot {
	out := make([]quiz.Slot, len(s.slots))
	for i, sl := range s.slots {
		out[i] = sl.Clone()
	}
	return out
}

// Slot returns a copy of the slot with the given ID.
func (s *Store) Slot(id int) (quiz.Slot, bool) {
	i := s.index(id)
	if i < 0 {
		return quiz.Slot{}, false
	}
	return s.slots[i].Clone(), true
}

// ByShareID returns the slot carrying shareID.
func (s *Store) ByShareID(shareID string) (quiz.Slot, bool) {
	for _, sl := range s.slots {
		if sl.ShareID == shareID {
			return sl.Clone(), true
		}
	}
	return quiz.Slot{}, false
}

// SaveToSlot stores a clone of q in the slot, stamping the quiz with an ID
// if it has none and the slot with the current time. Participants are kept.
// Unfinished quizzes may be saved; only structurally broken ones are refused.
func (s *Store) SaveToSlot(ctx context.Context, id int, q *quiz.Session) (quiz.Slot, error) {
	if q == nil {
		return quiz.Slot{}, errors.New("save to slot: no quiz")
	}
	if err := quiz.CheckSession(q); err != nil {
		return quiz.Slot{}, fmt.Errorf("save to slot: %w", err)
	}
	stored := q.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	now := s.opts.Now()

	var out quiz.Slot
	err := s.mutate(ctx, id, func(sl *quiz.Slot) {
		sl.Quiz = stored
		sl.UpdatedAt = &now
		out = sl.Clone()
	})
	if err != nil {
		return quiz.Slot{}, err
	}
	s.log.Info().Int("slot", id).Str("quiz", stored.ID).Int("questions", len(stored.Questions)).Msg("quiz saved to slot")
	return out, nil
}

// ClearSlot empties the slot, dropping its participant history.
func (s *Store) ClearSlot(ctx context.Context, id int) error {
	return s.mutate(ctx, id, func(sl *quiz.Slot) {
		sl.Quiz = nil
		sl.UpdatedAt = nil
		sl.Participants = []quiz.Participant{}
	})
}

// RecordParticipant prepends p to the slot's history, keeping only the
// most recent entries.
func (s *Store) RecordParticipant(ctx context.Context, id int, p quiz.Participant) error {
	return s.mutate(ctx, id, func(sl *quiz.Slot) {
		list := make([]quiz.Participant, 0, len(sl.Participants)+1)
		list = append(list, p)
		list = append(list, sl.Participants...)
		if len(list) > s.opts.MaxParticipants {
			list = list[:s.opts.MaxParticipants]
		}
		sl.Participants = list
	})
}

// RenameSlot sets the slot's display name. A blank name restores the default.
func (s *Store) RenameSlot(ctx context.Context, id int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultName(id)
	}
	return s.mutate(ctx, id, func(sl *quiz.Slot) {
		sl.Name = name
	})
}

func (s *Store) mutate(ctx context.Context, id int, fn func(*quiz.Slot)) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrUnknownSlot, id)
	}
	prev := s.slots[i].Clone()
	fn(&s.slots[i])
	if err := s.persist(ctx); err != nil {
		s.slots[i] = prev
		s.log.Error().Err(err).Int("slot", id).Msg("persist slots failed, rolled back")
		return err
	}
	return nil
}

func (s *Store) persist(ctx context.Context) error {
	blob, err := json.Marshal(s.slots)
	if err != nil {
		return fmt.Errorf("encode slots: %w", err)
	}
	if err := s.kv.Save(ctx, Key(s.userID), blob); err != nil {
		return fmt.Errorf("save slots: %w", err)
	}
	return nil
}

func (s *Store) index(id int) int {
	for i, sl := range s.slots {
		if sl.ID == id {
			return i
		}
	}
	return -1
}
