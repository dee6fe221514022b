package scoring

import (
	"cmp"
	"slices"

	"github.com/brianquiz/brianquiz/internal/quiz"
)

// Entry is one leaderboard row.
type Entry struct {
	Rank        int
	Participant quiz.Participant
	Result      Result
}

// Leaderboard ranks participants by ten-point score, best first. Ties keep
// the earlier finisher ahead and share a rank. Participants with no
// questions are skipped.
func Leaderboard(ps []quiz.Participant) []Entry {
	entries := make([]Entry, 0, len(ps))
	for _, p := range ps {
		if p.Total <= 0 {
			continue
		}
		entries = append(entries, Entry{Participant: p, Result: Compute(p.Score, p.Total)})
	}
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(b.Result.ScoreTen, a.Result.ScoreTen); c != 0 {
			return c
		}
		return a.Participant.CompletedAt.Compare(b.Participant.CompletedAt)
	})
	for i := range entries {
		if i > 0 && entries[i].Result.ScoreTen == entries[i-1].Result.ScoreTen {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}
	return entries
}
