// Package rank orders candidate tickets into the "what to work on" list.
// Scoring is pure and total over admissible candidates; the output order
// is deterministic for a given ledger state.
package rank

import (
	"iter"
	"sort"

	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ticket"
)

// Score weights, in descending priority: difficulty dominates, then skill
// match, then the fixed test-focus and flaky-test bonuses. The flaky bonus
// is additive to the base score, never a replacement.
const (
	scoreEasy   = 50
	scoreLow    = 40
	scoreMedium = 20

	scoreSkillYes   = 30
	scoreSkillMaybe = 15

	bonusTestFocused = 10
	bonusFlaky       = 15
)

// Pick is one ranked entry of the worklist.
type Pick struct {
	Record *ticket.Record
	Score  int
}

// FlakyFunc reports whether a ticket matches the flaky-test priority
// patterns. Supplied by the rules package.
type FlakyFunc func(title string, labels []string) bool

// Score computes a ticket's rank score. The second return is false when
// the ticket is excluded from ranking entirely: unclassified tickets,
// difficulty High or Beyond, and skill match No never receive a score.
func Score(rec *ticket.Record, flaky bool) (int, bool) {
	c := rec.Classification
	if c == nil {
		return 0, false
	}

	score := 0
	switch c.Difficulty {
	case ticket.DifficultyEasy:
		score += scoreEasy
	case ticket.DifficultyLow:
		score += scoreLow
	case ticket.DifficultyMedium:
		score += scoreMedium
	default: // High, Beyond
		return 0, false
	}

	switch c.SkillMatch {
	case ticket.SkillYes:
		score += scoreSkillYes
	case ticket.SkillMaybe:
		score += scoreSkillMaybe
	default: // No
		return 0, false
	}

	if c.TestFocused == ticket.TestFocusedYes {
		score += bonusTestFocused
	}
	if flaky {
		score += bonusFlaky
	}
	return score, true
}

// Picks ranks the candidate records into a lazy, restartable sequence:
// highest score first, ties broken by ascending ID. Records that are not
// candidates or are excluded by Score are skipped. Re-ranging the returned
// sequence yields the same order; the input slice is not modified.
func Picks(records []*ticket.Record, flaky FlakyFunc) iter.Seq[Pick] {
	ranked := make([]Pick, 0, len(records))
	for _, rec := range records {
		if rec.Status != ticket.StatusCandidate {
			continue
		}
		isFlaky := flaky != nil && flaky(rec.Title, rec.Labels)
		score, ok := Score(rec, isFlaky)
		if !ok {
			continue
		}
		ranked = append(ranked, Pick{Record: rec, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Record.ID < ranked[j].Record.ID
	})

	return func(yield func(Pick) bool) {
		for _, p := range ranked {
			if !yield(p) {
				return
			}
		}
	}
}

// Top collects at most limit picks from the sequence. A limit <= 0 means
// all of them.
func Top(seq iter.Seq[Pick], limit int) []Pick {
	var out []Pick
	for p := range seq {
		out = append(out, p)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
