package rank

import (
	"strings"
	"testing"

	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ticket"
)

func candidate(id int64, difficulty, skill, testFocused string) *ticket.Record {
	return &ticket.Record{
		ID:     id,
		Title:  "some issue",
		Status: ticket.StatusCandidate,
		Classification: &ticket.Classification{
			Difficulty:   difficulty,
			SkillMatch:   skill,
			ScopeClarity: ticket.ScopeClear,
			TestFocused:  testFocused,
		},
	}
}

func ids(picks []Pick) []int64 {
	out := make([]int64, len(picks))
	for i, p := range picks {
		out[i] = p.Record.ID
	}
	return out
}

func TestHighDifficultyExcluded(t *testing.T) {
	records := []*ticket.Record{
		candidate(1, ticket.DifficultyHigh, ticket.SkillYes, ticket.TestFocusedYes),
		candidate(2, ticket.DifficultyBeyond, ticket.SkillYes, ticket.TestFocusedYes),
		candidate(3, ticket.DifficultyLow, ticket.SkillYes, ticket.TestFocusedYes),
	}
	picks := Top(Picks(records, nil), 0)
	if len(picks) != 1 || picks[0].Record.ID != 3 {
		t.Errorf("High/Beyond must never be ranked, got %v", ids(picks))
	}
}

func TestSkillNoExcluded(t *testing.T) {
	records := []*ticket.Record{
		candidate(1, ticket.DifficultyLow, ticket.SkillNo, ticket.TestFocusedYes),
	}
	if picks := Top(Picks(records, nil), 0); len(picks) != 0 {
		t.Errorf("skill_match=No must be excluded, got %v", ids(picks))
	}
}

func TestUnclassifiedExcluded(t *testing.T) {
	rec := &ticket.Record{ID: 1, Status: ticket.StatusCandidate}
	if picks := Top(Picks([]*ticket.Record{rec}, nil), 0); len(picks) != 0 {
		t.Error("unclassified candidate must not be ranked")
	}
}

func TestNonCandidatesExcluded(t *testing.T) {
	rec := candidate(1, ticket.DifficultyLow, ticket.SkillYes, ticket.TestFocusedYes)
	rec.Status = ticket.StatusActive
	if picks := Top(Picks([]*ticket.Record{rec}, nil), 0); len(picks) != 0 {
		t.Error("only candidates are ranked")
	}
}

func TestSkillYesBeatsMaybe(t *testing.T) {
	records := []*ticket.Record{
		candidate(1, ticket.DifficultyLow, ticket.SkillMaybe, ticket.TestFocusedNo),
		candidate(2, ticket.DifficultyLow, ticket.SkillYes, ticket.TestFocusedNo),
	}
	picks := Top(Picks(records, nil), 0)
	if len(picks) != 2 || picks[0].Record.ID != 2 {
		t.Errorf("Yes must outrank Maybe all else equal, got %v", ids(picks))
	}
	if picks[0].Score <= picks[1].Score {
		t.Errorf("expected strictly higher score, got %d vs %d", picks[0].Score, picks[1].Score)
	}
}

func TestScenarioLowYesTestFocusedBeatsMediumMaybe(t *testing.T) {
	records := []*ticket.Record{
		candidate(101, ticket.DifficultyMedium, ticket.SkillMaybe, ticket.TestFocusedNo),
		candidate(100, ticket.DifficultyLow, ticket.SkillYes, ticket.TestFocusedYes),
	}
	picks := Top(Picks(records, nil), 0)
	if len(picks) != 2 || picks[0].Record.ID != 100 {
		t.Errorf("expected #100 above #101, got %v", ids(picks))
	}
}

func TestFlakyBonusAdditive(t *testing.T) {
	plain := candidate(1, ticket.DifficultyLow, ticket.SkillYes, ticket.TestFocusedNo)
	flaky := candidate(2, ticket.DifficultyLow, ticket.SkillYes, ticket.TestFocusedNo)
	flaky.Title = "[Flaky Test] editor canvas"

	isFlaky := func(title string, labels []string) bool {
		return strings.Contains(title, "[Flaky Test]")
	}
	picks := Top(Picks([]*ticket.Record{plain, flaky}, isFlaky), 0)
	if picks[0].Record.ID != 2 {
		t.Errorf("flaky ticket should rank first, got %v", ids(picks))
	}
	if got := picks[0].Score - picks[1].Score; got != bonusFlaky {
		t.Errorf("flaky bonus should be additive (+%d), got difference %d", bonusFlaky, got)
	}
}

func TestTiesBrokenByID(t *testing.T) {
	records := []*ticket.Record{
		candidate(30, ticket.DifficultyLow, ticket.SkillYes, ticket.TestFocusedNo),
		candidate(10, ticket.DifficultyLow, ticket.SkillYes, ticket.TestFocusedNo),
		candidate(20, ticket.DifficultyLow, ticket.SkillYes, ticket.TestFocusedNo),
	}
	picks := Top(Picks(records, nil), 0)
	want := []int64{10, 20, 30}
	for i, p := range picks {
		if p.Record.ID != want[i] {
			t.Fatalf("tie break order %v, want %v", ids(picks), want)
		}
	}
}

func TestSequenceRestartable(t *testing.T) {
	records := []*ticket.Record{
		candidate(2, ticket.DifficultyLow, ticket.SkillYes, ticket.TestFocusedYes),
		candidate(1, ticket.DifficultyMedium, ticket.SkillMaybe, ticket.TestFocusedNo),
	}
	seq := Picks(records, nil)
	first := Top(seq, 0)
	second := Top(seq, 0)
	if len(first) != len(second) {
		t.Fatalf("restart changed length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Record.ID != second[i].Record.ID || first[i].Score != second[i].Score {
			t.Fatal("re-ranging the sequence changed the order")
		}
	}
}

func TestTopLimit(t *testing.T) {
	records := []*ticket.Record{
		candidate(1, ticket.DifficultyLow, ticket.SkillYes, ticket.TestFocusedYes),
		candidate(2, ticket.DifficultyLow, ticket.SkillYes, ticket.TestFocusedNo),
		candidate(3, ticket.DifficultyMedium, ticket.SkillMaybe, ticket.TestFocusedNo),
	}
	if picks := Top(Picks(records, nil), 2); len(picks) != 2 {
		t.Errorf("limit ignored: got %d picks", len(picks))
	}
}

func TestEasyOutranksLow(t *testing.T) {
	records := []*ticket.Record{
		candidate(1, ticket.DifficultyLow, ticket.SkillYes, ticket.TestFocusedNo),
		candidate(2, ticket.DifficultyEasy, ticket.SkillYes, ticket.TestFocusedNo),
	}
	picks := Top(Picks(records, nil), 0)
	if picks[0].Record.ID != 2 {
		t.Errorf("Easy should outrank Low, got %v", ids(picks))
	}
}
