package ticket

import (
	"fmt"
	"slices"
)

// Classification difficulty values. Easy and Beyond are the extended ends of
// the scale used by some deployments; both are accepted on the wire.
const (
	DifficultyEasy   = "Easy"
	DifficultyLow    = "Low"
	DifficultyMedium = "Medium"
	DifficultyHigh   = "High"
	DifficultyBeyond = "Beyond"
)

const (
	SkillYes   = "Yes"
	SkillMaybe = "Maybe"
	SkillNo    = "No"
)

const (
	ScopeClear         = "Clear"
	ScopeSomewhatClear = "Somewhat Clear"
	ScopeUnclear       = "Unclear"
)

const (
	TestFocusedYes     = "Yes"
	TestFocusedNo      = "No"
	TestFocusedUnclear = "Unclear"
)

var (
	difficulties  = []string{DifficultyEasy, DifficultyLow, DifficultyMedium, DifficultyHigh, DifficultyBeyond}
	skillMatches  = []string{SkillYes, SkillMaybe, SkillNo}
	scopeValues   = []string{ScopeClear, ScopeSomewhatClear, ScopeUnclear}
	testFocusVals = []string{TestFocusedYes, TestFocusedNo, TestFocusedUnclear}
)

// Classification is the classifier's verdict on a ticket. A record carries
// either a fully populated block or none at all; there is no partial state.
type Classification struct {
	Difficulty   string   `json:"difficulty"`
	SkillMatch   string   `json:"skill_match"`
	ScopeClarity string   `json:"scope_clarity"`
	TestFocused  string   `json:"test_focused"`
	RiskFlags    []string `json:"risk_flags"`
	Reason       string   `json:"one_line_reason"`
	Summary      string   `json:"summary,omitempty"`
}

// Validate checks every enum field against its closed value set.
func (c *Classification) Validate() error {
	if c == nil {
		return fmt.Errorf("classification is empty")
	}
	if !slices.Contains(difficulties, c.Difficulty) {
		return fmt.Errorf("difficulty %q not in %v", c.Difficulty, difficulties)
	}
	if !slices.Contains(skillMatches, c.SkillMatch) {
		return fmt.Errorf("skill_match %q not in %v", c.SkillMatch, skillMatches)
	}
	if !slices.Contains(scopeValues, c.ScopeClarity) {
		return fmt.Errorf("scope_clarity %q not in %v", c.ScopeClarity, scopeValues)
	}
	if !slices.Contains(testFocusVals, c.TestFocused) {
		return fmt.Errorf("test_focused %q not in %v", c.TestFocused, testFocusVals)
	}
	return nil
}

// MateriallyDiffers reports whether a reclassification changed the verdict
// enough to send a worked ticket back to the candidate pool. Difficulty and
// skill match drive the re-entry edge; wording-only changes do not.
func (c *Classification) MateriallyDiffers(other *Classification) bool {
	if c == nil || other == nil {
		return c != other
	}
	return c.Difficulty != other.Difficulty || c.SkillMatch != other.SkillMatch
}

// Clone returns a deep copy of the classification block.
func (c *Classification) Clone() *Classification {
	if c == nil {
		return nil
	}
	out := *c
	out.RiskFlags = append([]string(nil), c.RiskFlags...)
	return &out
}
