// Package rules implements the deterministic prefilter that decides which
// tickets are worth sending to the classifier. Exclusion labels always win
// over inclusion signals; the filter is a cost gate, not a final verdict.
package rules

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Rules holds the label and keyword sets the prefilter matches against.
// The zero value matches nothing; use Default() or Load().
type Rules struct {
	ExcludeLabels []string `toml:"exclude_labels"`
	IncludeLabels []string `toml:"include_labels"`
	Keywords      []string `toml:"keywords"`
	FlakyPatterns []string `toml:"flaky_patterns"`
}

// Result is the prefilter verdict for one ticket.
type Result struct {
	AutoCandidate bool
	ExcludeReason string
	Signals       []string
}

// Default returns the built-in rule set for the Gutenberg repository.
func Default() *Rules {
	return &Rules{
		ExcludeLabels: []string{
			"blocker",
			"[Status] Blocked",
			"[Priority] High",
			"Needs Design",
			"Needs Design Feedback",
			"[Status] Stale",
		},
		IncludeLabels: []string{
			"Needs Tests",
			"Good First Issue",
			"[Type] Bug",
			"[Type] Enhancement",
			"JavaScript",
			"TypeScript",
			"[Block]",
			"[Package]",
			"Unit Tests",
			"e2e Tests",
			"[Type] Automated Testing",
		},
		Keywords: []string{
			"test",
			"tests",
			"testing",
			"block",
			"blocks",
			"typescript",
			"javascript",
			"unit test",
			"e2e",
			"snapshot",
		},
		FlakyPatterns: []string{
			"[Flaky Test]",
			"Good First Issue",
		},
	}
}

// Load reads a rule set from a TOML file. Missing fields fall back to the
// built-in defaults so a rules file can override only what it needs.
func Load(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	r := Default()
	var loaded Rules
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	if loaded.ExcludeLabels != nil {
		r.ExcludeLabels = loaded.ExcludeLabels
	}
	if loaded.IncludeLabels != nil {
		r.IncludeLabels = loaded.IncludeLabels
	}
	if loaded.Keywords != nil {
		r.Keywords = loaded.Keywords
	}
	if loaded.FlakyPatterns != nil {
		r.FlakyPatterns = loaded.FlakyPatterns
	}
	return r, nil
}

// Evaluate applies the rule set to one ticket. Pure and order-independent
// over the label set: any exclusion label forces AutoCandidate false no
// matter what else matches; otherwise one inclusion label or keyword match
// is enough to admit the ticket.
func (r *Rules) Evaluate(labels []string, title, body string) Result {
	labelSet := make(map[string]bool, len(labels))
	for _, l := range labels {
		labelSet[strings.ToLower(strings.TrimSpace(l))] = true
	}

	for _, excl := range r.ExcludeLabels {
		if labelSet[strings.ToLower(excl)] {
			return Result{
				AutoCandidate: false,
				ExcludeReason: fmt.Sprintf("excluded label: %s", excl),
			}
		}
	}

	var signals []string
	for _, incl := range r.IncludeLabels {
		for _, l := range labels {
			if strings.Contains(strings.ToLower(l), strings.ToLower(incl)) {
				signals = append(signals, "label: "+l)
				break
			}
		}
	}

	text := strings.ToLower(title) + " " + strings.ToLower(body)
	for _, kw := range r.Keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			signals = append(signals, "keyword: "+kw)
		}
	}

	return Result{
		AutoCandidate: len(signals) > 0,
		Signals:       signals,
	}
}

// FlakyMatch reports whether the title or any label matches a flaky-test
// priority pattern. The rank engine adds a fixed bonus for matches.
func (r *Rules) FlakyMatch(title string, labels []string) bool {
	lowTitle := strings.ToLower(title)
	for _, p := range r.FlakyPatterns {
		if strings.Contains(lowTitle, strings.ToLower(p)) {
			return true
		}
		for _, l := range labels {
			if strings.EqualFold(strings.TrimSpace(l), p) {
				return true
			}
		}
	}
	return false
}
