package ticket

import "fmt"

// Status is the lifecycle state of a ledger record.
type Status string

const (
	StatusNew         Status = "new"
	StatusFilteredOut Status = "filtered-out"
	StatusCandidate   Status = "candidate"
	StatusActive      Status = "active"
	StatusSkipped     Status = "skipped"
	StatusPROpened    Status = "pr-opened"
	StatusDone        Status = "done"
)

// transitions maps each state to the states a transition may move to.
// Re-entry to candidate from any non-terminal state is handled separately
// in CanTransition because it applies uniformly.
var transitions = map[Status][]Status{
	StatusNew:       {StatusFilteredOut, StatusCandidate},
	StatusCandidate: {StatusActive, StatusSkipped, StatusPROpened},
	StatusActive:    {StatusPROpened, StatusSkipped},
	StatusPROpened:  {StatusDone},
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusFilteredOut, StatusCandidate, StatusActive,
		StatusSkipped, StatusPROpened, StatusDone:
		return true
	}
	return false
}

// Terminal reports whether s ends the automated lifecycle. Terminal records
// are never auto-transitioned; a human may still reopen with force.
func (s Status) Terminal() bool {
	return s == StatusFilteredOut || s == StatusDone
}

// CanTransition reports whether moving from one status to another is a
// legal edge of the lifecycle.
func CanTransition(from, to Status) bool {
	if from == to {
		return false
	}
	// Re-entry: reclassification returns any non-terminal record to candidate.
	if to == StatusCandidate && !from.Terminal() {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition returns an error for illegal edges unless force is set.
// Force exists for manual reopening of terminal records.
func CheckTransition(from, to Status, force bool) error {
	if !to.Valid() {
		return fmt.Errorf("unknown status %q", to)
	}
	if force || CanTransition(from, to) {
		return nil
	}
	return fmt.Errorf("invalid status transition %s -> %s (use force to override)", from, to)
}

// ParseStatus converts a user-supplied string to a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}
