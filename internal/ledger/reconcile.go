package ledger

import (
	"fmt"
	"time"

	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/debug"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ticket"
)

// Conflict records a rejected write to a human-owned field. The automated
// fields of the same observation are still applied.
type Conflict struct {
	ID        int64
	Field     string
	Attempted string
}

func (c Conflict) String() string {
	return fmt.Sprintf("ticket #%d: refused automated write to manual field %s (attempted %q)", c.ID, c.Field, c.Attempted)
}

// Reconcile merges a fresh observation into the stored record. Automated
// fields (snapshot, fingerprint, retriage flag, last-checked-at, and the
// classification block when the observation carries one) are taken from
// the observation; manual fields are preserved from the existing record
// unless the record is brand-new. The merged record is returned along
// with any rejected manual-field writes; the caller persists it with a
// single atomic Put.
//
// An observation's Classification is non-nil only when classification ran
// this pass; otherwise the stored verdict stands.
func Reconcile(existing *ticket.Record, obs *ticket.Record, now time.Time) (*ticket.Record, []Conflict) {
	classifiedThisPass := obs.Classification != nil

	merged := obs.Clone()
	if merged.LastCheckedAt.IsZero() {
		merged.LastCheckedAt = now
	}

	if existing == nil {
		merged.CreatedAt = now
		merged.Status = decideStatus(ticket.StatusNew, nil, merged, classifiedThisPass)
		return merged, nil
	}

	merged.CreatedAt = existing.CreatedAt

	var conflicts []Conflict
	if obs.ManualConfidence != "" && obs.ManualConfidence != existing.ManualConfidence {
		conflicts = append(conflicts, Conflict{ID: obs.ID, Field: "manual_confidence", Attempted: obs.ManualConfidence})
	}
	if obs.Notes != "" && obs.Notes != existing.Notes {
		conflicts = append(conflicts, Conflict{ID: obs.ID, Field: "notes", Attempted: obs.Notes})
	}
	merged.ManualConfidence = existing.ManualConfidence
	merged.Notes = existing.Notes

	if !classifiedThisPass {
		merged.Classification = existing.Classification.Clone()
		merged.ClassifiedFingerprint = existing.ClassifiedFingerprint
	}

	merged.Status = decideStatus(existing.Status, existing.Classification, merged, classifiedThisPass)

	for _, c := range conflicts {
		debug.Logf("ledger: %s", c)
	}
	return merged, conflicts
}

// decideStatus applies the automated lifecycle edges. Terminal states are
// never auto-transitioned; everything past candidate belongs to a human.
func decideStatus(current ticket.Status, prior *ticket.Classification, merged *ticket.Record, classifiedThisPass bool) ticket.Status {
	if current.Terminal() {
		return current
	}

	switch current {
	case ticket.StatusNew:
		if !merged.AutoCandidate {
			return ticket.StatusFilteredOut
		}
		if classifiedThisPass {
			if merged.Classification.SkillMatch == ticket.SkillNo {
				return ticket.StatusFilteredOut
			}
			return ticket.StatusCandidate
		}
		// Candidate awaiting classification (for example a deferred
		// transport failure) stays new until a verdict lands.
		return ticket.StatusNew

	case ticket.StatusCandidate:
		if classifiedThisPass && merged.Classification.SkillMatch == ticket.SkillNo {
			return ticket.StatusFilteredOut
		}
		return ticket.StatusCandidate

	default:
		// Re-entry edge: a reclassification that lands materially different
		// sends the ticket back to the candidate pool for a fresh look.
		if classifiedThisPass && merged.Classification.MateriallyDiffers(prior) {
			return ticket.StatusCandidate
		}
		return current
	}
}
