// Package triage wires the pipeline: fetch, fingerprint, prefilter,
// classify, reconcile, all under one run lock. The ledger is written only
// from the run goroutine; classification fans out through a bounded pool.
package triage

import (
	"time"

	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ticket"
)

// Detect computes the observation's fingerprint and decides whether it
// needs (re)classification. A ticket never classified before always needs
// it; otherwise it needs it exactly when the fingerprint differs from the
// one recorded at the last classification. Idempotent: running it twice
// over the same inputs yields the same record.
func Detect(prior, obs *ticket.Record, now time.Time) {
	obs.Fingerprint = obs.RecordFingerprint()
	obs.LastCheckedAt = now

	if prior == nil || prior.ClassifiedFingerprint == "" {
		obs.NeedsRetriage = true
		return
	}
	obs.ClassifiedFingerprint = prior.ClassifiedFingerprint
	obs.NeedsRetriage = obs.Fingerprint != prior.ClassifiedFingerprint
}
