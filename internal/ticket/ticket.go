// Package ticket defines the triage domain types: the ledger record for a
// source issue, its classification block, the status lifecycle, and the
// change fingerprint.
package ticket

import (
	"time"
)

// BodyLimit is the maximum number of runes of issue body kept in a record.
// Longer bodies are cut and marked with TruncationMarker.
const BodyLimit = 2000

// TruncationMarker is appended to bodies cut at BodyLimit.
const TruncationMarker = "... [truncated]"

// Record is one row of the triage ledger, keyed by the immutable source
// issue number. A record is created on first sighting and never deleted;
// closed or irrelevant tickets are marked terminal instead.
type Record struct {
	ID     int64    `json:"id"`
	Title  string   `json:"title"`
	URL    string   `json:"url"`
	Labels []string `json:"labels"`
	Body   string   `json:"body"`

	UpdatedAt    time.Time `json:"updated_at"`
	Assignee     string    `json:"assignee,omitempty"`
	HasLinkedPR  bool      `json:"has_linked_pr"`
	CommentCount int       `json:"comment_count"`

	// Fingerprint digests the mutable attributes above. ClassifiedFingerprint
	// is the fingerprint at which classification last ran; it is empty until
	// the first classification completes.
	Fingerprint           string `json:"fingerprint"`
	ClassifiedFingerprint string `json:"classified_fingerprint,omitempty"`

	Status         Status          `json:"status"`
	Classification *Classification `json:"classification,omitempty"`

	AutoCandidate bool     `json:"auto_candidate"`
	Signals       []string `json:"signals,omitempty"`
	ExcludeReason string   `json:"exclude_reason,omitempty"`

	// Human-owned columns. Automation preserves these on every merge.
	ManualConfidence string `json:"manual_confidence,omitempty"`
	Notes            string `json:"notes,omitempty"`

	NeedsRetriage bool      `json:"needs_retriage"`
	LastCheckedAt time.Time `json:"last_checked_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	out.Labels = append([]string(nil), r.Labels...)
	out.Signals = append([]string(nil), r.Signals...)
	out.Classification = r.Classification.Clone()
	return &out
}

// TruncateBody cuts s at the given rune limit and appends the truncation
// marker. A limit <= 0 means BodyLimit.
func TruncateBody(s string, limit int) string {
	if limit <= 0 {
		limit = BodyLimit
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + TruncationMarker
}
