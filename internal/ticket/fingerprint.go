package ticket

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Fingerprint digests a ticket's mutable, change-relevant attributes into a
// stable hex string. Two observations of the same logical state always
// produce the same digest; changing any attribute changes it. The label set
// is sorted before hashing so iteration order never leaks into the digest.
func Fingerprint(labels []string, updatedAt time.Time, assignee string, hasLinkedPR bool, commentRef string) string {
	sorted := make([]string, len(labels))
	for i, l := range labels {
		sorted[i] = strings.TrimSpace(l)
	}
	slices.Sort(sorted)

	var b strings.Builder
	b.WriteString(strings.Join(sorted, "\x1f"))
	b.WriteByte('\n')
	b.WriteString(updatedAt.UTC().Format(time.RFC3339))
	b.WriteByte('\n')
	b.WriteString(assignee)
	b.WriteByte('\n')
	fmt.Fprintf(&b, "%t\n", hasLinkedPR)
	b.WriteString(commentRef)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// RecordFingerprint computes the fingerprint of a record's current
// observation. The comment count stands in for the latest-comment
// identifier, which the list endpoint does not expose.
func (r *Record) RecordFingerprint() string {
	return Fingerprint(r.Labels, r.UpdatedAt, r.Assignee, r.HasLinkedPR, fmt.Sprintf("%d", r.CommentCount))
}
