package classify

import "github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ticket"

// Kind describes how a classification attempt concluded.
type Kind int

const (
	// KindOK: the classifier returned a valid verdict.
	KindOK Kind = iota
	// KindDegraded: repeated validation failures; a conservative fallback
	// verdict was synthesized so the ticket does not stay unclassified.
	KindDegraded
	// KindTransport: the backend was unreachable, rate limited, or timed
	// out. No verdict; the ticket keeps its retriage flag and is retried
	// on the next run.
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindDegraded:
		return "degraded"
	case KindTransport:
		return "transport"
	}
	return "unknown"
}

// Result carries the outcome of one ticket's classification attempt,
// including its retries. Callers branch on Kind instead of unwrapping
// errors: OK and Degraded both carry a usable classification block,
// Transport carries none.
type Result struct {
	Classification *ticket.Classification
	Kind           Kind
	Attempts       int
	Err            error
}

// Deferred reports whether the ticket should be left for the next run.
func (r Result) Deferred() bool {
	return r.Kind == KindTransport
}
