package triage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/classify"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/github"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ledger/memory"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/rules"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ticket"
)

type fakeSource struct {
	issues   map[int64]*ticket.Record
	comments map[int64][]github.Comment
	linkedPR map[int64]bool
}

func (s *fakeSource) FetchOpenIssues(ctx context.Context, opts github.FetchOptions) ([]*ticket.Record, error) {
	var out []*ticket.Record
	for _, rec := range s.issues {
		out = append(out, rec.Clone())
	}
	return out, nil
}

func (s *fakeSource) FetchIssue(ctx context.Context, number int64) (*ticket.Record, error) {
	rec, ok := s.issues[number]
	if !ok {
		return nil, errors.New("not found")
	}
	return rec.Clone(), nil
}

func (s *fakeSource) FetchComments(ctx context.Context, number int64, max int) ([]github.Comment, error) {
	return s.comments[number], nil
}

func (s *fakeSource) HasLinkedPR(ctx context.Context, number int64) bool {
	return s.linkedPR[number]
}

type fakeClassifier struct {
	mu       sync.Mutex
	calls    int
	requests []classify.Request
	fn       func(req classify.Request) classify.Result
}

func (c *fakeClassifier) Classify(ctx context.Context, req classify.Request) classify.Result {
	c.mu.Lock()
	c.calls++
	c.requests = append(c.requests, req)
	c.mu.Unlock()
	return c.fn(req)
}

func okResult() classify.Result {
	return classify.Result{
		Kind:     classify.KindOK,
		Attempts: 1,
		Classification: &ticket.Classification{
			Difficulty:   ticket.DifficultyLow,
			SkillMatch:   ticket.SkillYes,
			ScopeClarity: ticket.ScopeClear,
			TestFocused:  ticket.TestFocusedYes,
			RiskFlags:    []string{},
			Reason:       "small scoped test fix",
		},
	}
}

func issue(id int64, title string, labels ...string) *ticket.Record {
	return &ticket.Record{
		ID:        id,
		Title:     title,
		Labels:    labels,
		Body:      "body",
		UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Status:    ticket.StatusNew,
	}
}

func newRunner(src *fakeSource, cls *fakeClassifier) (*Runner, *memory.Store) {
	store := memory.New()
	return &Runner{
		Source:     src,
		Classifier: cls,
		Store:      store,
		Rules:      rules.Default(),
		Workers:    2,
		Now:        func() time.Time { return time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC) },
	}, store
}

func TestRunClassifiesNewCandidate(t *testing.T) {
	src := &fakeSource{issues: map[int64]*ticket.Record{
		100: issue(100, "Button snapshot fails", "[Type] Bug", "JavaScript"),
	}}
	cls := &fakeClassifier{fn: func(classify.Request) classify.Result { return okResult() }}
	runner, store := newRunner(src, cls)

	summary, err := runner.Run(context.Background(), github.FetchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Classified != 1 || summary.Candidates != 1 {
		t.Errorf("summary = %+v", summary)
	}

	got, err := store.Get(context.Background(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != ticket.StatusCandidate {
		t.Errorf("status = %s, want candidate", got.Status)
	}
	if got.NeedsRetriage {
		t.Error("classified ticket still flagged")
	}
	if got.ClassifiedFingerprint != got.Fingerprint {
		t.Error("classified fingerprint not stamped")
	}
	if got.Classification == nil || got.Classification.SkillMatch != ticket.SkillYes {
		t.Errorf("classification = %+v", got.Classification)
	}
}

func TestRunFiltersExcludedWithoutClassifying(t *testing.T) {
	src := &fakeSource{issues: map[int64]*ticket.Record{
		7: issue(7, "Redesign everything", "blocker", "Needs Tests"),
	}}
	cls := &fakeClassifier{fn: func(classify.Request) classify.Result { return okResult() }}
	runner, store := newRunner(src, cls)

	summary, err := runner.Run(context.Background(), github.FetchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.calls != 0 {
		t.Errorf("excluded ticket reached the classifier (%d calls)", cls.calls)
	}
	if summary.Filtered != 1 {
		t.Errorf("summary = %+v", summary)
	}

	got, _ := store.Get(context.Background(), 7)
	if got.Status != ticket.StatusFilteredOut {
		t.Errorf("status = %s, want filtered-out", got.Status)
	}
	if got.ExcludeReason == "" {
		t.Error("exclude reason missing")
	}
}

func TestTransportFailureDefers(t *testing.T) {
	src := &fakeSource{issues: map[int64]*ticket.Record{
		100: issue(100, "Button snapshot fails", "[Type] Bug"),
	}}
	cls := &fakeClassifier{fn: func(classify.Request) classify.Result {
		return classify.Result{Kind: classify.KindTransport, Attempts: 1, Err: errors.New("429")}
	}}
	runner, store := newRunner(src, cls)

	summary, err := runner.Run(context.Background(), github.FetchOptions{})
	if err != nil {
		t.Fatalf("transport failure must not fail the run: %v", err)
	}
	if summary.Deferred != 1 || summary.Classified != 0 {
		t.Errorf("summary = %+v", summary)
	}

	got, err := store.Get(context.Background(), 100)
	if err != nil {
		t.Fatalf("deferred ticket must still be recorded: %v", err)
	}
	if !got.NeedsRetriage {
		t.Error("deferred ticket lost its retriage flag")
	}
	if got.Classification != nil {
		t.Error("deferred ticket has a classification")
	}
	if got.Status != ticket.StatusNew {
		t.Errorf("status = %s, want new", got.Status)
	}

	// Next run succeeds and picks the ticket back up.
	cls.fn = func(classify.Request) classify.Result { return okResult() }
	if _, err := runner.Run(context.Background(), github.FetchOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ = store.Get(context.Background(), 100)
	if got.NeedsRetriage || got.Status != ticket.StatusCandidate {
		t.Errorf("deferred ticket not recovered: status=%s retriage=%v", got.Status, got.NeedsRetriage)
	}
}

func TestUnchangedTicketSkipsClassifier(t *testing.T) {
	src := &fakeSource{issues: map[int64]*ticket.Record{
		100: issue(100, "Button snapshot fails", "[Type] Bug"),
	}}
	cls := &fakeClassifier{fn: func(classify.Request) classify.Result { return okResult() }}
	runner, store := newRunner(src, cls)

	if _, err := runner.Run(context.Background(), github.FetchOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.calls != 1 {
		t.Fatalf("first run: %d calls", cls.calls)
	}

	summary, err := runner.Run(context.Background(), github.FetchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.calls != 1 {
		t.Errorf("unchanged ticket reclassified (%d calls)", cls.calls)
	}
	if summary.Unchanged != 1 {
		t.Errorf("summary = %+v", summary)
	}

	got, _ := store.Get(context.Background(), 100)
	if got.NeedsRetriage {
		t.Error("unchanged ticket flagged")
	}
}

func TestChangedTicketReclassifiedWithPreviousVerdict(t *testing.T) {
	src := &fakeSource{issues: map[int64]*ticket.Record{
		100: issue(100, "Button snapshot fails", "[Type] Bug"),
	}}
	cls := &fakeClassifier{fn: func(classify.Request) classify.Result { return okResult() }}
	runner, _ := newRunner(src, cls)

	if _, err := runner.Run(context.Background(), github.FetchOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src.issues[100].UpdatedAt = src.issues[100].UpdatedAt.Add(time.Hour)
	if _, err := runner.Run(context.Background(), github.FetchOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.calls != 2 {
		t.Fatalf("changed ticket not reclassified (%d calls)", cls.calls)
	}

	last := cls.requests[len(cls.requests)-1]
	if last.Previous == nil {
		t.Error("reclassification request missing prior verdict")
	}
}

func TestRunPreservesManualFields(t *testing.T) {
	src := &fakeSource{issues: map[int64]*ticket.Record{
		100: issue(100, "Button snapshot fails", "[Type] Bug"),
	}}
	cls := &fakeClassifier{fn: func(classify.Request) classify.Result { return okResult() }}
	runner, store := newRunner(src, cls)
	ctx := context.Background()

	if _, err := runner.Run(ctx, github.FetchOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, _ := store.Get(ctx, 100)
	rec.ManualConfidence = "High"
	rec.Notes = "talk to alice first"
	if err := store.Put(ctx, rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src.issues[100].UpdatedAt = src.issues[100].UpdatedAt.Add(time.Hour)
	if _, err := runner.Run(ctx, github.FetchOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := store.Get(ctx, 100)
	if got.ManualConfidence != "High" || got.Notes != "talk to alice first" {
		t.Errorf("manual fields clobbered: %q, %q", got.ManualConfidence, got.Notes)
	}
}

func TestDegradedResultRecorded(t *testing.T) {
	src := &fakeSource{issues: map[int64]*ticket.Record{
		100: issue(100, "Button snapshot fails", "[Type] Bug"),
	}}
	cls := &fakeClassifier{fn: func(classify.Request) classify.Result {
		return classify.Result{
			Kind:     classify.KindDegraded,
			Attempts: 3,
			Err:      errors.New("malformed classifier output"),
			Classification: &ticket.Classification{
				Difficulty:   ticket.DifficultyMedium,
				SkillMatch:   ticket.SkillMaybe,
				ScopeClarity: ticket.ScopeUnclear,
				TestFocused:  ticket.TestFocusedUnclear,
				RiskFlags:    []string{"classification failed: malformed classifier output"},
				Reason:       "degraded fallback after repeated validation failures",
			},
		}
	}}
	runner, store := newRunner(src, cls)

	summary, err := runner.Run(context.Background(), github.FetchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Degraded != 1 {
		t.Errorf("summary = %+v", summary)
	}

	got, _ := store.Get(context.Background(), 100)
	if got.NeedsRetriage {
		t.Error("degraded verdict must clear the retriage flag")
	}
	if got.Classification == nil || len(got.Classification.RiskFlags) == 0 {
		t.Errorf("degraded classification missing failure flag: %+v", got.Classification)
	}
	if got.Status != ticket.StatusCandidate {
		t.Errorf("status = %s, want candidate", got.Status)
	}
}

func TestRetriageOnlyFlaggedTickets(t *testing.T) {
	src := &fakeSource{issues: map[int64]*ticket.Record{
		100: issue(100, "Button snapshot fails", "[Type] Bug"),
		101: issue(101, "Toolbar e2e flaky", "[Type] Bug"),
	}}
	deferAll := func(classify.Request) classify.Result {
		return classify.Result{Kind: classify.KindTransport, Err: errors.New("timeout")}
	}
	cls := &fakeClassifier{fn: deferAll}
	runner, store := newRunner(src, cls)
	ctx := context.Background()

	if _, err := runner.Run(ctx, github.FetchOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.calls != 2 {
		t.Fatalf("first run: %d calls", cls.calls)
	}

	// Resolve one of the two by hand so only the other stays flagged.
	rec, _ := store.Get(ctx, 101)
	rec.NeedsRetriage = false
	if err := store.Put(ctx, rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cls.fn = func(classify.Request) classify.Result { return okResult() }
	summary, err := runner.Retriage(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Fetched != 1 || summary.Classified != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if cls.calls != 3 {
		t.Errorf("retriage made %d total calls, want 3", cls.calls)
	}
}

func TestLinkedPRChangesFingerprint(t *testing.T) {
	src := &fakeSource{
		issues: map[int64]*ticket.Record{
			100: issue(100, "Button snapshot fails", "[Type] Bug"),
		},
		linkedPR: map[int64]bool{},
	}
	cls := &fakeClassifier{fn: func(classify.Request) classify.Result { return okResult() }}
	runner, _ := newRunner(src, cls)
	ctx := context.Background()

	if _, err := runner.Run(ctx, github.FetchOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src.linkedPR[100] = true
	if _, err := runner.Run(ctx, github.FetchOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.calls != 2 {
		t.Errorf("linked-PR change must trigger reclassification (%d calls)", cls.calls)
	}
}
