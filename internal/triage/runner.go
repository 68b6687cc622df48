package triage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/classify"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/debug"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/github"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ledger"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/rules"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ticket"
)

const (
	// DefaultWorkers bounds concurrent classification calls.
	DefaultWorkers = 5

	// maxPromptComments is how many recent comments feed the prompt.
	maxPromptComments = 5
)

// Source supplies ticket observations. Satisfied by *github.Client.
type Source interface {
	FetchOpenIssues(ctx context.Context, opts github.FetchOptions) ([]*ticket.Record, error)
	FetchIssue(ctx context.Context, number int64) (*ticket.Record, error)
	FetchComments(ctx context.Context, number int64, max int) ([]github.Comment, error)
	HasLinkedPR(ctx context.Context, number int64) bool
}

// Classifier scores one ticket per call. Satisfied by *classify.Client.
type Classifier interface {
	Classify(ctx context.Context, req classify.Request) classify.Result
}

// Runner executes triage passes against a single repository.
type Runner struct {
	Source     Source
	Classifier Classifier
	Store      ledger.Store
	Rules      *rules.Rules
	Workers    int

	// Now is the run clock; nil means time.Now. Tests pin it.
	Now func() time.Time
}

// Summary reports what one pass did.
type Summary struct {
	Fetched    int // observations considered
	Unchanged  int // known tickets whose fingerprint still matches
	Classified int // fresh valid verdicts
	Degraded   int // fallback verdicts after exhausted retries
	Deferred   int // transport failures, left flagged for the next run
	Candidates int // records in candidate state after the pass
	Filtered   int // records filtered out this pass
	Conflicts  int // rejected automated writes to manual fields
}

// Run fetches open issues and triages the new and changed ones.
func (r *Runner) Run(ctx context.Context, opts github.FetchOptions) (*Summary, error) {
	observations, err := r.Source.FetchOpenIssues(ctx, opts)
	if err != nil {
		return nil, err
	}
	return r.process(ctx, observations)
}

// Retriage re-runs classification for every non-terminal ticket flagged
// needs-retriage, against a fresh snapshot of each issue. A ticket whose
// snapshot cannot be fetched is skipped and stays flagged.
func (r *Runner) Retriage(ctx context.Context) (*Summary, error) {
	flagged, err := r.Store.List(ctx, ledger.Filter{NeedsRetriage: ledger.NeedsRetriage(true)})
	if err != nil {
		return nil, err
	}

	var observations []*ticket.Record
	for _, rec := range flagged {
		if rec.Status.Terminal() {
			continue
		}
		obs, err := r.Source.FetchIssue(ctx, rec.ID)
		if err != nil {
			debug.Logf("triage: skipping #%d, fetch failed: %v", rec.ID, err)
			continue
		}
		observations = append(observations, obs)
	}
	return r.process(ctx, observations)
}

// job is one ticket headed for the classifier pool.
type job struct {
	prior *ticket.Record
	obs   *ticket.Record
}

// outcome is a finished classification, back on the run goroutine.
type outcome struct {
	job
	res classify.Result
}

func (r *Runner) process(ctx context.Context, observations []*ticket.Record) (*Summary, error) {
	now := time.Now().UTC()
	if r.Now != nil {
		now = r.Now().UTC()
	}

	summary := &Summary{Fetched: len(observations)}
	var jobs []job
	for _, obs := range observations {
		prior, err := r.Store.Get(ctx, obs.ID)
		if errors.Is(err, ledger.ErrNotFound) {
			prior = nil
		} else if err != nil {
			return nil, fmt.Errorf("ledger lookup for #%d failed: %w", obs.ID, err)
		}

		obs.HasLinkedPR = r.Source.HasLinkedPR(ctx, obs.ID)

		verdict := r.Rules.Evaluate(obs.Labels, obs.Title, obs.Body)
		obs.AutoCandidate = verdict.AutoCandidate
		obs.Signals = verdict.Signals
		obs.ExcludeReason = verdict.ExcludeReason

		Detect(prior, obs, now)

		if prior != nil && !obs.NeedsRetriage {
			summary.Unchanged++
		}
		if r.shouldClassify(prior, obs) {
			jobs = append(jobs, job{prior: prior, obs: obs})
			continue
		}
		if err := r.commit(ctx, prior, obs, now, summary); err != nil {
			return nil, err
		}
	}

	if err := r.classifyAll(ctx, jobs, now, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// shouldClassify gates the expensive call: only changed auto-candidates
// that are not already in a terminal state go to the model.
func (r *Runner) shouldClassify(prior, obs *ticket.Record) bool {
	if !obs.NeedsRetriage || !obs.AutoCandidate {
		return false
	}
	return prior == nil || !prior.Status.Terminal()
}

// classifyAll fans the jobs out through a bounded pool and applies each
// result on this goroutine, keeping the ledger single-writer.
func (r *Runner) classifyAll(ctx context.Context, jobs []job, now time.Time, summary *Summary) error {
	if len(jobs) == 0 {
		return nil
	}

	workers := r.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	results := make(chan outcome)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	go func() {
		for _, j := range jobs {
			g.Go(func() error {
				results <- outcome{job: j, res: r.classifyOne(gctx, j)}
				return nil
			})
		}
		g.Wait()
		close(results)
	}()

	var firstErr error
	for out := range results {
		if firstErr != nil {
			continue
		}
		r.applyResult(out.obs, out.res, summary)
		if err := r.commit(ctx, out.prior, out.obs, now, summary); err != nil {
			firstErr = err
		}
	}
	return firstErr
}

// classifyOne builds the prompt context for a ticket and runs it through
// the model. Comments are best-effort context; a failed comment fetch
// never fails the classification.
func (r *Runner) classifyOne(ctx context.Context, j job) classify.Result {
	comments, err := r.Source.FetchComments(ctx, j.obs.ID, maxPromptComments)
	if err != nil {
		debug.Logf("triage: comments for #%d unavailable: %v", j.obs.ID, err)
	}

	req := classify.Request{
		Title:  j.obs.Title,
		Labels: j.obs.Labels,
		Body:   j.obs.Body,
	}
	for _, c := range comments {
		req.Comments = append(req.Comments, classify.Comment{Author: c.Author, Body: c.Body})
	}
	if j.prior != nil && j.prior.Classification != nil {
		req = req.WithPrevious(j.prior.Classification.Difficulty, j.prior.Classification.SkillMatch)
	}
	return r.Classifier.Classify(ctx, req)
}

// applyResult folds a classification result into the observation. A
// transport failure leaves the observation unclassified and still flagged,
// so the next run picks it up again.
func (r *Runner) applyResult(obs *ticket.Record, res classify.Result, summary *Summary) {
	switch res.Kind {
	case classify.KindOK, classify.KindDegraded:
		obs.Classification = res.Classification
		obs.ClassifiedFingerprint = obs.Fingerprint
		obs.NeedsRetriage = false
		if res.Kind == classify.KindDegraded {
			summary.Degraded++
			debug.Logf("triage: #%d degraded after %d attempts: %v", obs.ID, res.Attempts, res.Err)
		} else {
			summary.Classified++
		}
	case classify.KindTransport:
		summary.Deferred++
		debug.Logf("triage: #%d deferred: %v", obs.ID, res.Err)
	}
}

// commit reconciles and persists one record. A persistence failure aborts
// the run; everything already written stays written.
func (r *Runner) commit(ctx context.Context, prior, obs *ticket.Record, now time.Time, summary *Summary) error {
	merged, conflicts := ledger.Reconcile(prior, obs, now)
	summary.Conflicts += len(conflicts)
	if err := r.Store.Put(ctx, merged); err != nil {
		return fmt.Errorf("ledger write for #%d failed: %w", merged.ID, err)
	}
	switch merged.Status {
	case ticket.StatusCandidate:
		summary.Candidates++
	case ticket.StatusFilteredOut:
		summary.Filtered++
	}
	return nil
}
