package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"

	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/classify"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/config"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/github"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ledger/sqlite"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/rules"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/triage"
)

const lockRetryInterval = 250 * time.Millisecond

// openLedger acquires the run lock and opens the sqlite store. The release
// function closes the store and drops the lock; callers defer it.
func openLedger(ctx context.Context) (*sqlite.Store, func(), error) {
	dbPath := config.GetString("db")

	lock := flock.New(dbPath + ".lock")
	lockCtx, cancel := context.WithTimeout(ctx, config.GetDuration("lock-timeout"))
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, lockRetryInterval)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, nil, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !locked {
		return nil, nil, fmt.Errorf("another triage run is in progress (lock on %s.lock)", dbPath)
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, nil, err
	}
	release := func() {
		_ = store.Close()
		_ = lock.Unlock()
	}
	return store, release, nil
}

func newSource() *github.Client {
	c := github.NewClient(config.GetString("github-token"), config.GetString("repo"))
	if limit := config.GetInt("body-limit"); limit > 0 {
		c.BodyLimit = limit
	}
	return c
}

func newClassifier() (*classify.Client, error) {
	return classify.NewClient(
		config.GetString("anthropic-api-key"),
		classify.WithModel(config.GetString("model")),
		classify.WithRetries(config.GetInt("retries")),
		classify.WithTimeout(config.GetDuration("classify-timeout")),
	)
}

func loadRules() (*rules.Rules, error) {
	if path := config.GetString("rules"); path != "" {
		return rules.Load(path)
	}
	return rules.Default(), nil
}

func newRunner(store *sqlite.Store) (*triage.Runner, error) {
	classifier, err := newClassifier()
	if err != nil {
		return nil, err
	}
	ruleSet, err := loadRules()
	if err != nil {
		return nil, err
	}
	return &triage.Runner{
		Source:     newSource(),
		Classifier: classifier,
		Store:      store,
		Rules:      ruleSet,
		Workers:    config.GetInt("workers"),
	}, nil
}

func fetchOptions() github.FetchOptions {
	return github.FetchOptions{
		PerPage:  config.GetInt("per-page"),
		MaxPages: config.GetInt("max-pages"),
	}
}
