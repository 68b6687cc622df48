// Package sqlite implements the triage ledger on a local SQLite database,
// using the pure-Go ncruces driver so the binary needs no cgo.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ledger"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ticket"
)

// Store is the SQLite-backed ledger.Store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the ledger database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}
	return &Store{db: db}, nil
}

// Init creates the schema. Idempotent.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize ledger schema: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id int64) (*ticket.Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" FROM tickets WHERE id = ?", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrNotFound
	}
	return rec, err
}

// Put upserts the full record in a single statement, so a record's
// automated fields land atomically as a unit.
func (s *Store) Put(ctx context.Context, rec *ticket.Record) error {
	labels, err := marshalStrings(rec.Labels)
	if err != nil {
		return err
	}
	signals, err := marshalStrings(rec.Signals)
	if err != nil {
		return err
	}

	var difficulty, skillMatch, scopeClarity, testFocused, riskFlags, reason, summary sql.NullString
	if c := rec.Classification; c != nil {
		flags, err := marshalStrings(c.RiskFlags)
		if err != nil {
			return err
		}
		difficulty = sql.NullString{String: c.Difficulty, Valid: true}
		skillMatch = sql.NullString{String: c.SkillMatch, Valid: true}
		scopeClarity = sql.NullString{String: c.ScopeClarity, Valid: true}
		testFocused = sql.NullString{String: c.TestFocused, Valid: true}
		riskFlags = sql.NullString{String: flags, Valid: true}
		reason = sql.NullString{String: c.Reason, Valid: true}
		summary = sql.NullString{String: c.Summary, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tickets (
			id, title, url, labels, body, updated_at, assignee, has_linked_pr,
			comment_count, fingerprint, classified_fingerprint, status,
			difficulty, skill_match, scope_clarity, test_focused, risk_flags,
			reason, summary, auto_candidate, signals, exclude_reason,
			manual_confidence, notes, needs_retriage, last_checked_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			url = excluded.url,
			labels = excluded.labels,
			body = excluded.body,
			updated_at = excluded.updated_at,
			assignee = excluded.assignee,
			has_linked_pr = excluded.has_linked_pr,
			comment_count = excluded.comment_count,
			fingerprint = excluded.fingerprint,
			classified_fingerprint = excluded.classified_fingerprint,
			status = excluded.status,
			difficulty = excluded.difficulty,
			skill_match = excluded.skill_match,
			scope_clarity = excluded.scope_clarity,
			test_focused = excluded.test_focused,
			risk_flags = excluded.risk_flags,
			reason = excluded.reason,
			summary = excluded.summary,
			auto_candidate = excluded.auto_candidate,
			signals = excluded.signals,
			exclude_reason = excluded.exclude_reason,
			manual_confidence = excluded.manual_confidence,
			notes = excluded.notes,
			needs_retriage = excluded.needs_retriage,
			last_checked_at = excluded.last_checked_at,
			created_at = excluded.created_at
	`,
		rec.ID, rec.Title, rec.URL, labels, rec.Body, nullTime(rec.UpdatedAt),
		rec.Assignee, boolInt(rec.HasLinkedPR), rec.CommentCount,
		rec.Fingerprint, rec.ClassifiedFingerprint, string(rec.Status),
		difficulty, skillMatch, scopeClarity, testFocused, riskFlags, reason, summary,
		boolInt(rec.AutoCandidate), signals, rec.ExcludeReason,
		rec.ManualConfidence, rec.Notes, boolInt(rec.NeedsRetriage),
		nullTime(rec.LastCheckedAt), nullTime(rec.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to write ticket #%d: %w", rec.ID, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, filter ledger.Filter) ([]*ticket.Record, error) {
	query := selectColumns + " FROM tickets"
	var conds []string
	var args []any
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.NeedsRetriage != nil {
		conds = append(conds, "needs_retriage = ?")
		args = append(args, boolInt(*filter.NeedsRetriage))
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var out []*ticket.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) SetStatus(ctx context.Context, id int64, to ticket.Status, force bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx, "SELECT status FROM tickets WHERE id = ?", id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read status for #%d: %w", id, err)
	}
	if err := ticket.CheckTransition(ticket.Status(current), to, force); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE tickets SET status = ? WHERE id = ?", string(to), id); err != nil {
		return fmt.Errorf("failed to update status for #%d: %w", id, err)
	}
	return tx.Commit()
}

func (s *Store) Close() error {
	return s.db.Close()
}

const selectColumns = `SELECT
	id, title, url, labels, body, updated_at, assignee, has_linked_pr,
	comment_count, fingerprint, classified_fingerprint, status,
	difficulty, skill_match, scope_clarity, test_focused, risk_flags,
	reason, summary, auto_candidate, signals, exclude_reason,
	manual_confidence, notes, needs_retriage, last_checked_at, created_at`

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (*ticket.Record, error) {
	var rec ticket.Record
	var labels, signals string
	var status string
	var updatedAt, lastCheckedAt, createdAt sql.NullTime
	var hasLinkedPR, autoCandidate, needsRetriage int
	var difficulty, skillMatch, scopeClarity, testFocused, riskFlags, reason, summary sql.NullString

	err := row.Scan(
		&rec.ID, &rec.Title, &rec.URL, &labels, &rec.Body, &updatedAt,
		&rec.Assignee, &hasLinkedPR, &rec.CommentCount,
		&rec.Fingerprint, &rec.ClassifiedFingerprint, &status,
		&difficulty, &skillMatch, &scopeClarity, &testFocused, &riskFlags,
		&reason, &summary, &autoCandidate, &signals, &rec.ExcludeReason,
		&rec.ManualConfidence, &rec.Notes, &needsRetriage, &lastCheckedAt, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(labels), &rec.Labels); err != nil {
		return nil, fmt.Errorf("ticket #%d has malformed labels column: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(signals), &rec.Signals); err != nil {
		return nil, fmt.Errorf("ticket #%d has malformed signals column: %w", rec.ID, err)
	}
	rec.Status = ticket.Status(status)
	rec.HasLinkedPR = hasLinkedPR != 0
	rec.AutoCandidate = autoCandidate != 0
	rec.NeedsRetriage = needsRetriage != 0
	rec.UpdatedAt = updatedAt.Time
	rec.LastCheckedAt = lastCheckedAt.Time
	rec.CreatedAt = createdAt.Time

	if difficulty.Valid {
		c := &ticket.Classification{
			Difficulty:   difficulty.String,
			SkillMatch:   skillMatch.String,
			ScopeClarity: scopeClarity.String,
			TestFocused:  testFocused.String,
			Reason:       reason.String,
			Summary:      summary.String,
		}
		if riskFlags.Valid {
			if err := json.Unmarshal([]byte(riskFlags.String), &c.RiskFlags); err != nil {
				return nil, fmt.Errorf("ticket #%d has malformed risk_flags column: %w", rec.ID, err)
			}
		}
		rec.Classification = c
	}
	return &rec, nil
}

func marshalStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode string array: %w", err)
	}
	return string(b), nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t.UTC(), Valid: !t.IsZero()}
}
