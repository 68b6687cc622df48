package sqlite

const schema = `
-- Triage ledger: one row per source ticket, keyed by issue number.
-- Rows are never deleted; terminal tickets keep their audit trail.
CREATE TABLE IF NOT EXISTS tickets (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    url TEXT NOT NULL DEFAULT '',
    labels TEXT NOT NULL DEFAULT '[]',
    body TEXT NOT NULL DEFAULT '',
    updated_at DATETIME,
    assignee TEXT NOT NULL DEFAULT '',
    has_linked_pr INTEGER NOT NULL DEFAULT 0,
    comment_count INTEGER NOT NULL DEFAULT 0,
    fingerprint TEXT NOT NULL DEFAULT '',
    classified_fingerprint TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'new',
    -- Classification block: all columns set together or all NULL.
    difficulty TEXT,
    skill_match TEXT,
    scope_clarity TEXT,
    test_focused TEXT,
    risk_flags TEXT,
    reason TEXT,
    summary TEXT,
    auto_candidate INTEGER NOT NULL DEFAULT 0,
    signals TEXT NOT NULL DEFAULT '[]',
    exclude_reason TEXT NOT NULL DEFAULT '',
    -- Human-owned columns: automation round-trips these untouched.
    manual_confidence TEXT NOT NULL DEFAULT '',
    notes TEXT NOT NULL DEFAULT '',
    needs_retriage INTEGER NOT NULL DEFAULT 0,
    last_checked_at DATETIME,
    created_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_tickets_status ON tickets(status);
CREATE INDEX IF NOT EXISTS idx_tickets_needs_retriage ON tickets(needs_retriage);
`
