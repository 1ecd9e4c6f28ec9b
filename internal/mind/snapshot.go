package mind

import (
	"database/sql"
	"errors"
	"fmt"
)

// SnapshotRow is the raw subconscious state row. Payload interpretation
// belongs to the daemon package; the store only moves bytes.
type SnapshotRow struct {
	StateType string
	RunID     int64
	Data      string
	UpdatedAt string
}

// SaveSnapshot upserts the single subconscious row. Writes carrying a run id
// lower than the stored one are skipped so a stale run finishing late cannot
// regress the published state. Returns whether the write was applied.
func (s *Store) SaveSnapshot(stateType string, runID int64, data string) (bool, error) {
	res, err := s.db.Exec(
		`INSERT INTO subconscious (id, state_type, run_id, data, updated_at)
		 VALUES (1, ?, ?, ?, datetime('now'))
		 ON CONFLICT(id) DO UPDATE SET
		   state_type = excluded.state_type,
		   run_id     = excluded.run_id,
		   data       = excluded.data,
		   updated_at = excluded.updated_at
		 WHERE excluded.run_id >= subconscious.run_id`,
		stateType, runID, data,
	)
	if err != nil {
		return false, fmt.Errorf("save snapshot: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// LoadSnapshot reads the subconscious row. Returns ErrNotFound when no run
// has published yet.
func (s *Store) LoadSnapshot() (*SnapshotRow, error) {
	var row SnapshotRow
	err := s.db.QueryRow(
		`SELECT state_type, run_id, data, updated_at FROM subconscious WHERE id = 1`,
	).Scan(&row.StateType, &row.RunID, &row.Data, &row.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("subconscious snapshot: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return &row, nil
}

// ─── Health counts ───────────────────────────────────────────────────────────

// HealthCounts aggregates the table sizes and recency signals behind the
// health report.
type HealthCounts struct {
	Entities         int
	Observations     int
	Relations        int
	Journals         int
	ActiveThreads    int
	StaleThreads     int // active threads untouched for 7+ days
	ResolvedThreads  int
	ResolvedRecent   int // threads resolved in the last 7 days
	JournalsRecent   int // journal entries from the last 7 days
	IdentityEntries  int
	ActiveNotes      int
	MetabolizedNotes int
	ContextEntries   int
	RecentObs        int    // observations inside the recency window
	LastJournalDate  string // empty when no journals exist
	SnapshotAge      string // empty when no snapshot exists
}

// Counts gathers the aggregate numbers for the health report in one pass.
func (s *Store) Counts() (*HealthCounts, error) {
	c := &HealthCounts{}

	scalars := []struct {
		query string
		dst   *int
	}{
		{`SELECT COUNT(*) FROM entities`, &c.Entities},
		{`SELECT COUNT(*) FROM observations`, &c.Observations},
		{`SELECT COUNT(*) FROM relations`, &c.Relations},
		{`SELECT COUNT(*) FROM journals`, &c.Journals},
		{`SELECT COUNT(*) FROM threads WHERE status = 'active'`, &c.ActiveThreads},
		{`SELECT COUNT(*) FROM threads WHERE status = 'active'
		  AND updated_at < datetime('now', '-7 days')`, &c.StaleThreads},
		{`SELECT COUNT(*) FROM threads WHERE status = 'resolved'`, &c.ResolvedThreads},
		{`SELECT COUNT(*) FROM threads WHERE status = 'resolved'
		  AND resolved_at > datetime('now', '-7 days')`, &c.ResolvedRecent},
		{`SELECT COUNT(*) FROM journals WHERE created_at > datetime('now', '-7 days')`, &c.JournalsRecent},
		{`SELECT COUNT(*) FROM identity`, &c.IdentityEntries},
		{`SELECT COUNT(*) FROM notes WHERE charge != 'metabolized'`, &c.ActiveNotes},
		{`SELECT COUNT(*) FROM notes WHERE charge = 'metabolized'`, &c.MetabolizedNotes},
		{`SELECT COUNT(*) FROM context_entries`, &c.ContextEntries},
	}
	for _, q := range scalars {
		if err := s.db.QueryRow(q.query).Scan(q.dst); err != nil {
			return nil, fmt.Errorf("health counts: %w", err)
		}
	}

	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM observations WHERE added_at > datetime('now', ?)`,
		windowExpression(s.cfg.RecencyWindow),
	).Scan(&c.RecentObs)
	if err != nil {
		return nil, fmt.Errorf("health counts: %w", err)
	}

	var lastJournal *string
	if err := s.db.QueryRow(`SELECT MAX(entry_date) FROM journals`).Scan(&lastJournal); err != nil {
		return nil, fmt.Errorf("health counts: %w", err)
	}
	c.LastJournalDate = derefString(lastJournal)

	var snapAge *string
	err = s.db.QueryRow(`SELECT updated_at FROM subconscious WHERE id = 1`).Scan(&snapAge)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("health counts: %w", err)
	}
	c.SnapshotAge = derefString(snapAge)

	return c, nil
}
