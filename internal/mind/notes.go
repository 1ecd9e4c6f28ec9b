package mind

import (
	"database/sql"
	"errors"
	"fmt"
)

// Note charge states. A note moves fresh → active → processing as it is sat
// with, and reaches metabolized only through resolution. Metabolized is
// terminal.
const (
	ChargeFresh       = "fresh"
	ChargeActive      = "active"
	ChargeProcessing  = "processing"
	ChargeMetabolized = "metabolized"
)

// Note is an emotionally charged item that gets metabolized over time.
type Note struct {
	ID              int64
	Content         string
	Weight          string
	Charge          string
	SitCount        int
	Emotion         string
	LastSatAt       string
	ResolutionNote  string
	ResolvedAt      string
	LinkedInsightID int64
	CreatedAt       string
}

// NoteSit is one reflection recorded against a note.
type NoteSit struct {
	ID        int64
	NoteID    int64
	SitNote   string
	CreatedAt string
}

// ChargeForSitCount derives a non-terminal charge from how many times a note
// has been sat with.
func ChargeForSitCount(sits int) string {
	switch {
	case sits == 0:
		return ChargeFresh
	case sits <= 2:
		return ChargeActive
	default:
		return ChargeProcessing
	}
}

// ─── Notes ───────────────────────────────────────────────────────────────────

// CreateNote records a new note with fresh charge.
func (s *Store) CreateNote(content, weight, emotion string) (*Note, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: note content is required", ErrInvalidArgument)
	}
	weight = normalizeWeight(weight)

	res, err := s.db.Exec(
		`INSERT INTO notes (content, weight, emotion) VALUES (?, ?, ?)`,
		content, weight, nullableString(emotion),
	)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetNote(id)
}

// GetNote fetches a note by id.
func (s *Store) GetNote(id int64) (*Note, error) {
	var n Note
	var emotion, lastSat, resolution, resolvedAt *string
	var insight *int64
	err := s.db.QueryRow(
		`SELECT id, content, weight, charge, sit_count, emotion, last_sat_at,
		        resolution_note, resolved_at, linked_insight_id, created_at
		 FROM notes WHERE id = ?`, id,
	).Scan(&n.ID, &n.Content, &n.Weight, &n.Charge, &n.SitCount, &emotion,
		&lastSat, &resolution, &resolvedAt, &insight, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("note %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	n.Emotion = derefString(emotion)
	n.LastSatAt = derefString(lastSat)
	n.ResolutionNote = derefString(resolution)
	n.ResolvedAt = derefString(resolvedAt)
	if insight != nil {
		n.LinkedInsightID = *insight
	}
	return &n, nil
}

// FindNoteByText returns the most recent note whose content contains the
// given fragment.
func (s *Store) FindNoteByText(fragment string) (*Note, error) {
	if fragment == "" {
		return nil, fmt.Errorf("%w: text match is required", ErrInvalidArgument)
	}
	var id int64
	err := s.db.QueryRow(
		`SELECT id FROM notes WHERE content LIKE ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		"%"+fragment+"%",
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("note matching %q: %w", Truncate(fragment, 40), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find note: %w", err)
	}
	return s.GetNote(id)
}

// SitNote records a reflection on a note. The sit history and sit_count
// always grow; the charge only advances while the note is unresolved.
// A metabolized note keeps its charge.
func (s *Store) SitNote(id int64, sitText string) (*Note, error) {
	if sitText == "" {
		return nil, fmt.Errorf("%w: sit reflection text is required", ErrInvalidArgument)
	}
	n, err := s.GetNote(id)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("sit note: %w", err)
	}
	defer tx.Rollback()

	newCount := n.SitCount + 1
	charge := n.Charge
	if n.ResolvedAt == "" {
		charge = ChargeForSitCount(newCount)
	}

	if _, err := tx.Exec(
		`UPDATE notes SET sit_count = ?, charge = ?, last_sat_at = datetime('now') WHERE id = ?`,
		newCount, charge, id,
	); err != nil {
		return nil, fmt.Errorf("sit note update: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO note_sits (note_id, sit_note) VALUES (?, ?)`, id, sitText,
	); err != nil {
		return nil, fmt.Errorf("sit note history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetNote(id)
}

// ResolveNote marks a note metabolized with a resolution and an optional
// linked insight observation. Resolution is irreversible.
func (s *Store) ResolveNote(id int64, resolution string, insightID int64) (*Note, error) {
	if resolution == "" {
		return nil, fmt.Errorf("%w: resolution text is required", ErrInvalidArgument)
	}
	if _, err := s.GetNote(id); err != nil {
		return nil, err
	}

	var insight any
	if insightID > 0 {
		insight = insightID
	}
	_, err := s.db.Exec(
		`UPDATE notes SET charge = ?, resolution_note = ?, resolved_at = datetime('now'),
		        linked_insight_id = ?
		 WHERE id = ?`,
		ChargeMetabolized, resolution, insight, id,
	)
	if err != nil {
		return nil, fmt.Errorf("resolve note: %w", err)
	}
	return s.GetNote(id)
}

// SurfaceNotes returns notes ranked heaviest and freshest first: weight
// (heavy > medium > light), then charge (fresh > active > processing >
// metabolized), then newest. Metabolized notes are excluded unless asked for.
func (s *Store) SurfaceNotes(limit int, includeMetabolized bool) ([]Note, error) {
	if limit <= 0 {
		limit = 5
	}
	query := `SELECT id, content, weight, charge, sit_count, emotion, last_sat_at,
	                 resolution_note, resolved_at, linked_insight_id, created_at
	          FROM notes`
	if !includeMetabolized {
		query += ` WHERE charge != 'metabolized'`
	}
	query += `
	          ORDER BY
	            CASE weight WHEN 'heavy' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END,
	            CASE charge WHEN 'fresh' THEN 0 WHEN 'active' THEN 1
	                        WHEN 'processing' THEN 2 ELSE 3 END,
	            created_at DESC, id DESC
	          LIMIT ?`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("surface notes: %w", err)
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		var n Note
		var emotion, lastSat, resolution, resolvedAt *string
		var insight *int64
		if err := rows.Scan(&n.ID, &n.Content, &n.Weight, &n.Charge, &n.SitCount,
			&emotion, &lastSat, &resolution, &resolvedAt, &insight, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Emotion = derefString(emotion)
		n.LastSatAt = derefString(lastSat)
		n.ResolutionNote = derefString(resolution)
		n.ResolvedAt = derefString(resolvedAt)
		if insight != nil {
			n.LinkedInsightID = *insight
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// NoteSits returns the sit history for a note, oldest first.
func (s *Store) NoteSits(noteID int64) ([]NoteSit, error) {
	rows, err := s.db.Query(
		`SELECT id, note_id, sit_note, created_at FROM note_sits
		 WHERE note_id = ? ORDER BY id`, noteID,
	)
	if err != nil {
		return nil, fmt.Errorf("note sits: %w", err)
	}
	defer rows.Close()

	var out []NoteSit
	for rows.Next() {
		var ns NoteSit
		if err := rows.Scan(&ns.ID, &ns.NoteID, &ns.SitNote, &ns.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ns)
	}
	return out, rows.Err()
}
