package mind

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Thread is an open loop: an intention, question, or commitment carried
// across sessions.
type Thread struct {
	ID         string
	Type       string
	Content    string
	Context    string
	Priority   string
	Status     string
	Resolution string
	ResolvedAt string
	CreatedAt  string
	UpdatedAt  string
}

// IdentityEntry is one row of the identity graph.
type IdentityEntry struct {
	ID          int64
	Section     string
	Content     string
	Weight      float64
	Connections string
	CreatedAt   string
}

// ContextEntry is one scoped entry in the current-context layer.
type ContextEntry struct {
	ID        string
	Scope     string
	Content   string
	Links     string
	UpdatedAt string
}

// Feeling is one recorded relational state toward a person.
type Feeling struct {
	ID        int64
	Person    string
	Feeling   string
	Intensity string
	Timestamp string
}

// ─── Threads ─────────────────────────────────────────────────────────────────

// AddThread opens a new thread.
func (s *Store) AddThread(threadType, content, context, priority string) (*Thread, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: thread content is required", ErrInvalidArgument)
	}
	if threadType == "" {
		threadType = "intention"
	}
	if priority == "" {
		priority = "medium"
	}
	id := "thread-" + uuid.NewString()

	_, err := s.db.Exec(
		`INSERT INTO threads (id, thread_type, content, context, priority)
		 VALUES (?, ?, ?, ?, ?)`,
		id, threadType, content, nullableString(context), priority,
	)
	if err != nil {
		return nil, fmt.Errorf("add thread: %w", err)
	}
	return s.GetThread(id)
}

// GetThread fetches a thread by id.
func (s *Store) GetThread(id string) (*Thread, error) {
	var t Thread
	var context, resolution, resolvedAt *string
	err := s.db.QueryRow(
		`SELECT id, thread_type, content, context, priority, status, resolution,
		        resolved_at, created_at, updated_at
		 FROM threads WHERE id = ?`, id,
	).Scan(&t.ID, &t.Type, &t.Content, &context, &t.Priority, &t.Status,
		&resolution, &resolvedAt, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("thread %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get thread: %w", err)
	}
	t.Context = derefString(context)
	t.Resolution = derefString(resolution)
	t.ResolvedAt = derefString(resolvedAt)
	return &t, nil
}

// ListThreads returns threads with the given status (default active),
// ordered high priority first, then newest.
func (s *Store) ListThreads(status string) ([]Thread, error) {
	if status == "" {
		status = "active"
	}
	rows, err := s.db.Query(
		`SELECT id, thread_type, content, context, priority, status, resolution,
		        resolved_at, created_at, updated_at
		 FROM threads WHERE status = ?
		 ORDER BY CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END,
		          created_at DESC`, status,
	)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	defer rows.Close()

	var out []Thread
	for rows.Next() {
		var t Thread
		var context, resolution, resolvedAt *string
		if err := rows.Scan(&t.ID, &t.Type, &t.Content, &context, &t.Priority, &t.Status,
			&resolution, &resolvedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.Context = derefString(context)
		t.Resolution = derefString(resolution)
		t.ResolvedAt = derefString(resolvedAt)
		out = append(out, t)
	}
	return out, rows.Err()
}

// ResolveThread closes a thread with a resolution.
func (s *Store) ResolveThread(id, resolution string) (*Thread, error) {
	if _, err := s.GetThread(id); err != nil {
		return nil, err
	}
	_, err := s.db.Exec(
		`UPDATE threads SET status = 'resolved', resolution = ?,
		        resolved_at = datetime('now'), updated_at = datetime('now')
		 WHERE id = ?`, nullableString(resolution), id,
	)
	if err != nil {
		return nil, fmt.Errorf("resolve thread: %w", err)
	}
	return s.GetThread(id)
}

// UpdateThread applies the non-empty fields to a thread.
func (s *Store) UpdateThread(id, content, priority, status string) (*Thread, error) {
	if _, err := s.GetThread(id); err != nil {
		return nil, err
	}

	sets := []string{"updated_at = datetime('now')"}
	args := []any{}
	if content != "" {
		sets = append(sets, "content = ?")
		args = append(args, content)
	}
	if priority != "" {
		sets = append(sets, "priority = ?")
		args = append(args, priority)
	}
	if status != "" {
		sets = append(sets, "status = ?")
		args = append(args, status)
	}
	args = append(args, id)

	query := "UPDATE threads SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := s.db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("update thread: %w", err)
	}
	return s.GetThread(id)
}

// ─── Identity ────────────────────────────────────────────────────────────────

// AddIdentity appends a row to the identity graph.
func (s *Store) AddIdentity(section, content string, weight float64, connections string) (*IdentityEntry, error) {
	if section == "" || content == "" {
		return nil, fmt.Errorf("%w: identity section and content are required", ErrInvalidArgument)
	}
	if weight <= 0 {
		weight = 0.7
	}

	res, err := s.db.Exec(
		`INSERT INTO identity (section, content, weight, connections) VALUES (?, ?, ?, ?)`,
		section, content, weight, connections,
	)
	if err != nil {
		return nil, fmt.Errorf("add identity: %w", err)
	}
	id, _ := res.LastInsertId()
	return &IdentityEntry{ID: id, Section: section, Content: content,
		Weight: weight, Connections: connections}, nil
}

// IdentityEntries returns the identity graph, heaviest rows first,
// optionally limited to one section.
func (s *Store) IdentityEntries(section string) ([]IdentityEntry, error) {
	query := `SELECT id, section, content, weight, connections, created_at FROM identity`
	args := []any{}
	if section != "" {
		query += ` WHERE section = ?`
		args = append(args, section)
	}
	query += ` ORDER BY weight DESC, id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("identity entries: %w", err)
	}
	defer rows.Close()

	var out []IdentityEntry
	for rows.Next() {
		var e IdentityEntry
		if err := rows.Scan(&e.ID, &e.Section, &e.Content, &e.Weight,
			&e.Connections, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ─── Context layer ───────────────────────────────────────────────────────────

// SetContextEntry creates a new context-layer entry in the given scope.
func (s *Store) SetContextEntry(scope, content, links string) (*ContextEntry, error) {
	if scope == "" || content == "" {
		return nil, fmt.Errorf("%w: context scope and content are required", ErrInvalidArgument)
	}
	if links == "" {
		links = "[]"
	}
	id := "ctx-" + uuid.NewString()

	_, err := s.db.Exec(
		`INSERT INTO context_entries (id, scope, content, links) VALUES (?, ?, ?, ?)`,
		id, scope, content, links,
	)
	if err != nil {
		return nil, fmt.Errorf("set context entry: %w", err)
	}
	return &ContextEntry{ID: id, Scope: scope, Content: content, Links: links}, nil
}

// UpdateContextEntry replaces an entry's content and refreshes its timestamp.
func (s *Store) UpdateContextEntry(id, content string) (*ContextEntry, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: context content is required", ErrInvalidArgument)
	}
	res, err := s.db.Exec(
		`UPDATE context_entries SET content = ?, updated_at = datetime('now') WHERE id = ?`,
		content, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update context entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("context entry %q: %w", id, ErrNotFound)
	}

	var e ContextEntry
	err = s.db.QueryRow(
		`SELECT id, scope, content, links, updated_at FROM context_entries WHERE id = ?`, id,
	).Scan(&e.ID, &e.Scope, &e.Content, &e.Links, &e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("read context entry back: %w", err)
	}
	return &e, nil
}

// ClearContext removes all context entries, or just one scope when given.
// Returns the number of rows removed.
func (s *Store) ClearContext(scope string) (int64, error) {
	var res sql.Result
	var err error
	if scope == "" {
		res, err = s.db.Exec(`DELETE FROM context_entries`)
	} else {
		res, err = s.db.Exec(`DELETE FROM context_entries WHERE scope = ?`, scope)
	}
	if err != nil {
		return 0, fmt.Errorf("clear context: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// ContextEntries returns current context entries, newest first.
func (s *Store) ContextEntries() ([]ContextEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, scope, content, links, updated_at
		 FROM context_entries ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("context entries: %w", err)
	}
	defer rows.Close()

	var out []ContextEntry
	for rows.Next() {
		var e ContextEntry
		if err := rows.Scan(&e.ID, &e.Scope, &e.Content, &e.Links, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ─── Relational state ────────────────────────────────────────────────────────

// RecordFeeling stores a felt state toward a person.
func (s *Store) RecordFeeling(person, feeling, intensity string) (*Feeling, error) {
	if person == "" || feeling == "" {
		return nil, fmt.Errorf("%w: person and feeling are required", ErrInvalidArgument)
	}
	if intensity == "" {
		intensity = "present"
	}

	res, err := s.db.Exec(
		`INSERT INTO relational_state (person, feeling, intensity) VALUES (?, ?, ?)`,
		person, feeling, intensity,
	)
	if err != nil {
		return nil, fmt.Errorf("record feeling: %w", err)
	}
	id, _ := res.LastInsertId()
	return &Feeling{ID: id, Person: person, Feeling: feeling, Intensity: intensity}, nil
}

// FeelingsFor returns the recent felt states toward one person, newest first.
func (s *Store) FeelingsFor(person string, limit int) ([]Feeling, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.queryFeelings(
		`SELECT id, person, feeling, intensity, timestamp FROM relational_state
		 WHERE person = ? ORDER BY timestamp DESC, id DESC LIMIT ?`, person, limit)
}

// LatestFeelings returns the single most recent felt state per person.
func (s *Store) LatestFeelings() ([]Feeling, error) {
	return s.queryFeelings(
		`SELECT id, person, feeling, intensity, timestamp FROM relational_state r
		 WHERE id = (SELECT MAX(id) FROM relational_state WHERE person = r.person)
		 ORDER BY person`)
}

func (s *Store) queryFeelings(query string, args ...any) ([]Feeling, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query feelings: %w", err)
	}
	defer rows.Close()

	var out []Feeling
	for rows.Next() {
		var f Feeling
		if err := rows.Scan(&f.ID, &f.Person, &f.Feeling, &f.Intensity, &f.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
