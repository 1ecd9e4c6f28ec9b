package mind

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Observation weight tags.
const (
	WeightLight  = "light"
	WeightMedium = "medium"
	WeightHeavy  = "heavy"
)

// Entity is a named node in the memory graph.
type Entity struct {
	ID        int64
	Name      string
	Type      string
	Context   string
	CreatedAt string
}

// Observation is a fact attached to an entity.
type Observation struct {
	ID        int64
	EntityID  int64
	Content   string
	Salience  string
	Emotion   string
	Weight    string
	AddedAt   string
	UpdatedAt string
}

// Relation is a directed, typed edge between entity names. Endpoints are
// weak references: they need not exist in the entities table.
type Relation struct {
	ID          int64
	From        string
	To          string
	Type        string
	FromContext string
	ToContext   string
	CreatedAt   string
}

// Journal is a dated freeform entry.
type Journal struct {
	ID        int64
	EntryDate string
	Content   string
	Tags      string
	Emotion   string
	CreatedAt string
}

// ActivityRow is one recent observation joined to its entity, as consumed
// by the subconscious scorer.
type ActivityRow struct {
	EntityName string
	EntityType string
	Context    string
	Emotion    string
}

// ObservationView is an observation joined to its entity for reporting.
type ObservationView struct {
	ID            int64
	Content       string
	Weight        string
	Emotion       string
	AddedAt       string
	EntityName    string
	EntityContext string
}

// ─── Entities ────────────────────────────────────────────────────────────────

// UpsertEntity creates an entity if the (name, context) pair does not exist
// and returns its row either way.
func (s *Store) UpsertEntity(name, entityType, context string) (*Entity, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: entity name is required", ErrInvalidArgument)
	}
	if entityType == "" {
		entityType = "concept"
	}
	if context == "" {
		context = "default"
	}

	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO entities (name, entity_type, context) VALUES (?, ?, ?)`,
		name, entityType, context,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert entity: %w", err)
	}

	var e Entity
	err = s.db.QueryRow(
		`SELECT id, name, entity_type, context, created_at
		 FROM entities WHERE name = ? AND context = ?`,
		name, context,
	).Scan(&e.ID, &e.Name, &e.Type, &e.Context, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("read entity back: %w", err)
	}
	return &e, nil
}

// GetEntity looks up an entity by name. When context is empty the most
// recently created entity with that name wins.
func (s *Store) GetEntity(name, context string) (*Entity, error) {
	query := `SELECT id, name, entity_type, context, created_at
	          FROM entities WHERE name = ?`
	args := []any{name}
	if context != "" {
		query += ` AND context = ?`
		args = append(args, context)
	}
	query += ` ORDER BY created_at DESC LIMIT 1`

	var e Entity
	err := s.db.QueryRow(query, args...).Scan(&e.ID, &e.Name, &e.Type, &e.Context, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entity %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get entity: %w", err)
	}
	return &e, nil
}

// ListEntities returns entities, optionally filtered by type and context,
// newest first.
func (s *Store) ListEntities(entityType, context string, limit int) ([]Entity, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, name, entity_type, context, created_at FROM entities WHERE 1=1`
	args := []any{}
	if entityType != "" {
		query += ` AND entity_type = ?`
		args = append(args, entityType)
	}
	if context != "" {
		query += ` AND context = ?`
		args = append(args, context)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	defer rows.Close()

	var out []Entity
	for rows.Next() {
		var e Entity
		if err := rows.Scan(&e.ID, &e.Name, &e.Type, &e.Context, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteEntity removes an entity, its observations, and every relation that
// names it on either end. Returns the number of observations removed.
func (s *Store) DeleteEntity(name, context string) (int64, error) {
	e, err := s.GetEntity(name, context)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("delete entity: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM observations WHERE entity_id = ?`, e.ID)
	if err != nil {
		return 0, fmt.Errorf("delete observations: %w", err)
	}
	removed, _ := res.RowsAffected()

	if _, err := tx.Exec(
		`DELETE FROM relations WHERE from_entity = ? OR to_entity = ?`, e.Name, e.Name,
	); err != nil {
		return 0, fmt.Errorf("delete relations: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM entities WHERE id = ?`, e.ID); err != nil {
		return 0, fmt.Errorf("delete entity row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return removed, nil
}

// ─── Observations ────────────────────────────────────────────────────────────

// AddObservation attaches an observation to an existing entity.
func (s *Store) AddObservation(entityID int64, content, emotion, weight string) (*Observation, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: observation content is required", ErrInvalidArgument)
	}
	weight = normalizeWeight(weight)

	res, err := s.db.Exec(
		`INSERT INTO observations (entity_id, content, emotion, weight) VALUES (?, ?, ?, ?)`,
		entityID, content, nullableString(emotion), weight,
	)
	if err != nil {
		return nil, fmt.Errorf("add observation: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetObservation(id)
}

// GetObservation fetches a single observation by id.
func (s *Store) GetObservation(id int64) (*Observation, error) {
	var o Observation
	var emotion, updatedAt *string
	err := s.db.QueryRow(
		`SELECT id, entity_id, content, salience, emotion, weight, added_at, updated_at
		 FROM observations WHERE id = ?`, id,
	).Scan(&o.ID, &o.EntityID, &o.Content, &o.Salience, &emotion, &o.Weight, &o.AddedAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("observation %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get observation: %w", err)
	}
	o.Emotion = derefString(emotion)
	o.UpdatedAt = derefString(updatedAt)
	return &o, nil
}

// FindObservationByText returns the most recent observation whose content
// contains the given fragment.
func (s *Store) FindObservationByText(fragment string) (*Observation, error) {
	if fragment == "" {
		return nil, fmt.Errorf("%w: text match is required", ErrInvalidArgument)
	}
	var id int64
	err := s.db.QueryRow(
		`SELECT id FROM observations WHERE content LIKE ? ORDER BY added_at DESC, id DESC LIMIT 1`,
		"%"+fragment+"%",
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("observation matching %q: %w", Truncate(fragment, 40), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find observation: %w", err)
	}
	return s.GetObservation(id)
}

// UpdateObservation applies the non-empty fields to an observation and stamps
// updated_at.
func (s *Store) UpdateObservation(id int64, content, emotion, weight string) (*Observation, error) {
	if _, err := s.GetObservation(id); err != nil {
		return nil, err
	}

	sets := []string{"updated_at = datetime('now')"}
	args := []any{}
	if content != "" {
		sets = append(sets, "content = ?")
		args = append(args, content)
	}
	if emotion != "" {
		sets = append(sets, "emotion = ?")
		args = append(args, emotion)
	}
	if weight != "" {
		sets = append(sets, "weight = ?")
		args = append(args, normalizeWeight(weight))
	}
	args = append(args, id)

	query := "UPDATE observations SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := s.db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("update observation: %w", err)
	}
	return s.GetObservation(id)
}

// DeleteObservation removes an observation by id.
func (s *Store) DeleteObservation(id int64) error {
	res, err := s.db.Exec(`DELETE FROM observations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete observation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("observation %d: %w", id, ErrNotFound)
	}
	return nil
}

// EntityNameFor resolves an observation's owning entity name and context.
func (s *Store) EntityNameFor(entityID int64) (name, context string, err error) {
	err = s.db.QueryRow(
		`SELECT name, context FROM entities WHERE id = ?`, entityID,
	).Scan(&name, &context)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", fmt.Errorf("entity %d: %w", entityID, ErrNotFound)
	}
	return name, context, err
}

// ObservationsFor returns an entity's observations, newest first.
func (s *Store) ObservationsFor(entityID int64) ([]Observation, error) {
	rows, err := s.db.Query(
		`SELECT id, entity_id, content, salience, emotion, weight, added_at, updated_at
		 FROM observations WHERE entity_id = ? ORDER BY added_at DESC, id DESC`, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("observations for entity: %w", err)
	}
	defer rows.Close()

	var out []Observation
	for rows.Next() {
		var o Observation
		var emotion, updatedAt *string
		if err := rows.Scan(&o.ID, &o.EntityID, &o.Content, &o.Salience, &emotion,
			&o.Weight, &o.AddedAt, &updatedAt); err != nil {
			return nil, err
		}
		o.Emotion = derefString(emotion)
		o.UpdatedAt = derefString(updatedAt)
		out = append(out, o)
	}
	return out, rows.Err()
}

// ─── Relations ───────────────────────────────────────────────────────────────

// AddRelation records a directed edge. Endpoint names are not validated
// against the entities table.
func (s *Store) AddRelation(from, to, relType, fromContext, toContext string) (*Relation, error) {
	if from == "" || to == "" || relType == "" {
		return nil, fmt.Errorf("%w: from, to, and relation_type are required", ErrInvalidArgument)
	}
	if fromContext == "" {
		fromContext = "default"
	}
	if toContext == "" {
		toContext = "default"
	}

	res, err := s.db.Exec(
		`INSERT INTO relations (from_entity, to_entity, relation_type, from_context, to_context)
		 VALUES (?, ?, ?, ?, ?)`,
		from, to, relType, fromContext, toContext,
	)
	if err != nil {
		return nil, fmt.Errorf("add relation: %w", err)
	}
	id, _ := res.LastInsertId()
	return &Relation{ID: id, From: from, To: to, Type: relType,
		FromContext: fromContext, ToContext: toContext}, nil
}

// AllRelations returns every relation row.
func (s *Store) AllRelations() ([]Relation, error) {
	return s.queryRelations(
		`SELECT id, from_entity, to_entity, relation_type, from_context, to_context, created_at
		 FROM relations ORDER BY id`)
}

// RelationsFrom returns relations originating at the named entity.
func (s *Store) RelationsFrom(name string) ([]Relation, error) {
	return s.queryRelations(
		`SELECT id, from_entity, to_entity, relation_type, from_context, to_context, created_at
		 FROM relations WHERE from_entity = ? ORDER BY id`, name)
}

// RelationsTo returns relations pointing at the named entity.
func (s *Store) RelationsTo(name string) ([]Relation, error) {
	return s.queryRelations(
		`SELECT id, from_entity, to_entity, relation_type, from_context, to_context, created_at
		 FROM relations WHERE to_entity = ? ORDER BY id`, name)
}

func (s *Store) queryRelations(query string, args ...any) ([]Relation, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query relations: %w", err)
	}
	defer rows.Close()

	var out []Relation
	for rows.Next() {
		var r Relation
		if err := rows.Scan(&r.ID, &r.From, &r.To, &r.Type,
			&r.FromContext, &r.ToContext, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ─── Journals ────────────────────────────────────────────────────────────────

// AddJournal records a dated journal entry. Tags is a JSON array string.
func (s *Store) AddJournal(entryDate, content, tags, emotion string) (*Journal, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: journal content is required", ErrInvalidArgument)
	}
	if entryDate == "" {
		entryDate = Now()[:10]
	}
	if tags == "" {
		tags = "[]"
	}

	res, err := s.db.Exec(
		`INSERT INTO journals (entry_date, content, tags, emotion) VALUES (?, ?, ?, ?)`,
		entryDate, content, tags, nullableString(emotion),
	)
	if err != nil {
		return nil, fmt.Errorf("add journal: %w", err)
	}
	id, _ := res.LastInsertId()
	return &Journal{ID: id, EntryDate: entryDate, Content: content, Tags: tags, Emotion: emotion}, nil
}

// RecentJournals returns the latest journal entries, newest first.
func (s *Store) RecentJournals(limit int) ([]Journal, error) {
	if limit <= 0 {
		limit = 3
	}
	rows, err := s.db.Query(
		`SELECT id, entry_date, content, tags, emotion, created_at
		 FROM journals ORDER BY entry_date DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent journals: %w", err)
	}
	defer rows.Close()

	var out []Journal
	for rows.Next() {
		var j Journal
		var emotion *string
		if err := rows.Scan(&j.ID, &j.EntryDate, &j.Content, &j.Tags, &emotion, &j.CreatedAt); err != nil {
			return nil, err
		}
		j.Emotion = derefString(emotion)
		out = append(out, j)
	}
	return out, rows.Err()
}

// ─── Activity queries ────────────────────────────────────────────────────────

// RecentActivity returns observations inside the recency window joined to
// their entities, as input for the subconscious scorer.
func (s *Store) RecentActivity() ([]ActivityRow, error) {
	rows, err := s.db.Query(
		`SELECT e.name, e.entity_type, e.context, COALESCE(o.emotion, '')
		 FROM observations o
		 JOIN entities e ON e.id = o.entity_id
		 WHERE o.added_at > datetime('now', ?)
		 ORDER BY o.added_at DESC`,
		windowExpression(s.cfg.RecencyWindow),
	)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	defer rows.Close()

	var out []ActivityRow
	for rows.Next() {
		var a ActivityRow
		if err := rows.Scan(&a.EntityName, &a.EntityType, &a.Context, &a.Emotion); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ObservationsSince returns observations added within the last N days,
// optionally limited to one context.
func (s *Store) ObservationsSince(days int, context string) ([]ObservationView, error) {
	if days <= 0 {
		days = s.cfg.ConsolidateWindowDays
	}
	query := `SELECT o.id, o.content, o.weight, COALESCE(o.emotion, ''), o.added_at, e.name, e.context
	          FROM observations o
	          JOIN entities e ON e.id = o.entity_id
	          WHERE o.added_at > datetime('now', ?)`
	args := []any{fmt.Sprintf("-%d days", days)}
	if context != "" {
		query += ` AND e.context = ?`
		args = append(args, context)
	}
	query += ` ORDER BY o.added_at DESC, o.id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("observations since: %w", err)
	}
	defer rows.Close()

	var out []ObservationView
	for rows.Next() {
		var v ObservationView
		if err := rows.Scan(&v.ID, &v.Content, &v.Weight, &v.Emotion, &v.AddedAt,
			&v.EntityName, &v.EntityContext); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// RandomObservations returns up to limit observations in random order,
// optionally filtered by context, heavy/medium weight, or entity names.
func (s *Store) RandomObservations(limit int, context string, weightBias bool, entityNames []string) ([]ObservationView, error) {
	if limit <= 0 {
		limit = 3
	}
	query := `SELECT o.id, o.content, o.weight, COALESCE(o.emotion, ''), o.added_at, e.name, e.context
	          FROM observations o
	          JOIN entities e ON e.id = o.entity_id
	          WHERE 1=1`
	args := []any{}
	if context != "" {
		query += ` AND e.context = ?`
		args = append(args, context)
	}
	if weightBias {
		query += ` AND o.weight IN ('heavy', 'medium')`
	}
	if len(entityNames) > 0 {
		placeholders := strings.Repeat("?,", len(entityNames))
		query += ` AND e.name IN (` + placeholders[:len(placeholders)-1] + `)`
		for _, n := range entityNames {
			args = append(args, n)
		}
	}
	query += ` ORDER BY RANDOM() LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("random observations: %w", err)
	}
	defer rows.Close()

	var out []ObservationView
	for rows.Next() {
		var v ObservationView
		if err := rows.Scan(&v.ID, &v.Content, &v.Weight, &v.Emotion, &v.AddedAt,
			&v.EntityName, &v.EntityContext); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// TextResult is one literal-search hit from observations or journals.
type TextResult struct {
	Source  string // "observation" or "journal"
	Entity  string // entity name, or entry date for journals
	Content string
	Emotion string
	AddedAt string
}

// TextFallback performs a case-insensitive LIKE search across observation and
// journal content, newest first.
func (s *Store) TextFallback(query string, limit int) ([]TextResult, error) {
	if limit <= 0 {
		limit = s.cfg.MaxSearchResults
	}
	pattern := "%" + query + "%"
	rows, err := s.db.Query(
		`SELECT 'observation' AS source, e.name, o.content, COALESCE(o.emotion, ''), o.added_at
		 FROM observations o JOIN entities e ON e.id = o.entity_id
		 WHERE o.content LIKE ?
		 UNION ALL
		 SELECT 'journal', j.entry_date, j.content, COALESCE(j.emotion, ''), j.created_at
		 FROM journals j WHERE j.content LIKE ?
		 ORDER BY 5 DESC LIMIT ?`,
		pattern, pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}
	defer rows.Close()

	var out []TextResult
	for rows.Next() {
		var r TextResult
		if err := rows.Scan(&r.Source, &r.Entity, &r.Content, &r.Emotion, &r.AddedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
