package mind_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/calebreid/mindweave/internal/mind"
)

// newTestStore creates a Store backed by a temp directory for isolation.
func newTestStore(t *testing.T) *mind.Store {
	t.Helper()
	cfg := mind.Config{
		DataDir:               t.TempDir(),
		RecencyWindow:         48 * time.Hour,
		ConsolidateWindowDays: 7,
		DaemonInterval:        time.Hour,
		MaxSearchResults:      10,
	}
	s, err := mind.New(cfg)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ─── New / Initialization ───────────────────────────────────────────────────

func TestNew_IdempotentReopen(t *testing.T) {
	dir := t.TempDir()
	cfg := mind.Config{
		DataDir:               dir,
		RecencyWindow:         48 * time.Hour,
		ConsolidateWindowDays: 7,
		DaemonInterval:        time.Hour,
		MaxSearchResults:      10,
	}

	s1, err := mind.New(cfg)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := s1.UpsertEntity("river", "concept", "personal"); err != nil {
		t.Fatalf("upsert entity: %v", err)
	}
	s1.Close()

	s2, err := mind.New(cfg)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s2.Close()

	e, err := s2.GetEntity("river", "personal")
	if err != nil {
		t.Fatalf("entity not found after reopen: %v", err)
	}
	if e.Type != "concept" {
		t.Errorf("Type = %q, want %q", e.Type, "concept")
	}

	if _, err := filepath.Abs(filepath.Join(dir, "mind.db")); err != nil {
		t.Fatal(err)
	}
}

// ─── Entities ───────────────────────────────────────────────────────────────

func TestUpsertEntity_SameNameContextReturnsSameRow(t *testing.T) {
	s := newTestStore(t)

	e1, err := s.UpsertEntity("maya", "person", "personal")
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	e2, err := s.UpsertEntity("maya", "person", "personal")
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if e1.ID != e2.ID {
		t.Errorf("upsert created a new row: %d vs %d", e1.ID, e2.ID)
	}
}

func TestUpsertEntity_DistinctContexts(t *testing.T) {
	s := newTestStore(t)

	e1, _ := s.UpsertEntity("maya", "person", "personal")
	e2, err := s.UpsertEntity("maya", "person", "work")
	if err != nil {
		t.Fatalf("work-context upsert: %v", err)
	}
	if e1.ID == e2.ID {
		t.Error("contexts should create distinct entities")
	}
}

func TestUpsertEntity_EmptyNameRejected(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.UpsertEntity("", "person", ""); !errors.Is(err, mind.ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}

func TestGetEntity_NotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetEntity("ghost", ""); !errors.Is(err, mind.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestListEntities_FilterByType(t *testing.T) {
	s := newTestStore(t)
	s.UpsertEntity("maya", "person", "personal")
	s.UpsertEntity("garden", "project", "personal")

	people, err := s.ListEntities("person", "", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(people) != 1 || people[0].Name != "maya" {
		t.Errorf("people = %+v, want just maya", people)
	}
}

func TestDeleteEntity_Cascades(t *testing.T) {
	s := newTestStore(t)
	e, _ := s.UpsertEntity("maya", "person", "personal")
	s.AddObservation(e.ID, "loves rain", "", "")
	s.AddObservation(e.ID, "moved to portland", "", "")
	s.AddRelation("maya", "garden", "tends", "", "")
	s.AddRelation("river", "maya", "flows_past", "", "")

	removed, err := s.DeleteEntity("maya", "personal")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	rels, _ := s.AllRelations()
	if len(rels) != 0 {
		t.Errorf("relations naming the entity should be gone, got %d", len(rels))
	}
	if _, err := s.GetEntity("maya", "personal"); !errors.Is(err, mind.ErrNotFound) {
		t.Errorf("entity still present after delete: %v", err)
	}
}

// ─── Observations ───────────────────────────────────────────────────────────

func TestAddObservation_DefaultsWeightMedium(t *testing.T) {
	s := newTestStore(t)
	e, _ := s.UpsertEntity("maya", "person", "")

	o, err := s.AddObservation(e.ID, "started pottery classes", "joy", "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if o.Weight != mind.WeightMedium {
		t.Errorf("Weight = %q, want medium", o.Weight)
	}
	if o.Emotion != "joy" {
		t.Errorf("Emotion = %q, want joy", o.Emotion)
	}
}

func TestAddObservation_UnknownWeightNormalized(t *testing.T) {
	s := newTestStore(t)
	e, _ := s.UpsertEntity("maya", "person", "")

	o, _ := s.AddObservation(e.ID, "something", "", "enormous")
	if o.Weight != mind.WeightMedium {
		t.Errorf("Weight = %q, want medium for unknown input", o.Weight)
	}
}

func TestFindObservationByText_PicksLatest(t *testing.T) {
	s := newTestStore(t)
	e, _ := s.UpsertEntity("maya", "person", "")
	s.AddObservation(e.ID, "pottery class was hard", "", "")
	second, _ := s.AddObservation(e.ID, "pottery class got easier", "", "")

	found, err := s.FindObservationByText("pottery")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != second.ID {
		t.Errorf("found #%d, want latest #%d", found.ID, second.ID)
	}
}

func TestUpdateObservation_PartialFields(t *testing.T) {
	s := newTestStore(t)
	e, _ := s.UpsertEntity("maya", "person", "")
	o, _ := s.AddObservation(e.ID, "original", "tender", mind.WeightLight)

	updated, err := s.UpdateObservation(o.ID, "", "", mind.WeightHeavy)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Content != "original" {
		t.Errorf("Content changed unexpectedly: %q", updated.Content)
	}
	if updated.Weight != mind.WeightHeavy {
		t.Errorf("Weight = %q, want heavy", updated.Weight)
	}
	if updated.Emotion != "tender" {
		t.Errorf("Emotion = %q, want tender", updated.Emotion)
	}
	if updated.UpdatedAt == "" {
		t.Error("UpdatedAt not stamped")
	}
}

func TestDeleteObservation_NotFound(t *testing.T) {
	s := newTestStore(t)
	if err := s.DeleteObservation(999); !errors.Is(err, mind.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// ─── Relations ──────────────────────────────────────────────────────────────

func TestAddRelation_WeakReferences(t *testing.T) {
	s := newTestStore(t)

	// Neither endpoint exists as an entity; the edge is still recorded.
	r, err := s.AddRelation("maya", "garden", "tends", "", "")
	if err != nil {
		t.Fatalf("add relation: %v", err)
	}
	if r.From != "maya" || r.To != "garden" || r.Type != "tends" {
		t.Errorf("relation = %+v", r)
	}

	from, _ := s.RelationsFrom("maya")
	if len(from) != 1 {
		t.Errorf("RelationsFrom = %d rows, want 1", len(from))
	}
	to, _ := s.RelationsTo("garden")
	if len(to) != 1 {
		t.Errorf("RelationsTo = %d rows, want 1", len(to))
	}
}

func TestAddRelation_MissingFieldsRejected(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.AddRelation("maya", "", "tends", "", ""); !errors.Is(err, mind.ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}

// ─── Journals ───────────────────────────────────────────────────────────────

func TestAddJournal_DefaultsDateAndTags(t *testing.T) {
	s := newTestStore(t)

	j, err := s.AddJournal("", "a long walk in the rain", "", "melancholy")
	if err != nil {
		t.Fatalf("add journal: %v", err)
	}
	if j.EntryDate == "" {
		t.Error("EntryDate not defaulted")
	}
	if j.Tags != "[]" {
		t.Errorf("Tags = %q, want []", j.Tags)
	}

	recent, _ := s.RecentJournals(3)
	if len(recent) != 1 || recent[0].Emotion != "melancholy" {
		t.Errorf("recent = %+v", recent)
	}
}

// ─── Activity queries ───────────────────────────────────────────────────────

func TestRecentActivity_JoinsEntityFields(t *testing.T) {
	s := newTestStore(t)
	e, _ := s.UpsertEntity("maya", "person", "personal")
	s.AddObservation(e.ID, "called today", "joy", "")
	s.AddObservation(e.ID, "sounded tired", "", "")

	rows, err := s.RecentActivity()
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	for _, r := range rows {
		if r.EntityName != "maya" || r.Context != "personal" {
			t.Errorf("row = %+v", r)
		}
	}
}

func TestTextFallback_SearchesObservationsAndJournals(t *testing.T) {
	s := newTestStore(t)
	e, _ := s.UpsertEntity("maya", "person", "")
	s.AddObservation(e.ID, "maya started pottery", "", "")
	s.AddJournal("2026-08-20", "thought about pottery all day", "", "")

	hits, err := s.TextFallback("pottery", 10)
	if err != nil {
		t.Fatalf("fallback: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2", len(hits))
	}
	sources := map[string]bool{}
	for _, h := range hits {
		sources[h.Source] = true
	}
	if !sources["observation"] || !sources["journal"] {
		t.Errorf("sources = %v, want both kinds", sources)
	}
}

func TestRandomObservations_RespectsEntityFilter(t *testing.T) {
	s := newTestStore(t)
	maya, _ := s.UpsertEntity("maya", "person", "")
	river, _ := s.UpsertEntity("river", "place", "")
	s.AddObservation(maya.ID, "obs one", "", "")
	s.AddObservation(river.ID, "obs two", "", "")

	got, err := s.RandomObservations(10, "", false, []string{"maya"})
	if err != nil {
		t.Fatalf("random: %v", err)
	}
	if len(got) != 1 || got[0].EntityName != "maya" {
		t.Errorf("got = %+v, want only maya's observation", got)
	}
}

// ─── Health counts ──────────────────────────────────────────────────────────

func TestCounts_Aggregates(t *testing.T) {
	s := newTestStore(t)
	e, _ := s.UpsertEntity("maya", "person", "")
	s.AddObservation(e.ID, "one", "", "")
	s.AddJournal("", "entry", "", "")
	s.AddThread("intention", "write more", "", "high")
	s.CreateNote("a heavy thing", mind.WeightHeavy, "")

	c, err := s.Counts()
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if c.Entities != 1 || c.Observations != 1 || c.Journals != 1 {
		t.Errorf("counts = %+v", c)
	}
	if c.ActiveThreads != 1 {
		t.Errorf("ActiveThreads = %d, want 1", c.ActiveThreads)
	}
	if c.ActiveNotes != 1 || c.MetabolizedNotes != 0 {
		t.Errorf("notes = %d active / %d metabolized", c.ActiveNotes, c.MetabolizedNotes)
	}
	if c.RecentObs != 1 {
		t.Errorf("RecentObs = %d, want 1", c.RecentObs)
	}
	if c.JournalsRecent != 1 {
		t.Errorf("JournalsRecent = %d, want 1", c.JournalsRecent)
	}
}

// ─── Snapshot row ───────────────────────────────────────────────────────────

func TestSaveSnapshot_UpsertAndLoad(t *testing.T) {
	s := newTestStore(t)

	applied, err := s.SaveSnapshot("daemon", 100, `{"v":1}`)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !applied {
		t.Error("first write should apply")
	}

	row, err := s.LoadSnapshot()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if row.RunID != 100 || row.Data != `{"v":1}` {
		t.Errorf("row = %+v", row)
	}
}

func TestSaveSnapshot_StaleRunRejected(t *testing.T) {
	s := newTestStore(t)
	s.SaveSnapshot("daemon", 200, `{"v":2}`)

	applied, err := s.SaveSnapshot("daemon", 150, `{"v":1}`)
	if err != nil {
		t.Fatalf("stale save: %v", err)
	}
	if applied {
		t.Error("stale run id should be rejected")
	}

	row, _ := s.LoadSnapshot()
	if row.RunID != 200 {
		t.Errorf("RunID = %d, want 200 to survive", row.RunID)
	}
}

func TestLoadSnapshot_EmptyIsNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.LoadSnapshot(); !errors.Is(err, mind.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
