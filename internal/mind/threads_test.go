package mind_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/calebreid/mindweave/internal/mind"
)

// ─── Threads ────────────────────────────────────────────────────────────────

func TestAddThread_GeneratesPrefixedID(t *testing.T) {
	s := newTestStore(t)

	th, err := s.AddThread("", "finish the essay", "", "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.HasPrefix(th.ID, "thread-") {
		t.Errorf("ID = %q, want thread- prefix", th.ID)
	}
	if th.Type != "intention" || th.Priority != "medium" || th.Status != "active" {
		t.Errorf("defaults = %+v", th)
	}
}

func TestAddThread_EmptyContentRejected(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.AddThread("", "", "", ""); !errors.Is(err, mind.ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}

func TestListThreads_PriorityOrder(t *testing.T) {
	s := newTestStore(t)
	s.AddThread("", "low priority thing", "", "low")
	s.AddThread("", "urgent thing", "", "high")
	s.AddThread("", "normal thing", "", "medium")

	threads, err := s.ListThreads("active")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(threads) != 3 {
		t.Fatalf("count = %d, want 3", len(threads))
	}
	if threads[0].Priority != "high" || threads[1].Priority != "medium" || threads[2].Priority != "low" {
		t.Errorf("order = %s, %s, %s", threads[0].Priority, threads[1].Priority, threads[2].Priority)
	}
}

func TestResolveThread(t *testing.T) {
	s := newTestStore(t)
	th, _ := s.AddThread("", "call maya back", "", "")

	resolved, err := s.ResolveThread(th.ID, "we talked for an hour")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Status != "resolved" || resolved.Resolution != "we talked for an hour" {
		t.Errorf("resolved = %+v", resolved)
	}
	if resolved.ResolvedAt == "" {
		t.Error("ResolvedAt not stamped")
	}

	active, _ := s.ListThreads("active")
	if len(active) != 0 {
		t.Errorf("active = %d, want 0", len(active))
	}
}

func TestResolveThread_NotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.ResolveThread("thread-missing", ""); !errors.Is(err, mind.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestUpdateThread_PartialFields(t *testing.T) {
	s := newTestStore(t)
	th, _ := s.AddThread("", "original", "", "low")

	updated, err := s.UpdateThread(th.ID, "", "high", "")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Content != "original" || updated.Priority != "high" {
		t.Errorf("updated = %+v", updated)
	}
}

// ─── Identity ───────────────────────────────────────────────────────────────

func TestIdentity_WriteAndReadByWeight(t *testing.T) {
	s := newTestStore(t)
	s.AddIdentity("values", "honesty over comfort", 0.9, "")
	s.AddIdentity("voice", "plain words", 0.5, "")

	entries, err := s.IdentityEntries("")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("count = %d, want 2", len(entries))
	}
	if entries[0].Section != "values" {
		t.Errorf("heaviest first: got %q", entries[0].Section)
	}

	voice, _ := s.IdentityEntries("voice")
	if len(voice) != 1 || voice[0].Content != "plain words" {
		t.Errorf("section filter = %+v", voice)
	}
}

func TestAddIdentity_DefaultWeight(t *testing.T) {
	s := newTestStore(t)
	e, _ := s.AddIdentity("core", "keeps showing up", 0, "")
	if e.Weight != 0.7 {
		t.Errorf("Weight = %v, want 0.7 default", e.Weight)
	}
}

// ─── Context layer ──────────────────────────────────────────────────────────

func TestContextEntries_SetUpdateClear(t *testing.T) {
	s := newTestStore(t)

	e, err := s.SetContextEntry("session", "drafting the essay", "")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if !strings.HasPrefix(e.ID, "ctx-") {
		t.Errorf("ID = %q, want ctx- prefix", e.ID)
	}

	updated, err := s.UpdateContextEntry(e.ID, "essay draft done, editing now")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Content != "essay draft done, editing now" {
		t.Errorf("Content = %q", updated.Content)
	}

	s.SetContextEntry("project", "garden redesign", "")
	n, err := s.ClearContext("session")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n != 1 {
		t.Errorf("cleared = %d, want 1", n)
	}
	rest, _ := s.ContextEntries()
	if len(rest) != 1 || rest[0].Scope != "project" {
		t.Errorf("rest = %+v", rest)
	}
}

func TestUpdateContextEntry_NotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.UpdateContextEntry("ctx-missing", "x"); !errors.Is(err, mind.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// ─── Relational state ───────────────────────────────────────────────────────

func TestFeelings_RecordAndLatestPerPerson(t *testing.T) {
	s := newTestStore(t)
	s.RecordFeeling("maya", "gratitude", "")
	s.RecordFeeling("maya", "tender", "strong")
	s.RecordFeeling("sam", "curiosity", "faint")

	latest, err := s.LatestFeelings()
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(latest) != 2 {
		t.Fatalf("count = %d, want one per person", len(latest))
	}
	byPerson := map[string]string{}
	for _, f := range latest {
		byPerson[f.Person] = f.Feeling
	}
	if byPerson["maya"] != "tender" {
		t.Errorf("maya = %q, want most recent feeling", byPerson["maya"])
	}

	history, _ := s.FeelingsFor("maya", 5)
	if len(history) != 2 {
		t.Errorf("history = %d, want 2", len(history))
	}
}
