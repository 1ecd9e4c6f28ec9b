package mind_test

import (
	"errors"
	"testing"

	"github.com/calebreid/mindweave/internal/mind"
)

// ─── Charge derivation ──────────────────────────────────────────────────────

func TestChargeForSitCount(t *testing.T) {
	cases := []struct {
		sits int
		want string
	}{
		{0, mind.ChargeFresh},
		{1, mind.ChargeActive},
		{2, mind.ChargeActive},
		{3, mind.ChargeProcessing},
		{7, mind.ChargeProcessing},
	}
	for _, c := range cases {
		if got := mind.ChargeForSitCount(c.sits); got != c.want {
			t.Errorf("ChargeForSitCount(%d) = %q, want %q", c.sits, got, c.want)
		}
	}
}

// ─── Sitting ────────────────────────────────────────────────────────────────

func TestSitNote_AdvancesCharge(t *testing.T) {
	s := newTestStore(t)
	n, err := s.CreateNote("the conversation left a mark", mind.WeightHeavy, "tender")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if n.Charge != mind.ChargeFresh {
		t.Fatalf("new note charge = %q, want fresh", n.Charge)
	}

	n, _ = s.SitNote(n.ID, "it keeps coming back")
	if n.Charge != mind.ChargeActive || n.SitCount != 1 {
		t.Errorf("after sit 1: charge=%q sits=%d", n.Charge, n.SitCount)
	}

	n, _ = s.SitNote(n.ID, "starting to see the shape of it")
	if n.Charge != mind.ChargeActive || n.SitCount != 2 {
		t.Errorf("after sit 2: charge=%q sits=%d", n.Charge, n.SitCount)
	}

	n, _ = s.SitNote(n.ID, "almost through")
	if n.Charge != mind.ChargeProcessing || n.SitCount != 3 {
		t.Errorf("after sit 3: charge=%q sits=%d", n.Charge, n.SitCount)
	}

	sits, _ := s.NoteSits(n.ID)
	if len(sits) != 3 {
		t.Errorf("sit history = %d entries, want 3", len(sits))
	}
}

func TestSitNote_EmptyReflectionRejected(t *testing.T) {
	s := newTestStore(t)
	n, _ := s.CreateNote("something", "", "")
	if _, err := s.SitNote(n.ID, ""); !errors.Is(err, mind.ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}

// ─── Resolution ─────────────────────────────────────────────────────────────

func TestResolveNote_Metabolizes(t *testing.T) {
	s := newTestStore(t)
	n, _ := s.CreateNote("unfinished argument", mind.WeightMedium, "intensity")

	resolved, err := s.ResolveNote(n.ID, "we talked it through", 0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Charge != mind.ChargeMetabolized {
		t.Errorf("charge = %q, want metabolized", resolved.Charge)
	}
	if resolved.ResolutionNote != "we talked it through" {
		t.Errorf("resolution = %q", resolved.ResolutionNote)
	}
	if resolved.ResolvedAt == "" {
		t.Error("ResolvedAt not stamped")
	}
}

func TestSitNote_MetabolizedStaysMetabolized(t *testing.T) {
	s := newTestStore(t)
	n, _ := s.CreateNote("old wound", mind.WeightHeavy, "")
	s.SitNote(n.ID, "first pass")
	s.ResolveNote(n.ID, "healed over", 0)

	// Sitting again grows the history but never revives the charge.
	after, err := s.SitNote(n.ID, "checking in on it")
	if err != nil {
		t.Fatalf("sit after resolve: %v", err)
	}
	if after.Charge != mind.ChargeMetabolized {
		t.Errorf("charge = %q, want metabolized to be terminal", after.Charge)
	}
	if after.SitCount != 2 {
		t.Errorf("SitCount = %d, want 2", after.SitCount)
	}
	sits, _ := s.NoteSits(n.ID)
	if len(sits) != 2 {
		t.Errorf("history = %d entries, want 2", len(sits))
	}
}

// ─── Surfacing ──────────────────────────────────────────────────────────────

func TestSurfaceNotes_Ordering(t *testing.T) {
	s := newTestStore(t)

	light, _ := s.CreateNote("light fresh", mind.WeightLight, "")
	heavyProcessing, _ := s.CreateNote("heavy processed", mind.WeightHeavy, "")
	for i := 0; i < 3; i++ {
		s.SitNote(heavyProcessing.ID, "sit")
	}
	heavyFresh, _ := s.CreateNote("heavy fresh", mind.WeightHeavy, "")
	mediumFresh, _ := s.CreateNote("medium fresh", mind.WeightMedium, "")

	notes, err := s.SurfaceNotes(10, false)
	if err != nil {
		t.Fatalf("surface: %v", err)
	}
	wantOrder := []int64{heavyFresh.ID, heavyProcessing.ID, mediumFresh.ID, light.ID}
	if len(notes) != len(wantOrder) {
		t.Fatalf("surfaced %d notes, want %d", len(notes), len(wantOrder))
	}
	for i, want := range wantOrder {
		if notes[i].ID != want {
			t.Errorf("position %d = #%d, want #%d", i, notes[i].ID, want)
		}
	}
}

func TestSurfaceNotes_ExcludesMetabolizedByDefault(t *testing.T) {
	s := newTestStore(t)
	n, _ := s.CreateNote("done with this", "", "")
	s.ResolveNote(n.ID, "released", 0)
	s.CreateNote("still holding", "", "")

	notes, _ := s.SurfaceNotes(10, false)
	if len(notes) != 1 || notes[0].Content != "still holding" {
		t.Errorf("notes = %+v, want only the unresolved one", notes)
	}

	all, _ := s.SurfaceNotes(10, true)
	if len(all) != 2 {
		t.Errorf("with metabolized included = %d, want 2", len(all))
	}
}

func TestFindNoteByText(t *testing.T) {
	s := newTestStore(t)
	s.CreateNote("about the garden", "", "")
	latest, _ := s.CreateNote("more about the garden fence", "", "")

	found, err := s.FindNoteByText("garden")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != latest.ID {
		t.Errorf("found #%d, want latest #%d", found.ID, latest.ID)
	}
}
