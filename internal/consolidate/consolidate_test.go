package consolidate_test

import (
	"testing"

	"github.com/calebreid/mindweave/internal/consolidate"
	"github.com/calebreid/mindweave/internal/mind"
)

func obs(id int64, entity, content, weight string) mind.ObservationView {
	return mind.ObservationView{ID: id, EntityName: entity, Content: content, Weight: weight}
}

// ─── Similarity ─────────────────────────────────────────────────────────────

func TestSimilarity_IdenticalTexts(t *testing.T) {
	if sim := consolidate.Similarity("started pottery classes today", "started pottery classes today"); sim != 1.0 {
		t.Errorf("identical similarity = %v, want 1.0", sim)
	}
}

func TestSimilarity_NoSharedLongWords(t *testing.T) {
	if sim := consolidate.Similarity("quiet morning walks", "loud evening concerts"); sim != 0 {
		t.Errorf("similarity = %v, want 0", sim)
	}
}

func TestSimilarity_ShortWordsIgnored(t *testing.T) {
	// Every word is four letters or fewer on both sides.
	if sim := consolidate.Similarity("the cat sat on a mat", "the cat sat on a rug"); sim != 0 {
		t.Errorf("short-word similarity = %v, want 0", sim)
	}
}

func TestSimilarity_PartialOverlap(t *testing.T) {
	// Long words: {started, pottery, classes} vs {started, pottery, wheel-throwing}.
	// 2 shared of max 3.
	sim := consolidate.Similarity("started pottery classes", "started pottery wheel-throwing")
	want := 2.0 / 3.0
	if sim != want {
		t.Errorf("similarity = %v, want %v", sim, want)
	}
}

func TestSimilarity_CaseInsensitive(t *testing.T) {
	if sim := consolidate.Similarity("POTTERY Classes", "pottery classes"); sim != 1.0 {
		t.Errorf("case-folded similarity = %v, want 1.0", sim)
	}
}

// ─── Analyze ────────────────────────────────────────────────────────────────

func TestAnalyze_CountsAndWeights(t *testing.T) {
	window := []mind.ObservationView{
		obs(1, "maya", "started pottery classes", mind.WeightHeavy),
		obs(2, "maya", "sounded happy on the phone", mind.WeightMedium),
		obs(3, "garden", "tomatoes finally ripening", mind.WeightLight),
	}

	r := consolidate.Analyze(window)
	if r.Total != 3 || r.UniqueEntities != 2 {
		t.Errorf("Total = %d, UniqueEntities = %d", r.Total, r.UniqueEntities)
	}
	if r.Weights.Light != 1 || r.Weights.Medium != 1 || r.Weights.Heavy != 1 {
		t.Errorf("weights = %+v", r.Weights)
	}
}

func TestAnalyze_MostActiveOrdered(t *testing.T) {
	window := []mind.ObservationView{
		obs(1, "garden", "watered the beds", mind.WeightMedium),
		obs(2, "maya", "called today", mind.WeightMedium),
		obs(3, "maya", "planning a visit", mind.WeightMedium),
	}

	r := consolidate.Analyze(window)
	if len(r.MostActive) != 2 {
		t.Fatalf("most active = %d, want 2", len(r.MostActive))
	}
	if r.MostActive[0].Entity != "maya" || r.MostActive[0].Count != 2 {
		t.Errorf("top = %+v, want maya with 2", r.MostActive[0])
	}
}

func TestAnalyze_FlagsDuplicates(t *testing.T) {
	window := []mind.ObservationView{
		obs(1, "maya", "started weekly pottery classes downtown", mind.WeightMedium),
		obs(2, "maya", "started weekly pottery classes recently", mind.WeightMedium),
		obs(3, "garden", "tomatoes finally ripening", mind.WeightMedium),
	}

	r := consolidate.Analyze(window)
	if len(r.Duplicates) != 1 {
		t.Fatalf("duplicates = %d, want 1", len(r.Duplicates))
	}
	d := r.Duplicates[0]
	if d.AID != 1 || d.BID != 2 {
		t.Errorf("pair = %d/%d, want 1/2", d.AID, d.BID)
	}
	if d.Similarity <= consolidate.SimilarityThreshold {
		t.Errorf("Similarity = %v, want above threshold", d.Similarity)
	}
}

func TestAnalyze_ExactThresholdNotFlagged(t *testing.T) {
	// Long words: {walked, river, today} vs {walked, river, alone, again}.
	// 2 shared of max 4 = 0.5, which is not strictly above the threshold.
	window := []mind.ObservationView{
		obs(1, "river", "walked river today", mind.WeightMedium),
		obs(2, "river", "walked river alone again", mind.WeightMedium),
	}

	r := consolidate.Analyze(window)
	if len(r.Duplicates) != 0 {
		t.Errorf("duplicates = %+v, want none at exactly 0.5", r.Duplicates)
	}
}

func TestAnalyze_UnlinkedObservations(t *testing.T) {
	window := []mind.ObservationView{
		obs(1, "", "floating thought", mind.WeightLight),
	}

	r := consolidate.Analyze(window)
	if r.MostActive[0].Entity != "_unlinked_" {
		t.Errorf("entity = %q, want _unlinked_", r.MostActive[0].Entity)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	r := consolidate.Analyze(nil)
	if r.Total != 0 || len(r.MostActive) != 0 || len(r.Duplicates) != 0 {
		t.Errorf("empty report = %+v", r)
	}
}
