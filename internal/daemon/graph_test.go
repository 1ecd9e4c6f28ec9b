package daemon_test

import (
	"reflect"
	"testing"

	"github.com/calebreid/mindweave/internal/daemon"
	"github.com/calebreid/mindweave/internal/mind"
)

func rel(from, to, relType string) mind.Relation {
	return mind.Relation{From: from, To: to, Type: relType}
}

// ─── Clusters ───────────────────────────────────────────────────────────────

func TestAnalyzeGraph_TwoComponents(t *testing.T) {
	relations := []mind.Relation{
		rel("alice", "bob", "knows"),
		rel("bob", "carol", "knows"),
		rel("dave", "erin", "likes"),
	}

	g := daemon.AnalyzeGraph(relations)

	if g.Stats.Nodes != 5 || g.Stats.Edges != 3 || g.Stats.Clusters != 2 {
		t.Fatalf("stats = %+v", g.Stats)
	}

	// Largest cluster first.
	first := g.Clusters[0]
	if !reflect.DeepEqual(first.Entities, []string{"alice", "bob", "carol"}) {
		t.Errorf("first cluster = %v", first.Entities)
	}
	// 2 internal edges of a possible 3.
	if first.Density != 0.67 {
		t.Errorf("density = %v, want 0.67", first.Density)
	}

	second := g.Clusters[1]
	if !reflect.DeepEqual(second.Entities, []string{"dave", "erin"}) {
		t.Errorf("second cluster = %v", second.Entities)
	}
	if second.Density != 1.0 {
		t.Errorf("pair density = %v, want 1.0", second.Density)
	}
}

func TestAnalyzeGraph_TriangleDensity(t *testing.T) {
	g := daemon.AnalyzeGraph([]mind.Relation{
		rel("a", "b", "knows"),
		rel("b", "c", "knows"),
		rel("a", "c", "knows"),
	})
	if len(g.Clusters) != 1 {
		t.Fatalf("clusters = %d, want 1", len(g.Clusters))
	}
	if g.Clusters[0].Density != 1.0 {
		t.Errorf("triangle density = %v, want 1.0", g.Clusters[0].Density)
	}
}

func TestAnalyzeGraph_ReciprocalEdgesCountOnce(t *testing.T) {
	// Two relations between the same pair are one undirected edge: a pair
	// can never exceed full density.
	g := daemon.AnalyzeGraph([]mind.Relation{
		rel("a", "b", "knows"),
		rel("b", "a", "likes"),
	})
	if len(g.Clusters) != 1 {
		t.Fatalf("clusters = %d, want 1", len(g.Clusters))
	}
	if g.Clusters[0].Density != 1.0 {
		t.Errorf("reciprocal pair density = %v, want 1.0", g.Clusters[0].Density)
	}
}

func TestAnalyzeGraph_ParallelEdgesCountOnce(t *testing.T) {
	// a-b carries two relation types, b-c one: still 2 of 3 possible
	// undirected edges.
	g := daemon.AnalyzeGraph([]mind.Relation{
		rel("a", "b", "knows"),
		rel("a", "b", "works_with"),
		rel("b", "c", "knows"),
	})
	if g.Clusters[0].Density != 0.67 {
		t.Errorf("density = %v, want 0.67", g.Clusters[0].Density)
	}
}

func TestAnalyzeGraph_EmptyInput(t *testing.T) {
	g := daemon.AnalyzeGraph(nil)
	if g.Stats.Nodes != 0 || len(g.Clusters) != 0 || len(g.CentralNodes) != 0 {
		t.Errorf("empty graph analysis = %+v", g)
	}
}

func TestAnalyzeGraph_Deterministic(t *testing.T) {
	relations := []mind.Relation{
		rel("zoe", "adam", "knows"),
		rel("adam", "mira", "works_with"),
		rel("mira", "zoe", "knows"),
		rel("pat", "quinn", "likes"),
	}

	first := daemon.AnalyzeGraph(relations)
	second := daemon.AnalyzeGraph(relations)

	if !reflect.DeepEqual(first.Clusters, second.Clusters) {
		t.Errorf("cluster output differs between runs:\n%+v\n%+v", first.Clusters, second.Clusters)
	}
	if !reflect.DeepEqual(first.CentralNodes, second.CentralNodes) {
		t.Errorf("central nodes differ between runs")
	}
}

// ─── Centrality and patterns ────────────────────────────────────────────────

func TestAnalyzeGraph_CentralNodes(t *testing.T) {
	g := daemon.AnalyzeGraph([]mind.Relation{
		rel("alice", "bob", "knows"),
		rel("bob", "carol", "knows"),
	})

	bob := g.CentralNodes[0]
	if bob.Name != "bob" || bob.Connections != 2 {
		t.Errorf("top central = %+v, want bob with 2", bob)
	}
	if bob.Outgoing != 1 || bob.Incoming != 1 {
		t.Errorf("bob outgoing/incoming = %d/%d, want 1/1", bob.Outgoing, bob.Incoming)
	}
	if !reflect.DeepEqual(bob.RelationTypes, []string{"knows"}) {
		t.Errorf("bob relation types = %v", bob.RelationTypes)
	}
	if g.Connectivity["bob"] != 2 || g.Connectivity["alice"] != 1 {
		t.Errorf("connectivity = %v", g.Connectivity)
	}
}

func TestAnalyzeGraph_RelationPatterns(t *testing.T) {
	g := daemon.AnalyzeGraph([]mind.Relation{
		rel("a", "b", "knows"),
		rel("c", "d", "knows"),
		rel("e", "f", "likes"),
	})

	if g.RelationPatterns[0].Type != "knows" || g.RelationPatterns[0].Count != 2 {
		t.Errorf("top pattern = %+v", g.RelationPatterns[0])
	}
}
