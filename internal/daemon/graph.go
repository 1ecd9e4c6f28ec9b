// Package daemon implements the subconscious background process: it reads
// recent activity and the relation graph, computes warmth, mood, and graph
// structure, and publishes a single snapshot row other components read.
package daemon

import (
	"math"
	"sort"

	"github.com/calebreid/mindweave/internal/mind"
)

const (
	maxCentralNodes     = 10
	maxRelationPatterns = 10
	maxClusterNames     = 8
	maxClusterRelTypes  = 5
	minClusterSize      = 2
)

// CentralNode is an entity ranked by total connectivity, with the directed
// breakdown and the relation types it participates in.
type CentralNode struct {
	Name          string   `json:"name"`
	Connections   int      `json:"connections"`
	Outgoing      int      `json:"outgoing"`
	Incoming      int      `json:"incoming"`
	RelationTypes []string `json:"relation_types"`
}

// RelationPattern is a relation type ranked by frequency.
type RelationPattern struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Cluster is one connected component of the undirected relation graph.
type Cluster struct {
	Size          int      `json:"size"`
	Entities      []string `json:"entities"`
	RelationTypes []string `json:"relation_types"`
	Density       float64  `json:"density"`
}

// GraphStats summarizes the graph as a whole.
type GraphStats struct {
	Nodes    int `json:"nodes"`
	Edges    int `json:"edges"`
	Clusters int `json:"clusters"`
}

// GraphAnalysis is the full output of one graph pass.
type GraphAnalysis struct {
	Connectivity     map[string]int    `json:"connectivity"`
	CentralNodes     []CentralNode     `json:"central_nodes"`
	RelationPatterns []RelationPattern `json:"relation_patterns"`
	Clusters         []Cluster         `json:"clusters"`
	Stats            GraphStats        `json:"stats"`
}

// AnalyzeGraph computes connectivity, central nodes, relation-type patterns,
// and connected components over the relation set. All iteration is in sorted
// name order so identical input yields identical output.
func AnalyzeGraph(relations []mind.Relation) *GraphAnalysis {
	connectivity := make(map[string]int)
	outgoing := make(map[string]int)
	incoming := make(map[string]int)
	typeCounts := make(map[string]int)
	var typeOrder []string
	adjacency := make(map[string]map[string]bool)
	edgeTypes := make(map[string]map[string]bool)

	link := func(a, b string) {
		if adjacency[a] == nil {
			adjacency[a] = make(map[string]bool)
		}
		adjacency[a][b] = true
	}

	for _, r := range relations {
		connectivity[r.From]++
		connectivity[r.To]++
		outgoing[r.From]++
		incoming[r.To]++
		if _, seen := typeCounts[r.Type]; !seen {
			typeOrder = append(typeOrder, r.Type)
		}
		typeCounts[r.Type]++
		link(r.From, r.To)
		link(r.To, r.From)
		for _, n := range []string{r.From, r.To} {
			if edgeTypes[n] == nil {
				edgeTypes[n] = make(map[string]bool)
			}
			edgeTypes[n][r.Type] = true
		}
	}

	names := make([]string, 0, len(connectivity))
	for n := range connectivity {
		names = append(names, n)
	}
	sort.Strings(names)

	// Central nodes: highest total connectivity, name as tie-break via the
	// sorted walk.
	central := make([]CentralNode, 0, len(names))
	for _, n := range names {
		types := make([]string, 0, len(edgeTypes[n]))
		for t := range edgeTypes[n] {
			types = append(types, t)
		}
		sort.Strings(types)
		central = append(central, CentralNode{
			Name:          n,
			Connections:   connectivity[n],
			Outgoing:      outgoing[n],
			Incoming:      incoming[n],
			RelationTypes: types,
		})
	}
	sort.SliceStable(central, func(i, j int) bool {
		return central[i].Connections > central[j].Connections
	})
	if len(central) > maxCentralNodes {
		central = central[:maxCentralNodes]
	}

	patterns := make([]RelationPattern, 0, len(typeOrder))
	for _, t := range typeOrder {
		patterns = append(patterns, RelationPattern{Type: t, Count: typeCounts[t]})
	}
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Count > patterns[j].Count
	})
	if len(patterns) > maxRelationPatterns {
		patterns = patterns[:maxRelationPatterns]
	}

	clusters := findClusters(names, adjacency, edgeTypes)

	return &GraphAnalysis{
		Connectivity:     connectivity,
		CentralNodes:     central,
		RelationPatterns: patterns,
		Clusters:         clusters,
		Stats: GraphStats{
			Nodes:    len(names),
			Edges:    len(relations),
			Clusters: len(clusters),
		},
	}
}

// findClusters runs BFS over the undirected adjacency, seeding and expanding
// in sorted name order. Components with fewer than two members are dropped.
func findClusters(names []string, adjacency map[string]map[string]bool,
	edgeTypes map[string]map[string]bool) []Cluster {

	visited := make(map[string]bool)
	var clusters []Cluster

	for _, seed := range names {
		if visited[seed] {
			continue
		}
		var members []string
		queue := []string{seed}
		visited[seed] = true
		for len(queue) > 0 {
			node := queue[0]
			queue = queue[1:]
			members = append(members, node)

			neighbors := make([]string, 0, len(adjacency[node]))
			for n := range adjacency[node] {
				neighbors = append(neighbors, n)
			}
			sort.Strings(neighbors)
			for _, n := range neighbors {
				if !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			}
		}
		if len(members) < minClusterSize {
			continue
		}
		sort.Strings(members)
		clusters = append(clusters, buildCluster(members, adjacency, edgeTypes))
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Size > clusters[j].Size
	})
	return clusters
}

func buildCluster(members []string, adjacency map[string]map[string]bool,
	edgeTypes map[string]map[string]bool) Cluster {

	memberSet := make(map[string]bool, len(members))
	for _, m := range members {
		memberSet[m] = true
	}

	// Count distinct undirected pairs via the adjacency sets, so parallel
	// and reciprocal relations between the same two entities count once.
	// Each pair appears in both directions, hence the halving.
	endpoints := 0
	for _, m := range members {
		for neighbor := range adjacency[m] {
			if memberSet[neighbor] {
				endpoints++
			}
		}
	}
	internalEdges := float64(endpoints) / 2

	n := len(members)
	maxEdges := float64(n*(n-1)) / 2
	density := 0.0
	if maxEdges > 0 {
		density = round2(internalEdges / maxEdges)
	}

	typeSet := make(map[string]bool)
	var relTypes []string
	for _, m := range members {
		ts := make([]string, 0, len(edgeTypes[m]))
		for t := range edgeTypes[m] {
			ts = append(ts, t)
		}
		sort.Strings(ts)
		for _, t := range ts {
			if !typeSet[t] && len(relTypes) < maxClusterRelTypes {
				typeSet[t] = true
				relTypes = append(relTypes, t)
			}
		}
	}

	entities := members
	if len(entities) > maxClusterNames {
		entities = entities[:maxClusterNames]
	}

	return Cluster{
		Size:          n,
		Entities:      entities,
		RelationTypes: relTypes,
		Density:       density,
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
