// Package consolidate analyzes a window of observations for volume, weight
// distribution, entity activity, and lexical near-duplicates.
package consolidate

import (
	"sort"
	"strings"

	"github.com/calebreid/mindweave/internal/mind"
)

const (
	// SimilarityThreshold is the overlap strictly above which two
	// observations are flagged as near-duplicates.
	SimilarityThreshold = 0.5

	// minTokenLength filters out short words before comparing; only words
	// longer than this count.
	minTokenLength = 4

	maxMostActive = 5

	// unlinkedEntity labels observations whose entity name is empty.
	unlinkedEntity = "_unlinked_"
)

// WeightCounts is the distribution of observation weights in the window.
type WeightCounts struct {
	Light  int
	Medium int
	Heavy  int
}

// EntityActivity is one entity ranked by observation count in the window.
type EntityActivity struct {
	Entity string
	Count  int
}

// DuplicatePair flags two observations with high lexical overlap.
type DuplicatePair struct {
	AID        int64
	BID        int64
	AContent   string
	BContent   string
	Similarity float64
}

// Report is the result of one consolidation pass.
type Report struct {
	Total          int
	UniqueEntities int
	Weights        WeightCounts
	MostActive     []EntityActivity
	Duplicates     []DuplicatePair
}

// Analyze groups the window's observations by entity and weight and flags
// near-duplicate pairs in discovery order.
func Analyze(obs []mind.ObservationView) *Report {
	r := &Report{Total: len(obs)}

	counts := make(map[string]int)
	var order []string
	for _, o := range obs {
		name := o.EntityName
		if name == "" {
			name = unlinkedEntity
		}
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++

		switch o.Weight {
		case mind.WeightLight:
			r.Weights.Light++
		case mind.WeightHeavy:
			r.Weights.Heavy++
		default:
			r.Weights.Medium++
		}
	}
	r.UniqueEntities = len(order)

	active := make([]EntityActivity, 0, len(order))
	for _, name := range order {
		active = append(active, EntityActivity{Entity: name, Count: counts[name]})
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].Count > active[j].Count })
	if len(active) > maxMostActive {
		active = active[:maxMostActive]
	}
	r.MostActive = active

	for i := 0; i < len(obs); i++ {
		for j := i + 1; j < len(obs); j++ {
			sim := Similarity(obs[i].Content, obs[j].Content)
			if sim > SimilarityThreshold {
				r.Duplicates = append(r.Duplicates, DuplicatePair{
					AID:        obs[i].ID,
					BID:        obs[j].ID,
					AContent:   obs[i].Content,
					BContent:   obs[j].Content,
					Similarity: sim,
				})
			}
		}
	}

	return r
}

// Similarity measures lexical overlap between two texts as the shared count
// of distinct long words over the larger word set. Texts with no long words
// never match.
func Similarity(a, b string) float64 {
	wa := longWords(a)
	wb := longWords(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}

	shared := 0
	for w := range wa {
		if wb[w] {
			shared++
		}
	}
	max := len(wa)
	if len(wb) > max {
		max = len(wb)
	}
	return float64(shared) / float64(max)
}

func longWords(text string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if len(w) > minTokenLength {
			out[w] = true
		}
	}
	return out
}
