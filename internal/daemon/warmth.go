package daemon

import (
	"sort"

	"github.com/calebreid/mindweave/internal/mind"
)

const (
	obsWarmthWeight  = 0.6
	connWarmthWeight = 0.4

	maxHotEntities     = 15
	recurringThreshold = 3
	moodConfidenceMin  = 5
)

// HotEntity is an entity with recent activity, scored by warmth.
type HotEntity struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Context     string  `json:"context"`
	Mentions    int     `json:"mentions"`
	Connections int     `json:"connections"`
	Warmth      float64 `json:"warmth"`
}

// RecurringPattern is an entity mentioned often enough inside the window to
// count as a theme.
type RecurringPattern struct {
	Entity      string `json:"entity"`
	Mentions    int    `json:"mentions"`
	Connections int    `json:"connections"`
	Note        string `json:"note"`
}

// Mood is the felt tone of the recent window.
type Mood struct {
	Tone       string `json:"tone"`
	Confidence string `json:"confidence"`
}

// ContextCluster groups recently active entities by shared context.
type ContextCluster struct {
	Context  string   `json:"context"`
	Entities []string `json:"entities"`
}

// ActivitySummary is the warmth/mood half of a subconscious run.
type ActivitySummary struct {
	HotEntities     []HotEntity        `json:"hot_entities"`
	Recurring       []RecurringPattern `json:"recurring_patterns"`
	Mood            Mood               `json:"mood"`
	ContextClusters []ContextCluster   `json:"context_clusters"`
}

type entityTally struct {
	entityType string
	context    string
	mentions   int
}

// ScoreActivity blends mention counts with graph connectivity into entity
// warmth, detects recurring themes, and tallies the window's mood. Both
// warmth components are normalized against this run's maxima, so the hottest
// entity on each axis scores 1.0 regardless of absolute volume. Rows are
// expected newest-first; first-seen order breaks ties.
func ScoreActivity(rows []mind.ActivityRow, connectivity map[string]int) *ActivitySummary {
	counts := make(map[string]*entityTally)
	var order []string

	emotionCounts := make(map[string]int)
	var emotionOrder []string
	taggedMentions := 0

	for _, r := range rows {
		t, seen := counts[r.EntityName]
		if !seen {
			t = &entityTally{entityType: r.EntityType, context: r.Context}
			counts[r.EntityName] = t
			order = append(order, r.EntityName)
		}
		t.mentions++

		if r.Emotion != "" {
			if _, seen := emotionCounts[r.Emotion]; !seen {
				emotionOrder = append(emotionOrder, r.Emotion)
			}
			emotionCounts[r.Emotion]++
			taggedMentions++
		}
	}

	maxMentions := 1
	for _, t := range counts {
		if t.mentions > maxMentions {
			maxMentions = t.mentions
		}
	}
	maxConnectivity := 1
	for _, c := range connectivity {
		if c > maxConnectivity {
			maxConnectivity = c
		}
	}

	hot := make([]HotEntity, 0, len(order))
	var recurring []RecurringPattern
	for _, name := range order {
		t := counts[name]

		obsWarmth := float64(t.mentions) / float64(maxMentions)
		connWarmth := float64(connectivity[name]) / float64(maxConnectivity)

		hot = append(hot, HotEntity{
			Name:        name,
			Type:        t.entityType,
			Context:     t.context,
			Mentions:    t.mentions,
			Connections: connectivity[name],
			Warmth:      round2(obsWarmthWeight*obsWarmth + connWarmthWeight*connWarmth),
		})

		if t.mentions >= recurringThreshold {
			recurring = append(recurring, RecurringPattern{
				Entity:      name,
				Mentions:    t.mentions,
				Connections: connectivity[name],
				Note:        "recurring theme",
			})
		}
	}

	sort.SliceStable(hot, func(i, j int) bool { return hot[i].Warmth > hot[j].Warmth })
	if len(hot) > maxHotEntities {
		hot = hot[:maxHotEntities]
	}
	sort.SliceStable(recurring, func(i, j int) bool {
		return recurring[i].Mentions > recurring[j].Mentions
	})

	return &ActivitySummary{
		HotEntities:     hot,
		Recurring:       recurring,
		Mood:            tallyMood(emotionCounts, emotionOrder, taggedMentions),
		ContextClusters: clusterByContext(counts, order),
	}
}

// tallyMood picks the most frequent emotion tag in the window. Ties go to
// the first-encountered tag. With no tags at all the mood is neutral.
func tallyMood(counts map[string]int, order []string, tagged int) Mood {
	if len(order) == 0 {
		return Mood{Tone: "neutral", Confidence: "low"}
	}
	best := order[0]
	for _, e := range order {
		if counts[e] > counts[best] {
			best = e
		}
	}
	confidence := "low"
	if tagged > moodConfidenceMin {
		confidence = "medium"
	}
	return Mood{Tone: best, Confidence: confidence}
}

func clusterByContext(counts map[string]*entityTally, order []string) []ContextCluster {
	byContext := make(map[string][]string)
	var ctxOrder []string
	for _, name := range order {
		ctx := counts[name].context
		if _, seen := byContext[ctx]; !seen {
			ctxOrder = append(ctxOrder, ctx)
		}
		byContext[ctx] = append(byContext[ctx], name)
	}

	var out []ContextCluster
	for _, ctx := range ctxOrder {
		if len(byContext[ctx]) < 2 {
			continue
		}
		out = append(out, ContextCluster{Context: ctx, Entities: byContext[ctx]})
	}
	return out
}
