package daemon

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/calebreid/mindweave/internal/mind"
)

// SchemaVersion tags the snapshot payload so a reader can reject payloads
// written by an incompatible build.
const SchemaVersion = 1

// StateTypeDaemon is the state_type the subconscious run publishes under.
const StateTypeDaemon = "daemon"

// Snapshot is the typed payload of one subconscious run. It is serialized to
// JSON only at the storage boundary.
type Snapshot struct {
	SchemaVersion    int                `json:"schema_version"`
	RunID            int64              `json:"run_id"`
	ProcessedAt      string             `json:"processed_at"`
	HotEntities      []HotEntity        `json:"hot_entities"`
	Recurring        []RecurringPattern `json:"recurring_patterns"`
	Mood             Mood               `json:"mood"`
	ContextClusters  []ContextCluster   `json:"context_clusters"`
	CentralNodes     []CentralNode      `json:"central_nodes"`
	RelationPatterns []RelationPattern  `json:"relation_patterns"`
	Clusters         []Cluster          `json:"clusters"`
	GraphStats       GraphStats         `json:"graph_stats"`
	WindowObsCount   int                `json:"window_obs_count"`
}

// LoadSnapshot reads and decodes the published snapshot. Returns (nil, nil)
// when no run has published yet, so callers can degrade gracefully.
func LoadSnapshot(store *mind.Store) (*Snapshot, error) {
	row, err := store.LoadSnapshot()
	if errors.Is(err, mind.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(row.Data), &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// SnapshotUpdatedAt returns the raw updated_at of the stored snapshot, or
// empty when none exists.
func SnapshotUpdatedAt(store *mind.Store) (string, error) {
	row, err := store.LoadSnapshot()
	if errors.Is(err, mind.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.UpdatedAt, nil
}
