package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"

	"github.com/calebreid/mindweave/internal/mind"
)

// Daemon runs the subconscious analysis on a schedule and on demand.
type Daemon struct {
	store    *mind.Store
	log      *logrus.Logger
	interval time.Duration
}

// New builds a Daemon over the given store.
func New(store *mind.Store, log *logrus.Logger) *Daemon {
	return &Daemon{
		store:    store,
		log:      log,
		interval: store.Config().DaemonInterval,
	}
}

// Run executes one subconscious pass: read the recent activity window and the
// relation graph, score everything, and publish the snapshot. A failed read
// aborts the run and leaves the previous snapshot untouched.
func (d *Daemon) Run(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	runID := start.UnixNano()

	rows, err := d.store.RecentActivity()
	if err != nil {
		return nil, fmt.Errorf("daemon: read activity: %w", err)
	}
	relations, err := d.store.AllRelations()
	if err != nil {
		return nil, fmt.Errorf("daemon: read relations: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	graph := AnalyzeGraph(relations)
	activity := ScoreActivity(rows, graph.Connectivity)

	snap := &Snapshot{
		SchemaVersion:    SchemaVersion,
		RunID:            runID,
		ProcessedAt:      start.UTC().Format(time.RFC3339),
		HotEntities:      activity.HotEntities,
		Recurring:        activity.Recurring,
		Mood:             activity.Mood,
		ContextClusters:  activity.ContextClusters,
		CentralNodes:     graph.CentralNodes,
		RelationPatterns: graph.RelationPatterns,
		Clusters:         graph.Clusters,
		GraphStats:       graph.Stats,
		WindowObsCount:   len(rows),
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("daemon: encode snapshot: %w", err)
	}
	applied, err := d.store.SaveSnapshot(StateTypeDaemon, runID, string(data))
	if err != nil {
		return nil, fmt.Errorf("daemon: publish snapshot: %w", err)
	}

	d.log.WithFields(logrus.Fields{
		"run_id":       runID,
		"applied":      applied,
		"window_obs":   len(rows),
		"hot_entities": len(snap.HotEntities),
		"clusters":     len(snap.Clusters),
		"mood":         snap.Mood.Tone,
		"duration":     time.Since(start).Round(time.Millisecond).String(),
	}).Info("subconscious run complete")

	return snap, nil
}

// Schedule starts the hourly subconscious schedule and returns the scheduler
// so the caller can shut it down. Failed runs are logged, never fatal.
func (d *Daemon) Schedule(ctx context.Context) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("daemon: create scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(d.interval),
		gocron.NewTask(func() {
			if _, err := d.Run(ctx); err != nil {
				d.log.WithError(err).Error("subconscious run failed")
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("daemon: schedule job: %w", err)
	}

	s.Start()
	d.log.WithField("interval", d.interval.String()).Info("subconscious daemon scheduled")
	return s, nil
}
