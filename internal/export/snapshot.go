package export

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"

	"rqs/internal/coupling"
	"rqs/internal/history"
	"rqs/internal/scoring"
)

// Snapshot is one run's results. Any section may be empty.
type Snapshot struct {
	Repo       string
	CreatedAt  time.Time
	Activity   *history.Activity
	Continuity map[string]float64
	Coupling   *coupling.Analysis
	Critical   []scoring.CriticalFile
}

// Write stores s as a new run and returns the run id.
func (db *DB) Write(ctx context.Context, s Snapshot) (string, error) {
	runID := uuid.New().String()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		var commits, bucketSize, numBuckets int
		if s.Activity != nil {
			commits, bucketSize, numBuckets = s.Activity.Commits, s.Activity.BucketSize, s.Activity.NumBuckets
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, repo, created_at, commits, bucket_size, num_buckets) VALUES (?, ?, ?, ?, ?, ?)`,
			runID, s.Repo, s.CreatedAt.UTC().Format(time.RFC3339), commits, bucketSize, numBuckets); err != nil {
			return err
		}
		if err := writeChurn(ctx, tx, runID, s.Activity, s.Continuity); err != nil {
			return err
		}
		if err := writeClusters(ctx, tx, runID, s.Coupling); err != nil {
			return err
		}
		return writeCritical(ctx, tx, runID, s.Critical)
	})
	if err != nil {
		return "", exportErr("failed to write snapshot", err)
	}

	db.logger.Info("Snapshot exported", map[string]interface{}{
		"path":  db.path,
		"runId": runID,
	})
	return runID, nil
}

func writeChurn(ctx context.Context, tx *sql.Tx, runID string, act *history.Activity, continuity map[string]float64) error {
	if act == nil {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO file_churn (run_id, path, commits, lines, first_seen, continuity) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	paths := make([]string, 0, len(act.Files))
	for p := range act.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		f := act.Files[p]
		var cont sql.NullFloat64
		if c, ok := continuity[p]; ok {
			cont = sql.NullFloat64{Float64: c, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, runID, p, f.Commits, f.Lines, f.FirstSeen, cont); err != nil {
			return err
		}
	}
	return nil
}

func writeClusters(ctx context.Context, tx *sql.Tx, runID string, an *coupling.Analysis) error {
	if an == nil {
		return nil
	}
	for i, c := range an.Clusters {
		for _, m := range c.Members {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO cluster_members (run_id, cluster, path) VALUES (?, ?, ?)`,
				runID, i+1, m.Path); err != nil {
				return err
			}
		}
		for _, e := range c.Edges {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO cluster_edges (run_id, cluster, file_a, file_b, jaccard, co_commits) VALUES (?, ?, ?, ?, ?, ?)`,
				runID, i+1, e.A, e.B, e.Jaccard, e.CoCommits); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeCritical(ctx context.Context, tx *sql.Tx, runID string, critical []scoring.CriticalFile) error {
	for i, c := range critical {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO critical_files (run_id, rank, path, score, entry, dispatch, fanin, test) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, i+1, c.Path, c.Score, c.Components.Entry, c.Components.Dispatch, c.Components.FanIn, c.Components.Test); err != nil {
			return err
		}
	}
	return nil
}
