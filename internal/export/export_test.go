package export

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rqs/internal/coupling"
	"rqs/internal/history"
	"rqs/internal/scoring"
)

func sampleSnapshot() Snapshot {
	var commits []history.Commit
	for i := 0; i < 4; i++ {
		commits = append(commits, history.Commit{Author: "ana", Files: []history.FileChange{
			{Path: "a.go", Lines: 10},
			{Path: "b.go", Lines: 5},
		}})
	}
	commits = append(commits, history.Commit{Author: "bo", Files: []history.FileChange{{Path: "c.go", Lines: 1}}})
	act := history.Bucketize(commits, 0, history.Filter{})

	return Snapshot{
		Repo:       "/src/demo",
		Activity:   act,
		Continuity: map[string]float64{"a.go": 1},
		Coupling:   coupling.NewAnalyzer(coupling.DefaultOptions(), nil).Analyze(act),
		Critical: []scoring.CriticalFile{
			{Path: "a.go", Score: 7.5, Components: scoring.Components{Entry: 1}},
		},
	}
}

func count(t *testing.T, conn *sql.DB, query string, args ...interface{}) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRow(query, args...).Scan(&n))
	return n
}

func TestWriteSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "rqs.db")
	db, err := Open(path, nil)
	require.NoError(t, err)
	defer db.Close()

	runID, err := db.Write(context.Background(), sampleSnapshot())
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	conn := db.conn
	assert.Equal(t, 1, count(t, conn, `SELECT COUNT(*) FROM runs WHERE id = ? AND commits = 5`, runID))
	assert.Equal(t, 3, count(t, conn, `SELECT COUNT(*) FROM file_churn WHERE run_id = ?`, runID))
	assert.Equal(t, 1, count(t, conn, `SELECT COUNT(*) FROM file_churn WHERE run_id = ? AND continuity IS NOT NULL`, runID))
	assert.Equal(t, 2, count(t, conn, `SELECT COUNT(*) FROM cluster_members WHERE run_id = ?`, runID))
	assert.Equal(t, 1, count(t, conn, `SELECT COUNT(*) FROM cluster_edges WHERE run_id = ? AND file_a = 'a.go' AND file_b = 'b.go'`, runID))
	assert.Equal(t, 1, count(t, conn, `SELECT COUNT(*) FROM critical_files WHERE run_id = ? AND rank = 1`, runID))
}

func TestWriteKeepsEarlierRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rqs.db")
	for i := 0; i < 2; i++ {
		db, err := Open(path, nil)
		require.NoError(t, err)
		_, err = db.Write(context.Background(), sampleSnapshot())
		require.NoError(t, err)
		require.NoError(t, db.Close())
	}

	db, err := Open(path, nil)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, 2, count(t, db.conn, `SELECT COUNT(*) FROM runs`))
	assert.Equal(t, 1, count(t, db.conn, `SELECT COUNT(*) FROM schema_version`))
}

func TestWriteEmptySnapshot(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "rqs.db"), nil)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Write(context.Background(), Snapshot{Repo: "."})
	require.NoError(t, err)
	assert.Equal(t, 0, count(t, db.conn, `SELECT COUNT(*) FROM file_churn`))
}
