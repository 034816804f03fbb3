package export

import (
	"context"
	"database/sql"
	"fmt"
)

const currentSchemaVersion = 1

var tables = []struct {
	name string
	ddl  string
}{
	{"runs", `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			repo TEXT NOT NULL,
			created_at TEXT NOT NULL,
			commits INTEGER NOT NULL,
			bucket_size INTEGER NOT NULL,
			num_buckets INTEGER NOT NULL
		)`},
	{"file_churn", `
		CREATE TABLE IF NOT EXISTS file_churn (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			path TEXT NOT NULL,
			commits INTEGER NOT NULL,
			lines INTEGER NOT NULL,
			first_seen INTEGER NOT NULL,
			continuity REAL,
			PRIMARY KEY (run_id, path)
		)`},
	{"cluster_members", `
		CREATE TABLE IF NOT EXISTS cluster_members (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			cluster INTEGER NOT NULL,
			path TEXT NOT NULL,
			PRIMARY KEY (run_id, cluster, path)
		)`},
	{"cluster_edges", `
		CREATE TABLE IF NOT EXISTS cluster_edges (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			cluster INTEGER NOT NULL,
			file_a TEXT NOT NULL,
			file_b TEXT NOT NULL,
			jaccard REAL NOT NULL,
			co_commits INTEGER NOT NULL,
			PRIMARY KEY (run_id, file_a, file_b)
		)`},
	{"critical_files", `
		CREATE TABLE IF NOT EXISTS critical_files (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			rank INTEGER NOT NULL,
			path TEXT NOT NULL,
			score REAL NOT NULL,
			entry REAL NOT NULL,
			dispatch REAL NOT NULL,
			fanin REAL NOT NULL,
			test REAL NOT NULL,
			PRIMARY KEY (run_id, path)
		)`},
}

// ensureSchema creates missing tables and records the schema version.
// A newer version on disk is left alone.
func (db *DB) ensureSchema() error {
	return db.withTx(context.Background(), func(tx *sql.Tx) error {
		if _, err := tx.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
			return fmt.Errorf("failed to create schema_version table: %w", err)
		}
		version, err := schemaVersion(tx)
		if err != nil {
			return err
		}
		if version > currentSchemaVersion {
			return fmt.Errorf("export database has schema version %d, newer than %d", version, currentSchemaVersion)
		}

		for _, t := range tables {
			if _, err := tx.Exec(t.ddl); err != nil {
				return fmt.Errorf("failed to create %s table: %w", t.name, err)
			}
		}
		if version == currentSchemaVersion {
			return nil
		}

		if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
			return err
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
			return err
		}
		db.logger.Debug("Export schema initialized", map[string]interface{}{
			"path":    db.path,
			"version": currentSchemaVersion,
		})
		return nil
	})
}

func schemaVersion(tx *sql.Tx) (int, error) {
	var version int
	err := tx.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return version, err
}
