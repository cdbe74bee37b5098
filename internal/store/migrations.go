package store

import (
	"context"
	"database/sql"
)

// schema contains the DDL for all goshop tables.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS instances (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		num_jobs     INTEGER NOT NULL,
		num_machines INTEGER NOT NULL,
		num_ops      INTEGER NOT NULL,
		document     TEXT NOT NULL,
		created_at   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		instance_id TEXT NOT NULL,
		rule        TEXT NOT NULL,
		makespan    INTEGER NOT NULL,
		steps       INTEGER NOT NULL,
		schedule    TEXT NOT NULL DEFAULT '[]',
		created_at  TEXT NOT NULL,
		FOREIGN KEY (instance_id) REFERENCES instances(id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_runs_instance_id ON runs(instance_id)`,
	`CREATE INDEX IF NOT EXISTS idx_instances_name ON instances(name)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
