package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/me/goshop/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns a Store.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// --- Instance CRUD ---

func (s *SQLiteStore) CreateInstance(ctx context.Context, inst *model.StoredInstance) error {
	s.logger.Debug("sql", "op", "insert", "table", "instances", "id", inst.ID)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO instances (id, name, num_jobs, num_machines, num_ops, document, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inst.ID, inst.Name, inst.NumJobs, inst.NumMachines, inst.NumOps,
		inst.Document, inst.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

func (s *SQLiteStore) GetInstance(ctx context.Context, id string) (*model.StoredInstance, error) {
	s.logger.Debug("sql", "op", "select", "table", "instances", "id", id)

	var inst model.StoredInstance
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, num_jobs, num_machines, num_ops, document, created_at
		 FROM instances WHERE id = ?`, id,
	).Scan(&inst.ID, &inst.Name, &inst.NumJobs, &inst.NumMachines, &inst.NumOps,
		&inst.Document, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	inst.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &inst, nil
}

func (s *SQLiteStore) ListInstances(ctx context.Context, opts model.ListOptions) ([]*model.StoredInstance, int, error) {
	s.logger.Debug("sql", "op", "list", "table", "instances", "limit", opts.Limit, "offset", opts.Offset)
	opts.Clamp()

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM instances`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, num_jobs, num_machines, num_ops, document, created_at
		 FROM instances ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.StoredInstance
	for rows.Next() {
		var inst model.StoredInstance
		var createdAt string
		if err := rows.Scan(&inst.ID, &inst.Name, &inst.NumJobs, &inst.NumMachines,
			&inst.NumOps, &inst.Document, &createdAt); err != nil {
			return nil, 0, err
		}
		inst.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, &inst)
	}
	return out, total, rows.Err()
}

func (s *SQLiteStore) DeleteInstance(ctx context.Context, id string) error {
	s.logger.Debug("sql", "op", "delete", "table", "instances", "id", id)

	res, err := s.db.ExecContext(ctx, `DELETE FROM instances WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// --- Run operations ---

func (s *SQLiteStore) CreateRun(ctx context.Context, run *model.Run) error {
	s.logger.Debug("sql", "op", "insert", "table", "runs", "id", run.ID)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, instance_id, rule, makespan, steps, schedule, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.InstanceID, run.Rule, run.Makespan, run.Steps,
		run.Schedule, run.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	s.logger.Debug("sql", "op", "select", "table", "runs", "id", id)

	var run model.Run
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, instance_id, rule, makespan, steps, schedule, created_at
		 FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.InstanceID, &run.Rule, &run.Makespan, &run.Steps,
		&run.Schedule, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &run, nil
}

func (s *SQLiteStore) ListRunsByInstance(ctx context.Context, instanceID string) ([]*model.Run, error) {
	s.logger.Debug("sql", "op", "list", "table", "runs", "instance_id", instanceID)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, instance_id, rule, makespan, steps, schedule, created_at
		 FROM runs WHERE instance_id = ? ORDER BY created_at DESC`, instanceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Run
	for rows.Next() {
		var run model.Run
		var createdAt string
		if err := rows.Scan(&run.ID, &run.InstanceID, &run.Rule, &run.Makespan,
			&run.Steps, &run.Schedule, &createdAt); err != nil {
			return nil, err
		}
		run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, &run)
	}
	return out, rows.Err()
}
