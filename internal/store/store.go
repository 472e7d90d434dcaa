// Package store provides SQLite-backed persistence for research
// records, workflows, and payment transactions.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"agentmarketplace/marketplace"
	"agentmarketplace/pipeline"
)

// Store persists marketplace state in a single SQLite database file.
// Records are stored as JSON blobs keyed by id; the service reads whole
// histories at startup, so no per-field querying is needed.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the database at dir/marketplace.db.
func Open(dir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dir, "marketplace.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the path of the database file.
func (s *Store) Path() string { return s.dbPath }

// createTables creates the schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	-- Completed research pipeline runs
	CREATE TABLE IF NOT EXISTS research_records (
		id TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		record_json TEXT NOT NULL,
		completed_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_research_completed ON research_records(completed_at);

	-- Paid multi-agent workflows
	CREATE TABLE IF NOT EXISTS workflows (
		id TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		status TEXT NOT NULL,
		workflow_json TEXT NOT NULL,
		started_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_workflows_started ON workflows(started_at);

	-- Simulated Solana payments
	CREATE TABLE IF NOT EXISTS transactions (
		tx_hash TEXT PRIMARY KEY,
		agent_id TEXT NOT NULL,
		tx_json TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tx_created ON transactions(created_at);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// SaveResearchRecord persists a completed pipeline run.
func (s *Store) SaveResearchRecord(ctx context.Context, record *pipeline.ResearchRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to serialize research record: %w", err)
	}

	query := `
	INSERT INTO research_records (id, query, record_json, completed_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		record_json = excluded.record_json,
		completed_at = excluded.completed_at
	`
	_, err = s.db.ExecContext(ctx, query, record.ID, record.Query, string(data), record.CompletedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save research record: %w", err)
	}
	return nil
}

// ListResearchRecords returns all research records, oldest first.
func (s *Store) ListResearchRecords(ctx context.Context) ([]*pipeline.ResearchRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record_json FROM research_records ORDER BY completed_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list research records: %w", err)
	}
	defer rows.Close()

	var records []*pipeline.ResearchRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan research record: %w", err)
		}
		var record pipeline.ResearchRecord
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			continue // skip malformed rows
		}
		records = append(records, &record)
	}
	return records, rows.Err()
}

// SaveWorkflow persists a workflow, replacing any previous state.
func (s *Store) SaveWorkflow(ctx context.Context, w *marketplace.Workflow) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("failed to serialize workflow: %w", err)
	}

	query := `
	INSERT INTO workflows (id, query, status, workflow_json, started_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		status = excluded.status,
		workflow_json = excluded.workflow_json
	`
	_, err = s.db.ExecContext(ctx, query, w.ID, w.Query, w.Status, string(data), w.StartedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save workflow: %w", err)
	}
	return nil
}

// ListWorkflows returns all workflows, oldest first.
func (s *Store) ListWorkflows(ctx context.Context) ([]*marketplace.Workflow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT workflow_json FROM workflows ORDER BY started_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}
	defer rows.Close()

	var workflows []*marketplace.Workflow
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan workflow: %w", err)
		}
		var w marketplace.Workflow
		if err := json.Unmarshal([]byte(data), &w); err != nil {
			continue
		}
		workflows = append(workflows, &w)
	}
	return workflows, rows.Err()
}

// SaveTransaction persists a payment transaction.
func (s *Store) SaveTransaction(ctx context.Context, tx *marketplace.Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to serialize transaction: %w", err)
	}

	query := `
	INSERT INTO transactions (tx_hash, agent_id, tx_json, created_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(tx_hash) DO NOTHING
	`
	_, err = s.db.ExecContext(ctx, query, tx.TxHash, tx.AgentID, string(data), tx.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// ListTransactions returns all transactions, oldest first.
func (s *Store) ListTransactions(ctx context.Context) ([]*marketplace.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tx_json FROM transactions ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*marketplace.Transaction
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		var tx marketplace.Transaction
		if err := json.Unmarshal([]byte(data), &tx); err != nil {
			continue
		}
		txs = append(txs, &tx)
	}
	return txs, rows.Err()
}
