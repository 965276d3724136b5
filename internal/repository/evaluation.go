package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"evaluator/internal/config"
	"evaluator/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no evaluation is stored for a session
var ErrNotFound = errors.New("evaluation not found")

var schemas = map[string]string{
	config.DriverPostgres: `
		CREATE TABLE IF NOT EXISTS evaluation_logs (
			id          BIGSERIAL PRIMARY KEY,
			session_id  TEXT NOT NULL UNIQUE,
			score       DOUBLE PRECISION NOT NULL,
			confidence  TEXT NOT NULL,
			turns       INTEGER NOT NULL,
			record      JSONB,
			result      JSONB,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	config.DriverSQLite: `
		CREATE TABLE IF NOT EXISTS evaluation_logs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id  TEXT NOT NULL UNIQUE,
			score       REAL NOT NULL,
			confidence  TEXT NOT NULL,
			turns       INTEGER NOT NULL,
			record      TEXT,
			result      TEXT,
			created_at  DATETIME NOT NULL
		)`,
}

// EvaluationRepository stores finished evaluations
type EvaluationRepository struct {
	db     *sqlx.DB
	driver string
}

// Open connects to the evaluation log configured in cfg and creates its table
func Open(cfg *config.Config) (*EvaluationRepository, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		return NewPostgresRepository(cfg.EvaluationLogDSN(), cfg.Store.MaxConnections, cfg.Store.MaxIdleConnections)
	case config.DriverSQLite:
		return NewSQLiteRepository(cfg.Store.DSN)
	default:
		return nil, fmt.Errorf("unsupported evaluation log driver %q", cfg.Store.Driver)
	}
}

// NewPostgresRepository creates a PostgreSQL backed evaluation log
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*EvaluationRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "prefer_simple_protocol") && strings.Contains(dsn, "://") {
		if !strings.Contains(dsn, "?") {
			dsn += "?prefer_simple_protocol=true"
		} else {
			dsn += "&prefer_simple_protocol=true"
		}
	}

	db, err := sqlx.Connect(config.DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	repo := &EvaluationRepository{db: db, driver: config.DriverPostgres}
	if err := repo.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// NewSQLiteRepository creates a SQLite backed evaluation log. path may be
// ":memory:".
func NewSQLiteRepository(path string) (*EvaluationRepository, error) {
	db, err := sqlx.Open(config.DriverSQLite, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// a single writer keeps SQLite away from SQLITE_BUSY, and an in-memory
	// database only exists on one connection
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set %q: %w", p, err)
		}
	}

	repo := &EvaluationRepository{db: db, driver: config.DriverSQLite}
	if err := repo.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// Migrate creates the evaluation_logs table when it does not exist
func (r *EvaluationRepository) Migrate(ctx context.Context) error {
	ddl, ok := schemas[r.driver]
	if !ok {
		return fmt.Errorf("no schema for driver %q", r.driver)
	}
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create evaluation_logs: %w", err)
	}
	return nil
}

// Close closes the database connection
func (r *EvaluationRepository) Close() error {
	return r.db.Close()
}

// LogEvaluation stores a finished evaluation and sets its ID
func (r *EvaluationRepository) LogEvaluation(ctx context.Context, entry *model.EvaluationLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO evaluation_logs (session_id, score, confidence, turns, record, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)
	err := r.db.QueryRowxContext(ctx, query,
		entry.SessionID,
		entry.Score,
		string(entry.Confidence),
		entry.Turns,
		entry.Record,
		entry.Result,
		entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to log evaluation: %w", err)
	}
	return nil
}

// GetEvaluation returns the evaluation stored for a session
func (r *EvaluationRepository) GetEvaluation(ctx context.Context, sessionID string) (*model.EvaluationLog, error) {
	var entry model.EvaluationLog
	query := r.db.Rebind(`
		SELECT id, session_id, score, confidence, turns, record, result, created_at
		FROM evaluation_logs
		WHERE session_id = ?
	`)
	err := r.db.GetContext(ctx, &entry, query, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	return &entry, nil
}

// RecentEvaluations returns the latest evaluations, newest first
func (r *EvaluationRepository) RecentEvaluations(ctx context.Context, limit int) ([]model.EvaluationLog, error) {
	if limit <= 0 {
		limit = 20
	}
	query := r.db.Rebind(`
		SELECT id, session_id, score, confidence, turns, record, result, created_at
		FROM evaluation_logs
		ORDER BY id DESC
		LIMIT ?
	`)
	var entries []model.EvaluationLog
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	return entries, nil
}
