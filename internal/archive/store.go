package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aumai/alignment/internal/evaluation"
)

const defaultLimit = 50

// Store is an optional SQLite sink for evaluation results. It lives entirely
// on the adapter side: the in-memory registry and runner never read from it,
// so deleting the archive file cannot affect core behavior.
type Store struct {
	db *sql.DB
}

// Entry is one archived evaluation result.
type Entry struct {
	ID          int64
	DatasetID   string
	ModelName   string
	Score       float64
	MeanScore   float64
	MinScore    float64
	MaxScore    float64
	SampleCount int64
	EvaluatedAt time.Time
}

func NewStore(dbPath string) (*Store, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, errors.New("archive: empty db path")
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("archive: create db dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("archive: open db: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("archive: ping db: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("archive: nil db")
	}

	stmts := []string{
		`PRAGMA foreign_keys = ON`,
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS evaluation_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			dataset_id TEXT NOT NULL,
			model_name TEXT NOT NULL,
			score REAL NOT NULL,
			mean_score REAL NOT NULL,
			min_score REAL NOT NULL,
			max_score REAL NOT NULL,
			sample_count INTEGER NOT NULL,
			evaluated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_dataset ON evaluation_results(dataset_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_model_dataset ON evaluation_results(model_name, dataset_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_evaluated_at ON evaluation_results(evaluated_at)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("archive: init schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save archives one evaluation result.
func (s *Store) Save(ctx context.Context, result *evaluation.Result) error {
	if s == nil || s.db == nil {
		return errors.New("archive: nil store")
	}
	if ctx == nil {
		return errors.New("archive: nil context")
	}
	if result == nil {
		return errors.New("archive: nil result")
	}

	datasetID := strings.TrimSpace(result.DatasetID)
	modelName := strings.TrimSpace(result.ModelName)
	if datasetID == "" || modelName == "" {
		return errors.New("archive: missing dataset/model")
	}

	evaluatedAt := result.EvaluatedAt
	if evaluatedAt.IsZero() {
		evaluatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluation_results (
			dataset_id, model_name, score, mean_score, min_score, max_score, sample_count, evaluated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, datasetID, modelName, result.Score,
		result.Metrics["mean_score"], result.Metrics["min_score"], result.Metrics["max_score"],
		int64(result.Metrics["sample_count"]), evaluatedAt.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("archive: insert result: %w", err)
	}
	return nil
}

// Leaderboard returns archived results for a dataset ordered by score
// descending, most recent first on ties.
func (s *Store) Leaderboard(ctx context.Context, datasetID string, limit int) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("archive: nil store")
	}
	if ctx == nil {
		return nil, errors.New("archive: nil context")
	}
	datasetID = strings.TrimSpace(datasetID)
	if datasetID == "" {
		return nil, errors.New("archive: empty dataset id")
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, dataset_id, model_name, score, mean_score, min_score, max_score, sample_count, evaluated_at
		FROM evaluation_results
		WHERE dataset_id = ?
		ORDER BY score DESC, evaluated_at DESC
		LIMIT ?
	`, datasetID, limit)
	if err != nil {
		return nil, fmt.Errorf("archive: query leaderboard: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// ModelHistory returns archived results for one model on one dataset, most
// recent first.
func (s *Store) ModelHistory(ctx context.Context, modelName, datasetID string) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("archive: nil store")
	}
	if ctx == nil {
		return nil, errors.New("archive: nil context")
	}
	modelName = strings.TrimSpace(modelName)
	datasetID = strings.TrimSpace(datasetID)
	if modelName == "" || datasetID == "" {
		return nil, errors.New("archive: missing model/dataset")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, dataset_id, model_name, score, mean_score, min_score, max_score, sample_count, evaluated_at
		FROM evaluation_results
		WHERE model_name = ? AND dataset_id = ?
		ORDER BY evaluated_at DESC
	`, modelName, datasetID)
	if err != nil {
		return nil, fmt.Errorf("archive: query model history: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

func scanRows(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var e Entry
		var evaluatedAtMS int64
		if err := rows.Scan(
			&e.ID,
			&e.DatasetID,
			&e.ModelName,
			&e.Score,
			&e.MeanScore,
			&e.MinScore,
			&e.MaxScore,
			&e.SampleCount,
			&evaluatedAtMS,
		); err != nil {
			return nil, fmt.Errorf("archive: scan entry: %w", err)
		}
		e.EvaluatedAt = time.UnixMilli(evaluatedAtMS).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("archive: scan rows: %w", err)
	}
	return out, nil
}
