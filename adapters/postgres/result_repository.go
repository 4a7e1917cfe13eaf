package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"genml/domain/core"
	"genml/domain/genml"
	"genml/ports"

	"github.com/jmoiron/sqlx"
)

// resultRepository implements ports.ResultRepository on PostgreSQL. Results
// are stored as JSON payloads keyed by run ID - the numeric core never reads
// them back, this is an audit surface.
type resultRepository struct {
	db *sqlx.DB
}

// NewResultRepository creates a new estimation result repository.
func NewResultRepository(db *sqlx.DB) ports.ResultRepository {
	return &resultRepository{db: db}
}

// EnsureSchema creates the backing table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS estimation_results (
		id TEXT PRIMARY KEY,
		second_stage TEXT NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create estimation_results table: %w", err)
	}
	return nil
}

// Save inserts a terminal estimation result.
func (r *resultRepository) Save(ctx context.Context, result *genml.EstimationResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal estimation result: %w", err)
	}

	query := `INSERT INTO estimation_results (id, second_stage, payload, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err = r.db.ExecContext(ctx, query,
		result.RunID.String(), string(result.SecondStage), payload, result.CreatedAt.Time())
	if err != nil {
		return fmt.Errorf("failed to save estimation result: %w", err)
	}
	return nil
}

// GetByID retrieves one result by run ID.
func (r *resultRepository) GetByID(ctx context.Context, id core.RunID) (*genml.EstimationResult, error) {
	var payload []byte
	query := `SELECT payload FROM estimation_results WHERE id = $1`
	if err := r.db.QueryRowxContext(ctx, query, id.String()).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", core.ErrResultNotFound, id)
		}
		return nil, fmt.Errorf("failed to load estimation result: %w", err)
	}

	var result genml.EstimationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal estimation result: %w", err)
	}
	return &result, nil
}

// ListRecent returns the newest results first.
func (r *resultRepository) ListRecent(ctx context.Context, limit int) ([]*genml.EstimationResult, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT payload FROM estimation_results ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.QueryxContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list estimation results: %w", err)
	}
	defer rows.Close()

	var results []*genml.EstimationResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan estimation result: %w", err)
		}
		var result genml.EstimationResult
		if err := json.Unmarshal(payload, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal estimation result: %w", err)
		}
		results = append(results, &result)
	}
	return results, rows.Err()
}
