package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"spl-token-creator/internal/domain"
	"spl-token-creator/internal/observability"
	"spl-token-creator/internal/storage"
)

// RunStore implements storage.RunStore using PostgreSQL.
type RunStore struct {
	pool *Pool
}

// NewRunStore creates a new RunStore.
func NewRunStore(pool *Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RunStore = (*RunStore)(nil)

const runColumns = `
	run_id, owner, mint, name, symbol, decimals, supply::text, revoke_freeze, revoke_mint,
	image_url, metadata_url, stage, outcome, message, signatures, started_at, finished_at
`

// Insert adds a finished run. Returns ErrDuplicateKey if run_id or mint exists.
func (s *RunStore) Insert(ctx context.Context, r *domain.Run) (err error) {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	start := time.Now()
	defer func() {
		observability.RecordDBQuery("postgres", "insert_run", time.Since(start).Seconds(), err)
	}()

	signatures := r.Signatures
	if signatures == nil {
		signatures = []domain.StepSignature{}
	}
	sigJSON, err := json.Marshal(signatures)
	if err != nil {
		return fmt.Errorf("marshal signatures: %w", err)
	}

	supply := r.Supply
	if supply == "" {
		supply = "0"
	}

	query := `
		INSERT INTO token_runs (
			run_id, owner, mint, name, symbol, decimals, supply, revoke_freeze, revoke_mint,
			image_url, metadata_url, stage, outcome, message, signatures, started_at, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err = s.pool.Exec(ctx, query,
		r.RunID,
		r.Owner,
		nullableString(r.Mint),
		r.Name,
		r.Symbol,
		r.Decimals,
		supply,
		r.RevokeFreeze,
		r.RevokeMint,
		r.ImageURL,
		r.MetadataURL,
		string(r.Stage),
		string(r.Outcome),
		r.Message,
		sigJSON,
		r.StartedAt,
		r.FinishedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(ctx context.Context, runID string) (*domain.Run, error) {
	query := `SELECT ` + runColumns + ` FROM token_runs WHERE run_id = $1`

	r, err := scanRun(s.pool.QueryRow(ctx, query, runID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get run by id: %w", err)
	}
	return r, nil
}

// GetByMint retrieves the run that created mint. Returns ErrNotFound if not exists.
func (s *RunStore) GetByMint(ctx context.Context, mint string) (*domain.Run, error) {
	query := `SELECT ` + runColumns + ` FROM token_runs WHERE mint = $1`

	r, err := scanRun(s.pool.QueryRow(ctx, query, mint))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get run by mint: %w", err)
	}
	return r, nil
}

// List retrieves runs ordered by started_at DESC.
func (s *RunStore) List(ctx context.Context, owner string, limit int) (runs []*domain.Run, err error) {
	start := time.Now()
	defer func() {
		observability.RecordDBQuery("postgres", "list_runs", time.Since(start).Seconds(), err)
	}()

	query := `
		SELECT ` + runColumns + `
		FROM token_runs
		WHERE ($1 = '' OR owner = $1)
		ORDER BY started_at DESC, run_id ASC
	`
	args := []interface{}{owner}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// scanRun scans a single row into Run.
func scanRun(row pgx.Row) (*domain.Run, error) {
	var (
		r       domain.Run
		mint    *string
		stage   string
		outcome string
		sigJSON []byte
	)

	err := row.Scan(
		&r.RunID,
		&r.Owner,
		&mint,
		&r.Name,
		&r.Symbol,
		&r.Decimals,
		&r.Supply,
		&r.RevokeFreeze,
		&r.RevokeMint,
		&r.ImageURL,
		&r.MetadataURL,
		&stage,
		&outcome,
		&r.Message,
		&sigJSON,
		&r.StartedAt,
		&r.FinishedAt,
	)
	if err != nil {
		return nil, err
	}

	if mint != nil {
		r.Mint = *mint
	}
	r.Stage = domain.Stage(stage)
	r.Outcome = domain.RunOutcome(outcome)
	if len(sigJSON) > 0 {
		if err := json.Unmarshal(sigJSON, &r.Signatures); err != nil {
			return nil, fmt.Errorf("unmarshal signatures: %w", err)
		}
	}

	return &r, nil
}

// nullableString maps empty strings to NULL.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
