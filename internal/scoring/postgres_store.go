package scoring

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mbd888/jerisk/internal/ledger"
)

// PostgresRunStore implements RunStore with PostgreSQL.
type PostgresRunStore struct {
	db *sql.DB
}

// NewPostgresRunStore creates a PostgreSQL-backed run store.
func NewPostgresRunStore(db *sql.DB) *PostgresRunStore {
	return &PostgresRunStore{db: db}
}

func (p *PostgresRunStore) SaveRun(ctx context.Context, run *Run) error {
	exclusions, err := json.Marshal(exclusionsOrEmpty(run.Exclusions))
	if err != nil {
		return fmt.Errorf("marshal exclusions: %w", err)
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO scoring_runs (
			id, started_at, finished_at, entries_in, entries_scored,
			entries_excluded, high_risk, max_score, exclusions
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, run.ID, run.StartedAt, run.FinishedAt, run.EntriesIn, run.EntriesScored,
		run.EntriesExcluded, run.HighRisk, run.MaxScore, exclusions)
	return err
}

func (p *PostgresRunStore) GetRun(ctx context.Context, id string) (*Run, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, entries_in, entries_scored,
		       entries_excluded, high_risk, max_score, exclusions
		FROM scoring_runs WHERE id = $1
	`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	return run, err
}

func (p *PostgresRunStore) ListRuns(ctx context.Context, limit int, opts ...ListOption) ([]*Run, error) {
	o := applyListOpts(opts)
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, started_at, finished_at, entries_in, entries_scored,
		       entries_excluded, high_risk, max_score, exclusions
		FROM scoring_runs`
	args := []any{limit}
	if o.cursor != nil {
		query += `
		WHERE (started_at, id) < ($2, $3)`
		args = append(args, o.cursor.StartedAt, o.cursor.ID)
	}
	query += `
		ORDER BY started_at DESC, id DESC
		LIMIT $1`

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run        Run
		exclusions []byte
	)
	if err := row.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.EntriesIn,
		&run.EntriesScored, &run.EntriesExcluded, &run.HighRisk, &run.MaxScore,
		&exclusions); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(exclusions, &run.Exclusions); err != nil {
		return nil, fmt.Errorf("unmarshal exclusions for run %s: %w", run.ID, err)
	}
	run.StartedAt = run.StartedAt.UTC()
	run.FinishedAt = run.FinishedAt.UTC()
	return &run, nil
}

func exclusionsOrEmpty(ex []ledger.EntryError) []ledger.EntryError {
	if ex == nil {
		return []ledger.EntryError{}
	}
	return ex
}
