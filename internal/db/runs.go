package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/parcelwatch/internal/diffing"
	"github.com/jonathan/parcelwatch/internal/records"
)

// CreateRun captures a snapshot of every current item under a new run, all
// in one transaction: the run row, the item read and the snapshot rows
// commit or roll back together. Returns the new run and how many items it
// captured.
func (db *DB) CreateRun(ctx context.Context) (diffing.Run, int, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return diffing.Run{}, 0, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var run diffing.Run
	err = tx.QueryRow(ctx,
		`INSERT INTO runs DEFAULT VALUES RETURNING id, created_at`,
	).Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		return diffing.Run{}, 0, fmt.Errorf("failed to create run: %w", err)
	}

	itemRows, err := tx.Query(ctx, `SELECT `+itemColumns+` FROM items`)
	if err != nil {
		return diffing.Run{}, 0, fmt.Errorf("failed to read items for snapshot: %w", err)
	}
	items, err := collectItems(itemRows)
	if err != nil {
		return diffing.Run{}, 0, err
	}

	snapshotRows := make([][]any, 0, len(items))
	for _, r := range items {
		snapshotRows = append(snapshotRows, []any{
			run.ID, r.ID, records.Key(r), records.Fingerprint(r),
		})
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"snapshots"},
		[]string{"run_id", "item_id", "key", "hash"},
		pgx.CopyFromRows(snapshotRows),
	)
	if err != nil {
		return diffing.Run{}, 0, fmt.Errorf("failed to copy snapshot rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return diffing.Run{}, 0, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return run, len(items), nil
}

// LastRuns returns the most recent n runs, newest first.
func (db *DB) LastRuns(ctx context.Context, n int) ([]diffing.Run, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, created_at FROM runs ORDER BY id DESC LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []diffing.Run
	for rows.Next() {
		var run diffing.Run
		if err := rows.Scan(&run.ID, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return out, nil
}

// SnapshotEntries returns the snapshot rows captured under runID.
func (db *DB) SnapshotEntries(ctx context.Context, runID int64) ([]diffing.Entry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT item_id, key, hash FROM snapshots WHERE run_id = $1`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot for run %d: %w", runID, err)
	}
	defer rows.Close()

	var out []diffing.Entry
	for rows.Next() {
		var e diffing.Entry
		if err := rows.Scan(&e.ItemID, &e.Key, &e.Hash); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot rows: %w", err)
	}
	return out, nil
}
